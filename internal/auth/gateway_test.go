package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var (
	testPassword     = "sr"
	testPasswordHash = "$2a$14$z8cd4yJpzP40Qh2F2BhiMO.sOm4YAIaf30pmUKLOaISojD9HnXgaG" // sr
	testUser         = &User{
		ID:       uuid.MustParse("6a0d4f2e-8b6b-4c6e-9a3f-0a9b5bd0f3b1"),
		Email:    "gym.rat@fittrack.test",
		FullName: "Gym Rat",
		Metadata: map[string]string{"full_name": "Gym Rat"},
	}
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

type fakeUsersRepo struct {
	userByEmail  *User
	passwordHash string
	userByID     *User
	createdUser  *User
	createErr    error
	getErr       error
}

func (f *fakeUsersRepo) Create(_ context.Context, email, fullName, passwordHash string) (*User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdUser = &User{
		ID:       uuid.New(),
		Email:    email,
		FullName: fullName,
		Metadata: map[string]string{"full_name": fullName},
	}
	f.passwordHash = passwordHash
	return f.createdUser, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*User, string, error) {
	if f.getErr != nil {
		return nil, "", f.getErr
	}
	if f.userByEmail == nil || f.userByEmail.Email != email {
		return nil, "", ErrUserNotFound
	}
	return f.userByEmail, f.passwordHash, nil
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	if f.userByID == nil || f.userByID.ID != id {
		return nil, ErrUserNotFound
	}
	return f.userByID, nil
}

func (f *fakeUsersRepo) UpdateMetadata(_ context.Context, id uuid.UUID, metadata map[string]string) (*User, error) {
	if f.userByID == nil || f.userByID.ID != id {
		return nil, ErrUserNotFound
	}
	for k, v := range metadata {
		f.userByID.Metadata[k] = v
	}
	return f.userByID, nil
}

func TestGateway_SignInWithEmail(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	repo := &fakeUsersRepo{
		userByEmail:  testUser,
		passwordHash: testPasswordHash,
	}
	gateway := NewGateway(repo, time.Hour, rdb)

	testToken := "test_token"
	gateway.RandStringFunc = func(s int) (string, error) {
		return testToken, nil
	}
	now := time.Now()
	gateway.NowFunc = func() time.Time { return now }

	sessionKey := sessionKeyPrefix + testToken
	mock.ExpectSet(sessionKey, sessionValue(testUser.ID, now), 0).SetVal("OK")
	mock.ExpectSAdd(tokensSetKey, testToken).SetVal(1)

	session, err := gateway.SignInWithEmail(context.Background(), testUser.Email, testPassword)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, testToken, session.Token)
	assert.Equal(t, testUser.ID, session.User.ID)

	// wrong password
	session, err = gateway.SignInWithEmail(context.Background(), testUser.Email, "invalid_pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, session)

	// unknown email is masked as invalid credentials too
	session, err = gateway.SignInWithEmail(context.Background(), "nobody@fittrack.test", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, session)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGateway_GetSession(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	repo := &fakeUsersRepo{userByID: testUser}
	gateway := NewGateway(repo, time.Hour, rdb)

	token := "session_token"
	sessionKey := sessionKeyPrefix + token

	now := time.Now()
	mock.ExpectGet(sessionKey).SetVal(sessionValue(testUser.ID, now))
	session, err := gateway.GetSession(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, testUser.ID, session.User.ID)
	assert.Equal(t, now.Unix(), session.CreatedAt.Unix())

	// expired session
	then := now.Add(-2 * time.Hour)
	mock.ExpectGet(sessionKey).SetVal(sessionValue(testUser.ID, then))
	session, err = gateway.GetSession(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Nil(t, session)

	// unknown session
	mock.ExpectGet(sessionKey).RedisNil()
	session, err = gateway.GetSession(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Nil(t, session)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGateway_SignOut(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	gateway := NewGateway(&fakeUsersRepo{}, time.Hour, rdb)

	events := make(chan Event, 1)
	unsubscribe := gateway.OnAuthStateChange(func(e Event) {
		events <- e
	})
	defer unsubscribe()

	token := "session_token"
	mock.ExpectDel(sessionKeyPrefix + token).SetVal(1)
	mock.ExpectSRem(tokensSetKey, token).SetVal(1)

	gateway.SignOut(context.Background(), token)

	select {
	case e := <-events:
		assert.Equal(t, EventSignedOut, e.Type)
	case <-time.After(time.Second):
		t.Fatal("auth state change not delivered")
	}

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGateway_SignOut_SuppressesErrors(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	gateway := NewGateway(&fakeUsersRepo{}, time.Hour, rdb)

	token := "session_token"
	mock.ExpectDel(sessionKeyPrefix + token).SetErr(errors.New("redis down"))
	mock.ExpectSRem(tokensSetKey, token).SetErr(errors.New("redis down"))

	// must not panic nor propagate anything
	gateway.SignOut(context.Background(), token)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGateway_UpdateUserMetadata(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	defer rdb.Close()

	user := &User{
		ID:       uuid.New(),
		Email:    "gym.rat@fittrack.test",
		Metadata: map[string]string{},
	}
	repo := &fakeUsersRepo{userByID: user}
	gateway := NewGateway(repo, time.Hour, rdb)

	events := make(chan Event, 1)
	unsubscribe := gateway.OnAuthStateChange(func(e Event) {
		events <- e
	})
	defer unsubscribe()

	avatarURL := "https://cdn.fittrack.test/fittrack/avatars/some-user/1.jpg"
	require.NoError(t, gateway.UpdateUserMetadata(
		context.Background(), user.ID, map[string]string{"avatar_url": avatarURL},
	))
	assert.Equal(t, avatarURL, user.Metadata["avatar_url"])

	select {
	case e := <-events:
		assert.Equal(t, EventUserUpdated, e.Type)
		require.NotNil(t, e.User)
		assert.Equal(t, avatarURL, e.User.Metadata["avatar_url"])
	case <-time.After(time.Second):
		t.Fatal("auth state change not delivered")
	}
}

func TestGateway_ScanAndClean(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	gateway := NewGateway(&fakeUsersRepo{}, time.Hour, rdb)

	now := time.Now()
	then := now.Add(-2 * time.Hour)

	t1, t2 := "token1", "token2"
	mock.ExpectSMembers(tokensSetKey).SetVal([]string{t1, t2})
	mock.ExpectGet(sessionKeyPrefix + t1).SetVal(sessionValue(testUser.ID, then))
	mock.ExpectGet(sessionKeyPrefix + t2).SetVal(sessionValue(testUser.ID, now))
	// only t1 is old enough to be cleaned
	mock.ExpectDel(sessionKeyPrefix + t1).SetVal(1)
	mock.ExpectSRem(tokensSetKey, t1).SetVal(1)

	gateway.ScanAndClean(context.Background())
	require.NoError(t, mock.ExpectationsWereMet())
}
