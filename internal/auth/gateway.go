package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fittrackapp/backend/pkg"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultSessionTTL = 24 * 7 * time.Hour

	sessionKeyPrefix = "fittrack-session||"
	tokensSetKey     = "fittrack-sessions"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

type User struct {
	ID        uuid.UUID         `json:"id"`
	Email     string            `json:"email"`
	FullName  string            `json:"fullName"`
	Metadata  map[string]string `json:"metadata"`
	CreatedAt time.Time         `json:"createdAt"`
}

type Session struct {
	Token     string    `json:"token"`
	User      *User     `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

type EventType string

const (
	EventSignedIn    EventType = "signed-in"
	EventSignedOut   EventType = "signed-out"
	EventUserUpdated EventType = "user-updated"
)

type Event struct {
	Type EventType
	User *User
}

type usersRepo interface {
	Create(ctx context.Context, email, fullName, passwordHash string) (*User, error)
	GetByEmail(ctx context.Context, email string) (_ *User, passwordHash string, err error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateMetadata(ctx context.Context, id uuid.UUID, metadata map[string]string) (*User, error)
}

// Gateway wraps the identity provider: email/password sign-in and
// sign-up, session retrieval and auth-state-change subscription.
// Credentials live in postgres, session tokens in redis
// (one key per token, plus a set of all tokens for cleanup).
type Gateway struct {
	repo        usersRepo
	redisClient *redis.Client
	ttl         time.Duration

	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
	// ability to inject session creation time (for unit testing)
	NowFunc func() time.Time

	mu          sync.Mutex
	subscribers map[int]func(Event)
	nextSubID   int
}

func NewGateway(repo usersRepo, ttl time.Duration, redisClient *redis.Client) *Gateway {
	return &Gateway{
		repo:           repo,
		redisClient:    redisClient,
		ttl:            ttl,
		RandStringFunc: pkg.GenerateRandomString,
		NowFunc:        time.Now,
		subscribers:    make(map[int]func(Event)),
	}
}

func (g *Gateway) SignInWithEmail(ctx context.Context, email, password string) (*Session, error) {
	user, passwordHash, err := g.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !pkg.CheckPasswordHash(password, passwordHash) {
		return nil, ErrInvalidCredentials
	}

	session, err := g.startSession(ctx, user, g.NowFunc())
	if err != nil {
		return nil, err
	}

	g.notify(Event{Type: EventSignedIn, User: user})
	return session, nil
}

func (g *Gateway) SignUpWithEmail(ctx context.Context, email, password, fullName string) (*Session, error) {
	passwordHash, err := pkg.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := g.repo.Create(ctx, email, fullName, passwordHash)
	if err != nil {
		return nil, err
	}

	session, err := g.startSession(ctx, user, g.NowFunc())
	if err != nil {
		return nil, err
	}

	g.notify(Event{Type: EventSignedIn, User: user})
	return session, nil
}

// SignOut removes the session; provider errors are logged and suppressed.
func (g *Gateway) SignOut(ctx context.Context, token string) {
	sessionKey := sessionKeyPrefix + token
	if err := g.redisClient.Del(ctx, sessionKey).Err(); err != nil {
		log.Errorf("sign out, delete session: %s", err)
	}
	if err := g.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		log.Errorf("sign out, remove token from sessions set: %s", err)
	}

	g.notify(Event{Type: EventSignedOut})
}

func (g *Gateway) GetSession(ctx context.Context, token string) (*Session, error) {
	sessionKey := sessionKeyPrefix + token
	cmd := g.redisClient.Get(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	userID, createdAt, err := parseSessionValue(cmd.Val())
	if err != nil {
		return nil, err
	}

	if time.Since(createdAt) > g.ttl {
		return nil, ErrSessionExpired
	}

	user, err := g.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     token,
		User:      user,
		CreatedAt: createdAt,
	}, nil
}

// UpdateUserMetadata merges the given attributes into the user metadata
// and notifies auth-state subscribers. Used to store a custom avatar URL.
func (g *Gateway) UpdateUserMetadata(ctx context.Context, userID uuid.UUID, metadata map[string]string) error {
	user, err := g.repo.UpdateMetadata(ctx, userID, metadata)
	if err != nil {
		return err
	}

	g.notify(Event{Type: EventUserUpdated, User: user})
	return nil
}

// OnAuthStateChange registers a listener for auth-state events and returns
// an unsubscribe handle. Listeners are invoked asynchronously and may fire
// multiple times over the process lifetime.
func (g *Gateway) OnAuthStateChange(fn func(Event)) (unsubscribe func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.nextSubID
	g.nextSubID++
	g.subscribers[id] = fn

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.subscribers, id)
	}
}

// ScanAndClean will run through all sessions, check the TTL, and remove the expired ones.
func (g *Gateway) ScanAndClean(ctx context.Context) {
	cmd := g.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("auth gateway, scan and clean, get sessions: %s", err)
		return
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		return
	}

	log.Debugf("auth gateway, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		sessionKey := sessionKeyPrefix + token
		cmd := g.redisClient.Get(ctx, sessionKey)
		if err := cmd.Err(); err != nil {
			log.Errorf("auth gateway, scan and clean token %s: %s", token, err)
			continue
		}

		_, createdAt, err := parseSessionValue(cmd.Val())
		if err != nil {
			log.Errorf("auth gateway, scan and clean token %s: %s", token, err)
			continue
		}

		if time.Since(createdAt) > g.ttl {
			toRemove = append(toRemove, token)
		}
	}

	for _, token := range toRemove {
		sessionKey := sessionKeyPrefix + token
		if err := g.redisClient.Del(ctx, sessionKey).Err(); err != nil {
			log.Errorf("auth gateway, clean token %s: %s", token, err)
			continue
		}
		if err := g.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("auth gateway, clean token %s: %s", token, err)
		}
	}
}

func (g *Gateway) startSession(ctx context.Context, user *User, createdAt time.Time) (*Session, error) {
	token, err := g.RandStringFunc(35)
	if err != nil {
		return nil, err
	}

	sessionKey := sessionKeyPrefix + token
	sessionVal := sessionValue(user.ID, createdAt)
	if err := g.redisClient.Set(ctx, sessionKey, sessionVal, 0).Err(); err != nil {
		return nil, err
	}

	// add token to the set of all sessions
	if err := g.redisClient.SAdd(ctx, tokensSetKey, token).Err(); err != nil {
		return nil, err
	}

	return &Session{
		Token:     token,
		User:      user,
		CreatedAt: createdAt,
	}, nil
}

func (g *Gateway) notify(event Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, fn := range g.subscribers {
		go fn(event)
	}
}

func sessionValue(userID uuid.UUID, createdAt time.Time) string {
	return fmt.Sprintf("%s|%d", userID, createdAt.Unix())
}

func parseSessionValue(val string) (uuid.UUID, time.Time, error) {
	parts := strings.SplitN(val, "|", 2)
	if len(parts) != 2 {
		return uuid.Nil, time.Time{}, fmt.Errorf("malformed session value: %s", val)
	}
	userID, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("malformed session user id: %w", err)
	}
	createdAtUnix, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("malformed session timestamp: %w", err)
	}
	return userID, time.Unix(createdAtUnix, 0), nil
}
