package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fittrackapp/backend/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

type UsersRepo struct {
	db *pgxpool.Pool
}

func NewUsersRepo(db *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{
		db: db,
	}
}

func (r *UsersRepo) Create(ctx context.Context, email, fullName, passwordHash string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user := &User{
		ID:        uuid.New(),
		Email:     email,
		FullName:  fullName,
		Metadata:  map[string]string{"full_name": fullName},
		CreatedAt: time.Now(),
	}

	metadataJson, err := json.Marshal(user.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `
		INSERT INTO users (id, email, full_name, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5);`,
		user.ID, user.Email, user.FullName, metadataJson, user.CreatedAt,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO user_credentials (user_id, password_hash)
		VALUES ($1, $2);`,
		user.ID, passwordHash,
	); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (_ *User, passwordHash string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getByEmail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user := &User{}
	var metadataBytes []byte
	err = r.db.QueryRow(ctx, `
		SELECT u.id, u.email, u.full_name, u.metadata, u.created_at, c.password_hash
		FROM users u
		JOIN user_credentials c ON c.user_id = u.id
		WHERE u.email = $1;`,
		email,
	).Scan(&user.ID, &user.Email, &user.FullName, &metadataBytes, &user.CreatedAt, &passwordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	if user.Metadata, err = unmarshalMetadata(metadataBytes); err != nil {
		return nil, "", err
	}

	return user, passwordHash, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id uuid.UUID) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getByID")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user := &User{}
	var metadataBytes []byte
	err = r.db.QueryRow(ctx, `
		SELECT id, email, full_name, metadata, created_at
		FROM users
		WHERE id = $1;`,
		id,
	).Scan(&user.ID, &user.Email, &user.FullName, &metadataBytes, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.Metadata, err = unmarshalMetadata(metadataBytes); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateMetadata merges the given attributes into the stored user metadata.
func (r *UsersRepo) UpdateMetadata(ctx context.Context, id uuid.UUID, metadata map[string]string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.updateMetadata")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	metadataJson, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	user := &User{}
	var metadataBytes []byte
	err = r.db.QueryRow(ctx, `
		UPDATE users
		SET metadata = COALESCE(metadata, '{}'::jsonb) || $2::jsonb
		WHERE id = $1
		RETURNING id, email, full_name, metadata, created_at;`,
		id, metadataJson,
	).Scan(&user.ID, &user.Email, &user.FullName, &metadataBytes, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.Metadata, err = unmarshalMetadata(metadataBytes); err != nil {
		return nil, err
	}

	return user, nil
}

func unmarshalMetadata(metadataBytes []byte) (map[string]string, error) {
	metadata := make(map[string]string)
	if len(metadataBytes) == 0 {
		return metadata, nil
	}
	if err := json.Unmarshal(metadataBytes, &metadata); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return metadata, nil
}
