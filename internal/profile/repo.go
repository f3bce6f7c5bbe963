package profile

import (
	"context"
	"errors"
	"time"

	"github.com/fittrackapp/backend/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrMetricsNotFound = errors.New("metrics not found")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// UpsertProfile is an idempotent insert-or-update keyed by the user id,
// writing the email and display name.
func (r *Repo) UpsertProfile(ctx context.Context, user User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", user.ID.String()))

	persisted := &User{}
	err = r.db.QueryRow(ctx, `
		INSERT INTO users (id, email, full_name, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
			SET email = EXCLUDED.email, full_name = EXCLUDED.full_name
		RETURNING
			id, email, full_name,
			COALESCE(metadata->>'avatar_url', ''),
			COALESCE(avatar_url, ''),
			created_at;`,
		user.ID, user.Email, user.FullName, time.Now(),
	).Scan(
		&persisted.ID, &persisted.Email, &persisted.FullName,
		&persisted.AvatarURL, &persisted.CustomAvatarURL, &persisted.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return persisted, nil
}

func (r *Repo) GetProfile(ctx context.Context, id uuid.UUID) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", id.String()))

	user := &User{}
	err = r.db.QueryRow(ctx, `
		SELECT
			id, email, full_name,
			COALESCE(metadata->>'avatar_url', ''),
			COALESCE(avatar_url, ''),
			created_at
		FROM users
		WHERE id = $1;`,
		id,
	).Scan(
		&user.ID, &user.Email, &user.FullName,
		&user.AvatarURL, &user.CustomAvatarURL, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *Repo) SetAvatarURL(ctx context.Context, id uuid.UUID, url string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.setAvatarURL")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", id.String()))

	tag, err := r.db.Exec(ctx, `
		UPDATE users SET avatar_url = $2 WHERE id = $1;`,
		id, url,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// SaveMetrics upserts the single metrics row of a user.
// Height is expected in meters here, per the persistence contract.
func (r *Repo) SaveMetrics(ctx context.Context, rec MetricsRecord) (_ *MetricsRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.saveMetrics")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", rec.UserID.String()))

	persisted := &MetricsRecord{}
	err = r.db.QueryRow(ctx, `
		INSERT INTO user_metrics (user_id, weight_kg, height_m, body_fat_pct, bmi, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
			SET weight_kg = EXCLUDED.weight_kg,
				height_m = EXCLUDED.height_m,
				body_fat_pct = EXCLUDED.body_fat_pct,
				bmi = EXCLUDED.bmi,
				updated_at = EXCLUDED.updated_at
		RETURNING user_id, weight_kg, height_m, body_fat_pct, bmi, updated_at;`,
		rec.UserID, rec.WeightKg, rec.HeightM, rec.BodyFatPct, rec.BMI, time.Now(),
	).Scan(
		&persisted.UserID, &persisted.WeightKg, &persisted.HeightM,
		&persisted.BodyFatPct, &persisted.BMI, &persisted.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return persisted, nil
}

func (r *Repo) GetMetrics(ctx context.Context, userID uuid.UUID) (_ *MetricsRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.getMetrics")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	rec := &MetricsRecord{}
	err = r.db.QueryRow(ctx, `
		SELECT user_id, weight_kg, height_m, body_fat_pct, bmi, updated_at
		FROM user_metrics
		WHERE user_id = $1;`,
		userID,
	).Scan(
		&rec.UserID, &rec.WeightKg, &rec.HeightM,
		&rec.BodyFatPct, &rec.BMI, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMetricsNotFound
		}
		return nil, err
	}
	return rec, nil
}

// AddWeightHistory appends a denormalized weight history row.
func (r *Repo) AddWeightHistory(ctx context.Context, userID uuid.UUID, weightKg float64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.addWeightHistory")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(ctx, `
		INSERT INTO weight_history (user_id, weight_kg, created_at)
		VALUES ($1, $2, $3);`,
		userID, weightKg, time.Now(),
	)
	return err
}
