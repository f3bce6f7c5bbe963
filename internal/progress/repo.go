package progress

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

var ErrPhotoNotFound = errors.New("progress photo not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Sessions returns the finished workout sessions of a user whose end
// time falls within [from, to], newest first, with the scheduled
// exercises and their sets nested in. Sessions still in progress
// (null end time) never match the window.
func (r *Repo) Sessions(ctx context.Context, userID uuid.UUID, from, to time.Time) (_ []WorkoutSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.sessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				ws.id, ws.routine_day_id, ws.started_at, ws.ended_at,
				se.id, se.exercise_id,
				es.id, es.reps, es.weight_kg, es.created_at
			FROM workout_sessions ws
				INNER JOIN routine_days rd ON rd.id = ws.routine_day_id
				INNER JOIN weekly_routines wr ON wr.id = rd.routine_id
				LEFT JOIN scheduled_exercises se ON se.session_id = ws.id
				LEFT JOIN exercise_sets es ON es.scheduled_exercise_id = se.id
			WHERE wr.user_id = $1
				AND ws.ended_at IS NOT NULL
				AND ws.ended_at >= $2 AND ws.ended_at <= $3
			ORDER BY ws.ended_at DESC, se.id ASC, es.created_at ASC;`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2sessions(rows)
}

func (r *Repo) AddPhoto(ctx context.Context, photo ProgressPhoto) (_ *ProgressPhoto, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.addPhoto")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO progress_photos (user_id, object_path, url, comment, created_at)
			VALUES ($1, $2, $3, $4, $5)
		RETURNING id;`,
		photo.UserID, photo.ObjectPath, photo.URL, photo.Comment, photo.CreatedAt,
	).Scan(&photo.ID)
	if err != nil {
		return nil, err
	}

	return &photo, nil
}

// ListPhotos returns all photo rows of a user, newest first.
func (r *Repo) ListPhotos(ctx context.Context, userID uuid.UUID) (_ []ProgressPhoto, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.listPhotos")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, user_id, object_path, url, comment, created_at
			FROM progress_photos
			WHERE user_id = $1
			ORDER BY created_at DESC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2photos(rows)
}

func (r *Repo) UpdatePhoto(ctx context.Context, id int64, update PhotoUpdate) (_ *ProgressPhoto, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.updatePhoto")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var photo ProgressPhoto
	err = r.db.QueryRow(
		ctx,
		`
			UPDATE progress_photos SET
				comment = COALESCE($2::text, comment),
				created_at = COALESCE($3::timestamptz, created_at)
			WHERE id = $1
			RETURNING id, user_id, object_path, url, comment, created_at;`,
		id, update.Comment, update.CreatedAt,
	).Scan(&photo.ID, &photo.UserID, &photo.ObjectPath, &photo.URL, &photo.Comment, &photo.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPhotoNotFound
		}
		return nil, err
	}

	return &photo, nil
}

// PhotoPaths resolves photo IDs of a user to their storage paths.
// IDs with no matching row are simply absent from the result.
func (r *Repo) PhotoPaths(ctx context.Context, userID uuid.UUID, ids []int64) (_ map[int64]string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.photoPaths")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, object_path FROM progress_photos WHERE user_id = $1 AND id = ANY($2);`,
		userID, ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	paths := make(map[int64]string)
	for rows.Next() {
		var id int64
		var path string
		if err := rows.Scan(&id, &path); err != nil {
			return nil, err
		}
		paths[id] = path
	}
	return paths, nil
}

// DeletePhotos removes the photo rows of a user and returns the number
// of rows deleted.
func (r *Repo) DeletePhotos(ctx context.Context, userID uuid.UUID, ids []int64) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.deletePhotos")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM progress_photos WHERE user_id = $1 AND id = ANY($2);`,
		userID, ids,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ExerciseHistory returns all sets of one exercise across the user's
// sessions, newest first.
func (r *Repo) ExerciseHistory(ctx context.Context, userID uuid.UUID, exerciseID string) (_ []ExerciseSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.exerciseHistory")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("exercise.id", exerciseID),
	)

	rows, err := r.db.Query(
		ctx,
		`
			SELECT es.id, es.scheduled_exercise_id, es.reps, es.weight_kg, es.created_at
			FROM exercise_sets es
				INNER JOIN scheduled_exercises se ON se.id = es.scheduled_exercise_id
				INNER JOIN workout_sessions ws ON ws.id = se.session_id
				INNER JOIN routine_days rd ON rd.id = ws.routine_day_id
				INNER JOIN weekly_routines wr ON wr.id = rd.routine_id
			WHERE wr.user_id = $1 AND se.exercise_id = $2
			ORDER BY es.created_at DESC;`,
		userID, exerciseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var sets []ExerciseSet
	for rows.Next() {
		var s ExerciseSet
		if err := rows.Scan(&s.ID, &s.ScheduledExerciseID, &s.Reps, &s.WeightKg, &s.CreatedAt); err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, nil
}

func rows2sessions(rows pgx.Rows) ([]WorkoutSession, error) {
	var sessions []WorkoutSession
	sessionIdx := make(map[int64]int)
	exerciseIdx := make(map[int64]int)

	for rows.Next() {
		var (
			sessionID    int64
			routineDayID int64
			startedAt    time.Time
			endedAt      *time.Time
			seID         *int64
			seExerciseID *string
			setID        *int64
			setReps      *int
			setWeight    *float64
			setCreatedAt *time.Time
		)
		if err := rows.Scan(
			&sessionID, &routineDayID, &startedAt, &endedAt,
			&seID, &seExerciseID,
			&setID, &setReps, &setWeight, &setCreatedAt,
		); err != nil {
			return nil, err
		}

		si, ok := sessionIdx[sessionID]
		if !ok {
			sessions = append(sessions, WorkoutSession{
				ID:           sessionID,
				RoutineDayID: routineDayID,
				StartedAt:    startedAt,
				EndedAt:      endedAt,
			})
			si = len(sessions) - 1
			sessionIdx[sessionID] = si
		}

		if seID == nil {
			continue
		}

		ei, ok := exerciseIdx[*seID]
		if !ok {
			sessions[si].Exercises = append(sessions[si].Exercises, ScheduledExercise{
				ID:         *seID,
				SessionID:  sessionID,
				ExerciseID: *seExerciseID,
			})
			ei = len(sessions[si].Exercises) - 1
			exerciseIdx[*seID] = ei
		}

		if setID == nil {
			continue
		}

		sessions[si].Exercises[ei].Sets = append(sessions[si].Exercises[ei].Sets, ExerciseSet{
			ID:                  *setID,
			ScheduledExerciseID: *seID,
			Reps:                *setReps,
			WeightKg:            *setWeight,
			CreatedAt:           *setCreatedAt,
		})
	}

	return sessions, nil
}

func rows2photos(rows pgx.Rows) ([]ProgressPhoto, error) {
	var photos []ProgressPhoto
	for rows.Next() {
		var p ProgressPhoto
		if err := rows.Scan(&p.ID, &p.UserID, &p.ObjectPath, &p.URL, &p.Comment, &p.CreatedAt); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, nil
}
