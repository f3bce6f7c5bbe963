package progress

import (
	"time"

	"github.com/google/uuid"
)

// ExerciseSet is a single performed set of a scheduled exercise.
type ExerciseSet struct {
	ID                  int64     `json:"id"`
	ScheduledExerciseID int64     `json:"scheduledExerciseId"`
	Reps                int       `json:"reps"`
	WeightKg            float64   `json:"weightKg"`
	CreatedAt           time.Time `json:"createdAt"`
}

// ScheduledExercise is an exercise performed within a workout session.
type ScheduledExercise struct {
	ID         int64         `json:"id"`
	SessionID  int64         `json:"sessionId"`
	ExerciseID string        `json:"exerciseId"`
	Sets       []ExerciseSet `json:"sets"`
}

// WorkoutSession groups the scheduled exercises performed in one go.
// EndedAt stays nil while the session is still in progress.
type WorkoutSession struct {
	ID           int64               `json:"id"`
	RoutineDayID int64               `json:"routineDayId"`
	StartedAt    time.Time           `json:"startedAt"`
	EndedAt      *time.Time          `json:"endedAt,omitempty"`
	Exercises    []ScheduledExercise `json:"exercises"`
}

// ProgressPhoto is a stored progress photo row. ObjectPath is the
// storage location, URL is the durable public link persisted with the
// row. The URL returned to callers is a short-lived signed link minted
// on every read and never written back.
type ProgressPhoto struct {
	ID         int64     `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	ObjectPath string    `json:"-"`
	URL        string    `json:"url"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// PhotoUpdate carries the partial-update fields for a photo row.
// Nil fields are left untouched.
type PhotoUpdate struct {
	Comment   *string    `json:"comment,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}
