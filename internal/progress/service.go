package progress

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fittrackapp/backend/internal/telemetry/metrics"
	"github.com/fittrackapp/backend/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// SignedURLExpiry is how long a minted photo display link stays valid.
const SignedURLExpiry = time.Hour

type progressRepo interface {
	Sessions(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]WorkoutSession, error)
	AddPhoto(ctx context.Context, photo ProgressPhoto) (*ProgressPhoto, error)
	ListPhotos(ctx context.Context, userID uuid.UUID) ([]ProgressPhoto, error)
	UpdatePhoto(ctx context.Context, id int64, update PhotoUpdate) (*ProgressPhoto, error)
	PhotoPaths(ctx context.Context, userID uuid.UUID, ids []int64) (map[int64]string, error)
	DeletePhotos(ctx context.Context, userID uuid.UUID, ids []int64) (int64, error)
	ExerciseHistory(ctx context.Context, userID uuid.UUID, exerciseID string) ([]ExerciseSet, error)
}

type objectStorage interface {
	Upload(ctx context.Context, objectPath string, reader io.Reader, size int64, contentType string) (string, error)
	SignURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
	Remove(ctx context.Context, objectPath string) error
}

// Service is the progress tracking store: time-windowed workout
// session queries, progress photo management, per-exercise history.
type Service struct {
	repo           progressRepo
	storage        objectStorage
	metricsManager *metrics.Manager

	NowFunc func() time.Time
}

func NewService(repo progressRepo, storage objectStorage, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:           repo,
		storage:        storage,
		metricsManager: metricsManager,
		NowFunc:        time.Now,
	}
}

// DailyProgress returns the sessions finished on the local calendar
// day of the given date, newest first.
func (s *Service) DailyProgress(ctx context.Context, userID uuid.UUID, date time.Time) ([]WorkoutSession, error) {
	from, to := DayWindow(date)
	return s.repo.Sessions(ctx, userID, from, to)
}

// WeeklyProgress returns the sessions finished since Sunday midnight.
func (s *Service) WeeklyProgress(ctx context.Context, userID uuid.UUID) ([]WorkoutSession, error) {
	from, to := WeekWindow(s.NowFunc())
	return s.repo.Sessions(ctx, userID, from, to)
}

// MonthlyProgress returns the sessions finished in the given month,
// defaulting to the current one when year or month is zero.
func (s *Service) MonthlyProgress(ctx context.Context, userID uuid.UUID, year int, month time.Month) ([]WorkoutSession, error) {
	from, to := MonthWindow(s.NowFunc(), year, month)
	return s.repo.Sessions(ctx, userID, from, to)
}

// Photos lists the progress photos of a user, newest first, each URL
// replaced with a freshly minted signed link. Minting failures leave
// the affected photo with its stored URL instead of failing the list.
func (s *Service) Photos(ctx context.Context, userID uuid.UUID) (_ []ProgressPhoto, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.photos")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	photos, err := s.repo.ListPhotos(ctx, userID)
	if err != nil {
		log.Errorf("list progress photos for %s: %s", userID, err)
		return nil, fmt.Errorf("list progress photos: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	for i := range photos {
		g.Go(func() error {
			signedURL, signErr := s.storage.SignURL(gCtx, photos[i].ObjectPath, SignedURLExpiry)
			if signErr != nil {
				log.Errorf("sign url for photo %d (keeping stored url): %s", photos[i].ID, signErr)
				s.metricsManager.CounterSignedURLFailures.Inc()
				return nil
			}
			photos[i].URL = signedURL
			return nil
		})
	}
	// goroutines never return an error, the wait is a join
	_ = g.Wait()

	return photos, nil
}

// UploadPhoto stores the photo bytes under a user-scoped timestamped
// path and inserts a row referencing the durable public URL. The
// returned photo carries a signed display link instead; the persisted
// URL and the returned one intentionally differ.
func (s *Service) UploadPhoto(
	ctx context.Context,
	userID uuid.UUID,
	photo io.Reader,
	size int64,
	contentType string,
	takenAt time.Time,
	comment string,
) (_ *ProgressPhoto, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.uploadPhoto")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	objectPath := fmt.Sprintf("progress/%s/%d%s", userID, s.NowFunc().UnixNano(), extensionFor(contentType))
	publicURL, err := s.storage.Upload(ctx, objectPath, photo, size, contentType)
	if err != nil {
		log.Errorf("upload progress photo for %s: %s", userID, err)
		return nil, fmt.Errorf("upload progress photo: %w", err)
	}

	if takenAt.IsZero() {
		takenAt = s.NowFunc()
	}

	added, err := s.repo.AddPhoto(ctx, ProgressPhoto{
		UserID:     userID,
		ObjectPath: objectPath,
		URL:        publicURL,
		Comment:    comment,
		CreatedAt:  takenAt,
	})
	if err != nil {
		log.Errorf("insert progress photo for %s: %s", userID, err)
		return nil, fmt.Errorf("insert progress photo: %w", err)
	}

	if signedURL, signErr := s.storage.SignURL(ctx, objectPath, SignedURLExpiry); signErr != nil {
		log.Errorf("sign url for fresh photo %d (keeping public url): %s", added.ID, signErr)
		s.metricsManager.CounterSignedURLFailures.Inc()
	} else {
		added.URL = signedURL
	}

	return added, nil
}

func (s *Service) UpdatePhoto(ctx context.Context, id int64, update PhotoUpdate) (_ *ProgressPhoto, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.updatePhoto")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	updated, err := s.repo.UpdatePhoto(ctx, id, update)
	if err != nil {
		log.Errorf("update progress photo %d: %s", id, err)
		return nil, err
	}
	return updated, nil
}

// DeletePhotos removes photos in bulk. Storage objects are removed
// first, best-effort: removal failures are logged and the database
// rows are deleted regardless. A failed row delete after a successful
// object removal leaves no way back, the inconsistency window is a
// known limitation.
func (s *Service) DeletePhotos(ctx context.Context, userID uuid.UUID, ids []int64) (deleted int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.deletePhotos")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	if len(ids) == 0 {
		return 0, nil
	}

	paths, err := s.repo.PhotoPaths(ctx, userID, ids)
	if err != nil {
		log.Errorf("resolve photo paths for %s: %s", userID, err)
		return 0, fmt.Errorf("resolve photo paths: %w", err)
	}

	var removeErrs error
	for id, path := range paths {
		if removeErr := s.storage.Remove(ctx, path); removeErr != nil {
			removeErrs = multierr.Append(removeErrs, fmt.Errorf("remove object of photo %d: %w", id, removeErr))
		}
	}
	if removeErrs != nil {
		log.Errorf("remove photo objects for %s (rows deleted anyway): %s", userID, removeErrs)
	}

	deleted, err = s.repo.DeletePhotos(ctx, userID, ids)
	if err != nil {
		log.Errorf("delete photo rows for %s: %s", userID, err)
		return 0, fmt.Errorf("delete photo rows: %w", err)
	}

	return deleted, nil
}

// ExerciseHistory returns all recorded sets of one exercise across
// the user's sessions, newest first.
func (s *Service) ExerciseHistory(ctx context.Context, userID uuid.UUID, exerciseID string) ([]ExerciseSet, error) {
	return s.repo.ExerciseHistory(ctx, userID, exerciseID)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	default:
		return ".bin"
	}
}
