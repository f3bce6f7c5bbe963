package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fittrackapp/backend/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type metricsRepo interface {
	UpsertProfile(ctx context.Context, user User) (*User, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*User, error)
	SetAvatarURL(ctx context.Context, id uuid.UUID, url string) error
	SaveMetrics(ctx context.Context, rec MetricsRecord) (*MetricsRecord, error)
	GetMetrics(ctx context.Context, userID uuid.UUID) (*MetricsRecord, error)
	AddWeightHistory(ctx context.Context, userID uuid.UUID, weightKg float64) error
}

type objectStorage interface {
	Upload(ctx context.Context, objectPath string, reader io.Reader, size int64, contentType string) (string, error)
}

type identityProvider interface {
	UpdateUserMetadata(ctx context.Context, userID uuid.UUID, metadata map[string]string) error
}

// Service is the user profile and body metrics store. It owns the
// height unit conversion boundary: callers exchange centimeters,
// the repo persists meters.
type Service struct {
	repo     metricsRepo
	storage  objectStorage
	identity identityProvider

	// ability to inject upload timestamps (for unit testing)
	NowFunc func() time.Time
}

func NewService(repo metricsRepo, storage objectStorage, identity identityProvider) *Service {
	return &Service{
		repo:     repo,
		storage:  storage,
		identity: identity,
		NowFunc:  time.Now,
	}
}

func (s *Service) CreateOrUpdateProfile(ctx context.Context, user User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profile.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	persisted, err := s.repo.UpsertProfile(ctx, user)
	if err != nil {
		log.Errorf("upsert profile %s: %s", user.ID, err)
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return persisted, nil
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profile.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.repo.GetProfile(ctx, id)
}

// SaveMetrics persists the body metrics of a user. Height comes in
// centimeters and is stored in meters; BMI is computed when not
// supplied. A denormalized weight history row is appended as a
// best-effort side effect: its failure is logged and does not fail
// the save (the upsert and the append are deliberately not atomic).
func (s *Service) SaveMetrics(ctx context.Context, userID uuid.UUID, m UserMetrics) (_ *UserMetrics, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profile.saveMetrics")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	if m.WeightKg <= 0 {
		return nil, errors.New("weight must be greater than 0")
	}
	if m.HeightCm <= 0 {
		return nil, errors.New("height must be greater than 0")
	}

	m.UserID = userID
	if m.BMI == 0 {
		m.BMI = ComputeBMI(m.WeightKg, m.HeightCm)
	}

	persisted, err := s.repo.SaveMetrics(ctx, m.toRecord())
	if err != nil {
		log.Errorf("save metrics for %s: %s", userID, err)
		return nil, fmt.Errorf("save metrics: %w", err)
	}

	if err := s.repo.AddWeightHistory(ctx, userID, m.WeightKg); err != nil {
		log.Errorf("append weight history for %s (non-fatal): %s", userID, err)
	}

	return persisted.toMetrics(), nil
}

// GetMetrics returns the metrics of a user, height converted back to
// centimeters. A user with no metrics row yet yields (nil, nil) - the
// absence of metrics is not an error.
func (s *Service) GetMetrics(ctx context.Context, userID uuid.UUID) (_ *UserMetrics, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profile.getMetrics")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	rec, err := s.repo.GetMetrics(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrMetricsNotFound) {
			return nil, nil
		}
		log.Errorf("get metrics for %s: %s", userID, err)
		return nil, fmt.Errorf("get metrics: %w", err)
	}
	return rec.toMetrics(), nil
}

// UploadProfilePhoto stores the photo bytes under a user-scoped,
// timestamp-derived path and propagates the resulting public URL into
// both the identity provider user metadata and the profile record.
func (s *Service) UploadProfilePhoto(
	ctx context.Context,
	userID uuid.UUID,
	photo io.Reader,
	size int64,
	contentType string,
) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.profile.uploadPhoto")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	objectPath := fmt.Sprintf("avatars/%s/%d%s", userID, s.NowFunc().UnixNano(), extensionFor(contentType))
	url, err := s.storage.Upload(ctx, objectPath, photo, size, contentType)
	if err != nil {
		log.Errorf("upload profile photo for %s: %s", userID, err)
		return "", fmt.Errorf("upload profile photo: %w", err)
	}

	if err := s.identity.UpdateUserMetadata(ctx, userID, map[string]string{"avatar_url": url}); err != nil {
		log.Errorf("propagate avatar url to user metadata for %s: %s", userID, err)
		return "", fmt.Errorf("update user metadata: %w", err)
	}

	if err := s.repo.SetAvatarURL(ctx, userID, url); err != nil {
		log.Errorf("propagate avatar url to profile for %s: %s", userID, err)
		return "", fmt.Errorf("set avatar url: %w", err)
	}

	return url, nil
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
