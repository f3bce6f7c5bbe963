package profile

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/fittrackapp/backend/internal/auth"
	"github.com/fittrackapp/backend/internal/telemetry/metrics"
	"github.com/fittrackapp/backend/internal/telemetry/tracing"
	"github.com/fittrackapp/backend/pkg"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=profile_mocks_test.go -package=profile_test

const maxAvatarSizeBytes = 10 << 20

type profileService interface {
	CreateOrUpdateProfile(ctx context.Context, user User) (*User, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*User, error)
	SaveMetrics(ctx context.Context, userID uuid.UUID, m UserMetrics) (*UserMetrics, error)
	GetMetrics(ctx context.Context, userID uuid.UUID) (*UserMetrics, error)
	UploadProfilePhoto(ctx context.Context, userID uuid.UUID, photo io.Reader, size int64, contentType string) (string, error)
}

type UploadAvatarResponse struct {
	AvatarURL string `json:"avatarUrl"`
}

type Handler struct {
	service profileService
	metrics *metrics.Manager
}

func NewHandler(service profileService, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		metrics: metricsManager,
	}
}

func (handler *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.get")
	defer span.End()

	user := auth.UserFromContext(ctx)
	if user == nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	p, err := handler.service.GetProfile(ctx, user.ID)
	if err != nil {
		log.Errorf("failed to get profile %s: %s", user.ID, err)
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}

	profileJson, err := json.Marshal(p)
	if err != nil {
		log.Errorf("failed to marshal profile: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, profileJson, http.StatusOK)
}

func (handler *Handler) HandleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.upsert")
	defer span.End()

	user := auth.UserFromContext(ctx)
	if user == nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var p User
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		log.Errorf("upsert profile, unmarshal json params: %s", err)
		http.Error(w, "upsert profile failed", http.StatusBadRequest)
		return
	}

	// profile writes are scoped to the session user
	p.ID = user.ID
	if p.Email == "" {
		p.Email = user.Email
	}

	persisted, err := handler.service.CreateOrUpdateProfile(ctx, p)
	if err != nil {
		log.Errorf("failed to upsert profile %s: %s", user.ID, err)
		http.Error(w, "error, failed to save profile", http.StatusInternalServerError)
		return
	}

	persistedJson, err := json.Marshal(persisted)
	if err != nil {
		log.Errorf("failed to marshal profile: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, persistedJson, http.StatusOK)
}

func (handler *Handler) HandleGetMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.getMetrics")
	defer span.End()

	user := auth.UserFromContext(ctx)
	if user == nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	m, err := handler.service.GetMetrics(ctx, user.ID)
	if err != nil {
		log.Errorf("failed to get metrics %s: %s", user.ID, err)
		http.Error(w, "failed to get metrics", http.StatusInternalServerError)
		return
	}
	if m == nil {
		// users with no metrics saved yet get an empty object, not an error
		pkg.WriteJSONResponseOK(w, "{}")
		return
	}

	metricsJson, err := json.Marshal(m)
	if err != nil {
		log.Errorf("failed to marshal metrics: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, metricsJson, http.StatusOK)
}

func (handler *Handler) HandleSaveMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.saveMetrics")
	defer span.End()

	user := auth.UserFromContext(ctx)
	if user == nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var m UserMetrics
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		log.Errorf("save metrics, unmarshal json params: %s", err)
		http.Error(w, "save metrics failed", http.StatusBadRequest)
		return
	}

	saved, err := handler.service.SaveMetrics(ctx, user.ID, m)
	if err != nil {
		log.Errorf("failed to save metrics for %s: %s", user.ID, err)
		http.Error(w, "error, failed to save metrics", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterMetricsSaved.Inc()

	savedJson, err := json.Marshal(saved)
	if err != nil {
		log.Errorf("failed to marshal metrics: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, savedJson, http.StatusOK)
}

func (handler *Handler) HandleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.uploadAvatar")
	defer span.End()

	user := auth.UserFromContext(ctx)
	if user == nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxAvatarSizeBytes); err != nil {
		log.Errorf("upload avatar, parse multipart form: %s", err)
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		log.Errorf("upload avatar, get form file: %s", err)
		http.Error(w, "photo file missing", http.StatusBadRequest)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Errorf("upload avatar, close form file: %s", err)
		}
	}()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		http.Error(w, "photo must be an image", http.StatusBadRequest)
		return
	}

	url, err := handler.service.UploadProfilePhoto(ctx, user.ID, file, header.Size, contentType)
	if err != nil {
		log.Errorf("failed to upload avatar for %s: %s", user.ID, err)
		http.Error(w, "error, failed to upload photo", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterPhotoUploads.Inc()

	respJson, err := json.Marshal(UploadAvatarResponse{AvatarURL: url})
	if err != nil {
		log.Errorf("failed to marshal upload response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}
