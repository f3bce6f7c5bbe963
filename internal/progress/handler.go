package progress

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fittrackapp/backend/internal/auth"
	"github.com/fittrackapp/backend/internal/telemetry/metrics"
	"github.com/fittrackapp/backend/internal/telemetry/tracing"
	"github.com/fittrackapp/backend/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=progress_mocks_test.go -package=progress_test

const maxPhotoSizeBytes = 25 << 20

type progressService interface {
	DailyProgress(ctx context.Context, userID uuid.UUID, date time.Time) ([]WorkoutSession, error)
	WeeklyProgress(ctx context.Context, userID uuid.UUID) ([]WorkoutSession, error)
	MonthlyProgress(ctx context.Context, userID uuid.UUID, year int, month time.Month) ([]WorkoutSession, error)
	Photos(ctx context.Context, userID uuid.UUID) ([]ProgressPhoto, error)
	UploadPhoto(ctx context.Context, userID uuid.UUID, photo io.Reader, size int64, contentType string, takenAt time.Time, comment string) (*ProgressPhoto, error)
	UpdatePhoto(ctx context.Context, id int64, update PhotoUpdate) (*ProgressPhoto, error)
	DeletePhotos(ctx context.Context, userID uuid.UUID, ids []int64) (int64, error)
	ExerciseHistory(ctx context.Context, userID uuid.UUID, exerciseID string) ([]ExerciseSet, error)
}

type SessionsResponse struct {
	Sessions []WorkoutSession `json:"sessions"`
	Total    int              `json:"total"`
}

type PhotosResponse struct {
	Photos []ProgressPhoto `json:"photos"`
	Total  int             `json:"total"`
}

type DeletePhotosRequest struct {
	IDs []int64 `json:"ids"`
}

type DeletePhotosResponse struct {
	Deleted int64 `json:"deleted"`
}

type ExerciseHistoryResponse struct {
	ExerciseID string        `json:"exerciseId"`
	Sets       []ExerciseSet `json:"sets"`
}

type Handler struct {
	service progressService
	metrics *metrics.Manager
}

func NewHandler(service progressService, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		metrics: metricsManager,
	}
}

func (handler *Handler) HandleDailyProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.daily")
	defer span.End()

	user := auth.UserFromContext(ctx)
	if user == nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	date := time.Now()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		date = parsed
	}

	sessions, err := handler.service.DailyProgress(ctx, user.ID, date)
	if err != nil {
		log.Errorf("get daily progress for %s: %s", user.ID, err)
		http.Error(w, "failed to get daily progress", http.StatusInternalServerError)
		return
	}

	handler.writeSessions(w, sessions)
}

func (handler *Handler) HandleWeeklyProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.weekly")
	defer span.End()

	user := auth.UserFromContext(ctx)
	if user == nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	sessions, err := handler.service.WeeklyProgress(ctx, user.ID)
	if err != nil {
		log.Errorf("get weekly progress for %s: %s", user.ID, err)
		http.Error(w, "failed to get weekly progress", http.StatusInternalServerError)
		return
	}

	handler.writeSessions(w, sessions)
}

func (handler *Handler) HandleMonthlyProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.monthly")
	defer span.End()

	user := auth.UserFromContext(ctx)
	if user == nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var year, month int
	var err error
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		if year, err = strconv.Atoi(yearStr); err != nil {
			http.Error(w, "error, year NaN", http.StatusBadRequest)
			return
		}
	}
	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		if month, err = strconv.Atoi(monthStr); err != nil {
			http.Error(w, "error, month NaN", http.StatusBadRequest)
			return
		}
		if month < 1 || month > 12 {
			http.Error(w, "error, month out of range", http.StatusBadRequest)
			return
		}
	}

	sessions, err := handler.service.MonthlyProgress(ctx, user.ID, year, time.Month(month))
	if err != nil {
		log.Errorf("get monthly progress for %s: %s", user.ID, err)
		http.Error(w, "failed to get monthly progress", http.StatusInternalServerError)
		return
	}

	handler.writeSessions(w, sessions)
}

func (handler *Handler) HandleListPhotos(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.listPhotos")
	defer span.End()

	user := auth.UserFromContext(ctx)
	if user == nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	photos, err := handler.service.Photos(ctx, user.ID)
	if err != nil {
		log.Errorf("list progress photos for %s: %s", user.ID, err)
		http.Error(w, "failed to list photos", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(PhotosResponse{
		Photos: photos,
		Total:  len(photos),
	})
	if err != nil {
		log.Errorf("failed to marshal photos: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.uploadPhoto")
	defer span.End()

	user := auth.UserFromContext(ctx)
	if user == nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSizeBytes); err != nil {
		log.Errorf("upload progress photo, parse multipart form: %s", err)
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		log.Errorf("upload progress photo, get form file: %s", err)
		http.Error(w, "photo file missing", http.StatusBadRequest)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Errorf("upload progress photo, close form file: %s", err)
		}
	}()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		http.Error(w, "photo must be an image", http.StatusBadRequest)
		return
	}

	var takenAt time.Time
	if takenAtStr := r.FormValue("takenAt"); takenAtStr != "" {
		takenAt, err = time.Parse(time.RFC3339, takenAtStr)
		if err != nil {
			http.Error(w, "invalid takenAt, expected RFC3339", http.StatusBadRequest)
			return
		}
	}
	comment := r.FormValue("comment")

	photo, err := handler.service.UploadPhoto(ctx, user.ID, file, header.Size, contentType, takenAt, comment)
	if err != nil {
		log.Errorf("failed to upload progress photo for %s: %s", user.ID, err)
		http.Error(w, "error, failed to upload photo", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterPhotoUploads.Inc()

	photoJson, err := json.Marshal(photo)
	if err != nil {
		log.Errorf("failed to marshal photo: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, photoJson, http.StatusCreated)
}

func (handler *Handler) HandleUpdatePhoto(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.updatePhoto")
	defer span.End()

	user := auth.UserFromContext(ctx)
	if user == nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	idStr := vars["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var update PhotoUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Errorf("update photo, unmarshal json params: %s", err)
		http.Error(w, "update photo failed", http.StatusBadRequest)
		return
	}

	updated, err := handler.service.UpdatePhoto(ctx, id, update)
	if err != nil {
		if errors.Is(err, ErrPhotoNotFound) {
			http.Error(w, "photo not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update photo %d: %s", id, err)
		http.Error(w, "error, failed to update photo", http.StatusInternalServerError)
		return
	}

	updatedJson, err := json.Marshal(updated)
	if err != nil {
		log.Errorf("failed to marshal photo: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, updatedJson, http.StatusOK)
}

func (handler *Handler) HandleDeletePhotos(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.deletePhotos")
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

	var req DeletePhotosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("delete photos, unmarshal json params: %s", err)
		http.Error(w, "delete photos failed", http.StatusBadRequest)
		return
	}
	if len(req.IDs) == 0 {
		http.Error(w, "error, ids empty", http.StatusBadRequest)
		return
	}

	deleted, err := handler.service.DeletePhotos(ctx, user.ID, req.IDs)
	if err != nil {
		log.Errorf("failed to delete photos for %s: %s", user.ID, err)
		http.Error(w, "error, failed to delete photos", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterPhotosDeleted.Add(float64(deleted))

	respJson, err := json.Marshal(DeletePhotosResponse{Deleted: deleted})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}

func (handler *Handler) HandleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.exerciseHistory")
	defer span.End()

	user := auth.UserFromContext(ctx)
	if user == nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	exerciseID := vars["exerciseId"]
	if exerciseID == "" {
		http.Error(w, "error, exercise id empty", http.StatusBadRequest)
		return
	}

	sets, err := handler.service.ExerciseHistory(ctx, user.ID, exerciseID)
	if err != nil {
		log.Errorf("get exercise history for %s [%s]: %s", user.ID, exerciseID, err)
		http.Error(w, "failed to get exercise history", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(ExerciseHistoryResponse{
		ExerciseID: exerciseID,
		Sets:       sets,
	})
	if err != nil {
		log.Errorf("failed to marshal exercise history: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) writeSessions(w http.ResponseWriter, sessions []WorkoutSession) {
	respJson, err := json.Marshal(SessionsResponse{
		Sessions: sessions,
		Total:    len(sessions),
	})
	if err != nil {
		log.Errorf("failed to marshal sessions: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}
