package profileview

import (
	"encoding/json"
	"net/http"

	"github.com/fittrackapp/backend/internal/auth"
	"github.com/fittrackapp/backend/internal/profile"
	"github.com/fittrackapp/backend/internal/progress"
	"github.com/fittrackapp/backend/internal/telemetry/tracing"
	"github.com/fittrackapp/backend/pkg"

	log "github.com/sirupsen/logrus"
)

// OverviewResponse is the full profile screen state in one payload,
// assembled by a Controller activation.
type OverviewResponse struct {
	Profile    *profile.User            `json:"profile,omitempty"`
	Metrics    *profile.UserMetrics     `json:"metrics,omitempty"`
	BodyFatPct *float64                 `json:"bodyFatPct,omitempty"`
	AvatarURL  string                   `json:"avatarUrl,omitempty"`
	Photos     []progress.ProgressPhoto `json:"photos"`
}

type Handler struct {
	metricsStore  metricsStore
	progressStore progressStore
}

func NewHandler(metricsStore metricsStore, progressStore progressStore) *Handler {
	return &Handler{
		metricsStore:  metricsStore,
		progressStore: progressStore,
	}
}

// HandleOverview activates a controller for the authenticated user,
// waits for both fetch paths and renders the resulting snapshot.
func (handler *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profileview.overview")
	defer span.End()

	user := auth.UserFromContext(ctx)
	if user == nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	controller := NewController(handler.metricsStore, handler.progressStore)
	select {
	case <-controller.Activate(ctx, user):
	case <-ctx.Done():
		http.Error(w, "overview load interrupted", http.StatusServiceUnavailable)
		return
	}

	resp := OverviewResponse{
		Profile:   controller.Profile(),
		Metrics:   controller.Metrics(),
		AvatarURL: controller.AvatarURL(),
		Photos:    controller.Photos(),
	}
	if bodyFat, ok := controller.BodyFat(); ok {
		resp.BodyFatPct = &bodyFat
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("failed to marshal overview for %s: %s", user.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}
