package profileview

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/fittrackapp/backend/internal/auth"
	"github.com/fittrackapp/backend/internal/profile"
	"github.com/fittrackapp/backend/internal/progress"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ErrNotActivated is returned when a mutation is attempted before any
// user was activated on the controller.
var ErrNotActivated = errors.New("no active user")

type metricsStore interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*profile.User, error)
	GetMetrics(ctx context.Context, userID uuid.UUID) (*profile.UserMetrics, error)
	SaveMetrics(ctx context.Context, userID uuid.UUID, m profile.UserMetrics) (*profile.UserMetrics, error)
	UploadProfilePhoto(ctx context.Context, userID uuid.UUID, photo io.Reader, size int64, contentType string) (string, error)
}

type progressStore interface {
	Photos(ctx context.Context, userID uuid.UUID) ([]progress.ProgressPhoto, error)
	UploadPhoto(ctx context.Context, userID uuid.UUID, photo io.Reader, size int64, contentType string, takenAt time.Time, comment string) (*progress.ProgressPhoto, error)
}

// Controller holds the state a profile screen renders from: the
// profile, the body metrics, the progress photo list and three
// independent busy flags. All state is guarded by one mutex; reads
// return copies. Fetch completions carry the generation they were
// started under and are dropped when a newer activation superseded
// them, so a slow stale response never overwrites fresh state.
type Controller struct {
	metricsStore  metricsStore
	progressStore progressStore

	mu             sync.Mutex
	user           *auth.User
	prof           *profile.User
	metrics        *profile.UserMetrics
	photos         []progress.ProgressPhoto
	loadingProfile bool
	loadingPhotos  bool
	uploading      bool
	gen            uint64
}

func NewController(metricsStore metricsStore, progressStore progressStore) *Controller {
	return &Controller{
		metricsStore:  metricsStore,
		progressStore: progressStore,
	}
}

// Activate starts loading state for the given user: profile and
// metrics on one path, photos on the other, concurrently. The returned
// channel closes when both fetches have completed (or were dropped as
// stale). A fetch failure is logged and leaves prior state untouched.
func (c *Controller) Activate(ctx context.Context, user *auth.User) <-chan struct{} {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.user = user
	c.loadingProfile = true
	c.loadingPhotos = true
	c.mu.Unlock()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		c.fetchProfileAndMetrics(ctx, user.ID, gen)
	}()
	go func() {
		defer wg.Done()
		c.fetchPhotos(ctx, user.ID, gen)
	}()
	go func() {
		wg.Wait()
		close(done)
	}()

	return done
}

func (c *Controller) fetchProfileAndMetrics(ctx context.Context, userID uuid.UUID, gen uint64) {
	prof, profErr := c.metricsStore.GetProfile(ctx, userID)
	if profErr != nil {
		log.Errorf("profile view: load profile for %s: %s", userID, profErr)
	}
	metrics, metricsErr := c.metricsStore.GetMetrics(ctx, userID)
	if metricsErr != nil {
		log.Errorf("profile view: load metrics for %s: %s", userID, metricsErr)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		// superseded by a newer activation
		return
	}
	if profErr == nil {
		c.prof = prof
	}
	if metricsErr == nil && metrics != nil {
		c.metrics = metrics
	}
	c.loadingProfile = false
}

func (c *Controller) fetchPhotos(ctx context.Context, userID uuid.UUID, gen uint64) {
	photos, err := c.progressStore.Photos(ctx, userID)
	if err != nil {
		log.Errorf("profile view: load photos for %s: %s", userID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	if err == nil {
		c.photos = photos
	}
	c.loadingPhotos = false
}

// UpdateMetrics recomputes BMI from the given weight and height,
// derives body fat when not supplied, and saves through the metrics
// store. This is the one mutation whose failure reaches the caller,
// the UI drives its error state from it.
func (c *Controller) UpdateMetrics(ctx context.Context, m profile.UserMetrics) error {
	c.mu.Lock()
	user := c.user
	gen := c.gen
	c.mu.Unlock()
	if user == nil {
		return ErrNotActivated
	}

	m.BMI = profile.ComputeBMI(m.WeightKg, m.HeightCm)
	if m.BodyFatPct == nil {
		bodyFat := profile.EstimateBodyFat(m.BMI)
		m.BodyFatPct = &bodyFat
	}

	saved, err := c.metricsStore.SaveMetrics(ctx, user.ID, m)
	if err != nil {
		log.Errorf("profile view: update metrics for %s: %s", user.ID, err)
		return err
	}

	c.mu.Lock()
	if c.gen == gen {
		c.metrics = saved
	}
	c.mu.Unlock()
	return nil
}

// UpdateProfilePhoto uploads a new avatar. Errors are absorbed: logged
// and reflected only through the untouched state. The uploading flag
// is cleared on every exit path.
func (c *Controller) UpdateProfilePhoto(ctx context.Context, photo io.Reader, size int64, contentType string) {
	c.mu.Lock()
	user := c.user
	c.uploading = true
	c.mu.Unlock()
	defer c.setUploading(false)

	if user == nil {
		log.Error("profile view: update profile photo with no active user")
		return
	}

	url, err := c.metricsStore.UploadProfilePhoto(ctx, user.ID, photo, size, contentType)
	if err != nil {
		log.Errorf("profile view: upload profile photo for %s: %s", user.ID, err)
		return
	}

	c.mu.Lock()
	if c.prof != nil {
		c.prof.CustomAvatarURL = url
	}
	c.mu.Unlock()
}

// AddProgressPhoto uploads a progress photo and refreshes the whole
// photo list on success. Errors are absorbed and logged.
func (c *Controller) AddProgressPhoto(ctx context.Context, photo io.Reader, size int64, contentType string, takenAt time.Time, comment string) {
	c.mu.Lock()
	user := c.user
	gen := c.gen
	c.uploading = true
	c.mu.Unlock()
	defer c.setUploading(false)

	if user == nil {
		log.Error("profile view: add progress photo with no active user")
		return
	}

	if _, err := c.progressStore.UploadPhoto(ctx, user.ID, photo, size, contentType, takenAt, comment); err != nil {
		log.Errorf("profile view: upload progress photo for %s: %s", user.ID, err)
		return
	}

	photos, err := c.progressStore.Photos(ctx, user.ID)
	if err != nil {
		log.Errorf("profile view: refresh photos for %s: %s", user.ID, err)
		return
	}

	c.mu.Lock()
	if c.gen == gen {
		c.photos = photos
	}
	c.mu.Unlock()
}

// BodyFat returns the body fat percentage to display: the stored value
// when present, otherwise the estimate derived from current weight and
// height. The second return reports whether a value is available.
func (c *Controller) BodyFat() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.metrics == nil {
		return 0, false
	}
	if c.metrics.BodyFatPct != nil {
		return *c.metrics.BodyFatPct, true
	}
	if c.metrics.WeightKg <= 0 || c.metrics.HeightCm <= 0 {
		return 0, false
	}
	return profile.EstimateBodyFat(profile.ComputeBMI(c.metrics.WeightKg, c.metrics.HeightCm)), true
}

// AvatarURL resolves the avatar precedence: the custom override wins
// over the identity provider metadata URL.
func (c *Controller) AvatarURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.prof == nil {
		return ""
	}
	if c.prof.CustomAvatarURL != "" {
		return c.prof.CustomAvatarURL
	}
	return c.prof.AvatarURL
}

func (c *Controller) Profile() *profile.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.prof == nil {
		return nil
	}
	prof := *c.prof
	return &prof
}

func (c *Controller) Metrics() *profile.UserMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.metrics == nil {
		return nil
	}
	metrics := *c.metrics
	return &metrics
}

func (c *Controller) Photos() []progress.ProgressPhoto {
	c.mu.Lock()
	defer c.mu.Unlock()
	photos := make([]progress.ProgressPhoto, len(c.photos))
	copy(photos, c.photos)
	return photos
}

func (c *Controller) IsLoadingProfile() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadingProfile
}

func (c *Controller) IsLoadingPhotos() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadingPhotos
}

func (c *Controller) IsUploading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uploading
}

func (c *Controller) setUploading(uploading bool) {
	c.mu.Lock()
	c.uploading = uploading
	c.mu.Unlock()
}
