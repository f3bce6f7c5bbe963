package profile

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"fullName"`
	// AvatarURL comes from the identity provider user metadata,
	// CustomAvatarURL is the override stored on the profile record.
	// Precedence between the two is resolved by the presentation layer.
	AvatarURL       string    `json:"avatarUrl,omitempty"`
	CustomAvatarURL string    `json:"customAvatarUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// UserMetrics is the exchange form of the body metrics: height in
// CENTIMETERS. The persistence layer stores height in meters (see
// MetricsRecord); the conversion happens exactly once per direction,
// at the store boundary.
type UserMetrics struct {
	UserID     uuid.UUID `json:"userId"`
	WeightKg   float64   `json:"weightKg"`
	HeightCm   float64   `json:"heightCm"`
	BodyFatPct *float64  `json:"bodyFatPct,omitempty"`
	BMI        float64   `json:"bmi"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// MetricsRecord is the persistence form of the body metrics: height in METERS.
type MetricsRecord struct {
	UserID     uuid.UUID
	WeightKg   float64
	HeightM    float64
	BodyFatPct *float64
	BMI        float64
	UpdatedAt  time.Time
}

type WeightHistoryEntry struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	WeightKg  float64   `json:"weightKg"`
	CreatedAt time.Time `json:"createdAt"`
}

// ComputeBMI returns weight(kg) / height(m)^2, rounded to one decimal.
func ComputeBMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	heightM := heightCm / 100
	return round1(weightKg / (heightM * heightM))
}

// EstimateBodyFat returns the simplified BMI-based body fat estimate
// 1.2 x BMI - 10.45, rounded to one decimal.
func EstimateBodyFat(bmi float64) float64 {
	return round1(1.2*bmi - 10.45)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func (m UserMetrics) toRecord() MetricsRecord {
	return MetricsRecord{
		UserID:     m.UserID,
		WeightKg:   m.WeightKg,
		HeightM:    m.HeightCm / 100,
		BodyFatPct: m.BodyFatPct,
		BMI:        m.BMI,
		UpdatedAt:  m.UpdatedAt,
	}
}

func (r MetricsRecord) toMetrics() *UserMetrics {
	return &UserMetrics{
		UserID:     r.UserID,
		WeightKg:   r.WeightKg,
		HeightCm:   r.HeightM * 100,
		BodyFatPct: r.BodyFatPct,
		BMI:        r.BMI,
		UpdatedAt:  r.UpdatedAt,
	}
}
