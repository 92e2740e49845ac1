// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"agrilink/internal/domain/entity"

	"github.com/google/uuid"
)

// ProfileUsecase defines the interface for profile-related business operations.
type ProfileUsecase interface {
	// GetProfile returns the user together with their role profile. When the
	// user row carries a role but the profile row is missing, the row is
	// provisioned on the spot (read repair) before returning.
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileOutput, error)

	UpdateFarmerProfile(ctx context.Context, userID uuid.UUID, input *UpdateFarmerProfileInput) error
	UpdateStoreProfile(ctx context.Context, userID uuid.UUID, input *UpdateStoreProfileInput) error
	UpdateBrokerProfile(ctx context.Context, userID uuid.UUID, input *UpdateBrokerProfileInput) error
	UpdateExpertProfile(ctx context.Context, userID uuid.UUID, input *UpdateExpertProfileInput) error
	UpdateStudentProfile(ctx context.Context, userID uuid.UUID, input *UpdateStudentProfileInput) error
	UpdateConsumerProfile(ctx context.Context, userID uuid.UUID, input *UpdateConsumerProfileInput) error

	// NearbyMarkets lists broker markets within radiusKm of the coordinates,
	// nearest first.
	NearbyMarkets(ctx context.Context, lat, lng, radiusKm float64) ([]*MarketOutput, error)
}

// --- Output DTOs ---

// ProfileOutput bundles the user row with whichever role profile applies.
// Exactly one of the profile pointers is set when the role is resolved.
type ProfileOutput struct {
	User     *entity.User
	Farmer   *entity.FarmerProfile
	Store    *entity.StoreProfile
	Broker   *entity.BrokerProfile
	Expert   *entity.ExpertProfile
	Student  *entity.StudentProfile
	Consumer *entity.ConsumerProfile
	// Repaired is true when this read provisioned a missing profile row.
	Repaired bool
}

// MarketOutput is one broker market in a nearby-markets listing.
type MarketOutput struct {
	BrokerID   uuid.UUID `json:"broker_id"`
	MarketName string    `json:"market_name"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	DistanceKm float64   `json:"distance_km"`
}

// --- Input DTOs ---

// UpdateFarmerProfileInput defines the data required to update a farmer profile.
type UpdateFarmerProfileInput struct {
	FarmLocation *string   `json:"farm_location,omitempty"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	CropsGrown   *[]string `json:"crops_grown,omitempty"`
	LandAcres    *float64  `json:"land_acres,omitempty"`
}

// UpdateStoreProfileInput defines the data required to update a store profile.
type UpdateStoreProfileInput struct {
	StoreName     *string  `json:"store_name,omitempty"`
	GSTNumber     *string  `json:"gst_number,omitempty"`
	StoreLocation *string  `json:"store_location,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
}

// UpdateBrokerProfileInput defines the data required to update a broker profile.
type UpdateBrokerProfileInput struct {
	MarketName        *string  `json:"market_name,omitempty"`
	LicenseNumber     *string  `json:"license_number,omitempty"`
	CommissionPercent *float64 `json:"commission_percent,omitempty"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
}

// UpdateExpertProfileInput defines the data required to update an expert profile.
type UpdateExpertProfileInput struct {
	Specialization  *string `json:"specialization,omitempty"`
	Qualification   *string `json:"qualification,omitempty"`
	YearsExperience *int    `json:"years_experience,omitempty"`
}

// UpdateStudentProfileInput defines the data required to update a student profile.
type UpdateStudentProfileInput struct {
	Institution *string `json:"institution,omitempty"`
	Course      *string `json:"course,omitempty"`
	YearOfStudy *int    `json:"year_of_study,omitempty"`
}

// UpdateConsumerProfileInput defines the data required to update a consumer profile.
type UpdateConsumerProfileInput struct {
	DeliveryAddress   *string `json:"delivery_address,omitempty"`
	PreferredLanguage *string `json:"preferred_language,omitempty"`
}
