// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity of the system, representing one account.
// UserType is the single authoritative role; RoleNone means the role
// resolution chain has not produced an answer yet and the user must pick
// a role manually before reaching a dashboard.
type User struct {
	ID        uuid.UUID // Global unique identifier for the account.
	Email     string    // Primary contact email, also the login identifier.
	FullName  string    // Display name.
	UserType  Role      // The resolved role, or RoleNone when unresolved.
	Language  string    // Preferred UI language code, e.g. "en", "hi".
	FCMToken  string    // Optional push notification token for this account's device.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FarmerProfile holds data specific to the farmer role.
type FarmerProfile struct {
	UserID       uuid.UUID // Foreign key to the core User.
	FarmLocation string    // Village / district name of the farm.
	Latitude     float64   // Farm coordinates, zero when not captured.
	Longitude    float64
	CropsGrown   []string // Crops the farmer cultivates.
	LandAcres    float64  // Cultivated land in acres.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StoreProfile holds data specific to the store owner role.
type StoreProfile struct {
	UserID        uuid.UUID
	StoreName     string
	GSTNumber     string // GST registration number printed on bills.
	StoreLocation string
	Latitude      float64
	Longitude     float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BrokerProfile holds data specific to the broker (commission agent) role.
type BrokerProfile struct {
	UserID            uuid.UUID
	MarketName        string  // The mandi the broker operates in.
	LicenseNumber     string  // Mandi license number.
	CommissionPercent float64 // Default commission rate applied to sales.
	Latitude          float64 // Market yard coordinates.
	Longitude         float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ExpertProfile holds data specific to the agricultural expert role.
type ExpertProfile struct {
	UserID          uuid.UUID
	Specialization  string
	Qualification   string
	YearsExperience int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// StudentProfile holds data specific to the student role.
type StudentProfile struct {
	UserID      uuid.UUID
	Institution string
	Course      string
	YearOfStudy int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ConsumerProfile holds data specific to the consumer role.
type ConsumerProfile struct {
	UserID            uuid.UUID
	DeliveryAddress   string
	PreferredLanguage string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
