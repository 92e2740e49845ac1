package model

import (
	"time"

	"github.com/google/uuid"
)

// One table per role, each keyed by the user ID. Row existence is what the
// role resolver treats as the source of truth for an assigned role.

// FarmerProfileModel mirrors the 'farmer_profiles' table.
type FarmerProfileModel struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FarmLocation string    `gorm:"type:varchar(255)"`
	Latitude     float64
	Longitude    float64
	CropsGrown   []string `gorm:"serializer:json;type:jsonb"`
	LandAcres    float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (FarmerProfileModel) TableName() string {
	return "farmer_profiles"
}

// StoreProfileModel mirrors the 'store_profiles' table.
type StoreProfileModel struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	StoreName     string    `gorm:"type:varchar(100)"`
	GSTNumber     string    `gorm:"type:varchar(20)"`
	StoreLocation string    `gorm:"type:varchar(255)"`
	Latitude      float64
	Longitude     float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (StoreProfileModel) TableName() string {
	return "store_profiles"
}

// BrokerProfileModel mirrors the 'broker_profiles' table.
type BrokerProfileModel struct {
	UserID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	MarketName        string    `gorm:"type:varchar(100)"`
	LicenseNumber     string    `gorm:"type:varchar(50)"`
	CommissionPercent float64
	Latitude          float64
	Longitude         float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (BrokerProfileModel) TableName() string {
	return "broker_profiles"
}

// ExpertProfileModel mirrors the 'expert_profiles' table.
type ExpertProfileModel struct {
	UserID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Specialization  string    `gorm:"type:varchar(100)"`
	Qualification   string    `gorm:"type:varchar(100)"`
	YearsExperience int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (ExpertProfileModel) TableName() string {
	return "expert_profiles"
}

// StudentProfileModel mirrors the 'student_profiles' table.
type StudentProfileModel struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Institution string    `gorm:"type:varchar(100)"`
	Course      string    `gorm:"type:varchar(100)"`
	YearOfStudy int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (StudentProfileModel) TableName() string {
	return "student_profiles"
}

// ConsumerProfileModel mirrors the 'consumer_profiles' table.
type ConsumerProfileModel struct {
	UserID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryAddress   string    `gorm:"type:text"`
	PreferredLanguage string    `gorm:"type:varchar(10)"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (ConsumerProfileModel) TableName() string {
	return "consumer_profiles"
}
