package entity

import (
	"time"

	"github.com/google/uuid"
)

// Gender values accepted for a patient
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Patient is keyed by phone number; booking with a known number reuses the record.
type Patient struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	PhoneNumber string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone_number"`
	Email       *string   `gorm:"type:varchar(255)" json:"email,omitempty"`
	Issue       string    `gorm:"type:text;not null" json:"issue"`
	Address     string    `gorm:"type:text;not null" json:"address"`
	Age         int       `gorm:"not null" json:"age"`
	Gender      Gender    `gorm:"type:varchar(10);not null" json:"gender"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}
