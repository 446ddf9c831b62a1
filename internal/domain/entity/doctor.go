package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"clinic-frontdesk/internal/scheduling"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Doctor is read-only for the front desk; the roster is maintained elsewhere.
type Doctor struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	Specialization string          `gorm:"type:varchar(100);not null;index" json:"specialization"`
	Degree         string          `gorm:"type:varchar(100)" json:"degree,omitempty"`
	Fees           decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"fees"`
	Schedule       WeeklySchedule  `gorm:"type:jsonb;not null;default:'{}'" json:"schedule"`
	IsAvailable    bool            `gorm:"not null;default:true;index" json:"is_available"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// Availability returns the part of the doctor the slot engine looks at.
func (d *Doctor) Availability() scheduling.Availability {
	return scheduling.Availability{
		IsAvailable: d.IsAvailable,
		Schedule:    scheduling.WeeklySchedule(d.Schedule),
	}
}

// WeeklySchedule stores weekday name -> working ranges as JSONB.
type WeeklySchedule map[string][]string

func (s WeeklySchedule) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string][]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *WeeklySchedule) Scan(value interface{}) error {
	if value == nil {
		*s = WeeklySchedule{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal weekly schedule: unsupported type %T", value)
	}

	result := map[string][]string{}
	if err := json.Unmarshal(bytes, &result); err != nil {
		return fmt.Errorf("failed to unmarshal weekly schedule: %w", err)
	}
	*s = WeeklySchedule(result)
	return nil
}
