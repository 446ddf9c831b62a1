package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditLog records who changed an appointment and what it looked like before and after.
// Rows are written inside the same transaction as the change.
type AuditLog struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID    *uuid.UUID `gorm:"type:uuid;index" json:"actor_id,omitempty"`
	Action     string     `gorm:"type:varchar(100);not null;index" json:"action"`
	EntityName string     `gorm:"type:varchar(50);not null" json:"entity"`
	EntityID   string     `gorm:"type:varchar(64);not null;index" json:"entity_id"`
	Metadata   JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal JSONB value: unsupported type %T", value)
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Appointment audit actions
const (
	AuditActionAppointmentCreate     = "appointment.create"
	AuditActionAppointmentUpdate     = "appointment.update"
	AuditActionAppointmentReschedule = "appointment.reschedule"
	AuditActionAppointmentStatus     = "appointment.status"
	AuditActionAppointmentQueue      = "appointment.queue"
	AuditActionAppointmentDelete     = "appointment.delete"
	AuditActionPatientCreate         = "patient.create"
	AuditActionPatientUpdate         = "patient.update"
)
