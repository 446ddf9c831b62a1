package repository

import (
	"clinic-frontdesk/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error)
	FindAvailable(db *gorm.DB) ([]entity.Doctor, error)
}
