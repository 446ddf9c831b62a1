package repository

import (
	"clinic-frontdesk/internal/domain/entity"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(db *gorm.DB, log *entity.AuditLog) error
	FindByEntity(db *gorm.DB, entityName string, entityID string) ([]entity.AuditLog, error)
}
