package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor hands out database handles so usecases never touch *gorm.DB directly.
type Transactor interface {
	// Conn returns a non-transactional handle bound to ctx.
	Conn(ctx context.Context) *gorm.DB
	// WithinTransaction commits when fn returns nil and rolls back otherwise.
	WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
