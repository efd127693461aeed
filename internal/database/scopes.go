package database

import (
	"gorm.io/gorm"

	"github.com/j-bridge/volunteerhub.com/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// Newest orders by creation time, most recent first.
func Newest(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".created_at DESC").Order(table + ".id DESC")
	}
}
