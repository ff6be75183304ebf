package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/tracker-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.IndexModels()...); err != nil {
		return fmt.Errorf("auto migrate index tables: %w", err)
	}
	return nil
}
