package database

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/marketplace/internal/model"
	"github.com/d60-Lab/marketplace/pkg/logger"
)

// ErrSchemaTooNew 数据库的表结构版本高于当前代码
var ErrSchemaTooNew = errors.New("database schema is newer than this build")

// Migrate 迁移固定表结构并记录版本号
func Migrate(db *gorm.DB) error {
	if db.Migrator().HasTable(&model.SchemaMigration{}) {
		var current model.SchemaMigration
		err := db.Order("version DESC").Limit(1).Find(&current).Error
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		if current.Version > model.SchemaVersion {
			return fmt.Errorf("%w: database=%d code=%d", ErrSchemaTooNew, current.Version, model.SchemaVersion)
		}
	}

	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	var count int64
	if err := db.Model(&model.SchemaMigration{}).Where("version = ?", model.SchemaVersion).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		if err := db.Create(&model.SchemaMigration{Version: model.SchemaVersion, AppliedAt: time.Now().UTC()}).Error; err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	}

	logger.Info("database migrations completed", zap.Int("schema_version", model.SchemaVersion))
	return nil
}
