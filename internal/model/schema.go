package model

import "time"

// SchemaVersion 当前代码对应的表结构版本，结构变化时递增
const SchemaVersion = 2

// SchemaMigration 记录已应用的表结构版本
type SchemaMigration struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	AppliedAt time.Time `gorm:"not null"`
}

func (SchemaMigration) TableName() string { return "schema_versions" }

// All 需要迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&User{},
		&Product{},
		&Order{},
		&OrderStatusLog{},
		&Review{},
		&Message{},
		&Announcement{},
		&Report{},
		&SchemaMigration{},
	}
}
