package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/marketplace/internal/model"
)

// StatusLogRepository 订单状态流水，只追加
type StatusLogRepository interface {
	WithTx(tx *gorm.DB) StatusLogRepository
	// Record 追加一条流水，须与状态变更处于同一事务
	Record(ctx context.Context, entry *model.OrderStatusLog) error
	// ListByOrder 按时间正序
	ListByOrder(ctx context.Context, orderID int64) ([]*model.OrderStatusLog, error)
}

type statusLogRepository struct{ db *gorm.DB }

func NewStatusLogRepository(db *gorm.DB) StatusLogRepository { return &statusLogRepository{db: db} }

func (r *statusLogRepository) WithTx(tx *gorm.DB) StatusLogRepository {
	return &statusLogRepository{db: tx}
}

func (r *statusLogRepository) Record(ctx context.Context, entry *model.OrderStatusLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *statusLogRepository) ListByOrder(ctx context.Context, orderID int64) ([]*model.OrderStatusLog, error) {
	var res []*model.OrderStatusLog
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("log_id ASC").
		Find(&res).Error
	return res, err
}
