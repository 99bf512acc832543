package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/marketplace/internal/model"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	ListByOrder(ctx context.Context, orderID int64) ([]*model.Message, error)
}

type messageRepository struct{ db *gorm.DB }

func NewMessageRepository(db *gorm.DB) MessageRepository { return &messageRepository{db: db} }

func (r *messageRepository) Create(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepository) ListByOrder(ctx context.Context, orderID int64) ([]*model.Message, error) {
	var res []*model.Message
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("message_id ASC").Find(&res).Error
	return res, err
}
