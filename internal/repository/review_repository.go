package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/marketplace/internal/model"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	ExistsForOrder(ctx context.Context, orderID int64) (bool, error)
	ListByBuyer(ctx context.Context, buyerID int64) ([]*model.ReviewView, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]*model.ReviewView, error)
}

type reviewRepository struct{ db *gorm.DB }

func NewReviewRepository(db *gorm.DB) ReviewRepository { return &reviewRepository{db: db} }

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) ExistsForOrder(ctx context.Context, orderID int64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Review{}).Where("order_id = ?", orderID).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *reviewRepository) ListByBuyer(ctx context.Context, buyerID int64) ([]*model.ReviewView, error) {
	var res []*model.ReviewView
	err := r.base(ctx).
		Where("r.buyer_id = ?", buyerID).
		Order("r.created_at DESC, r.review_id DESC").
		Scan(&res).Error
	return res, err
}

func (r *reviewRepository) ListBySeller(ctx context.Context, sellerID int64) ([]*model.ReviewView, error) {
	var res []*model.ReviewView
	err := r.base(ctx).
		Where("r.seller_id = ?", sellerID).
		Order("r.created_at DESC, r.review_id DESC").
		Scan(&res).Error
	return res, err
}

func (r *reviewRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("reviews AS r").
		Select("r.*, o.product_id, p.title AS product_title, u.name AS buyer_name").
		Joins("JOIN orders o ON o.order_id = r.order_id").
		Joins("JOIN products p ON p.product_id = o.product_id").
		Joins("LEFT JOIN users u ON u.user_id = r.buyer_id")
}
