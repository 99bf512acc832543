package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/marketplace/internal/model"
)

// gormOrderRepository 基于 gorm 的订单仓储实现
type gormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

func (r *gormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: tx}
}

// Create 创建订单
func (r *gormOrderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// GetByOrderID 根据订单ID查询订单
func (r *gormOrderRepository) GetByOrderID(ctx context.Context, orderID int64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&order).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// LockByOrderID 加行锁读取订单
func (r *gormOrderRepository) LockByOrderID(ctx context.Context, orderID int64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Clauses(forUpdate).
		Where("order_id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// Transition 更新订单状态
func (r *gormOrderRepository) Transition(ctx context.Context, orderID int64, to model.OrderStatus, at time.Time) error {
	column := model.StampColumn(to)
	if column == "" {
		return fmt.Errorf("no timestamp column for status %q", to)
	}
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{
			"status": to,
			column:   at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountActiveByProduct 统计 pending/confirmed 订单
func (r *gormOrderRepository) CountActiveByProduct(ctx context.Context, productID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("product_id = ? AND status IN ?", productID, []model.OrderStatus{model.OrderStatusPending, model.OrderStatusConfirmed}).
		Count(&count).Error
	return count, err
}

// CountByProduct 统计商品订单
func (r *gormOrderRepository) CountByProduct(ctx context.Context, productID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}

// List 订单列表，按订单ID倒序
func (r *gormOrderRepository) List(ctx context.Context, filter OrderFilter) ([]*model.OrderView, int64, error) {
	where := r.db.WithContext(ctx).Table("orders AS o")
	if filter.BuyerID > 0 {
		where = where.Where("o.buyer_id = ?", filter.BuyerID)
	}
	if filter.SellerID > 0 {
		where = where.Where("o.seller_id = ?", filter.SellerID)
	}
	if filter.Status != "" {
		where = where.Where("o.status = ?", filter.Status)
	}

	var total int64
	if err := where.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*model.OrderView
	err := where.Session(&gorm.Session{}).
		Select(`o.*,
			p.title AS product_title,
			p.price AS product_price,
			p.cover_image_url AS product_cover,
			ub.name AS buyer_name,
			ub.email AS buyer_email,
			us.name AS seller_name,
			us.email AS seller_email`).
		Joins("JOIN products p ON p.product_id = o.product_id").
		Joins("LEFT JOIN users ub ON ub.user_id = o.buyer_id").
		Joins("LEFT JOIN users us ON us.user_id = o.seller_id").
		Order("o.order_id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Count 统计订单数量
func (r *gormOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&count).Error
	return count, err
}
