package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/marketplace/internal/model"
)

// OrderFilter 订单列表过滤条件，零值表示不过滤
type OrderFilter struct {
	BuyerID  int64
	SellerID int64
	Status   model.OrderStatus
	Page
}

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// WithTx 绑定到事务
	WithTx(tx *gorm.DB) OrderRepository

	// Create 创建订单
	Create(ctx context.Context, order *model.Order) error

	// GetByOrderID 根据订单ID查询订单
	GetByOrderID(ctx context.Context, orderID int64) (*model.Order, error)

	// LockByOrderID 加行锁读取订单，须在事务内调用
	LockByOrderID(ctx context.Context, orderID int64) (*model.Order, error)

	// Transition 更新订单状态并写入对应时间列
	Transition(ctx context.Context, orderID int64, to model.OrderStatus, at time.Time) error

	// CountActiveByProduct 统计商品上未结束的订单数
	CountActiveByProduct(ctx context.Context, productID int64) (int64, error)

	// CountByProduct 统计商品上的全部订单
	CountByProduct(ctx context.Context, productID int64) (int64, error)

	// List 联表查询订单列表
	List(ctx context.Context, filter OrderFilter) ([]*model.OrderView, int64, error)

	// Count 统计订单数量
	Count(ctx context.Context) (int64, error)
}
