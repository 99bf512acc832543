package model

import (
	"time"
)

// OrderStatus 订单状态
type OrderStatus string

// 订单状态常量
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// orderTransitions 合法的状态迁移；completed、cancelled 为终态
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// Valid 是否为已知状态
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// IsTerminal 终态不再接受任何迁移
func (s OrderStatus) IsTerminal() bool {
	return s.Valid() && len(orderTransitions[s]) == 0
}

// CanTransitionTo 检查 s -> next 是否合法
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order 订单模型
type Order struct {
	OrderID     int64       `json:"order_id" gorm:"column:order_id;primaryKey;autoIncrement"`
	ProductID   int64       `json:"product_id" gorm:"column:product_id;index;not null"`
	BuyerID     int64       `json:"buyer_id" gorm:"column:buyer_id;index:idx_orders_buyer;not null"`
	SellerID    int64       `json:"seller_id" gorm:"column:seller_id;index:idx_orders_seller;not null"`
	OrderPrice  float64     `json:"order_price" gorm:"column:order_price;type:decimal(10,2);not null"`
	Status      OrderStatus `json:"status" gorm:"column:status;type:varchar(16);index;not null;default:pending"`
	CreatedAt   time.Time   `json:"created_at" gorm:"column:created_at;not null"`
	ConfirmedAt *time.Time  `json:"confirmed_at" gorm:"column:confirmed_at"`
	FinishedAt  *time.Time  `json:"finished_at" gorm:"column:finished_at"`
	CanceledAt  *time.Time  `json:"canceled_at" gorm:"column:canceled_at"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// IsParty 买家或卖家
func (o *Order) IsParty(userID int64) bool {
	return userID == o.BuyerID || userID == o.SellerID
}

// StampColumn 进入该状态时写入的时间列
func StampColumn(status OrderStatus) string {
	switch status {
	case OrderStatusConfirmed:
		return "confirmed_at"
	case OrderStatusCompleted:
		return "finished_at"
	case OrderStatusCancelled:
		return "canceled_at"
	default:
		return ""
	}
}

// OrderView 列表展示行，附带商品与买卖双方信息
type OrderView struct {
	Order
	ProductTitle string  `json:"product_title" gorm:"column:product_title"`
	ProductPrice float64 `json:"product_price" gorm:"column:product_price"`
	ProductCover string  `json:"product_cover" gorm:"column:product_cover"`
	BuyerName    string  `json:"buyer_name" gorm:"column:buyer_name"`
	BuyerEmail   string  `json:"buyer_email" gorm:"column:buyer_email"`
	SellerName   string  `json:"seller_name" gorm:"column:seller_name"`
	SellerEmail  string  `json:"seller_email" gorm:"column:seller_email"`
}
