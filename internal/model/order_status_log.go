package model

import "time"

// OrderStatusLog 订单状态流水，只追加不修改
type OrderStatusLog struct {
	LogID      int64        `json:"log_id" gorm:"column:log_id;primaryKey;autoIncrement"`
	OrderID    int64        `json:"order_id" gorm:"column:order_id;index;not null"`
	FromStatus *OrderStatus `json:"from_status" gorm:"column:from_status;type:varchar(16)"` // 创建时为空
	ToStatus   OrderStatus  `json:"to_status" gorm:"column:to_status;type:varchar(16);not null"`
	ChangedBy  int64        `json:"changed_by" gorm:"column:changed_by;not null"`
	Note       string       `json:"note" gorm:"column:note;type:varchar(255)"`
	CreatedAt  time.Time    `json:"created_at" gorm:"column:created_at;not null"`
}

func (OrderStatusLog) TableName() string { return "order_status_logs" }
