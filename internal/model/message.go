package model

import "time"

// Message 订单内买卖双方的留言
type Message struct {
	MessageID  int64     `json:"message_id" gorm:"column:message_id;primaryKey;autoIncrement"`
	OrderID    int64     `json:"order_id" gorm:"column:order_id;index;not null"`
	SenderID   int64     `json:"sender_id" gorm:"column:sender_id;not null"`
	ReceiverID int64     `json:"receiver_id" gorm:"column:receiver_id;not null"`
	Content    string    `json:"content" gorm:"column:content;type:text;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Message) TableName() string { return "messages" }
