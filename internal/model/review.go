package model

import "time"

// Review 订单评价，每笔订单至多一条
type Review struct {
	ReviewID  int64     `json:"review_id" gorm:"column:review_id;primaryKey;autoIncrement"`
	OrderID   int64     `json:"order_id" gorm:"column:order_id;uniqueIndex;not null"`
	BuyerID   int64     `json:"buyer_id" gorm:"column:buyer_id;index;not null"`
	SellerID  int64     `json:"seller_id" gorm:"column:seller_id;index;not null"`
	Rating    int       `json:"rating" gorm:"column:rating;not null"`
	Comment   string    `json:"comment" gorm:"column:comment;type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;index"`
}

func (Review) TableName() string { return "reviews" }

// ReviewView 评价列表行
type ReviewView struct {
	Review
	ProductID    int64  `json:"product_id" gorm:"column:product_id"`
	ProductTitle string `json:"product_title" gorm:"column:product_title"`
	BuyerName    string `json:"buyer_name,omitempty" gorm:"column:buyer_name"`
}
