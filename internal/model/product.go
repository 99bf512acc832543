package model

import "time"

// ProductStatus 商品状态
type ProductStatus string

const (
	ProductStatusOnSale   ProductStatus = "on_sale"
	ProductStatusReserved ProductStatus = "reserved"
	ProductStatusSold     ProductStatus = "sold"
	ProductStatusRemoved  ProductStatus = "removed"
	ProductStatusReported ProductStatus = "reported"
)

// Valid 是否为已知状态
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusOnSale, ProductStatusReserved, ProductStatusSold, ProductStatusRemoved, ProductStatusReported:
		return true
	}
	return false
}

// Product 商品；buyer_id 仅在 sold 时非空
type Product struct {
	ProductID     int64         `json:"product_id" gorm:"column:product_id;primaryKey;autoIncrement"`
	SellerID      int64         `json:"seller_id" gorm:"column:seller_id;index;not null"`
	Title         string        `json:"title" gorm:"column:title;type:varchar(255);not null"`
	Description   string        `json:"description" gorm:"column:description;type:text"`
	Price         float64       `json:"price" gorm:"column:price;type:decimal(10,2);not null"`
	Status        ProductStatus `json:"status" gorm:"column:status;type:varchar(16);index;not null;default:on_sale"`
	CoverImageURL string        `json:"cover_image_url" gorm:"column:cover_image_url;type:varchar(512)"`
	BuyerID       *int64        `json:"buyer_id" gorm:"column:buyer_id"`
	CreatedAt     time.Time     `json:"created_at" gorm:"column:created_at;not null"`
	UpdatedAt     time.Time     `json:"updated_at" gorm:"column:updated_at"`
	SoldAt        *time.Time    `json:"sold_at" gorm:"column:sold_at"`
}

func (Product) TableName() string { return "products" }

// ProductView 列表行，附带卖家名
type ProductView struct {
	Product
	SellerUsername string `json:"seller_username" gorm:"column:seller_username"`
}
