package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/marketplace/internal/model"
)

// ProductFilter 商品列表过滤条件
type ProductFilter struct {
	Query    string
	Status   model.ProductStatus
	SellerID int64
	Page
}

// ProductRepository 商品仓储；MarkSold/Release 只由订单状态机调用
type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, productID int64) (*model.Product, error)
	LockByID(ctx context.Context, productID int64) (*model.Product, error)
	// UpdateDetails 修改标题、描述、价格、封面，不触碰状态
	UpdateDetails(ctx context.Context, productID int64, details ProductDetails) error
	Delete(ctx context.Context, productID int64) error
	MarkSold(ctx context.Context, productID, buyerID int64, at time.Time) error
	Release(ctx context.Context, productID int64) error
	List(ctx context.Context, filter ProductFilter) ([]*model.ProductView, int64, error)
}

// ProductDetails 卖家可编辑字段
type ProductDetails struct {
	Title         string
	Description   string
	Price         float64
	CoverImageURL string
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepository{db: db} }

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, productID int64) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *productRepository) LockByID(ctx context.Context, productID int64) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Clauses(forUpdate).
		Where("product_id = ?", productID).
		First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *productRepository) UpdateDetails(ctx context.Context, productID int64, d ProductDetails) error {
	return r.updates(ctx, productID, map[string]interface{}{
		"title":           d.Title,
		"description":     d.Description,
		"price":           d.Price,
		"cover_image_url": d.CoverImageURL,
	})
}

func (r *productRepository) Delete(ctx context.Context, productID int64) error {
	res := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&model.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkSold 成交：status=sold，记录买家与成交时间
func (r *productRepository) MarkSold(ctx context.Context, productID, buyerID int64, at time.Time) error {
	return r.updates(ctx, productID, map[string]interface{}{
		"status":   model.ProductStatusSold,
		"buyer_id": buyerID,
		"sold_at":  at,
	})
}

// Release 撤销成交：恢复 on_sale，清空买家与成交时间
func (r *productRepository) Release(ctx context.Context, productID int64) error {
	return r.updates(ctx, productID, map[string]interface{}{
		"status":   model.ProductStatusOnSale,
		"buyer_id": nil,
		"sold_at":  nil,
	})
}

func (r *productRepository) updates(ctx context.Context, productID int64, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("product_id = ?", productID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List 商品列表，按商品ID倒序
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]*model.ProductView, int64, error) {
	where := r.db.WithContext(ctx).
		Table("products AS p").
		Joins("JOIN users u ON u.user_id = p.seller_id")
	if filter.Status != "" {
		where = where.Where("p.status = ?", filter.Status)
	}
	if filter.SellerID > 0 {
		where = where.Where("p.seller_id = ?", filter.SellerID)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		where = where.Where("(p.title LIKE ? OR p.description LIKE ?)", like, like)
	}

	var total int64
	if err := where.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*model.ProductView
	err := where.Session(&gorm.Session{}).
		Select("p.*, u.name AS seller_username").
		Order("p.product_id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
