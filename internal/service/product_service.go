package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/marketplace/internal/model"
	"github.com/d60-Lab/marketplace/internal/repository"
	"github.com/d60-Lab/marketplace/pkg/logger"
)

// textPolicy 去掉用户输入中的全部 HTML
var textPolicy = bluemonday.StrictPolicy()

func sanitize(s string) string {
	return strings.TrimSpace(textPolicy.Sanitize(s))
}

// ProductInput 卖家提交的商品信息
type ProductInput struct {
	SellerID      int64
	Title         string
	Description   string
	Price         float64
	CoverImageURL string
}

// ProductPage 商品列表分页结果
type ProductPage struct {
	Total int64                `json:"total"`
	Items []*model.ProductView `json:"items"`
}

type ProductService interface {
	Create(ctx context.Context, in ProductInput) (*model.Product, error)
	Get(ctx context.Context, productID int64) (*model.Product, error)
	List(ctx context.Context, filter repository.ProductFilter) (*ProductPage, error)
	// Update 只改展示字段；状态只由订单状态机改变
	Update(ctx context.Context, productID int64, in ProductInput) (*model.Product, error)
	Delete(ctx context.Context, productID, sellerID int64) error
}

type productService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	maxLimit    int
}

func NewProductService(db *gorm.DB, productRepo repository.ProductRepository, orderRepo repository.OrderRepository, userRepo repository.UserRepository, maxLimit int) ProductService {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &productService{db: db, productRepo: productRepo, orderRepo: orderRepo, userRepo: userRepo, maxLimit: maxLimit}
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*model.Product, error) {
	in, err := normalizeProduct(in)
	if err != nil {
		return nil, err
	}
	seller, err := s.userRepo.GetByID(ctx, in.SellerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrNotFound, "Seller not found")
	}
	if err != nil {
		return nil, storageError("create product", err)
	}
	if seller.Status != model.UserStatusActive {
		return nil, newError(ErrForbidden, "Account disabled")
	}

	product := &model.Product{
		SellerID:      in.SellerID,
		Title:         in.Title,
		Description:   in.Description,
		Price:         in.Price,
		CoverImageURL: in.CoverImageURL,
		Status:        model.ProductStatusOnSale,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, storageError("create product", err)
	}
	logger.Info("product created", zap.Int64("product_id", product.ProductID), zap.Int64("seller_id", product.SellerID))
	return product, nil
}

func (s *productService) Get(ctx context.Context, productID int64) (*model.Product, error) {
	if productID <= 0 {
		return nil, newError(ErrMissingInput, "product_id required")
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrNotFound, "Product not found")
	}
	if err != nil {
		return nil, storageError("get product", err)
	}
	return product, nil
}

func (s *productService) List(ctx context.Context, filter repository.ProductFilter) (*ProductPage, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, newError(ErrMissingInput, "invalid status")
	}
	if filter.Limit <= 0 || filter.Limit > s.maxLimit {
		filter.Limit = s.maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Query = strings.TrimSpace(filter.Query)

	items, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, storageError("list products", err)
	}
	if items == nil {
		items = []*model.ProductView{}
	}
	return &ProductPage{Total: total, Items: items}, nil
}

// Update 与下单共用商品行锁，订单价格快照不会读到半更新的行
func (s *productService) Update(ctx context.Context, productID int64, in ProductInput) (*model.Product, error) {
	if productID <= 0 {
		return nil, newError(ErrMissingInput, "product_id required")
	}
	in, err := normalizeProduct(in)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)
		product, err := products.LockByID(ctx, productID)
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "Product not found")
		}
		if err != nil {
			return err
		}
		if product.SellerID != in.SellerID {
			return newError(ErrForbidden, "Only the seller can edit this product")
		}
		if product.Status == model.ProductStatusSold || product.Status == model.ProductStatusReserved {
			return newError(ErrConflict, "Product can no longer be edited")
		}
		return products.UpdateDetails(ctx, productID, repository.ProductDetails{
			Title:         in.Title,
			Description:   in.Description,
			Price:         in.Price,
			CoverImageURL: in.CoverImageURL,
		})
	})
	if err != nil {
		return nil, asServiceError("update product", err)
	}
	return s.Get(ctx, productID)
}

// Delete 有订单引用的商品不可删除，订单与流水需要保留
func (s *productService) Delete(ctx context.Context, productID, sellerID int64) error {
	if productID <= 0 || sellerID <= 0 {
		return newError(ErrMissingInput, "product_id & seller_id required")
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)
		product, err := products.LockByID(ctx, productID)
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "Product not found")
		}
		if err != nil {
			return err
		}
		if product.SellerID != sellerID {
			return newError(ErrForbidden, "Only the seller can delete this product")
		}
		orders, err := s.orderRepo.WithTx(tx).CountByProduct(ctx, productID)
		if err != nil {
			return err
		}
		if orders > 0 {
			return newError(ErrConflict, "Product has orders")
		}
		return products.Delete(ctx, productID)
	})
	if err != nil {
		return asServiceError("delete product", err)
	}
	logger.Info("product deleted", zap.Int64("product_id", productID))
	return nil
}

func normalizeProduct(in ProductInput) (ProductInput, error) {
	in.Title = sanitize(in.Title)
	in.Description = sanitize(in.Description)
	in.CoverImageURL = strings.TrimSpace(in.CoverImageURL)
	if in.SellerID <= 0 || in.Title == "" {
		return in, newError(ErrMissingInput, "seller_id & title required")
	}
	if in.Price <= 0 {
		return in, newError(ErrMissingInput, "price must be positive")
	}
	return in, nil
}
