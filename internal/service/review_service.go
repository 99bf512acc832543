package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/marketplace/internal/model"
	"github.com/d60-Lab/marketplace/internal/repository"
	"github.com/d60-Lab/marketplace/pkg/logger"
)

// ReviewInput 买家对已完成订单的评价
type ReviewInput struct {
	OrderID int64
	BuyerID int64
	Rating  int
	Comment string
}

type ReviewService interface {
	Create(ctx context.Context, in ReviewInput) (*model.Review, error)
	ListByBuyer(ctx context.Context, buyerID int64) ([]*model.ReviewView, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]*model.ReviewView, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	orderRepo  repository.OrderRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, orderRepo repository.OrderRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, orderRepo: orderRepo}
}

func (s *reviewService) Create(ctx context.Context, in ReviewInput) (*model.Review, error) {
	if in.OrderID <= 0 || in.BuyerID <= 0 {
		return nil, newError(ErrMissingInput, "order_id & buyer_id required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, newError(ErrMissingInput, "rating must be between 1 and 5")
	}

	order, err := s.orderRepo.GetByOrderID(ctx, in.OrderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrNotFound, "Order not found")
	}
	if err != nil {
		return nil, storageError("create review", err)
	}
	if order.BuyerID != in.BuyerID {
		return nil, newError(ErrForbidden, "Only the buyer can review")
	}
	if order.Status != model.OrderStatusCompleted {
		return nil, newError(ErrInvalidTransition, "Only completed orders can be reviewed")
	}

	exists, err := s.reviewRepo.ExistsForOrder(ctx, in.OrderID)
	if err != nil {
		return nil, storageError("create review", err)
	}
	if exists {
		return nil, newError(ErrConflict, "Order already reviewed")
	}

	review := &model.Review{
		OrderID:   order.OrderID,
		BuyerID:   order.BuyerID,
		SellerID:  order.SellerID,
		Rating:    in.Rating,
		Comment:   sanitize(in.Comment),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, storageError("create review", err)
	}
	logger.Info("review created", zap.Int64("order_id", review.OrderID), zap.Int("rating", review.Rating))
	return review, nil
}

func (s *reviewService) ListByBuyer(ctx context.Context, buyerID int64) ([]*model.ReviewView, error) {
	if buyerID <= 0 {
		return nil, newError(ErrMissingInput, "buyer_id required")
	}
	res, err := s.reviewRepo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, storageError("list reviews", err)
	}
	if res == nil {
		res = []*model.ReviewView{}
	}
	return res, nil
}

func (s *reviewService) ListBySeller(ctx context.Context, sellerID int64) ([]*model.ReviewView, error) {
	if sellerID <= 0 {
		return nil, newError(ErrMissingInput, "seller_id required")
	}
	res, err := s.reviewRepo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, storageError("list reviews", err)
	}
	if res == nil {
		res = []*model.ReviewView{}
	}
	return res, nil
}
