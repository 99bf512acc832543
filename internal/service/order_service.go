package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/marketplace/internal/model"
	"github.com/d60-Lab/marketplace/internal/repository"
	"github.com/d60-Lab/marketplace/pkg/logger"
)

var tracer trace.Tracer = otel.Tracer("github.com/d60-Lab/marketplace/internal/service")

// OrderPage 订单列表分页结果
type OrderPage struct {
	Total int64              `json:"total"`
	Items []*model.OrderView `json:"items"`
}

// ListCache 订单列表读缓存，nil 表示不缓存
type ListCache interface {
	Key(ctx context.Context, filter repository.OrderFilter) (string, error)
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}) error
	Invalidate(ctx context.Context) error
}

// OrderService 订单状态机
type OrderService interface {
	Create(ctx context.Context, buyerID, productID int64) (*model.Order, error)
	Confirm(ctx context.Context, orderID, sellerID int64) (*model.Order, error)
	Finish(ctx context.Context, orderID, byUserID int64) (*model.Order, error)
	Cancel(ctx context.Context, orderID, byUserID int64) (*model.Order, error)
	Get(ctx context.Context, orderID int64) (*model.Order, error)
	List(ctx context.Context, filter repository.OrderFilter) (*OrderPage, error)
	History(ctx context.Context, orderID int64) ([]*model.OrderStatusLog, error)
}

// OrderServiceConfig 订单服务配置
type OrderServiceConfig struct {
	// ExclusivePending 商品已有进行中订单时拒绝下单
	ExclusivePending bool
	ListDefaultLimit int
	ListMaxLimit     int
	// Clock 默认 time.Now，测试可替换
	Clock func() time.Time
}

type orderService struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	logRepo     repository.StatusLogRepository
	cache       ListCache
	cfg         OrderServiceConfig
}

// NewOrderService 创建订单服务；cache 可为 nil
func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	logRepo repository.StatusLogRepository,
	cache ListCache,
	cfg OrderServiceConfig,
) OrderService {
	if cfg.ListDefaultLimit <= 0 {
		cfg.ListDefaultLimit = 20
	}
	if cfg.ListMaxLimit <= 0 {
		cfg.ListMaxLimit = 100
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &orderService{
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		logRepo:     logRepo,
		cache:       cache,
		cfg:         cfg,
	}
}

// Create 锁商品行，按锁内读到的卖家与价格生成 pending 订单。商品状态不变。
func (s *orderService) Create(ctx context.Context, buyerID, productID int64) (*model.Order, error) {
	if buyerID <= 0 || productID <= 0 {
		return nil, newError(ErrMissingInput, "buyer_id & product_id required")
	}

	var orderID int64
	err := s.inTx(ctx, "create order", func(ctx context.Context, tx *gorm.DB) error {
		product, err := s.productRepo.WithTx(tx).LockByID(ctx, productID)
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "Product not found")
		}
		if err != nil {
			return err
		}
		if product.Status != model.ProductStatusOnSale {
			return newError(ErrProductUnavailable, "Product not available for sale")
		}
		if s.cfg.ExclusivePending {
			active, err := s.orderRepo.WithTx(tx).CountActiveByProduct(ctx, productID)
			if err != nil {
				return err
			}
			if active > 0 {
				return newError(ErrProductUnavailable, "Product already has an active order")
			}
		}

		order := &model.Order{
			ProductID:  product.ProductID,
			BuyerID:    buyerID,
			SellerID:   product.SellerID,
			OrderPrice: product.Price,
			Status:     model.OrderStatusPending,
			CreatedAt:  s.now(),
		}
		if err := s.orderRepo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		orderID = order.OrderID
		return s.record(ctx, tx, order.OrderID, nil, model.OrderStatusPending, buyerID, "create order")
	})
	if err != nil {
		return nil, err
	}
	return s.afterCommit(ctx, "create order", orderID)
}

// Confirm 卖家确认：订单 pending -> confirmed，商品 on_sale -> sold。先到先得。
func (s *orderService) Confirm(ctx context.Context, orderID, sellerID int64) (*model.Order, error) {
	if orderID <= 0 || sellerID <= 0 {
		return nil, newError(ErrMissingInput, "order_id & seller_id required")
	}

	err := s.inTx(ctx, "confirm order", func(ctx context.Context, tx *gorm.DB) error {
		order, err := s.lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.Status != model.OrderStatusPending {
			return newError(ErrInvalidTransition, "Only pending orders can be confirmed")
		}
		if order.SellerID != sellerID {
			return newError(ErrForbidden, "Only the seller can confirm")
		}

		product, err := s.productRepo.WithTx(tx).LockByID(ctx, order.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrProductUnavailable, "Product is not available")
		}
		if err != nil {
			return err
		}
		if product.Status != model.ProductStatusOnSale {
			return newError(ErrProductUnavailable, "Product is not available")
		}

		now := s.now()
		if err := s.orderRepo.WithTx(tx).Transition(ctx, orderID, model.OrderStatusConfirmed, now); err != nil {
			return err
		}
		if err := s.productRepo.WithTx(tx).MarkSold(ctx, product.ProductID, order.BuyerID, now); err != nil {
			return err
		}
		from := order.Status
		return s.record(ctx, tx, orderID, &from, model.OrderStatusConfirmed, sellerID, "seller confirmed")
	})
	if err != nil {
		return nil, err
	}
	return s.afterCommit(ctx, "confirm order", orderID)
}

// Finish 买卖双方任一方完成订单，商品保持 sold
func (s *orderService) Finish(ctx context.Context, orderID, byUserID int64) (*model.Order, error) {
	if orderID <= 0 || byUserID <= 0 {
		return nil, newError(ErrMissingInput, "order_id & by_user_id required")
	}

	err := s.inTx(ctx, "finish order", func(ctx context.Context, tx *gorm.DB) error {
		order, err := s.lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.Status != model.OrderStatusConfirmed {
			return newError(ErrInvalidTransition, "Only confirmed orders can be finished")
		}
		if !order.IsParty(byUserID) {
			return newError(ErrForbidden, "Not part of this order")
		}
		if err := s.orderRepo.WithTx(tx).Transition(ctx, orderID, model.OrderStatusCompleted, s.now()); err != nil {
			return err
		}
		from := order.Status
		return s.record(ctx, tx, orderID, &from, model.OrderStatusCompleted, byUserID, "finish order")
	})
	if err != nil {
		return nil, err
	}
	return s.afterCommit(ctx, "finish order", orderID)
}

// Cancel 取消 pending/confirmed 订单。已确认的订单会把自己卖出的商品放回 on_sale。
func (s *orderService) Cancel(ctx context.Context, orderID, byUserID int64) (*model.Order, error) {
	if orderID <= 0 || byUserID <= 0 {
		return nil, newError(ErrMissingInput, "order_id & by_user_id required")
	}

	err := s.inTx(ctx, "cancel order", func(ctx context.Context, tx *gorm.DB) error {
		order, err := s.lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(model.OrderStatusCancelled) {
			return newError(ErrInvalidTransition, "Order is already finalized")
		}
		if !order.IsParty(byUserID) {
			return newError(ErrForbidden, "Not part of this order")
		}

		if err := s.orderRepo.WithTx(tx).Transition(ctx, orderID, model.OrderStatusCancelled, s.now()); err != nil {
			return err
		}
		if order.Status == model.OrderStatusConfirmed {
			if err := s.release(ctx, tx, order); err != nil {
				return err
			}
		}
		from := order.Status
		return s.record(ctx, tx, orderID, &from, model.OrderStatusCancelled, byUserID, "cancel order")
	})
	if err != nil {
		return nil, err
	}
	return s.afterCommit(ctx, "cancel order", orderID)
}

// release 撤销成交。商品已被删除或不再是本订单卖出的状态时不动。
func (s *orderService) release(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	products := s.productRepo.WithTx(tx)
	product, err := products.LockByID(ctx, order.ProductID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if product.Status != model.ProductStatusSold {
		return nil
	}
	if product.BuyerID != nil && *product.BuyerID != order.BuyerID {
		return nil
	}
	return products.Release(ctx, product.ProductID)
}

func (s *orderService) Get(ctx context.Context, orderID int64) (*model.Order, error) {
	if orderID <= 0 {
		return nil, newError(ErrMissingInput, "order_id required")
	}
	order, err := s.orderRepo.GetByOrderID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrNotFound, "Order not found")
	}
	if err != nil {
		return nil, storageError("get order", err)
	}
	return order, nil
}

// History 订单状态流水，按时间正序
func (s *orderService) History(ctx context.Context, orderID int64) ([]*model.OrderStatusLog, error) {
	if _, err := s.Get(ctx, orderID); err != nil {
		return nil, err
	}
	logs, err := s.logRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, storageError("list order logs", err)
	}
	return logs, nil
}

// List 订单列表；开启缓存时先取代数再查库，保证不会读到提交前的页
func (s *orderService) List(ctx context.Context, filter repository.OrderFilter) (*OrderPage, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, newError(ErrMissingInput, "invalid status")
	}
	if filter.Limit <= 0 {
		filter.Limit = s.cfg.ListDefaultLimit
	}
	if filter.Limit > s.cfg.ListMaxLimit {
		filter.Limit = s.cfg.ListMaxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	var key string
	if s.cache != nil {
		k, err := s.cache.Key(ctx, filter)
		if err != nil {
			logger.Warn("order list cache unavailable", zap.Error(err))
		} else {
			key = k
			var cached OrderPage
			if s.cache.Get(ctx, key, &cached) {
				return &cached, nil
			}
		}
	}

	items, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, storageError("list orders", err)
	}
	if items == nil {
		items = []*model.OrderView{}
	}
	page := &OrderPage{Total: total, Items: items}

	if key != "" {
		if err := s.cache.Set(ctx, key, page); err != nil {
			logger.Warn("order list cache write failed", zap.Error(err))
		}
	}
	return page, nil
}

func (s *orderService) lockOrder(ctx context.Context, tx *gorm.DB, orderID int64) (*model.Order, error) {
	order, err := s.orderRepo.WithTx(tx).LockByOrderID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrNotFound, "Order not found")
	}
	return order, err
}

func (s *orderService) record(ctx context.Context, tx *gorm.DB, orderID int64, from *model.OrderStatus, to model.OrderStatus, by int64, note string) error {
	return s.logRepo.WithTx(tx).Record(ctx, &model.OrderStatusLog{
		OrderID:    orderID,
		FromStatus: from,
		ToStatus:   to,
		ChangedBy:  by,
		Note:       note,
		CreatedAt:  s.now(),
	})
}

// inTx 在一个事务内执行 fn；任何错误都会整体回滚
func (s *orderService) inTx(ctx context.Context, op string, fn func(ctx context.Context, tx *gorm.DB) error) error {
	ctx, span := tracer.Start(ctx, op, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, tx)
	})
	if err == nil {
		return nil
	}

	err = asServiceError(op, err)
	span.RecordError(err)
	if errors.Is(err, ErrStorage) {
		span.SetStatus(codes.Error, op+" failed")
		logger.Error("order transaction rolled back", zap.String("op", op), zap.Error(err))
	} else {
		span.SetAttributes(attribute.String("order.rejected", Message(err)))
		logger.Debug("order transition rejected", zap.String("op", op), zap.Error(err))
	}
	return err
}

// afterCommit 提交后使列表缓存失效并重新读取订单
func (s *orderService) afterCommit(ctx context.Context, op string, orderID int64) (*model.Order, error) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			logger.Warn("order list cache invalidate failed", zap.Int64("order_id", orderID), zap.Error(err))
		}
	}
	order, err := s.orderRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, storageError(op, err)
	}
	logger.Info(op, zap.Int64("order_id", orderID), zap.String("status", string(order.Status)))
	return order, nil
}

func (s *orderService) now() time.Time {
	return s.cfg.Clock().UTC()
}
