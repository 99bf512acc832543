package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/marketplace/internal/cache"
	"github.com/d60-Lab/marketplace/internal/model"
	"github.com/d60-Lab/marketplace/internal/repository"
)

func TestOrderLifecycle(t *testing.T) {
	env := newTestEnv(t, OrderServiceConfig{}, nil)
	ctx := context.Background()
	p := env.mustProduct(t, "bike", 500)

	order, err := env.orders.Create(ctx, env.buyer1.UserID, p.ProductID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, 500.0, order.OrderPrice)
	assert.Equal(t, env.seller.UserID, order.SellerID)
	assert.Equal(t, model.ProductStatusOnSale, env.reloadProduct(t, p.ProductID).Status)

	order, err = env.orders.Confirm(ctx, order.OrderID, env.seller.UserID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, order.Status)
	assert.NotNil(t, order.ConfirmedAt)

	sold := env.reloadProduct(t, p.ProductID)
	assert.Equal(t, model.ProductStatusSold, sold.Status)
	require.NotNil(t, sold.BuyerID)
	assert.Equal(t, env.buyer1.UserID, *sold.BuyerID)
	assert.NotNil(t, sold.SoldAt)

	order, err = env.orders.Finish(ctx, order.OrderID, env.buyer1.UserID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, order.Status)
	assert.NotNil(t, order.FinishedAt)
	assert.Equal(t, model.ProductStatusSold, env.reloadProduct(t, p.ProductID).Status)

	_, err = env.orders.Cancel(ctx, order.OrderID, env.buyer1.UserID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, "Order is already finalized", Message(err))

	logs, err := env.orders.History(ctx, order.OrderID)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Nil(t, logs[0].FromStatus)
	assert.Equal(t, model.OrderStatusPending, logs[0].ToStatus)
	assert.Equal(t, model.OrderStatusPending, *logs[1].FromStatus)
	assert.Equal(t, model.OrderStatusConfirmed, logs[1].ToStatus)
	assert.Equal(t, env.seller.UserID, logs[1].ChangedBy)
	assert.Equal(t, model.OrderStatusConfirmed, *logs[2].FromStatus)
	assert.Equal(t, model.OrderStatusCompleted, logs[2].ToStatus)
}

func TestCreateValidation(t *testing.T) {
	env := newTestEnv(t, OrderServiceConfig{}, nil)
	ctx := context.Background()

	_, err := env.orders.Create(ctx, 0, 1)
	assert.ErrorIs(t, err, ErrMissingInput)
	assert.Equal(t, "buyer_id & product_id required", Message(err))

	_, err = env.orders.Create(ctx, env.buyer1.UserID, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Product not found", Message(err))

	p := env.mustProduct(t, "desk", 120)
	require.NoError(t, env.db.Model(&model.Product{}).Where("product_id = ?", p.ProductID).
		Update("status", model.ProductStatusRemoved).Error)
	_, err = env.orders.Create(ctx, env.buyer1.UserID, p.ProductID)
	assert.ErrorIs(t, err, ErrProductUnavailable)

	count, err := env.orderRepo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPriceLock(t *testing.T) {
	env := newTestEnv(t, OrderServiceConfig{}, nil)
	ctx := context.Background()
	p := env.mustProduct(t, "lamp", 80)

	order, err := env.orders.Create(ctx, env.buyer1.UserID, p.ProductID)
	require.NoError(t, err)

	_, err = env.products.Update(ctx, p.ProductID, ProductInput{SellerID: env.seller.UserID, Title: "lamp", Price: 200})
	require.NoError(t, err)

	order, err = env.orders.Confirm(ctx, order.OrderID, env.seller.UserID)
	require.NoError(t, err)
	assert.Equal(t, 80.0, order.OrderPrice)
	assert.Equal(t, 200.0, env.reloadProduct(t, p.ProductID).Price)
}

func TestConfirmRules(t *testing.T) {
	env := newTestEnv(t, OrderServiceConfig{}, nil)
	ctx := context.Background()
	p := env.mustProduct(t, "chair", 60)

	_, err := env.orders.Confirm(ctx, 404, env.seller.UserID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Order not found", Message(err))

	order, err := env.orders.Create(ctx, env.buyer1.UserID, p.ProductID)
	require.NoError(t, err)

	_, err = env.orders.Confirm(ctx, order.OrderID, env.buyer1.UserID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "Only the seller can confirm", Message(err))

	_, err = env.orders.Finish(ctx, order.OrderID, env.buyer1.UserID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, "Only confirmed orders can be finished", Message(err))

	_, err = env.orders.Confirm(ctx, order.OrderID, env.seller.UserID)
	require.NoError(t, err)

	_, err = env.orders.Confirm(ctx, order.OrderID, env.seller.UserID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, "Only pending orders can be confirmed", Message(err))

	_, err = env.orders.Finish(ctx, order.OrderID, env.buyer2.UserID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "Not part of this order", Message(err))

	// 被拒绝的迁移不写流水
	logs, err := env.orders.History(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestCompetingOrders(t *testing.T) {
	env := newTestEnv(t, OrderServiceConfig{}, nil)
	ctx := context.Background()
	p := env.mustProduct(t, "camera", 900)

	o2, err := env.orders.Create(ctx, env.buyer1.UserID, p.ProductID)
	require.NoError(t, err)
	o3, err := env.orders.Create(ctx, env.buyer2.UserID, p.ProductID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, o3.Status)

	_, err = env.orders.Confirm(ctx, o2.OrderID, env.seller.UserID)
	require.NoError(t, err)

	_, err = env.orders.Confirm(ctx, o3.OrderID, env.seller.UserID)
	assert.ErrorIs(t, err, ErrProductUnavailable)
	assert.Equal(t, "Product is not available", Message(err))

	// 取消落选的 pending 订单不能把别人买下的商品放回
	_, err = env.orders.Cancel(ctx, o3.OrderID, env.buyer2.UserID)
	require.NoError(t, err)
	sold := env.reloadProduct(t, p.ProductID)
	assert.Equal(t, model.ProductStatusSold, sold.Status)
	require.NotNil(t, sold.BuyerID)
	assert.Equal(t, env.buyer1.UserID, *sold.BuyerID)
}

func TestConcurrentConfirmSingleWinner(t *testing.T) {
	env := newTestEnv(t, OrderServiceConfig{}, nil)
	ctx := context.Background()
	p := env.mustProduct(t, "guitar", 700)

	var ids []int64
	for _, buyer := range []*model.User{env.buyer1, env.buyer2, env.buyer1, env.buyer2} {
		o, err := env.orders.Create(ctx, buyer.UserID, p.ProductID)
		require.NoError(t, err)
		ids = append(ids, o.OrderID)
	}

	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		wins        int
		unavailable int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := env.orders.Confirm(ctx, id, env.seller.UserID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case assert.ErrorIs(t, err, ErrProductUnavailable):
				unavailable++
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, len(ids)-1, unavailable)
	assert.Equal(t, model.ProductStatusSold, env.reloadProduct(t, p.ProductID).Status)

	page, err := env.orders.List(ctx, repository.OrderFilter{Status: model.OrderStatusConfirmed})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestAuditFailureRollsBack(t *testing.T) {
	env := newTestEnv(t, OrderServiceConfig{}, nil)
	ctx := context.Background()
	p := env.mustProduct(t, "camera", 300)
	sold := env.mustProduct(t, "tripod", 40)

	pending, err := env.orders.Create(ctx, env.buyer1.UserID, p.ProductID)
	require.NoError(t, err)
	confirmed, err := env.orders.Create(ctx, env.buyer2.UserID, sold.ProductID)
	require.NoError(t, err)
	_, err = env.orders.Confirm(ctx, confirmed.OrderID, env.seller.UserID)
	require.NoError(t, err)

	require.NoError(t, env.db.Migrator().DropTable(&model.OrderStatusLog{}))

	_, err = env.orders.Confirm(ctx, pending.OrderID, env.seller.UserID)
	require.ErrorIs(t, err, ErrStorage)
	assert.Equal(t, "confirm order failed", Message(err))

	order, err := env.orderRepo.GetByOrderID(ctx, pending.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Nil(t, order.ConfirmedAt)
	product := env.reloadProduct(t, p.ProductID)
	assert.Equal(t, model.ProductStatusOnSale, product.Status)
	assert.Nil(t, product.BuyerID)

	_, err = env.orders.Cancel(ctx, confirmed.OrderID, env.buyer2.UserID)
	require.ErrorIs(t, err, ErrStorage)
	assert.Equal(t, "cancel order failed", Message(err))
	order, err = env.orderRepo.GetByOrderID(ctx, confirmed.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, order.Status)
	assert.Equal(t, model.ProductStatusSold, env.reloadProduct(t, sold.ProductID).Status)

	_, err = env.orders.Create(ctx, env.buyer2.UserID, p.ProductID)
	require.ErrorIs(t, err, ErrStorage)
	assert.Equal(t, "create order failed", Message(err))
	page, err := env.orders.List(ctx, repository.OrderFilter{BuyerID: env.buyer2.UserID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestCancelRestoresProduct(t *testing.T) {
	env := newTestEnv(t, OrderServiceConfig{}, nil)
	ctx := context.Background()

	t.Run("after confirm", func(t *testing.T) {
		p := env.mustProduct(t, "sofa", 300)
		o, err := env.orders.Create(ctx, env.buyer1.UserID, p.ProductID)
		require.NoError(t, err)
		_, err = env.orders.Confirm(ctx, o.OrderID, env.seller.UserID)
		require.NoError(t, err)

		o, err = env.orders.Cancel(ctx, o.OrderID, env.seller.UserID)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusCancelled, o.Status)
		assert.NotNil(t, o.CanceledAt)

		restored := env.reloadProduct(t, p.ProductID)
		assert.Equal(t, model.ProductStatusOnSale, restored.Status)
		assert.Nil(t, restored.BuyerID)
		assert.Nil(t, restored.SoldAt)

		logs, err := env.orders.History(ctx, o.OrderID)
		require.NoError(t, err)
		last := logs[len(logs)-1]
		assert.Equal(t, model.OrderStatusConfirmed, *last.FromStatus)
		assert.Equal(t, model.OrderStatusCancelled, last.ToStatus)

		// 商品重新上架后可以再次下单
		_, err = env.orders.Create(ctx, env.buyer2.UserID, p.ProductID)
		assert.NoError(t, err)
	})

	t.Run("before confirm", func(t *testing.T) {
		p := env.mustProduct(t, "table", 150)
		o, err := env.orders.Create(ctx, env.buyer1.UserID, p.ProductID)
		require.NoError(t, err)

		_, err = env.orders.Cancel(ctx, o.OrderID, env.buyer2.UserID)
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = env.orders.Cancel(ctx, o.OrderID, env.buyer1.UserID)
		require.NoError(t, err)
		unchanged := env.reloadProduct(t, p.ProductID)
		assert.Equal(t, model.ProductStatusOnSale, unchanged.Status)
		assert.Nil(t, unchanged.BuyerID)

		_, err = env.orders.Confirm(ctx, o.OrderID, env.seller.UserID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		_, err = env.orders.Finish(ctx, o.OrderID, env.buyer1.UserID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestExclusivePending(t *testing.T) {
	env := newTestEnv(t, OrderServiceConfig{ExclusivePending: true}, nil)
	ctx := context.Background()
	p := env.mustProduct(t, "phone", 1200)

	o, err := env.orders.Create(ctx, env.buyer1.UserID, p.ProductID)
	require.NoError(t, err)

	_, err = env.orders.Create(ctx, env.buyer2.UserID, p.ProductID)
	assert.ErrorIs(t, err, ErrProductUnavailable)

	_, err = env.orders.Cancel(ctx, o.OrderID, env.buyer1.UserID)
	require.NoError(t, err)

	_, err = env.orders.Create(ctx, env.buyer2.UserID, p.ProductID)
	assert.NoError(t, err)
}

func TestTransitionTimestamps(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	env := newTestEnv(t, OrderServiceConfig{Clock: func() time.Time { return fixed }}, nil)
	ctx := context.Background()
	p := env.mustProduct(t, "kettle", 40)

	o, err := env.orders.Create(ctx, env.buyer1.UserID, p.ProductID)
	require.NoError(t, err)
	assert.True(t, o.CreatedAt.Equal(fixed))
	assert.Nil(t, o.ConfirmedAt)

	o, err = env.orders.Confirm(ctx, o.OrderID, env.seller.UserID)
	require.NoError(t, err)
	require.NotNil(t, o.ConfirmedAt)
	assert.True(t, o.ConfirmedAt.Equal(fixed))
	assert.Nil(t, o.FinishedAt)
	assert.Nil(t, o.CanceledAt)
}

func TestListOrders(t *testing.T) {
	env := newTestEnv(t, OrderServiceConfig{ListDefaultLimit: 2, ListMaxLimit: 3}, nil)
	ctx := context.Background()

	var last *model.Order
	for i := 0; i < 4; i++ {
		p := env.mustProduct(t, "item", float64(10+i))
		o, err := env.orders.Create(ctx, env.buyer1.UserID, p.ProductID)
		require.NoError(t, err)
		last = o
	}
	p := env.mustProduct(t, "other", 99)
	o, err := env.orders.Create(ctx, env.buyer2.UserID, p.ProductID)
	require.NoError(t, err)
	_, err = env.orders.Confirm(ctx, o.OrderID, env.seller.UserID)
	require.NoError(t, err)

	page, err := env.orders.List(ctx, repository.OrderFilter{BuyerID: env.buyer1.UserID})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, last.OrderID, page.Items[0].OrderID)
	assert.Equal(t, "item", page.Items[0].ProductTitle)
	assert.Equal(t, "buyer1", page.Items[0].BuyerName)
	assert.Equal(t, "seller1@example.com", page.Items[0].SellerEmail)

	page, err = env.orders.List(ctx, repository.OrderFilter{BuyerID: env.buyer1.UserID, Page: repository.Page{Limit: 50, Offset: 3}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	page, err = env.orders.List(ctx, repository.OrderFilter{SellerID: env.seller.UserID, Status: model.OrderStatusConfirmed})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, o.OrderID, page.Items[0].OrderID)

	page, err = env.orders.List(ctx, repository.OrderFilter{BuyerID: 12345})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.NotNil(t, page.Items)

	_, err = env.orders.List(ctx, repository.OrderFilter{Status: "shipped"})
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestListCacheReflectsCommits(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	listCache := cache.NewOrderListCache(client, time.Minute)

	env := newTestEnv(t, OrderServiceConfig{}, listCache)
	ctx := context.Background()
	p := env.mustProduct(t, "drone", 650)
	filter := repository.OrderFilter{BuyerID: env.buyer1.UserID}

	page, err := env.orders.List(ctx, filter)
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	o, err := env.orders.Create(ctx, env.buyer1.UserID, p.ProductID)
	require.NoError(t, err)

	page, err = env.orders.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, model.OrderStatusPending, page.Items[0].Status)

	// 第二次读取命中缓存
	_, err = env.orders.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), listCache.Counters().Hits)

	_, err = env.orders.Confirm(ctx, o.OrderID, env.seller.UserID)
	require.NoError(t, err)

	page, err = env.orders.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, page.Items[0].Status)
}

func TestListCacheUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	env := newTestEnv(t, OrderServiceConfig{}, cache.NewOrderListCache(client, time.Minute))
	ctx := context.Background()
	p := env.mustProduct(t, "tent", 90)
	mr.Close()

	// redis 不可用时仍以数据库为准
	_, err := env.orders.Create(ctx, env.buyer1.UserID, p.ProductID)
	require.NoError(t, err)
	page, err := env.orders.List(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}
