package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/d60-Lab/marketplace/config"
	"github.com/d60-Lab/marketplace/internal/cache"
	"github.com/d60-Lab/marketplace/internal/model"
	"github.com/d60-Lab/marketplace/internal/repository"
	"github.com/d60-Lab/marketplace/internal/service"
	"github.com/d60-Lab/marketplace/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// 确认竞争压测：P 个商品，每个商品 K 个 pending 订单，CONC 个 worker 同时确认。
// 每个商品必须恰好一个订单确认成功。
func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	if err := database.Migrate(db); err != nil {
		panic(err)
	}

	ctx := context.Background()
	P := envInt("P", 200)
	K := envInt("K", 5)
	CONC := envInt("CONC", 16)
	PAGE := envInt("PAGE", 50)

	var listCache service.ListCache
	if cfg.Redis.Enabled {
		client := must(cache.NewRedisClient(ctx, cfg.Redis))
		defer client.Close()
		listCache = cache.NewOrderListCache(client, cfg.Redis.CacheTTL)
	}

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	orders := service.NewOrderService(db, orderRepo, productRepo, repository.NewStatusLogRepository(db), listCache, service.OrderServiceConfig{
		ListDefaultLimit: cfg.Order.ListDefaultLimit,
		ListMaxLimit:     cfg.Order.ListMaxLimit,
	})

	// seed：一个卖家，K 个买家
	stamp := time.Now().UnixNano()
	seller := model.User{Name: "bench-seller", Email: fmt.Sprintf("seller-%d@bench.local", stamp), PasswordHash: "x", Role: model.RoleSeller, Status: model.UserStatusActive}
	if err := db.Create(&seller).Error; err != nil {
		panic(err)
	}
	buyers := make([]model.User, K)
	for i := range buyers {
		buyers[i] = model.User{Name: fmt.Sprintf("bench-buyer-%d", i), Email: fmt.Sprintf("buyer-%d-%d@bench.local", i, stamp), PasswordHash: "x", Role: model.RoleBuyer, Status: model.UserStatusActive}
	}
	if err := db.CreateInBatches(&buyers, 500).Error; err != nil {
		panic(err)
	}
	products := make([]model.Product, P)
	now := time.Now().UTC()
	for i := range products {
		products[i] = model.Product{SellerID: seller.UserID, Title: fmt.Sprintf("bench-%d", i), Price: float64(10 + i%90), Status: model.ProductStatusOnSale, CreatedAt: now}
	}
	if err := db.CreateInBatches(&products, 500).Error; err != nil {
		panic(err)
	}

	createRecs := make([]time.Duration, 0, P*K)
	ids := make([]int64, 0, P*K)
	t0 := time.Now()
	for _, p := range products {
		for _, b := range buyers {
			st := time.Now()
			o := must(orders.Create(ctx, b.UserID, p.ProductID))
			createRecs = append(createRecs, time.Since(st))
			ids = append(ids, o.OrderID)
		}
	}
	createDur := time.Since(t0)

	var wins, unavailable, failed atomic.Int64
	confirmCh := make(chan time.Duration, len(ids))
	feed := make(chan int64, len(ids))
	// 交错投递，使同一商品的订单落在不同 worker 上
	for k := 0; k < K; k++ {
		for p := 0; p < P; p++ {
			feed <- ids[p*K+k]
		}
	}
	close(feed)

	workers := CONC
	if workers > len(ids) {
		workers = len(ids)
	}
	var wg sync.WaitGroup
	t1 := time.Now()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range feed {
				st := time.Now()
				_, err := orders.Confirm(ctx, id, seller.UserID)
				confirmCh <- time.Since(st)
				switch {
				case err == nil:
					wins.Add(1)
				case errors.Is(err, service.ErrProductUnavailable):
					unavailable.Add(1)
				default:
					failed.Add(1)
				}
			}
		}()
	}
	wg.Wait()
	close(confirmCh)
	confirmDur := time.Since(t1)
	confirmRecs := make([]time.Duration, 0, len(ids))
	for d := range confirmCh {
		confirmRecs = append(confirmRecs, d)
	}

	listRecs := make([]time.Duration, 0, 100)
	for i := 0; i < 100; i++ {
		st := time.Now()
		_ = must(orders.List(ctx, repository.OrderFilter{SellerID: seller.UserID, Page: repository.Page{Limit: PAGE}}))
		listRecs = append(listRecs, time.Since(st))
	}

	pct := func(vs []time.Duration, p float64) time.Duration {
		if len(vs) == 0 {
			return 0
		}
		xs := append([]time.Duration(nil), vs...)
		sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
		k := int(math.Ceil(p*float64(len(xs)))) - 1
		if k < 0 {
			k = 0
		}
		if k >= len(xs) {
			k = len(xs) - 1
		}
		return xs[k]
	}

	fmt.Printf("P=%d, K=%d, CONC=%d, PAGE=%d, driver=%s, cache=%v\n", P, K, CONC, PAGE, cfg.Database.Driver, listCache != nil)
	fmt.Printf("Create total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
		createDur, createDur/time.Duration(len(createRecs)), pct(createRecs, 0.50), pct(createRecs, 0.95), pct(createRecs, 0.99))
	fmt.Printf("Confirm total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
		confirmDur, confirmDur/time.Duration(len(confirmRecs)), pct(confirmRecs, 0.50), pct(confirmRecs, 0.95), pct(confirmRecs, 0.99))
	fmt.Printf("Confirm outcome: wins=%d, unavailable=%d, failed=%d\n", wins.Load(), unavailable.Load(), failed.Load())
	fmt.Printf("List(%d) latency: p50: %v, p95: %v\n", PAGE, pct(listRecs, 0.50), pct(listRecs, 0.95))

	if wins.Load() != int64(P) {
		fmt.Printf("FAIL: expected exactly %d confirmed orders\n", P)
		os.Exit(1)
	}
}
