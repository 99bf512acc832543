package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/marketplace/config"
	"github.com/d60-Lab/marketplace/internal/model"
	"github.com/d60-Lab/marketplace/internal/repository"
	"github.com/d60-Lab/marketplace/pkg/auth"
	"github.com/d60-Lab/marketplace/pkg/database"
)

type testEnv struct {
	db       *gorm.DB
	orders   OrderService
	products ProductService
	users    UserService
	reviews  ReviewService
	messages MessageService
	notices  AnnouncementService
	reports  ReportService

	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository

	seller *model.User
	buyer1 *model.User
	buyer2 *model.User
}

// newTestDB 单连接内存库：并发事务在连接池上排队，sqlite 不执行 FOR UPDATE，行锁由 cmd/orderbench 在 mysql/postgres 上验证
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1}, gormlogger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestEnv(t *testing.T, cfg OrderServiceConfig, cache ListCache) *testEnv {
	t.Helper()
	db := newTestDB(t)

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	userRepo := repository.NewUserRepository(db)

	env := &testEnv{
		db:          db,
		orders:      NewOrderService(db, orderRepo, productRepo, repository.NewStatusLogRepository(db), cache, cfg),
		products:    NewProductService(db, productRepo, orderRepo, userRepo, 100),
		users:       NewUserService(userRepo, auth.NewTokenManager("test-secret", "marketplace", time.Hour)),
		reviews:     NewReviewService(repository.NewReviewRepository(db), orderRepo),
		messages:    NewMessageService(repository.NewMessageRepository(db), orderRepo),
		notices:     NewAnnouncementService(repository.NewAnnouncementRepository(db), 100),
		reports:     NewReportService(repository.NewReportRepository(db), userRepo, productRepo, orderRepo, 100),
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
	env.seller = env.mustUser(t, "seller1", model.RoleSeller)
	env.buyer1 = env.mustUser(t, "buyer1", model.RoleBuyer)
	env.buyer2 = env.mustUser(t, "buyer2", model.RoleBuyer)
	return env
}

func (e *testEnv) mustUser(t *testing.T, name, role string) *model.User {
	t.Helper()
	u, err := e.users.Create(context.Background(), UserInput{
		Name:     name,
		Email:    name + "@example.com",
		Password: "password123",
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) mustProduct(t *testing.T, title string, price float64) *model.Product {
	t.Helper()
	p, err := e.products.Create(context.Background(), ProductInput{
		SellerID: e.seller.UserID,
		Title:    title,
		Price:    price,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) reloadProduct(t *testing.T, id int64) *model.Product {
	t.Helper()
	p, err := e.productRepo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}
