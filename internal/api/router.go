package api

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/marketplace/config"
	_ "github.com/d60-Lab/marketplace/docs"
	"github.com/d60-Lab/marketplace/internal/api/handler"
	"github.com/d60-Lab/marketplace/internal/api/middleware"
	"github.com/d60-Lab/marketplace/internal/model"
	"github.com/d60-Lab/marketplace/pkg/auth"
)

// RouterOptions 路由可选组件
type RouterOptions struct {
	Sentry  bool
	Swagger bool
}

// SetupRouter 注册中间件与路由
func SetupRouter(cfg *config.Config, h *handler.Handler, tokens *auth.TokenManager, opts RouterOptions) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	if opts.Sentry {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Server.Name))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware())
	}

	r.GET("/health", h.Health)
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.POST("/admin/login", h.AdminLogin)
	r.POST("/buyer/login", h.BuyerLogin)
	r.POST("/seller/login", h.SellerLogin)

	api := r.Group("/api")
	api.Use(middleware.Auth(tokens, cfg.JWT.Required))
	{
		order := api.Group("/order")
		{
			order.POST("/create", h.CreateOrder)
			order.PUT("/confirm", h.ConfirmOrder)
			order.PUT("/finish", h.FinishOrder)
			order.PUT("/cancel", h.CancelOrder)
			order.GET("/list", h.ListOrders)
			order.GET("/:id", h.GetOrder)
			order.GET("/:id/logs", h.OrderLogs)
		}

		products := api.Group("/products")
		{
			products.GET("/list", h.ListProducts)
			products.GET("/:id", h.GetProduct)
			products.POST("/create", h.CreateProduct)
			products.PUT("/update", h.UpdateProduct)
			products.DELETE("/delete", h.DeleteProduct)
		}

		users := api.Group("/users")
		users.Use(middleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin))
		{
			users.GET("", h.ListUsers)
			users.POST("", h.CreateUser)
			users.PATCH("/:id", h.UpdateUser)
			users.DELETE("/:id", h.DeleteUser)
			users.POST("/:id/reset-password", h.ResetPassword)
		}

		reviews := api.Group("/reviews")
		{
			reviews.POST("/create", h.CreateReview)
			reviews.GET("/my", h.MyReviews)
			reviews.GET("/seller", h.SellerReviews)
		}

		messages := api.Group("/messages")
		{
			messages.GET("/list", h.ListMessages)
			messages.POST("/send", h.SendMessage)
		}

		announcements := api.Group("/announcements")
		announcements.GET("/public", h.PublicAnnouncements)
		admin := announcements.Group("", middleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin))
		{
			admin.GET("", h.ListAnnouncements)
			admin.POST("", h.CreateAnnouncement)
			admin.GET("/:id", h.GetAnnouncement)
			admin.PUT("/:id", h.UpdateAnnouncement)
			admin.DELETE("/:id", h.DeleteAnnouncement)
		}

		reports := api.Group("/reports")
		reports.POST("", h.CreateReport)
		{
			reviewer := middleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin)
			reports.GET("", reviewer, h.ListReports)
			reports.PATCH("/:id", reviewer, h.UpdateReportStatus)
		}
	}

	return r
}
