package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/d60-Lab/marketplace/internal/model"
	"github.com/d60-Lab/marketplace/internal/service"
	"github.com/d60-Lab/marketplace/pkg/response"
)

// ContextUserID 认证中间件写入的用户ID键
const ContextUserID = "user_id"

// Handler 聚合各业务 handler 依赖
type Handler struct {
	orderService   service.OrderService
	productService service.ProductService
	userService    service.UserService
	reviewService  service.ReviewService
	messageService service.MessageService

	announcementService service.AnnouncementService
	reportService       service.ReportService

	db *gorm.DB
}

func New(
	orderService service.OrderService,
	productService service.ProductService,
	userService service.UserService,
	reviewService service.ReviewService,
	messageService service.MessageService,
	announcementService service.AnnouncementService,
	reportService service.ReportService,
	db *gorm.DB,
) *Handler {
	return &Handler{
		orderService:   orderService,
		productService: productService,
		userService:    userService,
		reviewService:  reviewService,
		messageService: messageService,

		announcementService: announcementService,
		reportService:       reportService,

		db: db,
	}
}

// RegisterValidators 注册自定义 binding 规则
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	if err := v.RegisterValidation("product_status", func(fl validator.FieldLevel) bool {
		return model.ProductStatus(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("announcement_status", func(fl validator.FieldLevel) bool {
		return model.AnnouncementStatus(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
		return model.OrderStatus(fl.Field().String()).Valid()
	})
}

// writeError 按错误分类输出状态码
func writeError(c *gin.Context, err error) {
	msg := service.Message(err)
	switch {
	case errors.Is(err, service.ErrMissingInput),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrProductUnavailable):
		response.BadRequest(c, msg)
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, msg)
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, msg)
	case errors.Is(err, service.ErrConflict):
		response.Conflict(c, msg)
	case errors.Is(err, service.ErrUnauthorized):
		response.Unauthorized(c, msg)
	case errors.Is(err, service.ErrStorage):
		response.InternalErrorWithMessage(c, err, msg)
	default:
		response.InternalError(c, err)
	}
}

// actorMatches 携带令牌时，请求体里的操作人必须是令牌本人
func actorMatches(c *gin.Context, actorID int64) bool {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return true
	}
	if id, _ := v.(int64); id != actorID {
		response.Forbidden(c, "Actor does not match token")
		return false
	}
	return true
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}
