package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/marketplace/internal/model"
	"github.com/d60-Lab/marketplace/internal/repository"
	"github.com/d60-Lab/marketplace/pkg/response"
)

type createOrderRequest struct {
	BuyerID   int64 `json:"buyer_id"`
	ProductID int64 `json:"product_id"`
}

type confirmOrderRequest struct {
	OrderID  int64 `json:"order_id"`
	SellerID int64 `json:"seller_id"`
}

type orderActionRequest struct {
	OrderID  int64 `json:"order_id"`
	ByUserID int64 `json:"by_user_id"`
}

type listOrdersQuery struct {
	BuyerID  int64  `form:"buyer_id"`
	SellerID int64  `form:"seller_id"`
	Status   string `form:"status" binding:"omitempty,order_status"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}

// CreateOrder 下单
// @Summary 创建订单
// @Description 锁定商品行，按当前价格生成 pending 订单
// @Tags 订单
// @Accept json
// @Produce json
// @Param request body createOrderRequest true "下单信息"
// @Success 200 {object} model.Order
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/order/create [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if !actorMatches(c, req.BuyerID) {
		return
	}
	order, err := h.orderService.Create(c.Request.Context(), req.BuyerID, req.ProductID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, order)
}

// ConfirmOrder 卖家确认
// @Summary 确认订单
// @Description 订单 pending->confirmed，商品标记为 sold
// @Tags 订单
// @Accept json
// @Produce json
// @Param request body confirmOrderRequest true "确认信息"
// @Success 200 {object} model.Order
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/order/confirm [put]
func (h *Handler) ConfirmOrder(c *gin.Context) {
	var req confirmOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if !actorMatches(c, req.SellerID) {
		return
	}
	order, err := h.orderService.Confirm(c.Request.Context(), req.OrderID, req.SellerID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, order)
}

// FinishOrder 完成订单
// @Summary 完成订单
// @Tags 订单
// @Accept json
// @Produce json
// @Param request body orderActionRequest true "操作信息"
// @Success 200 {object} model.Order
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/order/finish [put]
func (h *Handler) FinishOrder(c *gin.Context) {
	var req orderActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if !actorMatches(c, req.ByUserID) {
		return
	}
	order, err := h.orderService.Finish(c.Request.Context(), req.OrderID, req.ByUserID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消订单
// @Summary 取消订单
// @Description 已确认的订单取消后商品重新上架
// @Tags 订单
// @Accept json
// @Produce json
// @Param request body orderActionRequest true "操作信息"
// @Success 200 {object} model.Order
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/order/cancel [put]
func (h *Handler) CancelOrder(c *gin.Context) {
	var req orderActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if !actorMatches(c, req.ByUserID) {
		return
	}
	order, err := h.orderService.Cancel(c.Request.Context(), req.OrderID, req.ByUserID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, order)
}

// ListOrders 订单列表
// @Summary 查询订单列表
// @Tags 订单
// @Produce json
// @Param buyer_id query int false "买家ID"
// @Param seller_id query int false "卖家ID"
// @Param status query string false "订单状态"
// @Param limit query int false "每页数量" default(20)
// @Param offset query int false "偏移量" default(0)
// @Success 200 {object} service.OrderPage
// @Failure 500 {object} response.Response
// @Router /api/order/list [get]
func (h *Handler) ListOrders(c *gin.Context) {
	var q listOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query")
		return
	}
	page, err := h.orderService.List(c.Request.Context(), repository.OrderFilter{
		BuyerID:  q.BuyerID,
		SellerID: q.SellerID,
		Status:   model.OrderStatus(q.Status),
		Page:     repository.Page{Limit: q.Limit, Offset: q.Offset},
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, page)
}

// GetOrder 订单详情
// @Summary 查询订单
// @Tags 订单
// @Produce json
// @Param id path int true "订单ID"
// @Success 200 {object} model.Order
// @Failure 404 {object} response.Response
// @Router /api/order/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	order, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, order)
}

// OrderLogs 订单状态流水
// @Summary 查询订单状态流水
// @Tags 订单
// @Produce json
// @Param id path int true "订单ID"
// @Success 200 {array} model.OrderStatusLog
// @Failure 404 {object} response.Response
// @Router /api/order/{id}/logs [get]
func (h *Handler) OrderLogs(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	logs, err := h.orderService.History(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, logs)
}
