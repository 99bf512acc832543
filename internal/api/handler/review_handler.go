package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/marketplace/internal/service"
	"github.com/d60-Lab/marketplace/pkg/response"
)

type createReviewRequest struct {
	OrderID int64  `json:"order_id"`
	BuyerID int64  `json:"buyer_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment" binding:"max=2000"`
}

type sendMessageRequest struct {
	OrderID  int64  `json:"order_id"`
	SenderID int64  `json:"sender_id"`
	Content  string `json:"content" binding:"max=2000"`
}

// CreateReview 评价
// @Summary 评价已完成订单
// @Tags 评价
// @Accept json
// @Produce json
// @Param request body createReviewRequest true "评价内容"
// @Success 201 {object} model.Review
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/reviews/create [post]
func (h *Handler) CreateReview(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if !actorMatches(c, req.BuyerID) {
		return
	}
	review, err := h.reviewService.Create(c.Request.Context(), service.ReviewInput{
		OrderID: req.OrderID,
		BuyerID: req.BuyerID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, review)
}

// MyReviews 买家写过的评价
// @Summary 我的评价
// @Tags 评价
// @Produce json
// @Param buyer_id query int true "买家ID"
// @Success 200 {array} model.ReviewView
// @Router /api/reviews/my [get]
func (h *Handler) MyReviews(c *gin.Context) {
	buyerID, _ := strconv.ParseInt(c.Query("buyer_id"), 10, 64)
	res, err := h.reviewService.ListByBuyer(c.Request.Context(), buyerID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, res)
}

// SellerReviews 卖家收到的评价
// @Summary 卖家评价
// @Tags 评价
// @Produce json
// @Param seller_id query int true "卖家ID"
// @Success 200 {array} model.ReviewView
// @Router /api/reviews/seller [get]
func (h *Handler) SellerReviews(c *gin.Context) {
	sellerID, _ := strconv.ParseInt(c.Query("seller_id"), 10, 64)
	res, err := h.reviewService.ListBySeller(c.Request.Context(), sellerID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, res)
}

// ListMessages 订单留言
// @Summary 查询订单留言
// @Tags 留言
// @Produce json
// @Param order_id query int true "订单ID"
// @Param user_id query int true "当前用户ID"
// @Success 200 {array} model.Message
// @Failure 403 {object} response.Response
// @Router /api/messages/list [get]
func (h *Handler) ListMessages(c *gin.Context) {
	orderID, _ := strconv.ParseInt(c.Query("order_id"), 10, 64)
	userID, _ := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if !actorMatches(c, userID) {
		return
	}
	msgs, err := h.messageService.List(c.Request.Context(), orderID, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, msgs)
}

// SendMessage 发送留言
// @Summary 发送订单留言
// @Tags 留言
// @Accept json
// @Produce json
// @Param request body sendMessageRequest true "留言内容"
// @Success 201 {object} model.Message
// @Failure 403 {object} response.Response
// @Router /api/messages/send [post]
func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if !actorMatches(c, req.SenderID) {
		return
	}
	msg, err := h.messageService.Send(c.Request.Context(), req.OrderID, req.SenderID, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, msg)
}
