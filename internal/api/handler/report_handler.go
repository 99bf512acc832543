package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/marketplace/internal/model"
	"github.com/d60-Lab/marketplace/internal/repository"
	"github.com/d60-Lab/marketplace/internal/service"
	"github.com/d60-Lab/marketplace/pkg/response"
)

type createReportRequest struct {
	ReporterID int64  `json:"reporter_id"`
	TargetType string `json:"target_type"`
	TargetID   int64  `json:"target_id"`
	ReasonCode string `json:"reason_code" binding:"max=32"`
	ReasonText string `json:"reason_text" binding:"max=2000"`
}

type listReportsQuery struct {
	Status     string `form:"status"`
	TargetType string `form:"target_type"`
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
}

type updateReportRequest struct {
	Status string `json:"status"`
}

// CreateReport 检举
// @Summary 检举商品、用户或订单
// @Tags 检举
// @Accept json
// @Produce json
// @Param request body createReportRequest true "检举内容"
// @Success 201 {object} model.Report
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/reports [post]
func (h *Handler) CreateReport(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if !actorMatches(c, req.ReporterID) {
		return
	}
	report, err := h.reportService.Create(c.Request.Context(), service.ReportInput{
		ReporterID: req.ReporterID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		ReasonCode: req.ReasonCode,
		ReasonText: req.ReasonText,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, report)
}

// ListReports 检举列表
// @Summary 检举列表（后台）
// @Tags 检举
// @Produce json
// @Param status query string false "pending/in_review/resolved/rejected/all，默认 pending"
// @Param target_type query string false "product/user/order"
// @Param limit query int false "每页条数"
// @Param offset query int false "偏移量"
// @Success 200 {object} service.ReportPage
// @Failure 400 {object} response.Response
// @Router /api/reports [get]
func (h *Handler) ListReports(c *gin.Context) {
	var q listReportsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query")
		return
	}
	page, err := h.reportService.List(c.Request.Context(), q.Status, q.TargetType, repository.Page{Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, page)
}

// UpdateReportStatus 处理检举
// @Summary 更新检举状态
// @Tags 检举
// @Accept json
// @Produce json
// @Param id path int true "检举ID"
// @Param request body updateReportRequest true "in_review/resolved/rejected"
// @Success 200 {object} model.Report
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/reports/{id} [patch]
func (h *Handler) UpdateReportStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req updateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	report, err := h.reportService.UpdateStatus(c.Request.Context(), id, model.ReportStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, report)
}
