package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/marketplace/internal/model"
	"github.com/d60-Lab/marketplace/internal/repository"
	"github.com/d60-Lab/marketplace/internal/service"
	"github.com/d60-Lab/marketplace/pkg/response"
)

type listAnnouncementsQuery struct {
	Status string `form:"status"`
	Q      string `form:"q" binding:"max=100"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

type createAnnouncementRequest struct {
	Title       string     `json:"title" binding:"max=255"`
	Content     string     `json:"content" binding:"max=20000"`
	Status      string     `json:"status" binding:"omitempty,announcement_status"`
	VisibleFrom *time.Time `json:"visible_from"`
	VisibleTo   *time.Time `json:"visible_to"`
	CreatedBy   *int64     `json:"created_by"`
}

// visible_from/visible_to 传空串表示清空，RFC3339 时间表示设置
type updateAnnouncementRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Content     *string `json:"content" binding:"omitempty,max=20000"`
	Status      *string `json:"status" binding:"omitempty,announcement_status"`
	VisibleFrom *string `json:"visible_from"`
	VisibleTo   *string `json:"visible_to"`
}

// ListAnnouncements 后台公告列表
// @Summary 公告列表（后台）
// @Tags 公告
// @Produce json
// @Param status query string false "draft/published/archived/all"
// @Param q query string false "标题或内容关键字"
// @Param limit query int false "每页条数"
// @Param offset query int false "偏移量"
// @Success 200 {object} service.AnnouncementPage
// @Failure 400 {object} response.Response
// @Router /api/announcements [get]
func (h *Handler) ListAnnouncements(c *gin.Context) {
	var q listAnnouncementsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query")
		return
	}
	if q.Status == "all" {
		q.Status = ""
	}
	page, err := h.announcementService.List(c.Request.Context(), repository.AnnouncementFilter{
		Status: model.AnnouncementStatus(q.Status),
		Query:  q.Q,
		Page:   repository.Page{Limit: q.Limit, Offset: q.Offset},
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, page)
}

// PublicAnnouncements 前台公告
// @Summary 前台可见公告
// @Tags 公告
// @Produce json
// @Param limit query int false "条数，默认 5"
// @Success 200 {array} model.Announcement
// @Router /api/announcements/public [get]
func (h *Handler) PublicAnnouncements(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := h.announcementService.Public(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, items)
}

// GetAnnouncement 公告详情
// @Summary 公告详情
// @Tags 公告
// @Produce json
// @Param id path int true "公告ID"
// @Success 200 {object} model.Announcement
// @Failure 404 {object} response.Response
// @Router /api/announcements/{id} [get]
func (h *Handler) GetAnnouncement(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	a, err := h.announcementService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, a)
}

// CreateAnnouncement 新建公告
// @Summary 新建公告
// @Tags 公告
// @Accept json
// @Produce json
// @Param request body createAnnouncementRequest true "公告内容"
// @Success 201 {object} model.Announcement
// @Failure 400 {object} response.Response
// @Router /api/announcements [post]
func (h *Handler) CreateAnnouncement(c *gin.Context) {
	var req createAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	createdBy := req.CreatedBy
	if v, ok := c.Get(ContextUserID); ok {
		if id, _ := v.(int64); id > 0 {
			createdBy = &id
		}
	}
	a, err := h.announcementService.Create(c.Request.Context(), service.AnnouncementInput{
		Title:       req.Title,
		Content:     req.Content,
		Status:      model.AnnouncementStatus(req.Status),
		VisibleFrom: req.VisibleFrom,
		VisibleTo:   req.VisibleTo,
		CreatedBy:   createdBy,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, a)
}

// UpdateAnnouncement 修改公告
// @Summary 修改公告
// @Tags 公告
// @Accept json
// @Produce json
// @Param id path int true "公告ID"
// @Param request body updateAnnouncementRequest true "修改字段"
// @Success 200 {object} model.Announcement
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/announcements/{id} [put]
func (h *Handler) UpdateAnnouncement(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req updateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	from, err := parseWindowEnd(req.VisibleFrom)
	if err != nil {
		response.BadRequest(c, "invalid visible_from")
		return
	}
	to, err := parseWindowEnd(req.VisibleTo)
	if err != nil {
		response.BadRequest(c, "invalid visible_to")
		return
	}

	in := service.AnnouncementUpdate{
		Title:       req.Title,
		Content:     req.Content,
		VisibleFrom: from,
		VisibleTo:   to,
	}
	if req.Status != nil {
		status := model.AnnouncementStatus(*req.Status)
		in.Status = &status
	}
	a, err := h.announcementService.Update(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, a)
}

// DeleteAnnouncement 删除公告
// @Summary 删除公告
// @Tags 公告
// @Param id path int true "公告ID"
// @Success 200 {object} response.OK
// @Failure 404 {object} response.Response
// @Router /api/announcements/{id} [delete]
func (h *Handler) DeleteAnnouncement(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.announcementService.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, nil)
}

// parseWindowEnd nil 不修改，空串返回零值时间（清空）
func parseWindowEnd(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	if *raw == "" {
		return &time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
