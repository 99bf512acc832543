package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/marketplace/internal/model"
	"github.com/d60-Lab/marketplace/internal/repository"
	"github.com/d60-Lab/marketplace/internal/service"
	"github.com/d60-Lab/marketplace/pkg/response"
)

type productRequest struct {
	ProductID     int64   `json:"product_id"`
	SellerID      int64   `json:"seller_id"`
	Title         string  `json:"title" binding:"max=255"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	CoverImageURL string  `json:"cover_image_url" binding:"omitempty,url,max=512"`
}

func (r productRequest) input() service.ProductInput {
	return service.ProductInput{
		SellerID:      r.SellerID,
		Title:         r.Title,
		Description:   r.Description,
		Price:         r.Price,
		CoverImageURL: r.CoverImageURL,
	}
}

type deleteProductRequest struct {
	ProductID int64 `json:"product_id"`
	SellerID  int64 `json:"seller_id"`
}

type listProductsQuery struct {
	Query    string `form:"q"`
	Status   string `form:"status" binding:"omitempty,product_status"`
	SellerID int64  `form:"seller_id"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}

// ListProducts 商品列表
// @Summary 查询商品列表
// @Tags 商品
// @Produce json
// @Param q query string false "标题或描述关键字"
// @Param status query string false "商品状态"
// @Param seller_id query int false "卖家ID"
// @Param limit query int false "每页数量"
// @Param offset query int false "偏移量"
// @Success 200 {object} service.ProductPage
// @Router /api/products/list [get]
func (h *Handler) ListProducts(c *gin.Context) {
	var q listProductsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query")
		return
	}
	page, err := h.productService.List(c.Request.Context(), repository.ProductFilter{
		Query:    q.Query,
		Status:   model.ProductStatus(q.Status),
		SellerID: q.SellerID,
		Page:     repository.Page{Limit: q.Limit, Offset: q.Offset},
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, page)
}

// GetProduct 商品详情
// @Summary 查询商品
// @Tags 商品
// @Produce json
// @Param id path int true "商品ID"
// @Success 200 {object} model.Product
// @Failure 404 {object} response.Response
// @Router /api/products/{id} [get]
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	p, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, p)
}

// CreateProduct 发布商品
// @Summary 发布商品
// @Tags 商品
// @Accept json
// @Produce json
// @Param request body productRequest true "商品信息"
// @Success 201 {object} model.Product
// @Failure 400 {object} response.Response
// @Router /api/products/create [post]
func (h *Handler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if !actorMatches(c, req.SellerID) {
		return
	}
	p, err := h.productService.Create(c.Request.Context(), req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, p)
}

// UpdateProduct 修改商品
// @Summary 修改商品
// @Tags 商品
// @Accept json
// @Produce json
// @Param request body productRequest true "商品信息"
// @Success 200 {object} model.Product
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/products/update [put]
func (h *Handler) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if !actorMatches(c, req.SellerID) {
		return
	}
	p, err := h.productService.Update(c.Request.Context(), req.ProductID, req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, p)
}

// DeleteProduct 删除商品
// @Summary 删除商品
// @Tags 商品
// @Accept json
// @Produce json
// @Param request body deleteProductRequest true "商品与卖家"
// @Success 200 {object} response.OK
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/products/delete [delete]
func (h *Handler) DeleteProduct(c *gin.Context) {
	var req deleteProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if !actorMatches(c, req.SellerID) {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), req.ProductID, req.SellerID); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, nil)
}
