package handler

import (
	"strconv"

	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/service"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	svc *service.ProductService
}

func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// List GET /products
func (h *ProductHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	keyword := c.Query("q")

	products, total, err := h.svc.List(c.Request.Context(), keyword, page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)
	Success(c, ListResponse{
		Items: products,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// Get GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid product id")
		return
	}

	product, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		NotFound(c, "Product not found")
		return
	}

	Success(c, product)
}

// Update PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid product id")
		return
	}

	var input service.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	product, err := h.svc.Update(c.Request.Context(), id, &input, GetUserID(c))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	Success(c, product)
}

// Delete DELETE /products/:id
// 同时级联删除该商品及其变体scope下的全部BOM行
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid product id")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		NotFound(c, err.Error())
		return
	}

	Success(c, nil)
}

// SearchComponents GET /inventory/components/search
func (h *ProductHandler) SearchComponents(c *gin.Context) {
	keyword := c.Query("q")
	limit := 20
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}

	candidates, err := h.svc.SearchComponents(c.Request.Context(), keyword, limit)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, candidates)
}
