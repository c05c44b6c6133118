package handler

import (
	"strconv"

	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/service"
	"github.com/gin-gonic/gin"
)

type SupplierHandler struct {
	svc *service.SupplierService
}

func NewSupplierHandler(svc *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{svc: svc}
}

// List GET /suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	suppliers, err := h.svc.List(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, suppliers)
}

// Get GET /suppliers/:id
func (h *SupplierHandler) Get(c *gin.Context) {
	supplier, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "Supplier not found")
		return
	}
	Success(c, supplier)
}

// Create POST /suppliers
func (h *SupplierHandler) Create(c *gin.Context) {
	var input service.SupplierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	supplier, err := h.svc.Create(c.Request.Context(), &input)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, supplier)
}

// Update PUT /suppliers/:id
func (h *SupplierHandler) Update(c *gin.Context) {
	var input service.SupplierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	supplier, err := h.svc.Update(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		NotFound(c, err.Error())
		return
	}
	Success(c, supplier)
}

// Delete DELETE /suppliers/:id
func (h *SupplierHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		NotFound(c, err.Error())
		return
	}
	Success(c, nil)
}

// CreateItem POST /suppliers/:id/items
func (h *SupplierHandler) CreateItem(c *gin.Context) {
	var input service.SupplierItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	item, err := h.svc.CreateItem(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, item)
}

// UpdateItem PUT /suppliers/items/:itemId
func (h *SupplierHandler) UpdateItem(c *gin.Context) {
	var input service.SupplierItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	item, err := h.svc.UpdateItem(c.Request.Context(), c.Param("itemId"), &input)
	if err != nil {
		NotFound(c, err.Error())
		return
	}
	Success(c, item)
}

// DeleteItem DELETE /suppliers/items/:itemId
func (h *SupplierHandler) DeleteItem(c *gin.Context) {
	if err := h.svc.DeleteItem(c.Request.Context(), c.Param("itemId")); err != nil {
		NotFound(c, err.Error())
		return
	}
	Success(c, nil)
}

// SearchItems GET /suppliers/items/search
func (h *SupplierHandler) SearchItems(c *gin.Context) {
	keyword := c.Query("q")
	limit := 20
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}

	items, err := h.svc.SearchItems(c.Request.Context(), keyword, limit)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, items)
}
