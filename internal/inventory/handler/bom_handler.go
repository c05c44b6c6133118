package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/entity"
	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/service"
	"github.com/gin-gonic/gin"
)

type BOMHandler struct {
	svc *service.BOMService
}

func NewBOMHandler(svc *service.BOMService) *BOMHandler {
	return &BOMHandler{svc: svc}
}

// scopeFromRequest 从路径/查询参数取scope：variant_id为空或0表示主商品
func scopeFromRequest(c *gin.Context) (entity.BOMScope, error) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || productID <= 0 {
		return entity.BOMScope{}, fmt.Errorf("invalid product id %q", c.Param("id"))
	}
	scope := entity.BOMScope{ProductID: productID}
	if v := c.Query("variant_id"); v != "" {
		variantID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || variantID < 0 {
			return entity.BOMScope{}, fmt.Errorf("invalid variant id %q", v)
		}
		scope.VariantID = variantID
	}
	return scope, nil
}

// GetBOM GET /inventory/products/:id/bom
func (h *BOMHandler) GetBOM(c *gin.Context) {
	scope, err := scopeFromRequest(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	view, err := h.svc.Get(c.Request.Context(), scope)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, view)
}

// SaveBOM PUT /inventory/products/:id/bom
// 整单替换语义：提交什么就保存什么
func (h *BOMHandler) SaveBOM(c *gin.Context) {
	scope, err := scopeFromRequest(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	var input struct {
		Lines []service.LineInput `json:"lines"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.svc.Save(c.Request.Context(), scope, input.Lines, GetUserID(c)); err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			c.JSON(422, Response{Code: 42200, Message: ve.Message, Data: gin.H{"rule": ve.Rule}})
			return
		}
		InternalError(c, err.Error())
		return
	}

	view, err := h.svc.Get(c.Request.Context(), scope)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, view)
}

// SaveBatch POST /inventory/products/:id/bom/batch
// 主商品+变体的多scope并发保存，逐scope上报成功/失败
func (h *BOMHandler) SaveBatch(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || productID <= 0 {
		BadRequest(c, "invalid product id")
		return
	}

	var input struct {
		Scopes []service.ScopeSave `json:"scopes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	// 批量保存只允许操作本商品及其变体的scope
	for _, save := range input.Scopes {
		if save.Scope.ProductID != productID {
			BadRequest(c, fmt.Sprintf("scope %s does not belong to product %d", save.Scope, productID))
			return
		}
	}

	result := h.svc.SaveAll(c.Request.Context(), input.Scopes, GetUserID(c))
	Success(c, result)
}

// ExportBOM GET /inventory/products/:id/bom/export
func (h *BOMHandler) ExportBOM(c *gin.Context) {
	scope, err := scopeFromRequest(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	f, filename, err := h.svc.Export(c.Request.Context(), scope)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write xlsx: "+err.Error())
	}
}
