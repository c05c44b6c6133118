package handler

import (
	"errors"

	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/service"
	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	svc *service.SyncService
}

func NewSyncHandler(svc *service.SyncService) *SyncHandler {
	return &SyncHandler{svc: svc}
}

// CheckDrift GET /inventory/products/:id/bom/drift
func (h *SyncHandler) CheckDrift(c *gin.Context) {
	scope, err := scopeFromRequest(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	report, err := h.svc.CheckDrift(c.Request.Context(), scope)
	if err != nil {
		respondSyncError(c, err)
		return
	}

	Success(c, report)
}

// Push POST /inventory/products/:id/bom/push
// 库存写回店面只能由这里显式触发，已同步时幂等返回成功
func (h *SyncHandler) Push(c *gin.Context) {
	scope, err := scopeFromRequest(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Push(c.Request.Context(), scope, GetUserID(c))
	if err != nil {
		respondSyncError(c, err)
		return
	}

	Success(c, result)
}

// Status GET /sync/status
func (h *SyncHandler) Status(c *gin.Context) {
	Success(c, h.svc.Status(c.Request.Context()))
}

// respondSyncError 区分网络类（可重试）与店面拒绝（终态）
func respondSyncError(c *gin.Context, err error) {
	var se *service.SyncError
	if errors.As(err, &se) {
		if se.Retryable() {
			c.JSON(502, Response{Code: 50200, Message: se.Message, Data: gin.H{"kind": se.Kind, "retryable": true}})
		} else {
			c.JSON(409, Response{Code: 40900, Message: se.Message, Data: gin.H{"kind": se.Kind, "retryable": false}})
		}
		return
	}
	InternalError(c, err.Error())
}
