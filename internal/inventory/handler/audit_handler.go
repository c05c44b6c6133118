package handler

import (
	"strconv"

	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/service"
	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	svc *service.AuditService
}

func NewAuditHandler(svc *service.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// List GET /audits/:entityType/:entityId
func (h *AuditHandler) List(c *gin.Context) {
	limit := 50
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}

	logs, err := h.svc.ListByEntity(c.Request.Context(), c.Param("entityType"), c.Param("entityId"), limit)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, logs)
}
