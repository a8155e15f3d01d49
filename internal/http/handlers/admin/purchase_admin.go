package admin

import (
	"errors"

	"github.com/niaga-next/internal/http/response"
	"github.com/niaga-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminStorePurchases 获取商店购买列表 (Admin)
func (h *Handler) GetAdminStorePurchases(c *gin.Context) {
	page, pageSize := queryPagination(c)
	filter, ok := buildOrderListFilter(c, page, pageSize)
	if !ok {
		return
	}

	purchases, total, err := h.PurchaseService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, purchases, buildPagination(page, pageSize, total))
}

// GetAdminStorePurchase 获取商店购买详情 (Admin)
func (h *Handler) GetAdminStorePurchase(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	purchase, err := h.PurchaseService.Get(id)
	if err != nil {
		h.respondPurchaseError(c, err)
		return
	}
	response.Success(c, purchase)
}

// UpdateAdminStorePurchaseStatus 流转商店购买支付状态 (Admin)
func (h *Handler) UpdateAdminStorePurchaseStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	purchase, err := h.PurchaseService.UpdatePaymentStatus(id, req.Status, getAdminUsername(c))
	if err != nil {
		h.respondPurchaseError(c, err)
		return
	}
	response.Success(c, purchase)
}

// BulkUpdateAdminStorePurchaseStatus 批量流转商店购买支付状态 (Admin)
func (h *Handler) BulkUpdateAdminStorePurchaseStatus(c *gin.Context) {
	var req BulkOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	affected, err := h.PurchaseService.BulkUpdatePaymentStatus(req.IDs, req.Status, getAdminUsername(c))
	if err != nil {
		h.respondPurchaseError(c, err)
		return
	}
	response.Success(c, gin.H{"updated": affected})
}

// DeleteAdminStorePurchase 删除商店购买 (Admin)
func (h *Handler) DeleteAdminStorePurchase(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.PurchaseService.Delete(id); err != nil {
		h.respondPurchaseError(c, err)
		return
	}
	response.Success(c, nil)
}

// BulkDeleteAdminStorePurchases 批量删除商店购买 (Admin)
func (h *Handler) BulkDeleteAdminStorePurchases(c *gin.Context) {
	var req BulkOrderDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.PurchaseService.BulkDelete(req.IDs); err != nil {
		h.respondPurchaseError(c, err)
		return
	}
	response.Success(c, nil)
}

func (h *Handler) respondPurchaseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(c, response.CodeNotFound, "error.order_not_found", nil)
	case errors.Is(err, service.ErrOrderStatusInvalid):
		respondError(c, response.CodeConflict, "error.order_status_invalid", nil)
	case errors.Is(err, service.ErrOrderBatchConflict):
		respondError(c, response.CodeConflict, "error.order_batch_conflict", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}
