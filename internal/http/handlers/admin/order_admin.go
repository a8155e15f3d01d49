package admin

import (
	"errors"

	"github.com/niaga-next/internal/http/response"
	"github.com/niaga-next/internal/repository"
	"github.com/niaga-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 单笔状态流转请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// BulkOrderStatusRequest 批量状态流转请求
type BulkOrderStatusRequest struct {
	IDs    []uint `json:"ids" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// BulkOrderDeleteRequest 批量删除请求
type BulkOrderDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

func buildOrderListFilter(c *gin.Context, page, pageSize int) (repository.OrderListFilter, bool) {
	createdFrom, ok := parseTimeNullable(c.Query("created_from"))
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return repository.OrderListFilter{}, false
	}
	createdTo, ok := parseTimeNullable(c.Query("created_to"))
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return repository.OrderListFilter{}, false
	}
	return repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		PaymentStatus: c.Query("payment_status"),
		InvoiceNo:     c.Query("invoice_no"),
		CustomerEmail: c.Query("customer_email"),
		Search:        c.Query("search"),
		CreatedFrom:   createdFrom,
		CreatedTo:     createdTo,
	}, true
}

// GetAdminServiceOrders 获取服务订单列表 (Admin)
func (h *Handler) GetAdminServiceOrders(c *gin.Context) {
	page, pageSize := queryPagination(c)
	filter, ok := buildOrderListFilter(c, page, pageSize)
	if !ok {
		return
	}

	orders, total, err := h.OrderService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, orders, buildPagination(page, pageSize, total))
}

// GetAdminServiceOrder 获取服务订单详情 (Admin)
func (h *Handler) GetAdminServiceOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := h.OrderService.Get(id)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// UpdateAdminServiceOrderStatus 流转服务订单支付状态 (Admin)
func (h *Handler) UpdateAdminServiceOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.UpdatePaymentStatus(id, req.Status, getAdminUsername(c))
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}

// BulkUpdateAdminServiceOrderStatus 批量流转服务订单支付状态 (Admin)
func (h *Handler) BulkUpdateAdminServiceOrderStatus(c *gin.Context) {
	var req BulkOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	affected, err := h.OrderService.BulkUpdatePaymentStatus(req.IDs, req.Status, getAdminUsername(c))
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	response.Success(c, gin.H{"updated": affected})
}

// DeleteAdminServiceOrder 删除服务订单 (Admin)
func (h *Handler) DeleteAdminServiceOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.OrderService.Delete(id); err != nil {
		h.respondOrderError(c, err)
		return
	}
	response.Success(c, nil)
}

// BulkDeleteAdminServiceOrders 批量删除服务订单 (Admin)
func (h *Handler) BulkDeleteAdminServiceOrders(c *gin.Context) {
	var req BulkOrderDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.OrderService.BulkDelete(req.IDs); err != nil {
		h.respondOrderError(c, err)
		return
	}
	response.Success(c, nil)
}

func (h *Handler) respondOrderError(c *gin.Context, err error) {
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
