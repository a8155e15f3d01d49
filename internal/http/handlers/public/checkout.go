package public

import (
	"strings"

	"github.com/niaga-next/internal/http/response"
	"github.com/niaga-next/internal/service"

	"github.com/gin-gonic/gin"
)

// QuoteServiceOrderRequest 服务订单试算请求
type QuoteServiceOrderRequest struct {
	ServiceID    uint   `json:"service_id" binding:"required"`
	PackageID    uint   `json:"package_id" binding:"required"`
	DiscountCode string `json:"discount_code"`
}

// QuoteStorePurchaseRequest 商店购买试算请求
type QuoteStorePurchaseRequest struct {
	StoreItemID  uint   `json:"store_item_id" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required,min=1"`
	DiscountCode string `json:"discount_code"`
}

// CreateServiceOrderRequest 创建服务订单请求
type CreateServiceOrderRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
	CustomerPhone string `json:"customer_phone"`
	ServiceID     uint   `json:"service_id" binding:"required"`
	PackageID     uint   `json:"package_id" binding:"required"`
	DiscountCode  string `json:"discount_code"`
	Note          string `json:"note"`
}

// CreateStorePurchaseRequest 创建商店购买请求
type CreateStorePurchaseRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
	CustomerPhone string `json:"customer_phone"`
	StoreItemID   uint   `json:"store_item_id" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
	DiscountCode  string `json:"discount_code"`
	Note          string `json:"note"`
}

// QuoteServiceOrder 试算服务订单金额与折扣资格
func (h *Handler) QuoteServiceOrder(c *gin.Context) {
	var req QuoteServiceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	quote, err := h.OrderService.Quote(req.ServiceID, req.PackageID, req.DiscountCode)
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, quote)
}

// QuoteStorePurchase 试算商店购买金额与折扣资格
func (h *Handler) QuoteStorePurchase(c *gin.Context) {
	var req QuoteStorePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	quote, err := h.PurchaseService.Quote(req.StoreItemID, req.Quantity, req.DiscountCode)
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, quote)
}

// CreateServiceOrder 游客提交服务订单
func (h *Handler) CreateServiceOrder(c *gin.Context) {
	var req CreateServiceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.Create(service.CreateServiceOrderInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		ServiceID:     req.ServiceID,
		PackageID:     req.PackageID,
		DiscountCode:  req.DiscountCode,
		Note:          req.Note,
	})
	if err != nil {
		respondWithMappedError(c, err, createOrderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, order)
}

// CreateStorePurchase 游客提交商店购买
func (h *Handler) CreateStorePurchase(c *gin.Context) {
	var req CreateStorePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	purchase, err := h.PurchaseService.Create(service.CreateStorePurchaseInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		StoreItemID:   req.StoreItemID,
		Quantity:      req.Quantity,
		DiscountCode:  req.DiscountCode,
		Note:          req.Note,
	})
	if err != nil {
		respondWithMappedError(c, err, createOrderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, purchase)
}

// LookupServiceOrder 按单号与邮箱查询服务订单
func (h *Handler) LookupServiceOrder(c *gin.Context) {
	invoiceNo := strings.TrimSpace(c.Query("invoice_no"))
	email := strings.TrimSpace(c.Query("email"))
	if invoiceNo == "" || email == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	order, err := h.OrderService.GetByInvoice(invoiceNo, email)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
		}, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, order)
}

// LookupStorePurchase 按单号与邮箱查询商店购买
func (h *Handler) LookupStorePurchase(c *gin.Context) {
	invoiceNo := strings.TrimSpace(c.Query("invoice_no"))
	email := strings.TrimSpace(c.Query("email"))
	if invoiceNo == "" || email == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	purchase, err := h.PurchaseService.GetByInvoice(invoiceNo, email)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
		}, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, purchase)
}
