package admin

import (
	"errors"

	"github.com/niaga-next/internal/http/response"
	"github.com/niaga-next/internal/models"
	"github.com/niaga-next/internal/repository"
	"github.com/niaga-next/internal/service"

	"github.com/gin-gonic/gin"
)

// DiscountRequest 创建/更新折扣请求
type DiscountRequest struct {
	Code        string       `json:"code" binding:"required"`
	Kind        string       `json:"kind" binding:"required"`
	ValueType   string       `json:"value_type" binding:"required"`
	Value       models.Money `json:"value" binding:"required"`
	AppliesTo   string       `json:"applies_to"`
	ServiceIDs  []uint       `json:"service_ids"`
	MinOrderAmt models.Money `json:"min_order_amount"`
	MaxDiscount models.Money `json:"max_discount_amount"`
	UsageLimit  int          `json:"usage_limit"`
	StartsAt    string       `json:"starts_at"`
	EndsAt      string       `json:"ends_at"`
	IsActive    *bool        `json:"is_active"`
}

// GenerateDiscountCodeRequest 生成折扣码请求
type GenerateDiscountCodeRequest struct {
	Prefix string `json:"prefix"`
	Length int    `json:"length"`
}

// GetAdminDiscounts 获取折扣列表 (Admin)
func (h *Handler) GetAdminDiscounts(c *gin.Context) {
	page, pageSize := queryPagination(c)
	filter := repository.DiscountListFilter{
		Page:      page,
		PageSize:  pageSize,
		Code:      c.Query("code"),
		Kind:      c.Query("kind"),
		AppliesTo: c.Query("applies_to"),
	}
	if raw := c.Query("is_active"); raw != "" {
		active := raw == "true" || raw == "1"
		filter.IsActive = &active
	}

	discounts, total, err := h.DiscountAdminService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, discounts, buildPagination(page, pageSize, total))
}

// GetAdminDiscount 获取折扣详情 (Admin)
func (h *Handler) GetAdminDiscount(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	discount, err := h.DiscountAdminService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrDiscountNotFound) {
			respondError(c, response.CodeNotFound, "error.discount_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, discount)
}

// CreateAdminDiscount 创建折扣 (Admin)
func (h *Handler) CreateAdminDiscount(c *gin.Context) {
	var req DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	input, ok := h.buildDiscountInput(c, req)
	if !ok {
		return
	}

	discount, err := h.DiscountAdminService.Create(input)
	if err != nil {
		h.respondDiscountError(c, err)
		return
	}
	response.Success(c, discount)
}

// UpdateAdminDiscount 更新折扣 (Admin)
func (h *Handler) UpdateAdminDiscount(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	input, ok := h.buildDiscountInput(c, req)
	if !ok {
		return
	}

	discount, err := h.DiscountAdminService.Update(id, input)
	if err != nil {
		h.respondDiscountError(c, err)
		return
	}
	response.Success(c, discount)
}

// DeleteAdminDiscount 删除折扣 (Admin)
func (h *Handler) DeleteAdminDiscount(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.DiscountAdminService.Delete(id); err != nil {
		h.respondDiscountError(c, err)
		return
	}
	response.Success(c, nil)
}

// GenerateAdminDiscountCode 生成未占用的折扣码 (Admin)
func (h *Handler) GenerateAdminDiscountCode(c *gin.Context) {
	var req GenerateDiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	code, err := h.DiscountService.GenerateCode(req.Prefix, req.Length)
	if err != nil {
		if errors.Is(err, service.ErrDiscountCodeGenerate) {
			respondError(c, response.CodeConflict, "error.discount_code_generate", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"code": code})
}

// GetAdminDiscountUsages 获取折扣使用记录 (Admin)
func (h *Handler) GetAdminDiscountUsages(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	page, pageSize := queryPagination(c)
	usages, total, err := h.DiscountAdminService.ListUsages(repository.DiscountUsageListFilter{
		Page:       page,
		PageSize:   pageSize,
		DiscountID: id,
		OrderKind:  c.Query("order_kind"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, usages, buildPagination(page, pageSize, total))
}

func (h *Handler) buildDiscountInput(c *gin.Context, req DiscountRequest) (service.DiscountInput, bool) {
	startsAt, ok := parseTimeNullable(req.StartsAt)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return service.DiscountInput{}, false
	}
	endsAt, ok := parseTimeNullable(req.EndsAt)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return service.DiscountInput{}, false
	}
	return service.DiscountInput{
		Code:        req.Code,
		Kind:        req.Kind,
		ValueType:   req.ValueType,
		Value:       req.Value,
		AppliesTo:   req.AppliesTo,
		ServiceIDs:  req.ServiceIDs,
		MinOrderAmt: req.MinOrderAmt,
		MaxDiscount: req.MaxDiscount,
		UsageLimit:  req.UsageLimit,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		IsActive:    req.IsActive,
	}, true
}

func (h *Handler) respondDiscountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDiscountNotFound):
		respondError(c, response.CodeNotFound, "error.discount_not_found", nil)
	case errors.Is(err, service.ErrDiscountCodeTaken):
		respondError(c, response.CodeConflict, "error.discount_code_taken", nil)
	case errors.Is(err, service.ErrDiscountInvalid):
		respondError(c, response.CodeBadRequest, "error.discount_invalid", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}
