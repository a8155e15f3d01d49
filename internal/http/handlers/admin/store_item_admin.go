package admin

import (
	"errors"

	"github.com/niaga-next/internal/http/response"
	"github.com/niaga-next/internal/models"
	"github.com/niaga-next/internal/repository"
	"github.com/niaga-next/internal/service"

	"github.com/gin-gonic/gin"
)

// StoreItemRequest 创建/更新商品请求
type StoreItemRequest struct {
	Slug        string       `json:"slug" binding:"required"`
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	Price       models.Money `json:"price" binding:"required"`
	Stock       *int         `json:"stock"`
	IsActive    *bool        `json:"is_active"`
	SortOrder   int          `json:"sort_order"`
}

func (r StoreItemRequest) toInput() service.StoreItemInput {
	return service.StoreItemInput{
		Slug:        r.Slug,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
	}
}

// GetAdminStoreItems 获取商品列表 (Admin)
func (h *Handler) GetAdminStoreItems(c *gin.Context) {
	page, pageSize := queryPagination(c)
	filter := repository.StoreItemListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	}

	items, total, err := h.StoreItemService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, items, buildPagination(page, pageSize, total))
}

// GetAdminStoreItem 获取商品详情 (Admin)
func (h *Handler) GetAdminStoreItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	item, err := h.StoreItemService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrStoreItemNotFound) {
			respondError(c, response.CodeNotFound, "error.store_item_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, item)
}

// CreateAdminStoreItem 创建商品 (Admin)
func (h *Handler) CreateAdminStoreItem(c *gin.Context) {
	var req StoreItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	item, err := h.StoreItemService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		h.respondStoreItemError(c, err)
		return
	}
	response.Success(c, item)
}

// UpdateAdminStoreItem 更新商品 (Admin)
func (h *Handler) UpdateAdminStoreItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req StoreItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	item, err := h.StoreItemService.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.respondStoreItemError(c, err)
		return
	}
	response.Success(c, item)
}

// DeleteAdminStoreItem 删除商品 (Admin)
func (h *Handler) DeleteAdminStoreItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.StoreItemService.Delete(c.Request.Context(), id); err != nil {
		h.respondStoreItemError(c, err)
		return
	}
	response.Success(c, nil)
}

func (h *Handler) respondStoreItemError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStoreItemNotFound):
		respondError(c, response.CodeNotFound, "error.store_item_not_found", nil)
	case errors.Is(err, service.ErrSlugTaken):
		respondError(c, response.CodeConflict, "error.slug_taken", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}
