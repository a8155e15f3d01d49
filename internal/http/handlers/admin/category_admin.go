package admin

import (
	"errors"

	"github.com/niaga-next/internal/http/response"
	"github.com/niaga-next/internal/repository"
	"github.com/niaga-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 创建/更新分类请求
type CategoryRequest struct {
	Slug      string `json:"slug" binding:"required"`
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// GetAdminCategories 获取分类列表 (Admin)
func (h *Handler) GetAdminCategories(c *gin.Context) {
	page, pageSize := queryPagination(c)
	filter := repository.CategoryListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	}

	categories, total, err := h.CategoryService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, categories, buildPagination(page, pageSize, total))
}

// CreateAdminCategory 创建分类 (Admin)
func (h *Handler) CreateAdminCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	category, err := h.CategoryService.Create(c.Request.Context(), service.CategoryInput{
		Slug:      req.Slug,
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		if errors.Is(err, service.ErrSlugTaken) {
			respondError(c, response.CodeConflict, "error.slug_taken", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, category)
}

// UpdateAdminCategory 更新分类 (Admin)
func (h *Handler) UpdateAdminCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	category, err := h.CategoryService.Update(c.Request.Context(), id, service.CategoryInput{
		Slug:      req.Slug,
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.not_found", nil)
		case errors.Is(err, service.ErrSlugTaken):
			respondError(c, response.CodeConflict, "error.slug_taken", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}
	response.Success(c, category)
}

// DeleteAdminCategory 删除分类 (Admin)
func (h *Handler) DeleteAdminCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.CategoryService.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.not_found", nil)
		case errors.Is(err, service.ErrCategoryInUse):
			respondError(c, response.CodeConflict, "error.category_in_use", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}
	response.Success(c, nil)
}
