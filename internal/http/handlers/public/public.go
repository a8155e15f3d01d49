package public

import (
	"errors"
	"time"

	"github.com/niaga-next/internal/cache"
	"github.com/niaga-next/internal/constants"
	"github.com/niaga-next/internal/http/response"
	"github.com/niaga-next/internal/models"
	"github.com/niaga-next/internal/repository"
	"github.com/niaga-next/internal/service"

	"github.com/gin-gonic/gin"
)

const publicCacheTTL = 5 * time.Minute

// GetPublicCategories 获取分类列表（含缓存）
func (h *Handler) GetPublicCategories(c *gin.Context) {
	ctx := c.Request.Context()

	var cached []models.Category
	if hit, err := cache.GetJSON(ctx, constants.CacheKeyPublicCategories, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	categories, _, err := h.CategoryService.List(repository.CategoryListFilter{})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	if err := cache.SetJSON(ctx, constants.CacheKeyPublicCategories, categories, publicCacheTTL); err != nil {
		requestLog(c).Warnw("cache_public_categories_failed", "error", err)
	}
	response.Success(c, categories)
}

// GetPublicServices 获取上架服务列表
func (h *Handler) GetPublicServices(c *gin.Context) {
	services, err := h.CatalogService.ListPublic(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, services)
}

// GetPublicService 按 slug 获取服务详情
func (h *Handler) GetPublicService(c *gin.Context) {
	svc, err := h.CatalogService.GetBySlug(c.Param("slug"))
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.internal")
		return
	}
	if !svc.IsActive {
		respondError(c, response.CodeNotFound, "error.service_not_found", nil)
		return
	}
	response.Success(c, svc)
}

// GetPublicStoreItems 获取上架商店商品列表
func (h *Handler) GetPublicStoreItems(c *gin.Context) {
	items, err := h.StoreItemService.ListPublic(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, items)
}

// GetPublicStoreItem 按 slug 获取商店商品详情
func (h *Handler) GetPublicStoreItem(c *gin.Context) {
	item, err := h.StoreItemService.GetBySlug(c.Param("slug"))
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.internal")
		return
	}
	if !item.IsActive {
		respondError(c, response.CodeNotFound, "error.store_item_not_found", nil)
		return
	}
	response.Success(c, item)
}

// GetPublicPosts 获取已发布文章列表
func (h *Handler) GetPublicPosts(c *gin.Context) {
	page, pageSize := queryPagination(c)
	filter := repository.PostListFilter{
		Page:          page,
		PageSize:      pageSize,
		Type:          c.Query("type"),
		OnlyPublished: true,
	}

	posts, total, err := h.PostService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, posts, buildPagination(page, pageSize, total))
}

// GetPublicPost 按 slug 获取已发布文章
func (h *Handler) GetPublicPost(c *gin.Context) {
	post, err := h.PostService.GetPublishedBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, post)
}
