package admin

import (
	"errors"

	"github.com/niaga-next/internal/http/response"
	"github.com/niaga-next/internal/repository"
	"github.com/niaga-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PostRequest 创建/更新文章请求
type PostRequest struct {
	Slug        string `json:"slug" binding:"required"`
	Type        string `json:"type"`
	Title       string `json:"title" binding:"required"`
	Summary     string `json:"summary"`
	Content     string `json:"content"`
	Thumbnail   string `json:"thumbnail"`
	IsPublished *bool  `json:"is_published"`
	PublishedAt string `json:"published_at"`
}

// GetAdminPosts 获取文章列表 (Admin)
func (h *Handler) GetAdminPosts(c *gin.Context) {
	page, pageSize := queryPagination(c)
	filter := repository.PostListFilter{
		Page:     page,
		PageSize: pageSize,
		Type:     c.Query("type"),
		Search:   c.Query("search"),
	}

	posts, total, err := h.PostService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, posts, buildPagination(page, pageSize, total))
}

// GetAdminPost 获取文章详情 (Admin)
func (h *Handler) GetAdminPost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	post, err := h.PostService.Get(id)
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

// CreateAdminPost 创建文章 (Admin)
func (h *Handler) CreateAdminPost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	input, ok := h.buildPostInput(c, req)
	if !ok {
		return
	}

	post, err := h.PostService.Create(input)
	if err != nil {
		h.respondPostError(c, err)
		return
	}
	response.Success(c, post)
}

// UpdateAdminPost 更新文章 (Admin)
func (h *Handler) UpdateAdminPost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	input, ok := h.buildPostInput(c, req)
	if !ok {
		return
	}

	post, err := h.PostService.Update(id, input)
	if err != nil {
		h.respondPostError(c, err)
		return
	}
	response.Success(c, post)
}

// DeleteAdminPost 删除文章 (Admin)
func (h *Handler) DeleteAdminPost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.PostService.Delete(id); err != nil {
		h.respondPostError(c, err)
		return
	}
	response.Success(c, nil)
}

func (h *Handler) buildPostInput(c *gin.Context, req PostRequest) (service.PostInput, bool) {
	publishedAt, ok := parseTimeNullable(req.PublishedAt)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return service.PostInput{}, false
	}
	return service.PostInput{
		Slug:        req.Slug,
		Type:        req.Type,
		Title:       req.Title,
		Summary:     req.Summary,
		Content:     req.Content,
		Thumbnail:   req.Thumbnail,
		IsPublished: req.IsPublished,
		PublishedAt: publishedAt,
	}, true
}

func (h *Handler) respondPostError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "error.not_found", nil)
	case errors.Is(err, service.ErrSlugTaken):
		respondError(c, response.CodeConflict, "error.slug_taken", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}
