package admin

import (
	"errors"
	"strconv"

	"github.com/niaga-next/internal/http/response"
	"github.com/niaga-next/internal/models"
	"github.com/niaga-next/internal/repository"
	"github.com/niaga-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ServiceRequest 创建/更新服务请求
type ServiceRequest struct {
	CategoryID  uint   `json:"category_id" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   int    `json:"sort_order"`
}

// PackageRequest 创建/更新套餐请求
type PackageRequest struct {
	Name        string       `json:"name" binding:"required"`
	Price       models.Money `json:"price" binding:"required"`
	Description string       `json:"description"`
	IsActive    *bool        `json:"is_active"`
	SortOrder   int          `json:"sort_order"`
}

func (r ServiceRequest) toInput() service.ServiceInput {
	return service.ServiceInput{
		CategoryID:  r.CategoryID,
		Slug:        r.Slug,
		Name:        r.Name,
		Description: r.Description,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
	}
}

func (r PackageRequest) toInput() service.PackageInput {
	return service.PackageInput{
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
	}
}

// GetAdminServices 获取服务列表 (Admin)
func (h *Handler) GetAdminServices(c *gin.Context) {
	page, pageSize := queryPagination(c)
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)
	filter := repository.ServiceListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   uint(categoryID),
		Search:       c.Query("search"),
		WithPackages: true,
	}

	services, total, err := h.CatalogService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, services, buildPagination(page, pageSize, total))
}

// GetAdminService 获取服务详情 (Admin)
func (h *Handler) GetAdminService(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	svc, err := h.CatalogService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			respondError(c, response.CodeNotFound, "error.service_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, svc)
}

// CreateAdminService 创建服务 (Admin)
func (h *Handler) CreateAdminService(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	svc, err := h.CatalogService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	response.Success(c, svc)
}

// UpdateAdminService 更新服务 (Admin)
func (h *Handler) UpdateAdminService(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	svc, err := h.CatalogService.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	response.Success(c, svc)
}

// DeleteAdminService 删除服务 (Admin)
func (h *Handler) DeleteAdminService(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.CatalogService.Delete(c.Request.Context(), id); err != nil {
		h.respondCatalogError(c, err)
		return
	}
	response.Success(c, nil)
}

// CreateAdminPackage 为服务创建套餐 (Admin)
func (h *Handler) CreateAdminPackage(c *gin.Context) {
	serviceID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	pkg, err := h.CatalogService.CreatePackage(c.Request.Context(), serviceID, req.toInput())
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	response.Success(c, pkg)
}

// UpdateAdminPackage 更新套餐 (Admin)
func (h *Handler) UpdateAdminPackage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	pkg, err := h.CatalogService.UpdatePackage(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	response.Success(c, pkg)
}

// DeleteAdminPackage 删除套餐 (Admin)
func (h *Handler) DeleteAdminPackage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.CatalogService.DeletePackage(c.Request.Context(), id); err != nil {
		h.respondCatalogError(c, err)
		return
	}
	response.Success(c, nil)
}

func (h *Handler) respondCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrServiceNotFound):
		respondError(c, response.CodeNotFound, "error.service_not_found", nil)
	case errors.Is(err, service.ErrPackageNotFound):
		respondError(c, response.CodeNotFound, "error.package_not_found", nil)
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "error.not_found", nil)
	case errors.Is(err, service.ErrSlugTaken):
		respondError(c, response.CodeConflict, "error.slug_taken", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}
