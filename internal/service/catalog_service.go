package service

import (
	"context"
	"strings"
	"time"

	"github.com/niaga-next/internal/cache"
	"github.com/niaga-next/internal/constants"
	"github.com/niaga-next/internal/models"
	"github.com/niaga-next/internal/repository"

	"github.com/shopspring/decimal"
)

const publicCatalogCacheTTL = 5 * time.Minute

// CatalogService 服务目录业务服务
type CatalogService struct {
	repo         repository.ServiceRepository
	categoryRepo repository.CategoryRepository
}

// NewCatalogService 创建服务目录服务
func NewCatalogService(repo repository.ServiceRepository, categoryRepo repository.CategoryRepository) *CatalogService {
	return &CatalogService{repo: repo, categoryRepo: categoryRepo}
}

// ServiceInput 创建/更新服务输入
type ServiceInput struct {
	CategoryID  uint
	Slug        string
	Name        string
	Description string
	IsActive    *bool
	SortOrder   int
}

// PackageInput 创建/更新套餐输入
type PackageInput struct {
	Name        string
	Price       models.Money
	Description string
	IsActive    *bool
	SortOrder   int
}

// List 获取服务列表
func (s *CatalogService) List(filter repository.ServiceListFilter) ([]models.Service, int64, error) {
	return s.repo.List(filter)
}

// ListPublic 获取对外展示的服务列表，带缓存
func (s *CatalogService) ListPublic(ctx context.Context) ([]models.Service, error) {
	var cached []models.Service
	if hit, err := cache.GetJSON(ctx, constants.CacheKeyPublicServices, &cached); err == nil && hit {
		return cached, nil
	}

	services, _, err := s.repo.List(repository.ServiceListFilter{
		OnlyActive:   true,
		WithPackages: true,
	})
	if err != nil {
		return nil, err
	}
	_ = cache.SetJSON(ctx, constants.CacheKeyPublicServices, services, publicCatalogCacheTTL)
	return services, nil
}

// Get 获取服务详情（含套餐）
func (s *CatalogService) Get(id uint) (*models.Service, error) {
	service, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, ErrServiceNotFound
	}
	return service, nil
}

// GetBySlug 根据标识获取服务详情
func (s *CatalogService) GetBySlug(slug string) (*models.Service, error) {
	service, err := s.repo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, ErrServiceNotFound
	}
	return service, nil
}

// Create 创建服务
func (s *CatalogService) Create(ctx context.Context, input ServiceInput) (*models.Service, error) {
	slug := strings.TrimSpace(input.Slug)
	name := strings.TrimSpace(input.Name)
	if slug == "" || name == "" {
		return nil, ErrServiceNotFound
	}

	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}

	exist, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrSlugTaken
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	service := models.Service{
		CategoryID:  input.CategoryID,
		Slug:        slug,
		Name:        name,
		Description: input.Description,
		IsActive:    isActive,
		SortOrder:   input.SortOrder,
	}
	if err := s.repo.Create(&service); err != nil {
		return nil, err
	}
	s.invalidatePublicCache(ctx)
	return &service, nil
}

// Update 更新服务
func (s *CatalogService) Update(ctx context.Context, id uint, input ServiceInput) (*models.Service, error) {
	service, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, ErrServiceNotFound
	}

	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}

	slug := strings.TrimSpace(input.Slug)
	exist, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if exist != nil && exist.ID != id {
		return nil, ErrSlugTaken
	}

	service.CategoryID = input.CategoryID
	service.Slug = slug
	service.Name = strings.TrimSpace(input.Name)
	service.Description = input.Description
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}
	service.SortOrder = input.SortOrder
	service.Packages = nil
	service.Category = nil

	if err := s.repo.Update(service); err != nil {
		return nil, err
	}
	s.invalidatePublicCache(ctx)
	return service, nil
}

// Delete 删除服务及其套餐
func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	service, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if service == nil {
		return ErrServiceNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidatePublicCache(ctx)
	return nil
}

// CreatePackage 为服务创建套餐
func (s *CatalogService) CreatePackage(ctx context.Context, serviceID uint, input PackageInput) (*models.ServicePackage, error) {
	service, err := s.repo.GetByID(serviceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, ErrServiceNotFound
	}

	name := strings.TrimSpace(input.Name)
	if name == "" || input.Price.Decimal.LessThan(decimal.Zero) {
		return nil, ErrPackageNotFound
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	pkg := models.ServicePackage{
		ServiceID:   serviceID,
		Name:        name,
		Price:       input.Price,
		Description: input.Description,
		IsActive:    isActive,
		SortOrder:   input.SortOrder,
	}
	if err := s.repo.CreatePackage(&pkg); err != nil {
		return nil, err
	}
	s.invalidatePublicCache(ctx)
	return &pkg, nil
}

// UpdatePackage 更新套餐
func (s *CatalogService) UpdatePackage(ctx context.Context, id uint, input PackageInput) (*models.ServicePackage, error) {
	pkg, err := s.repo.GetPackageByID(id)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, ErrPackageNotFound
	}
	if input.Price.Decimal.LessThan(decimal.Zero) {
		return nil, ErrPackageNotFound
	}

	pkg.Name = strings.TrimSpace(input.Name)
	pkg.Price = input.Price
	pkg.Description = input.Description
	if input.IsActive != nil {
		pkg.IsActive = *input.IsActive
	}
	pkg.SortOrder = input.SortOrder

	if err := s.repo.UpdatePackage(pkg); err != nil {
		return nil, err
	}
	s.invalidatePublicCache(ctx)
	return pkg, nil
}

// DeletePackage 删除套餐
func (s *CatalogService) DeletePackage(ctx context.Context, id uint) error {
	pkg, err := s.repo.GetPackageByID(id)
	if err != nil {
		return err
	}
	if pkg == nil {
		return ErrPackageNotFound
	}
	if err := s.repo.DeletePackage(id); err != nil {
		return err
	}
	s.invalidatePublicCache(ctx)
	return nil
}

func (s *CatalogService) invalidatePublicCache(ctx context.Context) {
	_ = cache.Del(ctx, constants.CacheKeyPublicServices)
}
