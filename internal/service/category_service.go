package service

import (
	"context"
	"strings"

	"github.com/niaga-next/internal/cache"
	"github.com/niaga-next/internal/constants"
	"github.com/niaga-next/internal/models"
	"github.com/niaga-next/internal/repository"
)

// CategoryService 分类业务服务
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// CategoryInput 创建/更新分类输入
type CategoryInput struct {
	Slug      string
	Name      string
	SortOrder int
}

// List 获取分类列表
func (s *CategoryService) List(filter repository.CategoryListFilter) ([]models.Category, int64, error) {
	return s.repo.List(filter)
}

// Get 获取分类
func (s *CategoryService) Get(id uint) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	return category, nil
}

// Create 创建分类
func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*models.Category, error) {
	slug := strings.TrimSpace(input.Slug)
	name := strings.TrimSpace(input.Name)
	if slug == "" || name == "" {
		return nil, ErrNotFound
	}

	exist, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrSlugTaken
	}

	category := models.Category{
		Slug:      slug,
		Name:      name,
		SortOrder: input.SortOrder,
	}
	if err := s.repo.Create(&category); err != nil {
		return nil, err
	}
	s.invalidatePublicCache(ctx)
	return &category, nil
}

// Update 更新分类
func (s *CategoryService) Update(ctx context.Context, id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
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

	category.Slug = slug
	category.Name = strings.TrimSpace(input.Name)
	category.SortOrder = input.SortOrder

	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	s.invalidatePublicCache(ctx)
	return category, nil
}

// Delete 删除分类，仍有服务挂靠时拒绝
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrNotFound
	}

	count, err := s.repo.CountServices(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidatePublicCache(ctx)
	return nil
}

func (s *CategoryService) invalidatePublicCache(ctx context.Context) {
	_ = cache.Del(ctx, constants.CacheKeyPublicCategories)
	_ = cache.Del(ctx, constants.CacheKeyPublicServices)
}
