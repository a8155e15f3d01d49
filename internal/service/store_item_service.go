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

const publicStoreCacheTTL = 5 * time.Minute

// StoreItemService 商店商品业务服务
type StoreItemService struct {
	repo repository.StoreItemRepository
}

// NewStoreItemService 创建商品服务
func NewStoreItemService(repo repository.StoreItemRepository) *StoreItemService {
	return &StoreItemService{repo: repo}
}

// StoreItemInput 创建/更新商品输入
type StoreItemInput struct {
	Slug        string
	Name        string
	Description string
	Price       models.Money
	Stock       *int
	IsActive    *bool
	SortOrder   int
}

// List 获取商品列表
func (s *StoreItemService) List(filter repository.StoreItemListFilter) ([]models.StoreItem, int64, error) {
	return s.repo.List(filter)
}

// ListPublic 获取对外展示的商品列表，带缓存
func (s *StoreItemService) ListPublic(ctx context.Context) ([]models.StoreItem, error) {
	var cached []models.StoreItem
	if hit, err := cache.GetJSON(ctx, constants.CacheKeyPublicStoreItems, &cached); err == nil && hit {
		return cached, nil
	}

	items, _, err := s.repo.List(repository.StoreItemListFilter{OnlyActive: true})
	if err != nil {
		return nil, err
	}
	_ = cache.SetJSON(ctx, constants.CacheKeyPublicStoreItems, items, publicStoreCacheTTL)
	return items, nil
}

// Get 获取商品
func (s *StoreItemService) Get(id uint) (*models.StoreItem, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrStoreItemNotFound
	}
	return item, nil
}

// GetBySlug 根据标识获取商品
func (s *StoreItemService) GetBySlug(slug string) (*models.StoreItem, error) {
	item, err := s.repo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrStoreItemNotFound
	}
	return item, nil
}

// Create 创建商品
func (s *StoreItemService) Create(ctx context.Context, input StoreItemInput) (*models.StoreItem, error) {
	slug := strings.TrimSpace(input.Slug)
	name := strings.TrimSpace(input.Name)
	if slug == "" || name == "" || input.Price.Decimal.LessThan(decimal.Zero) {
		return nil, ErrStoreItemNotFound
	}

	exist, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrSlugTaken
	}

	stock := constants.StoreStockUnlimited
	if input.Stock != nil {
		stock = *input.Stock
	}
	if stock < constants.StoreStockUnlimited {
		return nil, ErrStoreItemNotFound
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	item := models.StoreItem{
		Slug:        slug,
		Name:        name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       stock,
		IsActive:    isActive,
		SortOrder:   input.SortOrder,
	}
	if err := s.repo.Create(&item); err != nil {
		return nil, err
	}
	s.invalidatePublicCache(ctx)
	return &item, nil
}

// Update 更新商品
func (s *StoreItemService) Update(ctx context.Context, id uint, input StoreItemInput) (*models.StoreItem, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrStoreItemNotFound
	}
	if input.Price.Decimal.LessThan(decimal.Zero) {
		return nil, ErrStoreItemNotFound
	}

	slug := strings.TrimSpace(input.Slug)
	exist, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if exist != nil && exist.ID != id {
		return nil, ErrSlugTaken
	}

	item.Slug = slug
	item.Name = strings.TrimSpace(input.Name)
	item.Description = input.Description
	item.Price = input.Price
	if input.Stock != nil {
		if *input.Stock < constants.StoreStockUnlimited {
			return nil, ErrStoreItemNotFound
		}
		item.Stock = *input.Stock
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}
	item.SortOrder = input.SortOrder

	if err := s.repo.Update(item); err != nil {
		return nil, err
	}
	s.invalidatePublicCache(ctx)
	return item, nil
}

// Delete 删除商品
func (s *StoreItemService) Delete(ctx context.Context, id uint) error {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrStoreItemNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidatePublicCache(ctx)
	return nil
}

func (s *StoreItemService) invalidatePublicCache(ctx context.Context) {
	_ = cache.Del(ctx, constants.CacheKeyPublicStoreItems)
}
