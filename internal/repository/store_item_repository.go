package repository

import (
	"errors"
	"fmt"

	"github.com/niaga-next/internal/constants"
	"github.com/niaga-next/internal/models"

	"gorm.io/gorm"
)

// StoreItemRepository 商店商品数据访问接口
type StoreItemRepository interface {
	WithTx(tx *gorm.DB) StoreItemRepository
	GetByID(id uint) (*models.StoreItem, error)
	GetBySlug(slug string) (*models.StoreItem, error)
	Create(item *models.StoreItem) error
	Update(item *models.StoreItem) error
	Delete(id uint) error
	List(filter StoreItemListFilter) ([]models.StoreItem, int64, error)
	DecrementStock(id uint, quantity int) (int64, error)
	IncrementStock(id uint, quantity int) error
}

// GormStoreItemRepository GORM 实现
type GormStoreItemRepository struct {
	db *gorm.DB
}

// NewStoreItemRepository 创建商品仓库
func NewStoreItemRepository(db *gorm.DB) *GormStoreItemRepository {
	return &GormStoreItemRepository{db: db}
}

// WithTx 返回绑定事务的仓库
func (r *GormStoreItemRepository) WithTx(tx *gorm.DB) StoreItemRepository {
	return &GormStoreItemRepository{db: tx}
}

// GetByID 根据ID获取商品
func (r *GormStoreItemRepository) GetByID(id uint) (*models.StoreItem, error) {
	var item models.StoreItem
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetBySlug 根据标识获取商品
func (r *GormStoreItemRepository) GetBySlug(slug string) (*models.StoreItem, error) {
	var item models.StoreItem
	if err := r.db.Where("slug = ?", slug).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create 创建商品
func (r *GormStoreItemRepository) Create(item *models.StoreItem) error {
	return r.db.Create(item).Error
}

// Update 更新商品
func (r *GormStoreItemRepository) Update(item *models.StoreItem) error {
	return r.db.Save(item).Error
}

// Delete 删除商品
func (r *GormStoreItemRepository) Delete(id uint) error {
	return r.db.Delete(&models.StoreItem{}, id).Error
}

// List 获取商品列表
func (r *GormStoreItemRepository) List(filter StoreItemListFilter) ([]models.StoreItem, int64, error) {
	var items []models.StoreItem
	query := r.db.Model(&models.StoreItem{})

	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("name LIKE ? OR slug LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("sort_order ASC, id ASC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// DecrementStock 条件扣减库存，返回受影响行数。
// 无限库存（-1）不扣减但视为成功。
func (r *GormStoreItemRepository) DecrementStock(id uint, quantity int) (int64, error) {
	result := r.db.Model(&models.StoreItem{}).
		Where("id = ? AND stock = ?", id, constants.StoreStockUnlimited)
	var unlimited int64
	if err := result.Count(&unlimited).Error; err != nil {
		return 0, err
	}
	if unlimited > 0 {
		return 1, nil
	}

	update := r.db.Model(&models.StoreItem{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	return update.RowsAffected, update.Error
}

// IncrementStock 回补库存，无限库存不变
func (r *GormStoreItemRepository) IncrementStock(id uint, quantity int) error {
	return r.db.Model(&models.StoreItem{}).
		Where("id = ? AND stock <> ?", id, constants.StoreStockUnlimited).
		Update("stock", gorm.Expr("stock + ?", quantity)).Error
}
