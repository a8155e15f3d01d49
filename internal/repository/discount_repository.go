package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/niaga-next/internal/constants"
	"github.com/niaga-next/internal/models"

	"gorm.io/gorm"
)

// DiscountRepository 折扣数据访问接口
type DiscountRepository interface {
	WithTx(tx *gorm.DB) DiscountRepository
	GetByID(id uint) (*models.Discount, error)
	GetByCode(code string) (*models.Discount, error)
	Create(discount *models.Discount) error
	Update(discount *models.Discount) error
	Delete(id uint) error
	List(filter DiscountListFilter) ([]models.Discount, int64, error)
	ListActiveAuto() ([]models.Discount, error)
	IncrementUsage(id uint) (int64, error)
	DecrementUsage(id uint) error
}

// GormDiscountRepository GORM 实现
type GormDiscountRepository struct {
	db *gorm.DB
}

// NewDiscountRepository 创建折扣仓库
func NewDiscountRepository(db *gorm.DB) *GormDiscountRepository {
	return &GormDiscountRepository{db: db}
}

// WithTx 返回绑定事务的仓库
func (r *GormDiscountRepository) WithTx(tx *gorm.DB) DiscountRepository {
	return &GormDiscountRepository{db: tx}
}

// GetByID 根据ID获取折扣
func (r *GormDiscountRepository) GetByID(id uint) (*models.Discount, error) {
	var discount models.Discount
	if err := r.db.First(&discount, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &discount, nil
}

// GetByCode 根据兑换码获取折扣，码不区分大小写
func (r *GormDiscountRepository) GetByCode(code string) (*models.Discount, error) {
	var discount models.Discount
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if err := r.db.Where("code = ?", normalized).First(&discount).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &discount, nil
}

// Create 创建折扣
func (r *GormDiscountRepository) Create(discount *models.Discount) error {
	return r.db.Create(discount).Error
}

// Update 更新折扣
func (r *GormDiscountRepository) Update(discount *models.Discount) error {
	return r.db.Save(discount).Error
}

// Delete 删除折扣
func (r *GormDiscountRepository) Delete(id uint) error {
	return r.db.Delete(&models.Discount{}, id).Error
}

// List 获取折扣列表
func (r *GormDiscountRepository) List(filter DiscountListFilter) ([]models.Discount, int64, error) {
	var discounts []models.Discount
	query := r.db.Model(&models.Discount{})

	if filter.ID > 0 {
		query = query.Where("id = ?", filter.ID)
	}
	if filter.Code != "" {
		query = query.Where("code LIKE ?", fmt.Sprintf("%%%s%%", strings.ToUpper(filter.Code)))
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.AppliesTo != "" {
		query = query.Where("applies_to = ?", filter.AppliesTo)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id DESC").Find(&discounts).Error; err != nil {
		return nil, 0, err
	}
	return discounts, total, nil
}

// ListActiveAuto 获取所有启用的自动折扣
func (r *GormDiscountRepository) ListActiveAuto() ([]models.Discount, error) {
	var discounts []models.Discount
	err := r.db.Where("kind = ? AND is_active = ?", constants.DiscountKindAuto, true).
		Order("id ASC").Find(&discounts).Error
	return discounts, err
}

// IncrementUsage 条件递增使用次数，返回受影响行数。
// 超过使用上限时不更新任何行。
func (r *GormDiscountRepository) IncrementUsage(id uint) (int64, error) {
	result := r.db.Model(&models.Discount{}).
		Where("id = ? AND (usage_limit = 0 OR usage_count < usage_limit)", id).
		Update("usage_count", gorm.Expr("usage_count + 1"))
	return result.RowsAffected, result.Error
}

// DecrementUsage 回滚使用次数，不低于零
func (r *GormDiscountRepository) DecrementUsage(id uint) error {
	return r.db.Model(&models.Discount{}).
		Where("id = ? AND usage_count > 0", id).
		Update("usage_count", gorm.Expr("usage_count - 1")).Error
}
