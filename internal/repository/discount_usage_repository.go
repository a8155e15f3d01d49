package repository

import (
	"errors"

	"github.com/niaga-next/internal/models"

	"gorm.io/gorm"
)

// DiscountUsageRepository 折扣使用记录数据访问接口
type DiscountUsageRepository interface {
	WithTx(tx *gorm.DB) DiscountUsageRepository
	Create(usage *models.DiscountUsage) error
	GetByOrder(orderKind string, orderID uint) (*models.DiscountUsage, error)
	DeleteByOrder(orderKind string, orderID uint) error
	List(filter DiscountUsageListFilter) ([]models.DiscountUsage, int64, error)
}

// GormDiscountUsageRepository GORM 实现
type GormDiscountUsageRepository struct {
	db *gorm.DB
}

// NewDiscountUsageRepository 创建折扣使用记录仓库
func NewDiscountUsageRepository(db *gorm.DB) *GormDiscountUsageRepository {
	return &GormDiscountUsageRepository{db: db}
}

// WithTx 返回绑定事务的仓库
func (r *GormDiscountUsageRepository) WithTx(tx *gorm.DB) DiscountUsageRepository {
	return &GormDiscountUsageRepository{db: tx}
}

// Create 创建使用记录
func (r *GormDiscountUsageRepository) Create(usage *models.DiscountUsage) error {
	return r.db.Create(usage).Error
}

// GetByOrder 根据订单获取使用记录
func (r *GormDiscountUsageRepository) GetByOrder(orderKind string, orderID uint) (*models.DiscountUsage, error) {
	var usage models.DiscountUsage
	err := r.db.Where("order_kind = ? AND order_id = ?", orderKind, orderID).First(&usage).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &usage, nil
}

// DeleteByOrder 删除订单对应的使用记录
func (r *GormDiscountUsageRepository) DeleteByOrder(orderKind string, orderID uint) error {
	return r.db.Where("order_kind = ? AND order_id = ?", orderKind, orderID).
		Delete(&models.DiscountUsage{}).Error
}

// List 获取使用记录列表
func (r *GormDiscountUsageRepository) List(filter DiscountUsageListFilter) ([]models.DiscountUsage, int64, error) {
	var usages []models.DiscountUsage
	query := r.db.Model(&models.DiscountUsage{})

	if filter.DiscountID > 0 {
		query = query.Where("discount_id = ?", filter.DiscountID)
	}
	if filter.OrderKind != "" {
		query = query.Where("order_kind = ?", filter.OrderKind)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id DESC").Find(&usages).Error; err != nil {
		return nil, 0, err
	}
	return usages, total, nil
}
