package repository

import (
	"errors"

	"github.com/niaga-next/internal/models"

	"gorm.io/gorm"
)

// StorePurchaseRepository 商店购买订单数据访问接口
type StorePurchaseRepository interface {
	WithTx(tx *gorm.DB) StorePurchaseRepository
	Create(purchase *models.StorePurchase) error
	GetByID(id uint) (*models.StorePurchase, error)
	GetByInvoiceNo(invoiceNo string) (*models.StorePurchase, error)
	GetByInvoiceNoAndEmail(invoiceNo, email string) (*models.StorePurchase, error)
	List(filter OrderListFilter) ([]models.StorePurchase, int64, error)
	UpdatePaymentStatus(id uint, updates map[string]interface{}) (int64, error)
	BulkUpdatePaymentStatus(ids []uint, fromStatus string, updates map[string]interface{}) (int64, error)
	Delete(id uint) error
}

// GormStorePurchaseRepository GORM 实现
type GormStorePurchaseRepository struct {
	db *gorm.DB
}

// NewStorePurchaseRepository 创建商店购买仓库
func NewStorePurchaseRepository(db *gorm.DB) *GormStorePurchaseRepository {
	return &GormStorePurchaseRepository{db: db}
}

// WithTx 返回绑定事务的仓库
func (r *GormStorePurchaseRepository) WithTx(tx *gorm.DB) StorePurchaseRepository {
	return &GormStorePurchaseRepository{db: tx}
}

// Create 创建购买订单
func (r *GormStorePurchaseRepository) Create(purchase *models.StorePurchase) error {
	return r.db.Create(purchase).Error
}

// GetByID 根据ID获取购买订单
func (r *GormStorePurchaseRepository) GetByID(id uint) (*models.StorePurchase, error) {
	var purchase models.StorePurchase
	if err := r.db.First(&purchase, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &purchase, nil
}

// GetByInvoiceNo 根据单号获取购买订单
func (r *GormStorePurchaseRepository) GetByInvoiceNo(invoiceNo string) (*models.StorePurchase, error) {
	var purchase models.StorePurchase
	if err := r.db.Where("invoice_no = ?", invoiceNo).First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &purchase, nil
}

// GetByInvoiceNoAndEmail 根据单号与邮箱获取购买订单
func (r *GormStorePurchaseRepository) GetByInvoiceNoAndEmail(invoiceNo, email string) (*models.StorePurchase, error) {
	var purchase models.StorePurchase
	err := r.db.Where("invoice_no = ? AND customer_email = ?", invoiceNo, email).First(&purchase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &purchase, nil
}

// List 获取购买订单列表
func (r *GormStorePurchaseRepository) List(filter OrderListFilter) ([]models.StorePurchase, int64, error) {
	var purchases []models.StorePurchase
	query := r.db.Model(&models.StorePurchase{})
	query = applyOrderListFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id DESC").Find(&purchases).Error; err != nil {
		return nil, 0, err
	}
	return purchases, total, nil
}

// UpdatePaymentStatus 更新支付状态，返回受影响行数
func (r *GormStorePurchaseRepository) UpdatePaymentStatus(id uint, updates map[string]interface{}) (int64, error) {
	result := r.db.Model(&models.StorePurchase{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

// BulkUpdatePaymentStatus 批量更新支付状态，只更新当前处于指定状态的订单
func (r *GormStorePurchaseRepository) BulkUpdatePaymentStatus(ids []uint, fromStatus string, updates map[string]interface{}) (int64, error) {
	result := r.db.Model(&models.StorePurchase{}).
		Where("id IN ? AND payment_status = ?", ids, fromStatus).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// Delete 删除购买订单
func (r *GormStorePurchaseRepository) Delete(id uint) error {
	return r.db.Delete(&models.StorePurchase{}, id).Error
}
