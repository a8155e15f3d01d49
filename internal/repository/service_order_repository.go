package repository

import (
	"errors"
	"fmt"

	"github.com/niaga-next/internal/models"

	"gorm.io/gorm"
)

// ServiceOrderRepository 服务订单数据访问接口
type ServiceOrderRepository interface {
	WithTx(tx *gorm.DB) ServiceOrderRepository
	Create(order *models.ServiceOrder) error
	GetByID(id uint) (*models.ServiceOrder, error)
	GetByInvoiceNo(invoiceNo string) (*models.ServiceOrder, error)
	GetByInvoiceNoAndEmail(invoiceNo, email string) (*models.ServiceOrder, error)
	List(filter OrderListFilter) ([]models.ServiceOrder, int64, error)
	UpdatePaymentStatus(id uint, updates map[string]interface{}) (int64, error)
	BulkUpdatePaymentStatus(ids []uint, fromStatus string, updates map[string]interface{}) (int64, error)
	Delete(id uint) error
}

// GormServiceOrderRepository GORM 实现
type GormServiceOrderRepository struct {
	db *gorm.DB
}

// NewServiceOrderRepository 创建服务订单仓库
func NewServiceOrderRepository(db *gorm.DB) *GormServiceOrderRepository {
	return &GormServiceOrderRepository{db: db}
}

// WithTx 返回绑定事务的仓库
func (r *GormServiceOrderRepository) WithTx(tx *gorm.DB) ServiceOrderRepository {
	return &GormServiceOrderRepository{db: tx}
}

// Create 创建订单
func (r *GormServiceOrderRepository) Create(order *models.ServiceOrder) error {
	return r.db.Create(order).Error
}

// GetByID 根据ID获取订单
func (r *GormServiceOrderRepository) GetByID(id uint) (*models.ServiceOrder, error) {
	var order models.ServiceOrder
	if err := r.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByInvoiceNo 根据单号获取订单
func (r *GormServiceOrderRepository) GetByInvoiceNo(invoiceNo string) (*models.ServiceOrder, error) {
	var order models.ServiceOrder
	if err := r.db.Where("invoice_no = ?", invoiceNo).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByInvoiceNoAndEmail 根据单号与邮箱获取订单，用于客户自助查询
func (r *GormServiceOrderRepository) GetByInvoiceNoAndEmail(invoiceNo, email string) (*models.ServiceOrder, error) {
	var order models.ServiceOrder
	err := r.db.Where("invoice_no = ? AND customer_email = ?", invoiceNo, email).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List 获取订单列表
func (r *GormServiceOrderRepository) List(filter OrderListFilter) ([]models.ServiceOrder, int64, error) {
	var orders []models.ServiceOrder
	query := r.db.Model(&models.ServiceOrder{})
	query = applyOrderListFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdatePaymentStatus 更新订单支付状态，返回受影响行数
func (r *GormServiceOrderRepository) UpdatePaymentStatus(id uint, updates map[string]interface{}) (int64, error) {
	result := r.db.Model(&models.ServiceOrder{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

// BulkUpdatePaymentStatus 批量更新支付状态，只更新当前处于指定状态的订单
func (r *GormServiceOrderRepository) BulkUpdatePaymentStatus(ids []uint, fromStatus string, updates map[string]interface{}) (int64, error) {
	result := r.db.Model(&models.ServiceOrder{}).
		Where("id IN ? AND payment_status = ?", ids, fromStatus).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// Delete 删除订单
func (r *GormServiceOrderRepository) Delete(id uint) error {
	return r.db.Delete(&models.ServiceOrder{}, id).Error
}

// applyOrderListFilter 订单类查询共用的过滤逻辑
func applyOrderListFilter(query *gorm.DB, filter OrderListFilter) *gorm.DB {
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.InvoiceNo != "" {
		query = query.Where("invoice_no = ?", filter.InvoiceNo)
	}
	if filter.CustomerEmail != "" {
		query = query.Where("customer_email = ?", filter.CustomerEmail)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("invoice_no LIKE ? OR customer_name LIKE ? OR customer_email LIKE ?", like, like, like)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}
	return query
}
