package repository

import (
	"errors"
	"fmt"

	"github.com/niaga-next/internal/models"

	"gorm.io/gorm"
)

// ServiceRepository 服务与套餐数据访问接口
type ServiceRepository interface {
	GetByID(id uint) (*models.Service, error)
	GetBySlug(slug string) (*models.Service, error)
	Create(service *models.Service) error
	Update(service *models.Service) error
	Delete(id uint) error
	List(filter ServiceListFilter) ([]models.Service, int64, error)
	GetPackageByID(id uint) (*models.ServicePackage, error)
	CreatePackage(pkg *models.ServicePackage) error
	UpdatePackage(pkg *models.ServicePackage) error
	DeletePackage(id uint) error
	ListPackages(serviceID uint) ([]models.ServicePackage, error)
}

// GormServiceRepository GORM 实现
type GormServiceRepository struct {
	db *gorm.DB
}

// NewServiceRepository 创建服务仓库
func NewServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

// GetByID 根据ID获取服务（含套餐）
func (r *GormServiceRepository) GetByID(id uint) (*models.Service, error) {
	var service models.Service
	err := r.db.Preload("Category").
		Preload("Packages", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		First(&service, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

// GetBySlug 根据标识获取服务（含套餐）
func (r *GormServiceRepository) GetBySlug(slug string) (*models.Service, error) {
	var service models.Service
	err := r.db.Preload("Category").
		Preload("Packages", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("slug = ?", slug).First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

// Create 创建服务
func (r *GormServiceRepository) Create(service *models.Service) error {
	return r.db.Create(service).Error
}

// Update 更新服务
func (r *GormServiceRepository) Update(service *models.Service) error {
	return r.db.Save(service).Error
}

// Delete 删除服务及其套餐
func (r *GormServiceRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_id = ?", id).Delete(&models.ServicePackage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Service{}, id).Error
	})
}

// List 获取服务列表
func (r *GormServiceRepository) List(filter ServiceListFilter) ([]models.Service, int64, error) {
	var services []models.Service
	query := r.db.Model(&models.Service{})

	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
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

	query = query.Preload("Category")
	if filter.WithPackages {
		query = query.Preload("Packages", func(db *gorm.DB) *gorm.DB {
			if filter.OnlyActive {
				db = db.Where("is_active = ?", true)
			}
			return db.Order("sort_order ASC, id ASC")
		})
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("sort_order ASC, id ASC").Find(&services).Error; err != nil {
		return nil, 0, err
	}
	return services, total, nil
}

// GetPackageByID 根据ID获取套餐
func (r *GormServiceRepository) GetPackageByID(id uint) (*models.ServicePackage, error) {
	var pkg models.ServicePackage
	if err := r.db.First(&pkg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pkg, nil
}

// CreatePackage 创建套餐
func (r *GormServiceRepository) CreatePackage(pkg *models.ServicePackage) error {
	return r.db.Create(pkg).Error
}

// UpdatePackage 更新套餐
func (r *GormServiceRepository) UpdatePackage(pkg *models.ServicePackage) error {
	return r.db.Save(pkg).Error
}

// DeletePackage 删除套餐
func (r *GormServiceRepository) DeletePackage(id uint) error {
	return r.db.Delete(&models.ServicePackage{}, id).Error
}

// ListPackages 获取服务下的套餐
func (r *GormServiceRepository) ListPackages(serviceID uint) ([]models.ServicePackage, error) {
	var packages []models.ServicePackage
	err := r.db.Where("service_id = ?", serviceID).
		Order("sort_order ASC, id ASC").Find(&packages).Error
	return packages, err
}
