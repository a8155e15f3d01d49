package models

import (
	"time"

	"gorm.io/gorm"
)

// Service 服务表
type Service struct {
	ID          uint           `gorm:"primarykey" json:"id"`                   // 主键
	CategoryID  uint           `gorm:"index;not null" json:"category_id"`      // 分类ID
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`       // 唯一标识
	Name        string         `gorm:"not null" json:"name"`                   // 服务名称
	Description string         `gorm:"type:text" json:"description"`           // 服务描述
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"` // 是否上架
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`      // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间

	Category *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 所属分类
	Packages []ServicePackage `gorm:"foreignKey:ServiceID" json:"packages,omitempty"`  // 套餐列表
}

// TableName 指定表名
func (Service) TableName() string {
	return "services"
}

// ServicePackage 服务套餐表
type ServicePackage struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                 // 主键
	ServiceID   uint           `gorm:"index;not null" json:"service_id"`                     // 服务ID
	Name        string         `gorm:"not null" json:"name"`                                 // 套餐名称
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`  // 套餐价格
	Description string         `gorm:"type:text" json:"description"`                         // 套餐描述
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`               // 是否上架
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`                    // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                              // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                              // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                       // 软删除时间
}

// TableName 指定表名
func (ServicePackage) TableName() string {
	return "service_packages"
}
