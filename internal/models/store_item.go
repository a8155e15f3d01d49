package models

import (
	"time"

	"gorm.io/gorm"
)

// StoreItem 数字商店商品表
type StoreItem struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                // 主键
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`                    // 唯一标识
	Name        string         `gorm:"not null" json:"name"`                                // 商品名称
	Description string         `gorm:"type:text" json:"description"`                        // 商品描述
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 单价
	Stock       int            `gorm:"not null;default:-1" json:"stock"`                    // 库存（-1 表示不限量）
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`              // 是否上架
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`                   // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                             // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                      // 软删除时间
}

// TableName 指定表名
func (StoreItem) TableName() string {
	return "store_items"
}
