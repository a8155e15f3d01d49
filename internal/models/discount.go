package models

import (
	"time"

	"gorm.io/gorm"
)

// Discount 折扣定义
type Discount struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                           // 主键
	Code          string         `gorm:"uniqueIndex;not null" json:"code"`                               // 折扣码（大写，kind=code 时必填）
	Kind          string         `gorm:"not null;index" json:"kind"`                                     // 类型（code/auto）
	ValueType     string         `gorm:"not null" json:"value_type"`                                     // 计算方式（percentage/fixed）
	Value         Money          `gorm:"type:decimal(20,2);not null" json:"value"`                       // 数值（百分比或固定金额）
	AppliesTo     string         `gorm:"not null;default:all" json:"applies_to"`                         // 适用范围（all/services/store）
	ServiceIDs    UintArray      `gorm:"type:text" json:"service_ids"`                                   // 适用服务ID集合（applies_to=services 时生效）
	MinOrderAmt   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_order_amount"`  // 使用门槛（0 表示不限制）
	MaxDiscount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount_amount"` // 百分比折扣的最大优惠金额（0 表示不限制）
	UsageLimit    int            `gorm:"not null;default:0" json:"usage_limit"`                          // 总使用上限（0 表示不限制）
	UsageCount    int            `gorm:"not null;default:0" json:"usage_count"`                          // 已使用次数
	StartsAt      *time.Time     `gorm:"index" json:"starts_at"`                                         // 生效时间（含边界）
	EndsAt        *time.Time     `gorm:"index" json:"ends_at"`                                           // 失效时间（含边界）
	IsActive      bool           `gorm:"not null;default:true" json:"is_active"`                         // 是否启用
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                                        // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                                 // 软删除时间
}

// TableName 指定表名
func (Discount) TableName() string {
	return "discounts"
}
