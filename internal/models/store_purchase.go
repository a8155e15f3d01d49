package models

import (
	"time"

	"gorm.io/gorm"
)

// StorePurchase 商店购买表
// 商品名称与单价为下单时快照，与服务订单共用同一套支付状态生命周期。
type StorePurchase struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                          // 主键
	InvoiceNo      string         `gorm:"uniqueIndex;not null" json:"invoice_no"`                        // 账单编号
	CustomerName   string         `gorm:"not null" json:"customer_name"`                                 // 客户姓名
	CustomerEmail  string         `gorm:"index;not null" json:"customer_email"`                          // 客户邮箱
	CustomerPhone  string         `json:"customer_phone"`                                                // 客户电话
	StoreItemID    uint           `gorm:"index;not null" json:"store_item_id"`                           // 商品ID
	ItemName       string         `gorm:"not null" json:"item_name"`                                     // 商品名称快照
	UnitPrice      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`       // 单价快照
	Quantity       int            `gorm:"not null;default:1" json:"quantity"`                            // 数量
	OriginalAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"original_amount"`  // 折前金额
	DiscountID     *uint          `gorm:"index" json:"discount_id,omitempty"`                            // 折扣ID
	DiscountCode   string         `json:"discount_code,omitempty"`                                       // 折扣码快照
	DiscountAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`  // 优惠金额
	TotalAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`     // 实付金额
	PaymentStatus  string         `gorm:"index;not null;default:pending" json:"payment_status"`          // 支付状态（pending/verified/rejected）
	VerifiedAt     *time.Time     `gorm:"index" json:"verified_at"`                                      // 审核时间
	VerifiedBy     string         `json:"verified_by,omitempty"`                                         // 审核人
	Note           string         `gorm:"type:text" json:"note,omitempty"`                               // 备注
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间
}

// TableName 指定表名
func (StorePurchase) TableName() string {
	return "store_purchases"
}
