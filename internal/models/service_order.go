package models

import (
	"time"

	"gorm.io/gorm"
)

// ServiceOrder 服务订单表
// 服务名称与套餐价格为下单时快照，目录后续修改不影响已有订单。
type ServiceOrder struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                          // 主键
	InvoiceNo      string         `gorm:"uniqueIndex;not null" json:"invoice_no"`                        // 账单编号
	CustomerName   string         `gorm:"not null" json:"customer_name"`                                 // 客户姓名
	CustomerEmail  string         `gorm:"index;not null" json:"customer_email"`                          // 客户邮箱
	CustomerPhone  string         `json:"customer_phone"`                                                // 客户电话
	ServiceID      uint           `gorm:"index;not null" json:"service_id"`                              // 服务ID
	PackageID      uint           `gorm:"index;not null" json:"package_id"`                              // 套餐ID
	ServiceName    string         `gorm:"not null" json:"service_name"`                                  // 服务名称快照
	PackageName    string         `gorm:"not null" json:"package_name"`                                  // 套餐名称快照
	PackagePrice   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"package_price"`    // 套餐价格快照
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
func (ServiceOrder) TableName() string {
	return "service_orders"
}
