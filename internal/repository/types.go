package repository

import "time"

// CategoryListFilter 查询分类列表的过滤条件
type CategoryListFilter struct {
	Page     int
	PageSize int
	Search   string
}

// ServiceListFilter 查询服务列表的过滤条件
type ServiceListFilter struct {
	Page         int
	PageSize     int
	CategoryID   uint
	Search       string
	OnlyActive   bool
	WithPackages bool
}

// StoreItemListFilter 查询商店商品列表的过滤条件
type StoreItemListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}

// PostListFilter 查询文章列表的过滤条件
type PostListFilter struct {
	Page          int
	PageSize      int
	Type          string
	Search        string
	OnlyPublished bool
}

// DiscountListFilter 查询折扣列表的过滤条件
type DiscountListFilter struct {
	Page      int
	PageSize  int
	ID        uint
	Code      string
	Kind      string
	AppliesTo string
	IsActive  *bool
}

// DiscountUsageListFilter 查询折扣使用记录列表的过滤条件
type DiscountUsageListFilter struct {
	Page       int
	PageSize   int
	DiscountID uint
	OrderKind  string
}

// OrderListFilter 查询订单/购买列表的过滤条件
type OrderListFilter struct {
	Page          int
	PageSize      int
	PaymentStatus string
	InvoiceNo     string
	CustomerEmail string
	Search        string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}
