package constants

// 支付状态常量
const (
	PaymentStatusPending  = "pending"
	PaymentStatusVerified = "verified"
	PaymentStatusRejected = "rejected"
)

// 订单类别常量（服务订单 / 商店购买）
const (
	OrderKindService = "service"
	OrderKindStore   = "store"
)

// 折扣类型常量
const (
	DiscountKindCode = "code"
	DiscountKindAuto = "auto"
)

// 折扣计算方式常量
const (
	DiscountValuePercentage = "percentage"
	DiscountValueFixed      = "fixed"
)

// 折扣适用范围常量
const (
	DiscountAppliesAll      = "all"
	DiscountAppliesServices = "services"
	DiscountAppliesStore    = "store"
)

// 折扣不适用原因常量（对外返回的 reason 字段）
const (
	DiscountReasonNotFound       = "not_found"
	DiscountReasonInactive       = "inactive"
	DiscountReasonNotStarted     = "not_started"
	DiscountReasonExpired        = "expired"
	DiscountReasonBelowMinimum   = "below_minimum"
	DiscountReasonNotApplicable  = "not_applicable_to_target"
	DiscountReasonUsageExhausted = "usage_exhausted"
)

// 文章类型常量
const (
	PostTypeBlog   = "blog"
	PostTypeNotice = "notice"
)

// 库存常量
const (
	StoreStockUnlimited = -1
)

// 单号前缀常量
const (
	InvoicePrefixServiceOrder  = "INV"
	InvoicePrefixStorePurchase = "STR"
)

// 折扣码字符集（去除易混淆的 0/O/1/I）
const DiscountCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// 队列常量
const (
	QueueDefault           = "default"
	TaskOrderNotify        = "order:notify"
	TaskOrderStatusChanged = "order:status_changed"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "ng"
)

// 公共缓存键常量
const (
	CacheKeyPublicCategories = "public:categories"
	CacheKeyPublicServices   = "public:services"
	CacheKeyPublicStoreItems = "public:store_items"
)

// 站点语言常量
const (
	LocaleEnUS = "en-US"
	LocaleIDID = "id-ID"
	LocaleZhCN = "zh-CN"
)

// 支持的站点语言顺序（含回退顺序）
var SupportedLocales = []string{LocaleEnUS, LocaleIDID, LocaleZhCN}
