package i18n

import (
	"fmt"
	"strings"

	"github.com/niaga-next/internal/constants"

	"github.com/gin-gonic/gin"
)

// DefaultLocale 默认语言
const DefaultLocale = constants.LocaleEnUS

var messages = map[string]map[string]string{
	constants.LocaleEnUS: {
		"error.bad_request":              "invalid request",
		"error.unauthorized":             "unauthorized",
		"error.forbidden":                "forbidden",
		"error.not_found":                "resource not found",
		"error.internal":                 "internal server error",
		"error.too_many_requests":        "too many requests, please retry later",
		"error.invalid_credentials":      "invalid username or password",
		"error.invalid_password":         "current password is incorrect",
		"error.weak_password":            "password does not meet policy",
		"error.password_min_length":      "password must be at least %d characters",
		"error.password_require_upper":   "password must contain an uppercase letter",
		"error.password_require_lower":   "password must contain a lowercase letter",
		"error.password_require_number":  "password must contain a digit",
		"error.password_require_special": "password must contain a special character",
		"error.slug_taken":               "slug already in use",
		"error.category_in_use":          "category still has services",
		"error.service_not_found":        "service not found",
		"error.package_not_found":        "service package not found",
		"error.store_item_not_found":     "store item not found",
		"error.insufficient_stock":       "insufficient stock",
		"error.invalid_quantity":         "invalid quantity",
		"error.discount_not_found":       "discount code not found",
		"error.discount_inactive":        "discount is inactive",
		"error.discount_not_started":     "discount is not active yet",
		"error.discount_expired":         "discount has expired",
		"error.discount_below_minimum":   "order amount below discount minimum",
		"error.discount_not_applicable":  "discount is not applicable to this order",
		"error.discount_exhausted":       "discount usage limit reached",
		"error.discount_invalid":         "invalid discount",
		"error.discount_code_taken":      "discount code already exists",
		"error.discount_code_generate":   "could not generate a unique discount code",
		"error.order_not_found":          "order not found",
		"error.order_status_invalid":     "status transition not allowed",
		"error.order_batch_conflict":     "some orders are not in the expected status",
		"error.order_validation":         "customer name and email are required",
		"error.jwt_secret_missing":       "authentication is not configured",
		"error.auth_header_missing":      "authorization header is required",
		"error.auth_header_invalid":      "authorization header is malformed",
		"error.token_invalid":            "invalid or expired token",
		"error.token_revoked":            "token has been revoked",
		"error.login_too_many":           "too many login attempts, retry in %d seconds",
		"error.rate_limited":             "too many requests, retry in %d seconds",
		"error.rate_limit_unavailable":   "rate limiter unavailable",
	},
	constants.LocaleIDID: {
		"error.bad_request":              "permintaan tidak valid",
		"error.unauthorized":             "tidak terautentikasi",
		"error.forbidden":                "akses ditolak",
		"error.not_found":                "data tidak ditemukan",
		"error.internal":                 "terjadi kesalahan pada server",
		"error.too_many_requests":        "terlalu banyak permintaan, coba lagi nanti",
		"error.invalid_credentials":      "nama pengguna atau kata sandi salah",
		"error.invalid_password":         "kata sandi saat ini salah",
		"error.weak_password":            "kata sandi tidak memenuhi kebijakan",
		"error.password_min_length":      "kata sandi minimal %d karakter",
		"error.password_require_upper":   "kata sandi harus mengandung huruf besar",
		"error.password_require_lower":   "kata sandi harus mengandung huruf kecil",
		"error.password_require_number":  "kata sandi harus mengandung angka",
		"error.password_require_special": "kata sandi harus mengandung karakter khusus",
		"error.slug_taken":               "slug sudah digunakan",
		"error.category_in_use":          "kategori masih memiliki layanan",
		"error.service_not_found":        "layanan tidak ditemukan",
		"error.package_not_found":        "paket layanan tidak ditemukan",
		"error.store_item_not_found":     "produk tidak ditemukan",
		"error.insufficient_stock":       "stok tidak mencukupi",
		"error.invalid_quantity":         "jumlah tidak valid",
		"error.discount_not_found":       "kode diskon tidak ditemukan",
		"error.discount_inactive":        "diskon tidak aktif",
		"error.discount_not_started":     "diskon belum berlaku",
		"error.discount_expired":         "diskon sudah kedaluwarsa",
		"error.discount_below_minimum":   "jumlah pesanan di bawah minimum diskon",
		"error.discount_not_applicable":  "diskon tidak berlaku untuk pesanan ini",
		"error.discount_exhausted":       "batas pemakaian diskon tercapai",
		"error.discount_invalid":         "diskon tidak valid",
		"error.discount_code_taken":      "kode diskon sudah ada",
		"error.discount_code_generate":   "gagal membuat kode diskon unik",
		"error.order_not_found":          "pesanan tidak ditemukan",
		"error.order_status_invalid":     "perubahan status tidak diizinkan",
		"error.order_batch_conflict":     "sebagian pesanan tidak dalam status yang diharapkan",
		"error.order_validation":         "nama dan email pelanggan wajib diisi",
		"error.jwt_secret_missing":       "autentikasi belum dikonfigurasi",
		"error.auth_header_missing":      "header otorisasi wajib diisi",
		"error.auth_header_invalid":      "format header otorisasi salah",
		"error.token_invalid":            "token tidak valid atau kedaluwarsa",
		"error.token_revoked":            "token sudah dicabut",
		"error.login_too_many":           "terlalu banyak percobaan login, coba lagi dalam %d detik",
		"error.rate_limited":             "terlalu banyak permintaan, coba lagi dalam %d detik",
		"error.rate_limit_unavailable":   "pembatas laju tidak tersedia",
	},
	constants.LocaleZhCN: {
		"error.bad_request":              "请求参数错误",
		"error.unauthorized":             "未登录或登录已过期",
		"error.forbidden":                "没有操作权限",
		"error.not_found":                "资源不存在",
		"error.internal":                 "服务器内部错误",
		"error.too_many_requests":        "请求过于频繁，请稍后再试",
		"error.invalid_credentials":      "用户名或密码错误",
		"error.invalid_password":         "当前密码不正确",
		"error.weak_password":            "密码不符合安全策略",
		"error.password_min_length":      "密码长度至少 %d 位",
		"error.password_require_upper":   "密码需包含大写字母",
		"error.password_require_lower":   "密码需包含小写字母",
		"error.password_require_number":  "密码需包含数字",
		"error.password_require_special": "密码需包含特殊字符",
		"error.slug_taken":               "标识已被占用",
		"error.category_in_use":          "分类下仍有服务",
		"error.service_not_found":        "服务不存在",
		"error.package_not_found":        "服务套餐不存在",
		"error.store_item_not_found":     "商品不存在",
		"error.insufficient_stock":       "库存不足",
		"error.invalid_quantity":         "数量无效",
		"error.discount_not_found":       "折扣码不存在",
		"error.discount_inactive":        "折扣未启用",
		"error.discount_not_started":     "折扣尚未生效",
		"error.discount_expired":         "折扣已过期",
		"error.discount_below_minimum":   "订单金额未达到折扣门槛",
		"error.discount_not_applicable":  "折扣不适用于该订单",
		"error.discount_exhausted":       "折扣使用次数已达上限",
		"error.discount_invalid":         "折扣无效",
		"error.discount_code_taken":      "折扣码已存在",
		"error.discount_code_generate":   "无法生成可用的折扣码",
		"error.order_not_found":          "订单不存在",
		"error.order_status_invalid":     "状态流转不允许",
		"error.order_batch_conflict":     "部分订单不处于预期状态",
		"error.order_validation":         "客户姓名与邮箱必填",
		"error.jwt_secret_missing":       "认证配置缺失",
		"error.auth_header_missing":      "缺少认证头",
		"error.auth_header_invalid":      "认证头格式错误",
		"error.token_invalid":            "令牌无效或已过期",
		"error.token_revoked":            "令牌已失效",
		"error.login_too_many":           "登录尝试过于频繁，请 %d 秒后重试",
		"error.rate_limited":             "请求过于频繁，请 %d 秒后重试",
		"error.rate_limit_unavailable":   "限流服务不可用",
	},
}

// ResolveLocale 从请求解析语言，优先级：query locale > Accept-Language > 默认
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if locale := normalizeLocale(c.Query("locale")); locale != "" {
		return locale
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if locale := normalizeLocale(tag); locale != "" {
			return locale
		}
	}
	return DefaultLocale
}

// T 按语言取文案，未命中时回退默认语言，再回退 key 本身
func T(locale, key string) string {
	if table, ok := messages[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 取文案并格式化参数
func Sprintf(locale, key string, args ...interface{}) string {
	msg := T(locale, key)
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

func normalizeLocale(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	lower := strings.ToLower(tag)
	for _, locale := range constants.SupportedLocales {
		if strings.EqualFold(tag, locale) {
			return locale
		}
	}
	switch {
	case strings.HasPrefix(lower, "en"):
		return constants.LocaleEnUS
	case strings.HasPrefix(lower, "id"):
		return constants.LocaleIDID
	case strings.HasPrefix(lower, "zh"):
		return constants.LocaleZhCN
	}
	return ""
}
