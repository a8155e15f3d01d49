package service

import "errors"

// 服务层业务错误，由 handler 映射为响应码与提示文案
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrAdminNotFound      = errors.New("admin not found")

	ErrNotFound      = errors.New("resource not found")
	ErrSlugTaken     = errors.New("slug already taken")
	ErrCategoryInUse = errors.New("category has services")

	ErrDiscountNotFound      = errors.New("discount not found")
	ErrDiscountInactive      = errors.New("discount inactive")
	ErrDiscountNotStarted    = errors.New("discount not started")
	ErrDiscountExpired       = errors.New("discount expired")
	ErrDiscountBelowMinimum  = errors.New("order amount below discount minimum")
	ErrDiscountNotApplicable = errors.New("discount not applicable to target")
	ErrDiscountExhausted     = errors.New("discount usage exhausted")
	ErrDiscountInvalid       = errors.New("discount invalid")
	ErrDiscountCodeTaken     = errors.New("discount code already exists")
	ErrDiscountCodeGenerate  = errors.New("discount code generation failed")

	ErrServiceNotFound      = errors.New("service not found")
	ErrPackageNotFound      = errors.New("service package not found")
	ErrStoreItemNotFound    = errors.New("store item not found")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderValidation    = errors.New("invalid order input")
	ErrOrderStatusInvalid = errors.New("order status transition not allowed")
	ErrOrderBatchConflict = errors.New("order batch update conflict")
)
