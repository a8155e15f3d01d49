package public

import (
	"errors"

	"github.com/niaga-next/internal/http/response"
	"github.com/niaga-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var discountErrorRules = []mappedHandlerError{
	{target: service.ErrDiscountNotFound, code: response.CodeBadRequest, key: "error.discount_not_found"},
	{target: service.ErrDiscountInactive, code: response.CodeBadRequest, key: "error.discount_inactive"},
	{target: service.ErrDiscountNotStarted, code: response.CodeBadRequest, key: "error.discount_not_started"},
	{target: service.ErrDiscountExpired, code: response.CodeBadRequest, key: "error.discount_expired"},
	{target: service.ErrDiscountBelowMinimum, code: response.CodeBadRequest, key: "error.discount_below_minimum"},
	{target: service.ErrDiscountNotApplicable, code: response.CodeBadRequest, key: "error.discount_not_applicable"},
	{target: service.ErrDiscountExhausted, code: response.CodeConflict, key: "error.discount_exhausted"},
	{target: service.ErrDiscountInvalid, code: response.CodeBadRequest, key: "error.discount_invalid"},
}

// createOrderErrorRules 覆盖下单路径上可能出现的全部业务错误。
var createOrderErrorRules = append(append([]mappedHandlerError{}, discountErrorRules...), checkoutErrorRules...)

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrServiceNotFound, code: response.CodeNotFound, key: "error.service_not_found"},
	{target: service.ErrPackageNotFound, code: response.CodeNotFound, key: "error.package_not_found"},
	{target: service.ErrStoreItemNotFound, code: response.CodeNotFound, key: "error.store_item_not_found"},
	{target: service.ErrInsufficientStock, code: response.CodeConflict, key: "error.insufficient_stock"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, key: "error.invalid_quantity"},
	{target: service.ErrOrderValidation, code: response.CodeBadRequest, key: "error.order_validation"},
}
