package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/niaga-next/internal/constants"
	"github.com/niaga-next/internal/models"
	"github.com/niaga-next/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	discountCodeDefaultLength = 8
	discountCodeMaxLength     = 32
	discountCodeMaxAttempts   = 10
)

// DiscountTarget 折扣计算目标
type DiscountTarget struct {
	OrderKind string // service / store
	ServiceID uint   // order_kind=service 时的服务ID
}

// DiscountQuote 折扣试算结果
type DiscountQuote struct {
	Discount       *models.Discount `json:"discount,omitempty"`
	Eligible       bool             `json:"eligible"`
	Reason         string           `json:"reason,omitempty"`
	OriginalAmount models.Money     `json:"original_amount"`
	DiscountAmount models.Money     `json:"discount_amount"`
	FinalAmount    models.Money     `json:"final_amount"`
}

// DiscountService 折扣评估服务
type DiscountService struct {
	discountRepo repository.DiscountRepository
}

// NewDiscountService 创建折扣服务
func NewDiscountService(discountRepo repository.DiscountRepository) *DiscountService {
	return &DiscountService{discountRepo: discountRepo}
}

// EvaluateCode 根据折扣码计算折扣金额
func (s *DiscountService) EvaluateCode(code string, subtotal models.Money, target DiscountTarget, at time.Time) (models.Money, *models.Discount, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return models.Money{}, nil, ErrDiscountInvalid
	}

	discount, err := s.discountRepo.GetByCode(trimmed)
	if err != nil {
		return models.Money{}, nil, err
	}
	if discount == nil {
		return models.Money{}, nil, ErrDiscountNotFound
	}
	if discount.Kind != constants.DiscountKindCode {
		return models.Money{}, discount, ErrDiscountNotFound
	}

	if err := s.checkEligibility(discount, subtotal, target, at); err != nil {
		return models.Money{}, discount, err
	}

	return s.computeDiscount(discount, subtotal), discount, nil
}

// BestAuto 在启用的自动折扣中挑选最优者。
// 没有可用折扣时返回 (nil, 0, nil)。
func (s *DiscountService) BestAuto(subtotal models.Money, target DiscountTarget, at time.Time) (*models.Discount, models.Money, error) {
	discounts, err := s.discountRepo.ListActiveAuto()
	if err != nil {
		return nil, models.Money{}, err
	}

	var best *models.Discount
	bestAmount := models.Money{}
	for i := range discounts {
		candidate := &discounts[i]
		if err := s.checkEligibility(candidate, subtotal, target, at); err != nil {
			continue
		}
		amount := s.computeDiscount(candidate, subtotal)
		if best == nil || amount.Decimal.GreaterThan(bestAmount.Decimal) {
			best = candidate
			bestAmount = amount
			continue
		}
		// 金额相同取 ID 较小者，列表本身按 ID 升序
	}
	return best, bestAmount, nil
}

// Quote 折扣试算，不校验失败时返回不可用原因而非错误
func (s *DiscountService) Quote(code string, subtotal models.Money, target DiscountTarget, at time.Time) (*DiscountQuote, error) {
	quote := &DiscountQuote{
		OriginalAmount: subtotal,
		FinalAmount:    subtotal,
	}

	if strings.TrimSpace(code) != "" {
		amount, discount, err := s.EvaluateCode(code, subtotal, target, at)
		if err != nil {
			reason := ReasonForDiscountError(err)
			if reason == "" {
				return nil, err
			}
			quote.Discount = discount
			quote.Reason = reason
			return quote, nil
		}
		quote.Discount = discount
		quote.Eligible = true
		quote.DiscountAmount = amount
		quote.FinalAmount = models.NewMoneyFromDecimal(subtotal.Decimal.Sub(amount.Decimal))
		return quote, nil
	}

	best, amount, err := s.BestAuto(subtotal, target, at)
	if err != nil {
		return nil, err
	}
	if best == nil {
		return quote, nil
	}
	quote.Discount = best
	quote.Eligible = true
	quote.DiscountAmount = amount
	quote.FinalAmount = models.NewMoneyFromDecimal(subtotal.Decimal.Sub(amount.Decimal))
	return quote, nil
}

// checkEligibility 校验折扣当前是否可用
func (s *DiscountService) checkEligibility(discount *models.Discount, subtotal models.Money, target DiscountTarget, at time.Time) error {
	if !discount.IsActive {
		return ErrDiscountInactive
	}
	if discount.StartsAt != nil && at.Before(*discount.StartsAt) {
		return ErrDiscountNotStarted
	}
	if discount.EndsAt != nil && at.After(*discount.EndsAt) {
		return ErrDiscountExpired
	}
	if !s.matchesTarget(discount, target) {
		return ErrDiscountNotApplicable
	}
	if subtotal.Decimal.LessThan(discount.MinOrderAmt.Decimal) {
		return ErrDiscountBelowMinimum
	}
	if discount.UsageLimit > 0 && discount.UsageCount >= discount.UsageLimit {
		return ErrDiscountExhausted
	}
	return nil
}

func (s *DiscountService) matchesTarget(discount *models.Discount, target DiscountTarget) bool {
	switch discount.AppliesTo {
	case constants.DiscountAppliesAll:
		return true
	case constants.DiscountAppliesStore:
		return target.OrderKind == constants.OrderKindStore
	case constants.DiscountAppliesServices:
		if target.OrderKind != constants.OrderKindService {
			return false
		}
		if len(discount.ServiceIDs) == 0 {
			return true
		}
		return discount.ServiceIDs.Contains(target.ServiceID)
	default:
		return false
	}
}

// computeDiscount 计算折扣金额：百分比受最大优惠限制，固定额不超过小计
func (s *DiscountService) computeDiscount(discount *models.Discount, subtotal models.Money) models.Money {
	var amount decimal.Decimal
	switch discount.ValueType {
	case constants.DiscountValuePercentage:
		amount = subtotal.Decimal.Mul(discount.Value.Decimal).Div(decimal.NewFromInt(100))
		if discount.MaxDiscount.Decimal.GreaterThan(decimal.Zero) && amount.GreaterThan(discount.MaxDiscount.Decimal) {
			amount = discount.MaxDiscount.Decimal
		}
	case constants.DiscountValueFixed:
		amount = discount.Value.Decimal
	default:
		return models.Money{}
	}

	if amount.GreaterThan(subtotal.Decimal) {
		amount = subtotal.Decimal
	}
	if amount.LessThan(decimal.Zero) {
		amount = decimal.Zero
	}
	return models.NewMoneyFromDecimal(amount)
}

// GenerateCode 生成未被占用的折扣码
func (s *DiscountService) GenerateCode(prefix string, length int) (string, error) {
	if length <= 0 {
		length = discountCodeDefaultLength
	}
	if length > discountCodeMaxLength {
		length = discountCodeMaxLength
	}
	normalizedPrefix := strings.ToUpper(strings.TrimSpace(prefix))

	for attempt := 0; attempt < discountCodeMaxAttempts; attempt++ {
		suffix, err := randomCode(length)
		if err != nil {
			return "", err
		}
		code := normalizedPrefix + suffix
		existing, err := s.discountRepo.GetByCode(code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", ErrDiscountCodeGenerate
}

// ReasonForDiscountError 将折扣校验错误映射为机器可读原因
func ReasonForDiscountError(err error) string {
	switch err {
	case ErrDiscountNotFound, ErrDiscountInvalid:
		return constants.DiscountReasonNotFound
	case ErrDiscountInactive:
		return constants.DiscountReasonInactive
	case ErrDiscountNotStarted:
		return constants.DiscountReasonNotStarted
	case ErrDiscountExpired:
		return constants.DiscountReasonExpired
	case ErrDiscountBelowMinimum:
		return constants.DiscountReasonBelowMinimum
	case ErrDiscountNotApplicable:
		return constants.DiscountReasonNotApplicable
	case ErrDiscountExhausted:
		return constants.DiscountReasonUsageExhausted
	default:
		return ""
	}
}

func randomCode(length int) (string, error) {
	charset := constants.DiscountCodeCharset
	var b strings.Builder
	b.Grow(length)
	max := big.NewInt(int64(len(charset)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate random code: %w", err)
		}
		b.WriteByte(charset[n.Int64()])
	}
	return b.String(), nil
}
