package service

import (
	"strings"
	"time"

	"github.com/niaga-next/internal/constants"
	"github.com/niaga-next/internal/models"
	"github.com/niaga-next/internal/repository"

	"github.com/shopspring/decimal"
)

// DiscountAdminService 折扣管理服务
type DiscountAdminService struct {
	repo      repository.DiscountRepository
	usageRepo repository.DiscountUsageRepository
}

// NewDiscountAdminService 创建折扣管理服务
func NewDiscountAdminService(repo repository.DiscountRepository, usageRepo repository.DiscountUsageRepository) *DiscountAdminService {
	return &DiscountAdminService{repo: repo, usageRepo: usageRepo}
}

// DiscountInput 创建/更新折扣输入
type DiscountInput struct {
	Code        string
	Kind        string
	ValueType   string
	Value       models.Money
	AppliesTo   string
	ServiceIDs  []uint
	MinOrderAmt models.Money
	MaxDiscount models.Money
	UsageLimit  int
	StartsAt    *time.Time
	EndsAt      *time.Time
	IsActive    *bool
}

// Create 创建折扣
func (s *DiscountAdminService) Create(input DiscountInput) (*models.Discount, error) {
	normalized, err := s.normalizeInput(input)
	if err != nil {
		return nil, err
	}

	if normalized.Code == "" {
		normalized.Code, err = s.generateAutoCode()
		if err != nil {
			return nil, err
		}
	} else {
		exist, err := s.repo.GetByCode(normalized.Code)
		if err != nil {
			return nil, err
		}
		if exist != nil {
			return nil, ErrDiscountCodeTaken
		}
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	discount := &models.Discount{
		Code:        normalized.Code,
		Kind:        normalized.Kind,
		ValueType:   normalized.ValueType,
		Value:       input.Value,
		AppliesTo:   normalized.AppliesTo,
		ServiceIDs:  models.UintArray(input.ServiceIDs),
		MinOrderAmt: input.MinOrderAmt,
		MaxDiscount: input.MaxDiscount,
		UsageLimit:  input.UsageLimit,
		UsageCount:  0,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		IsActive:    isActive,
	}

	if err := s.repo.Create(discount); err != nil {
		return nil, err
	}
	return discount, nil
}

// Update 更新折扣，已使用次数不可修改
func (s *DiscountAdminService) Update(id uint, input DiscountInput) (*models.Discount, error) {
	if id == 0 {
		return nil, ErrDiscountInvalid
	}
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrDiscountNotFound
	}

	normalized, err := s.normalizeInput(input)
	if err != nil {
		return nil, err
	}

	// 自动折扣更新时码留空表示沿用原码
	if normalized.Code == "" {
		normalized.Code = existing.Code
	}
	if normalized.Code != existing.Code {
		conflict, err := s.repo.GetByCode(normalized.Code)
		if err != nil {
			return nil, err
		}
		if conflict != nil && conflict.ID != id {
			return nil, ErrDiscountCodeTaken
		}
	}

	existing.Code = normalized.Code
	existing.Kind = normalized.Kind
	existing.ValueType = normalized.ValueType
	existing.Value = input.Value
	existing.AppliesTo = normalized.AppliesTo
	existing.ServiceIDs = models.UintArray(input.ServiceIDs)
	existing.MinOrderAmt = input.MinOrderAmt
	existing.MaxDiscount = input.MaxDiscount
	existing.UsageLimit = input.UsageLimit
	existing.StartsAt = input.StartsAt
	existing.EndsAt = input.EndsAt
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}

	if err := s.repo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// SetActive 启用/停用折扣
func (s *DiscountAdminService) SetActive(id uint, active bool) (*models.Discount, error) {
	discount, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if discount == nil {
		return nil, ErrDiscountNotFound
	}
	discount.IsActive = active
	if err := s.repo.Update(discount); err != nil {
		return nil, err
	}
	return discount, nil
}

// Get 获取折扣
func (s *DiscountAdminService) Get(id uint) (*models.Discount, error) {
	discount, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if discount == nil {
		return nil, ErrDiscountNotFound
	}
	return discount, nil
}

// List 获取折扣列表
func (s *DiscountAdminService) List(filter repository.DiscountListFilter) ([]models.Discount, int64, error) {
	return s.repo.List(filter)
}

// ListUsages 获取折扣使用记录列表
func (s *DiscountAdminService) ListUsages(filter repository.DiscountUsageListFilter) ([]models.DiscountUsage, int64, error) {
	return s.usageRepo.List(filter)
}

// Delete 删除折扣，历史订单上的快照不受影响
func (s *DiscountAdminService) Delete(id uint) error {
	discount, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if discount == nil {
		return ErrDiscountNotFound
	}
	return s.repo.Delete(id)
}

// generateAutoCode 为自动折扣生成内部占位码
func (s *DiscountAdminService) generateAutoCode() (string, error) {
	for attempt := 0; attempt < discountCodeMaxAttempts; attempt++ {
		suffix, err := randomCode(discountCodeDefaultLength)
		if err != nil {
			return "", err
		}
		code := "AUTO-" + suffix
		existing, err := s.repo.GetByCode(code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", ErrDiscountCodeGenerate
}

type normalizedDiscountInput struct {
	Code      string
	Kind      string
	ValueType string
	AppliesTo string
}

func (s *DiscountAdminService) normalizeInput(input DiscountInput) (normalizedDiscountInput, error) {
	var out normalizedDiscountInput

	out.Kind = strings.ToLower(strings.TrimSpace(input.Kind))
	if out.Kind != constants.DiscountKindCode && out.Kind != constants.DiscountKindAuto {
		return out, ErrDiscountInvalid
	}

	// 折扣码仅 kind=code 时必填，自动折扣缺省时内部生成
	out.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	if out.Code == "" && out.Kind == constants.DiscountKindCode {
		return out, ErrDiscountInvalid
	}

	out.ValueType = strings.ToLower(strings.TrimSpace(input.ValueType))
	switch out.ValueType {
	case constants.DiscountValuePercentage:
		if input.Value.Decimal.LessThanOrEqual(decimal.Zero) || input.Value.Decimal.GreaterThan(decimal.NewFromInt(100)) {
			return out, ErrDiscountInvalid
		}
	case constants.DiscountValueFixed:
		if input.Value.Decimal.LessThanOrEqual(decimal.Zero) {
			return out, ErrDiscountInvalid
		}
	default:
		return out, ErrDiscountInvalid
	}

	out.AppliesTo = strings.ToLower(strings.TrimSpace(input.AppliesTo))
	if out.AppliesTo == "" {
		out.AppliesTo = constants.DiscountAppliesAll
	}
	switch out.AppliesTo {
	case constants.DiscountAppliesAll, constants.DiscountAppliesStore:
	case constants.DiscountAppliesServices:
	default:
		return out, ErrDiscountInvalid
	}

	if input.MinOrderAmt.Decimal.LessThan(decimal.Zero) || input.MaxDiscount.Decimal.LessThan(decimal.Zero) {
		return out, ErrDiscountInvalid
	}
	if input.UsageLimit < 0 {
		return out, ErrDiscountInvalid
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		return out, ErrDiscountInvalid
	}
	return out, nil
}
