package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/niaga-next/internal/constants"
	"github.com/niaga-next/internal/models"
	"github.com/niaga-next/internal/repository"
)

func setupDiscountAdminService(t *testing.T) *DiscountAdminService {
	t.Helper()
	db := setupTestDB(t)
	return NewDiscountAdminService(repository.NewDiscountRepository(db), repository.NewDiscountUsageRepository(db))
}

func TestDiscountAdminCreateAutoWithoutCode(t *testing.T) {
	svc := setupDiscountAdminService(t)

	discount, err := svc.Create(DiscountInput{
		Kind:      constants.DiscountKindAuto,
		ValueType: constants.DiscountValueFixed,
		Value:     models.NewMoneyFromFloat(5000),
	})
	if err != nil {
		t.Fatalf("create auto discount failed: %v", err)
	}
	if discount.Kind != constants.DiscountKindAuto {
		t.Fatalf("kind want auto got %s", discount.Kind)
	}
	// 缺省码由内部生成
	if !strings.HasPrefix(discount.Code, "AUTO-") {
		t.Fatalf("generated code want AUTO- prefix, got %s", discount.Code)
	}
	for _, r := range strings.TrimPrefix(discount.Code, "AUTO-") {
		if !strings.ContainsRune(constants.DiscountCodeCharset, r) {
			t.Fatalf("generated code char %q outside charset", r)
		}
	}
}

func TestDiscountAdminCreateCodeKindRequiresCode(t *testing.T) {
	svc := setupDiscountAdminService(t)

	_, err := svc.Create(DiscountInput{
		Kind:      constants.DiscountKindCode,
		ValueType: constants.DiscountValueFixed,
		Value:     models.NewMoneyFromFloat(5000),
	})
	if !errors.Is(err, ErrDiscountInvalid) {
		t.Fatalf("code kind without code want ErrDiscountInvalid got %v", err)
	}
}

func TestDiscountAdminUpdateAutoKeepsCodeWhenBlank(t *testing.T) {
	svc := setupDiscountAdminService(t)

	discount, err := svc.Create(DiscountInput{
		Kind:      constants.DiscountKindAuto,
		ValueType: constants.DiscountValueFixed,
		Value:     models.NewMoneyFromFloat(5000),
	})
	if err != nil {
		t.Fatalf("create auto discount failed: %v", err)
	}

	updated, err := svc.Update(discount.ID, DiscountInput{
		Kind:      constants.DiscountKindAuto,
		ValueType: constants.DiscountValueFixed,
		Value:     models.NewMoneyFromFloat(8000),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Code != discount.Code {
		t.Fatalf("blank code on update must keep %s, got %s", discount.Code, updated.Code)
	}
	if !updated.Value.Decimal.Equal(models.NewMoneyFromFloat(8000).Decimal) {
		t.Fatalf("value want 8000 got %s", updated.Value.String())
	}
}
