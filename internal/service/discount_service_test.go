package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/niaga-next/internal/constants"
	"github.com/niaga-next/internal/models"
	"github.com/niaga-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Service{},
		&models.ServicePackage{},
		&models.StoreItem{},
		&models.Discount{},
		&models.DiscountUsage{},
		&models.ServiceOrder{},
		&models.StorePurchase{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	prev := models.DB
	models.DB = db
	t.Cleanup(func() { models.DB = prev })
	return db
}

func setupDiscountService(t *testing.T) (*DiscountService, repository.DiscountRepository) {
	t.Helper()
	db := setupTestDB(t)
	repo := repository.NewDiscountRepository(db)
	return NewDiscountService(repo), repo
}

func mustCreateDiscount(t *testing.T, repo repository.DiscountRepository, discount *models.Discount) *models.Discount {
	t.Helper()
	if err := repo.Create(discount); err != nil {
		t.Fatalf("create discount failed: %v", err)
	}
	return discount
}

func serviceTarget(serviceID uint) DiscountTarget {
	return DiscountTarget{OrderKind: constants.OrderKindService, ServiceID: serviceID}
}

func TestEvaluateCodePercentageWithCap(t *testing.T) {
	svc, repo := setupDiscountService(t)
	mustCreateDiscount(t, repo, &models.Discount{
		Code:        "NAIA2024",
		Kind:        constants.DiscountKindCode,
		ValueType:   constants.DiscountValuePercentage,
		Value:       models.NewMoneyFromFloat(10),
		AppliesTo:   constants.DiscountAppliesAll,
		MaxDiscount: models.NewMoneyFromFloat(15000),
		IsActive:    true,
	})

	amount, discount, err := svc.EvaluateCode("naia2024", models.NewMoneyFromFloat(200000), serviceTarget(1), time.Now())
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if discount == nil || discount.Code != "NAIA2024" {
		t.Fatalf("code lookup should be case-insensitive, got %+v", discount)
	}
	// 10% of 200000 is 20000, capped to 15000
	if !amount.Decimal.Equal(models.NewMoneyFromFloat(15000).Decimal) {
		t.Fatalf("amount want 15000 got %s", amount.String())
	}
}

func TestEvaluateCodeFixedCappedAtSubtotal(t *testing.T) {
	svc, repo := setupDiscountService(t)
	mustCreateDiscount(t, repo, &models.Discount{
		Code:      "BIGFIX",
		Kind:      constants.DiscountKindCode,
		ValueType: constants.DiscountValueFixed,
		Value:     models.NewMoneyFromFloat(100000),
		AppliesTo: constants.DiscountAppliesAll,
		IsActive:  true,
	})

	amount, _, err := svc.EvaluateCode("BIGFIX", models.NewMoneyFromFloat(80000), serviceTarget(1), time.Now())
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if !amount.Decimal.Equal(models.NewMoneyFromFloat(80000).Decimal) {
		t.Fatalf("fixed amount should cap at subtotal, want 80000 got %s", amount.String())
	}
}

func TestEvaluateCodeWindowBoundariesInclusive(t *testing.T) {
	svc, repo := setupDiscountService(t)
	starts := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ends := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)
	mustCreateDiscount(t, repo, &models.Discount{
		Code:      "JUNE",
		Kind:      constants.DiscountKindCode,
		ValueType: constants.DiscountValueFixed,
		Value:     models.NewMoneyFromFloat(1000),
		AppliesTo: constants.DiscountAppliesAll,
		StartsAt:  &starts,
		EndsAt:    &ends,
		IsActive:  true,
	})

	subtotal := models.NewMoneyFromFloat(50000)
	if _, _, err := svc.EvaluateCode("JUNE", subtotal, serviceTarget(1), starts); err != nil {
		t.Fatalf("starts_at boundary should be usable, got %v", err)
	}
	if _, _, err := svc.EvaluateCode("JUNE", subtotal, serviceTarget(1), ends); err != nil {
		t.Fatalf("ends_at boundary should be usable, got %v", err)
	}
	if _, _, err := svc.EvaluateCode("JUNE", subtotal, serviceTarget(1), starts.Add(-time.Second)); !errors.Is(err, ErrDiscountNotStarted) {
		t.Fatalf("before starts_at want ErrDiscountNotStarted got %v", err)
	}
	if _, _, err := svc.EvaluateCode("JUNE", subtotal, serviceTarget(1), ends.Add(time.Second)); !errors.Is(err, ErrDiscountExpired) {
		t.Fatalf("after ends_at want ErrDiscountExpired got %v", err)
	}
}

func TestEvaluateCodeEligibilityErrors(t *testing.T) {
	svc, repo := setupDiscountService(t)
	mustCreateDiscount(t, repo, &models.Discount{
		Code:        "MIN100",
		Kind:        constants.DiscountKindCode,
		ValueType:   constants.DiscountValueFixed,
		Value:       models.NewMoneyFromFloat(5000),
		AppliesTo:   constants.DiscountAppliesAll,
		MinOrderAmt: models.NewMoneyFromFloat(100000),
		IsActive:    true,
	})
	mustCreateDiscount(t, repo, &models.Discount{
		Code:      "STOREONLY",
		Kind:      constants.DiscountKindCode,
		ValueType: constants.DiscountValueFixed,
		Value:     models.NewMoneyFromFloat(5000),
		AppliesTo: constants.DiscountAppliesStore,
		IsActive:  true,
	})
	mustCreateDiscount(t, repo, &models.Discount{
		Code:       "USEDUP",
		Kind:       constants.DiscountKindCode,
		ValueType:  constants.DiscountValueFixed,
		Value:      models.NewMoneyFromFloat(5000),
		AppliesTo:  constants.DiscountAppliesAll,
		UsageLimit: 2,
		UsageCount: 2,
		IsActive:   true,
	})

	now := time.Now()
	if _, _, err := svc.EvaluateCode("NOPE", models.NewMoneyFromFloat(50000), serviceTarget(1), now); !errors.Is(err, ErrDiscountNotFound) {
		t.Fatalf("unknown code want ErrDiscountNotFound got %v", err)
	}
	if _, _, err := svc.EvaluateCode("MIN100", models.NewMoneyFromFloat(99999), serviceTarget(1), now); !errors.Is(err, ErrDiscountBelowMinimum) {
		t.Fatalf("below minimum want ErrDiscountBelowMinimum got %v", err)
	}
	if _, _, err := svc.EvaluateCode("STOREONLY", models.NewMoneyFromFloat(50000), serviceTarget(1), now); !errors.Is(err, ErrDiscountNotApplicable) {
		t.Fatalf("store-only code on service order want ErrDiscountNotApplicable got %v", err)
	}
	if _, _, err := svc.EvaluateCode("USEDUP", models.NewMoneyFromFloat(50000), serviceTarget(1), now); !errors.Is(err, ErrDiscountExhausted) {
		t.Fatalf("exhausted code want ErrDiscountExhausted got %v", err)
	}
}

func TestEvaluateCodeRejectsAutoKind(t *testing.T) {
	svc, repo := setupDiscountService(t)
	mustCreateDiscount(t, repo, &models.Discount{
		Code:      "AUTOONLY",
		Kind:      constants.DiscountKindAuto,
		ValueType: constants.DiscountValueFixed,
		Value:     models.NewMoneyFromFloat(5000),
		AppliesTo: constants.DiscountAppliesAll,
		IsActive:  true,
	})

	if _, _, err := svc.EvaluateCode("AUTOONLY", models.NewMoneyFromFloat(50000), serviceTarget(1), time.Now()); !errors.Is(err, ErrDiscountNotFound) {
		t.Fatalf("auto discount should not resolve by code, got %v", err)
	}
}

func TestEvaluateCodeServiceScope(t *testing.T) {
	svc, repo := setupDiscountService(t)
	mustCreateDiscount(t, repo, &models.Discount{
		Code:       "SVC7",
		Kind:       constants.DiscountKindCode,
		ValueType:  constants.DiscountValueFixed,
		Value:      models.NewMoneyFromFloat(5000),
		AppliesTo:  constants.DiscountAppliesServices,
		ServiceIDs: models.UintArray{7, 8},
		IsActive:   true,
	})

	now := time.Now()
	if _, _, err := svc.EvaluateCode("SVC7", models.NewMoneyFromFloat(50000), serviceTarget(7), now); err != nil {
		t.Fatalf("listed service should be eligible, got %v", err)
	}
	if _, _, err := svc.EvaluateCode("SVC7", models.NewMoneyFromFloat(50000), serviceTarget(9), now); !errors.Is(err, ErrDiscountNotApplicable) {
		t.Fatalf("unlisted service want ErrDiscountNotApplicable got %v", err)
	}
}

func TestBestAutoPicksLargestAmount(t *testing.T) {
	svc, repo := setupDiscountService(t)
	mustCreateDiscount(t, repo, &models.Discount{
		Code:      "AUTO-SMALL",
		Kind:      constants.DiscountKindAuto,
		ValueType: constants.DiscountValueFixed,
		Value:     models.NewMoneyFromFloat(2000),
		AppliesTo: constants.DiscountAppliesAll,
		IsActive:  true,
	})
	big := mustCreateDiscount(t, repo, &models.Discount{
		Code:      "AUTO-BIG",
		Kind:      constants.DiscountKindAuto,
		ValueType: constants.DiscountValueFixed,
		Value:     models.NewMoneyFromFloat(8000),
		AppliesTo: constants.DiscountAppliesAll,
		IsActive:  true,
	})

	best, amount, err := svc.BestAuto(models.NewMoneyFromFloat(50000), serviceTarget(1), time.Now())
	if err != nil {
		t.Fatalf("best auto failed: %v", err)
	}
	if best == nil || best.ID != big.ID {
		t.Fatalf("want discount %d got %+v", big.ID, best)
	}
	if !amount.Decimal.Equal(models.NewMoneyFromFloat(8000).Decimal) {
		t.Fatalf("amount want 8000 got %s", amount.String())
	}
}

func TestBestAutoTieKeepsLowerID(t *testing.T) {
	svc, repo := setupDiscountService(t)
	first := mustCreateDiscount(t, repo, &models.Discount{
		Code:      "AUTO-A",
		Kind:      constants.DiscountKindAuto,
		ValueType: constants.DiscountValueFixed,
		Value:     models.NewMoneyFromFloat(5000),
		AppliesTo: constants.DiscountAppliesAll,
		IsActive:  true,
	})
	mustCreateDiscount(t, repo, &models.Discount{
		Code:      "AUTO-B",
		Kind:      constants.DiscountKindAuto,
		ValueType: constants.DiscountValueFixed,
		Value:     models.NewMoneyFromFloat(5000),
		AppliesTo: constants.DiscountAppliesAll,
		IsActive:  true,
	})

	best, _, err := svc.BestAuto(models.NewMoneyFromFloat(50000), serviceTarget(1), time.Now())
	if err != nil {
		t.Fatalf("best auto failed: %v", err)
	}
	if best == nil || best.ID != first.ID {
		t.Fatalf("tie should keep lower id %d, got %+v", first.ID, best)
	}
}

func TestBestAutoNoCandidates(t *testing.T) {
	svc, _ := setupDiscountService(t)
	best, amount, err := svc.BestAuto(models.NewMoneyFromFloat(50000), serviceTarget(1), time.Now())
	if err != nil {
		t.Fatalf("best auto failed: %v", err)
	}
	if best != nil {
		t.Fatalf("expected no discount, got %+v", best)
	}
	if !amount.Decimal.IsZero() {
		t.Fatalf("amount want 0 got %s", amount.String())
	}
}

func TestQuoteReturnsReasonInsteadOfError(t *testing.T) {
	svc, repo := setupDiscountService(t)
	starts := time.Now().Add(24 * time.Hour)
	mustCreateDiscount(t, repo, &models.Discount{
		Code:      "SOON",
		Kind:      constants.DiscountKindCode,
		ValueType: constants.DiscountValueFixed,
		Value:     models.NewMoneyFromFloat(5000),
		AppliesTo: constants.DiscountAppliesAll,
		StartsAt:  &starts,
		IsActive:  true,
	})

	subtotal := models.NewMoneyFromFloat(50000)
	quote, err := svc.Quote("SOON", subtotal, serviceTarget(1), time.Now())
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if quote.Eligible {
		t.Fatalf("quote should be ineligible")
	}
	if quote.Reason != constants.DiscountReasonNotStarted {
		t.Fatalf("reason want %s got %s", constants.DiscountReasonNotStarted, quote.Reason)
	}
	if !quote.FinalAmount.Decimal.Equal(subtotal.Decimal) {
		t.Fatalf("final amount should stay at subtotal, got %s", quote.FinalAmount.String())
	}
}

func TestGenerateCode(t *testing.T) {
	svc, repo := setupDiscountService(t)

	code, err := svc.GenerateCode("promo-", 0)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.HasPrefix(code, "PROMO-") {
		t.Fatalf("prefix should be upper-cased, got %s", code)
	}
	suffix := strings.TrimPrefix(code, "PROMO-")
	if len(suffix) != 8 {
		t.Fatalf("default suffix length want 8 got %d", len(suffix))
	}
	for _, r := range suffix {
		if !strings.ContainsRune(constants.DiscountCodeCharset, r) {
			t.Fatalf("suffix char %q outside charset", r)
		}
	}

	// 生成的码立刻可用
	mustCreateDiscount(t, repo, &models.Discount{
		Code:      code,
		Kind:      constants.DiscountKindCode,
		ValueType: constants.DiscountValueFixed,
		Value:     models.NewMoneyFromFloat(1000),
		AppliesTo: constants.DiscountAppliesAll,
		IsActive:  true,
	})
	next, err := svc.GenerateCode("PROMO-", 8)
	if err != nil {
		t.Fatalf("second generate failed: %v", err)
	}
	if next == code {
		t.Fatalf("generated code should not collide with existing one")
	}
}
