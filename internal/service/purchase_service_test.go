package service

import (
	"errors"
	"testing"

	"github.com/niaga-next/internal/constants"
	"github.com/niaga-next/internal/models"
	"github.com/niaga-next/internal/repository"

	"gorm.io/gorm"
)

type purchaseTestEnv struct {
	db  *gorm.DB
	svc *PurchaseService
}

func setupPurchaseService(t *testing.T) *purchaseTestEnv {
	t.Helper()
	db := setupTestDB(t)
	discountRepo := repository.NewDiscountRepository(db)
	svc := NewPurchaseService(
		repository.NewStorePurchaseRepository(db),
		repository.NewStoreItemRepository(db),
		discountRepo,
		repository.NewDiscountUsageRepository(db),
		NewDiscountService(discountRepo),
		nil,
	)
	return &purchaseTestEnv{db: db, svc: svc}
}

func (e *purchaseTestEnv) seedItem(t *testing.T, slug string, price float64, stock int) *models.StoreItem {
	t.Helper()
	item := &models.StoreItem{Slug: slug, Name: slug, Price: models.NewMoneyFromFloat(price), Stock: stock, IsActive: true}
	if err := e.db.Create(item).Error; err != nil {
		t.Fatalf("seed item failed: %v", err)
	}
	return item
}

func (e *purchaseTestEnv) itemStock(t *testing.T, id uint) int {
	t.Helper()
	var item models.StoreItem
	if err := e.db.First(&item, id).Error; err != nil {
		t.Fatalf("reload item failed: %v", err)
	}
	return item.Stock
}

func TestPurchaseCreateDecrementsStock(t *testing.T) {
	env := setupPurchaseService(t)
	item := env.seedItem(t, "resume-template", 25000, 10)

	purchase, err := env.svc.Create(CreateStorePurchaseInput{
		CustomerName:  "Budi",
		CustomerEmail: "budi@example.com",
		StoreItemID:   item.ID,
		Quantity:      3,
	})
	if err != nil {
		t.Fatalf("create purchase failed: %v", err)
	}
	if !purchase.OriginalAmount.Decimal.Equal(models.NewMoneyFromFloat(75000).Decimal) {
		t.Fatalf("subtotal want 75000 got %s", purchase.OriginalAmount.String())
	}
	if got := env.itemStock(t, item.ID); got != 7 {
		t.Fatalf("stock want 7 got %d", got)
	}
}

func TestPurchaseCreateInsufficientStockRollsBack(t *testing.T) {
	env := setupPurchaseService(t)
	item := env.seedItem(t, "invoice-template", 15000, 2)

	_, err := env.svc.Create(CreateStorePurchaseInput{
		CustomerName:  "Budi",
		CustomerEmail: "budi@example.com",
		StoreItemID:   item.ID,
		Quantity:      3,
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock got %v", err)
	}

	if got := env.itemStock(t, item.ID); got != 2 {
		t.Fatalf("stock should be untouched, got %d", got)
	}
	var purchases int64
	if err := env.db.Model(&models.StorePurchase{}).Count(&purchases).Error; err != nil {
		t.Fatalf("count purchases failed: %v", err)
	}
	if purchases != 0 {
		t.Fatalf("no purchase should be created, got %d", purchases)
	}
}

func TestPurchaseCreateUnlimitedStock(t *testing.T) {
	env := setupPurchaseService(t)
	item := env.seedItem(t, "icon-pack", 5000, constants.StoreStockUnlimited)

	if _, err := env.svc.Create(CreateStorePurchaseInput{
		CustomerName:  "Budi",
		CustomerEmail: "budi@example.com",
		StoreItemID:   item.ID,
		Quantity:      99,
	}); err != nil {
		t.Fatalf("create purchase failed: %v", err)
	}
	if got := env.itemStock(t, item.ID); got != constants.StoreStockUnlimited {
		t.Fatalf("unlimited stock should stay -1, got %d", got)
	}
}

func TestPurchaseCreateQuantityValidation(t *testing.T) {
	env := setupPurchaseService(t)
	item := env.seedItem(t, "icon-pack", 5000, 10)

	for _, quantity := range []int{0, -1, 100} {
		_, err := env.svc.Create(CreateStorePurchaseInput{
			CustomerName:  "Budi",
			CustomerEmail: "budi@example.com",
			StoreItemID:   item.ID,
			Quantity:      quantity,
		})
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("quantity %d want ErrInvalidQuantity got %v", quantity, err)
		}
	}
}

func TestPurchaseCreateInactiveItem(t *testing.T) {
	env := setupPurchaseService(t)
	item := env.seedItem(t, "retired", 5000, 10)
	if err := env.db.Model(item).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate item failed: %v", err)
	}

	_, err := env.svc.Create(CreateStorePurchaseInput{
		CustomerName:  "Budi",
		CustomerEmail: "budi@example.com",
		StoreItemID:   item.ID,
		Quantity:      1,
	})
	if !errors.Is(err, ErrStoreItemNotFound) {
		t.Fatalf("inactive item want ErrStoreItemNotFound got %v", err)
	}
}

func TestPurchaseDeleteRestoresStockAndDiscount(t *testing.T) {
	env := setupPurchaseService(t)
	item := env.seedItem(t, "resume-template", 25000, 5)
	if err := env.db.Create(&models.Discount{
		Code:       "STORE5K",
		Kind:       constants.DiscountKindCode,
		ValueType:  constants.DiscountValueFixed,
		Value:      models.NewMoneyFromFloat(5000),
		AppliesTo:  constants.DiscountAppliesStore,
		UsageLimit: 1,
		IsActive:   true,
	}).Error; err != nil {
		t.Fatalf("seed discount failed: %v", err)
	}

	purchase, err := env.svc.Create(CreateStorePurchaseInput{
		CustomerName:  "Budi",
		CustomerEmail: "budi@example.com",
		StoreItemID:   item.ID,
		Quantity:      2,
		DiscountCode:  "STORE5K",
	})
	if err != nil {
		t.Fatalf("create purchase failed: %v", err)
	}
	if !purchase.TotalAmount.Decimal.Equal(models.NewMoneyFromFloat(45000).Decimal) {
		t.Fatalf("total want 45000 got %s", purchase.TotalAmount.String())
	}
	if got := env.itemStock(t, item.ID); got != 3 {
		t.Fatalf("stock want 3 got %d", got)
	}

	if err := env.svc.Delete(purchase.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if got := env.itemStock(t, item.ID); got != 5 {
		t.Fatalf("stock should be restored, got %d", got)
	}
	var discount models.Discount
	if err := env.db.Where("code = ?", "STORE5K").First(&discount).Error; err != nil {
		t.Fatalf("reload discount failed: %v", err)
	}
	if discount.UsageCount != 0 {
		t.Fatalf("usage_count should be restored, got %d", discount.UsageCount)
	}
}

func TestPurchaseDeleteVerifiedKeepsStockConsumed(t *testing.T) {
	env := setupPurchaseService(t)
	item := env.seedItem(t, "icon-pack", 5000, 10)

	purchase, err := env.svc.Create(CreateStorePurchaseInput{
		CustomerName:  "Budi",
		CustomerEmail: "budi@example.com",
		StoreItemID:   item.ID,
		Quantity:      1,
	})
	if err != nil {
		t.Fatalf("create purchase failed: %v", err)
	}
	if _, err := env.svc.UpdatePaymentStatus(purchase.ID, constants.PaymentStatusVerified, "admin"); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	// 删除不设限，已通过订单的库存扣减保留
	if err := env.svc.Delete(purchase.ID); err != nil {
		t.Fatalf("delete verified purchase failed: %v", err)
	}
	if _, err := env.svc.Get(purchase.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("purchase should be gone, got %v", err)
	}
	if got := env.itemStock(t, item.ID); got != 9 {
		t.Fatalf("verified stock must stay consumed, got %d", got)
	}
}

func TestPurchaseBulkDeleteMixedStatuses(t *testing.T) {
	env := setupPurchaseService(t)
	item := env.seedItem(t, "resume-template", 25000, 10)

	create := func() *models.StorePurchase {
		purchase, err := env.svc.Create(CreateStorePurchaseInput{
			CustomerName:  "Budi",
			CustomerEmail: "budi@example.com",
			StoreItemID:   item.ID,
			Quantity:      2,
		})
		if err != nil {
			t.Fatalf("create purchase failed: %v", err)
		}
		return purchase
	}
	pending := create()
	verified := create()
	if _, err := env.svc.UpdatePaymentStatus(verified.ID, constants.PaymentStatusVerified, "admin"); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if err := env.svc.BulkDelete([]uint{pending.ID, verified.ID}); err != nil {
		t.Fatalf("bulk delete failed: %v", err)
	}

	var purchases int64
	if err := env.db.Model(&models.StorePurchase{}).Count(&purchases).Error; err != nil {
		t.Fatalf("count purchases failed: %v", err)
	}
	if purchases != 0 {
		t.Fatalf("all purchases should be deleted, %d remain", purchases)
	}
	// 仅未通过订单回补库存：10 - 2 - 2 + 2
	if got := env.itemStock(t, item.ID); got != 8 {
		t.Fatalf("stock want 8 got %d", got)
	}
}

func TestPurchaseBulkDeleteUnknownIDRollsBack(t *testing.T) {
	env := setupPurchaseService(t)
	item := env.seedItem(t, "icon-pack", 5000, 10)

	purchase, err := env.svc.Create(CreateStorePurchaseInput{
		CustomerName:  "Budi",
		CustomerEmail: "budi@example.com",
		StoreItemID:   item.ID,
		Quantity:      2,
	})
	if err != nil {
		t.Fatalf("create purchase failed: %v", err)
	}

	if err := env.svc.BulkDelete([]uint{purchase.ID, 9999}); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("unknown id want ErrOrderNotFound got %v", err)
	}
	if _, err := env.svc.Get(purchase.ID); err != nil {
		t.Fatalf("purchase must survive rolled-back bulk delete: %v", err)
	}
	if got := env.itemStock(t, item.ID); got != 8 {
		t.Fatalf("stock must be untouched after rollback, got %d", got)
	}
}

func TestPurchaseQuoteAppliesAutoDiscount(t *testing.T) {
	env := setupPurchaseService(t)
	item := env.seedItem(t, "icon-pack", 5000, constants.StoreStockUnlimited)
	if err := env.db.Create(&models.Discount{
		Code:      "LAUNCH",
		Kind:      constants.DiscountKindAuto,
		ValueType: constants.DiscountValueFixed,
		Value:     models.NewMoneyFromFloat(5000),
		AppliesTo: constants.DiscountAppliesStore,
		IsActive:  true,
	}).Error; err != nil {
		t.Fatalf("seed discount failed: %v", err)
	}

	quote, err := env.svc.Quote(item.ID, 4, "")
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if !quote.Eligible || quote.Discount == nil || quote.Discount.Code != "LAUNCH" {
		t.Fatalf("auto discount should apply, got %+v", quote)
	}
	if !quote.FinalAmount.Decimal.Equal(models.NewMoneyFromFloat(15000).Decimal) {
		t.Fatalf("final want 15000 got %s", quote.FinalAmount.String())
	}
}
