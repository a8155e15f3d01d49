package service

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/niaga-next/internal/constants"
	"github.com/niaga-next/internal/models"
	"github.com/niaga-next/internal/repository"

	"gorm.io/gorm"
)

type orderTestEnv struct {
	db      *gorm.DB
	svc     *OrderService
	service *models.Service
	pkg     *models.ServicePackage
}

func setupOrderService(t *testing.T) *orderTestEnv {
	t.Helper()
	db := setupTestDB(t)

	category := &models.Category{Slug: "web", Name: "Web"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("seed category failed: %v", err)
	}
	service := &models.Service{CategoryID: category.ID, Slug: "landing-page", Name: "Landing Page", IsActive: true}
	if err := db.Create(service).Error; err != nil {
		t.Fatalf("seed service failed: %v", err)
	}
	pkg := &models.ServicePackage{ServiceID: service.ID, Name: "Premium", Price: models.NewMoneyFromFloat(1500000), IsActive: true}
	if err := db.Create(pkg).Error; err != nil {
		t.Fatalf("seed package failed: %v", err)
	}

	discountRepo := repository.NewDiscountRepository(db)
	svc := NewOrderService(
		repository.NewServiceOrderRepository(db),
		repository.NewServiceRepository(db),
		discountRepo,
		repository.NewDiscountUsageRepository(db),
		NewDiscountService(discountRepo),
		nil,
	)
	return &orderTestEnv{db: db, svc: svc, service: service, pkg: pkg}
}

func (e *orderTestEnv) createPendingOrder(t *testing.T, code string) *models.ServiceOrder {
	t.Helper()
	order, err := e.svc.Create(CreateServiceOrderInput{
		CustomerName:  "Budi",
		CustomerEmail: "budi@example.com",
		ServiceID:     e.service.ID,
		PackageID:     e.pkg.ID,
		DiscountCode:  code,
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderCreateAppliesCodeDiscount(t *testing.T) {
	env := setupOrderService(t)
	if err := env.db.Create(&models.Discount{
		Code:        "NAIA2024",
		Kind:        constants.DiscountKindCode,
		ValueType:   constants.DiscountValuePercentage,
		Value:       models.NewMoneyFromFloat(10),
		AppliesTo:   constants.DiscountAppliesAll,
		MaxDiscount: models.NewMoneyFromFloat(100000),
		IsActive:    true,
	}).Error; err != nil {
		t.Fatalf("seed discount failed: %v", err)
	}

	order := env.createPendingOrder(t, "NAIA2024")
	if !strings.HasPrefix(order.InvoiceNo, constants.InvoicePrefixServiceOrder) {
		t.Fatalf("invoice prefix wrong: %s", order.InvoiceNo)
	}
	if order.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("new order should be pending, got %s", order.PaymentStatus)
	}
	// 10% of 1500000 is 150000, capped by max_discount 100000
	if !order.DiscountAmount.Decimal.Equal(models.NewMoneyFromFloat(100000).Decimal) {
		t.Fatalf("discount want 100000 got %s", order.DiscountAmount.String())
	}
	if !order.TotalAmount.Decimal.Equal(models.NewMoneyFromFloat(1400000).Decimal) {
		t.Fatalf("total want 1400000 got %s", order.TotalAmount.String())
	}

	var discount models.Discount
	if err := env.db.Where("code = ?", "NAIA2024").First(&discount).Error; err != nil {
		t.Fatalf("reload discount failed: %v", err)
	}
	if discount.UsageCount != 1 {
		t.Fatalf("usage_count want 1 got %d", discount.UsageCount)
	}
	var usageCount int64
	if err := env.db.Model(&models.DiscountUsage{}).Where("order_kind = ? AND order_id = ?", constants.OrderKindService, order.ID).Count(&usageCount).Error; err != nil {
		t.Fatalf("count usages failed: %v", err)
	}
	if usageCount != 1 {
		t.Fatalf("usage rows want 1 got %d", usageCount)
	}
}

func TestOrderCreateUsageLimitAtomic(t *testing.T) {
	env := setupOrderService(t)
	if err := env.db.Create(&models.Discount{
		Code:       "LIMIT2",
		Kind:       constants.DiscountKindCode,
		ValueType:  constants.DiscountValueFixed,
		Value:      models.NewMoneyFromFloat(50000),
		AppliesTo:  constants.DiscountAppliesAll,
		UsageLimit: 2,
		IsActive:   true,
	}).Error; err != nil {
		t.Fatalf("seed discount failed: %v", err)
	}

	env.createPendingOrder(t, "LIMIT2")
	env.createPendingOrder(t, "LIMIT2")

	_, err := env.svc.Create(CreateServiceOrderInput{
		CustomerName:  "Citra",
		CustomerEmail: "citra@example.com",
		ServiceID:     env.service.ID,
		PackageID:     env.pkg.ID,
		DiscountCode:  "LIMIT2",
	})
	if !errors.Is(err, ErrDiscountExhausted) {
		t.Fatalf("third redemption want ErrDiscountExhausted got %v", err)
	}

	// 超限的请求不产生订单
	var orders int64
	if err := env.db.Model(&models.ServiceOrder{}).Count(&orders).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orders != 2 {
		t.Fatalf("orders want 2 got %d", orders)
	}
}

func TestOrderCreateRejectsInactivePackage(t *testing.T) {
	env := setupOrderService(t)
	inactive := &models.ServicePackage{ServiceID: env.service.ID, Name: "Retired", Price: models.NewMoneyFromFloat(100), IsActive: false}
	if err := env.db.Create(inactive).Error; err != nil {
		t.Fatalf("seed package failed: %v", err)
	}

	_, err := env.svc.Create(CreateServiceOrderInput{
		CustomerName:  "Budi",
		CustomerEmail: "budi@example.com",
		ServiceID:     env.service.ID,
		PackageID:     inactive.ID,
	})
	if !errors.Is(err, ErrPackageNotFound) {
		t.Fatalf("inactive package want ErrPackageNotFound got %v", err)
	}

	if err := env.db.Model(env.service).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate service failed: %v", err)
	}
	_, err = env.svc.Create(CreateServiceOrderInput{
		CustomerName:  "Budi",
		CustomerEmail: "budi@example.com",
		ServiceID:     env.service.ID,
		PackageID:     env.pkg.ID,
	})
	if !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("inactive service want ErrServiceNotFound got %v", err)
	}
}

func TestOrderPaymentStatusTransitions(t *testing.T) {
	env := setupOrderService(t)
	order := env.createPendingOrder(t, "")

	updated, err := env.svc.UpdatePaymentStatus(order.ID, constants.PaymentStatusVerified, "admin")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if updated.PaymentStatus != constants.PaymentStatusVerified {
		t.Fatalf("status want verified got %s", updated.PaymentStatus)
	}
	if updated.VerifiedAt == nil || updated.VerifiedBy != "admin" {
		t.Fatalf("verified_at/verified_by not recorded: %+v", updated)
	}

	// verified 是终态
	if _, err := env.svc.UpdatePaymentStatus(order.ID, constants.PaymentStatusPending, "admin"); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("verified->pending want ErrOrderStatusInvalid got %v", err)
	}
	if _, err := env.svc.UpdatePaymentStatus(order.ID, constants.PaymentStatusRejected, "admin"); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("verified->rejected want ErrOrderStatusInvalid got %v", err)
	}
}

func TestOrderRejectedReopensToPending(t *testing.T) {
	env := setupOrderService(t)
	order := env.createPendingOrder(t, "")

	if _, err := env.svc.UpdatePaymentStatus(order.ID, constants.PaymentStatusRejected, "admin"); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	reopened, err := env.svc.UpdatePaymentStatus(order.ID, constants.PaymentStatusPending, "admin")
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if reopened.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("status want pending got %s", reopened.PaymentStatus)
	}
	if reopened.VerifiedAt != nil || reopened.VerifiedBy != "" {
		t.Fatalf("reopen should clear verified_at/verified_by: %+v", reopened)
	}
}

func TestOrderBulkUpdateAllOrNothing(t *testing.T) {
	env := setupOrderService(t)
	first := env.createPendingOrder(t, "")
	second := env.createPendingOrder(t, "")

	if _, err := env.svc.UpdatePaymentStatus(second.ID, constants.PaymentStatusVerified, "admin"); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	_, err := env.svc.BulkUpdatePaymentStatus([]uint{first.ID, second.ID}, constants.PaymentStatusVerified, "admin")
	if !errors.Is(err, ErrOrderBatchConflict) {
		t.Fatalf("mixed statuses want ErrOrderBatchConflict got %v", err)
	}

	// 失败后 pending 订单保持原状
	reloaded, err := env.svc.Get(first.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("rollback expected, status got %s", reloaded.PaymentStatus)
	}

	affected, err := env.svc.BulkUpdatePaymentStatus([]uint{first.ID, first.ID, 0}, constants.PaymentStatusVerified, "admin")
	if err != nil {
		t.Fatalf("bulk verify failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected want 1 got %d", affected)
	}
}

func TestOrderBulkVerifyPendingSet(t *testing.T) {
	env := setupOrderService(t)
	var ids []uint
	for i := 0; i < 5; i++ {
		ids = append(ids, env.createPendingOrder(t, "").ID)
	}

	affected, err := env.svc.BulkUpdatePaymentStatus(ids, constants.PaymentStatusVerified, "admin")
	if err != nil {
		t.Fatalf("bulk verify failed: %v", err)
	}
	if affected != 5 {
		t.Fatalf("affected want 5 got %d", affected)
	}
	for _, id := range ids {
		order, err := env.svc.Get(id)
		if err != nil {
			t.Fatalf("reload failed: %v", err)
		}
		if order.PaymentStatus != constants.PaymentStatusVerified {
			t.Fatalf("order %d status want verified got %s", id, order.PaymentStatus)
		}
		if order.VerifiedAt == nil || order.VerifiedBy != "admin" {
			t.Fatalf("order %d missing verified_at/verified_by", id)
		}
	}
}

func TestOrderDeleteRestoresDiscountUsage(t *testing.T) {
	env := setupOrderService(t)
	if err := env.db.Create(&models.Discount{
		Code:       "ONCE",
		Kind:       constants.DiscountKindCode,
		ValueType:  constants.DiscountValueFixed,
		Value:      models.NewMoneyFromFloat(50000),
		AppliesTo:  constants.DiscountAppliesAll,
		UsageLimit: 1,
		IsActive:   true,
	}).Error; err != nil {
		t.Fatalf("seed discount failed: %v", err)
	}

	order := env.createPendingOrder(t, "ONCE")
	if err := env.svc.Delete(order.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var discount models.Discount
	if err := env.db.Where("code = ?", "ONCE").First(&discount).Error; err != nil {
		t.Fatalf("reload discount failed: %v", err)
	}
	if discount.UsageCount != 0 {
		t.Fatalf("usage_count should be restored, got %d", discount.UsageCount)
	}
	var usages int64
	if err := env.db.Model(&models.DiscountUsage{}).Where("order_id = ?", order.ID).Count(&usages).Error; err != nil {
		t.Fatalf("count usages failed: %v", err)
	}
	if usages != 0 {
		t.Fatalf("usage rows should be removed, got %d", usages)
	}

	// 释放后可再次核销
	env.createPendingOrder(t, "ONCE")
}

func TestOrderDeleteVerifiedKeepsRedemption(t *testing.T) {
	env := setupOrderService(t)
	if err := env.db.Create(&models.Discount{
		Code:      "KEEP",
		Kind:      constants.DiscountKindCode,
		ValueType: constants.DiscountValueFixed,
		Value:     models.NewMoneyFromFloat(50000),
		AppliesTo: constants.DiscountAppliesAll,
		IsActive:  true,
	}).Error; err != nil {
		t.Fatalf("seed discount failed: %v", err)
	}

	order := env.createPendingOrder(t, "KEEP")
	if _, err := env.svc.UpdatePaymentStatus(order.ID, constants.PaymentStatusVerified, "admin"); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	// 删除不设限，已通过订单的核销保留
	if err := env.svc.Delete(order.ID); err != nil {
		t.Fatalf("delete verified order failed: %v", err)
	}
	if _, err := env.svc.Get(order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("order should be gone, got %v", err)
	}
	var discount models.Discount
	if err := env.db.Where("code = ?", "KEEP").First(&discount).Error; err != nil {
		t.Fatalf("reload discount failed: %v", err)
	}
	if discount.UsageCount != 1 {
		t.Fatalf("verified redemption must stay consumed, usage_count got %d", discount.UsageCount)
	}
}

func TestOrderCreateValidation(t *testing.T) {
	env := setupOrderService(t)
	_, err := env.svc.Create(CreateServiceOrderInput{
		CustomerName:  "  ",
		CustomerEmail: "budi@example.com",
		ServiceID:     env.service.ID,
		PackageID:     env.pkg.ID,
	})
	if !errors.Is(err, ErrOrderValidation) {
		t.Fatalf("blank name want ErrOrderValidation got %v", err)
	}
	_, err = env.svc.Create(CreateServiceOrderInput{
		CustomerName:  "Budi",
		CustomerEmail: "",
		ServiceID:     env.service.ID,
		PackageID:     env.pkg.ID,
	})
	if !errors.Is(err, ErrOrderValidation) {
		t.Fatalf("blank email want ErrOrderValidation got %v", err)
	}
}

func TestOrderCreateConcurrentUsageLimit(t *testing.T) {
	env := setupOrderService(t)
	if err := env.db.Create(&models.Discount{
		Code:       "RACE3",
		Kind:       constants.DiscountKindCode,
		ValueType:  constants.DiscountValueFixed,
		Value:      models.NewMoneyFromFloat(50000),
		AppliesTo:  constants.DiscountAppliesAll,
		UsageLimit: 3,
		IsActive:   true,
	}).Error; err != nil {
		t.Fatalf("seed discount failed: %v", err)
	}

	// 单连接串行化写事务，避免内存库写锁干扰计数
	sqlDB, err := env.db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.Create(CreateServiceOrderInput{
				CustomerName:  "Budi",
				CustomerEmail: "budi@example.com",
				ServiceID:     env.service.ID,
				PackageID:     env.pkg.ID,
				DiscountCode:  "RACE3",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		if !errors.Is(err, ErrDiscountExhausted) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded > 3 {
		t.Fatalf("usage_limit=3 must admit at most 3 redemptions, got %d", succeeded)
	}

	var discount models.Discount
	if err := env.db.Where("code = ?", "RACE3").First(&discount).Error; err != nil {
		t.Fatalf("reload discount failed: %v", err)
	}
	if discount.UsageCount != succeeded {
		t.Fatalf("usage_count %d must equal successful redemptions %d", discount.UsageCount, succeeded)
	}
	var orders int64
	if err := env.db.Model(&models.ServiceOrder{}).Count(&orders).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orders != int64(succeeded) {
		t.Fatalf("orders %d must equal successful redemptions %d", orders, succeeded)
	}
}

func TestOrderBulkDeleteMixedStatuses(t *testing.T) {
	env := setupOrderService(t)
	if err := env.db.Create(&models.Discount{
		Code:      "MIX",
		Kind:      constants.DiscountKindCode,
		ValueType: constants.DiscountValueFixed,
		Value:     models.NewMoneyFromFloat(50000),
		AppliesTo: constants.DiscountAppliesAll,
		IsActive:  true,
	}).Error; err != nil {
		t.Fatalf("seed discount failed: %v", err)
	}

	pending := env.createPendingOrder(t, "MIX")
	verified := env.createPendingOrder(t, "MIX")
	if _, err := env.svc.UpdatePaymentStatus(verified.ID, constants.PaymentStatusVerified, "admin"); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if err := env.svc.BulkDelete([]uint{pending.ID, verified.ID}); err != nil {
		t.Fatalf("bulk delete failed: %v", err)
	}

	var orders int64
	if err := env.db.Model(&models.ServiceOrder{}).Count(&orders).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orders != 0 {
		t.Fatalf("all orders should be deleted, %d remain", orders)
	}
	// 仅未通过订单的核销被回滚
	var discount models.Discount
	if err := env.db.Where("code = ?", "MIX").First(&discount).Error; err != nil {
		t.Fatalf("reload discount failed: %v", err)
	}
	if discount.UsageCount != 1 {
		t.Fatalf("usage_count want 1 got %d", discount.UsageCount)
	}
}

func TestOrderLookupByInvoiceAndEmail(t *testing.T) {
	env := setupOrderService(t)
	order := env.createPendingOrder(t, "")

	found, err := env.svc.GetByInvoice(order.InvoiceNo, " budi@example.com ")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if found.ID != order.ID {
		t.Fatalf("lookup returned wrong order: %d", found.ID)
	}

	if _, err := env.svc.GetByInvoice(order.InvoiceNo, "other@example.com"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("email mismatch want ErrOrderNotFound got %v", err)
	}
}
