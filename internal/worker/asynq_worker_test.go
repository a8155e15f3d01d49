package worker

import (
	"strings"
	"testing"

	"github.com/niaga-next/internal/constants"
	"github.com/niaga-next/internal/models"
)

func TestBuildServiceOrderMessageNilOrder(t *testing.T) {
	if got := buildServiceOrderMessage(nil); got != "" {
		t.Fatalf("expected empty message for nil order, got %q", got)
	}
}

func TestBuildServiceOrderMessage(t *testing.T) {
	order := &models.ServiceOrder{
		InvoiceNo:      "INV20250101120000123456",
		ServiceName:    "Landing Page",
		PackageName:    "Premium",
		CustomerName:   "Budi",
		CustomerEmail:  "budi@example.com",
		TotalAmount:    models.NewMoneyFromFloat(185000),
		DiscountCode:   "NAIA2024",
		DiscountAmount: models.NewMoneyFromFloat(15000),
	}

	got := buildServiceOrderMessage(order)
	for _, want := range []string{
		"INV20250101120000123456",
		"Landing Page / Premium",
		"Budi <budi@example.com>",
		"NAIA2024",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("message should contain %q, got %q", want, got)
		}
	}
}

func TestBuildStorePurchaseMessageWithoutDiscount(t *testing.T) {
	purchase := &models.StorePurchase{
		InvoiceNo:     "STR20250101120000654321",
		ItemName:      "Icon Pack",
		Quantity:      3,
		CustomerName:  "Sari",
		CustomerEmail: "sari@example.com",
		TotalAmount:   models.NewMoneyFromFloat(45000),
	}

	got := buildStorePurchaseMessage(purchase)
	if !strings.Contains(got, "Icon Pack x3") {
		t.Fatalf("message should contain item line, got %q", got)
	}
	if strings.Contains(got, "Discount") {
		t.Fatalf("message should not contain discount line, got %q", got)
	}
}

func TestBuildStatusChangedMessage(t *testing.T) {
	got := buildStatusChangedMessage(constants.OrderKindStore, "STR1", constants.PaymentStatusPending, constants.PaymentStatusVerified)
	if got != "Store purchase STR1: pending -> verified" {
		t.Fatalf("unexpected message %q", got)
	}

	got = buildStatusChangedMessage(constants.OrderKindService, "INV1", constants.PaymentStatusRejected, constants.PaymentStatusPending)
	if got != "Service order INV1: rejected -> pending" {
		t.Fatalf("unexpected message %q", got)
	}
}
