package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/niaga-next/internal/constants"
	"github.com/niaga-next/internal/logger"
	"github.com/niaga-next/internal/models"
	"github.com/niaga-next/internal/provider"
	"github.com/niaga-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
	notifier *TelegramNotifier
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	consumer := &Consumer{
		Container: c,
	}
	if c != nil && c.Config != nil {
		consumer.notifier = NewTelegramNotifier(c.Config.Notify.Telegram)
	}
	return consumer
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderNotify, c.handleOrderNotify)
	mux.HandleFunc(queue.TaskOrderStatusChanged, c.handleOrderStatusChanged)
}

func (c *Consumer) handleOrderNotify(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_notify_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}

	message, err := c.buildOrderNotifyMessage(payload.OrderKind, payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_notify_build_failed", "order_kind", payload.OrderKind, "order_id", payload.OrderID, "error", err)
		return err
	}
	if message == "" {
		logger.Debugw("worker_order_notify_skip_order_not_found", "order_kind", payload.OrderKind, "order_id", payload.OrderID)
		return nil
	}
	return c.deliver(ctx, message, "worker_order_notify")
}

func (c *Consumer) handleOrderStatusChanged(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_changed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusChangedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_changed_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_changed_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}

	invoiceNo, err := c.lookupInvoiceNo(payload.OrderKind, payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_changed_fetch_failed", "order_kind", payload.OrderKind, "order_id", payload.OrderID, "error", err)
		return err
	}
	if invoiceNo == "" {
		logger.Debugw("worker_order_status_changed_skip_order_not_found", "order_kind", payload.OrderKind, "order_id", payload.OrderID)
		return nil
	}
	message := buildStatusChangedMessage(payload.OrderKind, invoiceNo, payload.FromStatus, payload.ToStatus)
	return c.deliver(ctx, message, "worker_order_status_changed")
}

func (c *Consumer) deliver(ctx context.Context, message, logPrefix string) error {
	if c.notifier == nil || !c.notifier.Enabled() {
		logger.Debugw(logPrefix+"_skip_notifier_disabled")
		return nil
	}
	if err := c.notifier.SendMessage(ctx, message); err != nil {
		logger.Warnw(logPrefix+"_send_failed", "error", err)
		return err
	}
	return nil
}

func (c *Consumer) buildOrderNotifyMessage(orderKind string, orderID uint) (string, error) {
	switch orderKind {
	case constants.OrderKindStore:
		purchase, err := c.StorePurchaseRepo.GetByID(orderID)
		if err != nil {
			return "", err
		}
		if purchase == nil {
			return "", nil
		}
		return buildStorePurchaseMessage(purchase), nil
	default:
		order, err := c.ServiceOrderRepo.GetByID(orderID)
		if err != nil {
			return "", err
		}
		if order == nil {
			return "", nil
		}
		return buildServiceOrderMessage(order), nil
	}
}

func (c *Consumer) lookupInvoiceNo(orderKind string, orderID uint) (string, error) {
	switch orderKind {
	case constants.OrderKindStore:
		purchase, err := c.StorePurchaseRepo.GetByID(orderID)
		if err != nil || purchase == nil {
			return "", err
		}
		return purchase.InvoiceNo, nil
	default:
		order, err := c.ServiceOrderRepo.GetByID(orderID)
		if err != nil || order == nil {
			return "", err
		}
		return order.InvoiceNo, nil
	}
}

func buildServiceOrderMessage(order *models.ServiceOrder) string {
	if order == nil {
		return ""
	}
	lines := []string{
		"New service order",
		fmt.Sprintf("Invoice: %s", order.InvoiceNo),
		fmt.Sprintf("Service: %s / %s", order.ServiceName, order.PackageName),
		fmt.Sprintf("Customer: %s <%s>", order.CustomerName, order.CustomerEmail),
		fmt.Sprintf("Total: %s", order.TotalAmount.String()),
	}
	if order.DiscountCode != "" {
		lines = append(lines, fmt.Sprintf("Discount: %s (-%s)", order.DiscountCode, order.DiscountAmount.String()))
	}
	return strings.Join(lines, "\n")
}

func buildStorePurchaseMessage(purchase *models.StorePurchase) string {
	if purchase == nil {
		return ""
	}
	lines := []string{
		"New store purchase",
		fmt.Sprintf("Invoice: %s", purchase.InvoiceNo),
		fmt.Sprintf("Item: %s x%d", purchase.ItemName, purchase.Quantity),
		fmt.Sprintf("Customer: %s <%s>", purchase.CustomerName, purchase.CustomerEmail),
		fmt.Sprintf("Total: %s", purchase.TotalAmount.String()),
	}
	if purchase.DiscountCode != "" {
		lines = append(lines, fmt.Sprintf("Discount: %s (-%s)", purchase.DiscountCode, purchase.DiscountAmount.String()))
	}
	return strings.Join(lines, "\n")
}

func buildStatusChangedMessage(orderKind, invoiceNo, fromStatus, toStatus string) string {
	kind := "Service order"
	if orderKind == constants.OrderKindStore {
		kind = "Store purchase"
	}
	return fmt.Sprintf("%s %s: %s -> %s", kind, invoiceNo, fromStatus, toStatus)
}
