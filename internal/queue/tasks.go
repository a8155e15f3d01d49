package queue

import (
	"encoding/json"

	"github.com/niaga-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderNotify 新订单通知任务
	TaskOrderNotify = constants.TaskOrderNotify
	// TaskOrderStatusChanged 订单状态变更通知任务
	TaskOrderStatusChanged = constants.TaskOrderStatusChanged
)

// OrderNotifyPayload 新订单通知任务载荷
type OrderNotifyPayload struct {
	OrderKind string `json:"order_kind"`
	OrderID   uint   `json:"order_id"`
}

// OrderStatusChangedPayload 订单状态变更通知任务载荷
type OrderStatusChangedPayload struct {
	OrderKind  string `json:"order_kind"`
	OrderID    uint   `json:"order_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

// NewOrderNotifyTask 创建新订单通知任务
func NewOrderNotifyTask(payload OrderNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderNotify, body), nil
}

// NewOrderStatusChangedTask 创建订单状态变更通知任务
func NewOrderStatusChangedTask(payload OrderStatusChangedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusChanged, body), nil
}
