package queue

import (
	"encoding/json"

	"github.com/kds-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusSync 订单派生状态回写任务
	TaskOrderStatusSync = constants.TaskOrderStatusSync
	// TaskOrderReady 整单齐菜通知任务
	TaskOrderReady = constants.TaskOrderReady
)

// OrderStatusSyncPayload 订单状态回写任务载荷
type OrderStatusSyncPayload struct {
	OrderID uint `json:"order_id"`
}

// OrderReadyPayload 整单齐菜任务载荷
type OrderReadyPayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderStatusSyncTask 创建订单状态回写任务
func NewOrderStatusSyncTask(payload OrderStatusSyncPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusSync, body), nil
}

// NewOrderReadyTask 创建整单齐菜任务
func NewOrderReadyTask(payload OrderReadyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderReady, body), nil
}
