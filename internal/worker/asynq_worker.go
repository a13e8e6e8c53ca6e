package worker

import (
	"context"
	"encoding/json"

	"github.com/kds-next/internal/constants"
	"github.com/kds-next/internal/logger"
	"github.com/kds-next/internal/notifier"
	"github.com/kds-next/internal/provider"
	"github.com/kds-next/internal/queue"
	"github.com/kds-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusSync, c.handleOrderStatusSync)
	mux.HandleFunc(queue.TaskOrderReady, c.handleOrderReady)
}

// handleOrderStatusSync 按流转记录重算订单派生状态并回写。
// 流转事件只带订单号，重算以账本当前值为准，重复投递无副作用。
func (c *Consumer) handleOrderStatusSync(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderStatusSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_sync_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		return nil
	}

	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_sync_fetch_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_status_sync_skip_not_found", "order_id", payload.OrderID)
		return nil
	}

	progress, err := c.RoutingRepo.Progress(order.ID)
	if err != nil {
		logger.Warnw("worker_order_status_sync_progress_failed", "order_id", order.ID, "error", err)
		return err
	}
	derived := service.DeriveOrderStatus(order.Status, progress)
	if derived == order.Status {
		return nil
	}

	changed, err := c.OrderRepo.UpdateStatus(order.ID, []string{order.Status}, derived)
	if err != nil {
		logger.Warnw("worker_order_status_sync_update_failed", "order_id", order.ID, "error", err)
		return err
	}
	if !changed {
		// 并发回写中已被其它任务更新，重算以新状态为准
		logger.Debugw("worker_order_status_sync_skip_raced", "order_id", order.ID)
		return nil
	}

	logger.Infow("order_status_synced",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"from", order.Status,
		"to", derived,
	)
	if derived == constants.OrderStatusReady && c.QueueClient != nil {
		err := c.QueueClient.EnqueueOrderReady(queue.OrderReadyPayload{OrderID: order.ID})
		if err != nil {
			logger.Warnw("worker_order_ready_enqueue_failed", "order_id", order.ID, "error", err)
		}
	}
	return nil
}

// handleOrderReady 整单齐菜后向看板推送上菜提示
func (c *Consumer) handleOrderReady(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderReadyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_ready_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		return nil
	}

	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_ready_fetch_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		return nil
	}
	if c.Hub != nil {
		c.Hub.Broadcast(notifier.NewOrderEvent(constants.EventOrderReady, order))
	}
	logger.Infow("order_ready", "order_id", order.ID, "order_no", order.OrderNo, "table_no", order.TableNo)
	return nil
}
