package worker

import (
	"context"
	"encoding/json"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/logger"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/provider"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer handles background tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates a consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register attaches the task handlers.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCartHoldExpire, c.handleCartHoldExpire)
}

func (c *Consumer) handleCartHoldExpire(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.CartHoldExpirePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_hold_expire_unmarshal_failed", "error", err)
		return err
	}
	if payload.CartItemID == 0 {
		logger.Debugw("worker_hold_expire_skip_invalid_payload", "cart_item_id", payload.CartItemID)
		return nil
	}
	if err := c.InventoryService.ExpireHold(ctx, payload.CartItemID); err != nil {
		logger.Warnw("worker_hold_expire_failed", "cart_item_id", payload.CartItemID, "error", err)
		return err
	}
	logger.Debugw("worker_hold_expire_done", "cart_item_id", payload.CartItemID)
	return nil
}
