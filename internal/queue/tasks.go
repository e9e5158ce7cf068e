package queue

import (
	"encoding/json"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCartHoldExpire releases a lapsed stock hold.
	TaskCartHoldExpire = constants.TaskCartHoldExpire
)

// CartHoldExpirePayload identifies the cart line whose hold lapses.
type CartHoldExpirePayload struct {
	CartItemID uint `json:"cart_item_id"`
}

// NewCartHoldExpireTask creates a hold-expiry task.
func NewCartHoldExpireTask(payload CartHoldExpirePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartHoldExpire, body), nil
}
