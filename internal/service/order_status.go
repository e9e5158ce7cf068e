package service

import "github.com/youngre511/PeachBlossom-eStore-sub003/internal/constants"

// allowedTransitions is the order status machine. Absent states are
// terminal.
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusProcessing: {
		constants.OrderStatusReadyToShip: true,
		constants.OrderStatusCancelled:   true,
		constants.OrderStatusBackOrdered: true,
	},
	constants.OrderStatusReadyToShip: {
		constants.OrderStatusShipped:     true,
		constants.OrderStatusCancelled:   true,
		constants.OrderStatusBackOrdered: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
	},
	constants.OrderStatusBackOrdered: {
		constants.OrderStatusProcessing: true,
		constants.OrderStatusCancelled:  true,
	},
}

func isTransitionAllowed(current, target string) bool {
	if current == target {
		return true
	}
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

// aggregateFulfillment folds item fulfillment states into one
// order-level state.
func aggregateFulfillment(statuses []string) string {
	if len(statuses) == 0 {
		return constants.FulfillmentUnfulfilled
	}
	fulfilled := 0
	unfulfilled := 0
	for _, status := range statuses {
		switch status {
		case constants.FulfillmentCancelled, constants.FulfillmentBackOrdered,
			constants.FulfillmentOnHold, constants.FulfillmentException:
			return status
		case constants.FulfillmentFulfilled:
			fulfilled++
		case constants.FulfillmentUnfulfilled:
			unfulfilled++
		}
	}
	switch {
	case fulfilled == len(statuses):
		return constants.FulfillmentFulfilled
	case fulfilled == 0 && unfulfilled == len(statuses):
		return constants.FulfillmentUnfulfilled
	default:
		return constants.FulfillmentPartiallyFulfilled
	}
}
