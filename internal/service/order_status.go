package service

import "github.com/daishou-next/internal/constants"

// orderStatusTransitions 运单状态机的合法迁移表，未列出的迁移一律拒绝。
// DELIVERY_FAILED 之后仅允许退回发货方，其余末态不再变更。
var orderStatusTransitions = map[string][]string{
	constants.OrderStatusCreated: {
		constants.OrderStatusAssigned,
		constants.OrderStatusCancelled,
		constants.OrderStatusReturned,
	},
	constants.OrderStatusAssigned: {
		constants.OrderStatusPickedUp,
		constants.OrderStatusDelivering,
		constants.OrderStatusDeliveredSuccess,
		constants.OrderStatusDeliveryFailed,
		constants.OrderStatusCancelled,
		constants.OrderStatusReturned,
	},
	constants.OrderStatusPickedUp: {
		constants.OrderStatusDelivering,
		constants.OrderStatusDeliveredSuccess,
		constants.OrderStatusDeliveryFailed,
		constants.OrderStatusReturned,
	},
	constants.OrderStatusDelivering: {
		constants.OrderStatusDeliveredSuccess,
		constants.OrderStatusDeliveryFailed,
		constants.OrderStatusReturned,
	},
	constants.OrderStatusDeliveryFailed: {
		constants.OrderStatusReturned,
	},
	constants.OrderStatusDeliveredSuccess: {},
	constants.OrderStatusCancelled:        {},
	constants.OrderStatusReturned:         {},
}

// IsValidOrderStatus 判断是否为已知运单状态
func IsValidOrderStatus(status string) bool {
	_, ok := orderStatusTransitions[status]
	return ok
}

// IsTerminalOrderStatus 判断运单是否已到末态
func IsTerminalOrderStatus(status string) bool {
	next, ok := orderStatusTransitions[status]
	return ok && len(next) == 0
}

// CanTransitionOrderStatus 判断运单状态迁移是否合法
func CanTransitionOrderStatus(from, to string) bool {
	for _, next := range orderStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
