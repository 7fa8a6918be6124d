package handlers

import (
	"jewelme/internal/models"
)

// orderStatusTransitions is the only place order-status movement is defined.
// pending → processing → shipped → delivered; pending and processing may also
// cancel; delivered and cancelled are terminal.
var orderStatusTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
	models.OrderStatusDelivered:  {},
	models.OrderStatusCancelled:  {},
}

func isValidOrderStatus(status string) bool {
	_, ok := orderStatusTransitions[status]
	return ok
}

func canTransitionOrderStatus(from, to string) bool {
	for _, allowed := range orderStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func isValidPaymentStatus(status string) bool {
	switch status {
	case models.PaymentStatusPending,
		models.PaymentStatusProcessing,
		models.PaymentStatusCompleted,
		models.PaymentStatusFailed,
		models.PaymentStatusRefunded:
		return true
	}
	return false
}

// cancellableOrderStatuses lists the statuses from which an order may still
// be cancelled. Cancel writes filter on this set so the status check and the
// write stay one atomic operation.
func cancellableOrderStatuses() []string {
	return []string{models.OrderStatusPending, models.OrderStatusProcessing}
}

// isCancellableOrderStatus reports whether an order may still be cancelled by
// its owner or an admin.
func isCancellableOrderStatus(status string) bool {
	for _, s := range cancellableOrderStatuses() {
		if s == status {
			return true
		}
	}
	return false
}
