package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jewelme/internal/models"
)

func TestOrderStatusTransitionsForward(t *testing.T) {
	allowed := [][2]string{
		{models.OrderStatusPending, models.OrderStatusProcessing},
		{models.OrderStatusProcessing, models.OrderStatusShipped},
		{models.OrderStatusShipped, models.OrderStatusDelivered},
		{models.OrderStatusPending, models.OrderStatusCancelled},
		{models.OrderStatusProcessing, models.OrderStatusCancelled},
	}
	for _, pair := range allowed {
		if !canTransitionOrderStatus(pair[0], pair[1]) {
			t.Errorf("expected %s -> %s to be allowed", pair[0], pair[1])
		}
	}
}

func TestOrderStatusTerminalStates(t *testing.T) {
	terminals := []string{models.OrderStatusDelivered, models.OrderStatusCancelled}
	targets := []string{
		models.OrderStatusPending,
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
	}
	for _, from := range terminals {
		for _, to := range targets {
			if canTransitionOrderStatus(from, to) {
				t.Errorf("expected %s -> %s to be rejected", from, to)
			}
		}
	}
}

func TestOrderStatusNoSkippingAhead(t *testing.T) {
	rejected := [][2]string{
		{models.OrderStatusPending, models.OrderStatusShipped},
		{models.OrderStatusPending, models.OrderStatusDelivered},
		{models.OrderStatusProcessing, models.OrderStatusDelivered},
		{models.OrderStatusShipped, models.OrderStatusCancelled},
		{models.OrderStatusShipped, models.OrderStatusPending},
	}
	for _, pair := range rejected {
		if canTransitionOrderStatus(pair[0], pair[1]) {
			t.Errorf("expected %s -> %s to be rejected", pair[0], pair[1])
		}
	}
}

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range []string{"pending", "processing", "shipped", "delivered", "cancelled"} {
		if !isValidOrderStatus(status) {
			t.Errorf("expected %q to be a valid order status", status)
		}
	}
	for _, status := range []string{"", "paid", "Pending", "done"} {
		if isValidOrderStatus(status) {
			t.Errorf("expected %q to be invalid", status)
		}
	}
}

func TestIsValidPaymentStatus(t *testing.T) {
	for _, status := range []string{"pending", "processing", "completed", "failed", "refunded"} {
		if !isValidPaymentStatus(status) {
			t.Errorf("expected %q to be a valid payment status", status)
		}
	}
	if isValidPaymentStatus("captured") {
		t.Error("expected \"captured\" to be invalid")
	}
}

func TestIsCancellableOrderStatus(t *testing.T) {
	if !isCancellableOrderStatus(models.OrderStatusPending) || !isCancellableOrderStatus(models.OrderStatusProcessing) {
		t.Fatal("expected pending and processing orders to be cancellable")
	}
	for _, status := range []string{models.OrderStatusShipped, models.OrderStatusDelivered, models.OrderStatusCancelled} {
		if isCancellableOrderStatus(status) {
			t.Errorf("expected %s order not to be cancellable", status)
		}
	}
}

func TestCancelOrderFilterGuardsOnCancellableStatuses(t *testing.T) {
	id := primitive.NewObjectID()
	filter := cancelOrderFilter(id)

	if filter["_id"] != id {
		t.Fatalf("expected filter to pin _id %s, got %v", id.Hex(), filter["_id"])
	}

	statusFilter, ok := filter["orderStatus"].(bson.M)
	if !ok {
		t.Fatalf("expected an orderStatus guard, got %v", filter["orderStatus"])
	}
	statuses, ok := statusFilter["$in"].([]string)
	if !ok {
		t.Fatalf("expected an $in guard, got %v", statusFilter)
	}

	want := map[string]bool{
		models.OrderStatusPending:    true,
		models.OrderStatusProcessing: true,
	}
	if len(statuses) != len(want) {
		t.Fatalf("expected exactly %d cancellable statuses, got %v", len(want), statuses)
	}
	for _, status := range statuses {
		if !want[status] {
			t.Errorf("unexpected cancellable status %q in guard", status)
		}
	}
}
