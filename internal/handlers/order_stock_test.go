package handlers

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jewelme/internal/models"
)

func TestStockAdjustmentGuardsFlatStock(t *testing.T) {
	item := models.OrderItem{ProductID: primitive.NewObjectID(), Quantity: 3}

	filter, update := stockAdjustment(item, -3)

	guard, ok := filter["stockQuantity"].(bson.M)
	if !ok {
		t.Fatal("expected a stockQuantity guard in the filter")
	}
	if guard["$gte"] != 3 {
		t.Fatalf("expected $gte 3 guard, got %v", guard["$gte"])
	}

	inc := update["$inc"].(bson.M)
	if inc["stockQuantity"] != -3 {
		t.Fatalf("expected -3 decrement, got %v", inc["stockQuantity"])
	}
}

func TestStockAdjustmentTargetsVariantStock(t *testing.T) {
	item := models.OrderItem{
		ProductID: primitive.NewObjectID(),
		Variant:   "rose-gold",
		Quantity:  2,
	}

	filter, update := stockAdjustment(item, -2)

	elem, ok := filter["variants"].(bson.M)
	if !ok {
		t.Fatal("expected an $elemMatch on variants")
	}
	match := elem["$elemMatch"].(bson.M)
	if match["metalColor"] != "rose-gold" {
		t.Fatalf("expected metalColor filter, got %v", match["metalColor"])
	}
	if match["stock"].(bson.M)["$gte"] != 2 {
		t.Fatalf("expected variant stock guard of 2, got %v", match["stock"])
	}

	inc := update["$inc"].(bson.M)
	if inc["variants.$.stock"] != -2 {
		t.Fatalf("expected positional variant decrement, got %v", inc)
	}
}

func TestStockRestoreIncrementsByQuantity(t *testing.T) {
	item := models.OrderItem{ProductID: primitive.NewObjectID(), Quantity: 2}

	filter, update := stockRestore(item, 2)

	if _, guarded := filter["stockQuantity"]; guarded {
		t.Fatal("restore must not carry a stock guard")
	}
	inc := update["$inc"].(bson.M)
	if inc["stockQuantity"] != 2 {
		t.Fatalf("expected +2 increment, got %v", inc["stockQuantity"])
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total, limit, want int64
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 7, 15},
	}
	for _, tt := range tests {
		if got := pageCount(tt.total, tt.limit); got != tt.want {
			t.Errorf("pageCount(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestParseDateRangeEndOfDayInclusive(t *testing.T) {
	out, err := parseDateRange("2025-01-01", "2025-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	start := out["$gte"].(time.Time)
	if start != time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected start %v", start)
	}

	end := out["$lte"].(time.Time)
	cutoff := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	if !end.After(cutoff.Add(23 * time.Hour)) {
		t.Fatalf("end %v does not reach end of day", end)
	}
	if !end.Before(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("end %v leaks into the next day", end)
	}
}

func TestParseDateRangeRejectsGarbage(t *testing.T) {
	if _, err := parseDateRange("not-a-date", ""); err == nil {
		t.Fatal("expected error for invalid startDate")
	}
	if _, err := parseDateRange("", "31/01/2025"); err == nil {
		t.Fatal("expected error for invalid endDate")
	}
}

func TestParseDateRangeEmptyIsEmpty(t *testing.T) {
	out, err := parseDateRange("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty filter, got %v", out)
	}
}
