package handlers

import (
	"encoding/json"
	"testing"

	"jewelme/internal/models"
)

func TestDecodeFlexibleAcceptsPlainObject(t *testing.T) {
	raw := json.RawMessage(`{"length":12,"width":4,"height":2}`)

	var dims models.Dimensions
	if err := decodeFlexible(raw, &dims); err != nil {
		t.Fatalf("decodeFlexible returned error: %v", err)
	}
	if dims.Length != 12 || dims.Width != 4 || dims.Height != 2 {
		t.Fatalf("unexpected dimensions %+v", dims)
	}
}

func TestDecodeFlexibleAcceptsStringEncodedValue(t *testing.T) {
	raw := json.RawMessage(`"[{\"type\":\"diamond\",\"carat\":0.5,\"clarity\":\"VS1\"}]"`)

	var gems []models.Gem
	if err := decodeFlexible(raw, &gems); err != nil {
		t.Fatalf("decodeFlexible returned error: %v", err)
	}
	if len(gems) != 1 || gems[0].Type != "diamond" || gems[0].Carat != 0.5 {
		t.Fatalf("unexpected gems %+v", gems)
	}
}

func TestDecodeFlexibleEmptyValuesAreNoOps(t *testing.T) {
	var tags []string
	if err := decodeFlexible(nil, &tags); err != nil {
		t.Fatalf("nil raw should be a no-op, got %v", err)
	}
	if err := decodeFlexible(json.RawMessage(`""`), &tags); err != nil {
		t.Fatalf("empty string should be a no-op, got %v", err)
	}
	if tags != nil {
		t.Fatalf("expected tags untouched, got %v", tags)
	}
}

func TestDecodeFlexibleRejectsMalformedPayload(t *testing.T) {
	var tags []string
	if err := decodeFlexible(json.RawMessage(`"not json at all"`), &tags); err == nil {
		t.Fatal("expected error for malformed encoded payload")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Gold Rings", "gold-rings"},
		{"  Necklaces & Pendants ", "necklaces-pendants"},
		{"Hoops", "hoops"},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
