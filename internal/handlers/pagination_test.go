package handlers

import "testing"

func TestParsePaginationParamsDefaults(t *testing.T) {
	page, limit, err := parsePaginationParams("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != 1 || limit != 20 {
		t.Fatalf("expected defaults 1/20, got %d/%d", page, limit)
	}
}

func TestParsePaginationParamsRejectsInvalid(t *testing.T) {
	for _, tt := range [][2]string{
		{"0", ""},
		{"-1", "10"},
		{"abc", ""},
		{"", "0"},
		{"", "xyz"},
	} {
		if _, _, err := parsePaginationParams(tt[0], tt[1]); err == nil {
			t.Errorf("expected error for page=%q limit=%q", tt[0], tt[1])
		}
	}
}
