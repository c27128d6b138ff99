package getnext

import (
	"cmp"
	"slices"
	"testing"
)

func TestLeast(t *testing.T) {
	vals := []int{5, 1, 9, 3, 3, 7}
	tests := []struct {
		name   string
		cur    *int
		want   int
		wantOK bool
	}{
		{"first", nil, 1, true},
		{"after duplicate", ptr(1), 3, true},
		{"between", ptr(4), 5, true},
		{"after max", ptr(9), 0, false},
		{"below min", ptr(-1), 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Least(slices.Values(vals), tt.cur, cmp.Compare[int])
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Least = %d, %v; want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestAfter(t *testing.T) {
	vals := []string{"a", "c", "e"}
	tests := []struct {
		cur    *string
		want   string
		wantOK bool
	}{
		{nil, "a", true},
		{ptr("a"), "c", true},
		{ptr("b"), "c", true},
		{ptr("e"), "", false},
		{ptr("z"), "", false},
	}
	for _, tt := range tests {
		got, ok := After(vals, tt.cur, cmp.Compare[string])
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("After(%v) = %q, %v; want %q, %v", tt.cur, got, ok, tt.want, tt.wantOK)
		}
	}
	if _, ok := After([]string(nil), nil, cmp.Compare[string]); ok {
		t.Error("After on empty slice reported a value")
	}
}
