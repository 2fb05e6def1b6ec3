package model

import (
	"errors"
	"testing"
)

func TestNewCategory(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		confirmed bool
		wantName  string
		wantErr   bool
	}{
		{name: "plain name", input: "Groceries", confirmed: true, wantName: "Groceries"},
		{name: "name is trimmed", input: "  Utilities  ", confirmed: false, wantName: "Utilities"},
		{name: "empty name rejected", input: "", wantErr: true},
		{name: "whitespace-only name rejected", input: "   \t", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := NewCategory(tt.input, tt.confirmed)
			if tt.wantErr {
				if !errors.Is(err, ErrEmptyCategoryName) {
					t.Fatalf("expected ErrEmptyCategoryName, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cat.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", cat.Name(), tt.wantName)
			}
			if cat.IsConfirmed() != tt.confirmed {
				t.Errorf("IsConfirmed() = %v, want %v", cat.IsConfirmed(), tt.confirmed)
			}
		})
	}
}

func TestCategory_Equal(t *testing.T) {
	a, _ := NewCategory("Groceries", false)
	b, _ := NewCategory("Groceries", false)
	c, _ := NewCategory("Groceries", true)
	d, _ := NewCategory("Dining", false)

	if !a.Equal(b) {
		t.Error("identical categories should be equal")
	}
	if a.Equal(c) {
		t.Error("categories differing in confirmation should not be equal")
	}
	if a.Equal(d) {
		t.Error("categories differing in name should not be equal")
	}
}

func TestCategory_Confirm(t *testing.T) {
	cat, _ := NewCategory("Groceries", false)
	confirmed := cat.Confirm()

	if !confirmed.IsConfirmed() {
		t.Error("Confirm() should set the confirmed flag")
	}
	if cat.IsConfirmed() {
		t.Error("Confirm() must not mutate the original")
	}
	if confirmed.Name() != cat.Name() {
		t.Error("Confirm() must preserve the name")
	}
}
