package model

import (
	"errors"
	"strings"
)

// ErrEmptyCategoryName is returned when constructing a category without a name.
// "No category" is represented by absence, never by an empty-name instance.
var ErrEmptyCategoryName = errors.New("category name cannot be empty")

// Category is an immutable (name, confirmed) pair describing a transaction's
// spending category and whether a human has confirmed it.
type Category struct {
	name        string
	isConfirmed bool
}

// NewCategory constructs a category, trimming surrounding whitespace from the
// name. It fails if the name is empty or whitespace-only.
func NewCategory(name string, isConfirmed bool) (Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Category{}, ErrEmptyCategoryName
	}
	return Category{name: trimmed, isConfirmed: isConfirmed}, nil
}

// Name returns the category name.
func (c Category) Name() string { return c.name }

// IsConfirmed reports whether a human has confirmed the categorization.
func (c Category) IsConfirmed() bool { return c.isConfirmed }

// Confirm returns a copy of the category with the confirmed flag set.
func (c Category) Confirm() Category {
	return Category{name: c.name, isConfirmed: true}
}

// Equal reports whether two categories match on both fields.
func (c Category) Equal(other Category) bool {
	return c.name == other.name && c.isConfirmed == other.isConfirmed
}
