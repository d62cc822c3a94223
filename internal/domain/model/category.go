package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Category groups products for storefront navigation.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateCategoryRequest carries the fields accepted when creating a category.
type CreateCategoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Validate checks the request invariants.
func (r *CreateCategoryRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Slug = normalizeSlug(r.Slug)
	if r.Name == "" {
		return errors.New("category name is required")
	}
	if utf8.RuneCountInString(r.Name) > maxNameLen {
		return errors.New("category name is too long")
	}
	if r.Slug == "" {
		return errors.New("category slug is required")
	}
	return nil
}
