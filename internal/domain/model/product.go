//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxNameLen = 255
	maxSlugLen = 255
)

// Product is a catalog item sold on the storefront.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"priceCents"`
	Stock       int       `json:"stock"`
	CategoryID  *string   `json:"categoryId,omitempty"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateProductRequest carries the fields accepted when creating a product.
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	PriceCents  int64   `json:"priceCents"`
	Stock       int     `json:"stock"`
	CategoryID  *string `json:"categoryId"`
	Published   bool    `json:"published"`
}

// Validate checks the request invariants.
func (r *CreateProductRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Slug = normalizeSlug(r.Slug)
	if r.Name == "" {
		return errors.New("product name is required")
	}
	if utf8.RuneCountInString(r.Name) > maxNameLen {
		return errors.New("product name is too long")
	}
	if r.Slug == "" {
		return errors.New("product slug is required")
	}
	if utf8.RuneCountInString(r.Slug) > maxSlugLen {
		return errors.New("product slug is too long")
	}
	if r.PriceCents < 0 {
		return errors.New("product price cannot be negative")
	}
	if r.Stock < 0 {
		return errors.New("product stock cannot be negative")
	}
	return nil
}

// UpdateProductRequest carries the fields accepted when updating a product.
// Nil pointers leave the stored value untouched.
type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"priceCents"`
	Stock       *int    `json:"stock"`
	CategoryID  *string `json:"categoryId"`
	Published   *bool   `json:"published"`
}

// Validate checks the request invariants.
func (r *UpdateProductRequest) Validate() error {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		if trimmed == "" {
			return errors.New("product name cannot be empty")
		}
		*r.Name = trimmed
	}
	if r.Slug != nil {
		slug := normalizeSlug(*r.Slug)
		if slug == "" {
			return errors.New("product slug cannot be empty")
		}
		*r.Slug = slug
	}
	if r.PriceCents != nil && *r.PriceCents < 0 {
		return errors.New("product price cannot be negative")
	}
	if r.Stock != nil && *r.Stock < 0 {
		return errors.New("product stock cannot be negative")
	}
	return nil
}

// ProductsListOptions controls paging and filtering for listing products.
// Q matches name via ILIKE substring; CategoryID and Published match exactly.
type ProductsListOptions struct {
	Limit      int
	Offset     int
	Q          *string
	CategoryID *string
	Published  *bool
}

func normalizeSlug(s string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(s), "/"))
}
