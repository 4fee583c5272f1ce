package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const maxProductNameLen = 255

// ProductStatus represents the evaluation stage of a product record.
type ProductStatus string

const (
	ProductStatusNew        ProductStatus = "NEW"
	ProductStatusInProgress ProductStatus = "INPROGRESS"
	ProductStatusDone       ProductStatus = "DONE"
)

// Valid reports whether the status is a supported value.
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusNew, ProductStatusInProgress, ProductStatusDone:
		return true
	}
	return false
}

// ParseProductStatus parses a product status from its string form,
// accepting any casing.
func ParseProductStatus(v string) (ProductStatus, error) {
	s := ProductStatus(strings.ToUpper(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("invalid product status: %q (valid options: NEW, INPROGRESS, DONE)", v)
	}
	return s, nil
}

// Product represents a product offered by a tracked fintech company.
type Product struct {
	ID          int64         `json:"id"                   db:"id"`
	Name        string        `json:"name"                 db:"name"`
	Description string        `json:"description"          db:"description"`
	Strength    string        `json:"strength"             db:"strength"`
	Weakness    string        `json:"weakness"             db:"weakness"`
	Status      ProductStatus `json:"status"               db:"status"`
	CompanyID   int64         `json:"company_id"           db:"company_id"`
	CreatedBy   *int64        `json:"created_by,omitempty" db:"created_by"`
	CreatedAt   time.Time     `json:"created_at"           db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"           db:"updated_at"`
}

// ProductsListOptions are the optional filters for listing products.
type ProductsListOptions struct {
	Q         *string
	Status    *ProductStatus
	CompanyID *int64
	Limit     int
	Offset    int
}

// CreateProductRequest represents parameters to create a Product.
type CreateProductRequest struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Strength    string        `json:"strength"`
	Weakness    string        `json:"weakness"`
	Status      ProductStatus `json:"status,omitempty"`
	CompanyID   int64         `json:"company_id"`
	CreatedBy   *int64        `json:"-"`
}

// UpdateProductRequest represents parameters to update a Product.
type UpdateProductRequest struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Strength    *string        `json:"strength,omitempty"`
	Weakness    *string        `json:"weakness,omitempty"`
	Status      *ProductStatus `json:"status,omitempty"`
	CompanyID   *int64         `json:"company_id,omitempty"`
}

// Validate validates CreateProductRequest and applies defaults.
func (r *CreateProductRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Name) > maxProductNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if r.CompanyID <= 0 {
		return errors.New("company_id is required")
	}
	if r.Status == "" {
		r.Status = ProductStatusNew
	}
	if !r.Status.Valid() {
		return fmt.Errorf("invalid product status: %q (valid options: NEW, INPROGRESS, DONE)", r.Status)
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateProductRequest.
func (r *UpdateProductRequest) HasUpdates() bool {
	return r.Name != nil || r.Description != nil || r.Strength != nil ||
		r.Weakness != nil || r.Status != nil || r.CompanyID != nil
}

// Validate validates UpdateProductRequest.
func (r *UpdateProductRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		if trimmed == "" {
			return errors.New("name cannot be empty")
		}
		if utf8.RuneCountInString(trimmed) > maxProductNameLen {
			return errors.New("name cannot exceed 255 characters")
		}
		*r.Name = trimmed
	}
	if r.Status != nil && !r.Status.Valid() {
		return fmt.Errorf("invalid product status: %q (valid options: NEW, INPROGRESS, DONE)", *r.Status)
	}
	if r.CompanyID != nil && *r.CompanyID <= 0 {
		return errors.New("company_id must be a positive id")
	}
	return nil
}
