package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const maxCompanyNameLen = 255

// CompanyStatus represents the lifecycle stage of a fintech company record.
type CompanyStatus string

const (
	CompanyStatusNew     CompanyStatus = "NEW"
	CompanyStatusEngaged CompanyStatus = "ENGAGED"
	CompanyStatusRetired CompanyStatus = "RETIRED"
)

// Valid reports whether the status is a supported value.
func (s CompanyStatus) Valid() bool {
	switch s {
	case CompanyStatusNew, CompanyStatusEngaged, CompanyStatusRetired:
		return true
	}
	return false
}

// ParseCompanyStatus parses a company status from its string form,
// accepting any casing.
func ParseCompanyStatus(v string) (CompanyStatus, error) {
	s := CompanyStatus(strings.ToUpper(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("invalid company status: %q (valid options: NEW, ENGAGED, RETIRED)", v)
	}
	return s, nil
}

// Company represents a tracked fintech company.
type Company struct {
	ID             int64         `json:"id"                       db:"id"`
	Name           string        `json:"name"                     db:"name"`
	Address        string        `json:"address"                  db:"address"`
	ContactPhone   string        `json:"contact_phone"            db:"contact_phone"`
	ContactAddress string        `json:"contact_address"          db:"contact_address"`
	Status         CompanyStatus `json:"status"                   db:"status"`
	CreatedBy      *int64        `json:"created_by,omitempty"     db:"created_by"`
	CreatedAt      time.Time     `json:"created_at"               db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"               db:"updated_at"`
}

// CompaniesListOptions are the optional filters for listing companies.
type CompaniesListOptions struct {
	Q      *string
	Status *CompanyStatus
	Limit  int
	Offset int
}

// CreateCompanyRequest represents parameters to create a Company.
type CreateCompanyRequest struct {
	Name           string        `json:"name"`
	Address        string        `json:"address"`
	ContactPhone   string        `json:"contact_phone"`
	ContactAddress string        `json:"contact_address"`
	Status         CompanyStatus `json:"status,omitempty"`
	CreatedBy      *int64        `json:"-"`
}

// UpdateCompanyRequest represents parameters to update a Company.
type UpdateCompanyRequest struct {
	Name           *string        `json:"name,omitempty"`
	Address        *string        `json:"address,omitempty"`
	ContactPhone   *string        `json:"contact_phone,omitempty"`
	ContactAddress *string        `json:"contact_address,omitempty"`
	Status         *CompanyStatus `json:"status,omitempty"`
}

// Validate validates CreateCompanyRequest and applies defaults.
func (r *CreateCompanyRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Name) > maxCompanyNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if r.Status == "" {
		r.Status = CompanyStatusNew
	}
	if !r.Status.Valid() {
		return fmt.Errorf("invalid company status: %q (valid options: NEW, ENGAGED, RETIRED)", r.Status)
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateCompanyRequest.
func (r *UpdateCompanyRequest) HasUpdates() bool {
	return r.Name != nil || r.Address != nil || r.ContactPhone != nil ||
		r.ContactAddress != nil || r.Status != nil
}

// Validate validates UpdateCompanyRequest.
func (r *UpdateCompanyRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		if trimmed == "" {
			return errors.New("name cannot be empty")
		}
		if utf8.RuneCountInString(trimmed) > maxCompanyNameLen {
			return errors.New("name cannot exceed 255 characters")
		}
		*r.Name = trimmed
	}
	if r.Status != nil && !r.Status.Valid() {
		return fmt.Errorf("invalid company status: %q (valid options: NEW, ENGAGED, RETIRED)", *r.Status)
	}
	return nil
}
