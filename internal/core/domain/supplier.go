// internal/core/domain/supplier.go
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SupplierStatus represents the supplier lifecycle state
type SupplierStatus string

const (
	SupplierApproved  SupplierStatus = "Approved"
	SupplierPending   SupplierStatus = "Pending"
	SupplierSuspended SupplierStatus = "Suspended"
)

// certDateFormats are the expiry date layouts accepted from stored records.
// Older records were written by a system that stored plain dates.
var certDateFormats = []string{time.RFC3339, "2006-01-02"}

// Certification is a supplier certification with an optional expiry date.
// Legacy records store a certification as a bare JSON string (the name only);
// both shapes decode into the same canonical struct.
type Certification struct {
	Name       string     `json:"name"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
}

// UnmarshalJSON accepts either {"name": ..., "expiryDate": ...} or a bare
// string. Unparseable expiry dates are dropped, not rejected.
func (c *Certification) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		c.Name = strings.TrimSpace(name)
		c.ExpiryDate = nil
		return nil
	}

	var obj struct {
		Name       string          `json:"name"`
		ExpiryDate json.RawMessage `json:"expiryDate"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid certification entry: %w", err)
	}

	c.Name = strings.TrimSpace(obj.Name)
	c.ExpiryDate = parseDateValue(obj.ExpiryDate)
	return nil
}

func parseDateValue(raw json.RawMessage) *time.Time {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	for _, layout := range certDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// QualityIssue is a single reported issue against a supplier.
type QualityIssue struct {
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// QualityIssueList is the canonical form of a supplier's quality issues.
// Current records store a list of issue objects; records written before the
// issue-tracking migration store a bare count. The shape is resolved once,
// here, so downstream code only ever sees the tagged variant.
type QualityIssueList struct {
	Issues      []QualityIssue
	LegacyCount int
	legacy      bool
}

// IsLegacy reports whether the record carried the pre-migration numeric shape.
func (q QualityIssueList) IsLegacy() bool { return q.legacy }

// Count returns the number of underlying issue conditions regardless of shape.
func (q QualityIssueList) Count() int {
	if q.legacy {
		return q.LegacyCount
	}
	return len(q.Issues)
}

func (q *QualityIssueList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*q = QualityIssueList{}
		return nil
	}

	var count int
	if err := json.Unmarshal(data, &count); err == nil {
		*q = QualityIssueList{LegacyCount: count, legacy: true}
		return nil
	}

	var issues []QualityIssue
	if err := json.Unmarshal(data, &issues); err != nil {
		return fmt.Errorf("invalid qualityIssues value: %w", err)
	}
	*q = QualityIssueList{Issues: issues}
	return nil
}

// MarshalJSON writes the record back in the shape it was read in, so legacy
// rows round-trip without a data migration.
func (q QualityIssueList) MarshalJSON() ([]byte, error) {
	if q.legacy {
		return json.Marshal(q.LegacyCount)
	}
	if q.Issues == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(q.Issues)
}

// Address is a supplier mailing address.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

// Supplier represents a raw-material supplier
type Supplier struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Status         SupplierStatus   `json:"status"`
	Certifications []Certification  `json:"certifications"`
	QualityIssues  QualityIssueList `json:"qualityIssues"`
	LastAudit      *time.Time       `json:"lastAudit,omitempty"`
	ContactEmail   string           `json:"contactEmail,omitempty"`
	ContactPhone   string           `json:"contactPhone,omitempty"`
	Address        Address          `json:"address"`
	Notes          string           `json:"notes,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// Validate performs domain validation on the supplier
func (s *Supplier) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("name is required")
	}
	switch s.Status {
	case SupplierApproved, SupplierPending, SupplierSuspended:
	case "":
		s.Status = SupplierPending
	default:
		return fmt.Errorf("invalid status: %s", s.Status)
	}
	for i := range s.Certifications {
		if strings.TrimSpace(s.Certifications[i].Name) == "" {
			return fmt.Errorf("certification %d: name is required", i)
		}
	}
	for i, issue := range s.QualityIssues.Issues {
		if strings.TrimSpace(issue.Description) == "" {
			return fmt.Errorf("quality issue %d: description is required", i)
		}
	}
	return nil
}

// PrepareForStorage prepares the supplier for database storage
func (s *Supplier) PrepareForStorage() {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	for i := range s.QualityIssues.Issues {
		if s.QualityIssues.Issues[i].Date.IsZero() {
			s.QualityIssues.Issues[i].Date = now
		}
	}
}
