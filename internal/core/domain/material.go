// internal/core/domain/material.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaterialStatus represents the stock state of a raw material
type MaterialStatus string

const (
	MaterialInStock    MaterialStatus = "In Stock"
	MaterialLowStock   MaterialStatus = "Low Stock"
	MaterialOutOfStock MaterialStatus = "Out of Stock"
)

// QuantityUnit is a measurement unit accepted for material and batch quantities
type QuantityUnit string

const (
	UnitKilogram   QuantityUnit = "kg"
	UnitLiter      QuantityUnit = "L"
	UnitGram       QuantityUnit = "g"
	UnitMilliliter QuantityUnit = "mL"
)

// Quantity is a measured amount with its unit.
type Quantity struct {
	Value decimal.Decimal `json:"value"`
	Unit  QuantityUnit    `json:"unit"`
}

// String renders the quantity the way it appears in alert messages, e.g. "12 kg".
func (q Quantity) String() string {
	return fmt.Sprintf("%s %s", q.Value.String(), q.Unit)
}

func (q Quantity) validate() error {
	if q.Value.IsNegative() {
		return fmt.Errorf("quantity value cannot be negative")
	}
	switch q.Unit {
	case UnitKilogram, UnitLiter, UnitGram, UnitMilliliter:
		return nil
	default:
		return fmt.Errorf("invalid quantity unit: %s", q.Unit)
	}
}

// RawMaterial represents a tracked raw material lot
type RawMaterial struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Purity      string         `json:"purity"`
	SupplierID  uuid.UUID      `json:"supplierId"`
	HazardClass string         `json:"hazardClass"`
	StorageTemp string         `json:"storageTemp"`
	Status      MaterialStatus `json:"status"`
	Quantity    Quantity       `json:"quantity"`
	ExpiryDate  *time.Time     `json:"expiryDate,omitempty"`
	LotNumber   string         `json:"lotNumber,omitempty"`
	Description string         `json:"description,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`

	// Populated on reads that join the owning supplier.
	SupplierName   string         `json:"supplierName,omitempty"`
	SupplierStatus SupplierStatus `json:"supplierStatus,omitempty"`
}

// Validate performs domain validation on the raw material
func (m *RawMaterial) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if m.SupplierID == uuid.Nil {
		return fmt.Errorf("supplier is required")
	}
	if strings.TrimSpace(m.Purity) == "" {
		return fmt.Errorf("purity is required")
	}
	if strings.TrimSpace(m.HazardClass) == "" {
		return fmt.Errorf("hazard class is required")
	}
	if strings.TrimSpace(m.StorageTemp) == "" {
		return fmt.Errorf("storage temperature is required")
	}
	switch m.Status {
	case MaterialInStock, MaterialLowStock, MaterialOutOfStock:
	case "":
		m.Status = MaterialInStock
	default:
		return fmt.Errorf("invalid status: %s", m.Status)
	}
	if err := m.Quantity.validate(); err != nil {
		return err
	}
	return nil
}

// PrepareForStorage prepares the material for database storage
func (m *RawMaterial) PrepareForStorage() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}
