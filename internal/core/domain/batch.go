// internal/core/domain/batch.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BatchStatus is the operational state of a production batch
type BatchStatus string

const (
	BatchActive    BatchStatus = "Active"
	BatchCompleted BatchStatus = "Completed"
	BatchCancelled BatchStatus = "Cancelled"
)

// ApprovalStatus is the QA review state of a batch. It is a separate axis
// from BatchStatus: a batch can be Completed yet still Pending review.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "Pending"
	ApprovalApproved ApprovalStatus = "Approved"
	ApprovalRejected ApprovalStatus = "Rejected"
)

// Validate rejects values outside the known approval states
func (a ApprovalStatus) Validate() error {
	switch a {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return nil
	default:
		return fmt.Errorf("invalid approval status: %s", a)
	}
}

// Batch represents a production batch
type Batch struct {
	ID              uuid.UUID      `json:"id"`
	BatchNumber     string         `json:"batchNumber"`
	RawMaterialID   uuid.UUID      `json:"rawMaterialId"`
	SupplierID      uuid.UUID      `json:"supplierId"`
	ProductionDate  time.Time      `json:"productionDate"`
	AcquisitionDate time.Time      `json:"acquisitionDate"`
	Buyer           string         `json:"buyer"`
	Contents        string         `json:"contents"`
	Status          BatchStatus    `json:"status"`
	ApprovalStatus  ApprovalStatus `json:"approvalStatus"`
	Quantity        Quantity       `json:"quantity"`
	Notes           string         `json:"notes,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`

	// Populated on reads that join the referenced records.
	RawMaterialName string `json:"rawMaterialName,omitempty"`
	SupplierName    string `json:"supplierName,omitempty"`
}

// Validate performs domain validation on the batch
func (b *Batch) Validate() error {
	if strings.TrimSpace(b.BatchNumber) == "" {
		return fmt.Errorf("batch number is required")
	}
	if b.RawMaterialID == uuid.Nil {
		return fmt.Errorf("raw material is required")
	}
	if b.SupplierID == uuid.Nil {
		return fmt.Errorf("source supplier is required")
	}
	if b.ProductionDate.IsZero() {
		return fmt.Errorf("production date is required")
	}
	if b.AcquisitionDate.IsZero() {
		return fmt.Errorf("acquisition date is required")
	}
	if strings.TrimSpace(b.Buyer) == "" {
		return fmt.Errorf("buyer is required")
	}
	if strings.TrimSpace(b.Contents) == "" {
		return fmt.Errorf("contents description is required")
	}
	switch b.Status {
	case BatchActive, BatchCompleted, BatchCancelled:
	case "":
		b.Status = BatchActive
	default:
		return fmt.Errorf("invalid status: %s", b.Status)
	}
	switch b.ApprovalStatus {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
	case "":
		b.ApprovalStatus = ApprovalPending
	default:
		return fmt.Errorf("invalid approval status: %s", b.ApprovalStatus)
	}
	if err := b.Quantity.validate(); err != nil {
		return err
	}
	return nil
}

// PrepareForStorage prepares the batch for database storage
func (b *Batch) PrepareForStorage() {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}
