// internal/core/domain/alert.go
package domain

import "time"

// AlertType identifies the rule that produced an alert
type AlertType string

const (
	// AlertQualityIssue is emitted once per reported issue.
	AlertQualityIssue AlertType = "Quality Issue"
	// AlertQualityIssuesLegacy is emitted once per supplier whose record
	// still carries the pre-migration numeric issue count.
	AlertQualityIssuesLegacy AlertType = "Quality Issues"
	AlertCertExpiring        AlertType = "Certification Expiring"
	AlertLowStock            AlertType = "Low Stock"
	AlertBatchRejected       AlertType = "Batch Rejected"
)

// Severity is the alert urgency band
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// UnknownSupplier is the sentinel supplier name used when the source record
// has no resolvable supplier reference.
const UnknownSupplier = "Unknown"

// Alert is a derived dashboard alert. Alerts are never persisted; they are
// recomputed on every request and have no identity beyond their position in
// the result list. Each alert traces to exactly one source record and one
// derivation rule, and the message embeds the triggering values so the UI
// needs no further lookups.
type Alert struct {
	Type     AlertType `json:"type"`
	Message  string    `json:"message"`
	Supplier string    `json:"supplier"`
	Severity Severity  `json:"severity"`
	Date     time.Time `json:"date"`
}
