// internal/core/services/alerts.go
package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/acrelle/supplytrack-be/internal/core/domain"
)

const (
	// certExpiryWindowDays is the look-ahead window for certification
	// expiry alerts. The window is [today, today+30d], both ends inclusive.
	certExpiryWindowDays = 30
	// certUrgentDays is the threshold at or below which an expiring
	// certification is high severity instead of medium.
	certUrgentDays = 7
)

const alertDateFormat = "Jan 2, 2006"

// midnight truncates t to the start of its day. The expiry window is anchored
// at midnight so a certification expiring "today" stays alertable all day.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysUntil returns ceil((expiry - today) / 24h) and whether the expiry falls
// inside the alert window. Expiries before today are outside the window: the
// dashboard flags upcoming lapses, not ones already missed.
func daysUntil(expiry, today time.Time) (int, bool) {
	if expiry.Before(today) {
		return 0, false
	}
	days := int(math.Ceil(expiry.Sub(today).Hours() / 24))
	if days > certExpiryWindowDays {
		return 0, false
	}
	return days, true
}

// deriveSupplierAlerts emits quality-issue and expiring-certification alerts
// for every supplier in the snapshot. Pure: depends only on its inputs.
func deriveSupplierAlerts(suppliers []domain.Supplier, now time.Time) []domain.Alert {
	today := midnight(now)
	var alerts []domain.Alert

	for _, s := range suppliers {
		if s.QualityIssues.IsLegacy() {
			if s.QualityIssues.LegacyCount > 0 {
				alerts = append(alerts, domain.Alert{
					Type:     domain.AlertQualityIssuesLegacy,
					Message:  fmt.Sprintf("%s - %d quality issue(s)", s.Name, s.QualityIssues.LegacyCount),
					Supplier: s.Name,
					Severity: domain.SeverityHigh,
					Date:     now,
				})
			}
		} else {
			for _, issue := range s.QualityIssues.Issues {
				alerts = append(alerts, domain.Alert{
					Type: domain.AlertQualityIssue,
					Message: fmt.Sprintf("%s - %s (%s)",
						s.Name, issue.Description, issue.Date.Format(alertDateFormat)),
					Supplier: s.Name,
					Severity: domain.SeverityHigh,
					Date:     issue.Date,
				})
			}
		}

		for _, cert := range s.Certifications {
			if cert.ExpiryDate == nil {
				continue
			}
			days, ok := daysUntil(*cert.ExpiryDate, today)
			if !ok {
				continue
			}
			severity := domain.SeverityMedium
			if days <= certUrgentDays {
				severity = domain.SeverityHigh
			}
			alerts = append(alerts, domain.Alert{
				Type: domain.AlertCertExpiring,
				Message: fmt.Sprintf("%s - %s expires in %d day(s)",
					s.Name, cert.Name, days),
				Supplier: s.Name,
				Severity: severity,
				Date:     *cert.ExpiryDate,
			})
		}
	}

	return alerts
}

// deriveLowStockAlerts emits one alert per low-stock material.
func deriveLowStockAlerts(materials []domain.RawMaterial, now time.Time) []domain.Alert {
	var alerts []domain.Alert
	for _, m := range materials {
		supplier := m.SupplierName
		if supplier == "" {
			supplier = domain.UnknownSupplier
		}
		alerts = append(alerts, domain.Alert{
			Type:     domain.AlertLowStock,
			Message:  fmt.Sprintf("%s - %s remaining", m.Name, m.Quantity),
			Supplier: supplier,
			Severity: domain.SeverityHigh,
			Date:     now,
		})
	}
	return alerts
}

// deriveRejectedBatchAlerts emits one alert per QA-rejected batch, stamped
// with the batch's last-modified time.
func deriveRejectedBatchAlerts(batches []domain.Batch) []domain.Alert {
	var alerts []domain.Alert
	for _, b := range batches {
		message := fmt.Sprintf("Batch %s rejected", b.BatchNumber)
		if b.Notes != "" {
			message = fmt.Sprintf("Batch %s rejected - %s", b.BatchNumber, b.Notes)
		}
		supplier := b.SupplierName
		if supplier == "" {
			supplier = domain.UnknownSupplier
		}
		alerts = append(alerts, domain.Alert{
			Type:     domain.AlertBatchRejected,
			Message:  message,
			Supplier: supplier,
			Severity: domain.SeverityHigh,
			Date:     b.UpdatedAt,
		})
	}
	return alerts
}

// rankAlerts orders alerts high severity before medium. The sort is stable,
// so within a band discovery order is preserved. The full list is returned;
// an earlier top-5 cap on supplier alerts is gone on purpose.
func rankAlerts(alerts []domain.Alert) []domain.Alert {
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity == domain.SeverityHigh &&
			alerts[j].Severity != domain.SeverityHigh
	})
	return alerts
}

// countSupplierConditions tallies the quality-issue and expiring-certification
// conditions across suppliers. This is the counter half of the dashboard: it
// counts underlying conditions, not emitted alerts, so a legacy record with a
// count of 3 contributes 3 here even though it yields a single alert.
func countSupplierConditions(suppliers []domain.Supplier, now time.Time) int64 {
	today := midnight(now)
	var total int64
	for _, s := range suppliers {
		total += int64(s.QualityIssues.Count())
		for _, cert := range s.Certifications {
			if cert.ExpiryDate == nil {
				continue
			}
			if _, ok := daysUntil(*cert.ExpiryDate, today); ok {
				total++
			}
		}
	}
	return total
}
