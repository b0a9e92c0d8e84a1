// Package classify holds the pure stock and expiry classification rules used
// across the inventory service. Nothing in here touches the database or the
// network; every function is total over its inputs.
package classify

import (
	"fmt"
	"math"
	"time"
)

// Status is the derived stock level classification. It is computed on read
// and never persisted.
type Status string

const (
	StatusGood     Status = "Good"
	StatusWarning  Status = "Warning"
	StatusLow      Status = "Low"
	StatusCritical Status = "Critical"
)

// StockStatus classifies a stock level against its reorder point.
// A stock level exactly at the reorder point is Low, not Warning.
func StockStatus(currentStock, reorderPoint int) Status {
	switch {
	case currentStock <= 0:
		return StatusCritical
	case currentStock <= reorderPoint:
		return StatusLow
	case float64(currentStock) <= float64(reorderPoint)*1.5:
		return StatusWarning
	default:
		return StatusGood
	}
}

// ExpiryLayout is the wire format for expiry dates.
const ExpiryLayout = "2006-01-02"

// NoExpiry is passed as the days-until-expiry argument when a medicine has no
// known expiry date, so the expiry component contributes nothing to priority.
const NoExpiry = math.MaxInt32

// ParseExpiry parses a fixed-format expiry date string. Unlike the historical
// behavior of treating garbage as "expires today", a malformed date is an
// error the caller must surface as an unknown expiry.
func ParseExpiry(s string) (time.Time, error) {
	t, err := time.Parse(ExpiryLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid expiry date %q: %w", s, err)
	}
	return t, nil
}

// DaysUntilExpiry returns the signed number of calendar days between today
// and the expiry date. Negative means already expired; zero means it expires
// today.
func DaysUntilExpiry(expiry, today time.Time) int {
	e := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(t).Hours() / 24)
}

// Alert severities
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
	SeverityGood     = "good"
)

// Alert is a tiered expiry alert with a fixed severity and a message
// embedding the day count.
type Alert struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// ExpiryAlert maps days-until-expiry onto the alert tiers. NoExpiry reports
// the unknown state rather than a meaningless day count.
func ExpiryAlert(daysUntilExpiry int) Alert {
	switch {
	case daysUntilExpiry == NoExpiry:
		return Alert{Severity: SeverityGood, Message: "No expiry date recorded"}
	case daysUntilExpiry < 0:
		return Alert{Severity: SeverityCritical, Message: fmt.Sprintf("EXPIRED %d days ago", -daysUntilExpiry)}
	case daysUntilExpiry == 0:
		return Alert{Severity: SeverityCritical, Message: "EXPIRES TODAY"}
	case daysUntilExpiry <= 7:
		return Alert{Severity: SeverityCritical, Message: fmt.Sprintf("CRITICAL: expires in %d days", daysUntilExpiry)}
	case daysUntilExpiry <= 30:
		return Alert{Severity: SeverityWarning, Message: fmt.Sprintf("WARNING: expires in %d days", daysUntilExpiry)}
	case daysUntilExpiry <= 90:
		return Alert{Severity: SeverityInfo, Message: fmt.Sprintf("INFO: expires in %d days", daysUntilExpiry)}
	default:
		return Alert{Severity: SeverityGood, Message: fmt.Sprintf("Good: %d days until expiry", daysUntilExpiry)}
	}
}

// MaxPriority caps the combined alert priority score.
const MaxPriority = 20

// AlertPriority combines stock urgency and expiry urgency into a single
// additive score in [0, MaxPriority], used for ranking and bucketing only.
// Callers without a known expiry date pass NoExpiry.
func AlertPriority(currentStock, reorderPoint, daysUntilExpiry int) int {
	priority := 0

	// Stock-based component
	switch {
	case currentStock <= 0:
		priority += 10
	case float64(currentStock) <= float64(reorderPoint)*0.5:
		priority += 8
	case currentStock <= reorderPoint:
		priority += 5
	}

	// Expiry-based component
	switch {
	case daysUntilExpiry < 0:
		priority += 10
	case daysUntilExpiry <= 7:
		priority += 8
	case daysUntilExpiry <= 30:
		priority += 5
	}

	if priority > MaxPriority {
		priority = MaxPriority
	}
	return priority
}

// Criticality is the bucket a medicine falls into when ranked by priority.
type Criticality string

const (
	CriticalityCritical Criticality = "critical"
	CriticalityHigh     Criticality = "high"
	CriticalityMedium   Criticality = "medium"
	CriticalityLow      Criticality = "low"
)

// CriticalityFor maps a priority score onto its bucket.
func CriticalityFor(priority int) Criticality {
	switch {
	case priority >= 15:
		return CriticalityCritical
	case priority >= 10:
		return CriticalityHigh
	case priority >= 5:
		return CriticalityMedium
	default:
		return CriticalityLow
	}
}

// Buckets partitions a collection by criticality. Every input element lands
// in exactly one bucket, in input order.
type Buckets[T any] struct {
	Critical []T `json:"critical"`
	High     []T `json:"high"`
	Medium   []T `json:"medium"`
	Low      []T `json:"low"`
}

// CategorizeByCriticality partitions items by the priority score computed by
// priorityOf.
func CategorizeByCriticality[T any](items []T, priorityOf func(T) int) Buckets[T] {
	var b Buckets[T]
	for _, item := range items {
		switch CriticalityFor(priorityOf(item)) {
		case CriticalityCritical:
			b.Critical = append(b.Critical, item)
		case CriticalityHigh:
			b.High = append(b.High, item)
		case CriticalityMedium:
			b.Medium = append(b.Medium, item)
		default:
			b.Low = append(b.Low, item)
		}
	}
	return b
}
