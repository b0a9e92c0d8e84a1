package classify_test

import (
	"testing"
	"time"

	"github.com/pharmtrack/pharmtrack-backend/internal/inventory/classify"
)

func TestStockStatus(t *testing.T) {
	tests := []struct {
		name         string
		currentStock int
		reorderPoint int
		want         classify.Status
	}{
		{"zero stock is critical", 0, 10, classify.StatusCritical},
		{"negative stock is critical", -3, 10, classify.StatusCritical},
		{"below reorder point is low", 5, 10, classify.StatusLow},
		{"exactly at reorder point is low", 10, 10, classify.StatusLow},
		{"just above reorder point is warning", 11, 10, classify.StatusWarning},
		{"at 1.5x reorder point is warning", 15, 10, classify.StatusWarning},
		{"above 1.5x reorder point is good", 16, 10, classify.StatusGood},
		{"zero reorder point with stock is good", 5, 0, classify.StatusGood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify.StockStatus(tt.currentStock, tt.reorderPoint); got != tt.want {
				t.Errorf("StockStatus(%d, %d) = %v, want %v", tt.currentStock, tt.reorderPoint, got, tt.want)
			}
		})
	}
}

func TestDaysUntilExpiry(t *testing.T) {
	today := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		want   int
	}{
		{"expires today", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), 0},
		{"expired yesterday", time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), -1},
		{"expires tomorrow", time.Date(2024, 6, 16, 23, 0, 0, 0, time.UTC), 1},
		{"expires in a month", time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC), 30},
		{"expired long ago", time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), -31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify.DaysUntilExpiry(tt.expiry, today); got != tt.want {
				t.Errorf("DaysUntilExpiry() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseExpiry(t *testing.T) {
	got, err := classify.ParseExpiry("2025-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseExpiry() = %v, want %v", got, want)
	}

	// Malformed input must surface an error, not a zero-day fallback.
	if _, err := classify.ParseExpiry("03/01/2025"); err == nil {
		t.Error("expected error for malformed date")
	}
	if _, err := classify.ParseExpiry(""); err == nil {
		t.Error("expected error for empty date")
	}
}

func TestExpiryAlert(t *testing.T) {
	tests := []struct {
		days         int
		wantSeverity string
		wantMessage  string
	}{
		{-5, classify.SeverityCritical, "EXPIRED 5 days ago"},
		{0, classify.SeverityCritical, "EXPIRES TODAY"},
		{7, classify.SeverityCritical, "CRITICAL: expires in 7 days"},
		{8, classify.SeverityWarning, "WARNING: expires in 8 days"},
		{30, classify.SeverityWarning, "WARNING: expires in 30 days"},
		{31, classify.SeverityInfo, "INFO: expires in 31 days"},
		{90, classify.SeverityInfo, "INFO: expires in 90 days"},
		{91, classify.SeverityGood, "Good: 91 days until expiry"},
		{classify.NoExpiry, classify.SeverityGood, "No expiry date recorded"},
	}

	for _, tt := range tests {
		got := classify.ExpiryAlert(tt.days)
		if got.Severity != tt.wantSeverity {
			t.Errorf("ExpiryAlert(%d).Severity = %q, want %q", tt.days, got.Severity, tt.wantSeverity)
		}
		if got.Message != tt.wantMessage {
			t.Errorf("ExpiryAlert(%d).Message = %q, want %q", tt.days, got.Message, tt.wantMessage)
		}
	}
}

func TestAlertPriority(t *testing.T) {
	tests := []struct {
		name         string
		currentStock int
		reorderPoint int
		days         int
		want         int
	}{
		{"healthy stock, far expiry", 100, 10, classify.NoExpiry, 0},
		{"out of stock only", 0, 10, classify.NoExpiry, 10},
		{"half reorder point", 5, 10, classify.NoExpiry, 8},
		{"at reorder point", 10, 10, classify.NoExpiry, 5},
		{"expired only", 100, 10, -1, 10},
		{"expires within a week", 100, 10, 5, 8},
		{"expires within a month", 100, 10, 20, 5},
		{"worst case capped at 20", 0, 10, -10, 20},
		{"out of stock and expiring soon", 0, 10, 3, 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify.AlertPriority(tt.currentStock, tt.reorderPoint, tt.days); got != tt.want {
				t.Errorf("AlertPriority(%d, %d, %d) = %d, want %d",
					tt.currentStock, tt.reorderPoint, tt.days, got, tt.want)
			}
		})
	}
}

// Priority must never decrease when stock drops or expiry approaches.
func TestAlertPriority_Monotonic(t *testing.T) {
	const reorderPoint = 10

	prev := -1
	for stock := 50; stock >= -5; stock-- {
		p := classify.AlertPriority(stock, reorderPoint, classify.NoExpiry)
		if p < 0 || p > classify.MaxPriority {
			t.Fatalf("priority %d out of range for stock %d", p, stock)
		}
		if prev >= 0 && p < prev {
			t.Fatalf("priority decreased from %d to %d as stock fell to %d", prev, p, stock)
		}
		prev = p
	}

	prev = -1
	for days := 120; days >= -30; days-- {
		p := classify.AlertPriority(50, reorderPoint, days)
		if prev >= 0 && p < prev {
			t.Fatalf("priority decreased from %d to %d as expiry fell to %d days", prev, p, days)
		}
		prev = p
	}
}

func TestCategorizeByCriticality(t *testing.T) {
	priorities := []int{20, 15, 14, 10, 9, 5, 4, 0, 17, 3}

	buckets := classify.CategorizeByCriticality(priorities, func(p int) int { return p })

	total := len(buckets.Critical) + len(buckets.High) + len(buckets.Medium) + len(buckets.Low)
	if total != len(priorities) {
		t.Fatalf("partition lost or duplicated elements: got %d, want %d", total, len(priorities))
	}

	wantCritical := []int{20, 15, 17}
	wantHigh := []int{14, 10}
	wantMedium := []int{9, 5}
	wantLow := []int{4, 0, 3}

	assertIntSlice(t, "critical", buckets.Critical, wantCritical)
	assertIntSlice(t, "high", buckets.High, wantHigh)
	assertIntSlice(t, "medium", buckets.Medium, wantMedium)
	assertIntSlice(t, "low", buckets.Low, wantLow)
}

func assertIntSlice(t *testing.T, name string, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s bucket = %v, want %v", name, got, want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s bucket = %v, want %v", name, got, want)
			return
		}
	}
}
