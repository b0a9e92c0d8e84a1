package classify_test

import (
	"testing"

	"github.com/pharmtrack/pharmtrack-backend/internal/inventory/classify"
)

func floatPtr(f float64) *float64 { return &f }

func TestSuggestReorderQuantity(t *testing.T) {
	tests := []struct {
		name          string
		currentStock  int
		reorderPoint  int
		avgDailyUsage *float64
		leadTimeDays  int
		want          int
	}{
		{
			name:         "no usage data uses flat floor of 30",
			currentStock: 5, reorderPoint: 10,
			avgDailyUsage: nil, leadTimeDays: classify.DefaultLeadTimeDays,
			want: 30, // max(2*10, 30)
		},
		{
			name:         "no usage data with high reorder point",
			currentStock: 5, reorderPoint: 40,
			avgDailyUsage: nil, leadTimeDays: classify.DefaultLeadTimeDays,
			want: 80, // max(2*40, 30)
		},
		{
			name:         "usage data covers lead time plus safety stock",
			currentStock: 10, reorderPoint: 10,
			avgDailyUsage: floatPtr(5), leadTimeDays: 7,
			want: 40, // 5*7 + 5*3 - 10
		},
		{
			name:         "usage-based suggestion floored at reorder point",
			currentStock: 100, reorderPoint: 10,
			avgDailyUsage: floatPtr(1), leadTimeDays: 7,
			want: 10, // 1*7 + 1*3 - 100 is negative
		},
		{
			name:         "fractional usage truncates",
			currentStock: 0, reorderPoint: 3,
			avgDailyUsage: floatPtr(1.5), leadTimeDays: 7,
			want: 15, // 1.5*10 = 15.0
		},
		{
			name:         "never negative even with zero reorder point",
			currentStock: 50, reorderPoint: 0,
			avgDailyUsage: floatPtr(2), leadTimeDays: 7,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify.SuggestReorderQuantity(tt.currentStock, tt.reorderPoint, tt.avgDailyUsage, tt.leadTimeDays)
			if got != tt.want {
				t.Errorf("SuggestReorderQuantity() = %d, want %d", got, tt.want)
			}
		})
	}
}
