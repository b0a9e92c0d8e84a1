package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pharmtrack/pharmtrack-backend/internal/inventory/classify"
)

// DashboardStats summarizes the inventory for the dashboard header
type DashboardStats struct {
	TotalMedicines  int                     `json:"total_medicines"`
	TotalValue      decimal.Decimal         `json:"total_value"`
	LowStockCount   int                     `json:"low_stock_count"`
	ExpiringCount   int                     `json:"expiring_soon_count"`
	ExpiredCount    int                     `json:"expired_count"`
	StatusBreakdown map[classify.Status]int `json:"status_breakdown"`
}

// expiringSoonDays is the window counted as "expiring soon" in dashboard stats
const expiringSoonDays = 30

// Stats computes the dashboard summary across all medicines
func (s *InventoryService) Stats(ctx context.Context) (*DashboardStats, error) {
	views, err := s.ListMedicines(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalMedicines: len(views),
		TotalValue:     decimal.Zero,
		StatusBreakdown: map[classify.Status]int{
			classify.StatusGood:     0,
			classify.StatusWarning:  0,
			classify.StatusLow:      0,
			classify.StatusCritical: 0,
		},
	}

	for _, v := range views {
		stats.TotalValue = stats.TotalValue.Add(v.TotalValue)
		stats.StatusBreakdown[v.StockStatus]++

		if v.StockStatus == classify.StatusLow || v.StockStatus == classify.StatusCritical {
			stats.LowStockCount++
		}
		if v.DaysUntilExpiry != nil {
			switch d := *v.DaysUntilExpiry; {
			case d < 0:
				stats.ExpiredCount++
			case d <= expiringSoonDays:
				stats.ExpiringCount++
			}
		}
	}

	return stats, nil
}

// CriticalityReport ranks the whole inventory into attention buckets
type CriticalityReport struct {
	Buckets classify.Buckets[*MedicineView] `json:"buckets"`
	Counts  map[classify.Criticality]int    `json:"counts"`
}

// Criticality partitions all medicines by alert priority
func (s *InventoryService) Criticality(ctx context.Context) (*CriticalityReport, error) {
	views, err := s.ListMedicines(ctx)
	if err != nil {
		return nil, err
	}

	buckets := classify.CategorizeByCriticality(views, func(v *MedicineView) int {
		return v.Priority
	})

	return &CriticalityReport{
		Buckets: buckets,
		Counts: map[classify.Criticality]int{
			classify.CriticalityCritical: len(buckets.Critical),
			classify.CriticalityHigh:     len(buckets.High),
			classify.CriticalityMedium:   len(buckets.Medium),
			classify.CriticalityLow:      len(buckets.Low),
		},
	}, nil
}

// ReorderSuggestion is a purchase recommendation for one medicine
type ReorderSuggestion struct {
	MedicineID        string          `json:"medicine_id"`
	Name              string          `json:"name"`
	CurrentStock      int             `json:"current_stock"`
	ReorderPoint      int             `json:"reorder_point"`
	SuggestedQuantity int             `json:"suggested_quantity"`
	LeadTimeDays      int             `json:"lead_time_days"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
}

// SuggestReorder recommends an order quantity for a medicine. avgDailyUsage
// is optional; leadTimeDays <= 0 uses the default lead time.
func (s *InventoryService) SuggestReorder(ctx context.Context, id string, avgDailyUsage *float64, leadTimeDays int) (*ReorderSuggestion, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if leadTimeDays <= 0 {
		leadTimeDays = classify.DefaultLeadTimeDays
	}
	qty := classify.SuggestReorderQuantity(m.CurrentStock, m.ReorderPoint, avgDailyUsage, leadTimeDays)

	return &ReorderSuggestion{
		MedicineID:        m.ID,
		Name:              m.Name,
		CurrentStock:      m.CurrentStock,
		ReorderPoint:      m.ReorderPoint,
		SuggestedQuantity: qty,
		LeadTimeDays:      leadTimeDays,
		EstimatedCost:     m.UnitPrice.Mul(decimal.NewFromInt(int64(qty))),
	}, nil
}
