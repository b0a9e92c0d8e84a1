package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharmtrack/pharmtrack-backend/internal/inventory/classify"
	"github.com/pharmtrack/pharmtrack-backend/internal/inventory/events"
	"github.com/pharmtrack/pharmtrack-backend/internal/inventory/repository"
	"github.com/pharmtrack/pharmtrack-backend/pkg/logger"
	"github.com/pharmtrack/pharmtrack-backend/pkg/messaging"
)

// Repository is the persistence surface the service needs
type Repository interface {
	Create(ctx context.Context, m *repository.Medicine) error
	GetByID(ctx context.Context, id string) (*repository.Medicine, error)
	ListAll(ctx context.Context) ([]*repository.Medicine, error)
	Update(ctx context.Context, m *repository.Medicine) error
	UpdateStock(ctx context.Context, id string, newStock int, reason string) (*repository.StockHistoryEntry, error)
	LowStock(ctx context.Context) ([]*repository.Medicine, error)
	Expiring(ctx context.Context, withinDays int) ([]*repository.Medicine, error)
	Search(ctx context.Context, term string) ([]*repository.Medicine, error)
	History(ctx context.Context, medicineID *string, limit int) ([]*repository.StockHistoryEntry, error)
	Delete(ctx context.Context, id string) error
}

// InventoryService implements the medicine inventory business logic
type InventoryService struct {
	repo   Repository
	events *events.InventoryEvents
	logger *logger.Logger
	now    func() time.Time
}

// NewInventoryService creates a new inventory service
func NewInventoryService(repo Repository, ev *events.InventoryEvents, log *logger.Logger) *InventoryService {
	return &InventoryService{
		repo:   repo,
		events: ev,
		logger: log.WithComponent("inventory-service"),
		now:    time.Now,
	}
}

// MedicineView is a medicine enriched with the derived fields the dashboard
// consumes. Derived fields are computed at read time so they always reflect
// the current date.
type MedicineView struct {
	repository.Medicine
	StockStatus     classify.Status      `json:"stock_status"`
	DaysUntilExpiry *int                 `json:"days_until_expiry,omitempty"`
	ExpiryAlert     classify.Alert       `json:"expiry_alert"`
	Priority        int                  `json:"priority"`
	Criticality     classify.Criticality `json:"criticality"`
	TotalValue      decimal.Decimal      `json:"total_value"`
}

func (s *InventoryService) toView(m *repository.Medicine) *MedicineView {
	expiryDays := classify.NoExpiry
	var daysPtr *int
	if m.ExpiryDate != nil {
		d := classify.DaysUntilExpiry(*m.ExpiryDate, s.now())
		expiryDays = d
		daysPtr = &d
	}

	priority := classify.AlertPriority(m.CurrentStock, m.ReorderPoint, expiryDays)

	return &MedicineView{
		Medicine:        *m,
		StockStatus:     classify.StockStatus(m.CurrentStock, m.ReorderPoint),
		DaysUntilExpiry: daysPtr,
		ExpiryAlert:     classify.ExpiryAlert(expiryDays),
		Priority:        priority,
		Criticality:     classify.CriticalityFor(priority),
		TotalValue:      m.UnitPrice.Mul(decimal.NewFromInt(int64(m.CurrentStock))),
	}
}

func (s *InventoryService) toViews(medicines []*repository.Medicine) []*MedicineView {
	views := make([]*MedicineView, 0, len(medicines))
	for _, m := range medicines {
		views = append(views, s.toView(m))
	}
	return views
}

// CreateMedicine registers a new medicine
func (s *InventoryService) CreateMedicine(ctx context.Context, m *repository.Medicine) (*MedicineView, error) {
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info().Str("medicine_id", m.ID).Str("name", m.Name).Msg("medicine created")

	category := ""
	if m.Category != nil {
		category = *m.Category
	}
	s.events.MedicineAdded(ctx, messaging.MedicineEvent{
		MedicineID: m.ID,
		Name:       m.Name,
		Category:   category,
	})

	return s.toView(m), nil
}

// GetMedicine returns a single medicine with derived fields
func (s *InventoryService) GetMedicine(ctx context.Context, id string) (*MedicineView, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toView(m), nil
}

// ListMedicines returns all medicines with derived fields
func (s *InventoryService) ListMedicines(ctx context.Context) ([]*MedicineView, error) {
	medicines, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.toViews(medicines), nil
}

// UpdateMedicine edits a medicine's descriptive fields. Stock changes go
// through UpdateStock.
func (s *InventoryService) UpdateMedicine(ctx context.Context, m *repository.Medicine) (*MedicineView, error) {
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return s.GetMedicine(ctx, m.ID)
}

// DeleteMedicine removes a medicine and, via cascade, its stock history
func (s *InventoryService) DeleteMedicine(ctx context.Context, id string) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("medicine_id", id).Msg("medicine deleted")
	s.events.MedicineRemoved(ctx, messaging.MedicineEvent{MedicineID: id, Name: m.Name})

	return nil
}

// UpdateStock sets a new stock level, records the change, and raises a
// low-stock alert event when the new level is at or below the reorder point.
func (s *InventoryService) UpdateStock(ctx context.Context, id string, newStock int, reason string) (*MedicineView, *repository.StockHistoryEntry, error) {
	entry, err := s.repo.UpdateStock(ctx, id, newStock, reason)
	if err != nil {
		return nil, nil, err
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	view := s.toView(m)

	s.logger.Info().
		Str("medicine_id", id).
		Int("old_stock", entry.OldStock).
		Int("new_stock", entry.NewStock).
		Str("reason", entry.ChangeReason).
		Msg("stock updated")

	s.events.StockAdjusted(ctx, messaging.StockAdjustedEvent{
		MedicineID: id,
		Name:       m.Name,
		OldStock:   entry.OldStock,
		NewStock:   entry.NewStock,
		Reason:     entry.ChangeReason,
	})

	if view.StockStatus == classify.StatusCritical || view.StockStatus == classify.StatusLow {
		severity := classify.SeverityWarning
		if view.StockStatus == classify.StatusCritical {
			severity = classify.SeverityCritical
		}
		s.events.AlertGenerated(ctx, messaging.AlertGeneratedEvent{
			MedicineID: id,
			Name:       m.Name,
			AlertType:  "low_stock",
			Severity:   severity,
			Message:    fmt.Sprintf("%s: %d units remaining (reorder point %d)", view.StockStatus, m.CurrentStock, m.ReorderPoint),
			Priority:   view.Priority,
		})
	}

	return view, entry, nil
}

// LowStockMedicines returns medicines at or below their reorder point
func (s *InventoryService) LowStockMedicines(ctx context.Context) ([]*MedicineView, error) {
	medicines, err := s.repo.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	return s.toViews(medicines), nil
}

// ExpiringMedicines returns medicines expiring within the given number of days
func (s *InventoryService) ExpiringMedicines(ctx context.Context, withinDays int) ([]*MedicineView, error) {
	medicines, err := s.repo.Expiring(ctx, withinDays)
	if err != nil {
		return nil, err
	}
	return s.toViews(medicines), nil
}

// SearchMedicines returns medicines matching the term by name or category
func (s *InventoryService) SearchMedicines(ctx context.Context, term string) ([]*MedicineView, error) {
	medicines, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return s.toViews(medicines), nil
}

// StockHistory returns recorded stock changes, most recent first
func (s *InventoryService) StockHistory(ctx context.Context, medicineID *string, limit int) ([]*repository.StockHistoryEntry, error) {
	if medicineID != nil {
		// Surface NotFound for unknown medicines instead of an empty list.
		if _, err := s.repo.GetByID(ctx, *medicineID); err != nil {
			return nil, err
		}
	}
	return s.repo.History(ctx, medicineID, limit)
}
