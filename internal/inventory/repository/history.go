package repository

import (
	"context"
	"time"
)

// DefaultChangeReason is recorded when a stock update gives no reason
const DefaultChangeReason = "Manual update"

// StockHistoryEntry records one stock level change for a medicine
type StockHistoryEntry struct {
	ID           string    `db:"id" json:"id"`
	MedicineID   string    `db:"medicine_id" json:"medicine_id"`
	MedicineName string    `db:"medicine_name" json:"medicine_name"`
	OldStock     int       `db:"old_stock" json:"old_stock"`
	NewStock     int       `db:"new_stock" json:"new_stock"`
	ChangeReason string    `db:"change_reason" json:"change_reason"`
	ChangedAt    time.Time `db:"changed_at" json:"changed_at"`
}

// History returns stock changes most recent first. A nil medicineID returns
// changes across all medicines; limit <= 0 falls back to 50.
func (r *MedicineRepository) History(ctx context.Context, medicineID *string, limit int) ([]*StockHistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	var entries []*StockHistoryEntry

	query := `
		SELECT h.id, h.medicine_id, m.name AS medicine_name,
		       h.old_stock, h.new_stock, h.change_reason, h.changed_at
		FROM stock_history h
		JOIN medicines m ON m.id = h.medicine_id
	`

	var err error
	if medicineID != nil {
		query += ` WHERE h.medicine_id = $1 ORDER BY h.changed_at DESC LIMIT $2`
		err = r.db.SelectContext(ctx, &entries, query, *medicineID, limit)
	} else {
		query += ` ORDER BY h.changed_at DESC LIMIT $1`
		err = r.db.SelectContext(ctx, &entries, query, limit)
	}
	if err != nil {
		return nil, err
	}

	return entries, nil
}
