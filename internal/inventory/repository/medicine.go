package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/pharmtrack/pharmtrack-backend/pkg/database"
	"github.com/pharmtrack/pharmtrack-backend/pkg/errors"
)

// Medicine represents one inventory row. Stock status, expiry alerts and
// priority are derived on read and never stored.
type Medicine struct {
	ID           string          `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	CurrentStock int             `db:"current_stock" json:"current_stock"`
	ReorderPoint int             `db:"reorder_point" json:"reorder_point"`
	ExpiryDate   *time.Time      `db:"expiry_date" json:"expiry_date,omitempty"`
	UnitPrice    decimal.Decimal `db:"unit_price" json:"unit_price"`
	BatchNumber  *string         `db:"batch_number" json:"batch_number,omitempty"`
	Supplier     *string         `db:"supplier" json:"supplier,omitempty"`
	Category     *string         `db:"category" json:"category,omitempty"`
	Location     *string         `db:"location" json:"location,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

const medicineColumns = `id, name, current_stock, reorder_point, expiry_date,
       unit_price, batch_number, supplier, category, location,
       created_at, updated_at`

// MedicineRepository handles medicine persistence
type MedicineRepository struct {
	db *database.DB
}

// NewMedicineRepository creates a new medicine repository
func NewMedicineRepository(db *database.DB) *MedicineRepository {
	return &MedicineRepository{db: db}
}

// Create inserts a new medicine
func (r *MedicineRepository) Create(ctx context.Context, m *Medicine) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}

	query := `
		INSERT INTO medicines (id, name, current_stock, reorder_point, expiry_date,
		                       unit_price, batch_number, supplier, category, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		m.ID, m.Name, m.CurrentStock, m.ReorderPoint, m.ExpiryDate,
		m.UnitPrice, m.BatchNumber, m.Supplier, m.Category, m.Location,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	return nil
}

// GetByID gets a medicine by ID
func (r *MedicineRepository) GetByID(ctx context.Context, id string) (*Medicine, error) {
	var m Medicine

	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1`

	err := r.db.GetContext(ctx, &m, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("medicine")
	}
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// ListAll returns all medicines ordered by name
func (r *MedicineRepository) ListAll(ctx context.Context) ([]*Medicine, error) {
	var medicines []*Medicine

	query := `SELECT ` + medicineColumns + ` FROM medicines ORDER BY name`

	if err := r.db.SelectContext(ctx, &medicines, query); err != nil {
		return nil, err
	}

	return medicines, nil
}

// Update edits a medicine's fields. Stock is mutated only through UpdateStock
// so every change leaves a history row.
func (r *MedicineRepository) Update(ctx context.Context, m *Medicine) error {
	query := `
		UPDATE medicines SET
			name = $2, reorder_point = $3, expiry_date = $4, unit_price = $5,
			batch_number = $6, supplier = $7, category = $8, location = $9,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		m.ID, m.Name, m.ReorderPoint, m.ExpiryDate, m.UnitPrice,
		m.BatchNumber, m.Supplier, m.Category, m.Location,
	)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("medicine")
	}

	return nil
}

// UpdateStock sets a new stock level and appends the change to stock_history.
// Both statements run in one transaction: the update and its history row
// succeed or fail together.
func (r *MedicineRepository) UpdateStock(ctx context.Context, id string, newStock int, reason string) (*StockHistoryEntry, error) {
	if reason == "" {
		reason = DefaultChangeReason
	}

	entry := &StockHistoryEntry{
		ID:           uuid.New().String(),
		MedicineID:   id,
		NewStock:     newStock,
		ChangeReason: reason,
	}

	err := r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		var oldStock int
		err := tx.QueryRowxContext(ctx,
			`SELECT current_stock FROM medicines WHERE id = $1 FOR UPDATE`, id,
		).Scan(&oldStock)
		if err == sql.ErrNoRows {
			return errors.NotFound("medicine")
		}
		if err != nil {
			return err
		}
		entry.OldStock = oldStock

		_, err = tx.ExecContext(ctx,
			`UPDATE medicines SET current_stock = $2, updated_at = NOW() WHERE id = $1`,
			id, newStock,
		)
		if err != nil {
			if appErr := database.MapPQError(err); appErr != nil {
				return appErr
			}
			return err
		}

		return tx.QueryRowxContext(ctx,
			`INSERT INTO stock_history (id, medicine_id, old_stock, new_stock, change_reason)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING changed_at`,
			entry.ID, entry.MedicineID, entry.OldStock, entry.NewStock, entry.ChangeReason,
		).Scan(&entry.ChangedAt)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// LowStock returns medicines at or below their reorder point, most depleted first
func (r *MedicineRepository) LowStock(ctx context.Context) ([]*Medicine, error) {
	var medicines []*Medicine

	query := `SELECT ` + medicineColumns + `
		FROM medicines
		WHERE current_stock <= reorder_point
		ORDER BY current_stock ASC`

	if err := r.db.SelectContext(ctx, &medicines, query); err != nil {
		return nil, err
	}

	return medicines, nil
}

// Expiring returns medicines whose expiry date falls within the given number
// of days, soonest first. Medicines without a known expiry are excluded.
func (r *MedicineRepository) Expiring(ctx context.Context, withinDays int) ([]*Medicine, error) {
	var medicines []*Medicine

	query := `SELECT ` + medicineColumns + `
		FROM medicines
		WHERE expiry_date IS NOT NULL
		  AND expiry_date <= CURRENT_DATE + $1::int
		ORDER BY expiry_date ASC`

	if err := r.db.SelectContext(ctx, &medicines, query, withinDays); err != nil {
		return nil, err
	}

	return medicines, nil
}

// Search returns medicines whose name or category contains the term,
// case-insensitive, ordered by name
func (r *MedicineRepository) Search(ctx context.Context, term string) ([]*Medicine, error) {
	var medicines []*Medicine

	query := `SELECT ` + medicineColumns + `
		FROM medicines
		WHERE name ILIKE $1 OR category ILIKE $1
		ORDER BY name`

	if err := r.db.SelectContext(ctx, &medicines, query, "%"+term+"%"); err != nil {
		return nil, err
	}

	return medicines, nil
}

// Delete removes a medicine. Its history rows are removed by the
// stock_history foreign key cascade in the same statement's transaction.
func (r *MedicineRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("medicine")
	}

	return nil
}
