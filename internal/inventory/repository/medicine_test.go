package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmtrack/pharmtrack-backend/pkg/database"
	"github.com/pharmtrack/pharmtrack-backend/pkg/errors"
	"github.com/pharmtrack/pharmtrack-backend/pkg/logger"
	"github.com/pharmtrack/pharmtrack-backend/pkg/testutil"
)

func newTestRepo(t *testing.T) (*MedicineRepository, *testutil.MockDB) {
	t.Helper()
	mockDB := testutil.NewMockDB(t)
	log := logger.New("repository-test", "development")
	repo := NewMedicineRepository(database.NewFromSqlx(mockDB.DB, log))
	return repo, mockDB
}

func medicineRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "current_stock", "reorder_point", "expiry_date",
		"unit_price", "batch_number", "supplier", "category", "location",
		"created_at", "updated_at",
	})
}

func TestMedicineRepository_GetByID(t *testing.T) {
	repo, mockDB := newTestRepo(t)
	defer mockDB.Close()

	expiry := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mockDB.ExpectQuery("FROM medicines WHERE id = $1").
		WithArgs("med-1").
		WillReturnRows(medicineRows().AddRow(
			"med-1", "Paracetamol 500mg", 120, 20, expiry,
			"4.50", "BN-001", "Acme Pharma", "Analgesic", "Shelf A1",
			now, now,
		))

	m, err := repo.GetByID(context.Background(), "med-1")
	require.NoError(t, err)
	assert.Equal(t, "Paracetamol 500mg", m.Name)
	assert.Equal(t, 120, m.CurrentStock)
	assert.Equal(t, 20, m.ReorderPoint)
	require.NotNil(t, m.ExpiryDate)
	assert.True(t, m.UnitPrice.Equal(decimal.RequireFromString("4.50")))

	mockDB.ExpectationsWereMet(t)
}

func TestMedicineRepository_GetByID_NotFound(t *testing.T) {
	repo, mockDB := newTestRepo(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("FROM medicines WHERE id = $1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, errors.ErrNotFound)

	mockDB.ExpectationsWereMet(t)
}

func TestMedicineRepository_Create(t *testing.T) {
	repo, mockDB := newTestRepo(t)
	defer mockDB.Close()

	now := time.Now()
	mockDB.ExpectQuery("INSERT INTO medicines").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	m := &Medicine{
		Name:         "Ibuprofen 400mg",
		CurrentStock: 50,
		ReorderPoint: 10,
		UnitPrice:    decimal.RequireFromString("6.20"),
	}
	require.NoError(t, repo.Create(context.Background(), m))
	assert.NotEmpty(t, m.ID, "create should assign an id")
	assert.Equal(t, now, m.CreatedAt)

	mockDB.ExpectationsWereMet(t)
}

func TestMedicineRepository_UpdateStock(t *testing.T) {
	repo, mockDB := newTestRepo(t)
	defer mockDB.Close()

	changedAt := time.Now()

	mockDB.ExpectBegin()
	mockDB.ExpectQuery("SELECT current_stock FROM medicines WHERE id = $1 FOR UPDATE").
		WithArgs("med-1").
		WillReturnRows(sqlmock.NewRows([]string{"current_stock"}).AddRow(80))
	mockDB.ExpectExec("UPDATE medicines SET current_stock = $2").
		WithArgs("med-1", 50).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectQuery("INSERT INTO stock_history").
		WillReturnRows(sqlmock.NewRows([]string{"changed_at"}).AddRow(changedAt))
	mockDB.ExpectCommit()

	entry, err := repo.UpdateStock(context.Background(), "med-1", 50, "Dispensed")
	require.NoError(t, err)
	assert.Equal(t, 80, entry.OldStock)
	assert.Equal(t, 50, entry.NewStock)
	assert.Equal(t, "Dispensed", entry.ChangeReason)
	assert.Equal(t, changedAt, entry.ChangedAt)

	mockDB.ExpectationsWereMet(t)
}

func TestMedicineRepository_UpdateStock_DefaultReason(t *testing.T) {
	repo, mockDB := newTestRepo(t)
	defer mockDB.Close()

	mockDB.ExpectBegin()
	mockDB.ExpectQuery("SELECT current_stock FROM medicines WHERE id = $1 FOR UPDATE").
		WithArgs("med-1").
		WillReturnRows(sqlmock.NewRows([]string{"current_stock"}).AddRow(10))
	mockDB.ExpectExec("UPDATE medicines SET current_stock = $2").
		WithArgs("med-1", 25).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectQuery("INSERT INTO stock_history").
		WithArgs(sqlmock.AnyArg(), "med-1", 10, 25, DefaultChangeReason).
		WillReturnRows(sqlmock.NewRows([]string{"changed_at"}).AddRow(time.Now()))
	mockDB.ExpectCommit()

	entry, err := repo.UpdateStock(context.Background(), "med-1", 25, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultChangeReason, entry.ChangeReason)

	mockDB.ExpectationsWereMet(t)
}

func TestMedicineRepository_UpdateStock_NotFound(t *testing.T) {
	repo, mockDB := newTestRepo(t)
	defer mockDB.Close()

	mockDB.ExpectBegin()
	mockDB.ExpectQuery("SELECT current_stock FROM medicines WHERE id = $1 FOR UPDATE").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	mockDB.ExpectRollback()

	_, err := repo.UpdateStock(context.Background(), "missing", 10, "")
	assert.ErrorIs(t, err, errors.ErrNotFound)

	mockDB.ExpectationsWereMet(t)
}

func TestMedicineRepository_Update_NotFound(t *testing.T) {
	repo, mockDB := newTestRepo(t)
	defer mockDB.Close()

	mockDB.ExpectExec("UPDATE medicines SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &Medicine{ID: "missing", Name: "X"})
	assert.ErrorIs(t, err, errors.ErrNotFound)

	mockDB.ExpectationsWereMet(t)
}

func TestMedicineRepository_Delete(t *testing.T) {
	repo, mockDB := newTestRepo(t)
	defer mockDB.Close()

	mockDB.ExpectExec("DELETE FROM medicines WHERE id = $1").
		WithArgs("med-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), "med-1"))

	mockDB.ExpectExec("DELETE FROM medicines WHERE id = $1").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), errors.ErrNotFound)

	mockDB.ExpectationsWereMet(t)
}

func TestMedicineRepository_LowStock(t *testing.T) {
	repo, mockDB := newTestRepo(t)
	defer mockDB.Close()

	now := time.Now()
	mockDB.ExpectQuery("WHERE current_stock <= reorder_point").
		WillReturnRows(medicineRows().
			AddRow("med-2", "Insulin", 0, 5, nil, "25.00", nil, nil, nil, nil, now, now).
			AddRow("med-3", "Aspirin", 4, 10, nil, "2.00", nil, nil, nil, nil, now, now))

	medicines, err := repo.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, medicines, 2)
	assert.Equal(t, "Insulin", medicines[0].Name)
	assert.Nil(t, medicines[0].ExpiryDate)

	mockDB.ExpectationsWereMet(t)
}

func TestMedicineRepository_History(t *testing.T) {
	repo, mockDB := newTestRepo(t)
	defer mockDB.Close()

	now := time.Now()
	historyRows := sqlmock.NewRows([]string{
		"id", "medicine_id", "medicine_name", "old_stock", "new_stock", "change_reason", "changed_at",
	}).AddRow("h-2", "med-1", "Paracetamol 500mg", 80, 50, "Dispensed", now).
		AddRow("h-1", "med-1", "Paracetamol 500mg", 100, 80, DefaultChangeReason, now.Add(-time.Hour))

	id := "med-1"
	mockDB.ExpectQuery("WHERE h.medicine_id = $1 ORDER BY h.changed_at DESC LIMIT $2").
		WithArgs(id, 50).
		WillReturnRows(historyRows)

	entries, err := repo.History(context.Background(), &id, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 50, entries[0].NewStock)
	assert.Equal(t, "Paracetamol 500mg", entries[0].MedicineName)

	mockDB.ExpectationsWereMet(t)
}
