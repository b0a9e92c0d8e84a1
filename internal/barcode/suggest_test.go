package barcode

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestMedicineData(t *testing.T) {
	details := &MedicineDetails{
		Barcode:               "036000291452",
		ProductName:           "Panadol 500mg",
		Name:                  "Paracetamol 500mg Tablets",
		Category:              "Over-the-counter",
		EstimatedPrice:        "$4.50 USD",
		SuggestedReorderPoint: "25",
		StorageRequirements:   "Store below 25C",
	}

	s := SuggestMedicineData(details)

	assert.Equal(t, "Paracetamol 500mg Tablets", s.Name, "standardized name wins over database title")
	assert.Equal(t, "Over-the-counter", s.Category)
	require.NotNil(t, s.UnitPrice)
	assert.True(t, s.UnitPrice.Equal(decimal.RequireFromString("4.50")))
	assert.Equal(t, 25, s.ReorderPoint)
	assert.Equal(t, "BC_036000291452", s.BatchNumber)
	assert.Equal(t, "Store below 25C", s.Location)
}

func TestSuggestMedicineData_AIGuess(t *testing.T) {
	// AI-only result with a name but no price or reorder point.
	details := &MedicineDetails{
		Barcode:     "300450449108",
		ProductName: "Amoxicillin 500mg",
		Confidence:  "high",
	}

	s := SuggestMedicineData(details)

	assert.Equal(t, "Amoxicillin 500mg", s.Name)
	assert.Equal(t, "BC_300450449108", s.BatchNumber)
	assert.Equal(t, defaultReorderPoint, s.ReorderPoint)
	assert.Nil(t, s.UnitPrice)
}

func TestSuggestMedicineData_UnparseableNumbers(t *testing.T) {
	details := &MedicineDetails{
		Barcode:               "123",
		ProductName:           "Something",
		EstimatedPrice:        "varies by region",
		SuggestedReorderPoint: "about a dozen",
	}

	s := SuggestMedicineData(details)

	assert.Nil(t, s.UnitPrice, "unparseable price is omitted")
	assert.Equal(t, defaultReorderPoint, s.ReorderPoint, "unparseable reorder point falls back to default")
}

func TestSuggestMedicineData_Nil(t *testing.T) {
	assert.Equal(t, Suggestions{}, SuggestMedicineData(nil))
}
