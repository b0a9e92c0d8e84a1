package barcode

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// defaultReorderPoint is used when the model suggested no reorder point or
// one that does not parse as a whole number
const defaultReorderPoint = 10

// Suggestions prefills the add-medicine form from a resolved barcode.
// Absent fields stay empty and the form keeps its own defaults.
type Suggestions struct {
	Name         string           `json:"name,omitempty"`
	Category     string           `json:"category,omitempty"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	ReorderPoint int              `json:"reorder_point"`
	BatchNumber  string           `json:"batch_number,omitempty"`
	Location     string           `json:"location,omitempty"`
}

// SuggestMedicineData maps resolved barcode details onto medicine form fields
func SuggestMedicineData(details *MedicineDetails) Suggestions {
	if details == nil {
		return Suggestions{}
	}

	var s Suggestions

	// The standardized model name wins over the raw database title.
	if details.Name != "" {
		s.Name = details.Name
	} else if details.ProductName != "" {
		s.Name = details.ProductName
	}

	s.Category = details.Category

	if details.EstimatedPrice != "" {
		if price, ok := parsePrice(string(details.EstimatedPrice)); ok {
			s.UnitPrice = &price
		}
	}

	s.ReorderPoint = defaultReorderPoint
	if n, err := strconv.Atoi(string(details.SuggestedReorderPoint)); err == nil {
		s.ReorderPoint = n
	}

	if details.Barcode != "" {
		s.BatchNumber = "BC_" + details.Barcode
	}

	s.Location = details.StorageRequirements

	return s
}

// parsePrice extracts a numeric price from free-form model output like
// "$4.50 USD" by keeping only digits and dots
func parsePrice(raw string) (decimal.Decimal, bool) {
	var sb strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			sb.WriteRune(r)
		}
	}

	price, err := decimal.NewFromString(sb.String())
	if err != nil {
		return decimal.Decimal{}, false
	}
	return price, true
}
