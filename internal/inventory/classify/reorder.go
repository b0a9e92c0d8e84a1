package classify

// DefaultLeadTimeDays is assumed when the caller has no supplier lead time.
const DefaultLeadTimeDays = 7

// safetyStockDays is the usage buffer added on top of lead-time demand.
const safetyStockDays = 3

// SuggestReorderQuantity computes a suggested order quantity.
//
// Without usage data the suggestion is a flat max(2*reorderPoint, 30).
// With usage data it covers lead-time demand plus a three-day safety stock,
// less what is already on hand, and never drops below the reorder point.
// The result is truncated to a whole unit count.
func SuggestReorderQuantity(currentStock, reorderPoint int, avgDailyUsage *float64, leadTimeDays int) int {
	if avgDailyUsage == nil {
		suggested := reorderPoint * 2
		if suggested < 30 {
			suggested = 30
		}
		return suggested
	}

	usage := *avgDailyUsage
	orderQuantity := usage*float64(leadTimeDays) + usage*safetyStockDays - float64(currentStock)
	if orderQuantity < float64(reorderPoint) {
		return reorderPoint
	}
	return int(orderQuantity)
}
