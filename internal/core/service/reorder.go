package service

import "math"

type Recommendation string

const (
	ReorderNow Recommendation = "reorder_now"
	Sufficient Recommendation = "sufficient"
)

const (
	DefaultLeadTimeDays = 7
	DefaultSafetyDays   = 3
)

// UnboundedDaysRemaining marks a days-remaining that cannot be computed
// because the sales rate is zero or negative.
const UnboundedDaysRemaining = -1

// ReorderReport turns a raw counter into an actionable replenishment signal
// for the admin surface.
type ReorderReport struct {
	ReorderLevel   int            `json:"reorder_level"`
	DaysRemaining  int            `json:"-"`
	Recommendation Recommendation `json:"recommendation"`
}

// Recommend is pure arithmetic over the current quantity, a sales-rate
// estimate, and lead-time/safety windows. It never touches the ledger.
func Recommend(quantity int, averageDailySales float64, leadTimeDays, safetyDays int) ReorderReport {
	if averageDailySales <= 0 {
		return ReorderReport{
			ReorderLevel:   0,
			DaysRemaining:  UnboundedDaysRemaining,
			Recommendation: Sufficient,
		}
	}

	reorderLevel := int(math.Ceil(averageDailySales*float64(leadTimeDays) + averageDailySales*float64(safetyDays)))
	daysRemaining := int(math.Floor(float64(quantity) / averageDailySales))

	recommendation := Sufficient
	if quantity <= reorderLevel {
		recommendation = ReorderNow
	}

	return ReorderReport{
		ReorderLevel:   reorderLevel,
		DaysRemaining:  daysRemaining,
		Recommendation: recommendation,
	}
}
