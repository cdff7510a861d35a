package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommend(t *testing.T) {
	tests := []struct {
		name              string
		quantity          int
		averageDailySales float64
		leadTimeDays      int
		safetyDays        int
		wantLevel         int
		wantDays          int
		wantRec           Recommendation
	}{
		{
			name:     "low stock with steady sales",
			quantity: 5, averageDailySales: 2, leadTimeDays: 7, safetyDays: 3,
			wantLevel: 20, wantDays: 2, wantRec: ReorderNow,
		},
		{
			name:     "ample stock",
			quantity: 500, averageDailySales: 2, leadTimeDays: 7, safetyDays: 3,
			wantLevel: 20, wantDays: 250, wantRec: Sufficient,
		},
		{
			name:     "exactly at reorder level",
			quantity: 20, averageDailySales: 2, leadTimeDays: 7, safetyDays: 3,
			wantLevel: 20, wantDays: 10, wantRec: ReorderNow,
		},
		{
			name:     "fractional sales rate rounds level up",
			quantity: 100, averageDailySales: 1.5, leadTimeDays: 7, safetyDays: 3,
			wantLevel: 15, wantDays: 66, wantRec: Sufficient,
		},
		{
			name:     "zero sales rate",
			quantity: 5, averageDailySales: 0, leadTimeDays: 7, safetyDays: 3,
			wantLevel: 0, wantDays: UnboundedDaysRemaining, wantRec: Sufficient,
		},
		{
			name:     "negative sales rate treated as zero",
			quantity: 5, averageDailySales: -1, leadTimeDays: 7, safetyDays: 3,
			wantLevel: 0, wantDays: UnboundedDaysRemaining, wantRec: Sufficient,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommend(tt.quantity, tt.averageDailySales, tt.leadTimeDays, tt.safetyDays)
			assert.Equal(t, tt.wantLevel, got.ReorderLevel)
			assert.Equal(t, tt.wantDays, got.DaysRemaining)
			assert.Equal(t, tt.wantRec, got.Recommendation)
		})
	}
}
