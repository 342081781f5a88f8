package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scooterco/scooter-rental-api/pricing"
)

func TestCalculateGracePeriod(t *testing.T) {
	p := pricing.DefaultPolicy()

	for _, minutes := range []float64{0, 1, 2} {
		cost, err := pricing.Calculate(minutes, p)
		assert.NoError(t, err)
		assert.Equal(t, pricing.TierGracePeriod, cost.PricingTier)
		assert.Equal(t, 0.0, cost.UnlockFee)
		assert.Equal(t, 0.0, cost.RentalFee)
		assert.Equal(t, 0.0, cost.TotalCost)
	}

	// Just past the grace period the unlock fee applies
	cost, err := pricing.Calculate(2.1, p)
	assert.NoError(t, err)
	assert.Equal(t, pricing.TierHourly, cost.PricingTier)
	assert.Equal(t, 1.00, cost.UnlockFee)
	assert.Greater(t, cost.TotalCost, 0.0)
}

func TestCalculateHourlyIncrements(t *testing.T) {
	p := pricing.DefaultPolicy()

	// 75 minutes bills as five 15-minute increments: 1.25h * $3.50 = $4.375,
	// rounded to $4.38, plus the $1.00 unlock fee
	cost, err := pricing.Calculate(75, p)
	assert.NoError(t, err)
	assert.Equal(t, pricing.TierHourly, cost.PricingTier)
	assert.Equal(t, 1.00, cost.UnlockFee)
	assert.Equal(t, 4.38, cost.RentalFee)
	assert.Equal(t, 5.38, cost.TotalCost)

	// A 3-minute ride still pays for one full minimum increment
	cost, err = pricing.Calculate(3, p)
	assert.NoError(t, err)
	assert.Equal(t, pricing.TierHourly, cost.PricingTier)
	assert.Equal(t, 0.88, cost.RentalFee)
	assert.Equal(t, 1.88, cost.TotalCost)

	// 16 minutes rounds up to two increments
	cost, err = pricing.Calculate(16, p)
	assert.NoError(t, err)
	assert.Equal(t, 1.75, cost.RentalFee)
}

func TestCalculateTierSelection(t *testing.T) {
	p := pricing.DefaultPolicy()

	tests := []struct {
		name      string
		minutes   float64
		wantTier  string
		wantFee   float64
		wantTotal float64
	}{
		{name: "long hourly capped at daily", minutes: 10 * 60, wantTier: pricing.TierDaily, wantFee: 25.00, wantTotal: 26.00},
		{name: "full day", minutes: 24 * 60, wantTier: pricing.TierDaily, wantFee: 25.00, wantTotal: 26.00},
		{name: "three days discounted", minutes: 3 * 24 * 60, wantTier: pricing.TierMultiDay, wantFee: 63.00, wantTotal: 64.00},
		{name: "partial third day rounds up", minutes: 2.5 * 24 * 60, wantTier: pricing.TierMultiDay, wantFee: 63.00, wantTotal: 64.00},
		{name: "six days capped at weekly", minutes: 6 * 24 * 60, wantTier: pricing.TierWeekly, wantFee: 99.00, wantTotal: 100.00},
		{name: "two weeks", minutes: 14 * 24 * 60, wantTier: pricing.TierWeekly, wantFee: 198.00, wantTotal: 199.00},
		{name: "thirty days monthly", minutes: 30 * 24 * 60, wantTier: pricing.TierMonthly, wantFee: 299.00, wantTotal: 300.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := pricing.Calculate(tt.minutes, p)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantTier, cost.PricingTier)
			assert.Equal(t, tt.wantFee, cost.RentalFee)
			assert.Equal(t, tt.wantTotal, cost.TotalCost)
		})
	}
}

// The fare never decreases as the ride gets longer, and a rental never costs
// more than the next-longer flat tier would have.
func TestCalculateMonotonicAndCapped(t *testing.T) {
	p := pricing.DefaultPolicy()

	prev := 0.0
	for minutes := 0.0; minutes <= 31*24*60; minutes += 30 {
		cost, err := pricing.Calculate(minutes, p)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, cost.TotalCost, prev, "fare decreased at %v minutes", minutes)
		prev = cost.TotalCost
	}

	// Caps against the flat tiers
	day, _ := pricing.Calculate(23*60, p)
	assert.LessOrEqual(t, day.RentalFee, p.DailyRate)

	week, _ := pricing.Calculate(6.5*24*60, p)
	assert.LessOrEqual(t, week.RentalFee, p.WeeklyRate)

	month, _ := pricing.Calculate(29*24*60, p)
	assert.LessOrEqual(t, month.RentalFee, p.MonthlyRate)
}

func TestCalculateInvalidDuration(t *testing.T) {
	p := pricing.DefaultPolicy()

	_, err := pricing.Calculate(-1, p)
	assert.ErrorIs(t, err, pricing.ErrInvalidDuration)
}

func TestEstimate(t *testing.T) {
	p := pricing.DefaultPolicy()

	est, err := pricing.Estimate(2, 0, p)
	assert.NoError(t, err)
	assert.Equal(t, pricing.TierHourly, est.PricingTier)
	assert.Equal(t, 8.00, est.TotalCost) // 2h * $3.50 + $1.00

	est, err = pricing.Estimate(0, 3, p)
	assert.NoError(t, err)
	assert.Equal(t, pricing.TierMultiDay, est.PricingTier)
	assert.Equal(t, 64.00, est.TotalCost)

	_, err = pricing.Estimate(0, 0, p)
	assert.ErrorIs(t, err, pricing.ErrInvalidDuration)
}
