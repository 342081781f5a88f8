// Package pricing maps an elapsed rental duration to a fare breakdown. The
// calculator prices every tier the duration is eligible for and charges the
// cheapest, which is what gives renters the published flat caps: a rental can
// never cost more than the next-longer flat tier would have.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/scooterco/scooter-rental-api/config"
	"github.com/scooterco/scooter-rental-api/models"
)

// ErrInvalidDuration is returned for negative durations, the calculator's
// only failure mode
var ErrInvalidDuration = errors.New("invalid duration")

// Fare tiers
const (
	TierGracePeriod = "grace_period"
	TierHourly      = "hourly"
	TierDaily       = "daily"
	TierMultiDay    = "multi_day"
	TierWeekly      = "weekly"
	TierMonthly     = "monthly"
)

// Policy holds the fare configuration. All rates are USD; none may be
// negative.
type Policy struct {
	UnlockFee          float64         `json:"unlock_fee"`
	HourlyRate         float64         `json:"hourly_rate"`
	MinChargeMinutes   float64         `json:"min_charge_minutes"`
	DailyRate          float64         `json:"daily_rate"`
	MultiDayRates      map[int]float64 `json:"multiday_rates"`
	WeeklyRate         float64         `json:"weekly_rate"`
	MonthlyRate        float64         `json:"monthly_rate"`
	GracePeriodMinutes float64         `json:"grace_period_minutes"`
	MaxDurationDays    int             `json:"max_duration_days"`
}

// DefaultPolicy returns the published rate card
func DefaultPolicy() Policy {
	return Policy{
		UnlockFee:        1.00,
		HourlyRate:       3.50,
		MinChargeMinutes: 15,
		DailyRate:        25.00,
		MultiDayRates: map[int]float64{
			2: 45.00,
			3: 63.00,
			4: 80.00,
			5: 95.00,
			6: 108.00,
		},
		WeeklyRate:         99.00,
		MonthlyRate:        299.00,
		GracePeriodMinutes: 2,
		MaxDurationDays:    30,
	}
}

// PolicyFromEnv returns the default policy with any env overrides applied
func PolicyFromEnv() Policy {
	p := DefaultPolicy()
	p.UnlockFee = config.EnvFloat("RENTAL_UNLOCK_FEE", p.UnlockFee)
	p.HourlyRate = config.EnvFloat("RENTAL_HOURLY_RATE", p.HourlyRate)
	p.MinChargeMinutes = config.EnvFloat("RENTAL_MIN_CHARGE_MINUTES", p.MinChargeMinutes)
	p.DailyRate = config.EnvFloat("RENTAL_DAILY_RATE", p.DailyRate)
	p.WeeklyRate = config.EnvFloat("RENTAL_WEEKLY_RATE", p.WeeklyRate)
	p.MonthlyRate = config.EnvFloat("RENTAL_MONTHLY_RATE", p.MonthlyRate)
	p.GracePeriodMinutes = config.EnvFloat("RENTAL_GRACE_PERIOD_MINUTES", p.GracePeriodMinutes)
	p.MaxDurationDays = config.EnvInt("RENTAL_MAX_DURATION_DAYS", p.MaxDurationDays)
	return p
}

// option is one priced tier candidate
type option struct {
	tier        string
	fee         float64
	description string
}

// Calculate prices an elapsed duration under the given policy. Pure and
// deterministic: the same duration and policy always produce the same
// breakdown.
func Calculate(durationMinutes float64, p Policy) (models.CostBreakdown, error) {
	if durationMinutes < 0 || math.IsNaN(durationMinutes) {
		return models.CostBreakdown{}, fmt.Errorf("%w: duration must be non-negative, got %v", ErrInvalidDuration, durationMinutes)
	}

	totalHours := durationMinutes / 60
	totalDays := totalHours / 24

	breakdown := models.CostBreakdown{
		DurationMinutes: round(durationMinutes, 1),
		DurationHours:   round(totalHours, 2),
		DurationDays:    round(totalDays, 2),
	}

	// Very short accidental unlocks are free
	if durationMinutes <= p.GracePeriodMinutes {
		breakdown.PricingTier = TierGracePeriod
		breakdown.Description = "Grace period - no charge"
		return breakdown, nil
	}

	best := bestRate(durationMinutes, totalHours, totalDays, p)

	breakdown.PricingTier = best.tier
	breakdown.UnlockFee = p.UnlockFee
	breakdown.RentalFee = round(best.fee, 2)
	breakdown.TotalCost = round(p.UnlockFee+breakdown.RentalFee, 2)
	breakdown.Description = best.description
	return breakdown, nil
}

// bestRate prices each tier the duration is eligible for and returns the
// cheapest. Evaluation order (hourly, daily, weekly, monthly) breaks exact
// ties toward the shorter tier.
func bestRate(totalMinutes, totalHours, totalDays float64, p Policy) option {
	var options []option

	// Hourly, billed in minimum-charge increments rounded up; a renter is
	// never charged for less than one full increment.
	billableMinutes := math.Max(p.MinChargeMinutes, totalMinutes)
	increments := math.Ceil(math.Trunc(billableMinutes) / p.MinChargeMinutes)
	hourlyCost := increments * p.MinChargeMinutes / 60 * p.HourlyRate
	options = append(options, option{
		tier:        TierHourly,
		fee:         hourlyCost,
		description: fmt.Sprintf("%.0f min @ $%.2f/hr", increments*p.MinChargeMinutes, p.HourlyRate),
	})

	// Daily and multi-day become eligible at one hour: that is what caps a
	// long hourly rental at the daily rate instead of 23 hourly increments.
	if totalHours >= 1 {
		daysNeeded := int(math.Max(1, math.Ceil(totalDays)))
		switch {
		case daysNeeded == 1:
			options = append(options, option{
				tier:        TierDaily,
				fee:         p.DailyRate,
				description: fmt.Sprintf("1 day @ $%.2f", p.DailyRate),
			})
		case p.MultiDayRates[daysNeeded] > 0:
			options = append(options, option{
				tier:        TierMultiDay,
				fee:         p.MultiDayRates[daysNeeded],
				description: fmt.Sprintf("%d days @ $%.2f (discounted)", daysNeeded, p.MultiDayRates[daysNeeded]),
			})
		case daysNeeded < 7:
			fee := p.DailyRate * float64(daysNeeded) * 0.85
			options = append(options, option{
				tier:        TierMultiDay,
				fee:         fee,
				description: fmt.Sprintf("%d days @ $%.2f (15%% off)", daysNeeded, fee),
			})
		}
	}

	if totalDays >= 5 {
		weeksNeeded := math.Max(1, math.Ceil(totalDays/7))
		options = append(options, option{
			tier:        TierWeekly,
			fee:         weeksNeeded * p.WeeklyRate,
			description: fmt.Sprintf("%.0f week(s) @ $%.2f/wk", weeksNeeded, p.WeeklyRate),
		})
	}

	if totalDays >= 12 {
		monthsNeeded := math.Max(1, math.Ceil(totalDays/30))
		options = append(options, option{
			tier:        TierMonthly,
			fee:         monthsNeeded * p.MonthlyRate,
			description: fmt.Sprintf("%.0f month(s) @ $%.2f/mo", monthsNeeded, p.MonthlyRate),
		})
	}

	best := options[0]
	for _, o := range options[1:] {
		if o.fee < best.fee {
			best = o
		}
	}
	return best
}

// Estimate prices a hypothetical duration, used for pre-rental cost previews
func Estimate(hours, days float64, p Policy) (models.CostBreakdown, error) {
	var minutes float64
	switch {
	case days > 0:
		minutes = days * 24 * 60
	case hours > 0:
		minutes = hours * 60
	default:
		return models.CostBreakdown{}, fmt.Errorf("%w: provide hours or days", ErrInvalidDuration)
	}
	return Calculate(minutes, p)
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
