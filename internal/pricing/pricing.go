package pricing

import (
	"fmt"
	"math"
	"time"

	"trailer-booking-backend/internal/domain"
)

// Tier is the pricing band selected by total rental duration
type Tier string

const (
	TierHourly  Tier = "Hourly"
	TierDaily   Tier = "Daily"
	TierWeekly  Tier = "Weekly"
	TierMonthly Tier = "Monthly"
)

// Duration thresholds in hours. Evaluated highest first, so a rental of
// exactly 168 hours prices at the weekly rate, never at seven daily rates.
const (
	monthlyThresholdHours = 720
	weeklyThresholdHours  = 168
	dailyThresholdHours   = 24

	// minimumHourlyUnits prevents trivially cheap sub-hour bookings
	minimumHourlyUnits = 2
)

// Quote is a priced rental duration. It is derived on demand and embedded
// in checkout metadata or a persisted booking, never stored on its own.
type Quote struct {
	Tier       Tier    `json:"tier"`
	TotalHours float64 `json:"totalHours"`
	Price      int64   `json:"price"` // whole dollars
	Breakdown  string  `json:"breakdown"`
}

// QuoteBooking prices a booking request against the card
func (rc RateCard) QuoteBooking(b *domain.BookingRequest) (*Quote, error) {
	return rc.Quote(b.Trailer, b.StartDate, *b.PickupHour, b.EndDate, *b.DropoffHour)
}

// Quote computes the price for a rental of the given model between
// startDate at pickupHour and endDate at dropoffHour. Both endpoints are
// interpreted in the same local frame; no timezone conversion happens.
// Unknown models return domain.ErrUnknownTrailer. Degenerate durations
// (zero or negative) are clamped by the hourly minimum, not rejected.
func (rc RateCard) Quote(model, startDate string, pickupHour int, endDate string, dropoffHour int) (*Quote, error) {
	rate, ok := rc[model]
	if !ok {
		return nil, domain.ErrUnknownTrailer
	}

	if pickupHour < 0 || pickupHour > 23 {
		return nil, fmt.Errorf("pickup hour must be between 0 and 23, got %d", pickupHour)
	}
	if dropoffHour < 0 || dropoffHour > 23 {
		return nil, fmt.Errorf("dropoff hour must be between 0 and 23, got %d", dropoffHour)
	}

	start, err := parseDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := parseDate(endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", err)
	}

	pickup := start.Add(time.Duration(pickupHour) * time.Hour)
	dropoff := end.Add(time.Duration(dropoffHour) * time.Hour)
	totalHours := dropoff.Sub(pickup).Hours()

	quote := &Quote{TotalHours: totalHours}

	switch {
	case totalHours >= monthlyThresholdHours:
		quote.Tier = TierMonthly
		quote.Price = rate.Monthly
		quote.Breakdown = fmt.Sprintf("1 month × $%d", rate.Monthly)
	case totalHours >= weeklyThresholdHours:
		quote.Tier = TierWeekly
		quote.Price = rate.Weekly
		quote.Breakdown = fmt.Sprintf("1 week × $%d", rate.Weekly)
	case totalHours >= dailyThresholdHours:
		days := int64(math.Ceil(totalHours / 24))
		quote.Tier = TierDaily
		quote.Price = rate.Daily * days
		quote.Breakdown = fmt.Sprintf("%d days × $%d", days, rate.Daily)
	default:
		hours := int64(math.Ceil(totalHours))
		if hours < minimumHourlyUnits {
			hours = minimumHourlyUnits
		}
		quote.Tier = TierHourly
		quote.Price = rate.Hourly * hours
		quote.Breakdown = fmt.Sprintf("%d hours × $%d", hours, rate.Hourly)
	}

	return quote, nil
}

// parseDate converts a yyyy-mm-dd formatted string into a midnight instant
func parseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected yyyy-mm-dd: %w", err)
	}
	return t, nil
}
