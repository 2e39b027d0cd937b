package analysis

import (
	"errors"
	"time"

	"PriceTrack/internal/domain/models"
)

var (
	// ErrInsufficientData means the series has fewer than two
	// observations, so no change can be derived.
	ErrInsufficientData = errors.New("analysis: insufficient data")

	// ErrInvalidPriceData means one of the two most recent observations
	// has no value, or the previous value is zero.
	ErrInvalidPriceData = errors.New("analysis: invalid price data")
)

// Change derives the month-over-month price change from the two most
// recent observations of the series. The comparison deliberately uses
// the last two array entries rather than the last two calendar-adjacent
// periods: gaps in the upstream table do not block the computation, and
// downstream consumers depend on that behavior.
func Change(series models.Series, now time.Time) (*models.PriceChange, error) {
	if len(series) < 2 {
		return nil, ErrInsufficientData
	}

	current := series[len(series)-1]
	previous := series[len(series)-2]

	if current.Value == nil || previous.Value == nil || *previous.Value == 0 {
		return nil, ErrInvalidPriceData
	}

	change := *current.Value - *previous.Value
	return &models.PriceChange{
		Product:       current.Product,
		Geo:           current.Geo,
		CurrentPrice:  *current.Value,
		PreviousPrice: *previous.Value,
		Change:        change,
		ChangePercent: change / *previous.Value * 100,
		CurrentDate:   current.RefDate,
		PreviousDate:  previous.RefDate,
		LastUpdated:   now,
	}, nil
}
