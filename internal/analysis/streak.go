package analysis

import (
	"time"

	"PriceTrack/internal/domain/models"
)

// Streak finds the maximal trailing run of same-direction, non-zero
// price changes in the series. It walks backwards from the most recent
// observation and halts at the first pair that reverses sign, is flat,
// or has a missing value; a missing value is never skipped over. A run
// must span at least two observations to count; otherwise nil is
// returned and any previously stored streak should be retracted.
func Streak(series models.Series, now time.Time) *models.PriceStreak {
	n := len(series)
	if n < 2 {
		return nil
	}

	length := 1
	start := n - 1
	var direction models.StreakDirection

	for i := n - 1; i >= 1; i-- {
		cur := series[i].Value
		prev := series[i-1].Value
		if cur == nil || prev == nil {
			break
		}

		diff := *cur - *prev
		var d models.StreakDirection
		switch {
		case diff > 0:
			d = models.StreakIncrease
		case diff < 0:
			d = models.StreakDecrease
		default:
			// flat pair terminates the run
			d = ""
		}
		if d == "" || (direction != "" && d != direction) {
			break
		}

		direction = d
		length++
		start = i - 1
	}

	if length < 2 || direction == "" {
		return nil
	}

	data := make([]models.StreakPoint, 0, n-start)
	for i := start; i < n; i++ {
		data = append(data, models.StreakPoint{
			RefDate: series[i].RefDate,
			Value:   series[i].Value,
		})
	}

	last := series[n-1]
	return &models.PriceStreak{
		Product:      last.Product,
		Geo:          last.Geo,
		StreakLength: length,
		StreakType:   direction,
		Data:         data,
		LastUpdated:  now,
	}
}
