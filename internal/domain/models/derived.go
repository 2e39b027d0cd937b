package models

import "time"

// StreakDirection classifies a run of consecutive price changes.
type StreakDirection string

const (
	StreakIncrease StreakDirection = "increase"
	StreakDecrease StreakDirection = "decrease"
)

// PriceChange is the month-over-month delta between the two most recent
// observations of a pair's series. At most one document exists per
// (geo, product); it is replaced on every recomputation.
type PriceChange struct {
	Product       string    `bson:"product" json:"product"`
	Geo           string    `bson:"geo" json:"geo"`
	CurrentPrice  float64   `bson:"currentPrice" json:"currentPrice"`
	PreviousPrice float64   `bson:"previousPrice" json:"previousPrice"`
	Change        float64   `bson:"change" json:"change"`
	ChangePercent float64   `bson:"changePercent" json:"changePercent"`
	CurrentDate   string    `bson:"currentDate" json:"currentDate"`
	PreviousDate  string    `bson:"previousDate" json:"previousDate"`
	LastUpdated   time.Time `bson:"lastUpdated" json:"lastUpdated"`
}

// StreakPoint is one observation inside a streak's covered run.
type StreakPoint struct {
	RefDate string   `bson:"REF_DATE" json:"refDate"`
	Value   *float64 `bson:"VALUE" json:"value"`
}

// PriceStreak is the maximal trailing run of same-direction price
// changes for a pair. It exists only while a streak of length >= 2 is
// active and is deleted outright when the streak no longer holds.
type PriceStreak struct {
	Product      string          `bson:"product" json:"product"`
	Geo          string          `bson:"geo" json:"geo"`
	StreakLength int             `bson:"streakLength" json:"streakLength"`
	StreakType   StreakDirection `bson:"streakType" json:"streakType"`
	Data         []StreakPoint   `bson:"data" json:"data"`
	LastUpdated  time.Time       `bson:"lastUpdated" json:"lastUpdated"`
}
