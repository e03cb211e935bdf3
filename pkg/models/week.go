package models

import "time"

// Week is one row of the ISO week-number grid.
type Week struct {
	Number    int       `json:"week_number"`
	Start     time.Time `json:"start_date"` // Monday
	End       time.Time `json:"end_date"`   // Sunday
	IsCurrent bool      `json:"is_current_week"`
}
