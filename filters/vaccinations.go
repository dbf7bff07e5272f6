package filters

import (
	"math"
	"time"
)

// Vaccination is one recorded dose.
type Vaccination struct {
	Name    string `json:"name"`
	Date    string `json:"date"`
	NextDue string `json:"nextDue,omitempty"`
}

// Status classifies a vaccination for display. Class is used as a CSS
// modifier.
type Status struct {
	Class string
	Label string
}

var (
	StatusComplete = Status{Class: "current", Label: "Complete"}
	StatusUnknown  = Status{Class: "unknown", Label: "N/A"}
	StatusOverdue  = Status{Class: "overdue", Label: "Overdue"}
	StatusDueSoon  = Status{Class: "due-soon", Label: "Due Soon"}
	StatusCurrent  = Status{Class: "current", Label: "Current"}
)

// IsLatestVaccination reports whether v is the most recent dose of its
// vaccine in all. Doses without a parseable date never count as newer.
func IsLatestVaccination(v *Vaccination, all []Vaccination) bool {
	if v == nil || all == nil {
		return true
	}
	same := 0
	for _, o := range all {
		if o.Name == v.Name {
			same++
		}
	}
	if same <= 1 {
		return true
	}
	current, ok := ParseDate(v.Date)
	if !ok {
		return true
	}
	for _, o := range all {
		if o.Name != v.Name {
			continue
		}
		if other, ok := ParseDate(o.Date); ok && other.After(current) {
			return false
		}
	}
	return true
}

// VaccinationStatus classifies a dose by its next due date. A dose that
// has been superseded by a newer one of the same vaccine is Complete.
func VaccinationStatus(nextDue string, v *Vaccination, all []Vaccination, now time.Time) Status {
	if v != nil && all != nil && !IsLatestVaccination(v, all) {
		return StatusComplete
	}
	due, ok := ParseDate(nextDue)
	if !ok {
		return StatusUnknown
	}
	days := math.Floor(float64(due.Sub(now).Milliseconds()) / dayMs)
	switch {
	case days < 0:
		return StatusOverdue
	case days <= dueSoonDays:
		return StatusDueSoon
	default:
		return StatusCurrent
	}
}
