package loan

import (
	"time"

	"github.com/af2233/DB-Course-Work-Academic-Library/internal/api"
)

// Status is derived from a loan's dates, never stored: an open loan is active
// until its due date passes; a closed one is returned, late if the return
// happened after the due date.
type Status string

const (
	StatusActive       Status = "active"
	StatusOverdue      Status = "overdue"
	StatusReturned     Status = "returned"
	StatusReturnedLate Status = "returned late"
)

// StatusOf classifies a loan as of the given day.
func StatusOf(l api.Loan, today time.Time) Status {
	day := api.NewDate(today)
	if l.ReturnDate == nil || l.ReturnDate.IsZero() {
		if !l.DueDate.IsZero() && l.DueDate.Before(day.Time) {
			return StatusOverdue
		}
		return StatusActive
	}
	if !l.DueDate.IsZero() && l.ReturnDate.After(l.DueDate.Time) {
		return StatusReturnedLate
	}
	return StatusReturned
}
