package cohort

import (
	"errors"

	"github.com/carbocation/kdridca/registry"
)

// ErrNoFollowUp marks a record with no graft-failure, death, or
// last-contact date: its time on study is undefined.
var ErrNoFollowUp = errors.New("no follow-up date available")

const hoursPerDay = 24

// DeriveOutcome computes the censored time on study and the event
// indicator for one record. The follow-up clock ends at the first available
// of: graft-failure date, death date, last-contact date, in that priority
// order. The event is observed when a graft-failure date is present or the
// follow-up status says the recipient died; otherwise the time is censored.
func DeriveOutcome(r registry.DonorRecord) (days float64, event float64, err error) {
	tx, ok := r.Transplant()
	if !ok {
		return 0, 0, ErrNoFollowUp
	}

	end, ok := r.GraftFailure()
	if !ok {
		end, ok = r.Death()
	}
	if !ok {
		end, ok = r.LastContact()
	}
	if !ok {
		return 0, 0, ErrNoFollowUp
	}

	if _, failed := r.GraftFailure(); failed || r.Deceased() {
		event = 1
	}

	return end.Sub(tx).Hours() / hoursPerDay, event, nil
}
