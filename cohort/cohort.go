// Package cohort assembles the analyzable study population: eligible
// records joined with their risk scores, follow-up outcomes, and percentile
// ranks.
package cohort

import (
	"errors"
	"fmt"
	"time"

	"github.com/carbocation/kdridca/kdpi"
	"github.com/carbocation/kdridca/kdri"
	"github.com/carbocation/kdridca/registry"
)

// Member is one fully derived cohort row. Members are immutable once
// assembled; every downstream stage reads them and none writes back.
type Member struct {
	Record registry.DonorRecord
	Risk   kdri.RiskScore

	// FollowUpDays is the censored time on study, in days.
	FollowUpDays float64

	// Event is 1 for observed graft failure or death, 0 for censoring.
	Event float64

	// KDPI is the percentile rank of the donor's normalized risk index.
	KDPI int
}

// Exclusions tallies records dropped during assembly. Each exclusion is a
// recorded policy outcome, not an error: the pipeline reports the counts
// and proceeds with the remaining records.
type Exclusions struct {
	MissingCreatinine int
	UnmappableRisk    int
	NoFollowUp        int
}

func (e Exclusions) Total() int {
	return e.MissingCreatinine + e.UnmappableRisk + e.NoFollowUp
}

func (e Exclusions) String() string {
	return fmt.Sprintf("%d excluded (%d missing creatinine, %d unmappable risk index, %d without follow-up)",
		e.Total(), e.MissingCreatinine, e.UnmappableRisk, e.NoFollowUp)
}

// Filter selects records whose transplant date falls within the inclusive
// study window and whose recipient was at least minAge at transplant.
// Records without a parseable transplant date fall outside any window.
func Filter(records []registry.DonorRecord, start, end time.Time, minAge float64) []registry.DonorRecord {
	out := make([]registry.DonorRecord, 0, len(records))

	for _, r := range records {
		tx, ok := r.Transplant()
		if !ok {
			continue
		}
		if tx.Before(start) || tx.After(end) {
			continue
		}
		if !r.RecipientAge.Valid || r.RecipientAge.Float64 < minAge {
			continue
		}
		out = append(out, r)
	}

	return out
}

// Assemble scores, follows up, and percentile-joins the filtered records.
// Records that cannot be scored, followed up, or mapped are counted and
// dropped; those drops are deliberate analysis policy.
func Assemble(records []registry.DonorRecord, consts kdri.Constants, table *kdpi.Table) ([]Member, Exclusions, error) {
	members := make([]Member, 0, len(records))
	var excl Exclusions

	for _, r := range records {
		risk, err := kdri.Score(r, consts)
		if errors.Is(err, kdri.ErrMissingCreatinine) {
			excl.MissingCreatinine++
			continue
		} else if err != nil {
			return nil, excl, err
		}

		days, event, err := DeriveOutcome(r)
		if errors.Is(err, ErrNoFollowUp) {
			excl.NoFollowUp++
			continue
		} else if err != nil {
			return nil, excl, err
		}

		pct, err := table.Lookup(risk.Normalized)
		if errors.Is(err, kdpi.ErrUnmappable) {
			excl.UnmappableRisk++
			continue
		} else if err != nil {
			return nil, excl, err
		}

		members = append(members, Member{
			Record:       r,
			Risk:         risk,
			FollowUpDays: days,
			Event:        event,
			KDPI:         pct,
		})
	}

	if len(members) == 0 {
		return nil, excl, fmt.Errorf("no analyzable members remain after exclusions: %s", excl)
	}

	return members, excl, nil
}

// Times returns the follow-up times, events, and linear risk scores of the
// members as parallel slices, the layout the survival fitters consume.
func Times(members []Member) (times, events, scores []float64) {
	times = make([]float64, len(members))
	events = make([]float64, len(members))
	scores = make([]float64, len(members))

	for i, m := range members {
		times[i] = m.FollowUpDays
		events[i] = m.Event
		scores[i] = m.Risk.LinearScore
	}

	return times, events, scores
}
