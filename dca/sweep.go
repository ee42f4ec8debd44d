// Package dca sweeps acceptance thresholds over the assembled cohort and
// derives decision-curve net benefit from the per-threshold confusion
// matrices.
package dca

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/carbocation/kdridca/cohort"
	"github.com/carbocation/kdridca/survival"
)

// ChecksumTolerance bounds how far the four expected counts may drift from
// the cohort size before the row is flagged as inconsistent.
const ChecksumTolerance = 1e-6

// Result is one row of the threshold sweep: the accept/reject split at a
// percentile threshold and the expected counts of surviving and failing
// grafts under each policy arm.
type Result struct {
	Threshold          int
	TotalKidneys       float64
	ProportionAccepted float64

	AcceptSurvive float64
	AcceptFail    float64
	RejectSurvive float64
	RejectFail    float64

	// Err records a per-threshold inconsistency (a checksum drift or an
	// estimator failure). The sweep continues past a bad row.
	Err error
}

// Checksum is the sum of the four expected counts. It must equal
// TotalKidneys within ChecksumTolerance; a drift signals an upstream
// inconsistency rather than a silently acceptable rounding.
func (r Result) Checksum() float64 {
	return floats.Sum([]float64{r.AcceptSurvive, r.AcceptFail, r.RejectSurvive, r.RejectFail})
}

// Sweep evaluates every threshold against the immutable cohort, fanning out
// across at most workers goroutines. Each threshold reads the shared cohort
// and writes only its own result slot, so no locking is needed.
func Sweep(members []cohort.Member, thresholds []int, horizonDays float64, workers int) []Result {
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(thresholds))

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for i, tau := range thresholds {
		wg.Add(1)
		sem <- struct{}{}

		go func(i, tau int) {
			defer wg.Done()
			results[i] = sweepOne(members, tau, horizonDays)
			<-sem
		}(i, tau)
	}

	wg.Wait()

	return results
}

// sweepOne partitions the cohort at one threshold and fills in the expected
// counts. An empty partition contributes zero counts and zero proportion;
// that convention keeps the row arithmetic defined without inventing a
// survival estimate for nobody.
func sweepOne(members []cohort.Member, tau int, horizonDays float64) Result {
	n := float64(len(members))

	res := Result{
		Threshold:    tau,
		TotalKidneys: n,
	}

	var acceptTimes, acceptEvents, rejectTimes, rejectEvents []float64
	for _, m := range members {
		if m.KDPI <= tau {
			acceptTimes = append(acceptTimes, m.FollowUpDays)
			acceptEvents = append(acceptEvents, m.Event)
		} else {
			rejectTimes = append(rejectTimes, m.FollowUpDays)
			rejectEvents = append(rejectEvents, m.Event)
		}
	}

	pAccept := float64(len(acceptTimes)) / n
	pReject := 1 - pAccept

	if len(acceptTimes) > 0 {
		sf, err := survival.KaplanMeier(acceptTimes, acceptEvents)
		if err != nil {
			res.Err = fmt.Errorf("threshold %d, accepted arm: %w", tau, err)
			return res
		}
		s := sf.At(horizonDays)
		res.ProportionAccepted = pAccept
		res.AcceptSurvive = s * pAccept * n
		res.AcceptFail = (1 - s) * pAccept * n
	}

	if len(rejectTimes) > 0 {
		sf, err := survival.KaplanMeier(rejectTimes, rejectEvents)
		if err != nil {
			res.Err = fmt.Errorf("threshold %d, rejected arm: %w", tau, err)
			return res
		}
		s := sf.At(horizonDays)
		res.RejectSurvive = s * pReject * n
		res.RejectFail = (1 - s) * pReject * n
	}

	if drift := math.Abs(res.Checksum() - n); drift > ChecksumTolerance {
		res.Err = fmt.Errorf("threshold %d: expected counts sum to %f, cohort size is %f", tau, res.Checksum(), n)
	}

	return res
}

// IntegerThresholds returns the inclusive percentile range [lo, hi] as a
// threshold slice, the usual sweep domain being 1 through 99.
func IntegerThresholds(lo, hi int) []int {
	if hi < lo {
		return nil
	}

	out := make([]int, 0, hi-lo+1)
	for tau := lo; tau <= hi; tau++ {
		out = append(out, tau)
	}
	return out
}
