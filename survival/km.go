package survival

import (
	"sort"

	"github.com/carbocation/pfx"
	"github.com/kshedden/statmodel/duration"
	"github.com/kshedden/statmodel/statmodel"
)

// SurvFunc is a non-parametric (product-limit) survival curve: a
// non-increasing step function starting at 1.
type SurvFunc struct {
	times []float64
	probs []float64
}

// KaplanMeier estimates the empirical survival function from parallel
// slices of follow-up time and event indicator (1/0).
func KaplanMeier(times, events []float64) (*SurvFunc, error) {
	if len(times) == 0 {
		return nil, ErrEmptySample
	}

	data := statmodel.NewDataset(
		[][]float64{times, events},
		[]string{timeVar, statusVar},
	)

	sf, err := duration.NewSurvfuncRight(data, timeVar, statusVar, nil)
	if err != nil {
		return nil, pfx.Err(err)
	}

	// The estimator is lazy: Time and SurvProb are empty until fitted.
	sf.Fit()

	return &SurvFunc{times: sf.Time(), probs: sf.SurvProb()}, nil
}

// At evaluates the survival curve at t, taking the step at or immediately
// below t. Before the first observed event time the survival probability
// is 1.
func (s *SurvFunc) At(t float64) float64 {
	i := sort.SearchFloat64s(s.times, t)

	if i < len(s.times) && s.times[i] == t {
		return s.probs[i]
	}
	if i == 0 {
		return 1
	}

	return s.probs[i-1]
}
