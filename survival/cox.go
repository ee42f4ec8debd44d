// Package survival wraps the proportional-hazards and product-limit
// estimators from statmodel/duration behind the two operations the pipeline
// needs: fit once, then predict survival at a horizon.
package survival

import (
	"errors"
	"math"
	"sort"

	"github.com/carbocation/pfx"
	"github.com/kshedden/statmodel/duration"
	"github.com/kshedden/statmodel/statmodel"
)

// ErrEmptySample marks an attempt to estimate survival from zero
// observations.
var ErrEmptySample = errors.New("empty sample")

const (
	timeVar   = "time"
	statusVar = "status"
	scoreVar  = "kdrix"
)

// Model is a fitted single-covariate proportional-hazards model: the
// log-hazard coefficient for the linear risk score, plus the Breslow
// baseline cumulative hazard as a non-decreasing step function over the
// observed event times. It is computed once from the full cohort and
// read-only afterward.
type Model struct {
	Coefficient float64

	hazardTimes []float64
	cumHazard   []float64
}

// Fit estimates the model by maximum partial likelihood over parallel
// slices of follow-up time, event indicator (1/0), and linear risk score.
func Fit(times, events, scores []float64) (*Model, error) {
	if len(times) == 0 {
		return nil, ErrEmptySample
	}

	data := statmodel.NewDataset(
		[][]float64{times, events, scores},
		[]string{timeVar, statusVar, scoreVar},
	)

	ph, err := duration.NewPHReg(data, timeVar, statusVar, []string{scoreVar}, nil)
	if err != nil {
		return nil, pfx.Err(err)
	}

	rslt, err := ph.Fit()
	if err != nil {
		return nil, pfx.Err(err)
	}

	params := rslt.Params()
	hazardTimes, cumHazard := ph.BaselineCumHaz(0, params)

	return &Model{
		Coefficient: params[0],
		hazardTimes: hazardTimes,
		cumHazard:   cumHazard,
	}, nil
}

// BaselineCumHazardAt evaluates the baseline cumulative hazard step
// function at t, taking the step at or immediately below t. Before the
// first observed event time the cumulative hazard is zero.
func (m *Model) BaselineCumHazardAt(t float64) float64 {
	i := sort.SearchFloat64s(m.hazardTimes, t)

	if i < len(m.hazardTimes) && m.hazardTimes[i] == t {
		return m.cumHazard[i]
	}
	if i == 0 {
		return 0
	}

	return m.cumHazard[i-1]
}

// SurvivalAt predicts S(t|x) = exp(-H0(t) * exp(coefficient*x)) for a
// linear risk score x at the given horizon.
func (m *Model) SurvivalAt(score, horizon float64) float64 {
	return math.Exp(-m.BaselineCumHazardAt(horizon) * math.Exp(m.Coefficient*score))
}

// SurvivalBatch predicts survival at the horizon for a sequence of linear
// risk scores, typically synthetic scores derived from the percentile
// table rather than observed donors.
func (m *Model) SurvivalBatch(scores []float64, horizon float64) []float64 {
	out := make([]float64, len(scores))
	for i, x := range scores {
		out[i] = m.SurvivalAt(x, horizon)
	}
	return out
}
