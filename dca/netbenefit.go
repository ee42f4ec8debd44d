package dca

import (
	"errors"
	"fmt"

	"gopkg.in/guregu/null.v3"

	"github.com/carbocation/kdridca/kdpi"
	"github.com/carbocation/kdridca/survival"
)

// ErrNumericDivergence marks a threshold whose model-predicted survival is
// indistinguishable from 1, which sends the survival odds to infinity. The
// row is surfaced as invalid rather than emitting infinity into the table.
var ErrNumericDivergence = errors.New("model-predicted survival is indistinguishable from 1")

// DivergenceTolerance is how close predicted survival may come to 1 before
// the odds term is considered divergent.
const DivergenceTolerance = 1e-9

// NetBenefitRow holds the three decision curves at one threshold. Model and
// AcceptAll are null when the odds term diverged at this threshold;
// AcceptNone is identically zero by definition.
type NetBenefitRow struct {
	Threshold  int
	Model      null.Float
	AcceptAll  null.Float
	AcceptNone float64

	Err error
}

// SurvivalByThreshold predicts survival at the horizon for the synthetic
// donor at each percentile's range midpoint. Thresholds whose percentile is
// absent from the table are simply missing from the map.
func SurvivalByThreshold(model *survival.Model, table *kdpi.Table, thresholds []int, scalingFactor, horizonDays float64) map[int]float64 {
	out := make(map[int]float64, len(thresholds))

	for _, tau := range thresholds {
		if x, ok := table.MidpointScore(tau, scalingFactor); ok {
			out[tau] = model.SurvivalAt(x, horizonDays)
		}
	}

	return out
}

// NetBenefit derives the three curves from the sweep rows: accept according
// to the threshold, accept nobody, accept everybody. overallSurvival is the
// whole-cohort empirical survival at the horizon; modelSurvival maps each
// threshold to the model-predicted survival of its marginal donor.
func NetBenefit(rows []Result, modelSurvival map[int]float64, overallSurvival float64) []NetBenefitRow {
	out := make([]NetBenefitRow, 0, len(rows))

	for _, r := range rows {
		nb := NetBenefitRow{Threshold: r.Threshold}

		if r.Err != nil {
			nb.Err = r.Err
			out = append(out, nb)
			continue
		}

		sModel, ok := modelSurvival[r.Threshold]
		if !ok {
			nb.Err = fmt.Errorf("threshold %d: no model-predicted survival available", r.Threshold)
			out = append(out, nb)
			continue
		}

		if 1-sModel <= DivergenceTolerance {
			nb.Err = fmt.Errorf("threshold %d: %w", r.Threshold, ErrNumericDivergence)
			out = append(out, nb)
			continue
		}

		odds := sModel / (1 - sModel)

		nb.Model = null.FloatFrom((r.AcceptSurvive - r.AcceptFail*odds) / r.TotalKidneys)
		nb.AcceptAll = null.FloatFrom(overallSurvival - (1-overallSurvival)*odds)

		out = append(out, nb)
	}

	return out
}
