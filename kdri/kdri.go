// Package kdri computes the kidney donor risk index from donor covariates.
package kdri

import (
	"errors"
	"math"

	"github.com/carbocation/kdridca/registry"
)

// ErrMissingCreatinine marks a record whose terminal creatinine was not
// reported. The risk index is undefined for such a record; it is excluded
// downstream rather than scored with a default.
var ErrMissingCreatinine = errors.New("donor terminal creatinine is missing")

// RiskScore is the derived donor risk for one record.
type RiskScore struct {
	// LinearScore is the sum of the published coefficient terms (KDRI_X).
	LinearScore float64

	// Index is exp(LinearScore), a relative risk ratio (KDRI).
	Index float64

	// Normalized is Index divided by the calibration scaling factor; this
	// is the value looked up in the percentile table.
	Normalized float64
}

// Score computes the risk index for one donor record. It is deterministic
// and has no side effects. The only covariate whose absence makes the score
// undefined is creatinine.
func Score(r registry.DonorRecord, c Constants) (RiskScore, error) {
	if !r.Creatinine.Valid {
		return RiskScore{}, ErrMissingCreatinine
	}

	x := ageTerm(r.DonorAge.ValueOrZero())
	x += coefHeightPer10CM * (r.DonorHeightCM.ValueOrZero() - heightCenterCM) / 10
	x += weightTerm(r.DonorWeightKG.ValueOrZero())
	x += raceTerms[r.DonorRace.ValueOrZero()]
	x += hypertensionTerm(r, c)
	x += diabetesTerm(r, c)
	x += causeOfDeathTerms[r.CauseOfDeath.ValueOrZero()]
	x += creatinineTerm(r.Creatinine.Float64)
	x += hcvTerms[r.HCVAntibody.ValueOrZero()]
	if r.NonHeartBeating.ValueOrZero() == registry.NonHeartBeatingYes {
		x += coefNonHeartBeat
	}

	index := math.Exp(x)

	return RiskScore{
		LinearScore: x,
		Index:       index,
		Normalized:  index / c.ScalingFactor,
	}, nil
}

// ageTerm is linear in age with slope changes at 18 and 50 years.
func ageTerm(age float64) float64 {
	t := coefAgePerYear * (age - ageKnotCenter)
	if age < ageKnotYoung {
		t += coefAgeUnder18 * (age - ageKnotYoung)
	}
	if age > ageKnotOld {
		t += coefAgeOver50 * (age - ageKnotOld)
	}
	return t
}

// weightTerm contributes only below 80 kg.
func weightTerm(weight float64) float64 {
	if weight < weightCenterKG {
		return coefWeightPer5KG * (weight - weightCenterKG) / 5
	}
	return 0
}

// creatinineTerm is linear in creatinine with a slope change above 1.5.
func creatinineTerm(creat float64) float64 {
	t := coefCreatinine * (creat - creatCenter)
	if creat > creatHighKnot {
		t += coefCreatOver150 * (creat - creatHighKnot)
	}
	return t
}

func hypertensionTerm(r registry.DonorRecord, c Constants) float64 {
	switch registry.ReadHistory(r.Hypertension) {
	case registry.HistoryStateYes:
		return coefHypertension
	case registry.HistoryStateUnknown:
		return coefHypertension * c.HtnUnknownFactor
	}
	return 0
}

// diabetesTerm applies the full coefficient for the explicit affirmative
// codes. Every other code, including the explicit not-obtainable code and
// the no-history code, takes the unknown multiplier. That matches the
// published computation this pipeline reproduces; see the accompanying test
// before changing it.
func diabetesTerm(r registry.DonorRecord, c Constants) float64 {
	if registry.ReadHistory(r.Diabetes) == registry.HistoryStateYes {
		return coefDiabetes
	}
	return coefDiabetes * c.DiabUnknownFactor
}
