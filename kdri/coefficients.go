package kdri

import "github.com/carbocation/kdridca/registry"

// Published donor-only risk coefficients. Continuous terms are centered and
// scaled exactly as in the reference formula; categorical terms are mapped
// from registry codes below so that every contribution can be audited
// term-by-term.
const (
	coefAgePerYear    = 0.0128
	coefAgeUnder18    = -0.0194
	coefAgeOver50     = 0.0107
	coefHeightPer10CM = -0.0464
	coefWeightPer5KG  = -0.0199
	coefHypertension  = 0.1260
	coefDiabetes      = 0.1300
	coefCreatinine    = 0.2200
	coefCreatOver150  = -0.2090
	coefNonHeartBeat  = 0.1330

	ageKnotYoung  = 18.0
	ageKnotCenter = 40.0
	ageKnotOld    = 50.0

	heightCenterCM = 170.0
	weightCenterKG = 80.0
	creatCenter    = 1.0
	creatHighKnot  = 1.5
)

var raceTerms = map[int64]float64{
	registry.RaceBlack: 0.1790,
}

var causeOfDeathTerms = map[int64]float64{
	registry.CauseCerebrovascular: 0.0881,
}

var hcvTerms = map[string]float64{
	registry.HCVPositive: 0.2400,
}

// Constants are the externally supplied calibration parameters that
// accompany a given release of the published mapping table. They are never
// derived from the cohort and never hard-coded at call sites.
type Constants struct {
	// ScalingFactor normalizes the exponentiated index against the
	// reference population's median donor.
	ScalingFactor float64

	// HtnUnknownFactor scales the hypertension coefficient when donor
	// hypertension history is not obtainable.
	HtnUnknownFactor float64

	// DiabUnknownFactor scales the diabetes coefficient when donor diabetes
	// history is anything other than an explicit affirmative code.
	DiabUnknownFactor float64
}
