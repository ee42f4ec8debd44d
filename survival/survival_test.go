package survival

import (
	"math"
	"math/rand"
	"testing"
)

func TestSurvFuncAt(t *testing.T) {
	// Hand-built step function: S=0.75 on [10,20), 0.5 on [20,40), 0 from 40.
	s := &SurvFunc{
		times: []float64{10, 20, 40},
		probs: []float64{0.75, 0.5, 0},
	}

	cases := []struct {
		t    float64
		want float64
	}{
		{0, 1},
		{9.99, 1},
		{10, 0.75},
		{15, 0.75},
		{20, 0.5},
		{39, 0.5},
		{40, 0},
		{1000, 0},
	}

	for _, tc := range cases {
		if got := s.At(tc.t); got != tc.want {
			t.Errorf("At(%f) = %f, want %f", tc.t, got, tc.want)
		}
	}
}

// Four subjects, events at 10, 20, and 40, one censored at 30. The
// product-limit estimate is 3/4 after the first event, 1/2 after the
// second, and 0 after the last subject fails.
func TestKaplanMeierSmallSample(t *testing.T) {
	times := []float64{10, 20, 30, 40}
	events := []float64{1, 1, 0, 1}

	sf, err := KaplanMeier(times, events)
	if err != nil {
		t.Fatal(err)
	}

	// Three distinct event times must appear as steps; an estimator that
	// was never fitted yields an empty curve that sits at 1 everywhere.
	if len(sf.times) != 3 {
		t.Fatalf("survival curve has %d steps, want 3", len(sf.times))
	}

	cases := []struct {
		t    float64
		want float64
	}{
		{5, 1},
		{10, 0.75},
		{25, 0.5},
		{35, 0.5}, // censoring at 30 does not step the curve
		{40, 0},
	}

	for _, tc := range cases {
		if got := sf.At(tc.t); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("S(%f) = %f, want %f", tc.t, got, tc.want)
		}
	}
}

func TestKaplanMeierEmptySample(t *testing.T) {
	if _, err := KaplanMeier(nil, nil); err != ErrEmptySample {
		t.Fatalf("expected ErrEmptySample, got %v", err)
	}
}

// Simulate a cohort where higher risk scores fail sooner, and check the
// fitted model for the properties the pipeline relies on: a positive
// coefficient, a non-decreasing baseline cumulative hazard, predicted
// survival inside (0,1], and survival decreasing in the score.
func TestFitRecoversRiskDirection(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	const n = 400
	times := make([]float64, n)
	events := make([]float64, n)
	scores := make([]float64, n)

	for i := 0; i < n; i++ {
		x := rng.NormFloat64() * 0.4
		scores[i] = x

		// Exponential event time with hazard increasing in x, censored at
		// a fixed administrative cutoff.
		hazard := 0.001 * math.Exp(x)
		eventTime := rng.ExpFloat64() / hazard

		if eventTime > 1500 {
			times[i] = 1500
			events[i] = 0
		} else {
			times[i] = eventTime
			events[i] = 1
		}
	}

	m, err := Fit(times, events, scores)
	if err != nil {
		t.Fatal(err)
	}

	if m.Coefficient <= 0 {
		t.Fatalf("coefficient = %f, want > 0 when high scores fail sooner", m.Coefficient)
	}

	horizon := 1000.0
	if h := m.BaselineCumHazardAt(horizon); h <= 0 {
		t.Fatalf("baseline cumulative hazard at %f = %f, want > 0", horizon, h)
	}
	if h0, h1 := m.BaselineCumHazardAt(500), m.BaselineCumHazardAt(1400); h1 < h0 {
		t.Fatalf("baseline cumulative hazard decreased: H(500)=%f, H(1400)=%f", h0, h1)
	}

	sLow := m.SurvivalAt(-0.5, horizon)
	sHigh := m.SurvivalAt(0.5, horizon)

	for _, s := range []float64{sLow, sHigh} {
		if s <= 0 || s > 1 {
			t.Fatalf("predicted survival %f outside (0,1]", s)
		}
	}
	if sHigh >= sLow {
		t.Fatalf("survival should decrease in risk score: S(x=-0.5)=%f, S(x=0.5)=%f", sLow, sHigh)
	}
}

func TestFitEmptySample(t *testing.T) {
	if _, err := Fit(nil, nil, nil); err != ErrEmptySample {
		t.Fatalf("expected ErrEmptySample, got %v", err)
	}
}

func TestSurvivalBatchMatchesScalar(t *testing.T) {
	m := &Model{
		Coefficient: 0.8,
		hazardTimes: []float64{100, 500, 900},
		cumHazard:   []float64{0.01, 0.05, 0.12},
	}

	scores := []float64{-1, -0.25, 0, 0.6, 1.3}
	got := m.SurvivalBatch(scores, 800)

	for i, x := range scores {
		want := m.SurvivalAt(x, 800)
		if got[i] != want {
			t.Errorf("batch[%d] = %f, scalar = %f", i, got[i], want)
		}
	}

	// Spot-check one value against the closed form.
	want := math.Exp(-0.05 * math.Exp(0.8*0.6))
	if math.Abs(m.SurvivalAt(0.6, 800)-want) > 1e-12 {
		t.Errorf("SurvivalAt(0.6, 800) = %f, want %f", m.SurvivalAt(0.6, 800), want)
	}
}
