package kdpi

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func testTable(t *testing.T) *Table {
	t.Helper()

	tab, err := New([]Entry{
		{Min: 0.0, Max: 0.55, Percentile: 1},
		{Min: 0.55, Max: 0.70, Percentile: 10},
		{Min: 0.70, Max: 1.00, Percentile: 50},
		{Min: 1.00, Max: 1.60, Percentile: 90},
		{Min: 1.60, Max: 4.00, Percentile: 100},
	})
	if err != nil {
		t.Fatal(err)
	}
	return tab
}

func TestLookup(t *testing.T) {
	tab := testTable(t)

	cases := []struct {
		in   float64
		want int
	}{
		{0.10, 1},
		{0.55, 1},    // upper bound is inclusive
		{0.5501, 10}, // lower bound is exclusive
		{0.80, 50},
		{1.00, 50},
		{1.25, 90},
		{4.00, 100},
	}

	for _, tc := range cases {
		got, err := tab.Lookup(tc.in)
		if err != nil {
			t.Fatalf("Lookup(%f): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("Lookup(%f) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestLookupUnmappable(t *testing.T) {
	tab := testTable(t)

	for _, x := range []float64{0.0, -0.3, 4.01, 1000} {
		if _, err := tab.Lookup(x); !errors.Is(err, ErrUnmappable) {
			t.Errorf("Lookup(%f): expected ErrUnmappable, got %v", x, err)
		}
	}
}

// With overlapping ranges the first matching entry in file order wins.
func TestLookupFirstMatchOnOverlap(t *testing.T) {
	tab, err := New([]Entry{
		{Min: 0.0, Max: 1.0, Percentile: 25},
		{Min: 0.5, Max: 1.5, Percentile: 75},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := tab.Lookup(0.8)
	if err != nil {
		t.Fatal(err)
	}
	if got != 25 {
		t.Fatalf("overlap lookup = %d, want first-match 25", got)
	}
}

func TestMidpointScore(t *testing.T) {
	tab := testTable(t)
	scaling := 1.25

	x, ok := tab.MidpointScore(50, scaling)
	if !ok {
		t.Fatal("percentile 50 not found")
	}

	want := math.Log(0.85 * scaling)
	if math.Abs(x-want) > 1e-12 {
		t.Fatalf("MidpointScore(50) = %.12f, want %.12f", x, want)
	}

	if _, ok := tab.MidpointScore(37, scaling); ok {
		t.Fatal("expected percentile 37 to be absent")
	}
}

func TestLoadStripsPercentSign(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kdpi.csv")
	body := "kdri_min,kdri_max,percentile\n" +
		"0.45,0.55,1%\n" +
		"0.55,0.65, 2%\n" +
		"0.65,0.75,3\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	tab, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	wants := []int{1, 2, 3}
	got := tab.Percentiles()
	if len(got) != len(wants) {
		t.Fatalf("loaded %d entries, want %d", len(got), len(wants))
	}
	for i, want := range wants {
		if got[i] != want {
			t.Errorf("entry %d: percentile %d, want %d", i, got[i], want)
		}
	}
}

func TestEmptyTableIsAnError(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected an error for an empty table")
	}
}
