// Package kdpi maps a normalized donor risk index to its percentile rank
// among the reference population, using a published range table.
package kdpi

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// Percent is a percentile column that may carry a trailing percent sign in
// the published table ("35%").
type Percent int

func (p *Percent) UnmarshalCSV(s string) error {
	v, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err != nil {
		return err
	}
	*p = Percent(v)
	return nil
}

func (p Percent) MarshalCSV() (string, error) {
	return fmt.Sprintf("%d%%", int(p)), nil
}

// Entry maps one normalized risk-index range to a percentile. The published
// ranges are non-overlapping and cover the valid index domain.
type Entry struct {
	Min        float64 `csv:"kdri_min"`
	Max        float64 `csv:"kdri_max"`
	Percentile Percent `csv:"percentile"`
}

// Table is the loaded percentile table. It is immutable after Load.
type Table struct {
	entries []Entry
}

// Load reads a percentile table from a CSV file with columns
// (kdri_min, kdri_max, percentile), the percentile written with a percent
// sign. The table is loaded once per run.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	// The reader is process-global in gocsv, and the registry loader may
	// have pointed it at a sniffed delimiter. The published table is plain
	// comma-delimited.
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.TrimLeadingSpace = true
		return r
	})

	entries := []Entry{}
	if err := gocsv.UnmarshalFile(f, &entries); err != nil {
		return nil, pfx.Err(err)
	}

	return New(entries)
}

// New builds a table from already-parsed entries.
func New(entries []Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("percentile table is empty")
	}

	return &Table{entries: entries}, nil
}

// Lookup returns the percentile of the range containing the normalized risk
// index. Containment is min < x <= max. If the table were malformed with
// overlapping ranges, the first matching entry in file order wins. An index
// outside every range is unmappable and the record carrying it is excluded
// from the decision-curve analysis.
func (t *Table) Lookup(normalized float64) (int, error) {
	for _, e := range t.entries {
		if normalized > e.Min && normalized <= e.Max {
			return int(e.Percentile), nil
		}
	}

	return 0, fmt.Errorf("risk index %f: %w", normalized, ErrUnmappable)
}

// MidpointScore returns the synthetic linear risk score at the midpoint of
// the range mapped to the given percentile: the midpoint is a normalized
// index, so it is rescaled and logged back onto the linear-score axis. This
// lets the fitted model predict survival for a percentile without using any
// individual's observed covariates.
func (t *Table) MidpointScore(percentile int, scalingFactor float64) (float64, bool) {
	for _, e := range t.entries {
		if int(e.Percentile) == percentile {
			mid := (e.Min + e.Max) / 2
			return math.Log(mid * scalingFactor), true
		}
	}

	return 0, false
}

// Percentiles returns the distinct percentile values present in the table,
// in file order.
func (t *Table) Percentiles() []int {
	out := make([]int, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, int(e.Percentile))
	}
	return out
}
