// kdridca runs the full decision-curve analysis for kidney acceptance: it
// scores each donor, joins percentile ranks, fits a proportional-hazards
// model of graft failure, sweeps acceptance thresholds, and writes the
// per-threshold confusion-matrix and net-benefit tables.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/carbocation/kdridca/cohort"
	"github.com/carbocation/kdridca/dca"
	"github.com/carbocation/kdridca/kdpi"
	"github.com/carbocation/kdridca/kdri"
	"github.com/carbocation/kdridca/registry"
	"github.com/carbocation/kdridca/survival"
)

const dateLayout = "2006-01-02"

func main() {
	var (
		recordsPath string
		tablePath   string
		outPrefix   string

		startDate string
		endDate   string
		minAge    float64

		horizonDays float64
		scaling     float64
		htnUnknown  float64
		diabUnknown float64

		workers int
		plot    bool
	)

	flag.StringVar(&recordsPath, "records", "", "Path to the registry extract (one row per transplant event)")
	flag.StringVar(&tablePath, "kdpi-table", "", "Path to the published percentile table CSV (kdri_min, kdri_max, percentile)")
	flag.StringVar(&outPrefix, "out", "kdridca", "Prefix for the output tables")
	flag.StringVar(&startDate, "start", "2010-01-01", "Inclusive start of the transplant-date window (YYYY-MM-DD)")
	flag.StringVar(&endDate, "end", "2014-12-31", "Inclusive end of the transplant-date window (YYYY-MM-DD)")
	flag.Float64Var(&minAge, "min-age", 18, "Minimum recipient age at transplant")
	flag.Float64Var(&horizonDays, "horizon-days", 1825, "Survival horizon in days")
	flag.Float64Var(&scaling, "scaling", 1.25069, "Scaling factor from the published mapping-table release")
	flag.Float64Var(&htnUnknown, "htn-unknown", 0.35, "Multiplier for the hypertension coefficient when history is unknown")
	flag.Float64Var(&diabUnknown, "diab-unknown", 0.29, "Multiplier for the diabetes coefficient outside the affirmative codes")
	flag.IntVar(&workers, "workers", 4, "Goroutines for the threshold sweep")
	flag.BoolVar(&plot, "plot", false, "Also render the net-benefit curves to <out>.png")
	flag.Parse()

	if recordsPath == "" {
		flag.PrintDefaults()
		log.Fatalln("Please provide --records")
	}
	if tablePath == "" {
		flag.PrintDefaults()
		log.Fatalln("Please provide --kdpi-table")
	}

	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		log.Fatalln("Bad --start:", err)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		log.Fatalln("Bad --end:", err)
	}

	consts := kdri.Constants{
		ScalingFactor:     scaling,
		HtnUnknownFactor:  htnUnknown,
		DiabUnknownFactor: diabUnknown,
	}

	if err := run(recordsPath, tablePath, outPrefix, start, end, minAge, horizonDays, consts, workers, plot); err != nil {
		log.Fatalln(err)
	}
}

func run(recordsPath, tablePath, outPrefix string, start, end time.Time, minAge, horizonDays float64, consts kdri.Constants, workers int, plot bool) error {

	table, err := kdpi.Load(tablePath)
	if err != nil {
		return fmt.Errorf("loading percentile table: %w", err)
	}
	log.Println("Loaded", len(table.Percentiles()), "percentile ranges from", tablePath)

	records, err := registry.ReadRecords(recordsPath)
	if err != nil {
		return fmt.Errorf("loading registry extract: %w", err)
	}
	log.Println("Read", len(records), "registry rows")

	eligible := cohort.Filter(records, start, end, minAge)
	log.Printf("%d records eligible (transplanted %s to %s, recipient age >= %.0f)\n",
		len(eligible), start.Format(dateLayout), end.Format(dateLayout), minAge)

	members, exclusions, err := cohort.Assemble(eligible, consts, table)
	if err != nil {
		return err
	}
	log.Println("Assembled", len(members), "cohort members;", exclusions.String())

	summarizeCohort(members)

	times, events, scores := cohort.Times(members)

	model, err := survival.Fit(times, events, scores)
	if err != nil {
		return fmt.Errorf("fitting hazard model: %w", err)
	}
	log.Printf("Fitted hazard coefficient for the linear risk score: %.6f\n", model.Coefficient)

	overall, err := survival.KaplanMeier(times, events)
	if err != nil {
		return err
	}
	sAll := overall.At(horizonDays)
	log.Printf("Whole-cohort survival at %.0f days: %.4f\n", horizonDays, sAll)

	thresholds := dca.IntegerThresholds(1, 99)

	sweep := dca.Sweep(members, thresholds, horizonDays, workers)
	for _, row := range sweep {
		if row.Err != nil {
			log.Println("Sweep warning:", row.Err)
		}
	}

	modelSurvival := dca.SurvivalByThreshold(model, table, thresholds, consts.ScalingFactor, horizonDays)
	benefit := dca.NetBenefit(sweep, modelSurvival, sAll)
	for _, row := range benefit {
		if row.Err != nil {
			log.Println("Net-benefit warning:", row.Err)
		}
	}

	if err := writeThresholdTable(outPrefix+".thresholds.tsv", sweep); err != nil {
		return err
	}
	if err := writeNetBenefitTable(outPrefix+".netbenefit.tsv", benefit); err != nil {
		return err
	}

	if plot {
		if err := renderNetBenefit(outPrefix+".png", benefit); err != nil {
			return err
		}
		log.Println("Wrote", outPrefix+".png")
	}

	return nil
}
