package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/montanaflynn/stats"

	"github.com/carbocation/kdridca/cohort"
	"github.com/carbocation/kdridca/dca"
)

var BufferSize = 4096

// summarizeCohort prints exploratory descriptives of the scored cohort so a
// bad extract or a miscalibrated scaling factor is visible before anyone
// reads the curve tables.
func summarizeCohort(members []cohort.Member) {
	indexes := make([]float64, 0, len(members))
	events := 0

	for _, m := range members {
		indexes = append(indexes, m.Risk.Index)
		if m.Event == 1 {
			events++
		}
	}

	mean, _ := stats.Mean(indexes)
	median, _ := stats.Median(indexes)
	p5, _ := stats.Percentile(indexes, 5)
	p95, _ := stats.Percentile(indexes, 95)

	log.Printf("Risk index: mean %.4f, median %.4f, p5 %.4f, p95 %.4f\n", mean, median, p5, p95)
	log.Printf("Observed events: %d of %d members (%.1f%%)\n",
		events, len(members), 100*float64(events)/float64(len(members)))
}

func writeThresholdTable(path string, rows []dca.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, BufferSize)
	defer w.Flush()

	fmt.Fprintf(w, "threshold\tproportion_accepted\ttotal_kidneys\taccept_survive\taccept_fail\treject_survive\treject_fail\tchecksum\tstatus\n")

	for _, r := range rows {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}

		fmt.Fprintf(w, "%d\t%f\t%f\t%f\t%f\t%f\t%f\t%f\t%s\n",
			r.Threshold, r.ProportionAccepted, r.TotalKidneys,
			r.AcceptSurvive, r.AcceptFail, r.RejectSurvive, r.RejectFail,
			r.Checksum(), status)
	}

	log.Println("Wrote", path)

	return nil
}

func writeNetBenefitTable(path string, rows []dca.NetBenefitRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, BufferSize)
	defer w.Flush()

	fmt.Fprintf(w, "threshold\tnet_benefit_model\tnet_benefit_accept_none\tnet_benefit_accept_all\tstatus\n")

	for _, r := range rows {
		model, all := "", ""
		if r.Model.Valid {
			model = fmt.Sprintf("%f", r.Model.Float64)
		}
		if r.AcceptAll.Valid {
			all = fmt.Sprintf("%f", r.AcceptAll.Float64)
		}

		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}

		fmt.Fprintf(w, "%d\t%s\t%f\t%s\t%s\n", r.Threshold, model, r.AcceptNone, all, status)
	}

	log.Println("Wrote", path)

	return nil
}
