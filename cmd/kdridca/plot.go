package main

import (
	"bytes"
	"os"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/carbocation/kdridca/dca"
)

// renderNetBenefit draws the three decision curves against the threshold
// axis. Thresholds whose model value is invalid are simply absent from
// their series.
func renderNetBenefit(filename string, rows []dca.NetBenefitRow) error {
	var modelX, modelY []float64
	var allX, allY []float64
	var noneX, noneY []float64

	for _, r := range rows {
		if r.Model.Valid {
			modelX = append(modelX, float64(r.Threshold))
			modelY = append(modelY, r.Model.Float64)
		}
		if r.AcceptAll.Valid {
			allX = append(allX, float64(r.Threshold))
			allY = append(allY, r.AcceptAll.Float64)
		}
		noneX = append(noneX, float64(r.Threshold))
		noneY = append(noneY, r.AcceptNone)
	}

	graph := chart.Chart{
		Width:  768,
		Height: 512,
		XAxis: chart.XAxis{
			Name: "KDPI acceptance threshold",
		},
		YAxis: chart.YAxis{
			Name: "Net benefit",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Accept by model",
				XValues: modelX,
				YValues: modelY,
			},
			chart.ContinuousSeries{
				Name:    "Accept all",
				XValues: allX,
				YValues: allY,
			},
			chart.ContinuousSeries{
				Name:    "Accept none",
				XValues: noneX,
				YValues: noneY,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return err
	}

	outFile, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer outFile.Close()

	if _, err := buffer.WriteTo(outFile); err != nil {
		return err
	}

	return nil
}
