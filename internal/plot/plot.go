// Package plot renders per-epoch metric curves as PNG line charts.
package plot

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mhcattn/mhcattn/internal/metrics"
	"github.com/pkg/errors"
	chart "github.com/wcharczuk/go-chart"
)

// DefaultDir is where charts go unless configured otherwise.
const DefaultDir = "../visualizations"

// FileName is the chart file name of metric after epochs epochs.
func FileName(metric string, epochs int) string {
	return fmt.Sprintf("%s-%d.png", metric, epochs)
}

// Metrics draws one chart per name into dir. Names missing from history
// are logged and skipped.
func Metrics(names []string, history metrics.History, epochs int, dir string) error {
	if epochs < 1 {
		return errors.Errorf("nothing to plot for %d epochs", epochs)
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}
	for _, name := range names {
		values, ok := history[name]
		if !ok {
			log.Println("Metric not found")
			continue
		}
		if len(values) != epochs {
			return errors.Errorf("%s: have %d values for %d epochs", name, len(values), epochs)
		}
		var path = filepath.Join(dir, FileName(name, epochs))
		if err := renderFile(path, name, values); err != nil {
			return errors.Wrapf(err, "plotting %s", name)
		}
	}
	return nil
}

func renderFile(path, name string, values []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err = lineChart(name, values).Render(chart.PNG, f); err != nil {
		return err
	}
	return f.Close()
}

func lineChart(name string, values []float64) chart.Chart {
	var xs = make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i + 1)
	}
	return chart.Chart{
		XAxis: chart.XAxis{
			Name:      "epochs",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
			Range:     paddedRange(xs),
		},
		YAxis: chart.YAxis{
			Name:      name,
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
			Range:     paddedRange(values),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    name,
				XValues: xs,
				YValues: values,
				Style: chart.Style{
					Show:        true,
					StrokeColor: chart.GetAlternateColor(0),
				},
			},
		},
	}
}

// paddedRange widens a degenerate range, go-chart refuses to draw an axis
// whose min equals its max.
func paddedRange(values []float64) *chart.ContinuousRange {
	var min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min == max {
		min -= 0.5
		max += 0.5
	}
	return &chart.ContinuousRange{Min: min, Max: max}
}
