package calib

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/anomaly.report/internal/anomaly"
)

// histogramBins buckets the sample distribution for the HTML report.
const histogramBins = 41

// WriteHistogramHTML renders a sample-distribution histogram to an HTML file
// so multimodal signals are easy to spot before deployment.
func WriteHistogramHTML(samples []float64, a Analysis, path string) error {
	if len(samples) == 0 {
		return fmt.Errorf("no samples to plot")
	}

	width := a.Max - a.Min
	if width <= 0 {
		width = 1
	}
	counts := make([]int, histogramBins)
	for _, v := range samples {
		bin := int((v - a.Min) / width * float64(histogramBins))
		if bin >= histogramBins {
			bin = histogramBins - 1
		}
		counts[bin]++
	}

	labels := make([]string, histogramBins)
	data := make([]opts.BarData, histogramBins)
	for i := range counts {
		labels[i] = fmt.Sprintf("%.3f", a.Min+(float64(i)+0.5)*width/float64(histogramBins))
		data[i] = opts.BarData{Value: counts[i]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Sample Distribution",
			Subtitle: fmt.Sprintf("n=%d mean=%.4f std=%.4f snr=%.1fdB", a.Samples, a.Mean, a.StdDev, a.SNRdB),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).AddSeries("samples", data)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create histogram file: %w", err)
	}
	defer f.Close()
	return bar.Render(f)
}

// WriteFilterTracePNG plots the raw signal against its filtered traces for
// each candidate alpha, for eyeballing smoothing versus responsiveness.
func WriteFilterTracePNG(samples []float64, alphas []float64, path string) error {
	if len(samples) == 0 {
		return fmt.Errorf("no samples to plot")
	}

	p := plot.New()
	p.Title.Text = "Filter Response"
	p.X.Label.Text = "sample"
	p.Y.Label.Text = "volts"

	raw := make(plotter.XYs, len(samples))
	for i, v := range samples {
		raw[i] = plotter.XY{X: float64(i), Y: v}
	}
	rawLine, err := plotter.NewLine(raw)
	if err != nil {
		return fmt.Errorf("failed to build raw trace: %w", err)
	}
	p.Add(rawLine)
	p.Legend.Add("raw", rawLine)

	for _, alpha := range alphas {
		filter := anomaly.NewFilter(alpha)
		xys := make(plotter.XYs, len(samples))
		for i, v := range samples {
			xys[i] = plotter.XY{X: float64(i), Y: filter.Apply(v)}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("failed to build trace for alpha %.2f: %w", alpha, err)
		}
		line.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("alpha=%.2f", alpha), line)
	}

	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save filter trace: %w", err)
	}
	return nil
}
