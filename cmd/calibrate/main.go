// Command calibrate is the offline calibration utility: run it before
// deploying the monitor. It collects a block of raw samples, measures signal
// quality and noise, compares candidate filter coefficients, and prints the
// recommended tuning settings for the main system.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/anomaly.report/internal/calib"
	"github.com/banshee-data/anomaly.report/internal/sampler"
)

var (
	devMode   = flag.Bool("dev", false, "Read samples from a fixtures file instead of a serial port")
	fixtures  = flag.String("fixtures", "fixtures.txt", "Fixtures file for dev mode")
	port      = flag.String("port", "/dev/ttyUSB0", "Serial port to sample from (ignored in dev mode)")
	numSample = flag.Int("samples", 1000, "Number of samples to collect for analysis")
	htmlOut   = flag.String("html", "", "Optional path for the sample-distribution HTML report")
	pngOut    = flag.String("png", "", "Optional path for the filter-response PNG plot")
)

var candidateAlphas = []float64{0.10, 0.20, 0.30, 0.50}

func main() {
	flag.Parse()

	var src sampler.Source
	if *devMode {
		f, err := os.Open(*fixtures)
		if err != nil {
			log.Fatalf("failed to open fixtures file: %v", err)
		}
		defer f.Close()
		src = sampler.NewReaderSampler(f)
	} else {
		s, err := sampler.OpenSerial(*port)
		if err != nil {
			log.Fatalf("failed to open sampler: %v", err)
		}
		defer s.Close()
		src = s
	}

	fmt.Printf("collecting %d samples, keep the sensor stable...\n", *numSample)
	samples, err := collect(src, *numSample)
	if err != nil {
		log.Fatalf("sample collection failed: %v", err)
	}

	a := calib.Analyze(samples)
	printAnalysis(a)
	printFilterResponses(samples)
	printRecommendation(a)

	if *htmlOut != "" {
		if err := calib.WriteHistogramHTML(samples, a, *htmlOut); err != nil {
			log.Fatalf("failed to write histogram: %v", err)
		}
		fmt.Printf("wrote sample histogram to %s\n", *htmlOut)
	}
	if *pngOut != "" {
		if err := calib.WriteFilterTracePNG(samples, candidateAlphas, *pngOut); err != nil {
			log.Fatalf("failed to write filter trace: %v", err)
		}
		fmt.Printf("wrote filter trace to %s\n", *pngOut)
	}
}

// collect reads up to n samples from the source. A short read is fatal only
// when nothing at all was collected.
func collect(src sampler.Source, n int) ([]float64, error) {
	samples := make([]float64, 0, n)
	for len(samples) < n {
		v, err := src.ReadRaw()
		if err != nil {
			if err == io.EOF && len(samples) > 0 {
				fmt.Printf("input drained after %d samples\n", len(samples))
				break
			}
			return nil, err
		}
		samples = append(samples, v)
	}
	return samples, nil
}

func printAnalysis(a calib.Analysis) {
	fmt.Println("\n========== CALIBRATION STATISTICS ==========")
	fmt.Printf("Samples:     %d\n", a.Samples)
	fmt.Printf("Min:         %.4f V\n", a.Min)
	fmt.Printf("Max:         %.4f V\n", a.Max)
	fmt.Printf("Mean:        %.4f V\n", a.Mean)
	fmt.Printf("Std Dev:     %.4f V (%.2f mV)\n", a.StdDev, a.StdDev*1000)
	fmt.Printf("RMS:         %.4f V\n", a.RMS)
	fmt.Printf("Noise Level: %.4f V (%.2f mV)\n", a.NoiseLevel, a.NoiseLevel*1000)
	fmt.Printf("SNR:         %.1f dB\n", a.SNRdB)
	fmt.Printf("Outliers:    %d (3.5-sigma cut)\n", a.Outliers)
	fmt.Printf("Quality:     %s\n", a.Quality())
}

func printFilterResponses(samples []float64) {
	fmt.Println("\n========== FILTER RESPONSE TEST ==========")
	for _, r := range calib.TestFilterResponses(samples, candidateAlphas) {
		fmt.Printf("alpha=%.2f: mean error %.4f V (%.2f mV), max error %.4f V\n",
			r.Alpha, r.MeanError, r.MeanError*1000, r.MaxError)
	}
}

func printRecommendation(a calib.Analysis) {
	rec := calib.Recommend(a.SNRdB)
	fmt.Println("\nRECOMMENDED SETTINGS FOR MAIN SYSTEM:")
	fmt.Println("--------------------------------------------")
	fmt.Printf("  \"filter_alpha\": %.2f,\n", rec.FilterAlpha)
	fmt.Printf("  \"base_threshold\": %.2f\n", rec.BaseThreshold)
	fmt.Println("--------------------------------------------")
}
