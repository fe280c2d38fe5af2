// Command anomaly runs the single-channel anomaly monitor: it samples a
// sensor bridge on a serial port (or replays a fixtures file in dev mode),
// learns a baseline during the warm-up window, then classifies every
// observation window and logs/records the decisions.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/anomaly.report/internal/anomaly"
	"github.com/banshee-data/anomaly.report/internal/db"
	"github.com/banshee-data/anomaly.report/internal/report"
	"github.com/banshee-data/anomaly.report/internal/sampler"
	"github.com/banshee-data/anomaly.report/internal/timeutil"
)

var (
	devMode    = flag.Bool("dev", false, "Replay samples from a fixtures file instead of a serial port")
	fixtures   = flag.String("fixtures", "fixtures.txt", "Fixtures file to replay in dev mode")
	port       = flag.String("port", "/dev/ttyUSB0", "Serial port to sample from (ignored in dev mode)")
	configPath = flag.String("config", "", "Optional tuning config JSON file")
	dbFile     = flag.String("db", "anomaly_data.db", "Decision log database path (empty to disable recording)")
)

func main() {
	flag.Parse()

	cfg := anomaly.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		cfg, err = anomaly.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
	}

	var src sampler.Source
	if *devMode {
		f, err := os.Open(*fixtures)
		if err != nil {
			log.Fatalf("failed to open fixtures file: %v", err)
		}
		defer f.Close()
		src = sampler.NewReaderSampler(f)
	} else {
		if *port == "" {
			log.Fatal("serial port is required")
		}
		s, err := sampler.OpenSerial(*port)
		if err != nil {
			log.Fatalf("failed to open sampler: %v", err)
		}
		defer s.Close()
		src = s
	}

	reporters := report.Multi{report.LogReporter{}}
	if *dbFile != "" {
		database, err := db.NewDB(*dbFile)
		if err != nil {
			log.Fatalf("failed to open decision log: %v", err)
		}
		defer database.Close()

		runID := uuid.NewString()
		cfgJSON, err := json.Marshal(cfg)
		if err != nil {
			log.Fatalf("failed to encode config snapshot: %v", err)
		}
		if err := database.CreateRun(runID, time.Now(), string(cfgJSON)); err != nil {
			log.Fatalf("failed to create run: %v", err)
		}
		log.Printf("recording run %s to %s", runID, *dbFile)
		reporters = append(reporters, report.NewDBReporter(database, runID, timeutil.RealClock{}))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	detector := anomaly.NewDetector(cfg, timeutil.RealClock{})
	err := detector.Run(ctx, sampler.NewResilient(src), reporters)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("monitor stopped: %v", err)
	}
	log.Print("shutting down")
}
