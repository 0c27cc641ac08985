// Command particlebindctl is a headless demo harness for the particle
// binding core: it drives a Coordinator with a synthetic landmark feed
// and prints periodic buffer stats, standing in for a real detector and
// GPU canvas sink (both out of scope per spec.md §1).
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/particlebind/core"
	"github.com/particlebind/core/internal/config"
	"github.com/particlebind/core/internal/engine"
	"github.com/particlebind/core/internal/synth"
)

var version = "0.1.0"

func main() {
	configPath := flag.String("config", "", "Path to TOML configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	mode := flag.String("mode", "", "Override physics mode (attract|repel)")
	durationSec := flag.Int("duration", 0, "Run for N seconds then exit (0 = run until Ctrl+C)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "particlebindctl - synthetic demo harness for the particle binding core\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("particlebindctl version %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *mode != "" {
		cfg.Physics.Mode = *mode
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "invalid -mode override: %v\n", err)
			os.Exit(1)
		}
	}

	logger := engine.NewDefaultLogger("particlebindctl", *verbose)

	coord, err := corebind.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to construct coordinator: %v\n", err)
		os.Exit(1)
	}
	logger.Infof("coordinator %s ready", coord.ID())

	gen := synth.NewGenerator(33,
		[]synth.HandOrbit{
			{CenterX: 0.35, CenterY: 0.5, Radius: 0.12, PeriodMS: 2500, Handedness: corebind.HandednessRight},
			{CenterX: 0.65, CenterY: 0.5, Radius: 0.12, PeriodMS: 3100, Handedness: corebind.HandednessLeft},
		},
		&synth.FaceBob{CenterX: 0.5, CenterY: 0.4, AmplitudeX: 0.02, AmplitudeY: 0.02, PeriodMS: 4000},
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	start := time.Now()
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	frameCount := uint64(0)
	for {
		select {
		case sig := <-sigCh:
			logger.Infof("received signal %v, shutting down", sig)
			return
		case tickTime := <-ticker.C:
			nowMS := float64(tickTime.Sub(start).Milliseconds())

			if frame, ok := gen.Frame(nowMS); ok {
				coord.PushFrame(frame)
			}
			buf := coord.Tick(nowMS)

			frameCount++
			if *verbose && frameCount%60 == 0 {
				logger.Infof("tick %d: %d particles committed, generation=%d", frameCount, buf.Count, buf.Generation)
			}

			if *durationSec > 0 && nowMS >= float64(*durationSec)*1000 {
				logger.Infof("duration elapsed, shutting down")
				return
			}
		}
	}
}
