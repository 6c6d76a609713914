// Command switch-debounce polls mechanical switch inputs on a GPIO chip,
// debounces them with per-connection active and dwell times, and drives
// possibly-shared output pins. Wiring comes from a YAML table; after a
// watchdog or brown-out reset the fail-safe outputs are latched asserted
// and the daemon refuses to scan until power-cycled.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	prefixed "github.com/BertoldVdb/logrus-prefixed-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sweeney/switch-debounce/internal/clock"
	"github.com/sweeney/switch-debounce/internal/config"
	"github.com/sweeney/switch-debounce/internal/debounce"
	"github.com/sweeney/switch-debounce/internal/fault"
	"github.com/sweeney/switch-debounce/internal/gpio"
	"github.com/sweeney/switch-debounce/internal/scan"
)

// The 16-bit microsecond counter wraps every 65.5ms; polling well inside
// that window guarantees no wrap goes unseen.
const overflowPollInterval = 20 * time.Millisecond

func main() {
	configPath := flag.String("config", "/etc/switch-debounce.yaml", "Path to the wiring table")
	chip := flag.String("chip", "", "GPIO chip name (overrides the config)")
	watchdogPath := flag.String("watchdog", "", "Hardware watchdog device, e.g. /dev/watchdog (empty to disable)")
	resetCause := flag.String("reset-cause", "", `Override the detected reset cause ("power_on", "watchdog", "brownout")`)
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Log file path with rotation (empty for stderr)")
	flag.Parse()

	log, err := newLogger(*logLevel, *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
	if err := run(log, *configPath, *chip, *watchdogPath, *resetCause); err != nil {
		log.WithError(err).Fatal("fatal")
	}
}

func newLogger(level, file string) (*logrus.Entry, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	l := logrus.New()
	l.SetLevel(lvl)
	l.SetFormatter(&prefixed.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if file != "" {
		l.SetOutput(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		})
	}
	return logrus.NewEntry(l), nil
}

// resetSource picks where the reset cause comes from: the -reset-cause
// flag when given, otherwise the RESET_CAUSE environment variable.
func resetSource(override string) gpio.ResetSource {
	switch override {
	case "":
		return gpio.EnvResetSource{}
	case "power_on":
		return gpio.StaticResetSource{C: gpio.ResetPowerOn}
	case "watchdog":
		return gpio.StaticResetSource{C: gpio.ResetWatchdog}
	case "brownout":
		return gpio.StaticResetSource{C: gpio.ResetBrownout}
	default:
		return gpio.StaticResetSource{C: gpio.ResetOther}
	}
}

// setupPins requests every pin from the chip, outputs first so the lines
// are held at a defined level before any input is sampled.
func setupPins(io gpio.IO, outs []*debounce.OutputChannel, conns []*debounce.Connection) error {
	for _, o := range outs {
		if err := io.ConfigureOutput(o.Pin); err != nil {
			return fmt.Errorf("configure output %q pin %d: %w", o.Name, o.Pin, err)
		}
	}
	for _, c := range conns {
		if err := io.ConfigureInput(c.Input.Pin, c.Input.Pullup); err != nil {
			return fmt.Errorf("configure input for %q pin %d: %w", c.Name, c.Input.Pin, err)
		}
	}
	return nil
}

// quietOutputs drives every output to its deasserted electrical level so
// the lines start in a known state before the first scan pass.
func quietOutputs(io gpio.IO, outs []*debounce.OutputChannel) error {
	for _, o := range outs {
		if err := io.Write(o.Pin, o.Level(false)); err != nil {
			return fmt.Errorf("quiet output %q pin %d: %w", o.Name, o.Pin, err)
		}
	}
	return nil
}

func run(log *logrus.Entry, configPath, chip, watchdogPath, resetOverride string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if chip != "" {
		cfg.Chip = chip
	}
	outs, conns := cfg.Build()
	log.WithFields(logrus.Fields{
		"chip":        cfg.Chip,
		"outputs":     len(outs),
		"connections": len(conns),
	}).Info("loaded wiring table")

	io, err := gpio.NewRealIO(cfg.Chip)
	if err != nil {
		return err
	}
	defer io.Close()

	if err := setupPins(io, outs, conns); err != nil {
		return err
	}

	src := resetSource(resetOverride)
	log.WithField("cause", src.Cause().String()).Info("last reset")
	if halt, ferr := fault.Check(src, io, outs); halt {
		if ferr != nil {
			log.WithError(ferr).Error("failed to latch some fail-safe outputs")
		}
		log.Error("abnormal reset: fail-safe outputs latched, halting until power-cycle")
		haltForever()
	}

	if err := quietOutputs(io, outs); err != nil {
		return err
	}

	var wd gpio.Watchdog = gpio.NopWatchdog{}
	if watchdogPath != "" {
		fw, err := gpio.NewFileWatchdog(watchdogPath)
		if err != nil {
			return fmt.Errorf("open watchdog %s: %w", watchdogPath, err)
		}
		defer fw.Close()
		wd = fw
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := clock.New(clock.NewTimerSource())
	go func() {
		t := time.NewTicker(overflowPollInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				clk.HandleOverflow()
			}
		}
	}()

	sc := scan.New(io, clk, debounce.NewAggregator(io), conns, wd, log)
	log.Info("scanning")
	err = sc.Run(ctx)
	log.WithFields(logrus.Fields{
		"passes":      sc.Passes(),
		"transitions": sc.Transitions(),
	}).Info("shutting down")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// haltForever parks the daemon without exiting: exiting would let the
// service manager restart us and resume scanning, which is exactly what
// must not happen after an abnormal reset. Parking must sleep rather than
// block on nothing: with no other goroutine running yet, a bare select
// would be declared a runtime deadlock and crash the process, releasing
// the latched GPIO lines.
func haltForever() {
	for {
		time.Sleep(time.Hour)
	}
}
