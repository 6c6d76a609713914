// Package scan runs the cooperative polling loop: every pass samples each
// connection exactly once, feeds the debounce engine, and signals liveness
// to the watchdog.
package scan

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/sweeney/switch-debounce/internal/clock"
	"github.com/sweeney/switch-debounce/internal/debounce"
	"github.com/sweeney/switch-debounce/internal/gpio"
)

// Scanner polls all connections in fixed configuration order.
type Scanner struct {
	io    gpio.IO
	clk   *clock.Clock
	agg   *debounce.Aggregator
	conns []*debounce.Connection
	wd    gpio.Watchdog
	log   *logrus.Entry

	passes      uint64
	transitions uint64
}

// New creates a Scanner over the given connection table.
func New(io gpio.IO, clk *clock.Clock, agg *debounce.Aggregator, conns []*debounce.Connection, wd gpio.Watchdog, log *logrus.Entry) *Scanner {
	return &Scanner{
		io:    io,
		clk:   clk,
		agg:   agg,
		conns: conns,
		wd:    wd,
		log:   log,
	}
}

// Pass polls every connection exactly once in configuration order. The
// watchdog is kicked once per connection processed, so its timeout only
// has to cover the longest single-connection scan, not a whole pass.
// Read failures are logged and the connection skipped for this pass;
// absolute deadlines make the next successful sample self-correcting.
func (s *Scanner) Pass() {
	for _, c := range s.conns {
		now := s.clk.Now()
		raw, err := s.io.Read(c.Input.Pin)
		if err != nil {
			s.log.WithError(err).WithField("connection", c.Name).Warn("input read failed")
			s.wd.Kick()
			continue
		}
		changed, err := c.Scan(now, raw, s.agg)
		if err != nil {
			s.log.WithError(err).WithField("connection", c.Name).Error("output write failed")
		}
		if changed {
			s.transitions++
			s.log.WithFields(logrus.Fields{
				"connection": c.Name,
				"output":     c.Out.Name,
				"asserters":  c.Out.AssertCount(),
			}).Info(c.State().String())
		}
		s.wd.Kick()
	}
	s.passes++
}

// Run scans until ctx is done. The loop never blocks and never sleeps;
// cancellation is the daemon's stand-in for power-off.
func (s *Scanner) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		s.Pass()
	}
}

// Passes returns the number of completed scan passes.
func (s *Scanner) Passes() uint64 {
	return s.passes
}

// Transitions returns the number of connection transitions seen.
func (s *Scanner) Transitions() uint64 {
	return s.transitions
}
