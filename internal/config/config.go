// Package config loads the declarative wiring table: which input pins feed
// which (possibly shared) output pins, with per-connection debounce timing.
// The table is resolved once at startup into immutable runtime objects;
// there is no runtime reconfiguration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/sweeney/switch-debounce/internal/clock"
	"github.com/sweeney/switch-debounce/internal/debounce"
)

// Defaults applied to connections that leave the timing fields unset.
const (
	DefaultActiveMicros = 150    // noise-rejection threshold
	DefaultDwellMillis  = 100    // hold time after release
	DefaultChip         = "gpiochip0"
)

// File is the on-disk configuration.
type File struct {
	Chip        string       `yaml:"chip"`
	Outputs     []Output     `yaml:"outputs"`
	Connections []Connection `yaml:"connections"`
}

// Output declares one physical output pin. Failsafe defaults to true:
// unless opted out, the pin is forced asserted by the fault handler after
// an abnormal reset.
type Output struct {
	Name     string `yaml:"name"`
	Pin      int    `yaml:"pin"`
	Invert   bool   `yaml:"invert"`
	Failsafe *bool  `yaml:"failsafe"`
}

// Input declares one physical input pin with its polarity flags.
type Input struct {
	Pin    int  `yaml:"pin"`
	Pullup bool `yaml:"pullup"`
	Invert bool `yaml:"invert"`
}

// Connection wires one input to a named output with its debounce timing.
type Connection struct {
	Name         string `yaml:"name"`
	Input        Input  `yaml:"input"`
	Output       string `yaml:"output"`
	ActiveMicros uint32 `yaml:"active_us"`
	DwellMicros  uint32 `yaml:"dwell_us"`
}

// Load reads and validates the wiring table, applying defaults.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var f File
	if err := yaml.UnmarshalStrict(raw, &f); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	f.applyDefaults()
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &f, nil
}

func (f *File) applyDefaults() {
	if f.Chip == "" {
		f.Chip = DefaultChip
	}
	for i := range f.Connections {
		c := &f.Connections[i]
		if c.ActiveMicros == 0 {
			c.ActiveMicros = DefaultActiveMicros
		}
		if c.DwellMicros == 0 {
			c.DwellMicros = DefaultDwellMillis * 1000
		}
	}
}

func (f *File) validate() error {
	if len(f.Connections) == 0 {
		return fmt.Errorf("no connections defined")
	}
	if len(f.Outputs) == 0 {
		return fmt.Errorf("no outputs defined")
	}

	outputs := make(map[string]bool, len(f.Outputs))
	pins := make(map[int]string)
	for _, o := range f.Outputs {
		if o.Name == "" {
			return fmt.Errorf("output with empty name")
		}
		if outputs[o.Name] {
			return fmt.Errorf("duplicate output %q", o.Name)
		}
		outputs[o.Name] = true
		if o.Pin < 0 {
			return fmt.Errorf("output %q: negative pin %d", o.Name, o.Pin)
		}
		if prev, ok := pins[o.Pin]; ok {
			return fmt.Errorf("pin %d used by both %s and output %q", o.Pin, prev, o.Name)
		}
		pins[o.Pin] = fmt.Sprintf("output %q", o.Name)
	}

	names := make(map[string]bool, len(f.Connections))
	for _, c := range f.Connections {
		if c.Name == "" {
			return fmt.Errorf("connection with empty name")
		}
		if names[c.Name] {
			return fmt.Errorf("duplicate connection %q", c.Name)
		}
		names[c.Name] = true
		if !outputs[c.Output] {
			return fmt.Errorf("connection %q references unknown output %q", c.Name, c.Output)
		}
		if c.Input.Pin < 0 {
			return fmt.Errorf("connection %q: negative pin %d", c.Name, c.Input.Pin)
		}
		if prev, ok := pins[c.Input.Pin]; ok {
			return fmt.Errorf("pin %d used by both %s and connection %q", c.Input.Pin, prev, c.Name)
		}
		pins[c.Input.Pin] = fmt.Sprintf("connection %q", c.Name)
	}
	return nil
}

// Build assembles the immutable runtime table. Connections share
// *debounce.OutputChannel values, so the many-inputs-one-output
// relationship is explicit shared ownership with the aggregator as the
// only point of mutation.
func (f *File) Build() ([]*debounce.OutputChannel, []*debounce.Connection) {
	outs := make([]*debounce.OutputChannel, 0, len(f.Outputs))
	byName := make(map[string]*debounce.OutputChannel, len(f.Outputs))
	for _, o := range f.Outputs {
		failsafe := true
		if o.Failsafe != nil {
			failsafe = *o.Failsafe
		}
		oc := &debounce.OutputChannel{
			Name:     o.Name,
			Pin:      o.Pin,
			Invert:   o.Invert,
			Failsafe: failsafe,
		}
		outs = append(outs, oc)
		byName[o.Name] = oc
	}

	conns := make([]*debounce.Connection, 0, len(f.Connections))
	for _, c := range f.Connections {
		conns = append(conns, &debounce.Connection{
			Name: c.Name,
			Input: debounce.InputChannel{
				Pin:    c.Input.Pin,
				Pullup: c.Input.Pullup,
				Invert: c.Input.Invert,
			},
			Out:    byName[c.Output],
			Active: clock.FromMicros(c.ActiveMicros),
			Dwell:  clock.FromMicros(c.DwellMicros),
		})
	}
	return outs, conns
}
