package app

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"ember/hal"

	"github.com/BurntSushi/toml"
)

// Config is the demo system scenario. Zero durations and counts take their
// defaults in Validate.
type Config struct {
	// LogLevel is a logiface level name: trace, debug, info, notice,
	// warning, err.
	LogLevel string `toml:"log_level"`

	Blink           Duration `toml:"blink"`
	BlinkIterations int32    `toml:"blink_iterations"`

	// Poll is the input scan period; Debounce is how long a change must
	// hold before it is reported as an edge.
	Poll     Duration `toml:"poll"`
	Debounce Duration `toml:"debounce"`
	// Buttons are the GPIO pins watched for edges.
	Buttons []string `toml:"buttons"`
	// Expander enables the I2C input expander lines.
	Expander bool `toml:"expander"`

	// Sample is the simulated ADC interrupt period. Every ReportEvery
	// samples the interrupt also queues a summary to the report task.
	Sample      Duration `toml:"sample"`
	QueueDepth  int      `toml:"queue_depth"`
	ReportEvery int      `toml:"report_every"`

	Status  Duration `toml:"status"`
	Console bool     `toml:"console"`
}

// Duration is a time.Duration read from TOML strings such as "250ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the built-in scenario.
func DefaultConfig() Config {
	return Config{
		LogLevel:    "info",
		Blink:       Duration{500 * time.Millisecond},
		Poll:        Duration{5 * time.Millisecond},
		Debounce:    Duration{20 * time.Millisecond},
		Buttons:     []string{"BTN1", "BTN2", "BTN3", "BTN4", "SIG1HZ"},
		Expander:    true,
		Sample:      Duration{10 * time.Millisecond},
		QueueDepth:  16,
		ReportEvery: 100,
		Status:      Duration{250 * time.Millisecond},
		Console:     true,
	}
}

// LoadConfig reads a TOML scenario over the defaults. Unknown keys are an
// error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// WriteConfig encodes cfg as a TOML scenario that LoadConfig reads back.
func WriteConfig(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

var (
	errNegative = errors.New("must not be negative")
	errTooMany  = errors.New("too many inputs")
)

// maxEdgeNodes is the number of user event flags: one per watched input.
const maxEdgeNodes = 20

func (c *Config) edgeInputs() int {
	n := len(c.Buttons)
	if c.Expander {
		n += hal.ExpanderLines
	}
	return n
}

// Validate fills defaults for zero fields and rejects impossible values.
func (c *Config) Validate() error {
	def := DefaultConfig()
	for _, f := range []struct {
		name string
		v    *Duration
		def  Duration
	}{
		{"blink", &c.Blink, def.Blink},
		{"poll", &c.Poll, def.Poll},
		{"debounce", &c.Debounce, def.Debounce},
		{"sample", &c.Sample, def.Sample},
		{"status", &c.Status, def.Status},
	} {
		if f.v.Duration < 0 {
			return fmt.Errorf("%s: %w", f.name, errNegative)
		}
		if f.v.Duration == 0 {
			*f.v = f.def
		}
	}
	if c.BlinkIterations < 0 {
		return fmt.Errorf("blink_iterations: %w", errNegative)
	}
	if c.QueueDepth < 0 || c.ReportEvery < 0 {
		return fmt.Errorf("queue_depth/report_every: %w", errNegative)
	}
	if c.QueueDepth == 0 {
		c.QueueDepth = def.QueueDepth
	}
	if c.ReportEvery == 0 {
		c.ReportEvery = def.ReportEvery
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if n := c.edgeInputs(); n > maxEdgeNodes {
		return fmt.Errorf("buttons: %w: %d > %d", errTooMany, n, maxEdgeNodes)
	}
	return nil
}
