package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ember.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
blink = "250ms"
blink_iterations = 4
buttons = ["BTN1"]
expander = false
queue_depth = 4
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.Blink.Duration)
	assert.Equal(t, int32(4), cfg.BlinkIterations)
	assert.Equal(t, []string{"BTN1"}, cfg.Buttons)
	assert.False(t, cfg.Expander)
	assert.Equal(t, 4, cfg.QueueDepth)
	// untouched keys keep their defaults
	assert.Equal(t, 5*time.Millisecond, cfg.Poll.Duration)
	assert.Equal(t, 100, cfg.ReportEvery)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "bogus = 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")

	_, err = LoadConfig(writeConfig(t, `poll = "soon"`+"\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `poll = "-5ms"`+"\n"))
	assert.ErrorIs(t, err, errNegative)

	_, err = LoadConfig(writeConfig(t, "log_level = \"loud\"\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultConfig().Blink, cfg.Blink)
	assert.Equal(t, DefaultConfig().QueueDepth, cfg.QueueDepth)
	assert.Equal(t, "info", cfg.LogLevel)

	cfg = DefaultConfig()
	cfg.BlinkIterations = -1
	assert.ErrorIs(t, cfg.Validate(), errNegative)

	cfg = DefaultConfig()
	cfg.QueueDepth = -2
	assert.ErrorIs(t, cfg.Validate(), errNegative)

	cfg = DefaultConfig()
	cfg.Buttons = make([]string, maxEdgeNodes-7)
	assert.ErrorIs(t, cfg.Validate(), errTooMany)
	cfg.Expander = false
	assert.NoError(t, cfg.Validate())
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1.5s")))
	assert.Equal(t, 1500*time.Millisecond, d.Duration)

	b, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", string(b))

	assert.Error(t, d.UnmarshalText([]byte("later")))
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]logiface.Level{
		"trace":   logiface.LevelTrace,
		"DEBUG":   logiface.LevelDebug,
		" info ":  logiface.LevelInformational,
		"notice":  logiface.LevelNotice,
		"warn":    logiface.LevelWarning,
		"warning": logiface.LevelWarning,
		"error":   logiface.LevelError,
		"err":     logiface.LevelError,
	} {
		got, err := parseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseLevel("loud")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(&buf, "info")
	require.NoError(t, err)

	log.Debug().Log("hidden")
	log.Info().Str("pin", "BTN1").Log("shown")
	out := buf.String()
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "BTN1")
	assert.NotContains(t, out, "hidden")

	_, err = NewLogger(&buf, "loud")
	assert.Error(t, err)
}

func TestLineWriter(t *testing.T) {
	out := &fakeLogger{}
	n, err := lineWriter{out: out}.Write([]byte("{\"msg\":\"x\"}\n"))
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.Equal(t, `{"msg":"x"}`, out.String())

	n, err = lineWriter{}.Write([]byte("dropped"))
	assert.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestWriteConfigRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Blink = Duration{125 * time.Millisecond}
	cfg.Buttons = []string{"BTN3"}

	var buf bytes.Buffer
	require.NoError(t, WriteConfig(&buf, cfg))
	assert.Contains(t, buf.String(), `blink = "125ms"`)

	got, err := LoadConfig(writeConfig(t, buf.String()))
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
