//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	// Frames stops the runner after that many frames; zero runs until ctx
	// is done.
	Frames uint64
}

// NewApp builds an application on h and returns its per-frame step.
type NewApp func(ctx context.Context, h HAL) (step func() error, err error)

// RunHeadless runs the application without opening a window.
func RunHeadless(ctx context.Context, newApp NewApp, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h := newHost(os.Stdout)
	step, err := newApp(ctx, h)
	if err != nil {
		return err
	}

	t := time.NewTicker(d)
	defer t.Stop()

	var frame uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.t.step()
			if step != nil {
				if err := step(); err != nil {
					if errors.Is(err, ErrStopped) {
						return nil
					}
					return err
				}
			}
			frame++
			if cfg.Frames > 0 && frame >= cfg.Frames {
				return nil
			}
		}
	}
}
