package app

import (
	"context"

	"ember/hal"
)

// Start builds the system on h and runs it in the background until ctx is
// done. The returned step has the shape the host runners call once per
// frame: it returns nil while the system runs, hal.ErrStopped after a clean
// release and the failure otherwise.
func Start(ctx context.Context, h hal.HAL, cfg Config) (step func() error, err error) {
	log, err := NewLogger(lineWriter{out: h.Logger()}, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	s, err := New(h, cfg, log)
	if err != nil {
		return nil, err
	}

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	var result error
	return func() error {
		if result != nil {
			return result
		}
		select {
		case err := <-done:
			result = err
			if err == nil {
				result = hal.ErrStopped
			}
			return result
		default:
			return nil
		}
	}, nil
}

// Run starts the system with cfg and blocks forever (TinyGo entrypoint).
func Run(h hal.HAL, cfg Config) {
	log, err := NewLogger(lineWriter{out: h.Logger()}, cfg.LogLevel)
	if err == nil {
		var s *System
		if s, err = New(h, cfg, log); err == nil {
			err = s.Run(context.Background())
		}
	}
	if err != nil {
		if l := h.Logger(); l != nil {
			l.WriteLineString("ember: " + err.Error())
		}
	}
	select {}
}
