package kernel

import (
	"errors"
	"runtime"

	"ember/emberos/clock"
	"ember/emberos/critical"
	"ember/emberos/task"

	"github.com/joeycumines/logiface"
)

type options struct {
	clk     clock.Source
	cs      *critical.Section
	log     *logiface.Logger[logiface.Event]
	idle    task.Callback
	release task.Callback
	onPanic func(PanicInfo)
	yield   func()
}

// Option configures a Kernel.
type Option interface {
	apply(*options) error
}

type optionImpl struct {
	applyFunc func(*options) error
}

func (o *optionImpl) apply(opts *options) error { return o.applyFunc(opts) }

// WithClock sets the tick source. It is required.
func WithClock(src clock.Source) Option {
	return &optionImpl{func(opts *options) error {
		if src == nil {
			return errors.New("kernel: nil clock source")
		}
		opts.clk = src
		return nil
	}}
}

// WithCriticalSection sets the section guarding the task lists and every
// task added to the kernel.
func WithCriticalSection(cs *critical.Section) Option {
	return &optionImpl{func(opts *options) error {
		opts.cs = cs
		return nil
	}}
}

// WithLogger sets the structured logger. A nil logger disables logging.
func WithLogger(l *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *options) error {
		opts.log = l
		return nil
	}}
}

// WithIdle sets the callback run on an epoch where no task was ready.
func WithIdle(cb task.Callback) Option {
	return &optionImpl{func(opts *options) error {
		opts.idle = cb
		return nil
	}}
}

// WithRelease sets the callback run once when Run stops after Release.
func WithRelease(cb task.Callback) Option {
	return &optionImpl{func(opts *options) error {
		opts.release = cb
		return nil
	}}
}

// WithPanicHandler sets the function told about a panicking task.
func WithPanicHandler(fn func(PanicInfo)) Option {
	return &optionImpl{func(opts *options) error {
		opts.onPanic = fn
		return nil
	}}
}

// WithYield sets the function Run calls after an idle epoch. The default
// yields the processor.
func WithYield(fn func()) Option {
	return &optionImpl{func(opts *options) error {
		opts.yield = fn
		return nil
	}}
}

func resolveOptions(opts []Option) (*options, error) {
	cfg := &options{yield: runtime.Gosched}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.clk == nil {
		return nil, ErrNoClock
	}
	return cfg, nil
}
