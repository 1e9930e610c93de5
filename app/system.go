// Package app wires the kernel to the HAL as a small demo system: a blinking
// LED, debounced buttons and expander lines, and a simulated ADC interrupt
// feeding a sample queue.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"ember/emberos/clock"
	"ember/emberos/critical"
	"ember/emberos/edgecheck"
	"ember/emberos/kernel"
	"ember/emberos/queue"
	"ember/emberos/task"
	"ember/hal"
	"ember/internal/buildinfo"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const sampleSize = 2

// Task priorities, highest first.
const (
	prioButton task.Priority = 3
	prioSample task.Priority = 2
	prioBlink  task.Priority = 1
	prioCount  task.Priority = 1
	prioReport task.Priority = 0
)

var errNoTicks = errors.New("app: hal has no tick source")

// input is a watched pin. Its node stays at a fixed address once added.
type input struct {
	name    string
	node    edgecheck.Node
	flag    task.Flags
	presses uint32
}

// Edge is the notification the button task sends the report task.
type Edge struct {
	Input  string
	Status edgecheck.Status
	At     clock.Tick
}

// isrStats is written from interrupt context.
type isrStats struct {
	samples  atomic.Uint32
	overruns atomic.Uint32
	dropped  atomic.Uint32
}

// System is the running demo.
type System struct {
	h     hal.HAL
	cfg   Config
	log   *Logger
	runID string

	clk  *clock.Counter
	cs   *critical.Section
	k    *kernel.Kernel
	wake chan struct{}
	stop <-chan struct{}

	q      *queue.Queue
	edges  *edgecheck.Instance
	inputs []*input
	exp    *hal.Expander
	led    hal.GPIOPin
	ledOn  bool

	blink   *task.Task
	button  *task.Task
	sampler *task.Task
	counter *task.Task
	report  *task.Task

	stats  sampleStats
	isr    isrStats
	screen *screen
	status clock.Timer
}

// New builds the system on h. Nothing runs until Run.
func New(h hal.HAL, cfg Config, log *Logger) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if h.Time() == nil {
		return nil, errNoTicks
	}

	runID := uuid.NewString()
	s := &System{
		h:     h,
		cfg:   cfg,
		log:   log.Clone().Str("run", runID).Logger(),
		runID: runID,
		clk:   clock.NewCounter(hal.TickPeriod),
		cs:    hal.Section(h.IRQ()),
		wake:  make(chan struct{}, 1),
	}

	k, err := kernel.New(
		kernel.WithClock(s.clk),
		kernel.WithCriticalSection(s.cs),
		kernel.WithLogger(s.log),
		kernel.WithIdle(s.idle),
		kernel.WithRelease(s.released),
		kernel.WithPanicHandler(s.panicked),
		kernel.WithYield(s.sleep),
	)
	if err != nil {
		return nil, err
	}
	s.k = k

	s.q = queue.New(s.cs, sampleSize, cfg.QueueDepth)
	if s.q == nil {
		return nil, fmt.Errorf("app: queue of %d samples", cfg.QueueDepth)
	}

	if err := s.setupInputs(); err != nil {
		return nil, err
	}
	if err := s.setupTasks(); err != nil {
		return nil, err
	}

	if d := h.Display(); d != nil {
		s.screen = newScreen(d.Framebuffer(), cfg.Console)
	}
	s.status.Set(s.clk.Tick(), s.ticks(cfg.Status))

	s.log.Info().
		Str("version", buildinfo.Short()).
		Int("tasks", k.Len()).
		Int("inputs", len(s.inputs)).
		Log("system ready")
	return s, nil
}

func (s *System) ticks(d Duration) clock.Tick { return s.clk.Ticks(d.Duration) }

func (s *System) setupInputs() error {
	g := s.h.GPIO()
	if id, ok := hal.FindPin(g, hal.PinLED); ok {
		s.led = g.Pin(id)
	}

	s.edges = edgecheck.New(readInput, s.ticks(s.cfg.Debounce), s.clk)
	if s.edges == nil {
		return errors.New("app: edge check setup failed")
	}
	add := func(name string, port any, pin uint8) error {
		if len(s.inputs) >= maxEdgeNodes {
			return errTooMany
		}
		in := &input{name: name, flag: task.EventFlag01 << len(s.inputs)}
		if !s.edges.AddNode(&in.node, port, pin) {
			return fmt.Errorf("app: input %s not added", name)
		}
		s.inputs = append(s.inputs, in)
		return nil
	}

	for _, name := range s.cfg.Buttons {
		id, ok := hal.FindPin(g, name)
		if !ok {
			s.log.Warning().Str("pin", name).Log("button pin not found")
			continue
		}
		if err := add(name, g, uint8(id)); err != nil {
			return err
		}
	}

	if !s.cfg.Expander {
		return nil
	}
	bus := s.h.I2C()
	if bus == nil {
		s.log.Notice().Log("no i2c bus, expander disabled")
		return nil
	}
	s.exp = hal.NewExpander(bus, hal.ExpanderAddr)
	if err := s.exp.Refresh(); err != nil {
		s.log.Warning().Err(err).Log("expander not responding")
		s.exp = nil
		return nil
	}
	for i := 0; i < hal.ExpanderLines; i++ {
		if err := add(fmt.Sprintf("EXP%d", i), s.exp.Port(), uint8(i)); err != nil {
			return err
		}
	}
	return nil
}

// readInput reads GPIO pins and expander registers.
func readInput(port any, pin uint8) bool {
	if reg, ok := port.(*uint16); ok {
		return edgecheck.Reg16(reg, pin)
	}
	return hal.ReadPin(port, pin)
}

func (s *System) setupTasks() (err error) {
	spawn := func(cfg task.Config) *task.Task {
		if err != nil {
			return nil
		}
		var t *task.Task
		t, err = s.k.Spawn(cfg)
		return t
	}

	s.report = spawn(task.Config{Name: "report", Priority: prioReport, Callback: s.onReport})
	s.counter = spawn(task.Config{Name: "counter", Priority: prioCount, Callback: s.onCount})
	s.sampler = spawn(task.Config{Name: "sampler", Priority: prioSample, Callback: s.onSample})
	s.button = spawn(task.Config{
		Name:     "button",
		Priority: prioButton,
		Interval: s.ticks(s.cfg.Poll),
		Mode:     task.Enabled,
		Callback: s.onPoll,
	})
	s.blink = spawn(task.Config{
		Name:       "blink",
		Priority:   prioBlink,
		Interval:   s.ticks(s.cfg.Blink),
		Iterations: s.cfg.BlinkIterations,
		Mode:       task.Enabled,
		Callback:   s.onBlink,
	})
	if err != nil {
		return err
	}
	if !s.sampler.AttachQueue(s.q, task.QueueReceiver, 1) {
		return errors.New("app: sampler queue not attached")
	}
	return nil
}

// Run drives the system until ctx is done or the kernel is released. The
// tick feeder and the sample interrupt run alongside the kernel loop. A
// release returns nil.
func (s *System) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.stop = ctx.Done()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.feedTicks(gctx) })
	g.Go(func() error { return s.sampleInterrupt(gctx) })
	g.Go(func() error {
		defer cancel()
		return s.k.Run(gctx)
	})
	err := g.Wait()
	s.log.Info().
		Uint64("epochs", s.k.Epochs()).
		Uint64("samples", uint64(s.isr.samples.Load())).
		Uint64("overruns", uint64(s.isr.overruns.Load())).
		Log("system stopped")
	return err
}

// Stop releases the kernel; Run returns once the current epoch ends.
func (s *System) Stop() { s.k.Release() }

// Kernel returns the dispatcher.
func (s *System) Kernel() *kernel.Kernel { return s.k }

// signal wakes the kernel if it is sleeping.
func (s *System) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// sleep parks the kernel after an idle epoch until a tick or an interrupt.
func (s *System) sleep() {
	select {
	case <-s.wake:
	case <-s.stop:
	}
}

func (s *System) feedTicks(ctx context.Context) error {
	ch := s.h.Time().Ticks()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return errNoTicks
			}
			s.clk.Advance(1)
			s.signal()
		}
	}
}

func (s *System) released(task.Event) {
	s.log.Notice().Uint64("epochs", s.k.Epochs()).Log("kernel released")
}
