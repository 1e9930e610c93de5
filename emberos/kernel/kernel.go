// Package kernel is the cooperative dispatcher.
//
// Each epoch the kernel asks every task for its trigger, moves the triggered
// ones to a ready list, orders it by priority and dispatches the tasks one
// after the other. Callbacks run to completion; nothing is preempted. Tasks
// of equal priority keep their relative order, and a dispatched task goes to
// the back of the waiting list, so equal priorities share the processor
// round-robin.
package kernel

import (
	"context"
	"errors"
	"sync/atomic"

	"ember/emberos/clock"
	"ember/emberos/critical"
	"ember/emberos/list"
	"ember/emberos/task"

	"github.com/joeycumines/logiface"
)

var (
	ErrNoClock     = errors.New("kernel: no clock source")
	ErrNilTask     = errors.New("kernel: nil task")
	ErrTaskLinked  = errors.New("kernel: task already belongs to a list")
	ErrRunning     = errors.New("kernel: already running")
	errNotKernelEl = errors.New("kernel: foreign list element")
)

// Kernel owns the task lists.
type Kernel struct {
	clk     clock.Source
	cs      *critical.Section
	log     *logiface.Logger[logiface.Event]
	idle    task.Callback
	release task.Callback
	onPanic func(PanicInfo)
	yield   func()

	waiting list.List
	ready   list.List
	current *task.Task

	epochs   uint64
	released atomic.Bool
	running  atomic.Bool
}

// New creates a kernel. WithClock is required.
func New(opts ...Option) (*Kernel, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	k := &Kernel{
		clk:     cfg.clk,
		cs:      cfg.cs,
		log:     cfg.log,
		idle:    cfg.idle,
		release: cfg.release,
		onPanic: cfg.onPanic,
		yield:   cfg.yield,
	}
	k.waiting.Initialize(cfg.cs)
	k.ready.Initialize(cfg.cs)
	return k, nil
}

// Section returns the kernel critical section.
func (k *Kernel) Section() *critical.Section { return k.cs }

// Clock returns the kernel tick source.
func (k *Kernel) Clock() clock.Source { return k.clk }

// Add sets t up from cfg, bound to the kernel clock and critical section,
// and schedules it.
func (k *Kernel) Add(t *task.Task, cfg task.Config) error {
	if t == nil {
		return ErrNilTask
	}
	if t.Linked() {
		return ErrTaskLinked
	}
	cfg.Section = k.cs
	cfg.Clock = k.clk
	t.Setup(cfg)
	if !k.waiting.Insert(t, list.AtBack) {
		return ErrTaskLinked
	}
	k.log.Debug().
		Str("task", t.Name()).
		Int("priority", int(cfg.Priority)).
		Uint64("interval", uint64(cfg.Interval)).
		Str("mode", cfg.Mode.String()).
		Log("task added")
	return nil
}

// Spawn allocates a task and adds it.
func (k *Kernel) Spawn(cfg task.Config) (*task.Task, error) {
	t := &task.Task{}
	if err := k.Add(t, cfg); err != nil {
		return nil, err
	}
	return t, nil
}

// Remove unschedules t. It is safe to call from a callback, including on
// the running task.
func (k *Kernel) Remove(t *task.Task) bool {
	if t == nil || (t.Container() != &k.waiting && t.Container() != &k.ready) {
		return false
	}
	if !list.RemoveItself(t) {
		return false
	}
	t.ClearTrigger()
	k.log.Debug().Str("task", t.Name()).Log("task removed")
	return true
}

// Len returns the number of scheduled tasks.
func (k *Kernel) Len() int { return k.waiting.Len() + k.ready.Len() }

// Self returns the task being dispatched, or nil outside a callback.
func (k *Kernel) Self() *task.Task { return k.current }

// Epochs returns the number of completed Step calls.
func (k *Kernel) Epochs() uint64 { return k.epochs }

// Tasks calls fn for each scheduled task until fn returns false. Waiting
// tasks come first, then those still ready in the current epoch.
func (k *Kernel) Tasks(fn func(t *task.Task) bool) {
	if fn == nil {
		return
	}
	visit := func(h *list.WalkHandle) bool {
		if h.Stage != list.WalkThrough {
			return false
		}
		t, ok := h.Node.(*task.Task)
		return ok && !fn(t)
	}
	if k.waiting.ForEach(visit, nil, list.Forward, nil) {
		return
	}
	k.ready.ForEach(visit, nil, list.Forward, nil)
}

// Step runs one epoch and reports whether any task was dispatched. With no
// ready task the idle callback runs instead.
func (k *Kernel) Step() bool {
	now := k.clk.Tick()
	k.epochs++

	k.waiting.ForEach(func(h *list.WalkHandle) bool {
		if h.Stage != list.WalkThrough {
			return false
		}
		t, ok := h.Node.(*task.Task)
		if !ok {
			k.log.Warning().Err(errNotKernelEl).Limit().Log("skipping list element")
			return false
		}
		if t.Evaluate(now) != task.None {
			k.waiting.Remove(t, list.AtFront)
			k.ready.Insert(t, list.AtBack)
		}
		return false
	}, nil, list.Forward, nil)

	if k.ready.IsEmpty() {
		if k.idle != nil {
			k.idle(task.Event{Trigger: task.ByNoReadyTasks})
		}
		return false
	}

	k.ready.Sort(byPriority)
	for {
		e := k.ready.Remove(nil, list.AtFront)
		if e == nil {
			break
		}
		t := e.(*task.Task)
		k.waiting.Insert(t, list.AtBack)
		k.dispatch(t)
	}
	return true
}

func byPriority(a, b list.Element) bool {
	return a.(*task.Task).Priority() > b.(*task.Task).Priority()
}

func (k *Kernel) dispatch(t *task.Task) {
	trig := t.Trigger()
	k.current = t
	defer func() {
		k.current = nil
		if r := recover(); r != nil {
			k.panicked(t, trig, r)
		}
	}()
	t.Dispatch(k.clk.Tick())
}

// Release asks Run to stop after the current epoch. It is safe to call from
// any context.
func (k *Kernel) Release() { k.released.Store(true) }

// Run steps the kernel until ctx is done or Release is called. A release
// runs the release callback and returns nil.
func (k *Kernel) Run(ctx context.Context) error {
	if !k.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer k.running.Store(false)

	k.log.Info().Int("tasks", k.Len()).Log("scheduler started")
	for {
		select {
		case <-ctx.Done():
			k.log.Info().Uint64("epochs", k.epochs).Err(ctx.Err()).Log("scheduler stopped")
			return ctx.Err()
		default:
		}

		if k.released.Swap(false) {
			if k.release != nil {
				k.release(task.Event{Trigger: task.BySchedulingRelease})
			}
			k.log.Info().Uint64("epochs", k.epochs).Log("scheduler released")
			return nil
		}

		if !k.Step() && k.yield != nil {
			k.yield()
		}
	}
}
