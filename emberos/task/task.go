// Package task implements the task control block and its trigger model.
//
// A task becomes ready when one of its trigger sources is true: a queued or
// simple notification, a condition on an attached queue, a user event flag,
// or its timer expiring. Evaluate picks the highest precedence source and
// Dispatch consumes it and runs the callback. The dispatcher that decides
// when to call them lives in package kernel.
//
// Notifications, event flags and mode changes may come from interrupt
// context; their read-modify-write sequences run inside the task's critical
// section. Everything else belongs to the dispatching thread.
package task

import (
	"math"
	"sync/atomic"

	"ember/emberos/clock"
	"ember/emberos/critical"
	"ember/emberos/list"
	"ember/emberos/queue"
)

// Config describes a task at setup.
type Config struct {
	Name     string
	Callback Callback
	Data     any
	Priority Priority
	// Interval is the timer period in ticks. Zero makes an enabled task run
	// on every dispatch pass.
	Interval clock.Tick
	// Iterations is Periodic, or the number of timed runs after which the
	// task disables itself. Zero or a negative count means Periodic.
	Iterations int32
	// Mode is the initial mode. The zero value leaves the task disabled,
	// which suits tasks driven only by notifications, queues or flags.
	Mode    Mode
	Section *critical.Section
	Clock   clock.Source
}

// Task is a task control block. It embeds a list.Node so the dispatcher can
// keep it in its lists.
type Task struct {
	list.Node

	name     string
	callback Callback
	sm       StateMachine
	data     any
	priority Priority

	cs  *critical.Section
	clk clock.Source

	timer      clock.Timer
	iterations int32
	iteration  int32
	cycles     uint32

	flags        atomic.Uint32
	notification atomic.Uint32
	asyncData    any
	queued       mailbox

	q          *queue.Queue
	queueCount int

	trigger Trigger
	running bool
}

// New returns a task set up from cfg.
func New(cfg Config) *Task {
	t := &Task{}
	t.Setup(cfg)
	return t
}

// Setup (re)initializes t from cfg. List membership is left alone.
func (t *Task) Setup(cfg Config) bool {
	if t == nil {
		return false
	}
	t.name = cfg.Name
	t.callback = cfg.Callback
	t.sm = nil
	t.data = cfg.Data
	t.priority = cfg.Priority
	t.cs = cfg.Section
	t.clk = cfg.Clock

	t.iterations = cfg.Iterations
	if t.iterations <= 0 {
		t.iterations = Periodic
	}
	t.iteration = 0
	t.cycles = 0
	t.timer.Set(t.now(), cfg.Interval)

	t.flags.Store(flagAwake)
	t.notification.Store(0)
	t.asyncData = nil
	t.queued = mailbox{}
	t.q = nil
	t.queueCount = 0
	t.trigger = None
	t.running = false

	t.SetState(cfg.Mode)
	return true
}

func (t *Task) now() clock.Tick {
	if t.clk == nil {
		return 0
	}
	return t.clk.Tick()
}

// Name returns the task name.
func (t *Task) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// NotificationSend posts a simple notification carrying data. Pending
// sends coalesce: the value counts them and the latest data wins. It fails
// only when the count is saturated.
func (t *Task) NotificationSend(data any) bool {
	if t == nil {
		return false
	}
	t.cs.Enter()
	defer t.cs.Exit()

	if t.notification.Load() == math.MaxUint32 {
		return false
	}
	t.notification.Add(1)
	t.asyncData = data
	return true
}

// NotificationQueue appends data to the task's queued notifications. It
// fails when the FIFO is full.
func (t *Task) NotificationQueue(data any) bool {
	if t == nil {
		return false
	}
	t.cs.Enter()
	defer t.cs.Exit()
	return t.queued.push(data)
}

// HasPendingNotifications reports whether a simple or queued notification is
// waiting.
func (t *Task) HasPendingNotifications() bool {
	if t == nil {
		return false
	}
	if t.notification.Load() > 0 {
		return true
	}
	t.cs.Enter()
	defer t.cs.Exit()
	return t.queued.len() > 0
}

// Notification returns the number of coalesced simple notifications.
func (t *Task) Notification() uint32 {
	if t == nil {
		return 0
	}
	return t.notification.Load()
}

// State returns Asleep for a sleeping task, otherwise Enabled or Disabled.
func (t *Task) State() Mode {
	if t == nil {
		return Disabled
	}
	f := t.flags.Load()
	switch {
	case f&flagAwake == 0:
		return Asleep
	case f&flagEnabled != 0:
		return Enabled
	default:
		return Disabled
	}
}

// IsEnabled reports whether the task timer is enabled.
func (t *Task) IsEnabled() bool {
	return t != nil && t.flags.Load()&flagEnabled != 0
}

// GlobalState derives the scheduling state of t.
func (t *Task) GlobalState() GlobalState {
	switch {
	case t == nil:
		return Undefined
	case t.running:
		return Running
	case t.trigger != None:
		return Ready
	}
	f := t.flags.Load()
	if (f&flagEnabled == 0 || f&flagAwake == 0) && t.pending(t.now()) == None {
		return Suspended
	}
	return Waiting
}

// SetState changes the mode of t. Enabling a disabled task restarts its
// timer; the other modes only flip the gate.
func (t *Task) SetState(m Mode) {
	if t == nil {
		return
	}
	t.cs.Enter()
	defer t.cs.Exit()

	f := t.flags.Load()
	switch m {
	case Disabled:
		f &^= flagEnabled
	case Enabled:
		if f&flagEnabled == 0 {
			f |= flagEnabled
			t.timer.Reload(t.now())
		}
	case Asleep:
		f &^= flagAwake
	case Awake:
		f |= flagAwake
	default:
		return
	}
	t.flags.Store(f)
}

func (t *Task) Suspend() { t.SetState(Disabled) }
func (t *Task) Resume()  { t.SetState(Enabled) }
func (t *Task) Sleep()   { t.SetState(Asleep) }
func (t *Task) Wake()    { t.SetState(Awake) }

// SetTime rearms the timer with a new interval starting now.
func (t *Task) SetTime(interval clock.Tick) {
	if t == nil {
		return
	}
	t.timer.Set(t.now(), interval)
}

// Interval returns the timer interval.
func (t *Task) Interval() clock.Tick {
	if t == nil {
		return 0
	}
	return t.timer.Interval()
}

// SetIterations sets the number of timed runs and restarts the count. Zero
// or Periodic makes the task periodic.
func (t *Task) SetIterations(n int32) {
	if t == nil {
		return
	}
	if n <= 0 {
		n = Periodic
	}
	t.iterations = n
	t.iteration = 0
}

// Iterations returns the configured count and the runs done so far. The
// count restarts from zero when the last run disables the task, so Resume
// starts a fresh pass.
func (t *Task) Iterations() (target, done int32) {
	if t == nil {
		return 0, 0
	}
	return t.iterations, t.iteration
}

// SetPriority changes the dispatch priority.
func (t *Task) SetPriority(p Priority) {
	if t == nil {
		return
	}
	t.priority = p
}

// Priority returns the dispatch priority.
func (t *Task) Priority() Priority {
	if t == nil {
		return 0
	}
	return t.priority
}

// SetCallback replaces the callback.
func (t *Task) SetCallback(cb Callback) {
	if t == nil {
		return
	}
	t.callback = cb
}

// SetData replaces the task data.
func (t *Task) SetData(data any) {
	if t == nil {
		return
	}
	t.data = data
}

// Data returns the task data.
func (t *Task) Data() any {
	if t == nil {
		return nil
	}
	return t.data
}

// ClearTimeElapsed restarts the timer from now without changing its
// interval.
func (t *Task) ClearTimeElapsed() {
	if t == nil {
		return
	}
	t.timer.Reload(t.now())
}

// Cycles returns how many times the task has been dispatched.
func (t *Task) Cycles() uint32 {
	if t == nil {
		return 0
	}
	return t.cycles
}

// Trigger returns the trigger found by the last Evaluate, or None once it
// has been dispatched.
func (t *Task) Trigger() Trigger {
	if t == nil {
		return None
	}
	return t.trigger
}

// ClearTrigger drops a trigger found by Evaluate but not yet dispatched. The
// source itself is left pending.
func (t *Task) ClearTrigger() {
	if t == nil {
		return
	}
	t.trigger = None
}

// AttachQueue links q to t as a trigger source in the given mode. For
// QueueCount, arg is the item threshold and zero detaches. For the other
// modes a non-zero arg attaches and zero detaches.
func (t *Task) AttachQueue(q *queue.Queue, mode QueueMode, arg uint16) bool {
	if t == nil || !q.IsReady() {
		return false
	}
	switch mode {
	case QueueReceiver, QueueFull, QueueCount, QueueEmpty:
	default:
		return false
	}

	t.cs.Enter()
	defer t.cs.Exit()

	f := t.flags.Load()
	if arg != 0 {
		f |= uint32(mode)
	} else {
		f &^= uint32(mode)
	}
	if mode == QueueCount {
		t.queueCount = int(arg)
	}
	if f&queueModes != 0 {
		t.q = q
	} else {
		t.q = nil
	}
	t.flags.Store(f)
	return true
}

// Queue returns the attached queue, or nil.
func (t *Task) Queue() *queue.Queue {
	if t == nil {
		return nil
	}
	return t.q
}

// AttachStateMachine routes events to sm instead of the callback. A nil sm
// restores the callback.
func (t *Task) AttachStateMachine(sm StateMachine) bool {
	if t == nil {
		return false
	}
	t.sm = sm
	return true
}
