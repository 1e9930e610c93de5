package task

import "ember/emberos/clock"

// Mode is the user-controlled eligibility of a task.
//
// Disabled and Enabled gate the task timer. Asleep and Awake gate every
// trigger except notifications.
type Mode uint8

const (
	Disabled Mode = iota
	Enabled
	Asleep
	Awake
)

func (m Mode) String() string {
	switch m {
	case Disabled:
		return "disabled"
	case Enabled:
		return "enabled"
	case Asleep:
		return "asleep"
	case Awake:
		return "awake"
	default:
		return "unknown"
	}
}

// GlobalState is the scheduling state derived from mode and trigger sources.
type GlobalState uint8

const (
	Undefined GlobalState = iota
	Ready
	Waiting
	Suspended
	Running
)

func (s GlobalState) String() string {
	switch s {
	case Undefined:
		return "undefined"
	case Ready:
		return "ready"
	case Waiting:
		return "waiting"
	case Suspended:
		return "suspended"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// Trigger is the source that made a task ready. Values are declared in
// precedence order: when several sources are true at once the lowest value
// wins.
type Trigger uint8

const (
	None Trigger = iota
	ByNotificationQueued
	ByNotificationSimple
	ByQueueReceiver
	ByQueueFull
	ByQueueCount
	ByQueueEmpty
	ByEventFlags
	ByTimeElapsed
	BySchedulingRelease
	ByNoReadyTasks
)

var triggerNames = [...]string{
	None:                 "none",
	ByNotificationQueued: "notification-queued",
	ByNotificationSimple: "notification-simple",
	ByQueueReceiver:      "queue-receiver",
	ByQueueFull:          "queue-full",
	ByQueueCount:         "queue-count",
	ByQueueEmpty:         "queue-empty",
	ByEventFlags:         "event-flags",
	ByTimeElapsed:        "time-elapsed",
	BySchedulingRelease:  "scheduling-release",
	ByNoReadyTasks:       "no-ready-tasks",
}

func (t Trigger) String() string {
	if int(t) < len(triggerNames) {
		return triggerNames[t]
	}
	return "unknown"
}

// Flags is the task flag word. The low 12 bits are owned by the kernel, the
// upper 20 are user event flags.
type Flags uint32

const (
	EventFlag01 Flags = 0x1000 << iota
	EventFlag02
	EventFlag03
	EventFlag04
	EventFlag05
	EventFlag06
	EventFlag07
	EventFlag08
	EventFlag09
	EventFlag10
	EventFlag11
	EventFlag12
	EventFlag13
	EventFlag14
	EventFlag15
	EventFlag16
	EventFlag17
	EventFlag18
	EventFlag19
	EventFlag20
)

// EventFlagsMask covers every user event flag.
const EventFlagsMask Flags = 0xFFFFF000

// QueueMode selects which queue condition triggers a task. The values share
// the task flag word with the other core bits.
type QueueMode uint32

const (
	QueueReceiver QueueMode = 0x04
	QueueFull     QueueMode = 0x08
	QueueCount    QueueMode = 0x10
	QueueEmpty    QueueMode = 0x20
)

const (
	flagEnabled uint32 = 0x02
	flagAwake   uint32 = 0x40
	queueModes         = uint32(QueueReceiver | QueueFull | QueueCount | QueueEmpty)
)

// Priority orders ready tasks; higher runs first.
type Priority uint8

const (
	// Periodic makes a task run for as long as it stays enabled.
	Periodic int32 = -1
	// SingleShot makes a task run once and then disable itself.
	SingleShot int32 = 1
)

// Event is the read-only view handed to a callback. It must not be retained
// after the callback returns.
type Event struct {
	// Task is the task being dispatched.
	Task *Task
	// TaskData is the data set with Config.Data or SetData.
	TaskData any
	// EventData depends on the trigger: the notification payload, the front
	// queue item for ByQueueReceiver, the attached queue for the other queue
	// triggers, nil otherwise.
	EventData any
	Trigger   Trigger
	// FirstCall is true on the very first dispatch of the task.
	FirstCall bool
	// FirstIteration and LastIteration are only set by ByTimeElapsed on a
	// task with a finite iteration count.
	FirstIteration bool
	LastIteration  bool
	// StartDelay is how late a ByTimeElapsed dispatch ran past expiry.
	StartDelay clock.Tick
}

// Callback runs a task.
type Callback func(e Event)

// StateMachine can be attached to a task to receive its events instead of
// the callback.
type StateMachine interface {
	Run(e Event)
}
