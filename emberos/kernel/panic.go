package kernel

import (
	"fmt"

	"ember/emberos/task"
)

// PanicInfo describes a recovered task panic.
type PanicInfo struct {
	Task    *task.Task
	Trigger task.Trigger
	Value   any
	Stack   []byte
}

func (p PanicInfo) String() string {
	return fmt.Sprintf("task %q panicked on %s: %v", p.Task.Name(), p.Trigger, p.Value)
}

// panicked disables the task, so it only runs again on an asynchronous
// trigger or when re-enabled, and reports the panic.
func (k *Kernel) panicked(t *task.Task, trig task.Trigger, v any) {
	t.Suspend()
	info := PanicInfo{
		Task:    t,
		Trigger: trig,
		Value:   v,
		Stack:   captureStack(),
	}
	k.log.Err().
		Str("task", t.Name()).
		Str("trigger", trig.String()).
		Any("panic", v).
		Log("task panicked")
	if k.onPanic != nil {
		k.onPanic(info)
	}
}
