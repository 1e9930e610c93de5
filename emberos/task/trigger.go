package task

import "ember/emberos/clock"

// Evaluate finds the highest precedence trigger that is currently true,
// remembers it for Dispatch and returns it.
func (t *Task) Evaluate(now clock.Tick) Trigger {
	if t == nil {
		return None
	}
	t.trigger = t.pending(now)
	return t.trigger
}

// pending classifies the trigger sources without consuming any of them.
func (t *Task) pending(now clock.Tick) Trigger {
	t.cs.Enter()
	queued := t.queued.len()
	t.cs.Exit()

	if queued > 0 {
		return ByNotificationQueued
	}
	if t.notification.Load() > 0 {
		return ByNotificationSimple
	}

	f := t.flags.Load()
	if f&flagAwake == 0 {
		return None
	}

	if q := t.q; q != nil {
		n := q.Count()
		switch {
		case f&uint32(QueueReceiver) != 0 && n > 0:
			return ByQueueReceiver
		case f&uint32(QueueFull) != 0 && q.IsFull():
			return ByQueueFull
		case f&uint32(QueueCount) != 0 && t.queueCount > 0 && n >= t.queueCount:
			return ByQueueCount
		case f&uint32(QueueEmpty) != 0 && n == 0:
			return ByQueueEmpty
		}
	}

	if Flags(f)&EventFlagsMask != 0 {
		return ByEventFlags
	}

	if f&flagEnabled != 0 && t.iterationsLeft() && t.timer.Expired(now) {
		return ByTimeElapsed
	}
	return None
}

func (t *Task) iterationsLeft() bool {
	return t.iterations == Periodic || t.iteration < t.iterations
}

// Dispatch consumes the trigger found by Evaluate and runs the task. It
// returns false when there was nothing to dispatch.
//
// Consumption depends on the trigger: one queued notification is dequeued,
// the simple notification is cleared, a ByQueueReceiver item is removed from
// the queue once the callback returns, and ByTimeElapsed reloads the timer
// and advances the iteration count.
func (t *Task) Dispatch(now clock.Tick) bool {
	if t == nil || t.trigger == None {
		return false
	}

	e := Event{
		Task:      t,
		TaskData:  t.data,
		Trigger:   t.trigger,
		FirstCall: t.cycles == 0,
	}

	switch t.trigger {
	case ByNotificationQueued:
		t.cs.Enter()
		e.EventData, _ = t.queued.pop()
		t.cs.Exit()
	case ByNotificationSimple:
		t.cs.Enter()
		e.EventData = t.asyncData
		t.asyncData = nil
		t.notification.Store(0)
		t.cs.Exit()
	case ByQueueReceiver:
		e.EventData = t.q.Peek()
	case ByQueueFull, ByQueueCount, ByQueueEmpty:
		e.EventData = t.q
	case ByTimeElapsed:
		e.StartDelay = t.timer.Overdue(now)
		t.timer.Reload(now)
		if t.iterations != Periodic {
			t.iteration++
			e.FirstIteration = t.iteration == 1
			e.LastIteration = t.iteration >= t.iterations
			if e.LastIteration {
				t.iteration = 0
				t.SetState(Disabled)
			}
		}
	}

	t.running = true
	defer t.finish(e.Trigger)

	switch {
	case t.sm != nil:
		t.sm.Run(e)
	case t.callback != nil:
		t.callback(e)
	}
	return true
}

// finish runs after the callback, including when it panics.
func (t *Task) finish(trig Trigger) {
	t.running = false
	t.trigger = None
	t.cycles++
	if trig == ByQueueReceiver && t.q != nil {
		t.q.RemoveFront()
	}
}

// EventFlagsModify sets or clears the user event flags in flags. Core bits
// are ignored.
func (t *Task) EventFlagsModify(flags Flags, set bool) {
	if t == nil {
		return
	}
	flags &= EventFlagsMask
	t.cs.Enter()
	defer t.cs.Exit()

	f := t.flags.Load()
	if set {
		f |= uint32(flags)
	} else {
		f &^= uint32(flags)
	}
	t.flags.Store(f)
}

// EventFlagsRead returns the user event flags.
func (t *Task) EventFlagsRead() Flags {
	if t == nil {
		return 0
	}
	return Flags(t.flags.Load()) & EventFlagsMask
}

// EventFlagsCheck reports whether any (or, with all, every) flag in flags is
// set. On a match with clearOnExit the checked flags are cleared.
func (t *Task) EventFlagsCheck(flags Flags, clearOnExit, all bool) bool {
	if t == nil {
		return false
	}
	flags &= EventFlagsMask
	if flags == 0 {
		return false
	}
	t.cs.Enter()
	defer t.cs.Exit()

	f := t.flags.Load()
	got := Flags(f) & flags
	match := got != 0
	if all {
		match = got == flags
	}
	if match && clearOnExit {
		t.flags.Store(f &^ uint32(flags))
	}
	return match
}
