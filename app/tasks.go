package app

import (
	"context"
	"encoding/binary"
	"time"

	"ember/emberos/edgecheck"
	"ember/emberos/task"
	"ember/hal"
)

func (s *System) onBlink(e task.Event) {
	s.ledOn = !s.ledOn
	if s.led != nil {
		if err := s.led.Write(s.ledOn); err != nil {
			s.log.Warning().Err(err).Limit().Log("led write failed")
		}
	} else if l := s.h.LED(); l != nil {
		if s.ledOn {
			l.High()
		} else {
			l.Low()
		}
	}

	switch {
	case e.FirstIteration:
		s.log.Info().Bool("led", s.ledOn).Log("blink started")
	case e.LastIteration:
		s.log.Info().Uint64("cycles", uint64(e.Task.Cycles())+1).Log("blink finished")
	}
	if e.StartDelay > 0 {
		s.log.Debug().Uint64("late", uint64(e.StartDelay)).Limit().Log("blink late")
	}
}

// onPoll scans the inputs. Each edge is sent to the report task and flagged
// on the counter task.
func (s *System) onPoll(e task.Event) {
	if s.exp != nil {
		if err := s.exp.Refresh(); err != nil {
			s.log.Warning().Err(err).Limit().Log("expander read failed")
		}
	}
	if !s.edges.Update() {
		return
	}
	now := s.clk.Tick()
	for _, in := range s.inputs {
		st := in.node.Status()
		if st != edgecheck.Rising && st != edgecheck.Falling {
			continue
		}
		s.report.NotificationSend(Edge{Input: in.name, Status: st, At: now})
		s.counter.EventFlagsModify(in.flag, true)
	}
}

func (s *System) onCount(e task.Event) {
	for _, in := range s.inputs {
		if e.Task.EventFlagsCheck(in.flag, true, false) {
			in.presses++
		}
	}
}

func (s *System) onSample(e task.Event) {
	item, ok := e.EventData.([]byte)
	if !ok || len(item) < sampleSize {
		return
	}
	s.stats.add(binary.LittleEndian.Uint16(item))
}

func (s *System) onReport(e task.Event) {
	switch v := e.EventData.(type) {
	case Edge:
		s.log.Info().
			Str("input", v.Input).
			Str("edge", v.Status.String()).
			Uint64("tick", uint64(v.At)).
			Limit().
			Log("input edge")
		s.screen.printf("%8d %s %s\n", v.At, v.Input, v.Status)
	case Window:
		s.log.Info().
			Int("count", int(v.Count)).
			Int("min", int(v.Min)).
			Int("max", int(v.Max)).
			Int("mean", int(v.Mean())).
			Log("sample window")
		s.screen.printf("adc n=%d %d..%d ~%d\n", v.Count, v.Min, v.Max, v.Mean())
	case string:
		s.log.Info().Str("note", v).Str("trigger", e.Trigger.String()).Log("report")
		s.screen.printf("%s\n", v)
	}
}

// idle runs when no task was ready: it handles keys and refreshes the
// status panel.
func (s *System) idle(task.Event) {
	s.keys()
	now := s.clk.Tick()
	if !s.status.Expired(now) {
		return
	}
	s.status.Reload(now)
	s.render()
}

func (s *System) keys() {
	in := s.h.Input()
	if in == nil || in.Keyboard() == nil {
		return
	}
	ch := in.Keyboard().Events()
	for {
		select {
		case ev := <-ch:
			if ev.Press {
				s.key(ev.Code)
			}
		default:
			return
		}
	}
}

func (s *System) key(code hal.KeyCode) {
	switch code {
	case hal.KeyEscape:
		s.log.Notice().Log("escape pressed")
		s.Stop()
	case hal.KeySpace:
		if s.blink.IsEnabled() {
			s.blink.Suspend()
		} else {
			s.blink.Resume()
		}
		s.report.NotificationQueue("blink " + s.blink.State().String())
	case hal.KeyEnter:
		s.report.NotificationQueue("mark")
	}
}

// adcValue is a triangle wave over 512 samples spanning 12 bits.
func adcValue(seq uint32) uint16 {
	p := seq % 512
	if p >= 256 {
		p = 511 - p
	}
	return uint16(p * 16)
}

// sampleInterrupt stands in for an ADC conversion-complete interrupt. Each
// sample goes to the back of the queue; every ReportEvery samples a window
// summary is queued to the report task.
func (s *System) sampleInterrupt(ctx context.Context) error {
	t := time.NewTicker(s.cfg.Sample.Duration)
	defer t.Stop()

	var (
		item [sampleSize]byte
		win  Window
		seq  uint32
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
		v := adcValue(seq)
		seq++
		binary.LittleEndian.PutUint16(item[:], v)
		if !s.q.SendToBack(item[:]) {
			s.isr.overruns.Add(1)
		}
		s.isr.samples.Add(1)

		win.add(v)
		if int(win.Count) >= s.cfg.ReportEvery {
			if !s.report.NotificationQueue(win) {
				s.isr.dropped.Add(1)
			}
			win = Window{}
		}
		s.signal()
	}
}
