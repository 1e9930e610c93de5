package app

import (
	"fmt"
	"strings"
	"time"

	"ember/emberos/task"
	"ember/internal/buildinfo"
)

// statusLines describes the system for the status panel, heading first.
func (s *System) statusLines() []string {
	now := s.clk.Tick()
	lines := []string{
		fmt.Sprintf("ember %s run %.8s", buildinfo.Short(), s.runID),
		fmt.Sprintf("up %s  epochs %d", s.clk.Duration(now).Truncate(100*time.Millisecond), s.k.Epochs()),
	}

	s.k.Tasks(func(t *task.Task) bool {
		lines = append(lines, fmt.Sprintf("%-8s %-9s p%d %7d", t.Name(), t.GlobalState(), t.Priority(), t.Cycles()))
		return true
	})

	lines = append(lines,
		fmt.Sprintf("led %-3s  queue %d/%d", onOff(s.ledOn), s.q.Count(), s.q.Capacity()),
		fmt.Sprintf("adc n=%d last=%d avg=%d", s.stats.total.Count, s.stats.last, s.stats.average()),
		fmt.Sprintf("isr n=%d overrun=%d drop=%d",
			s.isr.samples.Load(), s.isr.overruns.Load(), s.isr.dropped.Load()),
	)

	var b strings.Builder
	for i, in := range s.inputs {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s:%c%d", in.name, in.node.Status().String()[0], in.presses)
		if (i+1)%3 == 0 {
			lines = append(lines, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		lines = append(lines, b.String())
	}
	return lines
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func (s *System) render() {
	if err := s.screen.draw(s.statusLines()); err != nil {
		s.log.Warning().Err(err).Log("display present failed")
	}
}
