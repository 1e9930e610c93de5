package app

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"ember/emberos/kernel"
)

// panicked reports a task panic on the HAL logger, line by line, and pins a
// summary to the status panel. The kernel has already suspended the task.
func (s *System) panicked(info kernel.PanicInfo) {
	if l := s.h.Logger(); l != nil {
		l.WriteLineString("ember panic: " + info.String())
		for _, line := range strings.Split(string(info.Stack), "\n") {
			if line != "" {
				l.WriteLineString(line)
			}
		}
	}

	if s.screen == nil {
		return
	}
	lines := []string{fmt.Sprintf("PANIC %s on %s", info.Task.Name(), info.Trigger)}
	msg := fmt.Sprint(info.Value)
	for len(lines) < 3 && msg != "" {
		var chunk string
		chunk, msg = takeRunes(msg, s.screen.cols)
		lines = append(lines, chunk)
		msg = strings.TrimLeft(msg, " ")
	}
	s.screen.setAlert(lines)
	s.render()
}

// takeRunes splits s after at most n runes.
func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	i, count := 0, 0
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
