package app

import "math"

// Window summarizes a run of samples.
type Window struct {
	Count uint32
	Min   uint16
	Max   uint16
	Sum   uint64
}

func (w *Window) add(v uint16) {
	if w.Count == 0 || v < w.Min {
		w.Min = v
	}
	if w.Count == 0 || v > w.Max {
		w.Max = v
	}
	w.Count++
	w.Sum += uint64(v)
}

// Mean returns the rounded average, zero for an empty window.
func (w Window) Mean() uint16 {
	if w.Count == 0 {
		return 0
	}
	return uint16((w.Sum + uint64(w.Count)/2) / uint64(w.Count))
}

// sampleStats tracks what the sampler task has consumed.
type sampleStats struct {
	total Window
	last  uint16
	// ema is an exponential moving average with alpha 1/8.
	ema float64
}

func (s *sampleStats) add(v uint16) {
	if s.total.Count == 0 {
		s.ema = float64(v)
	} else {
		s.ema += (float64(v) - s.ema) / 8
	}
	s.total.add(v)
	s.last = v
}

func (s *sampleStats) average() uint16 {
	return uint16(math.Round(s.ema))
}
