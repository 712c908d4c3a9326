package game

import "time"

// renderHistory records the last N render durations in a ring buffer so
// the panel can draw a timing strip. Only the tick goroutine touches it.
type renderHistory struct {
	buffer    []time.Duration
	nextIndex int
	count     int
}

func newRenderHistory(size int) *renderHistory {
	return &renderHistory{buffer: make([]time.Duration, size)}
}

func (h *renderHistory) record(d time.Duration) {
	h.buffer[h.nextIndex] = d
	h.nextIndex++
	if h.nextIndex >= len(h.buffer) {
		h.nextIndex = 0
	}
	if h.count < len(h.buffer) {
		h.count++
	}
}

// snapshot returns up to the last n durations, oldest first.
func (h *renderHistory) snapshot(n int) []time.Duration {
	if n > h.count {
		n = h.count
	}
	out := make([]time.Duration, 0, n)
	// newest first
	idx := h.nextIndex - 1
	if idx < 0 {
		idx = len(h.buffer) - 1
	}
	for i := 0; i < n; i++ {
		out = append(out, h.buffer[idx])
		idx--
		if idx < 0 {
			idx = len(h.buffer) - 1
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// peak returns the longest recorded duration.
func (h *renderHistory) peak() time.Duration {
	var p time.Duration
	for _, d := range h.snapshot(h.count) {
		p = max(p, d)
	}
	return p
}
