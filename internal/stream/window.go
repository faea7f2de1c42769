package stream

// lineWindow is a fixed-capacity FIFO of lines. Appending beyond capacity
// evicts the oldest entries, so it always holds the most recent lines in
// arrival order.
type lineWindow struct {
	ring  []string
	start int
	count int
}

func newLineWindow(capacity int) *lineWindow {
	return &lineWindow{ring: make([]string, capacity)}
}

// Append adds lines in order, evicting from the front once full.
func (w *lineWindow) Append(lines ...string) {
	max := len(w.ring)
	for _, line := range lines {
		w.ring[(w.start+w.count)%max] = line
		if w.count < max {
			w.count++
		} else {
			w.start = (w.start + 1) % max
		}
	}
}

// Len reports how many lines are currently retained.
func (w *lineWindow) Len() int {
	return w.count
}

// Snapshot returns the retained lines oldest-first as a fresh slice.
func (w *lineWindow) Snapshot() []string {
	lines := make([]string, w.count)
	for i := 0; i < w.count; i++ {
		lines[i] = w.ring[(w.start+i)%len(w.ring)]
	}
	return lines
}
