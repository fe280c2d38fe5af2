package anomaly

// Reading is one timestamped sample as stored in the ring. Slots are
// overwritten in place once the ring wraps; a slot is meaningful only while
// Valid is set.
type Reading struct {
	Raw       float64
	Filtered  float64
	UnixNanos int64
	Valid     bool
}

// Ring is a fixed-capacity circular store of readings. Push never fails and
// never allocates after construction; the write cursor advances modulo
// capacity and a monotonically growing counter tracks total samples written.
type Ring struct {
	slots []Reading
	next  int
	total uint64
}

// NewRing returns a ring with the given capacity. Capacity below 1 falls
// back to the default.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = DefaultBufferCapacity
	}
	return &Ring{slots: make([]Reading, capacity)}
}

// Capacity returns the fixed slot count.
func (r *Ring) Capacity() int { return len(r.slots) }

// Total returns the number of samples written since construction.
func (r *Ring) Total() uint64 { return r.total }

// Push writes a reading at the cursor, marks it valid and advances.
func (r *Ring) Push(raw, filtered float64, unixNanos int64) {
	r.slots[r.next] = Reading{Raw: raw, Filtered: filtered, UnixNanos: unixNanos, Valid: true}
	r.next = (r.next + 1) % len(r.slots)
	r.total++
}

// Window returns, oldest-first, the n most recently written valid readings.
// Before the first wrap still-unwritten slots are skipped, so fewer than n
// readings may be returned; callers must size statistics by the returned
// count rather than n.
func (r *Ring) Window(n int) []Reading {
	if n < 1 {
		return nil
	}
	if n > len(r.slots) {
		n = len(r.slots)
	}
	out := make([]Reading, 0, n)
	// Walk backwards from the most recent write, then reverse.
	for i := 0; i < len(r.slots) && len(out) < n; i++ {
		idx := (r.next - 1 - i + len(r.slots)) % len(r.slots)
		if r.slots[idx].Valid {
			out = append(out, r.slots[idx])
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
