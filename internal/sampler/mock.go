package sampler

// MockSampler replays a fixed sequence of values; used in tests. With Loop
// set it cycles instead of reporting ErrNoSample when drained.
type MockSampler struct {
	Values []float64
	Loop   bool

	next int
}

// ReadRaw returns the next value in the sequence.
func (m *MockSampler) ReadRaw() (float64, error) {
	if len(m.Values) == 0 {
		return 0, ErrNoSample
	}
	if m.next >= len(m.Values) {
		if !m.Loop {
			return 0, ErrNoSample
		}
		m.next = 0
	}
	v := m.Values[m.next]
	m.next++
	return v, nil
}

// FuncSampler adapts a function to the sampler boundary.
type FuncSampler func() (float64, error)

// ReadRaw calls the wrapped function.
func (f FuncSampler) ReadRaw() (float64, error) { return f() }
