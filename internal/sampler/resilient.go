package sampler

import "github.com/banshee-data/anomaly.report/internal/monitoring"

// Source is the minimal sampling interface the resilient wrapper decorates.
type Source interface {
	ReadRaw() (float64, error)
}

// Resilient wraps a source so a failed driver read repeats the last good
// reading instead of propagating into the statistics pipeline. Until the
// first successful read there is nothing to repeat and errors pass through.
type Resilient struct {
	src Source

	last   float64
	seeded bool
}

// NewResilient returns a resilient wrapper around src.
func NewResilient(src Source) *Resilient {
	return &Resilient{src: src}
}

// ReadRaw reads from the underlying source, falling back to the last good
// value on error.
func (r *Resilient) ReadRaw() (float64, error) {
	v, err := r.src.ReadRaw()
	if err != nil {
		if !r.seeded {
			return 0, err
		}
		monitoring.Logf("sampler read failed, repeating last reading: %v", err)
		return r.last, nil
	}
	r.last = v
	r.seeded = true
	return v, nil
}
