package logging

import "strings"

// ProgressSampler suppresses repetitive progress logs while preserving signal
// when the pass changes or the completed fraction crosses a bucket boundary.
type ProgressSampler struct {
	bucketSize float64
	lastPass   string
	lastBucket int
}

// NewProgressSampler constructs a sampler over fractions in [0,1] that emits
// every bucketSize (default 0.05) or on a pass change.
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 || bucketSize > 1 {
		bucketSize = 0.05
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether a progress event should be logged. A negative
// fraction means unknown and only pass changes are reported.
func (s *ProgressSampler) ShouldLog(fraction float64, pass string) bool {
	if s == nil {
		return true
	}
	pass = strings.TrimSpace(pass)
	emit := false
	if pass != "" && pass != s.lastPass {
		s.lastPass = pass
		s.lastBucket = -1
		emit = true
	}
	if fraction >= 0 {
		if fraction > 1 {
			fraction = 1
		}
		// Guard against 0.15/0.05 landing just below an integer.
		bucket := int(fraction/s.bucketSize + 1e-9)
		if bucket > s.lastBucket {
			s.lastBucket = bucket
			emit = true
		}
	}
	return emit
}

// Reset clears the sampler state.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastPass = ""
	s.lastBucket = -1
}
