package logging

// ProgressSampler suppresses repetitive progress logs while preserving signal
// when the percentage crosses a bucket boundary.
type ProgressSampler struct {
	bucketSize int
	lastBucket int
}

// NewProgressSampler constructs a sampler that emits when the percent crosses
// bucket boundaries (default 10%).
func NewProgressSampler(bucketSize int) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether a progress event should be logged. 100% always
// logs once.
func (s *ProgressSampler) ShouldLog(percent int) bool {
	if s == nil {
		return true
	}
	if percent < 0 {
		return false
	}
	if percent > 100 {
		percent = 100
	}
	bucket := percent / s.bucketSize
	if percent == 100 {
		bucket = 100/s.bucketSize + 1
	}
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		return true
	}
	return false
}

// Reset clears the sampler state (e.g. when a new run starts).
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastBucket = -1
}
