package ratelimit

import "sync"

// Registry hands out one Limiter per named external service, so consecutive
// calls to the same upstream (scoring, embedding, translation) are throttled
// independently while calls to different services never block each other.
type Registry struct {
	mu       sync.Mutex
	limiters map[string]*Limiter
	rps      map[string]float64
	jitter   float64
}

// NewRegistry creates a registry with per-service requests-per-second
// ceilings. Services absent from rps get an unlimited limiter.
func NewRegistry(rps map[string]float64, jitter float64) *Registry {
	copied := make(map[string]float64, len(rps))
	for k, v := range rps {
		copied[k] = v
	}
	return &Registry{
		limiters: make(map[string]*Limiter),
		rps:      copied,
		jitter:   jitter,
	}
}

// For returns the limiter for the named service, creating it on first use.
func (r *Registry) For(service string) *Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.limiters[service]; ok {
		return l
	}
	l := NewLimiter(r.rps[service], r.jitter)
	r.limiters[service] = l
	return l
}

// Stop releases every limiter created so far.
func (r *Registry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.limiters {
		l.Stop()
	}
}
