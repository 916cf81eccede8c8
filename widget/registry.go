package widget

import (
	"sync"

	"trivia-finder/utils"
)

// Registry is the process-wide record of bound mounts and of whether the
// mapping provider has signalled readiness. It starts empty, grows only
// through discovery, and its ready flag is set exactly once.
type Registry struct {
	mu        sync.Mutex
	ready     bool
	bound     *utils.KeySet
	instances []*Instance
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{bound: utils.NewKeySet()}
}

// MarkReady sets the ready flag. It returns true only for the first call.
func (r *Registry) MarkReady() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ready {
		return false
	}
	r.ready = true
	return true
}

// Ready reports whether the provider has signalled readiness.
func (r *Registry) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ready
}

// Claim reserves a mount key. It returns false if the key is already bound.
func (r *Registry) Claim(key string) bool {
	return r.bound.Add(key)
}

// IsBound reports whether a mount key has been claimed.
func (r *Registry) IsBound(key string) bool {
	return r.bound.Contains(key)
}

// BoundKeys returns every claimed mount key in sorted order.
func (r *Registry) BoundKeys() []string {
	return r.bound.Keys()
}

// Add records a newly bound instance.
func (r *Registry) Add(in *Instance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances = append(r.instances, in)
}

// Instances returns the bound instances in discovery order.
func (r *Registry) Instances() []*Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Instance, len(r.instances))
	copy(out, r.instances)
	return out
}

// Len returns the number of bound instances.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instances)
}
