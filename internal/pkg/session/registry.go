package session

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/shrink"
)

// Factory builds the controller for a new session id
type Factory func(id string) *shrink.Controller

// Registry maps session ids to their controllers
type Registry struct {
	mu          sync.Mutex
	factory     Factory
	controllers map[string]*shrink.Controller
}

var registry *Registry

func NewRegistry(factory Factory) *Registry {
	return &Registry{
		factory:     factory,
		controllers: make(map[string]*shrink.Controller),
	}
}

// SetupRegistry installs the process wide registry
func SetupRegistry(factory Factory) *Registry {
	registry = NewRegistry(factory)
	return registry
}

func GetRegistry() *Registry {
	return registry
}

// Get returns the controller for id, creating it on first use
func (r *Registry) Get(id string) *shrink.Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.controllers[id]; ok {
		c.Touch()
		return c
	}
	c := r.factory(id)
	r.controllers[id] = c
	log.Debugf("[Session] Created controller for session %s", id)
	return c
}

// Lookup returns the controller for id without creating one
func (r *Registry) Lookup(id string) (*shrink.Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.controllers[id]
	return c, ok
}

// Remove closes and forgets the controller for id
func (r *Registry) Remove(ctx context.Context, id string) {
	r.mu.Lock()
	c, ok := r.controllers[id]
	delete(r.controllers, id)
	r.mu.Unlock()

	if ok {
		c.Close(ctx)
	}
}

// Sweep closes controllers idle for longer than maxIdle and returns how many
// were evicted
func (r *Registry) Sweep(ctx context.Context, maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	var idle []*shrink.Controller
	for id, c := range r.controllers {
		if c.LastActive().Before(cutoff) {
			idle = append(idle, c)
			delete(r.controllers, id)
		}
	}
	r.mu.Unlock()

	for _, c := range idle {
		c.Close(ctx)
	}
	if len(idle) > 0 {
		log.Infof("[Session] Evicted %d idle controllers", len(idle))
	}
	return len(idle)
}

// Len returns the number of live controllers
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}

// CloseAll closes every controller, used on shutdown
func (r *Registry) CloseAll(ctx context.Context) {
	r.mu.Lock()
	all := r.controllers
	r.controllers = make(map[string]*shrink.Controller)
	r.mu.Unlock()

	for _, c := range all {
		c.Close(ctx)
	}
}
