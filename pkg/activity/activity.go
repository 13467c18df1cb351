package activity

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Event is a single activity entry emitted by newsroom services. Events back
// the audit trail for editorial transitions and the notification fan-out for
// assignee handoffs.
type Event struct {
	Verb           string
	ActorID        string
	UserID         string
	TenantID       string
	ObjectType     string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	OccurredAt     time.Time
}

// Hook receives emitted events. Implementations must be safe for concurrent
// use; returned errors are collected but never abort sibling hooks.
type Hook interface {
	Notify(ctx context.Context, event Event) error
}

// Hooks is an ordered collection of hooks notified on every emission.
type Hooks []Hook

// Config controls emitter behaviour.
type Config struct {
	Enabled bool
	// Channel stamps events that do not carry their own channel.
	Channel string
}

// Emitter fans events out to the registered hooks. A nil or disabled emitter
// silently drops events so call sites do not need guards.
type Emitter struct {
	hooks  Hooks
	config Config
	now    func() time.Time
}

// NewEmitter constructs an emitter with the supplied hooks and configuration.
func NewEmitter(hooks Hooks, config Config) *Emitter {
	return &Emitter{
		hooks:  hooks,
		config: config,
		now:    time.Now,
	}
}

// Enabled reports whether the emitter will deliver events.
func (e *Emitter) Enabled() bool {
	return e != nil && e.config.Enabled && len(e.hooks) > 0
}

// Emit delivers the event to every hook. Hook errors are joined so one
// failing sink does not hide the others.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = e.now()
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.config.Channel
	}

	var errs []error
	for _, hook := range e.hooks {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return joinErrors(errs)
}

// CaptureHook records every event it receives. Intended for tests.
type CaptureHook struct {
	mu     sync.Mutex
	Events []Event
}

// Notify implements Hook.
func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = append(h.Events, event)
	return nil
}

// Reset clears captured events.
func (h *CaptureHook) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = nil
}

func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return &multiError{errs: errs}
	}
}

type multiError struct {
	errs []error
}

func (m *multiError) Error() string {
	parts := make([]string, 0, len(m.errs))
	for _, err := range m.errs {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}

func (m *multiError) Unwrap() []error {
	return m.errs
}
