package permissions

import "time"

// EventType identifies a configuration mutation.
type EventType string

const (
	EventRoleAdded       EventType = "role_added"
	EventRoleRemoved     EventType = "role_removed"
	EventPermissionAdded EventType = "permission_added"
	EventConfigReplaced  EventType = "config_replaced"
)

// Event is a timestamped record of a successful configuration mutation,
// delivered to subscribers after the mutation has fully applied and all
// cache tiers are invalidated.
type Event struct {
	Type       EventType `json:"type"`
	Role       string    `json:"role,omitempty"`
	Permission string    `json:"permission,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Subscribe registers fn to be invoked synchronously after every successful
// mutation. Subscribers never observe a partially applied mutation; slow
// subscribers delay the mutating caller, not concurrent readers, so sinks
// that do I/O should hand the event off to their own worker.
func (s *Service) Subscribe(fn func(Event)) {
	if fn == nil {
		return
	}
	s.subMu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.subMu.Unlock()
}

// notify delivers the event to all subscribers. Called after the mutation's
// write lock is released so subscribers may call back into the service.
func (s *Service) notify(event Event) {
	s.subMu.RLock()
	subscribers := s.subscribers
	s.subMu.RUnlock()

	for _, fn := range subscribers {
		fn(event)
	}
}
