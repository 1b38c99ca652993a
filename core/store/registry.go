package store

import (
	"crypto/rand"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"blind-configurator/core/types"
	"blind-configurator/core/wizard"
	"blind-configurator/internal/errors"
)

// DefaultSessionTTL is how long an untouched session is kept
const DefaultSessionTTL = 2 * time.Hour

// Session is one shopper's configurator: a store plus wizard position
type Session struct {
	ID        string
	Store     *Store
	Wizard    *wizard.Wizard
	CreatedAt time.Time
	TouchedAt time.Time

	// Submitting is set while the configuration is being handed to the cart
	Submitting bool
}

// View is an immutable copy of a session taken under the registry lock
type View struct {
	ID            string
	Configuration types.Configuration
	Wizard        *wizard.Wizard
	CreatedAt     time.Time
	TouchedAt     time.Time
	Submitting    bool
}

// Registry keeps configurator sessions in memory. Sessions are never
// persisted: they end on hand-off to the cart, on delete, or when idle.
type Registry struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	validator *wizard.Validator
	ttl       time.Duration
	now       func() time.Time
	entropy   *ulid.MonotonicEntropy
}

// RegistryOptions configures a registry
type RegistryOptions struct {
	Validator *wizard.Validator
	TTL       time.Duration
	Now       func() time.Time
}

// NewRegistry creates an empty registry
func NewRegistry(opts RegistryOptions) *Registry {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Registry{
		sessions:  make(map[string]*Session),
		validator: opts.Validator,
		ttl:       ttl,
		now:       func() time.Time { return now().UTC() },
		entropy:   ulid.Monotonic(rand.Reader, 0),
	}
}

// Create starts a session with the default configuration and sweeps idle ones
func (r *Registry) Create() View {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)

	s := &Session{
		ID:        ulid.MustNew(ulid.Timestamp(now), r.entropy).String(),
		Store:     New(),
		Wizard:    wizard.New(r.validator),
		CreatedAt: now,
		TouchedAt: now,
	}
	r.sessions[s.ID] = s
	return viewOf(s)
}

// Get returns a session view
func (r *Registry) Get(id string) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.getLocked(id)
	if err != nil {
		return View{}, err
	}
	return viewOf(s), nil
}

// Update runs fn against the live session under the lock. fn is the single
// writer for the duration of the call.
func (r *Registry) Update(id string, fn func(*Session) error) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.getLocked(id)
	if err != nil {
		return View{}, err
	}
	if err := fn(s); err != nil {
		return viewOf(s), err
	}
	s.TouchedAt = r.now()
	return viewOf(s), nil
}

// Delete ends a session. Deleting an unknown session is a not-found error.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.getLocked(id); err != nil {
		return err
	}
	delete(r.sessions, id)
	return nil
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many went
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.now())
}

// IDs returns the live session ids in order
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) getLocked(id string) (*Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.NotFound("session", id)
	}
	if r.now().Sub(s.TouchedAt) > r.ttl {
		delete(r.sessions, id)
		return nil, errors.NotFound("session", id).WithContext("reason", "expired")
	}
	return s, nil
}

func (r *Registry) sweepLocked(now time.Time) int {
	removed := 0
	for id, s := range r.sessions {
		if now.Sub(s.TouchedAt) > r.ttl {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

func viewOf(s *Session) View {
	return View{
		ID:            s.ID,
		Configuration: s.Store.Snapshot(),
		Wizard:        s.Wizard.Clone(),
		CreatedAt:     s.CreatedAt,
		TouchedAt:     s.TouchedAt,
		Submitting:    s.Submitting,
	}
}
