package checkout

import (
	"sync"

	"github.com/google/uuid"
	"github.com/optica-neyra/backend/internal/domain/checkout"
	"github.com/optica-neyra/backend/internal/domain/shared"
)

// CartSession owns one cart for one active checkout. Cart mutation is
// serialized through the session mutex, so multiple registers can each
// run their own session while no single cart is ever mutated
// concurrently.
type CartSession struct {
	ID uuid.UUID

	mu   sync.Mutex
	cart *checkout.Cart
}

// WithCart runs fn with exclusive access to the session's cart
func (s *CartSession) WithCart(fn func(cart *checkout.Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.cart)
}

// CartStore holds the open checkout sessions, keyed by session id.
// Sessions live in memory only: an uncommitted cart discarded by the
// register simply disappears without touching any external store.
type CartStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*CartSession
}

// NewCartStore creates an empty cart store
func NewCartStore() *CartStore {
	return &CartStore{sessions: make(map[uuid.UUID]*CartSession)}
}

// Create opens a new checkout session with an empty cart
func (s *CartStore) Create() *CartSession {
	session := &CartSession{
		ID:   uuid.New(),
		cart: checkout.NewCart(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session
}

// Get returns the session with the given id
func (s *CartStore) Get(id uuid.UUID) (*CartSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return session, nil
}

// Remove discards a session and its cart
func (s *CartStore) Remove(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of open sessions
func (s *CartStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
