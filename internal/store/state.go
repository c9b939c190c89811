package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"buschat/internal/chat"
	"buschat/internal/domain"
	"buschat/internal/domain/models"
	"buschat/internal/upstream"
	"buschat/internal/utils"
)

// SessionState is everything the gateway keeps for one browser session:
// cached identity, its upstream client (with credential cookies), the chat
// orchestrator, and the discount/passenger side channels captured from
// replies. The original kept all of this in ambient browser globals; here
// it is one object with an explicit hydrate/clear lifecycle.
type SessionState struct {
	Key string

	mu          sync.Mutex
	user        *models.User
	validated   bool
	revalidated bool
	discounts   *models.DiscountInstruments
	passengers  []models.Passenger

	Client *upstream.Client
	Chat   *chat.Orchestrator
}

// User returns the cached identity, nil when logged out.
func (s *SessionState) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Validated reports whether the cached identity currently counts as
// authenticated.
func (s *SessionState) Validated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.validated
}

// SetUser caches the identity and marks it validated.
func (s *SessionState) SetUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
	s.validated = true
	s.revalidated = true
}

// ClearAuth drops the cached identity. Messages stay; only auth state goes.
func (s *SessionState) ClearAuth() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.validated = false
	s.revalidated = false
}

// NeedsRevalidation is true until the once-per-process-load live profile
// round-trip has confirmed the cached state.
func (s *SessionState) NeedsRevalidation() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && !s.revalidated
}

// SetDiscounts records the instruments that accompanied the latest reply.
func (s *SessionState) SetDiscounts(d *models.DiscountInstruments) {
	if d == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discounts = d
}

// Discounts returns the last seen instruments, zero-valued when none.
func (s *SessionState) Discounts() models.DiscountInstruments {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.discounts == nil {
		return models.DiscountInstruments{}
	}
	return *s.discounts
}

// SetPassengers keeps the passenger list captured from a reply for form
// prefill.
func (s *SessionState) SetPassengers(ps []models.Passenger) {
	if len(ps) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passengers = ps
}

// Passengers returns the captured prefill list.
func (s *SessionState) Passengers() []models.Passenger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Passenger(nil), s.passengers...)
}

// Registry tracks live sessions and hydrates dormant ones from MySQL.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*SessionState

	store     *Store
	cache     Cache
	newClient func(onExpired func()) (*upstream.Client, error)
}

func NewRegistry(st *Store, cache Cache, newClient func(onExpired func()) (*upstream.Client, error)) *Registry {
	return &Registry{
		sessions:  map[string]*SessionState{},
		store:     st,
		cache:     cache,
		newClient: newClient,
	}
}

// Create opens a fresh anonymous session.
func (r *Registry) Create() (*SessionState, error) {
	key := uuid.NewString()
	s, err := r.build(key)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.sessions[key] = s
	r.mu.Unlock()
	return s, nil
}

// Get returns the live session for key, hydrating identity and credential
// cookies from MySQL when this process has not seen the key yet.
func (r *Registry) Get(ctx context.Context, key string) (*SessionState, error) {
	r.mu.Lock()
	if s, ok := r.sessions[key]; ok {
		r.mu.Unlock()
		return s, nil
	}
	r.mu.Unlock()

	s, err := r.build(key)
	if err != nil {
		return nil, err
	}

	if r.store != nil {
		if rec, err := r.store.LoadUser(ctx, key); err == nil {
			s.mu.Lock()
			s.user = &rec.User
			s.validated = rec.Validated
			// revalidated stays false: a hydrated identity must survive
			// one live profile round-trip before it is trusted.
			s.mu.Unlock()
			s.Client.ImportCookies(rec.Credentials)
		} else if !domain.IsNotFound(err) {
			return nil, err
		}
	}

	r.mu.Lock()
	if existing, ok := r.sessions[key]; ok {
		r.mu.Unlock()
		return existing, nil
	}
	r.sessions[key] = s
	r.mu.Unlock()
	return s, nil
}

// Persist writes the session's identity and credentials through to MySQL.
func (r *Registry) Persist(ctx context.Context, s *SessionState) error {
	if r.store == nil {
		return nil
	}
	u := s.User()
	if u == nil {
		return r.store.DeleteUser(ctx, s.Key)
	}
	return r.store.SaveUser(ctx, UserRecord{
		Key:         s.Key,
		User:        *u,
		Validated:   s.Validated(),
		Credentials: s.Client.ExportCookies(),
	})
}

// Clear wipes a session's auth state everywhere: memory, MySQL, cache.
func (r *Registry) Clear(ctx context.Context, key string) {
	r.mu.Lock()
	s, ok := r.sessions[key]
	r.mu.Unlock()
	if ok {
		s.ClearAuth()
	}
	if r.store != nil {
		if err := r.store.DeleteUser(ctx, key); err != nil {
			utils.LogEvent("", "state", "clear", "delete user failed: "+err.Error())
		}
	}
}

// Cache exposes the short-lived state store.
func (r *Registry) Cache() Cache {
	return r.cache
}

func (r *Registry) build(key string) (*SessionState, error) {
	s := &SessionState{Key: key}
	client, err := r.newClient(func() {
		// Refresh exhausted upstream: drop the cached identity so the next
		// request surfaces the login prompt instead of looping.
		r.Clear(context.Background(), key)
	})
	if err != nil {
		return nil, err
	}
	s.Client = client
	s.Chat = chat.NewOrchestrator(client)
	if r.cache != nil {
		s.Chat.SaveReply = func(ctx context.Context, sessionID string, raw []byte) {
			r.cache.SetReply(ctx, sessionID, raw)
		}
	}
	return s, nil
}
