package session

import (
	"context"
	"encoding/json"
	"sync"

	"cinepoll/internal/domain/user"
	"cinepoll/internal/storage"
)

// Store exclusively owns the authenticated session and its persisted copy.
// No other component writes to the state store. Reads hand out copies, so
// callers never hold a reference into the store's state.
type Store struct {
	mu          sync.RWMutex
	kv          storage.KV
	current     *user.User
	access      string
	refresh     string
	loading     bool
	subscribers map[int]func()
	nextSubID   int
}

func NewStore(kv storage.KV) *Store {
	return &Store{
		kv:          kv,
		loading:     true,
		subscribers: map[int]func(){},
	}
}

// Initialize restores the session from the state store. It only restores
// when both the serialized user record and the access token are present,
// and it always terminates the loading state, whatever the outcome.
func (s *Store) Initialize(ctx context.Context) error {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		s.notify()
	}()

	rawUser, haveUser, err := s.kv.Get(ctx, storage.KeyUser)
	if err != nil {
		return err
	}
	access, haveAccess, err := s.kv.Get(ctx, storage.KeyAccessToken)
	if err != nil {
		return err
	}
	if !haveUser || !haveAccess {
		return nil
	}

	var restored user.User
	if err := json.Unmarshal([]byte(rawUser), &restored); err != nil {
		return nil
	}
	refresh, _, _ := s.kv.Get(ctx, storage.KeyRefreshToken)

	s.mu.Lock()
	s.current = &restored
	s.access = access
	s.refresh = refresh
	s.mu.Unlock()
	return nil
}

// Set replaces the session wholesale and persists all three entries
// together, as a successful login or registration does.
func (s *Store) Set(ctx context.Context, u user.User, access, refresh string) error {
	if u.Name == "" {
		u.Name = u.DisplayName()
	}

	serialized, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, storage.KeyAccessToken, access); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, storage.KeyRefreshToken, refresh); err != nil {
		// The trio is written together or not at all; undo the partial write.
		_ = s.kv.Delete(ctx, storage.KeyAccessToken)
		return err
	}
	if err := s.kv.Set(ctx, storage.KeyUser, string(serialized)); err != nil {
		_ = s.kv.Delete(ctx, storage.KeyAccessToken, storage.KeyRefreshToken)
		return err
	}

	s.mu.Lock()
	s.current = &u
	s.access = access
	s.refresh = refresh
	s.mu.Unlock()
	s.notify()
	return nil
}

// Clear wipes the session and every persisted entry. No network call is
// involved; the server never learns about a logout.
func (s *Store) Clear(ctx context.Context) error {
	err := s.kv.Delete(ctx, storage.KeyUser, storage.KeyAccessToken, storage.KeyRefreshToken)

	s.mu.Lock()
	s.current = nil
	s.access = ""
	s.refresh = ""
	s.mu.Unlock()
	s.notify()
	return err
}

// Current returns a copy of the authenticated user, if any.
func (s *Store) Current() (user.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return user.User{}, false
	}
	return *s.current, true
}

// ReplaceUser swaps the stored user record, keeping tokens. Used after a
// profile update returns the server's canonical copy.
func (s *Store) ReplaceUser(ctx context.Context, u user.User) error {
	s.mu.RLock()
	access, refresh := s.access, s.refresh
	active := s.current != nil
	s.mu.RUnlock()
	if !active {
		return nil
	}
	return s.Set(ctx, u, access, refresh)
}

// AccessToken implements api.TokenSource.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// Loading reports whether the initial restore has not yet finished. Guards
// suspend routing while this is true.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Subscribe registers a callback fired after every session change. The
// returned function unsubscribes.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify() {
	s.mu.RLock()
	callbacks := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		callbacks = append(callbacks, fn)
	}
	s.mu.RUnlock()

	for _, fn := range callbacks {
		fn()
	}
}
