// Package application holds the credential store service and the domain
// logic that drives its backends through the driven ports.
package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/accountingops/credvault/internal/domain/model"
	"github.com/accountingops/credvault/internal/domain/port/driven"
)

// BackendOpener opens a durable backend for the given path. The composition
// root supplies one, so this package never imports an adapter.
type BackendOpener func(path string) (driven.CredentialBackend, error)

// CredentialStore owns the in-memory snapshot of client profiles and keeps
// it in lockstep with a durable backend. After every successful mutation the
// snapshot is re-read from the backend and replaced wholesale, then every
// subscriber is notified once, synchronously, on the caller's goroutine.
//
// The store performs no internal locking; callers sharing one instance
// across goroutines must serialise access themselves.
type CredentialStore struct {
	openBackend BackendOpener
	backend     driven.CredentialBackend
	clients     []model.ClientProfile

	subs   []subscription
	nextID int
}

type subscription struct {
	id int
	fn func()
}

// NewCredentialStore creates an unopened store that will obtain backends
// from open.
func NewCredentialStore(open BackendOpener) *CredentialStore {
	return &CredentialStore{openBackend: open}
}

// Subscribe registers fn to run after every committed change to the visible
// snapshot. No payload is delivered; subscribers re-query Clients or
// FindClient. The returned function removes the registration.
func (s *CredentialStore) Subscribe(fn func()) (unsubscribe func()) {
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Open closes any previously open backend, creates missing parent
// directories, opens or creates the target and loads the initial snapshot.
// On success subscribers receive one change event for the loaded snapshot.
func (s *CredentialStore) Open(ctx context.Context, path string) error {
	if err := s.Close(); err != nil {
		return err
	}

	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: credential store path is empty", driven.ErrPath)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("%w: create directory %s: %v", driven.ErrIO, dir, err)
		}
	}

	backend, err := s.openBackend(path)
	if err != nil {
		return err
	}
	s.backend = backend

	return s.reload(ctx)
}

// Close releases the current backend, if any. The last loaded snapshot
// remains readable until Clear or the next Open.
func (s *CredentialStore) Close() error {
	if s.backend == nil {
		return nil
	}
	err := s.backend.Close()
	s.backend = nil
	if err != nil {
		return fmt.Errorf("%w: close backend: %v", driven.ErrIO, err)
	}
	return nil
}

// Clients returns a copy of the current snapshot. It never performs I/O.
func (s *CredentialStore) Clients() []model.ClientProfile {
	out := make([]model.ClientProfile, len(s.clients))
	for i, p := range s.clients {
		out[i] = p.Clone()
	}
	return out
}

// FindClient looks a profile up by case-insensitive display name. The
// second result reports whether it exists.
func (s *CredentialStore) FindClient(name string) (model.ClientProfile, bool) {
	for _, p := range s.clients {
		if p.NameEquals(name) {
			return p.Clone(), true
		}
	}
	return model.ClientProfile{}, false
}

// ServicesForClient returns the client's configured service keys sorted
// alphabetically, or nil if the client does not exist.
func (s *CredentialStore) ServicesForClient(name string) []string {
	profile, ok := s.FindClient(name)
	if !ok {
		return nil
	}

	services := make([]string, 0, len(profile.Services))
	for service := range profile.Services {
		services = append(services, service)
	}
	sort.Strings(services)
	return services
}

// AddOrUpdateClient persists the profile, replacing any existing client with
// the same case-insensitive name wholesale: prior services not present in
// profile are discarded, never merged. On backend success the snapshot is
// reloaded and one change event fires.
func (s *CredentialStore) AddOrUpdateClient(ctx context.Context, profile model.ClientProfile) error {
	if s.backend == nil {
		return fmt.Errorf("%w: credential store is not open", driven.ErrIO)
	}

	trimmed := strings.TrimSpace(profile.DisplayName)
	if trimmed == "" {
		return fmt.Errorf("%w: client name cannot be empty", driven.ErrValidation)
	}

	p := profile.Clone()
	p.DisplayName = trimmed

	if err := s.backend.ReplaceClient(ctx, p); err != nil {
		return err
	}
	return s.reload(ctx)
}

// RemoveClient deletes the named client and reports whether it existed.
// Removing an unknown name is not an error.
func (s *CredentialStore) RemoveClient(ctx context.Context, name string) (bool, error) {
	if s.backend == nil {
		return false, fmt.Errorf("%w: credential store is not open", driven.ErrIO)
	}

	removed, err := s.backend.RemoveClient(ctx, name)
	if err != nil {
		return false, err
	}

	if err := s.reload(ctx); err != nil {
		return false, err
	}
	return removed, nil
}

// Clear drops the in-memory snapshot without touching the backend. A change
// event fires only if the snapshot was non-empty.
func (s *CredentialStore) Clear() {
	if len(s.clients) == 0 {
		return
	}
	s.clients = nil
	s.notify()
}

// reload replaces the snapshot from the backend and notifies subscribers.
// It runs only after a successful backend write, so a failed mutation never
// disturbs the in-memory state.
func (s *CredentialStore) reload(ctx context.Context) error {
	profiles, err := s.backend.Load(ctx)
	if err != nil {
		return err
	}
	s.clients = profiles
	s.notify()
	return nil
}

func (s *CredentialStore) notify() {
	// Snapshot the registry so a subscriber unsubscribing mid-broadcast
	// cannot skip its neighbours.
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	for _, sub := range subs {
		sub.fn()
	}
}
