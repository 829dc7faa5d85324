package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"canvas-syllabus/internal/domain"
)

var ErrNoUser = errors.New("auth: no signed-in user")

// UserStore keeps signed-in users in a JSON file. Tokens live in it, so it is written 0600.
type UserStore struct {
	path string
	mu   sync.Mutex
}

type usersFile struct {
	Current string                `json:"current,omitempty"`
	Users   []domain.SignedInUser `json:"users"`
}

func NewUserStore(path string) *UserStore {
	return &UserStore{path: path}
}

func (s *UserStore) Path() string { return s.path }

// Add stores u and makes it current. A user already stored for the same domain and id is
// replaced in place.
func (s *UserStore) Add(u domain.SignedInUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return err
	}
	key := u.Key()
	replaced := false
	for i := range f.Users {
		if f.Users[i].Key() == key {
			f.Users[i] = u
			replaced = true
			break
		}
	}
	if !replaced {
		f.Users = append(f.Users, u)
	}
	f.Current = key
	return s.write(f)
}

// List returns users in the order they were first added.
func (s *UserStore) List() ([]domain.SignedInUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return nil, err
	}
	return f.Users, nil
}

// Current returns the most recently added user, or ErrNoUser.
func (s *UserStore) Current() (domain.SignedInUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return domain.SignedInUser{}, err
	}
	for _, u := range f.Users {
		if u.Key() == f.Current {
			return u, nil
		}
	}
	return domain.SignedInUser{}, ErrNoUser
}

// Remove deletes the user with key. Removing the current user promotes the last one left.
func (s *UserStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return err
	}
	kept := f.Users[:0]
	found := false
	for _, u := range f.Users {
		if u.Key() == key {
			found = true
			continue
		}
		kept = append(kept, u)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNoUser, key)
	}
	f.Users = kept
	if f.Current == key {
		f.Current = ""
		if n := len(kept); n > 0 {
			f.Current = kept[n-1].Key()
		}
	}
	return s.write(f)
}

func (s *UserStore) read() (usersFile, error) {
	var f usersFile
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return f, fmt.Errorf("auth: read users: %w", err)
	}
	if len(b) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(b, &f); err != nil {
		return f, fmt.Errorf("auth: parse users %s: %w", s.path, err)
	}
	return f, nil
}

func (s *UserStore) write(f usersFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("auth: mkdir: %w", err)
	}
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("auth: marshal users: %w", err)
	}

	// tmp then rename so a crash never leaves a half-written file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("auth: write users: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("auth: write users: %w", err)
	}
	return nil
}
