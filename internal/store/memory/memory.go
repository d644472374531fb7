// Package memory is an in-process AccountRepository. It backs the default
// dev configuration and the test suites; nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"fiscal/internal/core"
	"fiscal/internal/store"
)

type Store struct {
	mu       sync.Mutex
	accounts map[string]*core.Account
}

var _ store.AccountRepository = (*Store)(nil)

func New() *Store {
	return &Store{accounts: make(map[string]*core.Account)}
}

func (s *Store) FindAccountByEmail(_ context.Context, email string) (*core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[email]
	if !ok {
		return nil, core.ErrAccountNotFound
	}
	return copyAccount(acct), nil
}

func (s *Store) InsertAccount(_ context.Context, account core.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.Email]; ok {
		return core.ErrAccountExists
	}
	s.accounts[account.Email] = copyAccount(&account)
	return nil
}

func (s *Store) AppendEvent(_ context.Context, email string, e core.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[email]
	if !ok {
		return core.ErrAccountNotFound
	}
	acct.Events = append(acct.Events, e)
	return nil
}

func (s *Store) RemoveEvent(_ context.Context, email, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[email]
	if !ok {
		return core.ErrAccountNotFound
	}
	for i, e := range acct.Events {
		if e.ID == eventID {
			acct.Events = append(acct.Events[:i], acct.Events[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *Store) UpdateEvent(_ context.Context, email string, updated core.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[email]
	if !ok {
		return core.ErrAccountNotFound
	}
	for i, e := range acct.Events {
		if e.ID == updated.ID {
			acct.Events[i] = updated
			return nil
		}
	}
	return nil
}

func (s *Store) UpdateProfile(_ context.Context, email, firstname, lastname string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[email]
	if !ok {
		return core.ErrAccountNotFound
	}
	acct.Firstname = firstname
	acct.Lastname = lastname
	return nil
}

func (s *Store) DeleteAccount(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[email]; !ok {
		return core.ErrAccountNotFound
	}
	delete(s.accounts, email)
	return nil
}

func copyAccount(a *core.Account) *core.Account {
	out := *a
	out.Events = append([]core.Event(nil), a.Events...)
	return &out
}
