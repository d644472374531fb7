// Package auth handles account lifecycle and credential checks. Passwords
// are stored as bcrypt hashes; plaintext never leaves this package.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"fiscal/internal/core"
	"fiscal/internal/store"
)

var (
	ErrEmptyEmail    = errors.New("empty email")
	ErrEmptyPassword = errors.New("empty password")
)

type Service struct {
	repo store.AccountRepository
	cost int
}

func NewService(repo store.AccountRepository) *Service {
	return &Service{repo: repo, cost: bcrypt.DefaultCost}
}

// CreateAccount registers a new account. The email is the account key and
// is matched exactly; addresses differing only in case are distinct
// accounts. Returns core.ErrAccountExists when the email is already taken.
func (s *Service) CreateAccount(ctx context.Context, email, password, firstname, lastname string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return ErrEmptyEmail
	}
	if password == "" {
		return ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	account := core.Account{
		Email:        email,
		PasswordHash: string(hash),
		Firstname:    firstname,
		Lastname:     lastname,
		Events:       []core.Event{},
	}

	if err := s.repo.InsertAccount(ctx, account); err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// ValidateLogin checks the credentials and returns the account on success.
// Unknown emails and wrong passwords both yield core.ErrInvalidCredentials
// so callers cannot probe which emails are registered.
func (s *Service) ValidateLogin(ctx context.Context, email, password string) (*core.Account, error) {
	email = NormalizeEmail(email)

	account, err := s.repo.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrAccountNotFound) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, core.ErrInvalidCredentials
	}
	return account, nil
}

// UpdateProfile sets the account's first and last name.
func (s *Service) UpdateProfile(ctx context.Context, email, firstname, lastname string) error {
	if err := s.repo.UpdateProfile(ctx, NormalizeEmail(email), firstname, lastname); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// GetAccount loads the account with the password hash blanked.
func (s *Service) GetAccount(ctx context.Context, email string) (*core.Account, error) {
	account, err := s.repo.FindAccountByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	safe := account.WithoutHash()
	return &safe, nil
}

// DeleteAccount re-validates the password and removes the account together
// with its embedded events.
func (s *Service) DeleteAccount(ctx context.Context, email, password string) error {
	if _, err := s.ValidateLogin(ctx, email, password); err != nil {
		return err
	}
	if err := s.repo.DeleteAccount(ctx, NormalizeEmail(email)); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

// NormalizeEmail trims surrounding whitespace. The address itself is kept
// as given; email lookups are case-sensitive.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
