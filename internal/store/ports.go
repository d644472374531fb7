// Package store defines the persistence port for accounts and their
// embedded event lists. Concrete backends live in the subpackages.
package store

import (
	"context"

	"fiscal/internal/core"
)

// AccountRepository is the narrow persistence interface the ledger and auth
// services depend on. Implementations must treat each account document as
// the unit of atomicity: AppendEvent, RemoveEvent and UpdateEvent are
// single-document field updates, so two concurrent single-field mutations
// never lose each other's writes.
//
// Error contract:
//   - FindAccountByEmail returns core.ErrAccountNotFound when the email is
//     unknown.
//   - InsertAccount returns core.ErrAccountExists on a duplicate email.
//   - RemoveEvent and UpdateEvent are silent no-ops when the event id does
//     not exist (idempotent delete, zero-match edit).
type AccountRepository interface {
	FindAccountByEmail(ctx context.Context, email string) (*core.Account, error)
	InsertAccount(ctx context.Context, account core.Account) error
	AppendEvent(ctx context.Context, email string, e core.Event) error
	RemoveEvent(ctx context.Context, email, eventID string) error
	UpdateEvent(ctx context.Context, email string, e core.Event) error
	UpdateProfile(ctx context.Context, email, firstname, lastname string) error
	DeleteAccount(ctx context.Context, email string) error
}
