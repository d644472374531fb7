// Package ledger implements event CRUD and querying over an account's
// embedded event list.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"fiscal/internal/amqp"
	"fiscal/internal/core"
	"fiscal/internal/store"
)

// ChangePublisher emits change notifications for an account's ledger.
// *amqp.Client satisfies it.
type ChangePublisher interface {
	PublishLedgerChange(ctx context.Context, email, eventID, action string) error
}

var _ ChangePublisher = (*amqp.Client)(nil)

// Service owns the business rules for an account's ledger. The publisher
// is optional; nil disables change notifications.
type Service struct {
	repo      store.AccountRepository
	publisher ChangePublisher
}

func NewService(repo store.AccountRepository, publisher ChangePublisher) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
	}
}

// Add validates the fields, assigns a fresh ID and appends the event to the
// account's ledger. Returns the stored event.
func (s *Service) Add(ctx context.Context, email string, fields core.EventFields) (core.Event, error) {
	if err := fields.Validate(); err != nil {
		return core.Event{}, err
	}

	e := core.Event{ID: uuid.NewString()}.Apply(fields)

	if err := s.repo.AppendEvent(ctx, email, e); err != nil {
		return core.Event{}, fmt.Errorf("append event: %w", err)
	}

	s.publishChange(ctx, email, e.ID, amqp.ActionEventAdded)
	return e, nil
}

// Delete removes the event with the given id from the account's ledger.
// Deleting an id that does not exist is a no-op.
func (s *Service) Delete(ctx context.Context, email, eventID string) error {
	if err := s.repo.RemoveEvent(ctx, email, eventID); err != nil {
		return fmt.Errorf("remove event: %w", err)
	}

	s.publishChange(ctx, email, eventID, amqp.ActionEventDeleted)
	return nil
}

// Edit replaces the mutable fields of the event with the given id and
// returns the event as written. The id itself never changes. Editing an id
// that does not exist is a no-op.
func (s *Service) Edit(ctx context.Context, email, eventID string, fields core.EventFields) (core.Event, error) {
	if err := fields.Validate(); err != nil {
		return core.Event{}, err
	}

	e := core.Event{ID: eventID}.Apply(fields)

	if err := s.repo.UpdateEvent(ctx, email, e); err != nil {
		return core.Event{}, fmt.Errorf("update event: %w", err)
	}

	s.publishChange(ctx, email, eventID, amqp.ActionEventUpdated)
	return e, nil
}

// NotifyAccountDeleted publishes an account deletion on the change stream.
// The account itself is removed by the auth service; this only informs
// downstream consumers that the ledger is gone.
func (s *Service) NotifyAccountDeleted(ctx context.Context, email string) {
	s.publishChange(ctx, email, "", amqp.ActionAccountDeleted)
}

// List returns the account's events in insertion order. When filterDate is
// non-empty only events whose date matches it exactly are returned.
func (s *Service) List(ctx context.Context, email, filterDate string) ([]core.Event, error) {
	account, err := s.repo.FindAccountByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}

	if filterDate == "" {
		return account.Events, nil
	}

	filtered := make([]core.Event, 0, len(account.Events))
	for _, e := range account.Events {
		if e.Date == filterDate {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// Search returns the account's events whose category or memo contains term,
// case-insensitively, preserving insertion order.
func (s *Service) Search(ctx context.Context, email, term string) ([]core.Event, error) {
	account, err := s.repo.FindAccountByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}

	matched := make([]core.Event, 0, len(account.Events))
	for _, e := range account.Events {
		if e.MatchesTerm(term) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// Analytics aggregates the account's events into per-month per-category
// totals. Events with malformed dates are excluded.
func (s *Service) Analytics(ctx context.Context, email string) (map[string]map[string]core.Money, error) {
	account, err := s.repo.FindAccountByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	return core.Aggregate(account.Events), nil
}

func (s *Service) publishChange(ctx context.Context, email, eventID, action string) {
	if s.publisher == nil {
		return
	}
	// Notifications are best effort. The mutation already committed.
	if err := s.publisher.PublishLedgerChange(ctx, email, eventID, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger change",
			"email", email, "event_id", eventID, "action", action, "error", err)
	}
}
