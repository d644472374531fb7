// Package sqlite is a relational AccountRepository for single-node
// deployments that prefer a file database over MongoDB. Events live in
// their own table keyed by the owning account's email; listing order is
// insertion order (rowid).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"fiscal/internal/core"
	"fiscal/internal/store"
)

type Repository struct {
	db *sql.DB
}

var _ store.AccountRepository = (*Repository)(nil)

func New(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) FindAccountByEmail(ctx context.Context, email string) (*core.Account, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT email, password_hash, firstname, lastname FROM accounts WHERE email = ?", email)

	acct := &core.Account{}
	err := row.Scan(&acct.Email, &acct.PasswordHash, &acct.Firstname, &acct.Lastname)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select account %s: %w", email, err)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, amount_cents, category, date, memo FROM events WHERE account_email = ? ORDER BY rowid", email)
	if err != nil {
		return nil, fmt.Errorf("select events for %s: %w", email, err)
	}
	defer rows.Close()

	for rows.Next() {
		var e core.Event
		if err := rows.Scan(&e.ID, &e.Amount.Cents, &e.Category, &e.Date, &e.Memo); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		acct.Events = append(acct.Events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return acct, nil
}

func (r *Repository) InsertAccount(ctx context.Context, account core.Account) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO accounts (email, password_hash, firstname, lastname) VALUES (?, ?, ?, ?)",
		account.Email, account.PasswordHash, account.Firstname, account.Lastname)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.ErrAccountExists
		}
		return fmt.Errorf("insert account %s: %w", account.Email, err)
	}

	for _, e := range account.Events {
		if err := r.AppendEvent(ctx, account.Email, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) AppendEvent(ctx context.Context, email string, e core.Event) error {
	var exists int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM accounts WHERE email = ?", email).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("check account %s: %w", email, err)
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO events (id, account_email, amount_cents, category, date, memo) VALUES (?, ?, ?, ?, ?, ?)",
		e.ID, email, e.Amount.Cents, e.Category, e.Date, e.Memo)
	if err != nil {
		return fmt.Errorf("insert event for %s: %w", email, err)
	}
	return nil
}

func (r *Repository) RemoveEvent(ctx context.Context, email, eventID string) error {
	// Zero affected rows is fine: delete is idempotent.
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM events WHERE account_email = ? AND id = ?", email, eventID)
	if err != nil {
		return fmt.Errorf("delete event %s for %s: %w", eventID, email, err)
	}
	return nil
}

func (r *Repository) UpdateEvent(ctx context.Context, email string, e core.Event) error {
	// An unknown id matches zero rows; that is part of the contract.
	_, err := r.db.ExecContext(ctx,
		"UPDATE events SET amount_cents = ?, category = ?, date = ?, memo = ? WHERE account_email = ? AND id = ?",
		e.Amount.Cents, e.Category, e.Date, e.Memo, email, e.ID)
	if err != nil {
		return fmt.Errorf("update event %s for %s: %w", e.ID, email, err)
	}
	return nil
}

func (r *Repository) UpdateProfile(ctx context.Context, email, firstname, lastname string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE accounts SET firstname = ?, lastname = ? WHERE email = ?", firstname, lastname, email)
	if err != nil {
		return fmt.Errorf("update profile for %s: %w", email, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrAccountNotFound
	}
	return nil
}

func (r *Repository) DeleteAccount(ctx context.Context, email string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete account: %w", err)
	}
	defer tx.Rollback()

	// Delete events explicitly: the FK cascade depends on a pragma that is
	// not guaranteed to be on for every connection.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM events WHERE account_email = ?", email); err != nil {
		return fmt.Errorf("delete events for %s: %w", email, err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM accounts WHERE email = ?", email)
	if err != nil {
		return fmt.Errorf("delete account %s: %w", email, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrAccountNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete account: %w", err)
	}

	slog.DebugContext(ctx, "account deleted", "email", email)
	return nil
}
