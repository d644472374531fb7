// Package worker consumes ledger change notifications and records them in
// an append-only audit trail.
package worker

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"fiscal/internal/amqp"
)

// AuditWorker writes one JSON line per ledger change and keeps per-action
// counters for the lifetime of the process.
type AuditWorker struct {
	mu     sync.Mutex
	out    *os.File
	counts map[string]int64
}

type auditRecord struct {
	Timestamp string `json:"timestamp"`
	Email     string `json:"email"`
	EventID   string `json:"event_id,omitempty"`
	Action    string `json:"action"`
}

func NewAuditWorker(path string) (*AuditWorker, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create audit directory: %w", err)
		}
	}

	out, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}

	return &AuditWorker{
		out:    out,
		counts: make(map[string]int64),
	}, nil
}

// HandleChange appends the change to the audit trail. Unknown actions are
// dropped like malformed messages; returning an error would requeue them
// and redeliver forever.
func (w *AuditWorker) HandleChange(msg *amqp.LedgerChangeMessage) error {
	switch msg.Action {
	case amqp.ActionEventAdded, amqp.ActionEventUpdated, amqp.ActionEventDeleted, amqp.ActionAccountDeleted:
	default:
		slog.Warn("Dropping change with unknown action",
			"email", msg.Email, "action", msg.Action)
		return nil
	}

	record := auditRecord{
		Timestamp: msg.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Email:     msg.Email,
		EventID:   msg.EventID,
		Action:    msg.Action,
	}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.out.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	w.counts[msg.Action]++

	slog.Debug("Recorded ledger change",
		"email", msg.Email,
		"event_id", msg.EventID,
		"action", msg.Action)

	return nil
}

// Counts returns a snapshot of per-action totals since startup.
func (w *AuditWorker) Counts() map[string]int64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make(map[string]int64, len(w.counts))
	for action, n := range w.counts {
		out[action] = n
	}
	return out
}

func (w *AuditWorker) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.out.Close()
}
