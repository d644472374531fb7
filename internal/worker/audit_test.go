package worker

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"fiscal/internal/amqp"
)

func TestHandleChangeAppendsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	w, err := NewAuditWorker(path)
	if err != nil {
		t.Fatalf("new worker: %v", err)
	}
	defer w.Close()

	msgs := []*amqp.LedgerChangeMessage{
		amqp.NewLedgerChangeMessage("ada@example.com", "e1", amqp.ActionEventAdded),
		amqp.NewLedgerChangeMessage("ada@example.com", "e1", amqp.ActionEventDeleted),
		amqp.NewLedgerChangeMessage("bob@example.com", "", amqp.ActionAccountDeleted),
	}
	for _, msg := range msgs {
		if err := w.HandleChange(msg); err != nil {
			t.Fatalf("handle %s: %v", msg.Action, err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open audit log: %v", err)
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
		var record map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("line %d is not JSON: %v", lines, err)
		}
		if record["action"] == "" || record["email"] == "" {
			t.Fatalf("incomplete record: %v", record)
		}
	}
	if lines != 3 {
		t.Fatalf("expected 3 audit lines, got %d", lines)
	}

	counts := w.Counts()
	if counts[amqp.ActionEventAdded] != 1 || counts[amqp.ActionEventDeleted] != 1 || counts[amqp.ActionAccountDeleted] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestHandleChangeDropsUnknownAction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	w, err := NewAuditWorker(path)
	if err != nil {
		t.Fatalf("new worker: %v", err)
	}
	defer w.Close()

	// A nil error acks the message; an error would requeue it and the
	// broker would redeliver the same unknown action forever.
	msg := amqp.NewLedgerChangeMessage("ada@example.com", "e1", "event_exploded")
	if err := w.HandleChange(msg); err != nil {
		t.Fatalf("unknown action must be dropped, not requeued: %v", err)
	}
	if len(w.Counts()) != 0 {
		t.Fatal("dropped message must not be counted")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("dropped message must not be recorded, got %q", data)
	}
}

func TestNewAuditWorkerCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "audit.log")
	w, err := NewAuditWorker(path)
	if err != nil {
		t.Fatalf("new worker: %v", err)
	}
	defer w.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("audit log not created: %v", err)
	}
}
