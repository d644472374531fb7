package insights

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fiscal/internal/core"
	"fiscal/internal/store/memory"
)

type fakeGenerator struct {
	calls   atomic.Int64
	delay   time.Duration
	reply   string
	err     error
	prompts sync.Map
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.calls.Add(1)
	f.prompts.Store(prompt, true)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.reply, f.err
}

func seedAccount(t *testing.T, repo *memory.Store, email string, events []core.Event) {
	t.Helper()
	if err := repo.InsertAccount(context.Background(), core.Account{Email: email, Events: events}); err != nil {
		t.Fatalf("insert account: %v", err)
	}
}

func TestBuildPromptFormatsEvents(t *testing.T) {
	events := []core.Event{
		{ID: "1", Amount: core.Money{Cents: 1550}, Category: "Food", Date: "2025-01-10", Memo: "groceries"},
		{ID: "2", Amount: core.Money{Cents: 70000}, Category: "Rent", Date: "2025-01-01", Memo: ""},
	}

	prompt := BuildPrompt(events)

	if !strings.Contains(prompt, "- Food: $15.50 on 2025-01-10 (groceries)") {
		t.Fatalf("missing food line in prompt:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- Rent: $700.00 on 2025-01-01 ()") {
		t.Fatalf("missing rent line in prompt:\n%s", prompt)
	}
	if !strings.Contains(prompt, "budget-saving tips") {
		t.Fatalf("missing instructions in prompt:\n%s", prompt)
	}
}

func TestAnalyzeReturnsGeneratorOutput(t *testing.T) {
	repo := memory.New()
	seedAccount(t, repo, "ada@example.com", []core.Event{
		{ID: "1", Amount: core.Money{Cents: 100}, Category: "Food", Date: "2025-01-10"},
	})

	gen := &fakeGenerator{reply: "Cut back on takeout."}
	svc := NewService(repo, gen)

	got, err := svc.Analyze(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got != "Cut back on takeout." {
		t.Fatalf("unexpected analysis %q", got)
	}
}

func TestAnalyzeUnknownAccount(t *testing.T) {
	svc := NewService(memory.New(), &fakeGenerator{})
	_, err := svc.Analyze(context.Background(), "ghost@example.com")
	if !errors.Is(err, core.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAnalyzePropagatesGeneratorError(t *testing.T) {
	repo := memory.New()
	seedAccount(t, repo, "ada@example.com", nil)

	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	svc := NewService(repo, gen)

	if _, err := svc.Analyze(context.Background(), "ada@example.com"); err == nil {
		t.Fatal("expected error from generator")
	}
}

func TestConcurrentAnalyzeSharesOneGeneration(t *testing.T) {
	repo := memory.New()
	seedAccount(t, repo, "ada@example.com", nil)

	gen := &fakeGenerator{reply: "ok", delay: 50 * time.Millisecond}
	svc := NewService(repo, gen)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Analyze(context.Background(), "ada@example.com"); err != nil {
				t.Errorf("analyze: %v", err)
			}
		}()
	}
	wg.Wait()

	if calls := gen.calls.Load(); calls != 1 {
		t.Fatalf("expected a single shared generation, got %d calls", calls)
	}
}
