// Package insights produces AI budgeting tips from an account's ledger.
package insights

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"fiscal/internal/core"
	"fiscal/internal/store"
)

// Generator turns a prompt into a plaintext completion. The production
// implementation is the Gemini client; tests swap in a fake.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service loads an account's events, builds the analysis prompt and runs it
// through the generator. Concurrent requests for the same account share one
// generation.
type Service struct {
	repo      store.AccountRepository
	generator Generator
	group     singleflight.Group
}

func NewService(repo store.AccountRepository, generator Generator) *Service {
	return &Service{repo: repo, generator: generator}
}

// Analyze returns budgeting tips for the account's current ledger.
func (s *Service) Analyze(ctx context.Context, email string) (string, error) {
	account, err := s.repo.FindAccountByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("load account: %w", err)
	}

	prompt := BuildPrompt(account.Events)

	result, err, _ := s.group.Do(email, func() (any, error) {
		return s.generator.Generate(ctx, prompt)
	})
	if err != nil {
		return "", fmt.Errorf("generate analysis: %w", err)
	}
	return result.(string), nil
}

// BuildPrompt renders the events as one line each and prepends the tip
// instructions.
func BuildPrompt(events []core.Event) string {
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, fmt.Sprintf("- %s: $%s on %s (%s)", e.Category, e.Amount, e.Date, e.Memo))
	}

	var b strings.Builder
	b.WriteString("Make sure to reference the specific event or event(s) by their memo or category when specifying tips.\n")
	b.WriteString("Do not return any JSON or markdown. Only return plaintext plain-english responses.\n")
	b.WriteString("When providing budget-saving tips, make sure to reference how much money they spent in that specific category or event.\n")
	b.WriteString("If provided more than 3 events, focus on giving suggestions to save costs on only the most expensive categories.\n")
	b.WriteString("Provide budget-saving tips based on these user events provided in JSON format. Be as concise as possible:\n\n")
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}
