package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"fiscal/internal/core"
)

type RepositoryTestSuite struct {
	suite.Suite
	repo *Repository
	ctx  context.Context
}

func (s *RepositoryTestSuite) SetupTest() {
	repo, err := New(filepath.Join(s.T().TempDir(), "fiscal_test.db"))
	require.NoError(s.T(), err, "failed to create test database")
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RepositoryTestSuite) TearDownTest() {
	if s.repo != nil {
		s.repo.Close()
	}
}

func (s *RepositoryTestSuite) seedAccount(email string) {
	require.NoError(s.T(), s.repo.InsertAccount(s.ctx, core.Account{
		Email:        email,
		PasswordHash: "$2a$10$fakehash",
		Firstname:    "Ada",
		Lastname:     "Lovelace",
	}))
}

func (s *RepositoryTestSuite) TestInsertAndFindAccount() {
	s.seedAccount("ada@example.com")

	acct, err := s.repo.FindAccountByEmail(s.ctx, "ada@example.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "ada@example.com", acct.Email)
	assert.Equal(s.T(), "Ada", acct.Firstname)
	assert.Empty(s.T(), acct.Events)
}

func (s *RepositoryTestSuite) TestInsertDuplicateEmail() {
	s.seedAccount("ada@example.com")

	err := s.repo.InsertAccount(s.ctx, core.Account{Email: "ada@example.com", PasswordHash: "x"})
	assert.ErrorIs(s.T(), err, core.ErrAccountExists)
}

func (s *RepositoryTestSuite) TestFindUnknownAccount() {
	_, err := s.repo.FindAccountByEmail(s.ctx, "nobody@example.com")
	assert.ErrorIs(s.T(), err, core.ErrAccountNotFound)
}

func (s *RepositoryTestSuite) TestAppendAndListEventsInOrder() {
	s.seedAccount("ada@example.com")

	events := []core.Event{
		{ID: "e1", Amount: core.Money{Cents: 1000}, Category: "Food", Date: "2024-12-01", Memo: "lunch"},
		{ID: "e2", Amount: core.Money{Cents: 500}, Category: "Food", Date: "2024-12-15"},
		{ID: "e3", Amount: core.Money{Cents: 70000}, Category: "Rent", Date: "2024-12-01"},
	}
	for _, e := range events {
		require.NoError(s.T(), s.repo.AppendEvent(s.ctx, "ada@example.com", e))
	}

	acct, err := s.repo.FindAccountByEmail(s.ctx, "ada@example.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), events, acct.Events)
}

func (s *RepositoryTestSuite) TestAppendEventUnknownAccount() {
	err := s.repo.AppendEvent(s.ctx, "nobody@example.com", core.Event{ID: "e1"})
	assert.ErrorIs(s.T(), err, core.ErrAccountNotFound)
}

func (s *RepositoryTestSuite) TestRemoveEventIdempotent() {
	s.seedAccount("ada@example.com")
	require.NoError(s.T(), s.repo.AppendEvent(s.ctx, "ada@example.com",
		core.Event{ID: "e1", Amount: core.Money{Cents: 100}, Category: "Food", Date: "2024-12-01"}))

	require.NoError(s.T(), s.repo.RemoveEvent(s.ctx, "ada@example.com", "e1"))
	// Second delete of the same id is a no-op, not an error.
	require.NoError(s.T(), s.repo.RemoveEvent(s.ctx, "ada@example.com", "e1"))

	acct, err := s.repo.FindAccountByEmail(s.ctx, "ada@example.com")
	require.NoError(s.T(), err)
	assert.Empty(s.T(), acct.Events)
}

func (s *RepositoryTestSuite) TestUpdateEventPreservesOthers() {
	s.seedAccount("ada@example.com")
	require.NoError(s.T(), s.repo.AppendEvent(s.ctx, "ada@example.com",
		core.Event{ID: "e1", Amount: core.Money{Cents: 100}, Category: "Food", Date: "2024-12-01", Memo: "a"}))
	require.NoError(s.T(), s.repo.AppendEvent(s.ctx, "ada@example.com",
		core.Event{ID: "e2", Amount: core.Money{Cents: 200}, Category: "Rent", Date: "2024-12-02", Memo: "b"}))

	require.NoError(s.T(), s.repo.UpdateEvent(s.ctx, "ada@example.com",
		core.Event{ID: "e1", Amount: core.Money{Cents: 150}, Category: "Phone", Date: "2024-12-03", Memo: "c"}))

	acct, err := s.repo.FindAccountByEmail(s.ctx, "ada@example.com")
	require.NoError(s.T(), err)
	require.Len(s.T(), acct.Events, 2)
	assert.Equal(s.T(), core.Event{ID: "e1", Amount: core.Money{Cents: 150}, Category: "Phone", Date: "2024-12-03", Memo: "c"}, acct.Events[0])
	assert.Equal(s.T(), "Rent", acct.Events[1].Category)
}

func (s *RepositoryTestSuite) TestUpdateEventUnknownIDIsSilent() {
	s.seedAccount("ada@example.com")
	err := s.repo.UpdateEvent(s.ctx, "ada@example.com", core.Event{ID: "missing", Category: "Food", Date: "2024-01-01"})
	assert.NoError(s.T(), err)
}

func (s *RepositoryTestSuite) TestUpdateProfile() {
	s.seedAccount("ada@example.com")
	require.NoError(s.T(), s.repo.UpdateProfile(s.ctx, "ada@example.com", "Augusta", "King"))

	acct, err := s.repo.FindAccountByEmail(s.ctx, "ada@example.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Augusta", acct.Firstname)
	assert.Equal(s.T(), "King", acct.Lastname)
}

func (s *RepositoryTestSuite) TestDeleteAccountRemovesEvents() {
	s.seedAccount("ada@example.com")
	require.NoError(s.T(), s.repo.AppendEvent(s.ctx, "ada@example.com",
		core.Event{ID: "e1", Amount: core.Money{Cents: 100}, Category: "Food", Date: "2024-12-01"}))

	require.NoError(s.T(), s.repo.DeleteAccount(s.ctx, "ada@example.com"))

	_, err := s.repo.FindAccountByEmail(s.ctx, "ada@example.com")
	assert.ErrorIs(s.T(), err, core.ErrAccountNotFound)

	// Re-creating the account must not resurrect old events.
	s.seedAccount("ada@example.com")
	acct, err := s.repo.FindAccountByEmail(s.ctx, "ada@example.com")
	require.NoError(s.T(), err)
	assert.Empty(s.T(), acct.Events)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
