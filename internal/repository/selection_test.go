//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/parleyhq/parley/internal/domain"
	"github.com/parleyhq/parley/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAdvisorForSelections(ctx context.Context, t *testing.T, repo *AdvisorRepository) string {
	advisor := newStoredAdvisor(time.Now())
	require.NoError(t, repo.Create(ctx, advisor))
	return advisor.ID
}

func TestSelectionRepository_CreateAndListByUser(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	advisorRepo := NewAdvisorRepository(pool)
	repo := NewSelectionRepository(pool)

	advisorID := seedAdvisorForSelections(ctx, t, advisorRepo)

	event := &domain.SelectionEvent{
		ID:        uuid.NewString(),
		UserID:    "u-1",
		AdvisorID: advisorID,
		Source:    "search",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.Create(ctx, event))

	other := &domain.SelectionEvent{
		ID:        uuid.NewString(),
		UserID:    "u-2",
		AdvisorID: advisorID,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.Create(ctx, other))

	events, err := repo.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, event.ID, events[0].ID)
	assert.Equal(t, "search", events[0].Source)
	assert.Equal(t, advisorID, events[0].AdvisorID)
}

func TestSelectionRepository_EmptySource(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	advisorRepo := NewAdvisorRepository(pool)
	repo := NewSelectionRepository(pool)

	advisorID := seedAdvisorForSelections(ctx, t, advisorRepo)

	event := &domain.SelectionEvent{
		ID:        uuid.NewString(),
		UserID:    "u-1",
		AdvisorID: advisorID,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.Create(ctx, event))

	events, err := repo.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Empty(t, events[0].Source)
}

func TestSelectionRepository_ListSince(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	advisorRepo := NewAdvisorRepository(pool)
	repo := NewSelectionRepository(pool)

	advisorID := seedAdvisorForSelections(ctx, t, advisorRepo)

	now := time.Now().UTC().Truncate(time.Microsecond)
	old := &domain.SelectionEvent{
		ID:        uuid.NewString(),
		UserID:    "u-1",
		AdvisorID: advisorID,
		CreatedAt: now.Add(-48 * time.Hour),
	}
	recent := &domain.SelectionEvent{
		ID:        uuid.NewString(),
		UserID:    "u-1",
		AdvisorID: advisorID,
		CreatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Create(ctx, recent))

	events, err := repo.ListSince(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, recent.ID, events[0].ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
