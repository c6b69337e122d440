package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/parleyhq/parley/internal/domain"
)

type SelectionRepository struct {
	db dbtx
}

func NewSelectionRepository(pool *pgxpool.Pool) *SelectionRepository {
	return &SelectionRepository{db: pool}
}

func NewSelectionRepositoryWithTx(tx pgx.Tx) *SelectionRepository {
	return &SelectionRepository{db: tx}
}

func (r *SelectionRepository) Create(ctx context.Context, e *domain.SelectionEvent) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO selection_events (id, user_id, advisor_id, source, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.UserID, e.AdvisorID, nullableString(e.Source), e.CreatedAt,
	)
	return err
}

func (r *SelectionRepository) ListByUser(ctx context.Context, userID string) ([]*domain.SelectionEvent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, advisor_id, source, created_at
		 FROM selection_events WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSelectionRows(rows)
}

func (r *SelectionRepository) ListAll(ctx context.Context) ([]*domain.SelectionEvent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, advisor_id, source, created_at
		 FROM selection_events ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSelectionRows(rows)
}

func (r *SelectionRepository) ListSince(ctx context.Context, since time.Time) ([]*domain.SelectionEvent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, advisor_id, source, created_at
		 FROM selection_events WHERE created_at >= $1 ORDER BY created_at DESC`,
		since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSelectionRows(rows)
}

func scanSelectionRows(rows pgx.Rows) ([]*domain.SelectionEvent, error) {
	var results []*domain.SelectionEvent
	for rows.Next() {
		var e domain.SelectionEvent
		var source *string
		if err := rows.Scan(&e.ID, &e.UserID, &e.AdvisorID, &source, &e.CreatedAt); err != nil {
			return nil, err
		}
		if source != nil {
			e.Source = *source
		}
		results = append(results, &e)
	}
	return results, rows.Err()
}
