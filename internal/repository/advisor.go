package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/parleyhq/parley/internal/domain"
	"github.com/parleyhq/parley/internal/pagination"
	"github.com/parleyhq/parley/internal/service"
)

const advisorColumns = `id, first_name, last_name, persona_name, category, tags, featured, public, status,
	 title, description, one_liner, specialties, expertise, experience, teams, created_at`

type AdvisorRepository struct {
	db dbtx
}

func NewAdvisorRepository(pool *pgxpool.Pool) *AdvisorRepository {
	return &AdvisorRepository{db: pool}
}

func NewAdvisorRepositoryWithTx(tx pgx.Tx) *AdvisorRepository {
	return &AdvisorRepository{db: tx}
}

func (r *AdvisorRepository) Create(ctx context.Context, p *domain.AdvisorProfile) error {
	teams, err := json.Marshal(p.Teams)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO advisors (`+advisorColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		p.ID, p.FirstName, p.LastName, nullableString(p.PersonaName), nullableString(p.Category),
		p.Tags, p.Featured, p.Public, p.Status,
		p.Persona.Title, p.Persona.Description, p.Persona.OneLiner,
		p.Persona.Specialties, p.Persona.Expertise, p.Persona.Experience,
		teams, p.CreatedAt,
	)
	return err
}

func (r *AdvisorRepository) GetByID(ctx context.Context, id string) (*domain.AdvisorProfile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+advisorColumns+` FROM advisors WHERE id = $1`,
		id,
	)
	p, err := scanAdvisorRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAdvisorNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *AdvisorRepository) ListAll(ctx context.Context) ([]*domain.AdvisorProfile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+advisorColumns+` FROM advisors ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAdvisorRows(rows)
}

// ListVisibleWithCursor pages through publicly listable advisors. Visibility
// is applied in SQL so pages stay full-sized.
func (r *AdvisorRepository) ListVisibleWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*service.AdvisorPageResult, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error

	if cursor != nil {
		rows, err = r.db.Query(ctx,
			`SELECT `+advisorColumns+` FROM advisors
			 WHERE public = true AND status = 'active' AND (created_at, id) < ($1, $2)
			 ORDER BY created_at DESC, id DESC
			 LIMIT $3`,
			cursor.Timestamp, cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT `+advisorColumns+` FROM advisors
			 WHERE public = true AND status = 'active'
			 ORDER BY created_at DESC, id DESC
			 LIMIT $1`,
			limit+1,
		)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := scanAdvisorRows(rows)
	if err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var nextCursor string
	if hasMore && len(items) > 0 {
		lastItem := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(lastItem.ID, lastItem.CreatedAt)
	}

	return &service.AdvisorPageResult{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

func scanAdvisorRow(row pgx.Row) (*domain.AdvisorProfile, error) {
	var p domain.AdvisorProfile
	var personaName, category *string
	var teams []byte
	err := row.Scan(
		&p.ID, &p.FirstName, &p.LastName, &personaName, &category,
		&p.Tags, &p.Featured, &p.Public, &p.Status,
		&p.Persona.Title, &p.Persona.Description, &p.Persona.OneLiner,
		&p.Persona.Specialties, &p.Persona.Expertise, &p.Persona.Experience,
		&teams, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if personaName != nil {
		p.PersonaName = *personaName
	}
	if category != nil {
		p.Category = *category
	}
	if len(teams) > 0 {
		if err := json.Unmarshal(teams, &p.Teams); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func scanAdvisorRows(rows pgx.Rows) ([]*domain.AdvisorProfile, error) {
	var results []*domain.AdvisorProfile
	for rows.Next() {
		p, err := scanAdvisorRow(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}
