package fraud

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns the PostgreSQL-backed activity repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const cols = `id, donor_id, kind, latitude, longitude, occurred_at, flagged, created_at`

func scan(row pgx.Row) (*Activity, error) {
	var a Activity
	err := row.Scan(&a.ID, &a.DonorID, &a.Kind, &a.Latitude, &a.Longitude,
		&a.OccurredAt, &a.Flagged, &a.CreatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Activity) error {
	a.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO donor_activities (id, donor_id, kind, latitude, longitude, occurred_at, flagged)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.DonorID, a.Kind, a.Latitude, a.Longitude, a.OccurredAt, a.Flagged)
	return err
}

func (r *repoPG) Latest(ctx context.Context, donorID uuid.UUID) (*Activity, error) {
	a, err := scan(r.pool.QueryRow(ctx, `
		SELECT `+cols+` FROM donor_activities
		WHERE donor_id = $1
		ORDER BY occurred_at DESC LIMIT 1`, donorID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (r *repoPG) ListByDonor(ctx context.Context, donorID uuid.UUID, limit int) ([]*Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+cols+` FROM donor_activities
		WHERE donor_id = $1
		ORDER BY occurred_at DESC LIMIT $2`, donorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repoPG) ListFlagged(ctx context.Context, limit, offset int) ([]*Activity, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM donor_activities WHERE flagged`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+cols+` FROM donor_activities
		WHERE flagged
		ORDER BY occurred_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result, err := collect(rows)
	return result, total, err
}

func collect(rows pgx.Rows) ([]*Activity, error) {
	var result []*Activity
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
