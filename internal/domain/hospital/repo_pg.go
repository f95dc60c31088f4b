package hospital

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns the PostgreSQL-backed hospital repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const cols = `id, name, city, address, phone, latitude, longitude, created_at, updated_at`

func scan(row pgx.Row) (*Hospital, error) {
	var h Hospital
	err := row.Scan(&h.ID, &h.Name, &h.City, &h.Address, &h.Phone,
		&h.Latitude, &h.Longitude, &h.CreatedAt, &h.UpdatedAt)
	return &h, err
}

func (r *repoPG) Create(ctx context.Context, h *Hospital) error {
	h.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO hospitals (id, name, city, address, phone, latitude, longitude)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		h.ID, h.Name, h.City, h.Address, h.Phone, h.Latitude, h.Longitude)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return scan(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM hospitals WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, h *Hospital) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE hospitals SET name=$2, city=$3, address=$4, phone=$5,
			latitude=$6, longitude=$7, updated_at=NOW()
		WHERE id = $1`,
		h.ID, h.Name, h.City, h.Address, h.Phone, h.Latitude, h.Longitude)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM hospitals WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Hospital, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM hospitals`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+cols+` FROM hospitals ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []*Hospital
	for rows.Next() {
		h, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, h)
	}
	return result, total, rows.Err()
}
