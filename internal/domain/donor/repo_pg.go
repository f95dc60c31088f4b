package donor

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifeline/lifeline/internal/domain/blood"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns the PostgreSQL-backed donor repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const cols = `id, name, blood_type, city, latitude, longitude, phone, email,
	available, last_donation, created_at, updated_at`

func scan(row pgx.Row) (*Donor, error) {
	var d Donor
	err := row.Scan(&d.ID, &d.Name, &d.BloodType, &d.City, &d.Latitude, &d.Longitude,
		&d.Phone, &d.Email, &d.Available, &d.LastDonation, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *repoPG) Create(ctx context.Context, d *Donor) error {
	d.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO donors (id, name, blood_type, city, latitude, longitude,
			phone, email, available, last_donation)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		d.ID, d.Name, d.BloodType, d.City, d.Latitude, d.Longitude,
		d.Phone, d.Email, d.Available, d.LastDonation)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Donor, error) {
	return scan(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM donors WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, d *Donor) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE donors SET name=$2, blood_type=$3, city=$4, latitude=$5, longitude=$6,
			phone=$7, email=$8, available=$9, last_donation=$10, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.Name, d.BloodType, d.City, d.Latitude, d.Longitude,
		d.Phone, d.Email, d.Available, d.LastDonation)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM donors WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Donor, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM donors`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+cols+` FROM donors ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []*Donor
	for rows.Next() {
		d, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, d)
	}
	return result, total, rows.Err()
}

func (r *repoPG) ListAvailableByTypes(ctx context.Context, types []blood.Type) ([]*Donor, error) {
	raw := make([]string, len(types))
	for i, t := range types {
		raw[i] = string(t)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+cols+` FROM donors
		WHERE available = TRUE AND blood_type = ANY($1)
		ORDER BY last_donation ASC NULLS FIRST`, raw)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Donor
	for rows.Next() {
		d, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}
