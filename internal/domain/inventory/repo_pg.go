package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns the PostgreSQL-backed inventory repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const bankCols = `id, name, city, address, phone, latitude, longitude, created_at, updated_at`

func scanBank(row pgx.Row) (*Bank, error) {
	var b Bank
	err := row.Scan(&b.ID, &b.Name, &b.City, &b.Address, &b.Phone,
		&b.Latitude, &b.Longitude, &b.CreatedAt, &b.UpdatedAt)
	return &b, err
}

func (r *repoPG) CreateBank(ctx context.Context, b *Bank) error {
	b.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO banks (id, name, city, address, phone, latitude, longitude)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		b.ID, b.Name, b.City, b.Address, b.Phone, b.Latitude, b.Longitude)
	return err
}

func (r *repoPG) GetBank(ctx context.Context, id uuid.UUID) (*Bank, error) {
	return scanBank(r.pool.QueryRow(ctx, `SELECT `+bankCols+` FROM banks WHERE id = $1`, id))
}

func (r *repoPG) ListBanks(ctx context.Context, limit, offset int) ([]*Bank, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM banks`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+bankCols+` FROM banks ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []*Bank
	for rows.Next() {
		b, err := scanBank(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, b)
	}
	return result, total, rows.Err()
}

func (r *repoPG) DeleteBank(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM banks WHERE id = $1`, id)
	return err
}

const batchCols = `b.id, b.bank_id, b.blood_type, b.units, b.collected_at, b.expires_at,
	b.created_at, b.updated_at, k.name, k.city, k.latitude, k.longitude`

func scanBatch(row pgx.Row) (*Batch, error) {
	var b Batch
	err := row.Scan(&b.ID, &b.BankID, &b.BloodType, &b.Units, &b.CollectedAt, &b.ExpiresAt,
		&b.CreatedAt, &b.UpdatedAt, &b.BankName, &b.BankCity, &b.Latitude, &b.Longitude)
	return &b, err
}

func (r *repoPG) CreateBatch(ctx context.Context, b *Batch) error {
	b.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO batches (id, bank_id, blood_type, units, collected_at, expires_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		b.ID, b.BankID, b.BloodType, b.Units, b.CollectedAt, b.ExpiresAt)
	return err
}

func (r *repoPG) GetBatch(ctx context.Context, id uuid.UUID) (*Batch, error) {
	return scanBatch(r.pool.QueryRow(ctx, `
		SELECT `+batchCols+` FROM batches b
		LEFT JOIN banks k ON k.id = b.bank_id
		WHERE b.id = $1`, id))
}

func (r *repoPG) ListBatches(ctx context.Context, bankID *uuid.UUID, limit, offset int) ([]*Batch, int, error) {
	where, args := ``, []any{}
	if bankID != nil {
		where = ` WHERE b.bank_id = $3`
		args = append(args, *bankID)
	}

	var total int
	countWhere := ``
	if bankID != nil {
		countWhere = ` WHERE bank_id = $1`
	}
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM batches`+countWhere, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+batchCols+` FROM batches b
		LEFT JOIN banks k ON k.id = b.bank_id`+where+`
		ORDER BY b.expires_at ASC LIMIT $1 OFFSET $2`,
		append([]any{limit, offset}, args...)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result, err := collectBatches(rows)
	return result, total, err
}

func (r *repoPG) DeleteBatch(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM batches WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListUnexpiredBatches(ctx context.Context, now time.Time) ([]*Batch, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+batchCols+` FROM batches b
		LEFT JOIN banks k ON k.id = b.bank_id
		WHERE b.units > 0 AND b.expires_at >= $1
		ORDER BY b.expires_at ASC`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBatches(rows)
}

func (r *repoPG) Deficits(ctx context.Context) ([]*Deficit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.blood_type, h.id, h.name, h.city, h.latitude, h.longitude, SUM(r.units)::int
		FROM requests r
		JOIN hospitals h ON h.id = r.hospital_id
		WHERE r.status = 'pending'
		GROUP BY r.blood_type, h.id, h.name, h.city, h.latitude, h.longitude`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Deficit
	for rows.Next() {
		var d Deficit
		if err := rows.Scan(&d.BloodType, &d.HospitalID, &d.HospitalName, &d.City,
			&d.Latitude, &d.Longitude, &d.UnitsNeeded); err != nil {
			return nil, err
		}
		result = append(result, &d)
	}
	return result, rows.Err()
}

func collectBatches(rows pgx.Rows) ([]*Batch, error) {
	var result []*Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}
