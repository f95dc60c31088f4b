package request

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifeline/lifeline/internal/domain/blood"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns the PostgreSQL-backed request repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const cols = `r.id, r.hospital_id, r.blood_type, r.units, r.urgency, r.status,
	r.patient_name, r.notes, r.fulfilled_by, r.fulfilled_at, r.created_at, r.updated_at,
	h.city, h.latitude, h.longitude`

const fromClause = ` FROM requests r LEFT JOIN hospitals h ON r.hospital_id = h.id`

func scan(row pgx.Row) (*Request, error) {
	var r Request
	err := row.Scan(&r.ID, &r.HospitalID, &r.BloodType, &r.Units, &r.Urgency, &r.Status,
		&r.PatientName, &r.Notes, &r.FulfilledBy, &r.FulfilledAt, &r.CreatedAt, &r.UpdatedAt,
		&r.City, &r.Latitude, &r.Longitude)
	return &r, err
}

func (p *repoPG) Create(ctx context.Context, r *Request) error {
	r.ID = uuid.New()
	_, err := p.pool.Exec(ctx, `
		INSERT INTO requests (id, hospital_id, blood_type, units, urgency, status, patient_name, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		r.ID, r.HospitalID, r.BloodType, r.Units, r.Urgency, r.Status, r.PatientName, r.Notes)
	return err
}

func (p *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	return scan(p.pool.QueryRow(ctx, `SELECT `+cols+fromClause+` WHERE r.id = $1`, id))
}

func (p *repoPG) Update(ctx context.Context, r *Request) error {
	_, err := p.pool.Exec(ctx, `
		UPDATE requests SET units=$2, urgency=$3, status=$4, patient_name=$5, notes=$6,
			fulfilled_by=$7, fulfilled_at=$8, updated_at=NOW()
		WHERE id = $1`,
		r.ID, r.Units, r.Urgency, r.Status, r.PatientName, r.Notes, r.FulfilledBy, r.FulfilledAt)
	return err
}

func (p *repoPG) List(ctx context.Context, status Status, limit, offset int) ([]*Request, int, error) {
	where := ``
	countArgs := []interface{}{}
	args := []interface{}{limit, offset}
	if status != "" {
		where = ` WHERE r.status = $3`
		args = append(args, status)
		countArgs = append(countArgs, status)
	}

	countSQL := `SELECT COUNT(*) FROM requests r`
	if status != "" {
		countSQL += ` WHERE r.status = $1`
	}
	var total int
	if err := p.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := p.pool.Query(ctx, `SELECT `+cols+fromClause+where+`
		ORDER BY r.created_at DESC LIMIT $1 OFFSET $2`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []*Request
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, r)
	}
	return result, total, rows.Err()
}

func (p *repoPG) ListPendingByTypes(ctx context.Context, types []blood.Type) ([]*Request, error) {
	raw := make([]string, len(types))
	for i, t := range types {
		raw[i] = string(t)
	}

	rows, err := p.pool.Query(ctx, `
		SELECT `+cols+fromClause+`
		WHERE r.status = 'pending' AND r.blood_type = ANY($1)
		ORDER BY CASE r.urgency WHEN 'critical' THEN 0 WHEN 'urgent' THEN 1 ELSE 2 END,
			r.created_at ASC`, raw)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Request
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
