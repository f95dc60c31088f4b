package organ

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns the PostgreSQL-backed organ repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const cols = `id, organ_type, blood_type, donor_id, donor_age,
	hla_a, hla_b, hla_c, hla_dr, hla_dq, hla_dp,
	harvested_at, ischemia_deadline, status, recipient_id, hospital_id,
	latitude, longitude, transplanted_at, notes, created_at, updated_at`

func scan(row pgx.Row) (*Organ, error) {
	var o Organ
	err := row.Scan(&o.ID, &o.OrganType, &o.BloodType, &o.DonorID, &o.DonorAge,
		&o.HLA.A, &o.HLA.B, &o.HLA.C, &o.HLA.DR, &o.HLA.DQ, &o.HLA.DP,
		&o.HarvestedAt, &o.IschemiaDeadline, &o.Status, &o.RecipientID, &o.HospitalID,
		&o.Latitude, &o.Longitude, &o.TransplantedAt, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	return &o, err
}

func (r *repoPG) Create(ctx context.Context, o *Organ) error {
	o.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO organs (id, organ_type, blood_type, donor_id, donor_age,
			hla_a, hla_b, hla_c, hla_dr, hla_dq, hla_dp,
			harvested_at, ischemia_deadline, status, recipient_id, hospital_id,
			latitude, longitude, transplanted_at, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)`,
		o.ID, o.OrganType, o.BloodType, o.DonorID, o.DonorAge,
		o.HLA.A, o.HLA.B, o.HLA.C, o.HLA.DR, o.HLA.DQ, o.HLA.DP,
		o.HarvestedAt, o.IschemiaDeadline, o.Status, o.RecipientID, o.HospitalID,
		o.Latitude, o.Longitude, o.TransplantedAt, o.Notes)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Organ, error) {
	return scan(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM organs WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, o *Organ) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE organs SET status=$2, recipient_id=$3, hospital_id=$4,
			latitude=$5, longitude=$6, transplanted_at=$7, notes=$8, updated_at=NOW()
		WHERE id = $1`,
		o.ID, o.Status, o.RecipientID, o.HospitalID,
		o.Latitude, o.Longitude, o.TransplantedAt, o.Notes)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM organs WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, status Status, limit, offset int) ([]*Organ, int, error) {
	where, args := ``, []any{}
	if status != "" {
		where = ` WHERE status = $1`
		args = append(args, status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM organs`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM organs%s ORDER BY ischemia_deadline ASC LIMIT $%d OFFSET $%d`,
		cols, where, n+1, n+2)
	rows, err := r.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result, err := collect(rows)
	return result, total, err
}

func (r *repoPG) ListViable(ctx context.Context, now time.Time) ([]*Organ, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+cols+` FROM organs
		WHERE status = 'available' AND ischemia_deadline > $1
		ORDER BY ischemia_deadline ASC`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repoPG) Stats(ctx context.Context) (*Stats, error) {
	s := &Stats{ByType: map[Type]int{}}
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'available'),
			COUNT(*) FILTER (WHERE status = 'transplanted'),
			COUNT(*) FILTER (WHERE status = 'expired')
		FROM organs`).Scan(&s.Total, &s.Available, &s.Transplanted, &s.Expired)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT organ_type, COUNT(*) FROM organs GROUP BY organ_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t Type
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		s.ByType[t] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if done := s.Transplanted + s.Expired; done > 0 {
		s.SuccessRate = float64(s.Transplanted) / float64(done) * 100
	}
	return s, nil
}

func collect(rows pgx.Rows) ([]*Organ, error) {
	var result []*Organ
	for rows.Next() {
		o, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, rows.Err()
}

