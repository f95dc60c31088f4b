package forecast

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifeline/lifeline/internal/domain/blood"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns a demand history source backed by the requests table.
func NewRepoPG(pool *pgxpool.Pool) HistorySource { return &repoPG{pool: pool} }

// DemandHistory aggregates requested units per blood type per calendar day
// over the trailing window, then buckets the daily totals by weekday.
func (r *repoPG) DemandHistory(ctx context.Context, now time.Time) (map[blood.Type]History, error) {
	since := now.AddDate(0, 0, -HistoryDays)
	rows, err := r.pool.Query(ctx, `
		SELECT blood_type, created_at::date AS day, SUM(units)::float8
		FROM requests
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY blood_type, day`, since, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[blood.Type]History)
	for rows.Next() {
		var bt blood.Type
		var day time.Time
		var units float64
		if err := rows.Scan(&bt, &day, &units); err != nil {
			return nil, err
		}
		h, ok := out[bt]
		if !ok {
			h = make(History)
			out[bt] = h
		}
		wd := day.Weekday()
		h[wd] = append(h[wd], units)
	}
	return out, rows.Err()
}
