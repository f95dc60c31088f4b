package forecast

import (
	"context"
	"time"

	"github.com/lifeline/lifeline/internal/domain/blood"
)

// HistorySource loads per-weekday demand history for every blood type over
// the trailing window ending at now.
type HistorySource interface {
	DemandHistory(ctx context.Context, now time.Time) (map[blood.Type]History, error)
}
