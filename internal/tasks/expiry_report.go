package tasks

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/darmiel/tokenkeep/internal/core"
	"github.com/darmiel/tokenkeep/internal/logging"
	"github.com/darmiel/tokenkeep/internal/service"
)

const ExpiryReportTask = "expiry-report"

// TokenSource is the part of the token service the expiry report reads from.
type TokenSource interface {
	List(ctx context.Context) ([]core.Token, error)
	Stats(ctx context.Context, window time.Duration) (service.Stats, error)
}

// NewExpiryReport returns a task that summarizes the collection and flags
// active tokens expiring within window, soonest first.
func NewExpiryReport(src TokenSource, window time.Duration) Func {
	return func(ctx context.Context, logger logging.InternalLogger) (Report, error) {
		stats, err := src.Stats(ctx, window)
		if err != nil {
			return Report{}, fmt.Errorf("computing stats: %w", err)
		}
		report := Report{
			Summary: fmt.Sprintf("%d tokens: %d active, %d expired, %d expiring within %s",
				stats.Total, stats.Active, stats.Expired, stats.Expiring, window),
			Stats: &stats,
		}
		logger.Info("%s", report.Summary)

		if stats.Expiring == 0 {
			return report, nil
		}

		tokens, err := src.List(ctx)
		if err != nil {
			return report, fmt.Errorf("listing tokens: %w", err)
		}
		horizon := stats.At.Add(window)
		for _, t := range tokens {
			if t.Status != core.StatusActive || t.ExpiryDate.After(horizon) {
				continue
			}
			report.Flagged = append(report.Flagged, FlaggedToken{
				ID:          t.ID,
				ServiceName: t.ServiceName,
				ExpiryDate:  t.ExpiryDate,
			})
		}
		slices.SortStableFunc(report.Flagged, func(a, b FlaggedToken) int {
			return a.ExpiryDate.Compare(b.ExpiryDate)
		})
		for _, f := range report.Flagged {
			logger.Warn("token %s (%s) expires %s", f.ID, f.ServiceName, f.ExpiryDate.Format(time.RFC3339))
		}
		return report, nil
	}
}
