// internal/app/stats_service.go
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"seller_notification_service/internal/domain/tracking"
)

// lastWeekWindow is the trailing window used for the recent-activity slice.
const lastWeekWindow = 7 * 24 * time.Hour

// noDataMessage is returned when the tracking store holds no records yet.
// An empty store is a normal state, not a fault.
const noDataMessage = "no tracking data recorded yet"

// Stats is the aggregate view over the whole tracking store.
type Stats struct {
	TotalEmails      int    `json:"total_emails"`
	OpenedEmails     int    `json:"opened_emails"`
	OpenRate         string `json:"open_rate"`     // e.g. "40.00%"
	TotalViews       int    `json:"total_views"`   // first open counts as one view
	AverageViews     string `json:"average_views"` // e.g. "1.75"
	LastWeekEmails   int    `json:"last_week_emails"`
	LastWeekOpened   int    `json:"last_week_opened"`
	LastWeekOpenRate string `json:"last_week_open_rate"`
	Message          string `json:"message,omitempty"`
}

// StatsService computes aggregate statistics over the tracking store.
type StatsService interface {
	Aggregate(ctx context.Context, now time.Time) (*Stats, error)
}

// StatsServiceImpl implements the StatsService interface. It is strictly
// read-only over the tracking store.
type StatsServiceImpl struct {
	trackRepo tracking.Repository
	logger    *log.Logger
}

func NewStatsServiceImpl(repo tracking.Repository, logger *log.Logger) *StatsServiceImpl {
	return &StatsServiceImpl{trackRepo: repo, logger: logger}
}

// Aggregate scans every tracking record and computes send/open/view counts,
// rates and the trailing 7-day window relative to now.
func (s *StatsServiceImpl) Aggregate(ctx context.Context, now time.Time) (*Stats, error) {
	records, err := s.trackRepo.ListAll(ctx)
	if err != nil {
		s.logger.Printf("ERROR: Failed to scan tracking store for aggregation: %v", err)
		return nil, fmt.Errorf("failed to scan tracking store: %w", err)
	}

	stats := &Stats{
		OpenRate:         formatRate(0, 0),
		AverageViews:     "0.00",
		LastWeekOpenRate: formatRate(0, 0),
	}

	if len(records) == 0 {
		s.logger.Println("INFO: Tracking store is empty. Returning no-data result.")
		stats.Message = noDataMessage
		return stats, nil
	}

	cutoff := now.Add(-lastWeekWindow)
	for _, rec := range records {
		stats.TotalEmails++
		if rec.Opened {
			stats.OpenedEmails++
			stats.TotalViews += rec.TotalViews()
		}
		if rec.SentWithin(cutoff) {
			stats.LastWeekEmails++
			if rec.Opened {
				stats.LastWeekOpened++
			}
		}
	}

	stats.OpenRate = formatRate(stats.OpenedEmails, stats.TotalEmails)
	stats.LastWeekOpenRate = formatRate(stats.LastWeekOpened, stats.LastWeekEmails)
	if stats.OpenedEmails > 0 {
		stats.AverageViews = fmt.Sprintf("%.2f", float64(stats.TotalViews)/float64(stats.OpenedEmails))
	}

	s.logger.Printf("INFO: Aggregated tracking stats: %d sent, %d opened (%s), %d total views.",
		stats.TotalEmails, stats.OpenedEmails, stats.OpenRate, stats.TotalViews)
	return stats, nil
}

func formatRate(part, total int) string {
	if total == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(part)/float64(total)*100)
}
