package alerting

import (
	"time"

	"github.com/Durga-Talluri/cloudops-pro/pkg/model"
)

// DefaultLimit is the page size used when the caller gives none.
const DefaultLimit = 50

// Query filters a snapshot and cuts one page from the result.
// Severity counts cover the whole filtered set and ignore pagination.
func Query(snapshot []model.Alert, f model.AlertFilter, now time.Time) model.AlertPage {
	page := model.AlertPage{
		Alerts:      []model.Alert{},
		LastUpdated: now,
	}

	var filtered []model.Alert
	for _, a := range snapshot {
		if f.Severity != "" && a.Severity != f.Severity {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		filtered = append(filtered, a)

		switch a.Severity {
		case model.SeverityCritical:
			page.CriticalCount++
		case model.SeverityWarning:
			page.WarningCount++
		case model.SeverityInfo:
			page.InfoCount++
		}
	}
	page.TotalCount = len(filtered)

	offset := max(f.Offset, 0)
	limit := max(f.Limit, 0)
	if offset >= len(filtered) {
		return page
	}
	end := min(offset+limit, len(filtered))
	page.Alerts = append(page.Alerts, filtered[offset:end]...)
	return page
}

// Summarize computes store-wide counters.
// ResolvedToday counts resolved alerts created on now's calendar date, in now's location.
func Summarize(snapshot []model.Alert, now time.Time) model.AlertStats {
	stats := model.AlertStats{
		TotalAlerts: len(snapshot),
		LastUpdated: now,
	}
	dayStart, dayEnd := model.DayBounds(now)

	for _, a := range snapshot {
		switch a.Status {
		case model.StatusActive:
			stats.ActiveAlerts++
			switch a.Severity {
			case model.SeverityCritical:
				stats.CriticalAlerts++
			case model.SeverityWarning:
				stats.WarningAlerts++
			}
		case model.StatusResolved:
			ts := a.Timestamp.In(now.Location())
			if !ts.Before(dayStart) && ts.Before(dayEnd) {
				stats.ResolvedToday++
			}
		}
	}
	return stats
}
