package alerting

import (
	"sort"
	"time"
)

// GetActive returns all active and acknowledged alerts, newest first
func (e *Engine) GetActive() []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	alerts := make([]Alert, 0, len(e.active))
	for _, alert := range e.active {
		alerts = append(alerts, *alert)
	}
	sortByTimestampDesc(alerts)
	return alerts
}

// GetHistory returns the most recent limit history entries, newest first.
// A non-positive limit returns the full history.
func (e *Engine) GetHistory(limit int) []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.history)
	if limit <= 0 || limit > n {
		limit = n
	}

	alerts := make([]Alert, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		alerts = append(alerts, *e.history[i])
	}
	sortByTimestampDesc(alerts)
	return alerts
}

// GetByComponent returns all history entries for a component, newest first
func (e *Engine) GetByComponent(component string) []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	var alerts []Alert
	for _, alert := range e.history {
		if alert.Component == component {
			alerts = append(alerts, *alert)
		}
	}
	sortByTimestampDesc(alerts)
	return alerts
}

// GetBySeverity returns all history entries of a severity, newest first
func (e *Engine) GetBySeverity(severity Severity) []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	var alerts []Alert
	for _, alert := range e.history {
		if alert.Severity == severity {
			alerts = append(alerts, *alert)
		}
	}
	sortByTimestampDesc(alerts)
	return alerts
}

// GetStatistics summarizes the alert history. Resolution-time statistics
// cover only alerts with ResolvedAt set and report zero when none exist.
func (e *Engine) GetStatistics() Statistics {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	stats := Statistics{
		Total:       len(e.history),
		Active:      len(e.active),
		BySeverity:  make(map[Severity]int),
		ByComponent: make(map[string]int),
	}

	var (
		resolvedCount   int
		resolutionTotal time.Duration
	)

	for _, alert := range e.history {
		stats.BySeverity[alert.Severity]++
		stats.ByComponent[alert.Component]++

		age := now.Sub(alert.Timestamp)
		if age <= 24*time.Hour {
			stats.Last24Hours++
		}
		if age <= 7*24*time.Hour {
			stats.Last7Days++
		}

		if alert.ResolvedAt != nil {
			resolvedCount++
			resolutionTotal += alert.ResolvedAt.Sub(alert.Timestamp)
		}
	}

	if resolvedCount > 0 {
		avg := resolutionTotal / time.Duration(resolvedCount)
		stats.AvgResolutionTimeSeconds = avg.Seconds()
		stats.MTTRMinutes = avg.Minutes()
	}

	return stats
}

// ClearOldAlerts removes history entries older than the retention period and
// returns how many were removed. The entry backing a still-active alert is
// never purged regardless of age.
func (e *Engine) ClearOldAlerts(retentionDays int) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := e.now().AddDate(0, 0, -retentionDays)

	kept := e.history[:0]
	removed := 0
	for _, alert := range e.history {
		if cur, ok := e.active[alert.ID]; ok && cur == alert {
			kept = append(kept, alert)
			continue
		}
		if alert.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, alert)
	}
	e.history = kept

	if removed > 0 {
		e.logger.WithField("removed_count", removed).Info("Purged old alerts from history")
	}
	return removed
}

// Rules returns the rule table, ordered by id
func (e *Engine) Rules() []Rule {
	e.mu.Lock()
	defer e.mu.Unlock()

	rules := make([]Rule, 0, len(e.rules))
	for _, rule := range e.rules {
		rules = append(rules, *rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules
}

func sortByTimestampDesc(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Timestamp.After(alerts[j].Timestamp)
	})
}
