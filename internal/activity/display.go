package activity

import "sort"

// PerRequestAverage divides a cumulative value by a successful-request count
// for display. A zero denominator yields zero rather than NaN or Inf.
func PerRequestAverage(total float64, successfulRequests int64) float64 {
	if successfulRequests <= 0 {
		return 0
	}
	return total / float64(successfulRequests)
}

// SortViewsBySpend flattens an aggregation result into a spend-descending
// slice for dashboard lists. The empty-identifier bucket (usage with no
// attributed entity) always sorts last; this is a display convention, not an
// aggregation guarantee.
func SortViewsBySpend(views map[string]*EntityView) []*EntityView {
	out := make([]*EntityView, 0, len(views))
	for _, view := range views {
		out = append(out, view)
	}
	sort.Slice(out, func(i, j int) bool {
		if (out[i].ID == "") != (out[j].ID == "") {
			return out[j].ID == ""
		}
		if out[i].TotalSpend != out[j].TotalSpend {
			return out[i].TotalSpend > out[j].TotalSpend
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Summary totals the window's day-level counters for the dashboard summary
// cards. Cache counters are zero-defaulted.
func Summary(days []DailyActivity) DayMetrics {
	var total DayMetrics
	for _, day := range days {
		total = addDayMetrics(total, day.Metrics)
	}
	return total
}
