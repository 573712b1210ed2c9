package activity

import "sort"

const topKeyLimit = 5

// AggregateByCategory folds a sequence of daily activity records into
// per-entity cumulative totals plus a date-ordered daily series for the
// requested dimension. Teams resolve team-qualified key labels and may be nil.
//
// The function is pure: it never mutates the input and returns a fresh map on
// every call. An empty input yields an empty map.
func AggregateByCategory(days []DailyActivity, category Category, teams []Team) map[string]*EntityView {
	views := make(map[string]*EntityView)
	dayIndex := make(map[string]map[string]int)

	for _, day := range days {
		for id, entity := range day.Breakdown.ForCategory(category) {
			view := views[id]
			if view == nil {
				view = &EntityView{
					ID:         id,
					Label:      entityLabel(category, id, entity.Metadata, teams),
					Daily:      make([]DayEntry, 0, len(days)),
					TopAPIKeys: make([]KeySpend, 0),
				}
				views[id] = view
				dayIndex[id] = make(map[string]int)
			}
			view.addMetrics(entity.Metrics)

			// One snapshot per calendar date per entity; a duplicate date in
			// the input folds into the existing snapshot.
			if idx, ok := dayIndex[id][day.Date]; ok {
				view.Daily[idx].Metrics = addDayMetrics(view.Daily[idx].Metrics, entity.Metrics)
			} else {
				dayIndex[id][day.Date] = len(view.Daily)
				view.Daily = append(view.Daily, DayEntry{
					Date:    day.Date,
					Metrics: addDayMetrics(DayMetrics{}, entity.Metrics),
				})
			}
		}
	}

	// A key's breakdown of itself would be self-referential, so skip the
	// sub-breakdown pass for the api_keys dimension.
	if category != CategoryAPIKeys {
		for id, view := range views {
			view.TopAPIKeys = topKeysForEntity(days, category, id, teams)
		}
	}

	for _, view := range views {
		sort.Slice(view.Daily, func(i, j int) bool {
			return view.Daily[i].Date < view.Daily[j].Date
		})
	}
	return views
}

func (v *EntityView) addMetrics(m SpendMetrics) {
	v.TotalSpend += m.Spend
	v.PromptTokens += m.PromptTokens
	v.CompletionTokens += m.CompletionTokens
	v.TotalTokens += m.TotalTokens
	v.TotalRequests += m.APIRequests
	v.TotalSuccessfulRequests += m.SuccessfulRequests
	v.TotalFailedRequests += m.FailedRequests
	v.TotalCacheReadInputTokens += cacheTokens(m.CacheReadInputTokens)
	v.TotalCacheCreationInputTokens += cacheTokens(m.CacheCreationInputTokens)
}

func addDayMetrics(base DayMetrics, m SpendMetrics) DayMetrics {
	base.Spend += m.Spend
	base.PromptTokens += m.PromptTokens
	base.CompletionTokens += m.CompletionTokens
	base.TotalTokens += m.TotalTokens
	base.APIRequests += m.APIRequests
	base.SuccessfulRequests += m.SuccessfulRequests
	base.FailedRequests += m.FailedRequests
	base.CacheReadInputTokens += cacheTokens(m.CacheReadInputTokens)
	base.CacheCreationInputTokens += cacheTokens(m.CacheCreationInputTokens)
	return base
}

func cacheTokens(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func entityLabel(category Category, id string, meta EntityMetadata, teams []Team) string {
	if category == CategoryAPIKeys {
		return KeyDisplayLabel(meta, id, teams)
	}
	return id
}

// topKeysForEntity re-scans the day records for the entity's nested per-key
// breakdowns, accumulates spend/requests/tokens per key across days, and
// returns the five highest-spend keys in descending order. Equal-spend keys
// keep identifier order; no further tie break.
func topKeysForEntity(days []DailyActivity, category Category, entityID string, teams []Team) []KeySpend {
	totals := make(map[string]*KeySpend)
	order := make([]string, 0)

	for _, day := range days {
		entity, ok := day.Breakdown.ForCategory(category)[entityID]
		if !ok {
			continue
		}
		for keyID, sub := range entity.APIKeyBreakdown {
			agg := totals[keyID]
			if agg == nil {
				agg = &KeySpend{
					APIKey:   keyID,
					KeyAlias: KeyDisplayLabel(sub.Metadata, keyID, teams),
				}
				totals[keyID] = agg
				order = append(order, keyID)
			}
			agg.Spend += sub.Metrics.Spend
			agg.Requests += sub.Metrics.APIRequests
			agg.Tokens += sub.Metrics.TotalTokens
		}
	}

	// Map iteration order is not stable, so fix identifier order before the
	// stable spend sort.
	sort.Strings(order)
	keys := make([]KeySpend, 0, len(totals))
	for _, keyID := range order {
		keys = append(keys, *totals[keyID])
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].Spend > keys[j].Spend
	})
	if len(keys) > topKeyLimit {
		keys = keys[:topKeyLimit]
	}
	return keys
}
