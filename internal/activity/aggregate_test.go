package activity

import (
	"testing"
)

func i64(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func modelDay(date, model string, m SpendMetrics, keys map[string]EntityActivity) DailyActivity {
	return DailyActivity{
		Date:    date,
		Metrics: m,
		Breakdown: Breakdown{
			Models: map[string]EntityActivity{
				model: {Metrics: m, APIKeyBreakdown: keys},
			},
		},
	}
}

func TestAggregateByCategory_EmptyInput(t *testing.T) {
	views := AggregateByCategory(nil, CategoryModels, nil)
	if len(views) != 0 {
		t.Fatalf("expected empty result, got %d entities", len(views))
	}

	views = AggregateByCategory([]DailyActivity{{Date: "2025-06-01"}}, CategoryModels, nil)
	if len(views) != 0 {
		t.Fatalf("expected empty result for day without entities, got %d", len(views))
	}
}

func TestAggregateByCategory_CrossDayAccumulation(t *testing.T) {
	days := []DailyActivity{
		modelDay("2025-06-02", "gpt-4", SpendMetrics{Spend: 50.5, APIRequests: 50, SuccessfulRequests: 48, FailedRequests: 2, TotalTokens: 600}, nil),
		modelDay("2025-06-01", "gpt-4", SpendMetrics{Spend: 50.0, APIRequests: 50, SuccessfulRequests: 50, TotalTokens: 500}, nil),
	}

	views := AggregateByCategory(days, CategoryModels, nil)
	view := views["gpt-4"]
	if view == nil {
		t.Fatal("missing gpt-4 view")
	}
	if view.TotalRequests != 100 {
		t.Errorf("want total_requests 100, got %d", view.TotalRequests)
	}
	if view.TotalSpend != 100.5 {
		t.Errorf("want total_spend 100.5, got %v", view.TotalSpend)
	}
	if view.TotalTokens != 1100 {
		t.Errorf("want total_tokens 1100, got %d", view.TotalTokens)
	}
	if len(view.Daily) != 2 {
		t.Fatalf("want 2 daily entries, got %d", len(view.Daily))
	}
	if view.Daily[0].Date != "2025-06-01" || view.Daily[1].Date != "2025-06-02" {
		t.Errorf("daily entries not date-ordered: %s, %s", view.Daily[0].Date, view.Daily[1].Date)
	}
	if view.Label != "gpt-4" {
		t.Errorf("model label should be the raw identifier, got %q", view.Label)
	}
}

func TestAggregateByCategory_SumInvariant(t *testing.T) {
	days := []DailyActivity{
		modelDay("2025-06-01", "claude-3", SpendMetrics{Spend: 1.25, APIRequests: 11}, nil),
		modelDay("2025-06-02", "claude-3", SpendMetrics{Spend: 0.75, APIRequests: 7}, nil),
		modelDay("2025-06-03", "claude-3", SpendMetrics{Spend: 2.0, APIRequests: 19}, nil),
	}

	view := AggregateByCategory(days, CategoryModels, nil)["claude-3"]
	if view == nil {
		t.Fatal("missing claude-3 view")
	}
	var daily int64
	for _, entry := range view.Daily {
		daily += entry.Metrics.APIRequests
	}
	if daily != view.TotalRequests {
		t.Errorf("daily sum %d != cumulative total_requests %d", daily, view.TotalRequests)
	}
}

func TestAggregateByCategory_DuplicateDateFoldsIntoOneSnapshot(t *testing.T) {
	days := []DailyActivity{
		modelDay("2025-06-01", "gpt-4", SpendMetrics{Spend: 1, APIRequests: 1}, nil),
		modelDay("2025-06-01", "gpt-4", SpendMetrics{Spend: 2, APIRequests: 3}, nil),
	}

	view := AggregateByCategory(days, CategoryModels, nil)["gpt-4"]
	if len(view.Daily) != 1 {
		t.Fatalf("want one snapshot per date, got %d", len(view.Daily))
	}
	if view.Daily[0].Metrics.APIRequests != 4 {
		t.Errorf("want folded api_requests 4, got %d", view.Daily[0].Metrics.APIRequests)
	}
	if view.TotalRequests != 4 {
		t.Errorf("want cumulative 4, got %d", view.TotalRequests)
	}
}

func TestAggregateByCategory_CacheTokensDefaultZero(t *testing.T) {
	days := []DailyActivity{
		modelDay("2025-06-01", "gpt-4", SpendMetrics{APIRequests: 1}, nil),
		modelDay("2025-06-02", "gpt-4", SpendMetrics{APIRequests: 1, CacheReadInputTokens: i64(40), CacheCreationInputTokens: i64(15)}, nil),
	}

	view := AggregateByCategory(days, CategoryModels, nil)["gpt-4"]
	if view.TotalCacheReadInputTokens != 40 {
		t.Errorf("want cache read 40, got %d", view.TotalCacheReadInputTokens)
	}
	if view.TotalCacheCreationInputTokens != 15 {
		t.Errorf("want cache creation 15, got %d", view.TotalCacheCreationInputTokens)
	}
	if view.Daily[0].Metrics.CacheReadInputTokens != 0 {
		t.Errorf("absent cache counter must snapshot as zero, got %d", view.Daily[0].Metrics.CacheReadInputTokens)
	}
}

func TestAggregateByCategory_TopKeysBoundAndOrder(t *testing.T) {
	keysDay1 := map[string]EntityActivity{
		"k1": {Metrics: SpendMetrics{Spend: 10, APIRequests: 5, TotalTokens: 100}},
		"k2": {Metrics: SpendMetrics{Spend: 1, APIRequests: 1, TotalTokens: 10}},
		"k3": {Metrics: SpendMetrics{Spend: 7, APIRequests: 3, TotalTokens: 70}},
		"k4": {Metrics: SpendMetrics{Spend: 2, APIRequests: 2, TotalTokens: 20}},
	}
	keysDay2 := map[string]EntityActivity{
		"k1": {Metrics: SpendMetrics{Spend: 5, APIRequests: 2, TotalTokens: 50}},
		"k5": {Metrics: SpendMetrics{Spend: 4, APIRequests: 4, TotalTokens: 40}},
		"k6": {Metrics: SpendMetrics{Spend: 3, APIRequests: 1, TotalTokens: 30}},
		"k7": {Metrics: SpendMetrics{Spend: 0.5, APIRequests: 1, TotalTokens: 5}},
	}
	days := []DailyActivity{
		modelDay("2025-06-01", "gpt-4", SpendMetrics{Spend: 20, APIRequests: 11}, keysDay1),
		modelDay("2025-06-02", "gpt-4", SpendMetrics{Spend: 12.5, APIRequests: 8}, keysDay2),
	}

	view := AggregateByCategory(days, CategoryModels, nil)["gpt-4"]
	if len(view.TopAPIKeys) != 5 {
		t.Fatalf("want top list capped at 5 of 7 keys, got %d", len(view.TopAPIKeys))
	}
	for i := 1; i < len(view.TopAPIKeys); i++ {
		if view.TopAPIKeys[i].Spend > view.TopAPIKeys[i-1].Spend {
			t.Errorf("top keys not spend-descending at %d: %v > %v", i, view.TopAPIKeys[i].Spend, view.TopAPIKeys[i-1].Spend)
		}
	}
	if view.TopAPIKeys[0].APIKey != "k1" || view.TopAPIKeys[0].Spend != 15 {
		t.Errorf("want k1 accumulated to 15 on top, got %s/%v", view.TopAPIKeys[0].APIKey, view.TopAPIKeys[0].Spend)
	}
	if view.TopAPIKeys[0].Requests != 7 || view.TopAPIKeys[0].Tokens != 150 {
		t.Errorf("want k1 requests 7 tokens 150, got %d/%d", view.TopAPIKeys[0].Requests, view.TopAPIKeys[0].Tokens)
	}
}

func TestAggregateByCategory_NoSelfBreakdownForAPIKeys(t *testing.T) {
	days := []DailyActivity{
		{
			Date: "2025-06-01",
			Breakdown: Breakdown{
				APIKeys: map[string]EntityActivity{
					"sk-1": {
						Metrics:  SpendMetrics{Spend: 3, APIRequests: 2},
						Metadata: EntityMetadata{KeyAlias: strPtr("prod-key")},
						APIKeyBreakdown: map[string]EntityActivity{
							"sk-1": {Metrics: SpendMetrics{Spend: 3}},
						},
					},
				},
			},
		},
	}

	views := AggregateByCategory(days, CategoryAPIKeys, nil)
	view := views["sk-1"]
	if view == nil {
		t.Fatal("missing sk-1 view")
	}
	if len(view.TopAPIKeys) != 0 {
		t.Errorf("api_keys category must not produce a key sub-breakdown, got %d entries", len(view.TopAPIKeys))
	}
	if view.Label != "prod-key" {
		t.Errorf("want alias label, got %q", view.Label)
	}
}

func TestAggregateByCategory_MultipleCategoriesIndependent(t *testing.T) {
	day := DailyActivity{
		Date: "2025-06-01",
		Breakdown: Breakdown{
			Providers:  map[string]EntityActivity{"openai": {Metrics: SpendMetrics{Spend: 9, APIRequests: 4}}},
			MCPServers: map[string]EntityActivity{"search": {Metrics: SpendMetrics{Spend: 1, APIRequests: 2}}},
		},
	}

	providers := AggregateByCategory([]DailyActivity{day}, CategoryProviders, nil)
	if len(providers) != 1 || providers["openai"] == nil {
		t.Fatalf("unexpected provider views: %v", providers)
	}
	servers := AggregateByCategory([]DailyActivity{day}, CategoryMCPServers, nil)
	if len(servers) != 1 || servers["search"].TotalRequests != 2 {
		t.Fatalf("unexpected mcp server views: %v", servers)
	}
}
