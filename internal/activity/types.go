package activity

// Category selects which breakdown dimension of a day's activity to aggregate.
type Category string

const (
	CategoryModels      Category = "models"
	CategoryModelGroups Category = "model_groups"
	CategoryMCPServers  Category = "mcp_servers"
	CategoryProviders   Category = "providers"
	CategoryAPIKeys     Category = "api_keys"
	CategoryEntities    Category = "entities"
)

// Categories lists every breakdown dimension in display order.
func Categories() []Category {
	return []Category{
		CategoryModels,
		CategoryModelGroups,
		CategoryMCPServers,
		CategoryProviders,
		CategoryAPIKeys,
		CategoryEntities,
	}
}

// Valid reports whether the category names a known breakdown dimension.
func (c Category) Valid() bool {
	switch c {
	case CategoryModels, CategoryModelGroups, CategoryMCPServers,
		CategoryProviders, CategoryAPIKeys, CategoryEntities:
		return true
	}
	return false
}

// SpendMetrics carries the counters reported for one bucket of activity.
// Cache token counters are optional in the upstream payload and stay nil when
// the backend omitted them.
type SpendMetrics struct {
	Spend                    float64 `json:"spend"`
	PromptTokens             int64   `json:"prompt_tokens"`
	CompletionTokens         int64   `json:"completion_tokens"`
	TotalTokens              int64   `json:"total_tokens"`
	APIRequests              int64   `json:"api_requests"`
	SuccessfulRequests       int64   `json:"successful_requests"`
	FailedRequests           int64   `json:"failed_requests"`
	CacheReadInputTokens     *int64  `json:"cache_read_input_tokens,omitempty"`
	CacheCreationInputTokens *int64  `json:"cache_creation_input_tokens,omitempty"`
}

// EntityMetadata holds the free-form metadata attached to a bucket. Only API
// key buckets populate it today.
type EntityMetadata struct {
	KeyAlias *string `json:"key_alias,omitempty"`
	TeamID   *string `json:"team_id,omitempty"`
}

// EntityActivity is one entity's share of a single day. Model entities may
// additionally carry a nested per-key breakdown of that day's usage.
type EntityActivity struct {
	Metrics         SpendMetrics              `json:"metrics"`
	Metadata        EntityMetadata            `json:"metadata"`
	APIKeyBreakdown map[string]EntityActivity `json:"api_key_breakdown,omitempty"`
}

// Breakdown groups a day's activity by each dimension. Field names and
// nesting mirror the analytics endpoint response and must not change.
type Breakdown struct {
	Models      map[string]EntityActivity `json:"models,omitempty"`
	ModelGroups map[string]EntityActivity `json:"model_groups,omitempty"`
	MCPServers  map[string]EntityActivity `json:"mcp_servers,omitempty"`
	Providers   map[string]EntityActivity `json:"providers,omitempty"`
	APIKeys     map[string]EntityActivity `json:"api_keys,omitempty"`
	Entities    map[string]EntityActivity `json:"entities,omitempty"`
}

// ForCategory returns the entity map for the requested dimension, nil when the
// day carries no entities under it.
func (b Breakdown) ForCategory(c Category) map[string]EntityActivity {
	switch c {
	case CategoryModels:
		return b.Models
	case CategoryModelGroups:
		return b.ModelGroups
	case CategoryMCPServers:
		return b.MCPServers
	case CategoryProviders:
		return b.Providers
	case CategoryAPIKeys:
		return b.APIKeys
	case CategoryEntities:
		return b.Entities
	}
	return nil
}

// DailyActivity is one calendar day of usage: the day's aggregate counters
// plus the per-dimension breakdowns.
type DailyActivity struct {
	Date      string       `json:"date"`
	Metrics   SpendMetrics `json:"metrics"`
	Breakdown Breakdown    `json:"breakdown"`
}

// DailyActivityResponse is the day-sequence envelope returned by the
// analytics query endpoint.
type DailyActivityResponse struct {
	Results []DailyActivity `json:"results"`
}

// Team is a reference row used to resolve team-qualified display labels.
type Team struct {
	TeamID    string `json:"team_id"`
	TeamAlias string `json:"team_alias"`
}

// DayMetrics is a per-day counter snapshot with the optional cache counters
// resolved to zero.
type DayMetrics struct {
	Spend                    float64 `json:"spend"`
	PromptTokens             int64   `json:"prompt_tokens"`
	CompletionTokens         int64   `json:"completion_tokens"`
	TotalTokens              int64   `json:"total_tokens"`
	APIRequests              int64   `json:"api_requests"`
	SuccessfulRequests       int64   `json:"successful_requests"`
	FailedRequests           int64   `json:"failed_requests"`
	CacheReadInputTokens     int64   `json:"cache_read_input_tokens"`
	CacheCreationInputTokens int64   `json:"cache_creation_input_tokens"`
}

// DayEntry pairs a calendar date with that day's snapshot for one entity.
type DayEntry struct {
	Date    string     `json:"date"`
	Metrics DayMetrics `json:"metrics"`
}

// KeySpend summarizes one API key's contribution to an entity's usage.
type KeySpend struct {
	APIKey   string  `json:"api_key"`
	KeyAlias string  `json:"key_alias"`
	Spend    float64 `json:"spend"`
	Requests int64   `json:"requests"`
	Tokens   int64   `json:"tokens"`
}

// EntityView is the cumulative aggregate for one entity across the requested
// window, keyed by entity identifier in the aggregation result.
type EntityView struct {
	ID                            string     `json:"id"`
	Label                         string     `json:"label"`
	TotalSpend                    float64    `json:"total_spend"`
	PromptTokens                  int64      `json:"prompt_tokens"`
	CompletionTokens              int64      `json:"completion_tokens"`
	TotalTokens                   int64      `json:"total_tokens"`
	TotalRequests                 int64      `json:"total_requests"`
	TotalSuccessfulRequests       int64      `json:"total_successful_requests"`
	TotalFailedRequests           int64      `json:"total_failed_requests"`
	TotalCacheReadInputTokens     int64      `json:"total_cache_read_input_tokens"`
	TotalCacheCreationInputTokens int64      `json:"total_cache_creation_input_tokens"`
	Daily                         []DayEntry `json:"daily_data"`
	TopAPIKeys                    []KeySpend `json:"top_api_keys"`
}
