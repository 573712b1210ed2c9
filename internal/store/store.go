package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ncecere/gateway_insights/internal/activity"
	"github.com/ncecere/gateway_insights/internal/timeutil"
)

var ErrNotFound = errors.New("not found")

// Store reads usage events and reference data from Postgres and assembles the
// daily activity records the aggregation layer consumes.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const dailyActivityQuery = `
SELECT (ts AT TIME ZONE $3)::date AS day,
       model, model_group, provider, mcp_server,
       api_key_id, key_alias, team_id, end_user,
       COUNT(*) AS api_requests,
       COUNT(*) FILTER (WHERE success) AS successful_requests,
       COUNT(*) FILTER (WHERE NOT success) AS failed_requests,
       COALESCE(SUM(prompt_tokens), 0) AS prompt_tokens,
       COALESCE(SUM(completion_tokens), 0) AS completion_tokens,
       COALESCE(SUM(total_tokens), 0) AS total_tokens,
       SUM(cache_read_tokens) AS cache_read_tokens,
       SUM(cache_creation_tokens) AS cache_creation_tokens,
       COALESCE(SUM(spend_usd_micros), 0) AS spend_usd_micros
FROM usage_events
WHERE ts >= $1 AND ts < $2
GROUP BY 1, 2, 3, 4, 5, 6, 7, 8, 9
ORDER BY 1`

type usageRow struct {
	Day                 time.Time
	Model               string
	ModelGroup          string
	Provider            string
	MCPServer           string
	APIKeyID            string
	KeyAlias            *string
	TeamID              *string
	EndUser             string
	APIRequests         int64
	SuccessfulRequests  int64
	FailedRequests      int64
	PromptTokens        int64
	CompletionTokens    int64
	TotalTokens         int64
	CacheReadTokens     *int64
	CacheCreationTokens *int64
	SpendUSDMicros      int64
}

// DailyActivity returns one record per calendar day in [start, end), each
// carrying the day's totals plus per-dimension breakdowns in the analytics
// endpoint's wire shape. Days without traffic are omitted.
func (s *Store) DailyActivity(ctx context.Context, start, end time.Time, loc *time.Location) ([]activity.DailyActivity, error) {
	loc = timeutil.EnsureLocation(loc)
	rows, err := s.pool.Query(ctx, dailyActivityQuery, start, end, loc.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDay := make(map[string]*activity.DailyActivity)
	order := make([]string, 0)
	for rows.Next() {
		var r usageRow
		if err := rows.Scan(
			&r.Day, &r.Model, &r.ModelGroup, &r.Provider, &r.MCPServer,
			&r.APIKeyID, &r.KeyAlias, &r.TeamID, &r.EndUser,
			&r.APIRequests, &r.SuccessfulRequests, &r.FailedRequests,
			&r.PromptTokens, &r.CompletionTokens, &r.TotalTokens,
			&r.CacheReadTokens, &r.CacheCreationTokens, &r.SpendUSDMicros,
		); err != nil {
			return nil, err
		}

		date := r.Day.Format(timeutil.DayLayout)
		day := byDay[date]
		if day == nil {
			day = &activity.DailyActivity{Date: date}
			byDay[date] = day
			order = append(order, date)
		}
		addRowToDay(day, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]activity.DailyActivity, 0, len(order))
	for _, date := range order {
		out = append(out, *byDay[date])
	}
	return out, nil
}

func addRowToDay(day *activity.DailyActivity, r usageRow) {
	metrics := rowMetrics(r)
	day.Metrics = mergeMetrics(day.Metrics, metrics)

	// Rows that never touched a dimension (blank model group, no MCP server)
	// stay out of that dimension's breakdown. The end-user dimension keeps
	// its blank bucket: unattributed traffic is still traffic.
	b := &day.Breakdown
	if r.Model != "" {
		b.Models = addEntity(b.Models, r.Model, metrics, activity.EntityMetadata{})
	}
	if r.ModelGroup != "" {
		b.ModelGroups = addEntity(b.ModelGroups, r.ModelGroup, metrics, activity.EntityMetadata{})
	}
	if r.Provider != "" {
		b.Providers = addEntity(b.Providers, r.Provider, metrics, activity.EntityMetadata{})
	}
	if r.MCPServer != "" {
		b.MCPServers = addEntity(b.MCPServers, r.MCPServer, metrics, activity.EntityMetadata{})
	}
	b.Entities = addEntity(b.Entities, r.EndUser, metrics, activity.EntityMetadata{})

	keyMeta := activity.EntityMetadata{KeyAlias: r.KeyAlias, TeamID: r.TeamID}
	b.APIKeys = addEntity(b.APIKeys, r.APIKeyID, metrics, keyMeta)

	// Model entities additionally carry the per-key breakdown that fed them.
	if r.Model != "" {
		model := b.Models[r.Model]
		model.APIKeyBreakdown = addEntity(model.APIKeyBreakdown, r.APIKeyID, metrics, keyMeta)
		b.Models[r.Model] = model
	}
}

func addEntity(m map[string]activity.EntityActivity, id string, metrics activity.SpendMetrics, meta activity.EntityMetadata) map[string]activity.EntityActivity {
	if m == nil {
		m = make(map[string]activity.EntityActivity)
	}
	entity, ok := m[id]
	if !ok {
		entity = activity.EntityActivity{Metadata: meta}
	}
	entity.Metrics = mergeMetrics(entity.Metrics, metrics)
	m[id] = entity
	return m
}

func rowMetrics(r usageRow) activity.SpendMetrics {
	return activity.SpendMetrics{
		Spend:                    microsToUSD(r.SpendUSDMicros),
		PromptTokens:             r.PromptTokens,
		CompletionTokens:         r.CompletionTokens,
		TotalTokens:              r.TotalTokens,
		APIRequests:              r.APIRequests,
		SuccessfulRequests:       r.SuccessfulRequests,
		FailedRequests:           r.FailedRequests,
		CacheReadInputTokens:     r.CacheReadTokens,
		CacheCreationInputTokens: r.CacheCreationTokens,
	}
}

func mergeMetrics(dst, src activity.SpendMetrics) activity.SpendMetrics {
	dst.Spend += src.Spend
	dst.PromptTokens += src.PromptTokens
	dst.CompletionTokens += src.CompletionTokens
	dst.TotalTokens += src.TotalTokens
	dst.APIRequests += src.APIRequests
	dst.SuccessfulRequests += src.SuccessfulRequests
	dst.FailedRequests += src.FailedRequests
	dst.CacheReadInputTokens = addOptional(dst.CacheReadInputTokens, src.CacheReadInputTokens)
	dst.CacheCreationInputTokens = addOptional(dst.CacheCreationInputTokens, src.CacheCreationInputTokens)
	return dst
}

// addOptional sums two optional counters, staying nil only when both sides
// are absent so the wire shape preserves "not reported".
func addOptional(a, b *int64) *int64 {
	if a == nil && b == nil {
		return nil
	}
	var sum int64
	if a != nil {
		sum += *a
	}
	if b != nil {
		sum += *b
	}
	return &sum
}

func microsToUSD(micros int64) float64 {
	usd, _ := decimal.NewFromInt(micros).Div(decimal.NewFromInt(1_000_000)).Float64()
	return usd
}

// ListTeams returns the team reference rows used for label resolution.
func (s *Store) ListTeams(ctx context.Context) ([]activity.Team, error) {
	rows, err := s.pool.Query(ctx, `SELECT team_id, team_alias FROM teams ORDER BY team_alias`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]activity.Team, 0)
	for rows.Next() {
		var team activity.Team
		if err := rows.Scan(&team.TeamID, &team.TeamAlias); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

// UpsertTeam creates or renames a team reference row.
func (s *Store) UpsertTeam(ctx context.Context, team activity.Team) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO teams (team_id, team_alias) VALUES ($1, $2)
ON CONFLICT (team_id) DO UPDATE SET team_alias = EXCLUDED.team_alias`,
		team.TeamID, team.TeamAlias)
	return err
}

// UsageEvent is one raw request outcome as recorded by the proxy.
type UsageEvent struct {
	Timestamp           time.Time
	Model               string
	ModelGroup          string
	Provider            string
	MCPServer           string
	APIKeyID            string
	KeyAlias            *string
	TeamID              *string
	EndUser             string
	Success             bool
	PromptTokens        int64
	CompletionTokens    int64
	TotalTokens         int64
	CacheReadTokens     *int64
	CacheCreationTokens *int64
	SpendUSDMicros      int64
}

// InsertUsageEvent records a single usage event row.
func (s *Store) InsertUsageEvent(ctx context.Context, ev UsageEvent) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO usage_events (
    ts, model, model_group, provider, mcp_server,
    api_key_id, key_alias, team_id, end_user, success,
    prompt_tokens, completion_tokens, total_tokens,
    cache_read_tokens, cache_creation_tokens, spend_usd_micros
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		ev.Timestamp, ev.Model, ev.ModelGroup, ev.Provider, ev.MCPServer,
		ev.APIKeyID, ev.KeyAlias, ev.TeamID, ev.EndUser, ev.Success,
		ev.PromptTokens, ev.CompletionTokens, ev.TotalTokens,
		ev.CacheReadTokens, ev.CacheCreationTokens, ev.SpendUSDMicros)
	return err
}

// AdminUser is a dashboard operator account.
type AdminUser struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
}

// GetAdminByEmail looks up an operator account for login.
func (s *Store) GetAdminByEmail(ctx context.Context, email string) (AdminUser, error) {
	var user AdminUser
	err := s.pool.QueryRow(ctx, `
SELECT id, email, name, password_hash FROM admin_users WHERE lower(email) = lower($1)`,
		email).Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return AdminUser{}, ErrNotFound
	}
	if err != nil {
		return AdminUser{}, err
	}
	return user, nil
}

// GetAdminByID resolves an operator account from a session subject.
func (s *Store) GetAdminByID(ctx context.Context, id string) (AdminUser, error) {
	var user AdminUser
	err := s.pool.QueryRow(ctx, `
SELECT id, email, name, password_hash FROM admin_users WHERE id = $1`,
		id).Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return AdminUser{}, ErrNotFound
	}
	if err != nil {
		return AdminUser{}, err
	}
	return user, nil
}

// CreateAdmin inserts an operator account, ignoring duplicates by email.
func (s *Store) CreateAdmin(ctx context.Context, email, name, passwordHash string) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO admin_users (email, name, password_hash) VALUES ($1, $2, $3)
ON CONFLICT (email) DO NOTHING`,
		email, name, passwordHash)
	return err
}
