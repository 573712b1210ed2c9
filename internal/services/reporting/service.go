package reporting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ncecere/gateway_insights/internal/activity"
	"github.com/ncecere/gateway_insights/internal/cache"
	"github.com/ncecere/gateway_insights/internal/config"
	"github.com/ncecere/gateway_insights/internal/observability"
	"github.com/ncecere/gateway_insights/internal/store"
	"github.com/ncecere/gateway_insights/internal/timeutil"
)

var (
	ErrInvalidPeriod   = errors.New("invalid period")
	ErrInvalidTimezone = errors.New("invalid timezone")
	ErrInvalidRange    = errors.New("invalid date range")
	ErrInvalidCategory = errors.New("invalid breakdown category")
	ErrWindowTooLarge  = errors.New("requested window exceeds the maximum allowed days")
)

// Service assembles daily activity windows and per-dimension breakdowns for
// the dashboard endpoints. Window results are cached in Redis keyed by their
// resolved bounds.
type Service struct {
	store  *store.Store
	cache  *cache.ActivityCache
	obs    *observability.Provider
	cfg    config.ReportingConfig
	logger *slog.Logger
}

func NewService(st *store.Store, ch *cache.ActivityCache, obs *observability.Provider, cfg config.ReportingConfig) *Service {
	return &Service{
		store:  st,
		cache:  ch,
		obs:    obs,
		cfg:    cfg,
		logger: slog.Default().With("component", "reporting"),
	}
}

// WindowParams selects the reporting window: either a rolling period or an
// explicit [start, end) range, in an optional override timezone.
type WindowParams struct {
	Period   string
	Timezone string
	Start    *time.Time
	End      *time.Time
}

// DailyActivityResult is the window envelope returned to the dashboard.
type DailyActivityResult struct {
	Period   string                   `json:"period"`
	Start    string                   `json:"start"`
	End      string                   `json:"end"`
	Timezone string                   `json:"timezone"`
	Results  []activity.DailyActivity `json:"results"`
	Summary  activity.DayMetrics      `json:"summary"`
}

// BreakdownEntity decorates an aggregated entity with display averages.
type BreakdownEntity struct {
	*activity.EntityView
	AvgSpendPerRequest  float64 `json:"avg_spend_per_request"`
	AvgTokensPerRequest float64 `json:"avg_tokens_per_request"`
}

// BreakdownResult is the per-dimension aggregation returned to the dashboard.
type BreakdownResult struct {
	Category activity.Category   `json:"category"`
	Period   string              `json:"period"`
	Start    string              `json:"start"`
	End      string              `json:"end"`
	Timezone string              `json:"timezone"`
	Entities []BreakdownEntity   `json:"entities"`
	Summary  activity.DayMetrics `json:"summary"`
}

// DailyActivity resolves the requested window and returns its day sequence.
func (s *Service) DailyActivity(ctx context.Context, params WindowParams) (*DailyActivityResult, error) {
	window, err := s.resolveWindow(params)
	if err != nil {
		return nil, err
	}

	days, err := s.loadDays(ctx, window)
	if err != nil {
		return nil, err
	}

	return &DailyActivityResult{
		Period:   window.Period(),
		Start:    window.StartString(),
		End:      window.EndString(),
		Timezone: window.Timezone(),
		Results:  days,
		Summary:  activity.Summary(days),
	}, nil
}

// Breakdown aggregates the window's days along one dimension.
func (s *Service) Breakdown(ctx context.Context, params WindowParams, category activity.Category) (*BreakdownResult, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	window, err := s.resolveWindow(params)
	if err != nil {
		return nil, err
	}

	days, err := s.loadDays(ctx, window)
	if err != nil {
		return nil, err
	}

	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		// Labels degrade to raw identifiers without the team list.
		s.logger.Warn("list teams failed", "error", err)
		teams = nil
	}

	started := time.Now()
	views := activity.AggregateByCategory(days, category, teams)
	s.obs.RecordAggregation(string(category), time.Since(started))

	sorted := activity.SortViewsBySpend(views)
	entities := make([]BreakdownEntity, 0, len(sorted))
	for _, view := range sorted {
		entities = append(entities, BreakdownEntity{
			EntityView:          view,
			AvgSpendPerRequest:  activity.PerRequestAverage(view.TotalSpend, view.TotalSuccessfulRequests),
			AvgTokensPerRequest: activity.PerRequestAverage(float64(view.TotalTokens), view.TotalSuccessfulRequests),
		})
	}

	return &BreakdownResult{
		Category: category,
		Period:   window.Period(),
		Start:    window.StartString(),
		End:      window.EndString(),
		Timezone: window.Timezone(),
		Entities: entities,
		Summary:  activity.Summary(days),
	}, nil
}

// Teams exposes the team reference list for label resolution on the client.
func (s *Service) Teams(ctx context.Context) ([]activity.Team, error) {
	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

func (s *Service) loadDays(ctx context.Context, window timeutil.Window) ([]activity.DailyActivity, error) {
	key := cache.WindowKey(window.Start(), window.End(), window.Timezone())
	if days, ok := s.cache.Get(ctx, key); ok {
		s.obs.RecordCacheLookup(true)
		return days, nil
	}
	s.obs.RecordCacheLookup(false)

	days, err := s.store.DailyActivity(ctx, window.Start(), window.End(), window.Location())
	if err != nil {
		return nil, fmt.Errorf("query daily activity: %w", err)
	}
	s.cache.Set(ctx, key, days)
	return days, nil
}

func (s *Service) resolveWindow(params WindowParams) (timeutil.Window, error) {
	tz := strings.TrimSpace(params.Timezone)
	if tz == "" {
		tz = s.cfg.Timezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return timeutil.Window{}, ErrInvalidTimezone
	}

	var window timeutil.Window
	switch {
	case params.Start != nil && params.End != nil:
		window, err = timeutil.NewWindowFromRange(*params.Start, *params.End, loc, "custom")
		if err != nil {
			return timeutil.Window{}, ErrInvalidRange
		}
	case params.Start != nil || params.End != nil:
		return timeutil.Window{}, ErrInvalidRange
	default:
		period := strings.TrimSpace(params.Period)
		if period == "" {
			period = s.cfg.DefaultPeriod
		}
		window, err = timeutil.NewWindow(period, time.Now(), loc)
		if err != nil {
			return timeutil.Window{}, ErrInvalidPeriod
		}
	}

	if s.cfg.MaxWindowDays > 0 && window.Days() > s.cfg.MaxWindowDays {
		return timeutil.Window{}, ErrWindowTooLarge
	}
	return window, nil
}
