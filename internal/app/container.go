package app

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ncecere/gateway_insights/internal/auth"
	"github.com/ncecere/gateway_insights/internal/cache"
	"github.com/ncecere/gateway_insights/internal/catalog"
	"github.com/ncecere/gateway_insights/internal/config"
	"github.com/ncecere/gateway_insights/internal/observability"
	reportingsvc "github.com/ncecere/gateway_insights/internal/services/reporting"
	"github.com/ncecere/gateway_insights/internal/store"
)

// Container aggregates runtime dependencies for handlers and services.
type Container struct {
	Config        *config.Config
	DBPool        *pgxpool.Pool
	Redis         *redis.Client
	Store         *store.Store
	ActivityCache *cache.ActivityCache
	Reporting     *reportingsvc.Service
	AdminAuth     *auth.AdminAuthService
	Fields        *catalog.FieldCatalog
	Observability *observability.Provider
}

// NewContainer wires services from the shared infrastructure handles.
func NewContainer(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client, obs *observability.Provider) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if pool == nil {
		return nil, fmt.Errorf("database pool is required")
	}

	st := store.New(pool)
	activityCache := cache.NewActivityCache(redisClient, cfg.Reporting.CacheTTL)
	reporting := reportingsvc.NewService(st, activityCache, obs, cfg.Reporting)

	adminAuth, err := auth.NewAdminAuthService(cfg.Admin, st)
	if err != nil {
		return nil, fmt.Errorf("init admin auth: %w", err)
	}

	return &Container{
		Config:        cfg,
		DBPool:        pool,
		Redis:         redisClient,
		Store:         st,
		ActivityCache: activityCache,
		Reporting:     reporting,
		AdminAuth:     adminAuth,
		Fields:        catalog.NewFieldCatalog(nil),
		Observability: obs,
	}, nil
}
