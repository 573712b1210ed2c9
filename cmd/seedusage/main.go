package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"time"

	"github.com/ncecere/gateway_insights/internal/activity"
	"github.com/ncecere/gateway_insights/internal/auth"
	"github.com/ncecere/gateway_insights/internal/config"
	"github.com/ncecere/gateway_insights/internal/database"
	"github.com/ncecere/gateway_insights/internal/store"
)

type seedModel struct {
	model      string
	modelGroup string
	provider   string
	mcpServer  string
	microsMin  int64
	microsMax  int64
}

var seedModels = []seedModel{
	{"gpt-4o", "gpt-4o", "openai", "", 900, 45000},
	{"gpt-4o-mini", "gpt-4o", "openai", "", 90, 4500},
	{"claude-sonnet", "claude", "anthropic", "docs-search", 1200, 60000},
	{"claude-haiku", "claude", "anthropic", "", 60, 3000},
}

type seedKey struct {
	id     string
	alias  string
	teamID string
}

var seedKeys = []seedKey{
	{"sk-a1f3", "ingest-pipeline", "team-platform"},
	{"sk-b2e4", "support-bot", "team-support"},
	{"sk-c3d5", "", "team-platform"},
	{"sk-d4c6", "eval-harness", ""},
}

func main() {
	days := flag.Int("days", 30, "number of days of usage to generate")
	perDay := flag.Int("per-day", 200, "events per day")
	adminEmail := flag.String("admin-email", "admin@example.com", "seed admin login email")
	adminPassword := flag.String("admin-password", "", "seed admin password (skipped when empty)")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(config.Options{})
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := database.RunMigrations(ctx, cfg.Database); err != nil {
		log.Fatalf("run migrations: %v", err)
	}
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer pool.Close()

	st := store.New(pool)

	teams := []activity.Team{
		{TeamID: "team-platform", TeamAlias: "Platform Engineering"},
		{TeamID: "team-support", TeamAlias: "Customer Support"},
	}
	for _, team := range teams {
		if err := st.UpsertTeam(ctx, team); err != nil {
			log.Fatalf("upsert team %s: %v", team.TeamID, err)
		}
	}

	if *adminPassword != "" {
		hash, err := auth.HashPassword(*adminPassword)
		if err != nil {
			log.Fatalf("hash admin password: %v", err)
		}
		if err := st.CreateAdmin(ctx, *adminEmail, "Seed Admin", hash); err != nil {
			log.Fatalf("create admin: %v", err)
		}
		log.Printf("seeded admin account %s", *adminEmail)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	loc := cfg.Reporting.Location()
	now := time.Now().In(loc)
	inserted := 0

	for d := 0; d < *days; d++ {
		day := now.AddDate(0, 0, -d)
		for i := 0; i < *perDay; i++ {
			m := seedModels[rng.Intn(len(seedModels))]
			k := seedKeys[rng.Intn(len(seedKeys))]

			ev := store.UsageEvent{
				Timestamp:        day.Add(-time.Duration(rng.Intn(24*3600)) * time.Second),
				Model:            m.model,
				ModelGroup:       m.modelGroup,
				Provider:         m.provider,
				MCPServer:        m.mcpServer,
				APIKeyID:         k.id,
				EndUser:          pickEndUser(rng),
				Success:          rng.Intn(100) >= 4,
				PromptTokens:     int64(rng.Intn(4000) + 50),
				CompletionTokens: int64(rng.Intn(1500) + 10),
				SpendUSDMicros:   m.microsMin + rng.Int63n(m.microsMax-m.microsMin+1),
			}
			ev.TotalTokens = ev.PromptTokens + ev.CompletionTokens
			if k.alias != "" {
				alias := k.alias
				ev.KeyAlias = &alias
			}
			if k.teamID != "" {
				teamID := k.teamID
				ev.TeamID = &teamID
			}
			if rng.Intn(3) == 0 {
				cached := int64(rng.Intn(2000))
				ev.CacheReadTokens = &cached
			}

			if err := st.InsertUsageEvent(ctx, ev); err != nil {
				log.Fatalf("insert usage event: %v", err)
			}
			inserted++
		}
	}

	log.Printf("seeded %d usage events across %d days", inserted, *days)
}

func pickEndUser(rng *rand.Rand) string {
	endUsers := []string{"alice", "bob", "carol", "dave", ""}
	return endUsers[rng.Intn(len(endUsers))]
}
