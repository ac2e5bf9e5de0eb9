// Package app wires the search pipeline from configuration. Both the HTTP
// server and the CLI build on it.
package app

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/dharmasatrya/flyhigh/internal/config"
	"github.com/dharmasatrya/flyhigh/internal/conversation"
	"github.com/dharmasatrya/flyhigh/internal/converter"
	"github.com/dharmasatrya/flyhigh/internal/dates"
	"github.com/dharmasatrya/flyhigh/internal/llm"
	"github.com/dharmasatrya/flyhigh/internal/orchestrator"
	"github.com/dharmasatrya/flyhigh/internal/querybuilder"
	"github.com/dharmasatrya/flyhigh/internal/ratelimit"
	"github.com/dharmasatrya/flyhigh/internal/scraper"
	"github.com/dharmasatrya/flyhigh/internal/timezone"
	"github.com/dharmasatrya/flyhigh/internal/txlog"
)

type App struct {
	Config       *config.Config
	Resolver     *dates.Resolver
	Builder      *querybuilder.Builder
	Orchestrator *orchestrator.Orchestrator
	Limiter      *ratelimit.HostLimiter
	LLM          *llm.Client
	Recorder     txlog.Recorder
	Sessions     *conversation.Store
}

func New(cfg *config.Config) (*App, error) {
	loc := timezone.Load(cfg.Timezone)
	resolver := dates.NewResolver(loc, time.Now)
	builder := querybuilder.NewBuilder(cfg.Provider.BaseURL, resolver)

	limiter := ratelimit.NewHostLimiter(ratelimit.DefaultConfig())
	if u, err := url.Parse(cfg.Provider.BaseURL); err == nil && u.Host != "" {
		limiter.SetHostLimit(u.Host, cfg.Scraper.RequestsPerSecond, cfg.Scraper.Burst)
	}

	orch := orchestrator.New(
		builder,
		scraper.NewFetcher(cfg.Proxy, cfg.Scraper),
		converter.New(),
		orchestrator.Config{
			ProviderName: cfg.Provider.Name,
			Limiter:      limiter,
		},
	)

	recorder, err := newRecorder(cfg)
	if err != nil {
		return nil, err
	}

	client := llm.NewClient(cfg.LLM, cfg.DefaultOrigin)
	if !client.IsEnabled() {
		log.Println("LLM_API_KEY not set, conversational and free-form search are disabled")
	}

	return &App{
		Config:       cfg,
		Resolver:     resolver,
		Builder:      builder,
		Orchestrator: orch,
		Limiter:      limiter,
		LLM:          client,
		Recorder:     recorder,
		Sessions:     conversation.NewStore(client, orch, recorder, cfg.SessionTTL),
	}, nil
}

func newRecorder(cfg *config.Config) (txlog.Recorder, error) {
	opts := txlog.Options{
		MaxEntries:      cfg.TxLog.MaxEntries,
		MaxContentBytes: cfg.TxLog.MaxContentBytes,
	}

	if !cfg.Redis.Enabled {
		log.Printf("Transaction log kept in memory (max %d entries per kind)", opts.MaxEntries)
		return txlog.NewMemoryLog(opts), nil
	}

	redisLog, err := txlog.NewRedisLog(txlog.RedisConfig{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.Addr(), err)
	}
	log.Printf("Transaction log stored in Redis (%s)", cfg.Redis.Addr())
	return redisLog, nil
}

func (a *App) Close() error {
	return a.Recorder.Close()
}
