// Command gradplan-api runs the planner, diagnosis, and timetable
// solvers behind gin, backed by a course catalog loaded once at
// process start.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/campusforge/gradplan/internal/catalogload"
	"github.com/campusforge/gradplan/internal/httpapi"
	"github.com/campusforge/gradplan/pkg/cache"
	"github.com/campusforge/gradplan/pkg/config"
	"github.com/campusforge/gradplan/pkg/logger"
)

// knownCourseMaps is the set of course_map names this process seeds at
// startup. The upstream catalog scraper is the
// source of truth for which programs exist; this process only needs to
// know their names so it can build the registry once.
var knownCourseMaps = []string{"computer-science"}

// cacheTTL bounds how long a cached solve result is reused before the
// next identical request re-solves. Catalogs are immutable for the
// process lifetime, so this only protects against staleness across
// deploys, not within one.
const cacheTTL = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()

	var pool *pgxpool.Pool
	if cfg.Database.URL != "" {
		pool, err = pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			logr.Sugar().Warnw("postgres unavailable, falling back to embedded fixtures", "error", err)
			pool = nil
		} else {
			defer pool.Close()
		}
	}

	registry, err := catalogload.NewRegistry(ctx, pool, knownCourseMaps)
	if err != nil {
		logr.Sugar().Fatalw("failed to load catalog registry", "error", err)
	}

	solveCache, err := cache.New(cfg.Redis, cacheTTL)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, solve cache disabled", "error", err)
		solveCache = &cache.SolveCache{}
	}
	defer solveCache.Close() //nolint:errcheck

	metrics := httpapi.NewMetrics(prometheus.DefaultRegisterer)
	router := httpapi.NewRouter(registry, logr, cfg, metrics, solveCache)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("gradplan-api listening", "addr", addr, "env", cfg.Env)
	if err := http.ListenAndServe(addr, router); err != nil {
		logr.Sugar().Fatalw("server exited", "error", err)
	}
}
