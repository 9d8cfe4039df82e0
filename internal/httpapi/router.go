package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/campusforge/gradplan/pkg/cache"
	"github.com/campusforge/gradplan/pkg/config"
	"github.com/campusforge/gradplan/pkg/logger"
	"github.com/campusforge/gradplan/pkg/middleware/cors"
	"github.com/campusforge/gradplan/pkg/middleware/requestid"
)

// NewRouter builds the gin.Engine exposing the planner, verification,
// timetable, and transcript endpoints.
func NewRouter(registry CatalogRegistry, log *zap.Logger, cfg *config.Config, metrics *Metrics, solveCache *cache.SolveCache) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(cors.New(cfg.CORS.AllowedOrigins))

	h := NewHandler(registry, log, cfg, metrics, solveCache)

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/planner-generate", h.PlannerGenerate)
	r.POST("/graduation-verification", h.GraduationVerification)
	r.POST("/time-table", h.TimeTable)
	r.POST("/all-time-tables", h.AllTimeTables)
	r.POST("/process-pdf", h.ProcessPDF)

	return r
}
