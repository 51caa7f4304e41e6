package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hange-backend/internal/shared/config"
	"hange-backend/internal/shared/metrics"
	"hange-backend/internal/shared/server/middleware"
	"hange-backend/internal/shared/server/respond"
)

const analyzeRateGroup = "ANALYZE"

// RouteRegistrar attaches handler routes to an API group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries everything the router needs wired in.
type RouterDeps struct {
	Config   config.Config
	Logger   *zap.Logger
	Handlers []RouteRegistrar
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(deps.Logger),
		middleware.Recovery(deps.Logger),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/v1")
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			analyzeRateGroup: {
				Rate:  deps.Config.AnalyzeRateLimit,
				Burst: deps.Config.AnalyzeRateBurst,
			},
		},
		GroupFor: analyzeGroup,
	}))
	for _, h := range deps.Handlers {
		h.RegisterRoutes(api)
	}

	return r
}

// analyzeGroup singles out the analyze route: cache misses there call the
// paid LLM backend, everything else is cheap reads.
func analyzeGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && c.FullPath() == "/v1/documents/analyze" {
		return analyzeRateGroup
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
