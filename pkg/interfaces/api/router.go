package api

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vsinha/ordercalc/pkg/domain/repositories"
)

// RouterConfig wires the HTTP surface
type RouterConfig struct {
	Calculator Calculator
	// Health is pinged by /health/ready; nil means always ready
	Health    repositories.HealthChecker
	Logger    *zap.Logger
	Version   string
	BuildTime string
}

// NewRouter builds the gin engine with middleware and all routes
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(Logger(cfg.Logger))
	// promhttp compresses /metrics itself
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/health/ready", func(c *gin.Context) {
		if cfg.Health != nil {
			if err := cfg.Health.Ping(c.Request.Context()); err != nil {
				cfg.Logger.Warn("readiness check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    cfg.Version,
			"build_time": cfg.BuildTime,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler := NewCalculatorHandler(cfg.Calculator, cfg.Logger)
	v1 := router.Group("/api/v1")
	{
		calc := v1.Group("/order-calculator")
		{
			calc.POST("/calculate", handler.Calculate)
		}
	}

	return router
}
