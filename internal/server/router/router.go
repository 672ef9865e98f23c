package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/biomax/dashboard/internal/server/handlers"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	// Metrics is mounted on /metrics when set.
	Metrics http.Handler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.SetHTMLTemplate(handlers.Templates())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	r.GET("/login", h.Auth.LoginPage)
	r.POST("/login", h.Auth.Login)
	r.POST("/logout", h.Auth.Logout)

	private := r.Group("/", h.Auth.RequireSession())
	private.GET("/", h.Dashboard.StockPage)
	private.GET("/billing", h.Dashboard.BillingPage)

	api := private.Group("/api")
	api.GET("/stock", h.Dashboard.StockJSON)
	api.GET("/billing", h.Dashboard.BillingJSON)
	api.GET("/stock/table.xlsx", h.Dashboard.StockExport("xlsx"))
	api.GET("/stock/table.pdf", h.Dashboard.StockExport("pdf"))
	api.GET("/billing/table.xlsx", h.Dashboard.BillingExport("xlsx"))
	api.GET("/billing/table.pdf", h.Dashboard.BillingExport("pdf"))
	api.POST("/snapshots/refresh", h.Dashboard.Refresh)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
