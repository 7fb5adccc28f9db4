package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/stockflow-ops/stockflow-backend-go/internal/api/handlers"
	"github.com/stockflow-ops/stockflow-backend-go/internal/api/middleware"
	"github.com/stockflow-ops/stockflow-backend-go/internal/config"
	"github.com/stockflow-ops/stockflow-backend-go/internal/core/alerting"
	"github.com/stockflow-ops/stockflow-backend-go/internal/core/health"
	"github.com/stockflow-ops/stockflow-backend-go/internal/core/metrics"
	"github.com/stockflow-ops/stockflow-backend-go/internal/database"
	"github.com/stockflow-ops/stockflow-backend-go/internal/websocket"
)

// Dependencies carries everything the router wires into handlers
type Dependencies struct {
	Config    *config.Config
	Engine    *alerting.Engine
	Runner    *health.Runner
	Collector metrics.Collector
	Tracker   *metrics.RequestTracker
	Hub       *websocket.Hub
	AuditLog  *database.NotificationLogRepository
	Logger    *logrus.Logger
}

// NewRouter builds the HTTP router with middleware and all routes
func NewRouter(deps Dependencies) *gin.Engine {
	gin.SetMode(deps.Config.Server.Mode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logging(deps.Logger))
	router.Use(middleware.Metrics(deps.Collector, deps.Tracker))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	if deps.Config.Monitoring.Prometheus.Enabled {
		router.GET(deps.Config.Monitoring.Prometheus.Path, gin.WrapH(promhttp.Handler()))
	}

	handlers.NewHealthHandler(deps.Runner).RegisterRoutes(router)

	v1 := router.Group("/api/v1")
	handlers.NewAlertHandler(deps.Engine, deps.Hub, deps.Logger).RegisterRoutes(v1)
	if deps.AuditLog != nil {
		handlers.NewNotificationHandler(deps.AuditLog).RegisterRoutes(v1)
	}

	if deps.Hub != nil {
		router.GET("/ws", websocket.HandleWebSocketGin(deps.Hub))
		router.GET("/ws/stats", func(c *gin.Context) {
			c.JSON(http.StatusOK, deps.Hub.Stats())
		})
	}

	return router
}
