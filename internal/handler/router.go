package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"event-notifier/internal/handler/api"
	"event-notifier/internal/handler/middleware"
	"event-notifier/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

type Handlers struct {
	Reminders *api.ReminderHandler
	Events    *api.EventHandler
	Sweeps    *api.SweepHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, handlers Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, handlers, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(logger))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		events := apiGroup.Group("/events")
		addRoutes(events, []route{
			{Method: http.MethodPatch, Path: "/:id", Handler: h.Events.Update},
			{Method: http.MethodGet, Path: "/:id/updates", Handler: h.Events.ListUpdates},
			{Method: http.MethodPost, Path: "/:id/update-notifications", Handler: h.Events.NotifyOfUpdate},
			{Method: http.MethodPost, Path: "/:id/reminders", Handler: h.Reminders.Schedule},
		})

		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/sweeps", Handler: h.Sweeps.Run},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}
