// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripmap/internal/http/handlers"
	"tripmap/internal/http/middleware"
	"tripmap/internal/modules/dataset"
	"tripmap/internal/session"
)

type RouterDeps struct {
	Sessions *session.Manager
	Static   *dataset.StaticProvider
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logging())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": deps.Sessions.Len()})
	})

	api := r.Group("/api")

	plans := handlers.NewPlanHandler(deps.Static)
	api.GET("/datasets", plans.ListStatic)

	sessions := handlers.NewSessionHandler(deps.Sessions)
	api.POST("/sessions", sessions.Create)

	one := api.Group("/sessions/:id", middleware.LoadSession(deps.Sessions))
	one.GET("", sessions.Get)
	one.DELETE("", sessions.Delete)
	one.POST("/events", sessions.Dispatch)
	one.POST("/dataset/static", sessions.LoadStatic)
	one.POST("/plan", plans.Generate)
	one.POST("/geolocation", sessions.Geolocation)
	one.GET("/nearby", sessions.Nearby)
	one.GET("/map", sessions.Map)
	one.GET("/entities/:entityID", sessions.Detail)

	return r
}
