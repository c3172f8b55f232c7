package ui

import (
	"net/http"

	"fleetops/app"
	"fleetops/internal"
	"fleetops/internal/api"
	"fleetops/internal/config"
	"fleetops/internal/session"
	"fleetops/ports"

	"github.com/gin-gonic/gin"
)

// Dependencies are the collaborators the HTTP server routes to
type Dependencies struct {
	Imports  *app.ImportService
	Sessions *session.ImportStore
	Hub      *api.SSEHub
	Tasks    ports.TaskRepository
	Config   config.ImportConfig
	Logger   *internal.Logger
}

// Server serves the first-mile import API
type Server struct {
	router   *gin.Engine
	imports  *app.ImportService
	sessions *session.ImportStore
	hub      *api.SSEHub
	tasks    ports.TaskRepository
	config   config.ImportConfig
	logger   *internal.Logger
}

// NewServer creates a server and registers its routes
func NewServer(deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}

	s := &Server{
		router:   gin.New(),
		imports:  deps.Imports,
		sessions: deps.Sessions,
		hub:      deps.Hub,
		tasks:    deps.Tasks,
		config:   deps.Config,
		logger:   logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	firstMile := s.router.Group("/api/first-mile")
	{
		firstMile.GET("/template", s.handleTemplate)
		firstMile.GET("/destinations", s.handleDestinations)

		firstMile.POST("/imports", s.handleUpload)
		firstMile.GET("/imports/events", s.hub.HandleSSE)
		firstMile.POST("/imports/:id/commit", s.handleCommit)

		firstMile.GET("/tasks", s.handleListTasks)
	}
}

// Handler returns the HTTP handler for use with an http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
