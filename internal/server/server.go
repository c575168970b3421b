package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jeanthielis/relatorio-retidos/internal/api"
	"github.com/jeanthielis/relatorio-retidos/internal/config"
	"github.com/jeanthielis/relatorio-retidos/internal/session"
	"github.com/jeanthielis/relatorio-retidos/internal/store"
)

// devFrontend address of the UI dev server
const devFrontend = "http://localhost:5173"

// Server HTTP server
type Server struct {
	router *gin.Engine
	api    *api.Handler
	log    *logrus.Entry
}

// NewServer creates the server around an existing session. st may be nil.
func NewServer(cfg *config.AppConfig, sess *session.Session, st *store.Store, log *logrus.Entry) *Server {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("component", "server")

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	s := &Server{
		router: router,
		api:    api.NewHandler(sess, st, cfg.Export.Filename, log),
		log:    log,
	}

	s.setupRoutes(devMode)

	return s
}

// setupRoutes registers the API and the fallback
func (s *Server) setupRoutes(devMode bool) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api")
	{
		s.api.RegisterRoutes(api)
	}

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if devMode {
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, devFrontend+c.Request.URL.Path)
		})
		return
	}
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "rota não encontrada"})
	})
}

// requestLogger one debug line per request
func requestLogger(log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		}).Debug("request")
	}
}

// Handler the router, for httptest and http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}
