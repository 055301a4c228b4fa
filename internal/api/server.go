// Package api exposes session engines over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abhisek/prepdeck/internal/advice"
	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/leaderboard"
	"github.com/abhisek/prepdeck/internal/logger"
	"github.com/abhisek/prepdeck/internal/sampler"
	"github.com/abhisek/prepdeck/internal/session"
	"github.com/abhisek/prepdeck/internal/store"
)

// UserHeader carries the caller's identity, set by the upstream gateway.
const UserHeader = "X-User-ID"

// Deps wires a Server.
type Deps struct {
	Sampler      *sampler.Sampler
	Results      store.ResultRepo
	Entitlements catalog.Entitlements
	Analyzer     advice.Analyzer
	Reference    []leaderboard.Entry
	Registry     *Registry

	// Listener receives events from every engine; nil disables.
	Listener session.Listener

	PerItemSeconds int
	TickInterval   time.Duration
	AllowOrigins   []string
	Clock          session.Clock
	Logger         *logger.Logger
}

// Server handles the session HTTP API.
type Server struct {
	deps Deps
	log  *logger.Logger
}

// NewServer creates a Server. A nil Registry gets a fresh one.
func NewServer(deps Deps) *Server {
	if deps.Registry == nil {
		deps.Registry = NewRegistry(nil)
	}
	if deps.Entitlements == nil {
		deps.Entitlements = catalog.StaticEntitlements{}
	}
	if deps.Clock == nil {
		deps.Clock = session.SystemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Analyzer.Multiplier <= 0 {
		deps.Analyzer = advice.New(0)
	}
	if deps.Reference == nil {
		deps.Reference = leaderboard.DefaultReference()
	}
	return &Server{deps: deps, log: deps.Logger.With("component", "api")}
}

// Registry returns the live session registry.
func (s *Server) Registry() *Registry {
	return s.deps.Registry
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	origins := s.deps.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsCfg := cors.DefaultConfig()
	if len(origins) == 1 && origins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, UserHeader)
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.deps.Registry.Len()})
	})
	r.GET("/api/modules", s.listModules)

	api := r.Group("/api", s.requireUser())
	{
		api.POST("/sessions", s.createSession)
		api.GET("/sessions/:id", s.getSession)
		api.POST("/sessions/:id/start", s.startSession)
		api.POST("/sessions/:id/answer", s.answer)
		api.POST("/sessions/:id/next", s.next)
		api.POST("/sessions/:id/resume", s.resume)
		api.POST("/sessions/:id/exit", s.exit)

		api.GET("/results", s.listResults)
		api.GET("/advice", s.getAdvice)
		api.GET("/leaderboard", s.getLeaderboard)
	}
	return r
}

func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(UserHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User ID is required"})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}
