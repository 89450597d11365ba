package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ballotbox/voting-backend/internal/config"
	"github.com/ballotbox/voting-backend/internal/database"
	"github.com/ballotbox/voting-backend/internal/handlers"
	"github.com/ballotbox/voting-backend/internal/middleware"
	"github.com/ballotbox/voting-backend/internal/store"
	"github.com/ballotbox/voting-backend/internal/token"
)

type Server struct {
	db      *database.Database
	handler *handlers.Handler
	issuer  *token.Issuer
}

// New creates and configures a new server
func New(cfg *config.Config) (*http.Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.SeedCandidates {
		if err := db.SeedCandidates(); err != nil {
			return nil, err
		}
	}

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	s := newServer(db, issuer)

	return &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}, nil
}

func newServer(db *database.Database, issuer *token.Issuer) *Server {
	return &Server{
		db:      db,
		handler: handlers.NewHandler(store.New(db.DB), issuer),
		issuer:  issuer,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.Auth(s.issuer))
		{
			protected.GET("/me", s.handler.Auth.GetMe)
			protected.GET("/options", s.handler.Vote.GetOptions)
			protected.POST("/vote", s.handler.Vote.CastVote)
			protected.GET("/vote", s.handler.Vote.GetMyVote)
			protected.GET("/results", s.handler.Vote.GetResults)
		}
	}

	return r
}
