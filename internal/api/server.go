package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"sawari/internal/auth"
	"sawari/internal/cache"
	"sawari/internal/config"
	"sawari/internal/database"
	"sawari/internal/handlers"
	"sawari/internal/messaging"
	"sawari/internal/metrics"
	"sawari/internal/middleware"
	"sawari/internal/repository"
	"sawari/internal/search"
	"sawari/internal/service"

	"github.com/gin-gonic/gin"
)

// Server wires the API process: store, broker, cache, search index and
// the HTTP surface. Optional collaborators (NATS, Valkey,
// Elasticsearch) degrade to nil and the engines run without them.
type Server struct {
	config       *config.Config
	db           *database.DB
	natsClient   *messaging.NATSClient
	valkeyClient *cache.ValkeyClient
	esClient     *search.ElasticsearchClient
	httpServer   *http.Server
}

func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	adminHash, adminSalt, err := auth.HashPassword("admin123")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to hash default admin password: %w", err)
	}
	if err := db.SeedSampleData(adminHash, adminSalt); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed sample data: %w", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	var valkeyClient *cache.ValkeyClient
	if cfg.Cache.Enabled {
		valkeyClient, err = cache.NewValkeyClient(cfg.Cache)
		if err != nil {
			slog.Warn("Valkey unavailable, running without cache", "error", err)
			valkeyClient = nil
		}
	}

	var esClient *search.ElasticsearchClient
	if cfg.Elasticsearch.Enabled {
		esClient, err = search.NewElasticsearchClient(cfg.Elasticsearch)
		if err != nil {
			slog.Warn("Elasticsearch unavailable, search falls back to SQL", "error", err)
			esClient = nil
		}
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, natsClient, esClient, valkeyClient)
	h := handlers.New(services)

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(
		middleware.Recovery(),
		middleware.CORS(),
		middleware.RequestID(),
		middleware.Logger(),
		metrics.Middleware(),
	)

	registerRoutes(router, h, db, repos, valkeyClient)

	server := &Server{
		config:       cfg,
		db:           db,
		natsClient:   natsClient,
		valkeyClient: valkeyClient,
		esClient:     esClient,
		httpServer: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  cfg.RequestTimeout,
			WriteTimeout: cfg.RequestTimeout,
		},
	}
	return server, nil
}

func registerRoutes(router *gin.Engine, h *handlers.Handlers, db *database.DB, repos *repository.Repositories, valkeyClient *cache.ValkeyClient) {
	router.GET("/health", func(c *gin.Context) {
		health := db.HealthCheck(c.Request.Context())
		status := http.StatusOK
		if health.Status != "healthy" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, health)
	})
	router.GET("/metrics", metrics.Handler())

	api := router.Group("/api")
	api.Use(middleware.BasicAuth(repos.Users, valkeyClient))
	{
		api.POST("/tickets", h.CreateTicket)
		api.GET("/tickets", h.ListTickets)
		api.PATCH("/tickets/cancel", h.CancelTicket)

		api.GET("/buses", h.ListBuses)
		api.GET("/buses/search", h.SearchBuses)
		api.GET("/buses/:id", h.GetBus)
		api.GET("/buses/:id/availability", h.GetAvailability)
		api.GET("/buses/:id/seatmap", h.GetSeatMap)

		api.GET("/wallet", h.GetWallet)
		api.POST("/wallet/funds", h.AddFunds)

		admin := api.Group("/admin")
		admin.Use(middleware.AdminOnly())
		{
			admin.POST("/buses", h.AddBus)
			admin.PATCH("/buses/:id", h.UpdateBus)
			admin.DELETE("/buses/:id", h.DeleteBus)
			admin.GET("/tickets", h.ListAllTickets)
			admin.GET("/users", h.ListUsers)
			admin.GET("/stats", h.GetStats)
		}
	}
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	slog.Info("Starting HTTP server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and closes every collaborator.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP shutdown error: %w", err)
	}

	if s.valkeyClient != nil {
		if err := s.valkeyClient.Close(); err != nil {
			slog.Error("Failed to close Valkey connection", "error", err)
		}
	}
	if err := s.natsClient.Close(); err != nil {
		slog.Error("Failed to close NATS connection", "error", err)
	}
	if err := s.db.Close(); err != nil {
		slog.Error("Failed to close database connection", "error", err)
	}

	slog.Info("Server stopped")
	return nil
}
