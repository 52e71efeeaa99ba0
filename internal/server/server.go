package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/agentic-grocery/backend/config"
	"github.com/pageza/agentic-grocery/backend/internal/api"
	"github.com/pageza/agentic-grocery/backend/internal/service"
)

// Server wraps the gin router and the underlying http.Server.
type Server struct {
	router *gin.Engine
	http   *http.Server
	cfg    *config.Config
}

// New builds the service graph and wires all routes.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	router := gin.Default()

	catalogClient := service.NewCatalogClient(cfg.CatalogClientID, cfg.CatalogClientSecret, cfg.CatalogAPIBase)
	llmClient := service.NewLLMClient(cfg.LLMAPIKey, cfg.LLMAPIURL, cfg.LLMModel)

	svcs := api.Services{
		Auth:    service.NewAuthService(db, cfg.JWTSecret),
		Profile: service.NewProfileService(db),
		Chat:    service.NewChatService(),
		Recipe:  service.NewRecipeService(db, llmClient),
		Grocery: service.NewGroceryService(db, catalogClient, cfg.StoreName, cfg.StoreBaseURL),
		Meal:    service.NewMealService(db),
	}

	api.RegisterRoutes(router, svcs, redisClient)

	return &Server{
		router: router,
		cfg:    cfg,
		http: &http.Server{
			Addr:         cfg.ServerHost + ":" + cfg.ServerPort,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start blocks serving HTTP until the listener fails or the server is shut
// down.
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
