package apiserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/MokokAf/amm-saas/pkg/apiserver/handlers"
	"github.com/MokokAf/amm-saas/pkg/apiserver/middleware"
	"github.com/MokokAf/amm-saas/pkg/auth"
	"github.com/MokokAf/amm-saas/pkg/config"
	"github.com/MokokAf/amm-saas/pkg/eventbus"
	"github.com/MokokAf/amm-saas/pkg/store/postgres"
	redisclient "github.com/MokokAf/amm-saas/pkg/store/redis"
)

type Server struct {
	router *gin.Engine
	db     *postgres.Store
	redis  *redisclient.Client
	tokens *auth.TokenManager
	cfg    *config.Config
	logger *zap.Logger
}

func NewServer(db *postgres.Store, redis *redisclient.Client, cfg *config.Config, logger *zap.Logger) *Server {
	s := &Server{
		db:     db,
		redis:  redis,
		tokens: auth.NewTokenManager([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL),
		cfg:    cfg,
		logger: logger,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		resp := gin.H{"status": "ok"}
		if s.redis != nil {
			if err := s.redis.Ping(c.Request.Context()); err != nil {
				resp["redis"] = "unavailable"
			} else {
				resp["redis"] = "ok"
			}
		}
		c.JSON(http.StatusOK, resp)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var bus *eventbus.Bus
	if s.redis != nil {
		bus = eventbus.NewBus(s.redis.Client())
	}

	var users *postgres.UserRepository
	if s.db != nil {
		users = postgres.NewUserRepository(s.db.DB())
	}

	audit := handlers.NewAuditRecorder(s.db, bus, s.logger)
	authHandler := handlers.NewAuthHandler(s.db, s.tokens, audit, s.logger)

	r.POST("/auth/jwt/login", authHandler.Login)
	r.POST("/auth/register", authHandler.Register)

	api := r.Group("/")
	{
		api.Use(middleware.Auth(s.tokens, users, s.logger))

		api.GET("/auth/users/me", authHandler.Me)
		api.PATCH("/auth/users/me", authHandler.UpdateMe)

		dossierHandler := handlers.NewDossierHandler(s.db, audit, s.logger)
		api.POST("/dossiers", dossierHandler.Create)
		api.GET("/dossiers", dossierHandler.List)
		api.GET("/dossiers/:id", dossierHandler.Get)
		api.PATCH("/dossiers/:id", dossierHandler.Update)
		api.DELETE("/dossiers/:id", dossierHandler.Delete)

		moduleHandler := handlers.NewModuleHandler(s.db, audit, s.logger)
		api.POST("/dossiers/:id/modules", moduleHandler.Create)
		api.GET("/dossiers/:id/modules", moduleHandler.List)
		api.PATCH("/modules/:id", moduleHandler.Update)
		api.DELETE("/modules/:id", moduleHandler.Delete)

		fileHandler := handlers.NewFileHandler(s.db, audit, s.logger)
		api.POST("/modules/:id/files", fileHandler.Create)
		api.GET("/modules/:id/files", fileHandler.ListByModule)
		api.POST("/files/:id/versions", fileHandler.AddVersion)
		api.GET("/files/:id/versions", fileHandler.ListVersions)

		roleHandler := handlers.NewRoleHandler(s.db, s.logger)
		api.GET("/roles", roleHandler.List)
		api.POST("/roles", roleHandler.Create)
		api.DELETE("/roles/:id", roleHandler.Delete)

		actionHandler := handlers.NewActionHandler(s.db, s.logger)
		api.GET("/actions", actionHandler.List)
	}

	s.router = r
}

func (s *Server) Router() *gin.Engine {
	return s.router
}
