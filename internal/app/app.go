package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/lmarques/graphql-user-api/internal/adapter/database"
	gqlapi "github.com/lmarques/graphql-user-api/internal/adapter/graphql"
	httpadapter "github.com/lmarques/graphql-user-api/internal/adapter/http"
	"github.com/lmarques/graphql-user-api/internal/app/user"
	"github.com/lmarques/graphql-user-api/internal/infra/metrics"
	"github.com/lmarques/graphql-user-api/internal/infra/middleware"
	"github.com/lmarques/graphql-user-api/pkg/config"
	"github.com/lmarques/graphql-user-api/pkg/security"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// App concentra as dependências da aplicação, construídas uma única vez
// na inicialização e passadas explicitamente adiante.
type App struct {
	Logger     *zap.Logger
	Config     *config.Config
	DB         *database.Database
	Service    *user.Service
	Handler    *gqlapi.Handler
	Health     *httpadapter.HealthChecker
	Middleware *middleware.Middleware
	Metrics    *metrics.APIMetrics
}

// NewApp cria uma nova instância da aplicação com todas as dependências injetadas
func NewApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	dbConfig := database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        logger.Warn,
		SlowThreshold:   cfg.Database.SlowThreshold,
	}

	db, err := database.NewDatabase(ctx, dbConfig, log)
	if err != nil {
		return nil, err
	}

	apiMetrics := metrics.NewAPIMetrics()

	userRepo := database.NewUserRepository(db.DB(), log)

	keyManager, err := security.NewKeyManager(
		[]byte(cfg.Auth.JWTSecret),
		cfg.Auth.TokenDuration,
		cfg.Auth.ExtendedDuration,
		log,
	)
	if err != nil {
		return nil, err
	}

	userService := user.NewService(userRepo, keyManager, log)

	schema, err := gqlapi.NewSchema(userService, apiMetrics, log)
	if err != nil {
		return nil, fmt.Errorf("falha ao construir schema GraphQL: %w", err)
	}

	return &App{
		Logger:     log,
		Config:     cfg,
		DB:         db,
		Service:    userService,
		Handler:    gqlapi.NewHandler(schema, log),
		Health:     httpadapter.NewHealthChecker(db, log),
		Middleware: middleware.NewMiddleware(log, apiMetrics),
		Metrics:    apiMetrics,
	}, nil
}

// RegisterRoutes registra todas as rotas no router
func (a *App) RegisterRoutes(router *gin.Engine) {
	router.Use(a.Middleware.Recovery())
	router.Use(a.Middleware.Logger())
	router.Use(a.Middleware.Metrics())
	router.Use(a.Middleware.ExtractBearer())

	// Endpoint único da API; a raiz é mantida por compatibilidade com
	// clientes do servidor original
	router.POST("/graphql", a.Handler.Serve)
	router.POST("/", a.Handler.Serve)

	router.GET("/health", a.Health.LivenessCheck)
	router.GET("/health/liveness", a.Health.LivenessCheck)
	router.GET("/health/readiness", a.Health.ReadinessCheck)

	if a.Config.Metrics.Enabled {
		router.GET(a.Config.Metrics.PrometheusPath, gin.WrapH(promhttp.Handler()))
		a.Logger.Info("endpoint de métricas Prometheus registrado",
			zap.String("path", a.Config.Metrics.PrometheusPath))
	}
}
