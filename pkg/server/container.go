package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"apigw-agent-bridge/internal/config"
	"apigw-agent-bridge/internal/handlers"
	"apigw-agent-bridge/internal/middleware"
	"apigw-agent-bridge/internal/runtime"
	"apigw-agent-bridge/pkg/lambda"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logrus.Logger
	Registry    *prometheus.Registry
	Metrics     *runtime.Metrics
	Router      *gin.Engine
	Invoker     *lambda.HTTPInvoker
	Dispatcher  *runtime.Dispatcher
	AuthService *middleware.AuthService
}

// NewContainer wires the application router behind a dispatcher. The router
// only carries application routes; local-only routes are added by the caller.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	serverless := config.IsServerlessMode()
	if cfg.Environment == "production" || serverless {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := logrus.New()
	config.ConfigureLogging(logger, cfg.Log)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := runtime.NewMetrics(registry)

	router := gin.New()
	handlers.SetupMiddleware(router, &handlers.MiddlewareConfig{
		Logger:          logger,
		Serverless:      serverless,
		RateLimitRPS:    cfg.RateLimit.RPS,
		RateLimitBurst:  cfg.RateLimit.Burst,
		MaxRequestBytes: cfg.MaxRequestBytes,
	})
	handlers.SetupRoutes(router, &handlers.RouterConfig{Shop: handlers.NewShopHandler(nil)})

	invoker := lambda.NewHTTPInvoker(router)
	dispatcher := runtime.NewDispatcher(invoker, runtime.Config{
		Accepted:    cfg.Runtime.Accepted,
		ContentType: cfg.Runtime.ContentType,
		Logger:      logger,
		Metrics:     metrics,
	})

	authService := middleware.NewAuthService(&middleware.AuthConfig{
		JWTSecret: cfg.JWT.Secret,
		Issuer:    cfg.JWT.Issuer,
	})

	logger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"mode":        config.GetDeploymentMode(),
		"accepted":    cfg.Runtime.Accepted.String(),
		"auth":        authService.Enabled(),
	}).Info("Container initialized")

	return &Container{
		Config:      cfg,
		Logger:      logger,
		Registry:    registry,
		Metrics:     metrics,
		Router:      router,
		Invoker:     invoker,
		Dispatcher:  dispatcher,
		AuthService: authService,
	}, nil
}

// DevConfig returns the collaborators for handlers.SetupDevelopmentRoutes
func (c *Container) DevConfig() *handlers.DevConfig {
	return &handlers.DevConfig{
		Dispatcher:  c.Dispatcher,
		AuthService: c.AuthService,
		Gatherer:    c.Registry,
	}
}
