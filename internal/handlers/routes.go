package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"apigw-agent-bridge/internal/middleware"
)

// ServiceName is reported by the health endpoint
const ServiceName = "apigw-agent-bridge"

// Version is reported by the health endpoint
const Version = "1.0.0"

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	Shop *ShopHandler
}

// MiddlewareConfig holds configuration for global middleware
type MiddlewareConfig struct {
	Logger logrus.FieldLogger
	// Serverless skips the middleware API Gateway already provides
	Serverless      bool
	RateLimitRPS    float64
	RateLimitBurst  int
	MaxRequestBytes int64
}

// DevConfig holds the collaborators of the local-only routes
type DevConfig struct {
	Dispatcher  Dispatcher
	AuthService *middleware.AuthService
	Gatherer    prometheus.Gatherer
}

// SetupRoutes configures the application routes the dispatcher invokes
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	shop := config.Shop
	if shop == nil {
		shop = NewShopHandler(nil)
	}

	// Route on the escaped path so an encoded slash stays inside its segment.
	router.UseRawPath = true

	router.GET("/health", Health)

	router.POST("/talk", shop.Talk)
	router.POST("/purchase", shop.Purchase)
	router.POST("/sell", shop.Sell)
	router.POST("/posts", shop.Posts)
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, config *MiddlewareConfig) {
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(config.Logger))

	if !config.Serverless {
		router.Use(middleware.CORS())
		router.Use(middleware.SecurityHeaders())
		router.Use(middleware.RequestSizeLimit(config.MaxRequestBytes))
		if config.RateLimitRPS > 0 {
			router.Use(middleware.RateLimiter(config.RateLimitRPS, config.RateLimitBurst))
		}
	}

	router.Use(middleware.ErrorHandler(config.Logger))
}

// SetupDevelopmentRoutes adds the routes only the local server exposes
func SetupDevelopmentRoutes(router *gin.Engine, config *DevConfig) {
	RegisterDocs()
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/actions/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.InstanceName(ActionGroupDocName)))

	if config.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(config.Gatherer, promhttp.HandlerOpts{})))
	}

	invoke := NewInvokeHandler(config.Dispatcher)
	router.POST("/invoke",
		middleware.ContentTypeValidation("application/json"),
		middleware.Authentication(config.AuthService),
		invoke.Invoke,
	)

	if config.AuthService.Enabled() {
		dev := router.Group("/dev")
		{
			// Generate demo token for testing
			dev.POST("/token", func(c *gin.Context) {
				token, err := config.AuthService.GenerateToken("demo-user", []string{"invoke"})
				if err != nil {
					c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Token generation failed", Message: err.Error()})
					return
				}
				c.JSON(http.StatusOK, gin.H{"token": token})
			})
		}
	}
}

// Health reports service liveness
// @Summary Health check
// @Tags runtime
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": ServiceName,
		"version": Version,
	})
}
