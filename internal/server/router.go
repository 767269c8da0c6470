package server

import (
	"evm-bridge/internal/handler"
	"evm-bridge/internal/handler/response"

	"evm-bridge/pkg/monitor"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewHTTPRouter builds the gin engine with all bridge routes registered.
func NewHTTPRouter(bridgeHandler *handler.BridgeHandler) *gin.Engine {
	// metrics first so the middleware has registered collectors
	monitor.Init()

	r := gin.Default()

	r.Use(RequestID())
	r.Use(monitor.PrometheusMiddleware())

	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		api.GET("/ping", func(c *gin.Context) {
			response.Success(c, gin.H{"pong": true})
		})

		currency := api.Group("/:currency")
		{
			currency.POST("/transactions", bridgeHandler.CreateTransaction)
			currency.POST("/transactions/prepare", bridgeHandler.PrepareTransaction)
			currency.POST("/transactions/status", bridgeHandler.TransactionStatus)
			currency.POST("/transactions/broadcast", bridgeHandler.Broadcast)
			currency.GET("/accounts/:address", bridgeHandler.ScanAccount)
			currency.GET("/accounts/:address/operations", bridgeHandler.Operations)
		}
	}

	return r
}
