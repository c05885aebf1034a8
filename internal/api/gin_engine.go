package api

import (
	"log/slog"

	"MerchantWarriorGateway/pkg/logger"
	"MerchantWarriorGateway/pkg/metrics"

	"github.com/gin-gonic/gin"
)

func NewGinEngine(l *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(logger.CorrelationMiddleware(), metrics.GinMiddleware(), logger.RequestLogger(l), gin.Recovery())
	return engine
}
