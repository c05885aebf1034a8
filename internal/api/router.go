package api

import (
	"MerchantWarriorGateway/internal/api/handlers"
	"MerchantWarriorGateway/pkg/health"
	"MerchantWarriorGateway/pkg/metrics"

	"github.com/gin-gonic/gin"
)

type Router struct {
	payment        *handlers.PaymentHandler
	transcript     *handlers.TranscriptHandler
	healthRegistry *health.Registry
}

func (r *Router) SetUp(engine *gin.Engine) {
	// Health checks (Kubernetes-style)
	engine.GET("/health/live", health.LivenessHandler())
	engine.GET("/health/ready", health.ReadinessHandler(r.healthRegistry, health.DefaultTimeout))

	// Prometheus metrics
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	engine.POST("/payments/authorize", r.payment.Authorize)
	engine.POST("/payments/purchase", r.payment.Purchase)
	engine.POST("/payments/:authorization/capture", r.payment.Capture)
	engine.POST("/payments/:authorization/refund", r.payment.Refund)
	engine.POST("/payments/:authorization/void", r.payment.Void)

	engine.POST("/cards", r.payment.Store)

	engine.POST("/transcripts/scrub", r.transcript.Scrub)
}

func NewRouter(
	payment *handlers.PaymentHandler,
	transcript *handlers.TranscriptHandler,
	healthRegistry *health.Registry,
) *Router {
	return &Router{
		payment:        payment,
		transcript:     transcript,
		healthRegistry: healthRegistry,
	}
}
