package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"MerchantWarriorGateway/internal/domain/gateway"
	"MerchantWarriorGateway/internal/external/merchantwarrior"
	"MerchantWarriorGateway/pkg/logger"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	provider gateway.Provider
	logger   *slog.Logger
}

func NewPaymentHandler(p gateway.Provider, l *slog.Logger) *PaymentHandler {
	return &PaymentHandler{provider: p, logger: l}
}

func (h *PaymentHandler) Authorize(c *gin.Context) {
	money, method, opts, ok := h.bindPayment(c)
	if !ok {
		return
	}
	resp, err := h.provider.Authorize(c.Request.Context(), money, method, opts)
	h.respond(c, resp, err)
}

func (h *PaymentHandler) Purchase(c *gin.Context) {
	money, method, opts, ok := h.bindPayment(c)
	if !ok {
		return
	}
	resp, err := h.provider.Purchase(c.Request.Context(), money, method, opts)
	h.respond(c, resp, err)
}

func (h *PaymentHandler) Capture(c *gin.Context) {
	money, opts, ok := h.bindReference(c)
	if !ok {
		return
	}
	resp, err := h.provider.Capture(referenceContext(c), money, c.Param("authorization"), opts)
	h.respond(c, resp, err)
}

func (h *PaymentHandler) Refund(c *gin.Context) {
	money, opts, ok := h.bindReference(c)
	if !ok {
		return
	}
	resp, err := h.provider.Refund(referenceContext(c), money, c.Param("authorization"), opts)
	h.respond(c, resp, err)
}

func (h *PaymentHandler) Void(c *gin.Context) {
	var req VoidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	resp, err := h.provider.Void(referenceContext(c), c.Param("authorization"), gateway.Options{Amount: req.Amount})
	h.respond(c, resp, err)
}

func (h *PaymentHandler) Store(c *gin.Context) {
	var req StoreCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	resp, err := h.provider.Store(c.Request.Context(), req.Card.toDomain(), gateway.Options{})
	h.respond(c, resp, err)
}

// referenceContext tags downstream logs with the transaction being referenced.
func referenceContext(c *gin.Context) context.Context {
	return logger.WithAttrs(c.Request.Context(), slog.String("authorization", c.Param("authorization")))
}

func (h *PaymentHandler) bindPayment(c *gin.Context) (gateway.Money, gateway.PaymentMethod, gateway.Options, bool) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return gateway.Money{}, nil, gateway.Options{}, false
	}
	money, err := gateway.NewMoney(req.Amount, req.Currency)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return gateway.Money{}, nil, gateway.Options{}, false
	}
	method, err := req.paymentMethod()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return gateway.Money{}, nil, gateway.Options{}, false
	}
	return money, method, req.Options.toDomain(req.Currency), true
}

func (h *PaymentHandler) bindReference(c *gin.Context) (gateway.Money, gateway.Options, bool) {
	var req ReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return gateway.Money{}, gateway.Options{}, false
	}
	money, err := gateway.NewMoney(req.Amount, req.Currency)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return gateway.Money{}, gateway.Options{}, false
	}
	return money, req.Options.toDomain(req.Currency), true
}

// respond writes declines as 200: the gateway answered, the card did not pass.
func (h *PaymentHandler) respond(c *gin.Context, resp gateway.Response, err error) {
	if err == nil {
		c.JSON(http.StatusOK, resp)
		return
	}

	switch {
	case errors.Is(err, merchantwarrior.ErrMissingVoidAmount),
		errors.Is(err, merchantwarrior.ErrUnsupportedPaymentMethod),
		errors.Is(err, merchantwarrior.ErrIncompleteRequest):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		h.logger.ErrorContext(c.Request.Context(), "Gateway call failed", slog.Any("error", err))
		c.JSON(http.StatusBadGateway, gin.H{"message": "payment gateway unavailable"})
	}
}
