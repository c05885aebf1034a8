package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"MerchantWarriorGateway/internal/domain/gateway"
	"MerchantWarriorGateway/internal/external/merchantwarrior"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestEngine(p gateway.Provider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPaymentHandler(p, slog.New(slog.NewTextHandler(io.Discard, nil)))
	engine := gin.New()
	engine.POST("/payments/authorize", h.Authorize)
	engine.POST("/payments/purchase", h.Purchase)
	engine.POST("/payments/:authorization/capture", h.Capture)
	engine.POST("/payments/:authorization/refund", h.Refund)
	engine.POST("/payments/:authorization/void", h.Void)
	engine.POST("/cards", h.Store)
	engine.POST("/transcripts/scrub", NewTranscriptHandler().Scrub)
	return engine
}

func do(engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	return w
}

func TestPaymentHandler_Purchase(t *testing.T) {
	t.Run("card purchase", func(t *testing.T) {
		provider := gateway.NewMockProvider(gomock.NewController(t))
		provider.EXPECT().Purchase(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, money gateway.Money, method gateway.PaymentMethod, opts gateway.Options) (gateway.Response, error) {
				assert.Equal(t, "10.00", money.Format())
				assert.Equal(t, "AUD", money.Currency)
				assert.Equal(t, gateway.CardDetails{
					Number:            "5123456789012346",
					Name:              "Longbob Longsen",
					Month:             5,
					Year:              2031,
					VerificationValue: "123",
				}, method)
				assert.Equal(t, "order-1", opts.OrderID)
				assert.Equal(t, "AUD", opts.Currency)
				require.NotNil(t, opts.RecurringFlag)
				assert.True(t, *opts.RecurringFlag)
				require.NotNil(t, opts.Address)
				assert.Equal(t, "Melbourne", opts.Address.City)
				return gateway.Response{Success: true, Message: "Transaction approved", Authorization: "T1", Test: true}, nil
			})

		w := do(newTestEngine(provider), "/payments/purchase", `{
			"amount": "10.00",
			"currency": "AUD",
			"card": {"number": "5123456789012346", "name": "Longbob Longsen", "month": 5, "year": 2031, "verification_value": "123"},
			"options": {"order_id": "order-1", "recurring_flag": true, "address": {"city": "Melbourne"}}
		}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"message":"Transaction approved","params":null,"test":true,"authorization":"T1"}`, w.Body.String())
	})

	t.Run("stored card purchase", func(t *testing.T) {
		provider := gateway.NewMockProvider(gomock.NewController(t))
		provider.EXPECT().Purchase(gomock.Any(), gomock.Any(), gateway.StoredCardToken{ID: "KOCI10023982"}, gomock.Any()).
			Return(gateway.Response{Success: true}, nil)

		w := do(newTestEngine(provider), "/payments/purchase", `{"amount": "1.00", "card_id": "KOCI10023982"}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("decline is still 200", func(t *testing.T) {
		provider := gateway.NewMockProvider(gomock.NewController(t))
		provider.EXPECT().Purchase(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(gateway.Response{Success: false, Message: "Card has expired"}, nil)

		w := do(newTestEngine(provider), "/payments/purchase", `{"amount": "1.00", "card_id": "C1"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	badRequests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"amount":`},
		{"missing amount", `{"card_id": "C1"}`},
		{"invalid amount", `{"amount": "ten", "card_id": "C1"}`},
		{"no payment method", `{"amount": "1.00"}`},
		{"both payment methods", `{"amount": "1.00", "card_id": "C1", "card": {"number": "4111", "name": "A", "month": 1, "year": 2030}}`},
		{"invalid card month", `{"amount": "1.00", "card": {"number": "4111", "name": "A", "month": 13, "year": 2030}}`},
	}
	for _, tc := range badRequests {
		t.Run(tc.name, func(t *testing.T) {
			provider := gateway.NewMockProvider(gomock.NewController(t))

			w := do(newTestEngine(provider), "/payments/purchase", tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestPaymentHandler_Authorize(t *testing.T) {
	provider := gateway.NewMockProvider(gomock.NewController(t))
	provider.EXPECT().Authorize(gomock.Any(), gomock.Any(), gateway.StoredCardToken{ID: "C1"}, gomock.Any()).
		Return(gateway.Response{Success: true, Authorization: "T9"}, nil)

	w := do(newTestEngine(provider), "/payments/authorize", `{"amount": "5.00", "card_id": "C1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authorization":"T9"`)
}

func TestPaymentHandler_CaptureRefund(t *testing.T) {
	provider := gateway.NewMockProvider(gomock.NewController(t))
	provider.EXPECT().Capture(gomock.Any(), gomock.Any(), "T1", gomock.Any()).
		DoAndReturn(func(_ context.Context, money gateway.Money, _ string, opts gateway.Options) (gateway.Response, error) {
			assert.Equal(t, "10.00", money.Format())
			assert.Equal(t, "NZD", opts.Currency)
			return gateway.Response{Success: true}, nil
		})
	provider.EXPECT().Refund(gomock.Any(), gomock.Any(), "T1", gomock.Any()).
		Return(gateway.Response{Success: true}, nil)
	engine := newTestEngine(provider)

	w := do(engine, "/payments/T1/capture", `{"amount": "10", "currency": "NZD"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(engine, "/payments/T1/refund", `{"amount": "10.00"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPaymentHandler_Void(t *testing.T) {
	t.Run("passes the amount through", func(t *testing.T) {
		provider := gateway.NewMockProvider(gomock.NewController(t))
		provider.EXPECT().Void(gomock.Any(), "T123", gateway.Options{Amount: "10.00"}).
			Return(gateway.Response{Success: true}, nil)

		w := do(newTestEngine(provider), "/payments/T123/void", `{"amount": "10.00"}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing amount is a bad request", func(t *testing.T) {
		provider := gateway.NewMockProvider(gomock.NewController(t))
		provider.EXPECT().Void(gomock.Any(), "T123", gateway.Options{}).
			Return(gateway.Response{}, fmt.Errorf("%s: %w", merchantwarrior.MethodVoid, merchantwarrior.ErrMissingVoidAmount))

		w := do(newTestEngine(provider), "/payments/T123/void", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPaymentHandler_Store(t *testing.T) {
	provider := gateway.NewMockProvider(gomock.NewController(t))
	provider.EXPECT().Store(gomock.Any(), gateway.CardDetails{Number: "4111", Name: "A B", Month: 1, Year: 2030}, gateway.Options{}).
		Return(gateway.Response{Success: true, Authorization: "KOCI10023982"}, nil)

	w := do(newTestEngine(provider), "/cards", `{"card": {"number": "4111", "name": "A B", "month": 1, "year": 2030}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authorization":"KOCI10023982"`)
}

func TestPaymentHandler_GatewayFailure(t *testing.T) {
	testCases := []struct {
		name string
		err  error
	}{
		{"unexpected status", fmt.Errorf("processCapture: %w: 500 Internal Server Error", merchantwarrior.ErrUnexpectedStatus)},
		{"network", fmt.Errorf("processCapture: http: %w", errors.New("connection refused"))},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			provider := gateway.NewMockProvider(gomock.NewController(t))
			provider.EXPECT().Capture(gomock.Any(), gomock.Any(), "T1", gomock.Any()).Return(gateway.Response{}, tc.err)

			w := do(newTestEngine(provider), "/payments/T1/capture", `{"amount": "1.00"}`)

			assert.Equal(t, http.StatusBadGateway, w.Code)
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}

func TestTranscriptHandler_Scrub(t *testing.T) {
	engine := newTestEngine(gateway.NewMockProvider(gomock.NewController(t)))

	w := do(engine, "/transcripts/scrub", "method=processCard&apiKey=abc&paymentCardNumber=5123456789012346&paymentCardCSC=123")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "method=processCard&apiKey=[FILTERED]&paymentCardNumber=[FILTERED]&paymentCardCSC=[FILTERED]", w.Body.String())
}
