// Package outcome announces the result of every gateway call to downstream
// consumers (reconciliation, reporting). Card data never leaves this package:
// events carry only the normalized response summary.
package outcome

import (
	"context"
	"log/slog"
	"time"

	"MerchantWarriorGateway/internal/domain/gateway"
	"MerchantWarriorGateway/pkg/correlation"

	"github.com/google/uuid"
)

//go:generate mockgen -source recorder.go -destination mock_recorder.go -package outcome

// Operation names used in events.
const (
	OperationAuthorize = "authorize"
	OperationPurchase  = "purchase"
	OperationCapture   = "capture"
	OperationRefund    = "refund"
	OperationVoid      = "void"
	OperationStore     = "store"
)

type Event struct {
	EventID       string    `json:"event_id"`
	Operation     string    `json:"operation"`
	Success       bool      `json:"success"`
	Message       string    `json:"message"`
	Authorization string    `json:"authorization,omitempty"`
	ResponseCode  string    `json:"response_code,omitempty"`
	Test          bool      `json:"test"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Sink interface {
	Publish(ctx context.Context, e Event) error
}

// Recorder wraps a provider and publishes one Event per answered call. Calls
// that fail before the gateway answers produce no event. A failed publish is
// logged and does not change the result returned to the caller.
type Recorder struct {
	next   gateway.Provider
	sink   Sink
	logger *slog.Logger
	now    func() time.Time
}

var _ gateway.Provider = (*Recorder)(nil)

func NewRecorder(next gateway.Provider, sink Sink, l *slog.Logger) *Recorder {
	return &Recorder{next: next, sink: sink, logger: l, now: time.Now}
}

func (r *Recorder) Authorize(ctx context.Context, money gateway.Money, method gateway.PaymentMethod, opts gateway.Options) (gateway.Response, error) {
	resp, err := r.next.Authorize(ctx, money, method, opts)
	return r.record(ctx, OperationAuthorize, resp, err)
}

func (r *Recorder) Purchase(ctx context.Context, money gateway.Money, method gateway.PaymentMethod, opts gateway.Options) (gateway.Response, error) {
	resp, err := r.next.Purchase(ctx, money, method, opts)
	return r.record(ctx, OperationPurchase, resp, err)
}

func (r *Recorder) Capture(ctx context.Context, money gateway.Money, authorization string, opts gateway.Options) (gateway.Response, error) {
	resp, err := r.next.Capture(ctx, money, authorization, opts)
	return r.record(ctx, OperationCapture, resp, err)
}

func (r *Recorder) Refund(ctx context.Context, money gateway.Money, authorization string, opts gateway.Options) (gateway.Response, error) {
	resp, err := r.next.Refund(ctx, money, authorization, opts)
	return r.record(ctx, OperationRefund, resp, err)
}

func (r *Recorder) Void(ctx context.Context, authorization string, opts gateway.Options) (gateway.Response, error) {
	resp, err := r.next.Void(ctx, authorization, opts)
	return r.record(ctx, OperationVoid, resp, err)
}

func (r *Recorder) Store(ctx context.Context, card gateway.CardDetails, opts gateway.Options) (gateway.Response, error) {
	resp, err := r.next.Store(ctx, card, opts)
	return r.record(ctx, OperationStore, resp, err)
}

func (r *Recorder) record(ctx context.Context, operation string, resp gateway.Response, err error) (gateway.Response, error) {
	if err != nil {
		return resp, err
	}

	e := Event{
		EventID:       uuid.NewString(),
		Operation:     operation,
		Success:       resp.Success,
		Message:       resp.Message,
		Authorization: resp.Authorization,
		ResponseCode:  resp.Params["response_code"],
		Test:          resp.Test,
		CorrelationID: correlation.FromContext(ctx),
		OccurredAt:    r.now().UTC(),
	}
	if pubErr := r.sink.Publish(ctx, e); pubErr != nil {
		r.logger.WarnContext(ctx, "Failed to publish payment outcome",
			slog.String("operation", operation),
			slog.String("event_id", e.EventID),
			slog.Any("error", pubErr),
		)
	}
	return resp, nil
}
