// Package merchantwarrior is a client for the Merchant Warrior card gateway.
//
// Each operation assembles the gateway's flat field vocabulary, signs it,
// posts it URL-encoded to either the token service or the direct-post service
// and flattens the XML answer into a gateway.Response. The client keeps no
// state between calls and never retries.
package merchantwarrior

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"MerchantWarriorGateway/internal/domain/gateway"
	"MerchantWarriorGateway/pkg/metrics"
)

// Gateway method names. They travel as the method field on the post service
// and as the path segment on the token service.
const (
	MethodAuthorize = "processAuth"
	MethodPurchase  = "processCard"
	MethodCapture   = "processCapture"
	MethodRefund    = "refundCard"
	MethodVoid      = "processVoid"
	MethodStore     = "addCard"
)

// DefaultTimeout bounds a single gateway round trip.
const DefaultTimeout = 30 * time.Second

var _ gateway.Provider = (*Client)(nil)

// Client talks to one merchant account. It is safe for concurrent use.
type Client struct {
	creds       gateway.Credentials
	endpoints   Endpoints
	http        *http.Client
	logger      *slog.Logger
	transcripts bool
}

// Option configures a Client in New.
type Option func(*Client)

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithEndpoints overrides the token and post base URLs. Empty fields keep the
// sandbox or live default.
func WithEndpoints(e Endpoints) Option {
	return func(c *Client) {
		if e.Token != "" {
			c.endpoints.Token = e.Token
		}
		if e.Post != "" {
			c.endpoints.Post = e.Post
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTranscriptLogging logs every scrubbed wire exchange at debug level.
func WithTranscriptLogging() Option {
	return func(c *Client) {
		c.transcripts = true
	}
}

// New validates the credentials and returns a client bound to them.
func New(creds gateway.Credentials, opts ...Option) (*Client, error) {
	switch {
	case creds.MerchantUUID == "":
		return nil, fmt.Errorf("%w: merchant UUID", ErrMissingCredential)
	case creds.APIKey == "":
		return nil, fmt.Errorf("%w: API key", ErrMissingCredential)
	case creds.APIPassphrase == "":
		return nil, fmt.Errorf("%w: API passphrase", ErrMissingCredential)
	}

	c := &Client{
		creds:     creds,
		endpoints: DefaultEndpoints(creds.Sandbox),
		http:      &http.Client{Timeout: DefaultTimeout},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.transcripts {
		hc := *c.http
		hc.Transport = newTranscriptTransport(hc.Transport, c.logger)
		c.http = &hc
	}

	return c, nil
}

// Test reports whether the client talks to the sandbox.
func (c *Client) Test() bool {
	return c.creds.Sandbox
}

func (c *Client) Authorize(ctx context.Context, money gateway.Money, method gateway.PaymentMethod, opts gateway.Options) (gateway.Response, error) {
	f, err := paymentFields(c.creds, money, method, opts)
	if err != nil {
		return c.reject(ctx, MethodAuthorize, err)
	}
	return c.commit(ctx, MethodAuthorize, f)
}

func (c *Client) Purchase(ctx context.Context, money gateway.Money, method gateway.PaymentMethod, opts gateway.Options) (gateway.Response, error) {
	f, err := paymentFields(c.creds, money, method, opts)
	if err != nil {
		return c.reject(ctx, MethodPurchase, err)
	}
	return c.commit(ctx, MethodPurchase, f)
}

// Capture settles a previous authorization, identified by its transaction id.
func (c *Client) Capture(ctx context.Context, money gateway.Money, authorization string, opts gateway.Options) (gateway.Response, error) {
	return c.commit(ctx, MethodCapture, captureFields(c.creds, money, authorization, opts))
}

func (c *Client) Refund(ctx context.Context, money gateway.Money, authorization string, opts gateway.Options) (gateway.Response, error) {
	return c.commit(ctx, MethodRefund, refundFields(c.creds, money, authorization, opts))
}

// Void cancels a transaction. opts.Amount must carry the original amount;
// it is sent as-is and not checked against the original charge.
func (c *Client) Void(ctx context.Context, authorization string, opts gateway.Options) (gateway.Response, error) {
	f, err := voidFields(c.creds, authorization, opts)
	if err != nil {
		return c.reject(ctx, MethodVoid, err)
	}
	return c.commit(ctx, MethodVoid, f)
}

// Store tokenizes a card. The returned Authorization is the card id to use as
// a gateway.StoredCardToken later on.
func (c *Client) Store(ctx context.Context, card gateway.CardDetails, _ gateway.Options) (gateway.Response, error) {
	return c.commit(ctx, MethodStore, storeFields(card))
}

func (c *Client) reject(ctx context.Context, method string, err error) (gateway.Response, error) {
	metrics.ObserveGatewayCall(method, metrics.OutcomeRejected, 0)
	c.logger.WarnContext(ctx, "Gateway request rejected",
		slog.String("operation", method),
		slog.Any("error", err),
	)
	return gateway.Response{}, fmt.Errorf("%s: %w", method, err)
}

func (c *Client) commit(ctx context.Context, method string, f Fields) (gateway.Response, error) {
	start := time.Now()

	endpoint := c.endpoints.urlFor(method, f)
	c.addAuth(method, f)
	if err := c.verify(method, f); err != nil {
		return c.reject(ctx, method, err)
	}

	body, err := c.post(ctx, endpoint, f)
	if err != nil {
		metrics.ObserveGatewayCall(method, metrics.OutcomeTransportError, time.Since(start))
		c.logger.ErrorContext(ctx, "Gateway request failed",
			slog.String("operation", method),
			slog.Any("error", err),
			slog.Duration("elapsed", time.Since(start)),
		)
		return gateway.Response{}, fmt.Errorf("%s: %w", method, err)
	}

	params, parsed := decodeResponse(body)
	resp := newResponse(params, c.creds.Sandbox)

	outcome := metrics.OutcomeApproved
	switch {
	case !parsed:
		outcome = metrics.OutcomeInvalidResponse
	case !resp.Success:
		outcome = metrics.OutcomeDeclined
	}
	metrics.ObserveGatewayCall(method, outcome, time.Since(start))

	c.logger.InfoContext(ctx, "Gateway request completed",
		slog.String("operation", method),
		slog.Bool("token_service", isTokenRequest(f)),
		slog.String("outcome", outcome),
		slog.String("response_code", params["response_code"]),
		slog.Duration("elapsed", time.Since(start)),
	)

	return resp, nil
}

func (c *Client) addAuth(method string, f Fields) {
	f["merchantUUID"] = c.creds.MerchantUUID
	f["apiKey"] = c.creds.APIKey
	if !isTokenRequest(f) {
		f["method"] = method
	}
}

func (c *Client) verify(method string, f Fields) error {
	for _, key := range []string{"merchantUUID", "apiKey"} {
		if f[key] == "" {
			return fmt.Errorf("%w: %s is empty", ErrIncompleteRequest, key)
		}
	}
	if method != MethodStore && f["hash"] == "" {
		return fmt.Errorf("%w: hash is empty", ErrIncompleteRequest)
	}
	return nil
}

// encodeFields renders the body as sorted key=value pairs with
// percent-encoded values.
func encodeFields(f Fields) string {
	values := url.Values{}
	for k, v := range f {
		values.Set(k, v)
	}
	return values.Encode()
}

func (c *Client) post(ctx context.Context, endpoint string, f Fields) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(encodeFields(f)))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}
	return raw, nil
}
