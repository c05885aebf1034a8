//go:build !integration

package merchantwarrior

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"MerchantWarriorGateway/internal/domain/gateway"
	"MerchantWarriorGateway/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	approvedBody = `<?xml version="1.0" encoding="UTF-8"?>
<mwResponse>
  <responseCode>0</responseCode>
  <responseMessage>Transaction approved</responseMessage>
  <transactionID>1336-20be3569-b600-11e6-b9c3-005056b209e0</transactionID>
  <authCode>731357421</authCode>
  <receiptNo>731357421</receiptNo>
  <authMessage>Honour with identification</authMessage>
  <authResponseCode>08</authResponseCode>
  <authSettledDate>2016-11-29</authSettledDate>
  <paymentCardNumber>512345XXXXXX2346</paymentCardNumber>
  <transactionReferenceID>12345</transactionReferenceID>
  <custom1></custom1>
  <custom2></custom2>
  <custom3></custom3>
  <customHash>65b172551b7d3a0706c0ce5330c98470</customHash>
</mwResponse>`

	declinedBody = `<?xml version="1.0" encoding="UTF-8"?>
<mwResponse>
  <responseCode>4</responseCode>
  <responseMessage>Card has expired</responseMessage>
  <transactionID>1336-23d4c8a2-b600-11e6-b9c3-005056b209e0</transactionID>
</mwResponse>`

	storeBody = `<?xml version="1.0" encoding="UTF-8"?>
<mwResponse>
  <responseCode>0</responseCode>
  <responseMessage>Operation successful</responseMessage>
  <cardID>KOCI10023982</cardID>
  <cardKey>s5KQIxsZuiyvs3Sc</cardKey>
  <ivrCardID>10023982</ivrCardID>
</mwResponse>`
)

type capturedRequest struct {
	path        string
	contentType string
	form        url.Values
}

// newGatewayServer answers every request with status and body and records the
// last request it saw.
func newGatewayServer(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		captured.path = r.URL.Path
		captured.contentType = r.Header.Get("Content-Type")
		captured.form = r.PostForm

		w.Header().Set("Content-Type", "text/xml")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func newTestClient(t *testing.T, server *httptest.Server, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithEndpoints(Endpoints{
		Token: server.URL + "/token/",
		Post:  server.URL + "/post/",
	})}, opts...)
	c, err := New(testCreds, opts...)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	t.Run("requires every credential", func(t *testing.T) {
		for _, creds := range []gateway.Credentials{
			{APIKey: "k", APIPassphrase: "p"},
			{MerchantUUID: "m", APIPassphrase: "p"},
			{MerchantUUID: "m", APIKey: "k"},
		} {
			_, err := New(creds)
			assert.ErrorIs(t, err, ErrMissingCredential)
		}
	})

	t.Run("defaults follow the sandbox flag", func(t *testing.T) {
		c, err := New(testCreds)
		require.NoError(t, err)
		assert.True(t, c.Test())
		assert.Equal(t, DefaultEndpoints(true), c.endpoints)
		assert.Equal(t, DefaultTimeout, c.http.Timeout)

		live := testCreds
		live.Sandbox = false
		c, err = New(live)
		require.NoError(t, err)
		assert.False(t, c.Test())
		assert.Equal(t, DefaultEndpoints(false), c.endpoints)
	})

	t.Run("partial endpoint override keeps the other default", func(t *testing.T) {
		c, err := New(testCreds, WithEndpoints(Endpoints{Post: "http://localhost/post/"}))
		require.NoError(t, err)
		assert.Equal(t, Endpoints{Token: TokenTestURL, Post: "http://localhost/post/"}, c.endpoints)
	})
}

func TestClient_Purchase(t *testing.T) {
	t.Run("approved card purchase goes to the post service", func(t *testing.T) {
		server, got := newGatewayServer(t, http.StatusOK, approvedBody)
		c := newTestClient(t, server)

		resp, err := c.Purchase(context.Background(), gateway.MoneyFromCents(1000, "AUD"), testCard, gateway.Options{OrderID: "order-1"})

		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.True(t, resp.Test)
		assert.Equal(t, "Transaction approved", resp.Message)
		assert.Equal(t, "1336-20be3569-b600-11e6-b9c3-005056b209e0", resp.Authorization)
		assert.Equal(t, "731357421", resp.Params["auth_code"])
		assert.Equal(t, "08", resp.Params["auth_response_code"])
		assert.Equal(t, "", resp.Params["custom1"])

		assert.Equal(t, "/post/", got.path)
		assert.Equal(t, "application/x-www-form-urlencoded", got.contentType)
		assert.Equal(t, MethodPurchase, got.form.Get("method"))
		assert.Equal(t, "merchant-uuid", got.form.Get("merchantUUID"))
		assert.Equal(t, "api-key", got.form.Get("apiKey"))
		assert.Equal(t, "10.00", got.form.Get("transactionAmount"))
		assert.Equal(t, "AUD", got.form.Get("transactionCurrency"))
		assert.Equal(t, "b828b4e444450ad79865d4d0c5956e8f", got.form.Get("hash"))
		assert.Equal(t, "5123456789012346", got.form.Get("paymentCardNumber"))
		assert.Equal(t, "0531", got.form.Get("paymentCardExpiry"))
		assert.NotContains(t, got.form, "customerName")
	})

	t.Run("declined purchase is a response not an error", func(t *testing.T) {
		server, _ := newGatewayServer(t, http.StatusOK, declinedBody)
		c := newTestClient(t, server)

		resp, err := c.Purchase(context.Background(), gateway.MoneyFromCents(1000, "AUD"), testCard, gateway.Options{})

		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, "Card has expired", resp.Message)
		assert.Equal(t, "1336-23d4c8a2-b600-11e6-b9c3-005056b209e0", resp.Authorization)
	})

	t.Run("stored card purchase goes to the token service", func(t *testing.T) {
		server, got := newGatewayServer(t, http.StatusOK, approvedBody)
		c := newTestClient(t, server)

		resp, err := c.Purchase(context.Background(), gateway.MoneyFromCents(1000, "AUD"), gateway.StoredCardToken{ID: "KOCI10023982"}, gateway.Options{})

		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "/token/processCard", got.path)
		assert.NotContains(t, got.form, "method")
		assert.Equal(t, "KOCI10023982", got.form.Get("cardID"))
		assert.NotContains(t, got.form, "paymentCardNumber")
	})

	t.Run("unsupported payment method never reaches the network", func(t *testing.T) {
		server, got := newGatewayServer(t, http.StatusOK, approvedBody)
		c := newTestClient(t, server)

		_, err := c.Purchase(context.Background(), gateway.MoneyFromCents(1000, "AUD"), nil, gateway.Options{})

		assert.ErrorIs(t, err, ErrUnsupportedPaymentMethod)
		assert.Empty(t, got.path)
	})
}

func TestClient_Authorize(t *testing.T) {
	server, got := newGatewayServer(t, http.StatusOK, approvedBody)
	c := newTestClient(t, server)

	resp, err := c.Authorize(context.Background(), gateway.MoneyFromCents(1000, "AUD"), testCard, gateway.Options{})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, MethodAuthorize, got.form.Get("method"))
}

func TestClient_CaptureAndRefund(t *testing.T) {
	t.Run("capture", func(t *testing.T) {
		server, got := newGatewayServer(t, http.StatusOK, approvedBody)
		c := newTestClient(t, server)

		resp, err := c.Capture(context.Background(), gateway.MoneyFromCents(1000, "AUD"), "T1", gateway.Options{})

		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "/post/", got.path)
		assert.Equal(t, MethodCapture, got.form.Get("method"))
		assert.Equal(t, "T1", got.form.Get("transactionID"))
		assert.Equal(t, "10.00", got.form.Get("captureAmount"))
	})

	t.Run("refund", func(t *testing.T) {
		server, got := newGatewayServer(t, http.StatusOK, approvedBody)
		c := newTestClient(t, server)

		resp, err := c.Refund(context.Background(), gateway.MoneyFromCents(1000, "AUD"), "T1", gateway.Options{})

		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, MethodRefund, got.form.Get("method"))
		assert.Equal(t, "10.00", got.form.Get("refundAmount"))
	})
}

func TestClient_Void(t *testing.T) {
	t.Run("signs the transaction id", func(t *testing.T) {
		server, got := newGatewayServer(t, http.StatusOK, approvedBody)
		c := newTestClient(t, server)

		resp, err := c.Void(context.Background(), "T123", gateway.Options{Amount: "10.00"})

		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "/post/", got.path)
		assert.Equal(t, MethodVoid, got.form.Get("method"))
		assert.Equal(t, "T123", got.form.Get("transactionID"))
		assert.Equal(t, "10.00", got.form.Get("transactionAmount"))
		assert.Equal(t, "77d9ec5ed1628925a542729dcf8d7ee0", got.form.Get("hash"))
		assert.NotContains(t, got.form, "transactionCurrency")
	})

	t.Run("missing amount is rejected locally", func(t *testing.T) {
		server, got := newGatewayServer(t, http.StatusOK, approvedBody)
		c := newTestClient(t, server)

		_, err := c.Void(context.Background(), "T123", gateway.Options{})

		assert.ErrorIs(t, err, ErrMissingVoidAmount)
		assert.Empty(t, got.path)
	})
}

func TestClient_Store(t *testing.T) {
	server, got := newGatewayServer(t, http.StatusOK, storeBody)
	c := newTestClient(t, server)

	resp, err := c.Store(context.Background(), testCard, gateway.Options{})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "KOCI10023982", resp.Authorization)
	assert.Equal(t, "s5KQIxsZuiyvs3Sc", resp.Params["card_key"])
	assert.Equal(t, "10023982", resp.Params["ivr_card_id"])

	assert.Equal(t, "/token/addCard", got.path)
	assert.NotContains(t, got.form, "method")
	assert.NotContains(t, got.form, "hash")
	assert.Equal(t, "merchant-uuid", got.form.Get("merchantUUID"))
	assert.Equal(t, "api-key", got.form.Get("apiKey"))
	assert.Equal(t, "5123456789012346", got.form.Get("cardNumber"))
	assert.Equal(t, "05", got.form.Get("cardExpiryMonth"))
	assert.Equal(t, "31", got.form.Get("cardExpiryYear"))
}

func TestClient_Failures(t *testing.T) {
	t.Run("non-2xx status is an error", func(t *testing.T) {
		server, _ := newGatewayServer(t, http.StatusInternalServerError, "boom")
		c := newTestClient(t, server)

		_, err := c.Capture(context.Background(), gateway.MoneyFromCents(1000, "AUD"), "T1", gateway.Options{})

		assert.ErrorIs(t, err, ErrUnexpectedStatus)
	})

	t.Run("malformed body is an unsuccessful response", func(t *testing.T) {
		server, _ := newGatewayServer(t, http.StatusOK, "<html><body>Service Unavailable")
		c := newTestClient(t, server)

		resp, err := c.Refund(context.Background(), gateway.MoneyFromCents(1000, "AUD"), "T1", gateway.Options{})

		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, "Invalid gateway response", resp.Message)
		assert.Equal(t, map[string]string{"response_message": "Invalid gateway response"}, resp.Params)
		assert.Empty(t, resp.Authorization)
	})

	t.Run("context deadline surfaces as an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()
		c := newTestClient(t, server)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := c.Capture(ctx, gateway.MoneyFromCents(1000, "AUD"), "T1", gateway.Options{})

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestClient_Metrics(t *testing.T) {
	server, _ := newGatewayServer(t, http.StatusOK, declinedBody)
	c := newTestClient(t, server)

	declined := metrics.GatewayRequestsTotal.WithLabelValues(MethodRefund, metrics.OutcomeDeclined)
	rejected := metrics.GatewayRequestsTotal.WithLabelValues(MethodVoid, metrics.OutcomeRejected)
	declinedBefore := testutil.ToFloat64(declined)
	rejectedBefore := testutil.ToFloat64(rejected)

	_, err := c.Refund(context.Background(), gateway.MoneyFromCents(1000, "AUD"), "T1", gateway.Options{})
	require.NoError(t, err)
	_, err = c.Void(context.Background(), "T1", gateway.Options{})
	require.Error(t, err)

	assert.Equal(t, declinedBefore+1, testutil.ToFloat64(declined))
	assert.Equal(t, rejectedBefore+1, testutil.ToFloat64(rejected))
}

func TestClient_TranscriptLogging(t *testing.T) {
	server, _ := newGatewayServer(t, http.StatusOK, approvedBody)

	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := newTestClient(t, server, WithLogger(l), WithTranscriptLogging())

	_, err := c.Purchase(context.Background(), gateway.MoneyFromCents(1000, "AUD"), testCard, gateway.Options{})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Gateway transcript")
	assert.Contains(t, out, "paymentCardNumber=[FILTERED]")
	assert.Contains(t, out, "apiKey=[FILTERED]")
	assert.NotContains(t, out, "5123456789012346")
	assert.NotContains(t, out, "api-key")
}
