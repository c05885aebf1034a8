package gateway

import "context"

//go:generate mockgen -source port.go -destination mock_port.go -package gateway

// Provider is the payment vocabulary a card gateway adapter implements.
// Declines are reported through Response.Success; the error return is reserved
// for configuration, validation and transport failures.
type Provider interface {
	Authorize(ctx context.Context, money Money, method PaymentMethod, opts Options) (Response, error)
	Purchase(ctx context.Context, money Money, method PaymentMethod, opts Options) (Response, error)
	Capture(ctx context.Context, money Money, authorization string, opts Options) (Response, error)
	Refund(ctx context.Context, money Money, authorization string, opts Options) (Response, error)
	Void(ctx context.Context, authorization string, opts Options) (Response, error)
	Store(ctx context.Context, card CardDetails, opts Options) (Response, error)
}

// Credentials identify the merchant account. They are fixed for the lifetime
// of a client.
type Credentials struct {
	MerchantUUID  string
	APIKey        string
	APIPassphrase string
	Sandbox       bool
}

// Options carries the optional per-call parameters.
type Options struct {
	OrderID  string
	Currency string

	IP    string
	Email string
	Phone string

	StoreID       string
	RecurringFlag *bool

	DescriptorName  string
	DescriptorCity  string
	DescriptorState string

	// BillingAddress wins over Address when both are set.
	BillingAddress *Address
	Address        *Address

	ThreeDSecure *ThreeDSecure

	// Amount of the original transaction, required by Void.
	Amount string
}

// WithRecurring returns a copy of o that sends the recurring flag explicitly.
// Leaving RecurringFlag nil omits it from the request.
func (o Options) WithRecurring(recurring bool) Options {
	o.RecurringFlag = &recurring
	return o
}

// CustomerAddress returns the address to send, if any.
func (o Options) CustomerAddress() *Address {
	if o.BillingAddress != nil {
		return o.BillingAddress
	}
	return o.Address
}

type Address struct {
	Name     string `json:"name"`
	Country  string `json:"country"`
	State    string `json:"state"`
	City     string `json:"city"`
	Address1 string `json:"address1"`
	Zip      string `json:"zip"`
	IP       string `json:"ip"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

type ThreeDSecure struct {
	ECI                          string `json:"eci"`
	XID                          string `json:"xid"`
	DSTransactionID              string `json:"ds_transaction_id"`
	CAVV                         string `json:"cavv"`
	AuthenticationResponseStatus string `json:"authentication_response_status"`
	Version                      string `json:"version"`
}

// TransactionID prefers the 3DS1 XID and falls back to the 3DS2 directory
// server transaction id.
func (t ThreeDSecure) TransactionID() string {
	if t.XID != "" {
		return t.XID
	}
	return t.DSTransactionID
}

// Response is the normalized outcome of one gateway call.
type Response struct {
	Success       bool              `json:"success"`
	Message       string            `json:"message"`
	Params        map[string]string `json:"params"`
	Test          bool              `json:"test"`
	Authorization string            `json:"authorization,omitempty"`
}
