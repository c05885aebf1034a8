package gateway

import "fmt"

// PaymentMethod is either CardDetails or StoredCardToken. The set is closed:
// adapters switch on the concrete type.
type PaymentMethod interface {
	isPaymentMethod()
}

// CardDetails is raw card data supplied by the caller.
type CardDetails struct {
	Number            string `json:"number"`
	Name              string `json:"name"`
	Month             int    `json:"month"`
	Year              int    `json:"year"`
	VerificationValue string `json:"verification_value,omitempty"`
}

// StoredCardToken references a card previously stored at the gateway.
type StoredCardToken struct {
	ID string `json:"id"`
}

func (CardDetails) isPaymentMethod()     {}
func (StoredCardToken) isPaymentMethod() {}

// ExpiryMonth is the two-digit expiry month.
func (c CardDetails) ExpiryMonth() string {
	return fmt.Sprintf("%02d", c.Month)
}

// ExpiryYear is the two-digit expiry year; four-digit years are reduced.
func (c CardDetails) ExpiryYear() string {
	return fmt.Sprintf("%02d", c.Year%100)
}

// Expiry returns the expiry as MMYY.
func (c CardDetails) Expiry() string {
	return c.ExpiryMonth() + c.ExpiryYear()
}
