package merchantwarrior

import "errors"

var (
	// ErrMissingCredential is returned by New when the merchant UUID, API key
	// or API passphrase is empty.
	ErrMissingCredential = errors.New("missing credential")

	// ErrMissingVoidAmount is returned by Void when the original transaction
	// amount was not supplied. The gateway rejects voids without it.
	ErrMissingVoidAmount = errors.New("void requires the original transaction amount")

	// ErrUnsupportedPaymentMethod is returned when the payment method is nil
	// or not one of the gateway.PaymentMethod variants.
	ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")

	// ErrIncompleteRequest is returned when an assembled request lacks the
	// authentication fields the gateway requires.
	ErrIncompleteRequest = errors.New("incomplete gateway request")

	// ErrUnexpectedStatus is returned when the gateway answers with a non-2xx
	// HTTP status.
	ErrUnexpectedStatus = errors.New("unexpected gateway status")
)
