package domain

import "context"

// PaymentOrder is a provider-side payment intent. It is never persisted;
// trust is re-established at verification time via the signature, not by
// looking the order up again.
type PaymentOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor currency units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status,omitempty"`
}

// PaymentProof is the provider callback payload the client relays after
// completing checkout.
type PaymentProof struct {
	OrderID   string
	PaymentID string
	Signature string
	EventID   string
	Snapshot  StudentSnapshot
}

// PaymentGateway is the port to the payment provider.
type PaymentGateway interface {
	// CreateOrder creates a provider order. Failures are returned as
	// *ProviderError so callers can surface them as server-side errors.
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*PaymentOrder, error)
	// VerifySignature reports whether signature is the provider's
	// HMAC-SHA256 over "orderID|paymentID". This check is the sole trust
	// anchor of the payment flow.
	VerifySignature(orderID, paymentID, signature string) bool
	// KeyID returns the public key id for client-side checkout.
	KeyID() string
}
