package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	razorpay "github.com/razorpay/razorpay-go"

	"campusevents/internal/domain"
)

// Config holds Razorpay API credentials.
type Config struct {
	KeyID     string
	KeySecret string
}

type razorpayGateway struct {
	client *razorpay.Client
	keyID  string
	secret []byte
}

// NewRazorpayGateway returns a PaymentGateway backed by the Razorpay Orders API.
func NewRazorpayGateway(cfg Config) domain.PaymentGateway {
	return &razorpayGateway{
		client: razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		keyID:  cfg.KeyID,
		secret: []byte(cfg.KeySecret),
	}
}

func (g *razorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*domain.PaymentOrder, error) {
	data := map[string]any{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		n := make(map[string]any, len(notes))
		for k, v := range notes {
			n[k] = v
		}
		data["notes"] = n
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, &domain.ProviderError{Op: "create order", Err: err}
	}

	order := &domain.PaymentOrder{
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	}
	if id, ok := body["id"].(string); ok {
		order.ID = id
	}
	if status, ok := body["status"].(string); ok {
		order.Status = status
	}
	if order.ID == "" {
		return nil, &domain.ProviderError{Op: "create order", Err: errors.New("response missing order id")}
	}
	return order, nil
}

// VerifySignature recomputes HMAC-SHA256(secret, orderID|paymentID) and
// compares it to the supplied signature in constant time.
func (g *razorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (g *razorpayGateway) KeyID() string { return g.keyID }
