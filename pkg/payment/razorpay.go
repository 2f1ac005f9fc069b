package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/razorpay/razorpay-go"
)

type RazorpayGateway struct {
	client    *razorpay.Client
	keySecret string
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	client := razorpay.NewClient(keyID, keySecret)

	return &RazorpayGateway{
		client:    client,
		keySecret: keySecret,
	}
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, request *OrderRequest) (*Order, error) {
	orderData := map[string]interface{}{
		"amount":          int(math.Round(request.Amount * 100)), // paise
		"currency":        request.Currency,
		"receipt":         request.Receipt,
		"payment_capture": 1,
	}
	if len(request.Notes) > 0 {
		orderData["notes"] = request.Notes
	}

	order, err := g.client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	orderID, ok := order["id"].(string)
	if !ok {
		return nil, fmt.Errorf("unexpected order response: missing id")
	}

	return &Order{
		OrderID:   orderID,
		Amount:    toFloat64(order["amount"]) / 100,
		Currency:  request.Currency,
		Receipt:   request.Receipt,
		Status:    toString(order["status"]),
		CreatedAt: int64(toFloat64(order["created_at"])),
	}, nil
}

// VerifySignature checks the gateway's HMAC-SHA256 digest over
// "orderID|paymentID" against the provided signature in constant time. This is
// the single trust boundary: only a matching signature may mutate financial
// state.
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// The razorpay client decodes responses into map[string]interface{}, so
// numbers arrive as float64 or json.Number depending on the endpoint.
func toFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
