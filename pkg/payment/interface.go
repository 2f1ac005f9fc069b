package payment

import "context"

// Gateway is the payment oracle the booking core talks to. Orders are created
// server side; the actual charge happens on the client against the gateway,
// which then hands back an (orderID, paymentID, signature) tuple that the core
// verifies itself before trusting.
type Gateway interface {
	CreateOrder(ctx context.Context, request *OrderRequest) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

type OrderRequest struct {
	Amount   float64                `json:"amount"` // major units (rupees)
	Currency string                 `json:"currency"`
	Receipt  string                 `json:"receipt"`
	Notes    map[string]interface{} `json:"notes,omitempty"`
}

type Order struct {
	OrderID   string  `json:"order_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Receipt   string  `json:"receipt"`
	Status    string  `json:"status"`
	CreatedAt int64   `json:"created_at"`
}
