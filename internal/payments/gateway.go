// Package payments defines the contract with the external payment provider.
// The service never implements gateway protocol details itself; it only
// initiates intents, inspects their status and requests refunds.
package payments

import "context"

// Intent statuses reported by the provider.
const (
	IntentSucceeded = "succeeded"
	IntentFailed    = "failed"
)

type Intent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Status       string            `json:"status"`
	Amount       int64             `json:"amount"` // minor units
	Currency     string            `json:"currency"`
	Metadata     map[string]string `json:"metadata"`
}

type Refund struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

// Event is the asynchronous notification pushed to the webhook endpoint,
// keyed by the order id carried in the intent metadata.
type Event struct {
	Type string `json:"type"`
	Data struct {
		Object Intent `json:"object"`
	} `json:"data"`
}

type Gateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
	RefundPayment(ctx context.Context, paymentID string, amount int64) (*Refund, error)
}
