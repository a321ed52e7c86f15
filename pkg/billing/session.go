package billing

import "context"

// Currency is the only currency sessions are priced in
const Currency = "GBP"

// Mode is the payment mode of a checkout session
type Mode string

const (
	ModePayment      Mode = "payment"
	ModeSubscription Mode = "subscription"
)

// LineItem is the single item sold by a session. Interval is set only for subscriptions.
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
	Interval   string
}

// SessionSpec describes a hosted checkout session to be created by a Gateway
type SessionSpec struct {
	Mode              Mode
	Currency          string
	LineItem          LineItem
	SuccessURL        string
	CancelURL         string
	ClientReferenceID string
	Metadata          map[string]string
}

// Gateway creates hosted checkout sessions and returns the payer redirect URL
type Gateway interface {
	CreateSession(ctx context.Context, spec *SessionSpec) (string, error)
}
