package models

// CheckoutRequest represents a request to create a checkout session
type CheckoutRequest struct {
	Type     string `json:"type" validate:"required"`
	PlanSlug string `json:"planSlug,omitempty" validate:"required_if=Type tokens"`
	UserID   string `json:"userId" validate:"required"`
}

// CheckoutResponse represents a checkout session response
type CheckoutResponse struct {
	URL string `json:"url"`
}

// PriceQuote represents the resolved price of a plan
type PriceQuote struct {
	Type        string `json:"type"`
	PlanID      string `json:"plan_id"`
	PlanSlug    string `json:"plan_slug"`
	Name        string `json:"name"`
	Currency    string `json:"currency"`
	AmountMinor int64  `json:"amount_minor"`
	Interval    string `json:"interval,omitempty"`
	Tokens      int    `json:"tokens,omitempty"`
}

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
