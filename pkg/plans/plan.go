// Package plans resolves purchasable plans by slug and derives the amount to charge for them.
package plans

import (
	"context"

	"github.com/shopspring/decimal"
)

// Table names shared by every repository implementation
const (
	SubscriptionTable = "plans"
	TokenPlanTable    = "token_plans"
)

// Plan is a subscription plan. Price is stored in minor currency units.
type Plan struct {
	ID              string `json:"id"`
	Slug            string `json:"slug"`
	Name            string `json:"name"`
	Price           int64  `json:"price"`
	BillingInterval string `json:"billing_interval"`
	IsActive        bool   `json:"is_active"`
}

// TokenPlan is a token bundle or a seller-plus plan. Price, when set, is in major currency units.
type TokenPlan struct {
	ID       string              `json:"id"`
	Slug     string              `json:"slug"`
	Name     string              `json:"name"`
	Tokens   int                 `json:"tokens"`
	Price    decimal.NullDecimal `json:"price"`
	IsActive bool                `json:"is_active"`
}

// Repository looks up active plans by slug.
// Implementations return a domain NOT_FOUND error when no active record matches.
type Repository interface {
	SubscriptionPlanBySlug(ctx context.Context, slug string) (*Plan, error)
	TokenPlanBySlug(ctx context.Context, slug string) (*TokenPlan, error)
}
