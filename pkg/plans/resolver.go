package plans

import (
	"context"
	"fmt"
	"time"

	"github.com/jordanlanch/careconnect/pkg/domain"
	"github.com/jordanlanch/careconnect/pkg/logger"
	"github.com/shopspring/decimal"
)

// DefaultInterval is used when a subscription plan has no billing interval
const DefaultInterval = "month"

// DefaultTokenUnitPrice is the price of one token in major currency units
const DefaultTokenUnitPrice = 5

var hundred = decimal.NewFromInt(100)

// Charge is the amount derived for a plan
type Charge struct {
	AmountMinor int64
	Interval    string
	Gross       decimal.Decimal
}

// LookupObserver receives the timing of every plan lookup
type LookupObserver interface {
	ObservePlanLookup(kind string, duration time.Duration, err error)
}

// Resolver fetches authoritative plan records and prices them
type Resolver struct {
	repo           Repository
	tokenUnitPrice decimal.Decimal
	observer       LookupObserver
	logger         logger.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithTokenUnitPrice overrides the per-token price in major units
func WithTokenUnitPrice(price int) Option {
	return func(r *Resolver) {
		r.tokenUnitPrice = decimal.NewFromInt(int64(price))
	}
}

// WithObserver reports lookup timings to o
func WithObserver(o LookupObserver) Option {
	return func(r *Resolver) {
		r.observer = o
	}
}

// WithLogger sets the resolver logger
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// NewResolver creates a resolver over repo
func NewResolver(repo Repository, opts ...Option) *Resolver {
	r := &Resolver{
		repo:           repo,
		tokenUnitPrice: decimal.NewFromInt(DefaultTokenUnitPrice),
		logger:         logger.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveSubscription returns the active subscription plan with the given slug
func (r *Resolver) ResolveSubscription(ctx context.Context, slug string) (*Plan, error) {
	start := time.Now()
	plan, err := r.repo.SubscriptionPlanBySlug(ctx, slug)
	r.observe("subscription", start, err)
	if err != nil {
		return nil, r.lookupError("subscription", slug, err)
	}
	return plan, nil
}

// ResolveTokenPlan returns the active token plan with the given slug
func (r *Resolver) ResolveTokenPlan(ctx context.Context, slug string) (*TokenPlan, error) {
	start := time.Now()
	plan, err := r.repo.TokenPlanBySlug(ctx, slug)
	r.observe("token", start, err)
	if err != nil {
		return nil, r.lookupError("token", slug, err)
	}
	return plan, nil
}

func (r *Resolver) observe(kind string, start time.Time, err error) {
	if r.observer != nil {
		r.observer.ObservePlanLookup(kind, time.Since(start), err)
	}
}

func (r *Resolver) lookupError(kind, slug string, err error) error {
	if domain.IsNotFound(err) {
		r.logger.Warn("plan not found", "kind", kind, "slug", slug)
		return err
	}
	return fmt.Errorf("resolve %s plan %q: %w", kind, slug, err)
}

// SubscriptionCharge charges the stored minor-unit price directly
func SubscriptionCharge(p *Plan) Charge {
	interval := p.BillingInterval
	if interval == "" {
		interval = DefaultInterval
	}
	return Charge{
		AmountMinor: p.Price,
		Interval:    interval,
		Gross:       decimal.New(p.Price, -2),
	}
}

// TokenCharge charges tokens times the unit price. One-time, so no interval.
func (r *Resolver) TokenCharge(p *TokenPlan) Charge {
	gross := r.tokenUnitPrice.Mul(decimal.NewFromInt(int64(p.Tokens)))
	return Charge{
		AmountMinor: ToMinorUnits(gross),
		Gross:       gross,
	}
}

// SellerPlusCharge charges the plan's major-unit price monthly
func SellerPlusCharge(p *TokenPlan) (Charge, error) {
	if !p.Price.Valid {
		return Charge{}, fmt.Errorf("plan %q has no price", p.Slug)
	}
	return Charge{
		AmountMinor: ToMinorUnits(p.Price.Decimal),
		Interval:    DefaultInterval,
		Gross:       p.Price.Decimal,
	}, nil
}

// ToMinorUnits converts a major-unit amount to minor units, rounding half up
func ToMinorUnits(major decimal.Decimal) int64 {
	return major.Mul(hundred).Round(0).IntPart()
}
