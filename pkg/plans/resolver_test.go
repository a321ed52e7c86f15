package plans

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jordanlanch/careconnect/pkg/domain"
	"github.com/jordanlanch/careconnect/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	plan      *Plan
	tokenPlan *TokenPlan
	err       error
	calls     int
}

func (s *stubRepository) SubscriptionPlanBySlug(ctx context.Context, slug string) (*Plan, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.plan, nil
}

func (s *stubRepository) TokenPlanBySlug(ctx context.Context, slug string) (*TokenPlan, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.tokenPlan, nil
}

type recordingObserver struct {
	kinds []string
	errs  []error
}

func (o *recordingObserver) ObservePlanLookup(kind string, d time.Duration, err error) {
	o.kinds = append(o.kinds, kind)
	o.errs = append(o.errs, err)
}

func TestSubscriptionCharge(t *testing.T) {
	charge := SubscriptionCharge(&Plan{Price: 2999, BillingInterval: "year"})
	assert.EqualValues(t, 2999, charge.AmountMinor)
	assert.Equal(t, "year", charge.Interval)
	assert.Equal(t, "29.99", charge.Gross.String())

	charge = SubscriptionCharge(&Plan{Price: 2999})
	assert.Equal(t, DefaultInterval, charge.Interval)
}

func TestTokenCharge(t *testing.T) {
	r := NewResolver(&stubRepository{}, WithLogger(logger.Discard()))

	tests := []struct {
		tokens int
		want   int64
	}{
		{1, 500},
		{3, 1500},
		{10, 5000},
		{0, 0},
	}
	for _, tt := range tests {
		charge := r.TokenCharge(&TokenPlan{Tokens: tt.tokens})
		assert.Equal(t, tt.want, charge.AmountMinor, "tokens=%d", tt.tokens)
		assert.Empty(t, charge.Interval, "token bundles are one-time")
	}

	custom := NewResolver(&stubRepository{}, WithTokenUnitPrice(7))
	assert.EqualValues(t, 2100, custom.TokenCharge(&TokenPlan{Tokens: 3}).AmountMinor)
	assert.Equal(t, "21", custom.TokenCharge(&TokenPlan{Tokens: 3}).Gross.String())
}

func TestSellerPlusCharge_Rounding(t *testing.T) {
	tests := []struct {
		price string
		want  int64
	}{
		{"49.99", 4999},
		{"49.995", 5000},
		{"49.994", 4999},
		{"0.005", 1},
		{"10", 1000},
		{"19.125", 1913},
	}
	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			p := &TokenPlan{Slug: "seller-plus", Price: decimal.NewNullDecimal(decimal.RequireFromString(tt.price))}
			charge, err := SellerPlusCharge(p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, charge.AmountMinor)
			assert.Equal(t, DefaultInterval, charge.Interval)
		})
	}
}

func TestSellerPlusCharge_MissingPrice(t *testing.T) {
	_, err := SellerPlusCharge(&TokenPlan{Slug: "seller-plus"})
	assert.Error(t, err)
}

func TestResolver_NotFoundPassesThrough(t *testing.T) {
	repo := &stubRepository{err: domain.NewNotFoundError("plan")}
	obs := &recordingObserver{}
	r := NewResolver(repo, WithObserver(obs), WithLogger(logger.Discard()))

	_, err := r.ResolveSubscription(context.Background(), "missing")
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, []string{"subscription"}, obs.kinds)
}

func TestResolver_UpstreamIsWrapped(t *testing.T) {
	repo := &stubRepository{err: domain.NewUpstreamError("fetch plan", errors.New("timeout"))}
	r := NewResolver(repo, WithLogger(logger.Discard()))

	_, err := r.ResolveTokenPlan(context.Background(), "tokens-3")
	require.Error(t, err)
	assert.True(t, domain.IsUpstream(err))
	assert.Contains(t, err.Error(), `resolve token plan "tokens-3"`)
}

func TestResolver_ReturnsPlan(t *testing.T) {
	repo := &stubRepository{tokenPlan: &TokenPlan{ID: "t1", Tokens: 3}}
	r := NewResolver(repo)

	plan, err := r.ResolveTokenPlan(context.Background(), "tokens-3")
	require.NoError(t, err)
	assert.Equal(t, "t1", plan.ID)
}
