package plans

import (
	"context"
	"errors"

	"github.com/jordanlanch/careconnect/pkg/domain"
	"github.com/jordanlanch/careconnect/pkg/supabase"
)

// RowFetcher is satisfied by *supabase.Client
type RowFetcher interface {
	SelectOne(ctx context.Context, table string, filters map[string]string, dest any) error
}

// RESTRepository reads plans through the hosted backend's REST interface
type RESTRepository struct {
	rows RowFetcher
}

// NewRESTRepository creates a repository over rows
func NewRESTRepository(rows RowFetcher) *RESTRepository {
	return &RESTRepository{rows: rows}
}

func activeSlug(slug string) map[string]string {
	return map[string]string{"slug": slug, "is_active": "true"}
}

// SubscriptionPlanBySlug returns the active subscription plan with slug
func (r *RESTRepository) SubscriptionPlanBySlug(ctx context.Context, slug string) (*Plan, error) {
	var p Plan
	if err := r.rows.SelectOne(ctx, SubscriptionTable, activeSlug(slug), &p); err != nil {
		return nil, fetchError(err)
	}
	return &p, nil
}

// TokenPlanBySlug returns the active token plan with slug
func (r *RESTRepository) TokenPlanBySlug(ctx context.Context, slug string) (*TokenPlan, error) {
	var p TokenPlan
	if err := r.rows.SelectOne(ctx, TokenPlanTable, activeSlug(slug), &p); err != nil {
		return nil, fetchError(err)
	}
	return &p, nil
}

func fetchError(err error) error {
	if errors.Is(err, supabase.ErrNoRows) {
		return domain.NewNotFoundError("plan")
	}
	return domain.NewUpstreamError("fetch plan", err)
}
