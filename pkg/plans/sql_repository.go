package plans

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jordanlanch/careconnect/pkg/domain"
)

const (
	selectSubscriptionPlan = `SELECT id, slug, name, price, billing_interval
FROM ` + SubscriptionTable + `
WHERE slug = $1 AND is_active = TRUE
LIMIT 1`

	selectTokenPlan = `SELECT id, slug, name, tokens, price
FROM ` + TokenPlanTable + `
WHERE slug = $1 AND is_active = TRUE
LIMIT 1`
)

// SQLRepository reads plans straight from the database
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository creates a repository over db
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// SubscriptionPlanBySlug returns the active subscription plan with slug
func (r *SQLRepository) SubscriptionPlanBySlug(ctx context.Context, slug string) (*Plan, error) {
	var (
		p        Plan
		interval sql.NullString
	)
	err := r.db.QueryRowContext(ctx, selectSubscriptionPlan, slug).
		Scan(&p.ID, &p.Slug, &p.Name, &p.Price, &interval)
	if err != nil {
		return nil, queryError(err)
	}
	p.BillingInterval = interval.String
	p.IsActive = true
	return &p, nil
}

// TokenPlanBySlug returns the active token plan with slug
func (r *SQLRepository) TokenPlanBySlug(ctx context.Context, slug string) (*TokenPlan, error) {
	var p TokenPlan
	err := r.db.QueryRowContext(ctx, selectTokenPlan, slug).
		Scan(&p.ID, &p.Slug, &p.Name, &p.Tokens, &p.Price)
	if err != nil {
		return nil, queryError(err)
	}
	p.IsActive = true
	return &p, nil
}

func queryError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError("plan")
	}
	return domain.NewUpstreamError("query plans", err)
}
