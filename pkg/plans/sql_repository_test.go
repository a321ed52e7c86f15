package plans

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jordanlanch/careconnect/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

const testSchema = `
CREATE TABLE plans (
	id TEXT PRIMARY KEY,
	slug TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	price INTEGER NOT NULL,
	billing_interval TEXT,
	is_active BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE TABLE token_plans (
	id TEXT PRIMARY KEY,
	slug TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	tokens INTEGER NOT NULL DEFAULT 0,
	price TEXT,
	is_active BOOLEAN NOT NULL DEFAULT TRUE
);
INSERT INTO plans VALUES ('p1', 'buyer-pro', 'Buyer Pro', 2999, 'month', TRUE);
INSERT INTO plans VALUES ('p2', 'buyer-pro-legacy', 'Buyer Pro (legacy)', 1999, NULL, TRUE);
INSERT INTO plans VALUES ('p3', 'buyer-pro-retired', 'Retired', 999, 'year', FALSE);
INSERT INTO token_plans VALUES ('t1', 'tokens-10', '10 Tokens', 10, NULL, TRUE);
INSERT INTO token_plans VALUES ('t2', 'seller-plus', 'Seller Plus', 0, '49.99', TRUE);
INSERT INTO token_plans VALUES ('t3', 'tokens-old', 'Old bundle', 3, NULL, FALSE);
`

// setupSQLRepository opens an in-memory sqlite database seeded with plans
func setupSQLRepository(t *testing.T) (*SQLRepository, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	return NewSQLRepository(db), db
}

func TestSQLRepository_SubscriptionPlanBySlug(t *testing.T) {
	repo, _ := setupSQLRepository(t)
	ctx := context.Background()

	plan, err := repo.SubscriptionPlanBySlug(ctx, "buyer-pro")
	require.NoError(t, err)
	assert.Equal(t, "p1", plan.ID)
	assert.Equal(t, "Buyer Pro", plan.Name)
	assert.EqualValues(t, 2999, plan.Price)
	assert.Equal(t, "month", plan.BillingInterval)
	assert.True(t, plan.IsActive)

	legacy, err := repo.SubscriptionPlanBySlug(ctx, "buyer-pro-legacy")
	require.NoError(t, err)
	assert.Empty(t, legacy.BillingInterval)
}

func TestSQLRepository_InactiveOrMissingIsNotFound(t *testing.T) {
	repo, _ := setupSQLRepository(t)
	ctx := context.Background()

	_, err := repo.SubscriptionPlanBySlug(ctx, "buyer-pro-retired")
	assert.True(t, domain.IsNotFound(err))

	_, err = repo.SubscriptionPlanBySlug(ctx, "nope")
	assert.True(t, domain.IsNotFound(err))

	_, err = repo.TokenPlanBySlug(ctx, "tokens-old")
	assert.True(t, domain.IsNotFound(err))
}

func TestSQLRepository_TokenPlanBySlug(t *testing.T) {
	repo, _ := setupSQLRepository(t)
	ctx := context.Background()

	bundle, err := repo.TokenPlanBySlug(ctx, "tokens-10")
	require.NoError(t, err)
	assert.Equal(t, 10, bundle.Tokens)
	assert.False(t, bundle.Price.Valid)

	sellerPlus, err := repo.TokenPlanBySlug(ctx, "seller-plus")
	require.NoError(t, err)
	require.True(t, sellerPlus.Price.Valid)
	assert.Equal(t, "49.99", sellerPlus.Price.Decimal.String())
}

func TestSQLRepository_QueryFailureIsUpstream(t *testing.T) {
	repo, db := setupSQLRepository(t)
	_, err := db.Exec(`DROP TABLE plans`)
	require.NoError(t, err)

	_, err = repo.SubscriptionPlanBySlug(context.Background(), "buyer-pro")
	require.Error(t, err)
	assert.True(t, domain.IsUpstream(err))
	assert.False(t, domain.IsNotFound(err))
}
