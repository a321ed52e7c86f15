package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jordanlanch/careconnect/pkg/billing"
	"github.com/jordanlanch/careconnect/pkg/database"
	"github.com/jordanlanch/careconnect/pkg/logger"
	"github.com/jordanlanch/careconnect/pkg/models"
	"github.com/jordanlanch/careconnect/pkg/plans"
	"github.com/jordanlanch/careconnect/pkg/signup"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

const planSchema = `
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
INSERT INTO token_plans VALUES ('t1', 'tokens-3', '3 Tokens', 3, NULL, TRUE);
INSERT INTO token_plans VALUES ('t2', 'seller-plus', 'Seller Plus', 0, '49.99', TRUE);
`

// fakeGateway records session specs instead of calling the payment provider
type fakeGateway struct {
	mu    sync.Mutex
	specs []*billing.SessionSpec
	err   error
}

func (g *fakeGateway) CreateSession(ctx context.Context, spec *billing.SessionSpec) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.specs = append(g.specs, spec)
	if g.err != nil {
		return "", g.err
	}
	return "https://checkout.stripe.com/c/pay/cs_test_" + spec.Metadata["type"], nil
}

func (g *fakeGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.specs)
}

// setupBilling builds a checkout service over an in-memory sqlite plan store
func setupBilling(t *testing.T) (*billing.Service, *fakeGateway, *database.Client) {
	t.Helper()
	pool := database.DefaultPoolConfig()
	pool.MaxOpenConns = 1
	db, err := database.Open("sqlite3", ":memory:", pool)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.DB.Exec(planSchema)
	require.NoError(t, err)

	gateway := &fakeGateway{}
	resolver := plans.NewResolver(plans.NewSQLRepository(db.DB), plans.WithLogger(logger.Discard()))
	return billing.NewService(resolver, gateway, billing.WithServiceLogger(logger.Discard())), gateway, db
}

// stubAuth creates accounts in memory
type stubAuth struct {
	mu       sync.Mutex
	requests []signup.SignUpRequest
	confirm  bool
	err      error
}

func (a *stubAuth) SignUp(ctx context.Context, req signup.SignUpRequest) (*signup.SignUpResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = append(a.requests, req)
	if a.err != nil {
		return nil, a.err
	}
	return &signup.SignUpResult{UserID: "user-1", RequiresConfirmation: a.confirm}, nil
}

func (a *stubAuth) last() signup.SignUpRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.requests[len(a.requests)-1]
}

func doJSON(t *testing.T, e *echo.Echo, method, target string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch v := body.(type) {
	case nil:
	case string:
		buf.WriteString(v)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(v))
	}

	req := httptest.NewRequest(method, target, &buf)
	if buf.Len() > 0 {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decodeWizard(t *testing.T, rec *httptest.ResponseRecorder) models.WizardResponse {
	t.Helper()
	var resp models.WizardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func str(s string) *string { return &s }
