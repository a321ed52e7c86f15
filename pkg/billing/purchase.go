package billing

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jordanlanch/careconnect/pkg/models"
	"github.com/jordanlanch/careconnect/pkg/plans"
)

// PurchaseType selects what is being bought
type PurchaseType string

const (
	TypeBuyerPro   PurchaseType = "buyer_pro"
	TypeTokens     PurchaseType = "tokens"
	TypeSellerPlus PurchaseType = "seller_plus"
)

// Default slugs used when the caller does not name a plan
const (
	DefaultBuyerProSlug   = "buyer-pro"
	DefaultSellerPlusSlug = "seller-plus"
)

const checkoutSessionPlaceholder = "{CHECKOUT_SESSION_ID}"

// redirects are paths relative to the frontend base URL
type redirects struct {
	success string
	cancel  string
}

// purchase is one variant of the purchase union. Each variant owns its
// pricing rule and redirect targets.
type purchase interface {
	quote(ctx context.Context, r *plans.Resolver, req models.CheckoutRequest) (*quote, error)
	redirects() redirects
}

// quote is a priced plan ready to be turned into a session spec
type quote struct {
	mode     Mode
	name     string
	charge   plans.Charge
	tokens   int
	metadata map[string]string
}

var purchases = map[PurchaseType]purchase{
	TypeBuyerPro:   buyerPro{},
	TypeTokens:     tokenBundle{},
	TypeSellerPlus: sellerPlus{},
}

func lookupPurchase(t string) (purchase, bool) {
	p, ok := purchases[PurchaseType(t)]
	return p, ok
}

func slugOrDefault(slug, fallback string) string {
	if slug == "" {
		return fallback
	}
	return slug
}

func nameOrDefault(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

type buyerPro struct{}

func (buyerPro) quote(ctx context.Context, r *plans.Resolver, req models.CheckoutRequest) (*quote, error) {
	slug := slugOrDefault(req.PlanSlug, DefaultBuyerProSlug)
	plan, err := r.ResolveSubscription(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &quote{
		mode:   ModeSubscription,
		name:   nameOrDefault(plan.Name, "Buyer Pro"),
		charge: plans.SubscriptionCharge(plan),
		metadata: map[string]string{
			"type":      string(TypeBuyerPro),
			"user_id":   req.UserID,
			"plan_id":   plan.ID,
			"plan_slug": slug,
		},
	}, nil
}

func (buyerPro) redirects() redirects {
	return redirects{
		success: "/buyer-pro?status=success",
		cancel:  "/buyer-pro?status=cancelled",
	}
}

type tokenBundle struct{}

func (tokenBundle) quote(ctx context.Context, r *plans.Resolver, req models.CheckoutRequest) (*quote, error) {
	plan, err := r.ResolveTokenPlan(ctx, req.PlanSlug)
	if err != nil {
		return nil, err
	}
	charge := r.TokenCharge(plan)
	return &quote{
		mode:   ModePayment,
		name:   nameOrDefault(plan.Name, fmt.Sprintf("%d Tokens", plan.Tokens)),
		charge: charge,
		tokens: plan.Tokens,
		metadata: map[string]string{
			"type":       string(TypeTokens),
			"user_id":    req.UserID,
			"plan_id":    plan.ID,
			"plan_slug":  req.PlanSlug,
			"tokens":     strconv.Itoa(plan.Tokens),
			"amount_gbp": charge.Gross.String(),
		},
	}, nil
}

func (tokenBundle) redirects() redirects {
	return redirects{
		success: "/tokens?status=success",
		cancel:  "/tokens?status=cancelled",
	}
}

type sellerPlus struct{}

func (sellerPlus) quote(ctx context.Context, r *plans.Resolver, req models.CheckoutRequest) (*quote, error) {
	slug := slugOrDefault(req.PlanSlug, DefaultSellerPlusSlug)
	plan, err := r.ResolveTokenPlan(ctx, slug)
	if err != nil {
		return nil, err
	}
	charge, err := plans.SellerPlusCharge(plan)
	if err != nil {
		return nil, err
	}
	return &quote{
		mode:   ModeSubscription,
		name:   nameOrDefault(plan.Name, "Seller Plus"),
		charge: charge,
		metadata: map[string]string{
			"type":      string(TypeSellerPlus),
			"user_id":   req.UserID,
			"plan_id":   plan.ID,
			"plan_slug": slug,
		},
	}, nil
}

// Sellers land on their dashboard after paying but return to the upsell page on cancel.
func (sellerPlus) redirects() redirects {
	return redirects{
		success: "/seller/dashboard?status=success",
		cancel:  "/seller-plus?status=cancelled",
	}
}

// spec turns a quote into a gateway session spec rooted at baseURL
func (q *quote) spec(baseURL string, to redirects, userID string) *SessionSpec {
	return &SessionSpec{
		Mode:     q.mode,
		Currency: Currency,
		LineItem: LineItem{
			Name:       q.name,
			UnitAmount: q.charge.AmountMinor,
			Quantity:   1,
			Interval:   q.charge.Interval,
		},
		SuccessURL:        baseURL + to.success + "&session_id=" + checkoutSessionPlaceholder,
		CancelURL:         baseURL + to.cancel,
		ClientReferenceID: userID,
		Metadata:          q.metadata,
	}
}
