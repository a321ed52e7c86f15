package billing

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeConfig holds Stripe configuration
type StripeConfig struct {
	SecretKey string
	// APIURL overrides the Stripe endpoint. Used by tests.
	APIURL     string
	HTTPClient *http.Client
}

// StripeGateway creates hosted checkout sessions on Stripe
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway creates a gateway with its own API client. Network
// retries are disabled so a failed request surfaces to the caller once.
func NewStripeGateway(cfg StripeConfig) (*StripeGateway, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	backend := func(t stripe.SupportedBackend) stripe.Backend {
		bc := &stripe.BackendConfig{
			HTTPClient:        httpClient,
			MaxNetworkRetries: stripe.Int64(0),
			LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
		}
		if cfg.APIURL != "" {
			bc.URL = stripe.String(cfg.APIURL)
		}
		return stripe.GetBackendWithConfig(t, bc)
	}

	api := client.New(cfg.SecretKey, &stripe.Backends{
		API:     backend(stripe.APIBackend),
		Connect: backend(stripe.ConnectBackend),
		Uploads: backend(stripe.UploadsBackend),
	})
	return &StripeGateway{api: api}, nil
}

// CreateSession creates a checkout session with inline price data and
// returns its hosted URL
func (g *StripeGateway) CreateSession(ctx context.Context, spec *SessionSpec) (string, error) {
	priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
		Currency:   stripe.String(strings.ToLower(spec.Currency)),
		UnitAmount: stripe.Int64(spec.LineItem.UnitAmount),
		ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(spec.LineItem.Name),
		},
	}
	if spec.LineItem.Interval != "" {
		priceData.Recurring = &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
			Interval: stripe.String(spec.LineItem.Interval),
		}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(spec.Mode)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: priceData,
				Quantity:  stripe.Int64(spec.LineItem.Quantity),
			},
		},
		SuccessURL:        stripe.String(spec.SuccessURL),
		CancelURL:         stripe.String(spec.CancelURL),
		ClientReferenceID: stripe.String(spec.ClientReferenceID),
	}
	for k, v := range spec.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}
