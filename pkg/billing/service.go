package billing

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jordanlanch/careconnect/pkg/domain"
	"github.com/jordanlanch/careconnect/pkg/logger"
	"github.com/jordanlanch/careconnect/pkg/models"
	"github.com/jordanlanch/careconnect/pkg/plans"
)

const (
	msgMissingFields      = "Missing required fields: type and userId"
	msgMissingPlanSlug    = "planSlug is required for token purchases"
	msgUnsupportedType    = "Unsupported purchase type"
	msgPlanMissingPricing = "plan has no price"
)

// Recorder receives checkout outcomes. Satisfied by *metrics.Metrics.
type Recorder interface {
	RecordCheckoutSession(purchaseType string)
	RecordCheckoutFailure(purchaseType, reason string)
}

type nopRecorder struct{}

func (nopRecorder) RecordCheckoutSession(string)         {}
func (nopRecorder) RecordCheckoutFailure(string, string) {}

// Service builds checkout sessions from purchase requests
type Service struct {
	resolver  *plans.Resolver
	gateway   Gateway
	validator *validator.Validate
	recorder  Recorder
	logger    logger.Logger
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithRecorder reports checkout outcomes to r
func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithServiceLogger sets the service logger
func WithServiceLogger(l logger.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a new checkout service
func NewService(resolver *plans.Resolver, gateway Gateway, opts ...ServiceOption) *Service {
	s := &Service{
		resolver:  resolver,
		gateway:   gateway,
		validator: validator.New(),
		recorder:  nopRecorder{},
		logger:    logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCheckoutSession validates req, prices the plan from the data store
// and asks the gateway for a hosted session. Nothing is retried.
func (s *Service) CreateCheckoutSession(ctx context.Context, req models.CheckoutRequest, baseURL string) (*models.CheckoutResponse, error) {
	if err := s.validate(req); err != nil {
		s.recorder.RecordCheckoutFailure(label(req.Type), "validation")
		return nil, err
	}

	p, ok := lookupPurchase(req.Type)
	if !ok {
		s.recorder.RecordCheckoutFailure("unknown", "unsupported_type")
		return nil, domain.NewValidationError(msgUnsupportedType)
	}

	q, err := p.quote(ctx, s.resolver, req)
	if err != nil {
		s.recorder.RecordCheckoutFailure(req.Type, failureReason(err))
		return nil, quoteError(err)
	}

	url, err := s.gateway.CreateSession(ctx, q.spec(baseURL, p.redirects(), req.UserID))
	if err != nil {
		s.recorder.RecordCheckoutFailure(req.Type, "gateway")
		s.logger.Error("checkout session creation failed", "type", req.Type, "user_id", req.UserID, "error", err)
		return nil, domain.NewUpstreamError("create checkout session", err)
	}

	s.recorder.RecordCheckoutSession(req.Type)
	s.logger.Info("checkout session created", "type", req.Type, "user_id", req.UserID, "amount_minor", q.charge.AmountMinor)
	return &models.CheckoutResponse{URL: url}, nil
}

// Quote prices a plan without creating a session
func (s *Service) Quote(ctx context.Context, purchaseType, slug string) (*models.PriceQuote, error) {
	p, ok := lookupPurchase(purchaseType)
	if !ok {
		return nil, domain.NewValidationError(msgUnsupportedType)
	}
	q, err := p.quote(ctx, s.resolver, models.CheckoutRequest{Type: purchaseType, PlanSlug: slug})
	if err != nil {
		return nil, quoteError(err)
	}

	quote := &models.PriceQuote{
		Type:        purchaseType,
		PlanID:      q.metadata["plan_id"],
		PlanSlug:    q.metadata["plan_slug"],
		Name:        q.name,
		Currency:    Currency,
		AmountMinor: q.charge.AmountMinor,
		Interval:    q.charge.Interval,
		Tokens:      q.tokens,
	}
	return quote, nil
}

func (s *Service) validate(req models.CheckoutRequest) error {
	err := s.validator.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) == 1 && verrs[0].Field() == "PlanSlug" {
		return domain.NewValidationError(msgMissingPlanSlug)
	}
	return domain.NewValidationError(msgMissingFields)
}

func quoteError(err error) error {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return err
	}
	// pricing failures on a found plan mean the stored record is unusable
	return domain.NewInternalError(errors.Join(errors.New(msgPlanMissingPricing), err))
}

// label keeps metric cardinality bounded to known purchase types
func label(purchaseType string) string {
	if _, ok := lookupPurchase(purchaseType); ok {
		return purchaseType
	}
	return "unknown"
}

func failureReason(err error) string {
	switch {
	case domain.IsNotFound(err):
		return "plan_not_found"
	case domain.IsUpstream(err):
		return "data_store"
	default:
		return "pricing"
	}
}
