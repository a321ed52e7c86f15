package signup

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jordanlanch/careconnect/pkg/authevents"
	"github.com/jordanlanch/careconnect/pkg/domain"
	"github.com/jordanlanch/careconnect/pkg/logger"
	"github.com/jordanlanch/careconnect/pkg/models"
	"github.com/jordanlanch/careconnect/pkg/phone"
)

// Step is a wizard step
type Step int

const (
	StepService Step = iota + 1
	StepTimeline
	StepBudget
	StepCredentials
	StepAwaitingConfirmation
)

func (s Step) String() string {
	switch s {
	case StepService:
		return "service"
	case StepTimeline:
		return "timeline"
	case StepBudget:
		return "budget"
	case StepCredentials:
		return "credentials"
	case StepAwaitingConfirmation:
		return "awaiting_confirmation"
	default:
		return "unknown"
	}
}

// Outcome records how a wizard closed
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeSignedIn  Outcome = "signed_in"
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeTimeout   Outcome = "timeout"
	OutcomeCancelled Outcome = "cancelled"
)

// DefaultConfirmationTimeout bounds the wait for email confirmation
const DefaultConfirmationTimeout = 5 * time.Minute

// BuyerRole is the role given to accounts created by the wizard
const BuyerRole = "buyer"

// User-visible messages
const (
	MsgSelectService    = "Please select a service"
	MsgSelectUrgency    = "Please choose when you need the service"
	MsgSelectBudget     = "Please choose a budget"
	MsgPasswordMismatch = "Passwords do not match"
	MsgInvalidEmail     = "Please enter a valid email address"
	MsgShortPassword    = "Password must be at least 6 characters"
	MsgInvalidPhone     = "Please enter a valid phone number"
	MsgSubmitFailed     = "Something went wrong creating your account. Please try again."
	TimeoutNotice       = "We haven't seen your email confirmation yet. Once you've confirmed, sign in to continue."
)

var (
	errClosed     = domain.NewBadRequestError("This sign-up has already finished")
	errSubmitting = domain.NewBadRequestError("Your account is being created")
	errAwaiting   = domain.NewBadRequestError("Waiting for email confirmation")
)

// Draft holds everything entered so far
type Draft struct {
	Service         string
	Urgency         string
	Budget          string
	Notes           string
	Email           string
	Password        string
	ConfirmPassword string
	BusinessType    string
	BusinessSize    string
	Location        string
	Phone           string
}

// Preset pre-seeds a wizard opened from a service or location page
type Preset struct {
	Service  string
	Location string
}

// SignUpRequest is sent to the auth provider
type SignUpRequest struct {
	Email    string
	Password string
	Name     string
	Role     string
	Metadata map[string]string
}

// SignUpResult is the auth provider's answer
type SignUpResult struct {
	UserID               string
	RequiresConfirmation bool
}

// AuthProvider creates accounts
type AuthProvider interface {
	SignUp(ctx context.Context, req SignUpRequest) (*SignUpResult, error)
}

// AuthWatcher hands out listeners for an address becoming authenticated
type AuthWatcher interface {
	Register(ctx context.Context, email string) (authevents.Listener, error)
}

// State is a point-in-time copy of a wizard
type State struct {
	Step         Step
	Closed       bool
	Outcome      Outcome
	Notice       string
	Error        string
	PendingEmail string
	Submitting   bool
	Draft        Draft
}

// Wizard is one sign-up dialog. All methods are safe for concurrent use.
type Wizard struct {
	mu sync.Mutex

	auth     AuthProvider
	watcher  AuthWatcher
	timeout  time.Duration
	logger   logger.Logger
	validate *validator.Validate
	onClose  func(Outcome)

	step           Step
	serviceSkipped bool
	draft          Draft
	lastError      string
	submitting     bool
	pendingEmail   string
	closed         bool
	outcome        Outcome
	notice         string
	lastActive     time.Time

	// awaitGen invalidates any await that started before the last
	// transition out of StepAwaitingConfirmation
	awaitGen    uint64
	cancelAwait context.CancelFunc
	done        chan struct{}
}

// Option configures a Wizard
type Option func(*Wizard)

// WithWatcher lets the wizard close itself when the pending address signs in
func WithWatcher(w AuthWatcher) Option {
	return func(wz *Wizard) {
		wz.watcher = w
	}
}

// WithConfirmationTimeout overrides DefaultConfirmationTimeout
func WithConfirmationTimeout(d time.Duration) Option {
	return func(wz *Wizard) {
		if d > 0 {
			wz.timeout = d
		}
	}
}

// WithLogger sets the wizard logger
func WithLogger(l logger.Logger) Option {
	return func(wz *Wizard) {
		wz.logger = l
	}
}

// WithOnClose registers fn to run once when the wizard closes. fn runs
// with the wizard locked and must not call back into it.
func WithOnClose(fn func(Outcome)) Option {
	return func(wz *Wizard) {
		wz.onClose = fn
	}
}

// New opens a wizard. A preset service skips StepService.
func New(auth AuthProvider, preset Preset, opts ...Option) *Wizard {
	w := &Wizard{
		auth:       auth,
		timeout:    DefaultConfirmationTimeout,
		logger:     logger.Default(),
		validate:   validator.New(),
		step:       StepService,
		lastActive: time.Now(),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.draft.Location = strings.TrimSpace(preset.Location)
	if service := strings.TrimSpace(preset.Service); service != "" {
		w.draft.Service = service
		w.step = StepTimeline
		w.serviceSkipped = true
	}
	return w
}

// State returns a copy of the current state
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return State{
		Step:         w.step,
		Closed:       w.closed,
		Outcome:      w.outcome,
		Notice:       w.notice,
		Error:        w.lastError,
		PendingEmail: w.pendingEmail,
		Submitting:   w.submitting,
		Draft:        w.draft,
	}
}

// Done is closed when the wizard closes
func (w *Wizard) Done() <-chan struct{} {
	return w.done
}

// LastActive returns the time of the last caller action
func (w *Wizard) LastActive() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastActive
}

// Apply updates draft fields. Nil fields are left untouched.
func (w *Wizard) Apply(p models.WizardPatch) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editableLocked(); err != nil {
		return err
	}
	w.touchLocked()

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&w.draft.Service, p.Service)
	set(&w.draft.Urgency, p.Urgency)
	set(&w.draft.Budget, p.Budget)
	set(&w.draft.Notes, p.Notes)
	set(&w.draft.Email, p.Email)
	set(&w.draft.Password, p.Password)
	set(&w.draft.ConfirmPassword, p.ConfirmPassword)
	set(&w.draft.BusinessType, p.BusinessType)
	set(&w.draft.BusinessSize, p.BusinessSize)
	set(&w.draft.Location, p.Location)
	set(&w.draft.Phone, p.Phone)
	return nil
}

// Next advances one step once the current step's own field is set
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editableLocked(); err != nil {
		return err
	}
	w.touchLocked()

	var value, msg string
	switch w.step {
	case StepService:
		value, msg = w.draft.Service, MsgSelectService
	case StepTimeline:
		value, msg = w.draft.Urgency, MsgSelectUrgency
	case StepBudget:
		value, msg = w.draft.Budget, MsgSelectBudget
	default:
		return domain.NewBadRequestError("Submit your details to create the account")
	}

	if strings.TrimSpace(value) == "" {
		return w.rejectLocked(msg)
	}
	w.step++
	return nil
}

// Previous goes back one step. It never returns to a skipped StepService.
func (w *Wizard) Previous() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editableLocked(); err != nil {
		return err
	}
	w.touchLocked()

	switch {
	case w.step == StepService:
	case w.step == StepTimeline && w.serviceSkipped:
	default:
		w.step--
	}
	return nil
}

// Submit creates the account from StepCredentials. The provider is called
// without holding the lock; a wizard closed in the meantime ignores the result.
func (w *Wizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	if err := w.editableLocked(); err != nil {
		w.mu.Unlock()
		return err
	}
	w.touchLocked()
	if w.step != StepCredentials {
		w.mu.Unlock()
		return domain.NewBadRequestError("Complete the earlier steps first")
	}
	req, err := w.signUpRequestLocked()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.submitting = true
	w.lastError = ""
	w.mu.Unlock()

	// listen before the account exists so a fast confirmation is not missed
	listener := w.register(ctx, req.Email)
	res, err := w.auth.SignUp(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false

	if w.closed {
		release(listener)
		return errClosed
	}
	if err != nil {
		release(listener)
		w.logger.Error("account creation failed", "error", err)
		w.lastError = MsgSubmitFailed
		return domain.NewUpstreamError("create account", err)
	}

	w.draft.Phone = req.Metadata["phone"]
	if !res.RequiresConfirmation {
		release(listener)
		w.logger.Info("account created", "user_id", res.UserID)
		w.closeLocked(OutcomeSignedIn)
		return nil
	}

	w.logger.Info("account awaiting confirmation", "user_id", res.UserID)
	w.step = StepAwaitingConfirmation
	w.pendingEmail = req.Email
	w.startAwaitLocked(listener)
	return nil
}

// register returns nil when there is no watcher or it fails; the wizard
// then relies on the confirmation timer alone
func (w *Wizard) register(ctx context.Context, email string) authevents.Listener {
	if w.watcher == nil {
		return nil
	}
	listener, err := w.watcher.Register(ctx, email)
	if err != nil {
		w.logger.Warn("auth watcher failed, relying on timeout", "error", err)
		return nil
	}
	return listener
}

func release(l authevents.Listener) {
	if l != nil {
		l.Cancel()
	}
}

// WrongEmail leaves StepAwaitingConfirmation for StepCredentials, keeping the draft
func (w *Wizard) WrongEmail() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return errClosed
	}
	if w.step != StepAwaitingConfirmation {
		return domain.NewBadRequestError("No confirmation is pending")
	}
	w.touchLocked()
	w.stopAwaitLocked()
	w.step = StepCredentials
	w.pendingEmail = ""
	return nil
}

// Close dismisses the wizard. Closing twice is a no-op.
func (w *Wizard) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.closeLocked(OutcomeCancelled)
	}
}

func (w *Wizard) touchLocked() {
	w.lastActive = time.Now()
}

func (w *Wizard) editableLocked() error {
	switch {
	case w.closed:
		return errClosed
	case w.submitting:
		return errSubmitting
	case w.step == StepAwaitingConfirmation:
		return errAwaiting
	}
	w.lastError = ""
	return nil
}

func (w *Wizard) rejectLocked(msg string) error {
	w.lastError = msg
	return domain.NewValidationError(msg)
}

func (w *Wizard) signUpRequestLocked() (SignUpRequest, error) {
	d := w.draft
	email := strings.TrimSpace(d.Email)

	if d.Password != d.ConfirmPassword {
		return SignUpRequest{}, w.rejectLocked(MsgPasswordMismatch)
	}
	if w.validate.Var(email, "required,email") != nil {
		return SignUpRequest{}, w.rejectLocked(MsgInvalidEmail)
	}
	if w.validate.Var(d.Password, "required,min=6") != nil {
		return SignUpRequest{}, w.rejectLocked(MsgShortPassword)
	}

	phoneNumber := ""
	if strings.TrimSpace(d.Phone) != "" {
		normalized, err := phone.Normalize(d.Phone)
		if err != nil {
			return SignUpRequest{}, w.rejectLocked(MsgInvalidPhone)
		}
		phoneNumber = normalized
	}

	metadata := map[string]string{}
	for k, v := range map[string]string{
		"service":       d.Service,
		"urgency":       d.Urgency,
		"budget":        d.Budget,
		"notes":         d.Notes,
		"business_type": d.BusinessType,
		"business_size": d.BusinessSize,
		"location":      d.Location,
		"phone":         phoneNumber,
	} {
		if v = strings.TrimSpace(v); v != "" {
			metadata[k] = v
		}
	}

	return SignUpRequest{
		Email:    email,
		Password: d.Password,
		Name:     displayName(email),
		Role:     BuyerRole,
		Metadata: metadata,
	}, nil
}

func displayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// startAwaitLocked races the auth signal against the confirmation timer.
// Whichever reaches finishAwait first closes the wizard.
func (w *Wizard) startAwaitLocked(listener authevents.Listener) {
	w.awaitGen++
	gen := w.awaitGen
	ctx, cancel := context.WithCancel(context.Background())
	w.cancelAwait = cancel
	go w.await(ctx, gen, listener)
}

func (w *Wizard) await(ctx context.Context, gen uint64, listener authevents.Listener) {
	signedIn := make(chan struct{})
	if listener != nil {
		defer listener.Cancel()
		go func() {
			err := listener.Wait(ctx)
			if err == nil {
				close(signedIn)
				return
			}
			if ctx.Err() == nil {
				w.logger.Warn("auth watcher failed, relying on timeout", "error", err)
			}
		}()
	}

	timer := time.NewTimer(w.timeout)
	defer timer.Stop()

	select {
	case <-signedIn:
		w.finishAwait(gen, OutcomeConfirmed)
	case <-timer.C:
		w.finishAwait(gen, OutcomeTimeout)
	case <-ctx.Done():
	}
}

func (w *Wizard) finishAwait(gen uint64, outcome Outcome) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.step != StepAwaitingConfirmation || w.awaitGen != gen {
		return
	}
	w.closeLocked(outcome)
}

func (w *Wizard) stopAwaitLocked() {
	w.awaitGen++
	if w.cancelAwait != nil {
		w.cancelAwait()
		w.cancelAwait = nil
	}
}

func (w *Wizard) closeLocked(outcome Outcome) {
	w.stopAwaitLocked()
	w.closed = true
	w.outcome = outcome
	if outcome == OutcomeTimeout {
		w.notice = TimeoutNotice
	}
	// credentials are not kept once the dialog is gone
	w.draft.Password = ""
	w.draft.ConfirmPassword = ""
	close(w.done)

	w.logger.Info("signup wizard closed", "outcome", string(outcome))
	if w.onClose != nil {
		w.onClose(outcome)
	}
}
