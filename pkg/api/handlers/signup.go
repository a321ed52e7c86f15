package handlers

import (
	"log"
	"net/http"

	apierrors "github.com/jordanlanch/careconnect/pkg/api/errors"
	"github.com/jordanlanch/careconnect/pkg/domain"
	"github.com/jordanlanch/careconnect/pkg/models"
	"github.com/jordanlanch/careconnect/pkg/signup"
	"github.com/labstack/echo/v4"
)

// SignupHandler hosts signup wizards, one per dialog session
type SignupHandler struct {
	manager *signup.Manager
}

// NewSignupHandler creates a new signup handler
func NewSignupHandler(manager *signup.Manager) *SignupHandler {
	return &SignupHandler{manager: manager}
}

// Register mounts the wizard routes on g
func (h *SignupHandler) Register(g *echo.Group) {
	g.POST("", h.Open)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.POST("/:id/next", h.Next)
	g.POST("/:id/previous", h.Previous)
	g.POST("/:id/submit", h.Submit)
	g.POST("/:id/wrong-email", h.WrongEmail)
	g.DELETE("/:id", h.Close)
}

// Open godoc
// @Summary Open a signup wizard
// @Description A preset service skips the service step
// @Tags Signup
// @Accept json
// @Produce json
// @Param request body models.OpenWizardRequest false "Preset"
// @Success 201 {object} models.WizardResponse
// @Router /signup/wizards [post]
func (h *SignupHandler) Open(c echo.Context) error {
	var req models.OpenWizardRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return apierrors.BadRequest(c, domain.ErrCodeBadRequest, "Invalid JSON body")
		}
	}

	id, w := h.manager.Open(signup.Preset{Service: req.Service, Location: req.Location})
	return c.JSON(http.StatusCreated, wizardResponse(id, w.State()))
}

// Get returns the wizard state
func (h *SignupHandler) Get(c echo.Context) error {
	return h.withWizard(c, func(id string, w *signup.Wizard) error {
		return c.JSON(http.StatusOK, wizardResponse(id, w.State()))
	})
}

// Update applies a draft patch
func (h *SignupHandler) Update(c echo.Context) error {
	return h.withWizard(c, func(id string, w *signup.Wizard) error {
		var patch models.WizardPatch
		if err := c.Bind(&patch); err != nil {
			return apierrors.BadRequest(c, domain.ErrCodeBadRequest, "Invalid JSON body")
		}

		return h.respond(c, id, w, w.Apply(patch))
	})
}

// Next advances past the current intent step
func (h *SignupHandler) Next(c echo.Context) error {
	return h.withWizard(c, func(id string, w *signup.Wizard) error {
		return h.respond(c, id, w, w.Next())
	})
}

// Previous goes back one step
func (h *SignupHandler) Previous(c echo.Context) error {
	return h.withWizard(c, func(id string, w *signup.Wizard) error {
		return h.respond(c, id, w, w.Previous())
	})
}

// Submit godoc
// @Summary Create the account from the credentials step
// @Tags Signup
// @Produce json
// @Param id path string true "Wizard ID"
// @Success 200 {object} models.WizardResponse "closed with outcome signed_in, or awaiting confirmation"
// @Failure 422 {object} models.WizardResponse "credentials rejected, draft kept"
// @Failure 502 {object} models.WizardResponse "account creation failed, retry allowed"
// @Router /signup/wizards/{id}/submit [post]
func (h *SignupHandler) Submit(c echo.Context) error {
	return h.withWizard(c, func(id string, w *signup.Wizard) error {
		return h.respond(c, id, w, w.Submit(c.Request().Context()))
	})
}

// WrongEmail returns from the confirmation step to the credentials step
func (h *SignupHandler) WrongEmail(c echo.Context) error {
	return h.withWizard(c, func(id string, w *signup.Wizard) error {
		return h.respond(c, id, w, w.WrongEmail())
	})
}

// Close dismisses the wizard and cancels any pending confirmation timer
func (h *SignupHandler) Close(c echo.Context) error {
	return h.withWizard(c, func(id string, w *signup.Wizard) error {
		if err := h.manager.Close(id); err != nil {
			return apierrors.NotFoundError(c, "signup wizard")
		}
		return c.JSON(http.StatusOK, wizardResponse(id, w.State()))
	})
}

func (h *SignupHandler) withWizard(c echo.Context, fn func(id string, w *signup.Wizard) error) error {
	id := c.Param("id")
	w, err := h.manager.Get(id)
	if err != nil {
		return apierrors.NotFoundError(c, "signup wizard")
	}
	return fn(id, w)
}

// respond renders the wizard after a transition. Rejections keep the draft and
// carry the in-place message in the state.
func (h *SignupHandler) respond(c echo.Context, id string, w *signup.Wizard, err error) error {
	view := wizardResponse(id, w.State())
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, view)
	case domain.IsValidation(err):
		return c.JSON(http.StatusUnprocessableEntity, view)
	case domain.IsBadRequest(err):
		return apierrors.ConflictError(c, domain.Message(err))
	case domain.IsUpstream(err):
		log.Printf("[SIGNUP ERROR] Wizard: %s, Error: %v", id, err)
		return c.JSON(http.StatusBadGateway, view)
	default:
		return apierrors.Respond(c, err)
	}
}

func wizardResponse(id string, s signup.State) models.WizardResponse {
	return models.WizardResponse{
		ID:           id,
		Step:         int(s.Step),
		StepName:     s.Step.String(),
		Closed:       s.Closed,
		Outcome:      string(s.Outcome),
		Notice:       s.Notice,
		Error:        s.Error,
		PendingEmail: s.PendingEmail,
		Submitting:   s.Submitting,
		Draft: models.WizardDraftView{
			Service:      s.Draft.Service,
			Urgency:      s.Draft.Urgency,
			Budget:       s.Draft.Budget,
			Notes:        s.Draft.Notes,
			Email:        s.Draft.Email,
			BusinessType: s.Draft.BusinessType,
			BusinessSize: s.Draft.BusinessSize,
			Location:     s.Draft.Location,
			Phone:        s.Draft.Phone,
		},
	}
}
