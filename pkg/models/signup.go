package models

// OpenWizardRequest opens a signup wizard, optionally pre-seeded
type OpenWizardRequest struct {
	Service  string `json:"service,omitempty"`
	Location string `json:"location,omitempty"`
}

// WizardPatch carries draft field updates. Nil fields are left untouched.
type WizardPatch struct {
	Service         *string `json:"service,omitempty"`
	Urgency         *string `json:"urgency,omitempty"`
	Budget          *string `json:"budget,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	Email           *string `json:"email,omitempty"`
	Password        *string `json:"password,omitempty"`
	ConfirmPassword *string `json:"confirmPassword,omitempty"`
	BusinessType    *string `json:"businessType,omitempty"`
	BusinessSize    *string `json:"businessSize,omitempty"`
	Location        *string `json:"location,omitempty"`
	Phone           *string `json:"phone,omitempty"`
}

// WizardDraftView is the draft as shown to the client (passwords are never echoed)
type WizardDraftView struct {
	Service      string `json:"service"`
	Urgency      string `json:"urgency"`
	Budget       string `json:"budget"`
	Notes        string `json:"notes"`
	Email        string `json:"email"`
	BusinessType string `json:"businessType"`
	BusinessSize string `json:"businessSize"`
	Location     string `json:"location"`
	Phone        string `json:"phone"`
}

// WizardResponse describes the current state of a signup wizard
type WizardResponse struct {
	ID           string          `json:"id"`
	Step         int             `json:"step"`
	StepName     string          `json:"step_name"`
	Closed       bool            `json:"closed"`
	Outcome      string          `json:"outcome,omitempty"`
	Notice       string          `json:"notice,omitempty"`
	Error        string          `json:"error,omitempty"`
	PendingEmail string          `json:"pending_email,omitempty"`
	Submitting   bool            `json:"submitting"`
	Draft        WizardDraftView `json:"draft"`
}

// AuthSignedInHook is posted by the auth provider once an account becomes authenticated
type AuthSignedInHook struct {
	Email string `json:"email" validate:"required,email"`
}
