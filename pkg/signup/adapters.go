package signup

import (
	"context"

	"github.com/jordanlanch/careconnect/pkg/supabase"
)

// SupabaseAuthAdapter adapts the hosted auth API to the AuthProvider interface
type SupabaseAuthAdapter struct {
	client     *supabase.Client
	redirectTo string
}

// NewSupabaseAuthAdapter creates an adapter. redirectTo is where the
// confirmation email link lands; empty uses the provider default.
func NewSupabaseAuthAdapter(c *supabase.Client, redirectTo string) *SupabaseAuthAdapter {
	return &SupabaseAuthAdapter{client: c, redirectTo: redirectTo}
}

// SignUp creates the account. No session in the reply means the provider
// wants the address confirmed first.
func (a *SupabaseAuthAdapter) SignUp(ctx context.Context, req SignUpRequest) (*SignUpResult, error) {
	data := make(map[string]string, len(req.Metadata)+2)
	for k, v := range req.Metadata {
		data[k] = v
	}
	data["name"] = req.Name
	data["role"] = req.Role

	res, err := a.client.SignUp(ctx, supabase.SignUpParams{
		Email:      req.Email,
		Password:   req.Password,
		Data:       data,
		RedirectTo: a.redirectTo,
	})
	if err != nil {
		return nil, err
	}
	return &SignUpResult{
		UserID:               res.UserID,
		RequiresConfirmation: !res.HasSession,
	}, nil
}
