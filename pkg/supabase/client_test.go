package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

func TestSelectOne_SendsFiltersAndKeys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/plans", r.URL.Path)
		assert.Equal(t, "eq.buyer-pro", r.URL.Query().Get("slug"))
		assert.Equal(t, "eq.true", r.URL.Query().Get("is_active"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"p1","slug":"buyer-pro"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "service-key")
	var got row
	err := c.SelectOne(context.Background(), "plans", map[string]string{"slug": "buyer-pro", "is_active": "true"}, &got)
	require.NoError(t, err)
	assert.Equal(t, row{ID: "p1", Slug: "buyer-pro"}, got)
}

func TestSelectOne_NoRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	var got row
	err := NewClient(srv.URL, "k").SelectOne(context.Background(), "plans", nil, &got)
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestSelectOne_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid API key"}`))
	}))
	defer srv.Close()

	var got row
	err := NewClient(srv.URL, "bad").SelectOne(context.Background(), "plans", nil, &got)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid API key", apiErr.Message)
	assert.False(t, errors.Is(err, ErrNoRows))
}

func TestSignUp(t *testing.T) {
	tests := []struct {
		name        string
		reply       string
		wantUserID  string
		wantSession bool
	}{
		{
			name:        "confirmation required returns bare user",
			reply:       `{"id":"u-1","email":"a@b.co","confirmation_sent_at":"2026-10-17T10:00:00Z"}`,
			wantUserID:  "u-1",
			wantSession: false,
		},
		{
			name:        "auto confirm returns session",
			reply:       `{"access_token":"jwt","user":{"id":"u-2"}}`,
			wantUserID:  "u-2",
			wantSession: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/auth/v1/signup", r.URL.Path)
				assert.Equal(t, "https://app.example/welcome", r.URL.Query().Get("redirect_to"))

				var body map[string]any
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "a@b.co", body["email"])
				assert.Equal(t, "secret1", body["password"])
				assert.Equal(t, map[string]any{"role": "buyer"}, body["data"])

				_, _ = w.Write([]byte(tt.reply))
			}))
			defer srv.Close()

			res, err := NewClient(srv.URL, "anon").SignUp(context.Background(), SignUpParams{
				Email:      "a@b.co",
				Password:   "secret1",
				Data:       map[string]string{"role": "buyer"},
				RedirectTo: "https://app.example/welcome",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantUserID, res.UserID)
			assert.Equal(t, tt.wantSession, res.HasSession)
		})
	}
}

func TestSignUp_ProviderRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":422,"msg":"User already registered"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "anon").SignUp(context.Background(), SignUpParams{Email: "a@b.co", Password: "x"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "User already registered", apiErr.Message)
}

func TestSelectOne_PlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable\n"))
	}))
	defer srv.Close()

	var got row
	err := NewClient(srv.URL, "k").SelectOne(context.Background(), "plans", nil, &got)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
}

func TestClient_DoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"try later"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "anon").SignUp(context.Background(), SignUpParams{Email: "a@b.co", Password: "secret1"})
	require.Error(t, err)
	assert.EqualValues(t, 1, calls.Load())
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	var got row
	err := NewClient(srv.URL, "k", WithTimeout(50*time.Millisecond)).SelectOne(context.Background(), "plans", nil, &got)
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
