package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jordanlanch/careconnect/pkg/phone"
	"github.com/jordanlanch/careconnect/pkg/signup"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhoneHandler_ValidatePhone(t *testing.T) {
	e := echo.New()
	e.POST("/api/signup/phone/validate", NewPhoneHandler().ValidatePhone)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantE164   string
		wantError  string
	}{
		{"uk mobile default region", `{"phone":"07400 123456"}`, http.StatusOK, "+447400123456", ""},
		{"explicit region", `{"phone":"(202) 456-1111","region":"US"}`, http.StatusOK, "+12024561111", ""},
		{"empty", `{"phone":"  "}`, http.StatusBadRequest, "", "Phone number is required"},
		{"invalid", `{"phone":"0791"}`, http.StatusBadRequest, "", signup.MsgInvalidPhone},
		{"malformed body", `{"phone":`, http.StatusBadRequest, "", "Invalid JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, e, http.MethodPost, "/api/signup/phone/validate", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, tt.wantError, decodeError(t, rec).Error)
				return
			}
			var got phone.Details
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.wantE164, got.E164)
		})
	}
}
