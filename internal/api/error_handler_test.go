package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/telvista/crm-backoffice/internal/core/domain"
)

func renderError(t *testing.T, err error) (*httptest.ResponseRecorder, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return rec, resp
}

func TestErrorHandlerMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"duplicate account", domain.ErrCredentialExists, http.StatusConflict},
		{"weak password", domain.ErrWeakPassword, http.StatusBadRequest},
		{"validation", fmt.Errorf("%w: amount must be positive", domain.ErrValidation), http.StatusBadRequest},
		{"sale reference", fmt.Errorf("%w: customer cust-1", domain.ErrSaleReference), http.StatusUnprocessableEntity},
		{"credential not found", domain.ErrCredentialNotFound, http.StatusNotFound},
		{"customer not found", domain.ErrCustomerNotFound, http.StatusNotFound},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"unavailable", domain.ErrUnavailable, http.StatusServiceUnavailable},
		{"echo error passthrough", echo.NewHTTPError(http.StatusTeapot, "teapot"), http.StatusTeapot},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, resp := renderError(t, tc.err)
			if rec.Code != tc.code {
				t.Fatalf("status = %d, want %d", rec.Code, tc.code)
			}
			if resp.Error == "" {
				t.Error("empty error message")
			}
		})
	}
}

// Internal failure details never reach the client.
func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	rec, resp := renderError(t, errors.New("mongo: connection refused at 10.0.0.3"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if resp.Error != "internal server error" {
		t.Errorf("message = %q, want generic", resp.Error)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.3") {
		t.Error("internal detail leaked to the client")
	}
}
