package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runRBAC(t *testing.T, role string, allowed ...string) (*httptest.ResponseRecorder, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	reached := false
	handler := RBAC(allowed...)(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return rec, reached, err
}

func TestRBAC(t *testing.T) {
	cases := []struct {
		name    string
		role    string
		allowed []string
		want    bool
	}{
		{"admin on admin route", "admin", []string{"admin"}, true},
		{"client on admin route", "client", []string{"admin"}, false},
		{"client on shared route", "client", []string{"admin", "client"}, true},
		{"missing role", "", []string{"admin", "client"}, false},
		{"unknown role", "superuser", []string{"admin", "client"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, reached, err := runRBAC(t, tc.role, tc.allowed...)
			if err != nil {
				t.Fatalf("middleware: %v", err)
			}
			if reached != tc.want {
				t.Fatalf("handler reached = %v, want %v", reached, tc.want)
			}
			if !tc.want && rec.Code != http.StatusForbidden {
				t.Errorf("status = %d, want 403", rec.Code)
			}
		})
	}
}
