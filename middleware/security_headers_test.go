package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestBuildCSP(t *testing.T) {
	tests := []struct {
		name        string
		config      SecurityConfig
		wantScript  string
		wantConnect string
	}{
		{
			name:       "locked down",
			config:     SecurityConfig{},
			wantScript: "script-src 'self'",
		},
		{
			name:       "inline js allowed",
			config:     SecurityConfig{AllowInlineJS: true},
			wantScript: "script-src 'self' 'unsafe-inline'",
		},
		{
			name:       "eval allowed",
			config:     SecurityConfig{AllowEval: true},
			wantScript: "script-src 'self' 'unsafe-eval'",
		},
		{
			name:       "inline js and eval allowed",
			config:     SecurityConfig{AllowInlineJS: true, AllowEval: true},
			wantScript: "script-src 'self' 'unsafe-inline' 'unsafe-eval'",
		},
		{
			name:        "connect domains",
			config:      SecurityConfig{AllowedDomains: []string{"portal.avelocapital.com"}},
			wantScript:  "script-src 'self'",
			wantConnect: "connect-src 'self' portal.avelocapital.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csp := buildCSP(tt.config)
			directives := strings.Split(csp, "; ")

			if !containsDirective(directives, tt.wantScript) {
				t.Errorf("buildCSP(%+v) = %q, want script directive %q", tt.config, csp, tt.wantScript)
			}
			if tt.wantConnect != "" && !containsDirective(directives, tt.wantConnect) {
				t.Errorf("buildCSP(%+v) = %q, want connect directive %q", tt.config, csp, tt.wantConnect)
			}
			if !tt.config.AllowEval && strings.Contains(csp, "'unsafe-eval'") {
				t.Errorf("buildCSP(%+v) = %q, contains 'unsafe-eval' without AllowEval", tt.config, csp)
			}
		})
	}
}

func containsDirective(directives []string, want string) bool {
	for _, d := range directives {
		if d == want {
			return true
		}
	}
	return false
}

func TestSecurityHeadersWithConfig(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := SecurityHeadersWithConfig(SecurityConfig{
		AllowedDomains: []string{"portal.avelocapital.com"},
	})(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	h := rec.Header()
	if got := h.Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
	if got := h.Get("Content-Security-Policy"); !strings.Contains(got, "default-src 'self'") {
		t.Errorf("Content-Security-Policy = %q, want default-src directive", got)
	}
}
