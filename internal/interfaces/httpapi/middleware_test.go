package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/user"
	"github.com/riskibarqy/betslip-analyzer/internal/usecase"
)

type stubVerifier struct {
	principals map[string]user.Principal
	calls      int
}

func (s *stubVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	s.calls++
	p, ok := s.principals[token]
	if !ok {
		return user.Principal{}, usecase.ErrUnauthorized
	}
	return p, nil
}

func principalEcho(t *testing.T, wantAuth bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := principalFromContext(r.Context())
		if ok != wantAuth {
			t.Errorf("principal present=%v, want %v", ok, wantAuth)
		}
		_, _ = w.Write([]byte(p.UserID))
	})
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	verifier := &stubVerifier{principals: map[string]user.Principal{"good": {UserID: "user-1", Email: "a@b.c"}}}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "rejected token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer good", want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/account", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			RequireAuth(verifier, principalEcho(t, tt.want == http.StatusOK)).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status=%d want=%d body=%s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	t.Parallel()

	verifier := &stubVerifier{}
	req := httptest.NewRequest(http.MethodPost, "/api/googleplay/verify", nil)
	rec := httptest.NewRecorder()

	OptionalAuth(verifier, principalEcho(t, false)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if verifier.calls != 0 {
		t.Fatalf("verifier called %d times for anonymous request", verifier.calls)
	}
}

func TestOptionalAuth_RejectsBadToken(t *testing.T) {
	t.Parallel()

	verifier := &stubVerifier{}
	req := httptest.NewRequest(http.MethodPost, "/api/googleplay/verify", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rec := httptest.NewRecorder()

	OptionalAuth(verifier, principalEcho(t, false)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d", rec.Code)
	}
}

func TestShouldTraceRequest(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"/healthz", "/health", "/livez", "/readyz", " /healthz "} {
		if shouldTraceRequest(path) {
			t.Fatalf("expected no tracing for path %q", path)
		}
	}
	for _, path := range []string{"/v1/analyses", "/api/shopier/callback", "/"} {
		if !shouldTraceRequest(path) {
			t.Fatalf("expected tracing for path %q", path)
		}
	}
}

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{in: "httpapi.Handler.CreateAnalysis", want: true},
		{in: "httpapi.RequestLogging", want: false},
		{in: "httpapi.writeError", want: false},
	}
	for _, tt := range tests {
		if got := shouldCreateHTTPAPISpan(tt.in); got != tt.want {
			t.Fatalf("shouldCreateHTTPAPISpan(%q)=%v want=%v", tt.in, got, tt.want)
		}
	}
}

func TestCORS(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("configured origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/packages", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		CORS([]string{"https://app.example.com"}, next).ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
			t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/v1/analyses", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		CORS([]string{"*"}, next).ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
		}
	})

	t.Run("unconfigured origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/packages", nil)
		req.Header.Set("Origin", "https://not-allowed.example.com")
		rec := httptest.NewRecorder()
		CORS([]string{"https://allowed.example.com"}, next).ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Fatalf("expected empty Access-Control-Allow-Origin, got %q", got)
		}
	})
}
