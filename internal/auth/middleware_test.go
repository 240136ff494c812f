package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func identityServer(t *testing.T, tokens map[string]Principal) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/verify" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		principal, ok := tokens[token]
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(principal)
	}))
}

func testAdapter(t *testing.T, srv *httptest.Server) *IdentityAdapter {
	t.Helper()
	trimmed := strings.TrimPrefix(srv.URL, "http://")
	idx := strings.LastIndex(trimmed, ":")
	return NewIdentityAdapter(testLog(), trimmed[:idx], trimmed[idx:])
}

func TestIdentityAdapterVerify(t *testing.T) {
	srv := identityServer(t, map[string]Principal{
		"good-token": {ID: "user-1", MembershipType: "gold", EmailVerified: true},
	})
	defer srv.Close()

	adapter := testAdapter(t, srv)

	principal, code, err := adapter.Verify("good-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != 200 || principal == nil {
		t.Fatalf("expected 200 with principal, got %d %v", code, principal)
	}
	if principal.ID != "user-1" || principal.MembershipType != "gold" {
		t.Errorf("unexpected principal: %+v", principal)
	}

	principal, code, err = adapter.Verify("bad-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != 401 || principal != nil {
		t.Errorf("expected 401 with nil principal, got %d %v", code, principal)
	}
}

func protectedRouter(adapter *IdentityAdapter, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlers := append([]gin.HandlerFunc{Authenticate(adapter)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetPrincipal(c).ID})
	})
	router.GET("/protected", handlers...)
	return router
}

func TestAuthenticate(t *testing.T) {
	srv := identityServer(t, map[string]Principal{
		"good-token": {ID: "user-1", EmailVerified: true},
	})
	defer srv.Close()

	router := protectedRouter(testAdapter(t, srv))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid token", header: "Bearer good-token", want: http.StatusOK},
		{name: "invalid token", header: "Bearer bad-token", want: http.StatusUnauthorized},
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", want: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRequireVerifiedAndAdmin(t *testing.T) {
	srv := identityServer(t, map[string]Principal{
		"unverified": {ID: "user-1"},
		"verified":   {ID: "user-2", EmailVerified: true},
		"admin":      {ID: "user-3", EmailVerified: true, IsAdmin: true},
	})
	defer srv.Close()

	adapter := testAdapter(t, srv)

	tests := []struct {
		name  string
		extra gin.HandlerFunc
		token string
		want  int
	}{
		{name: "unverified blocked", extra: RequireVerified(), token: "unverified", want: http.StatusForbidden},
		{name: "verified passes", extra: RequireVerified(), token: "verified", want: http.StatusOK},
		{name: "non-admin blocked", extra: RequireAdmin(), token: "verified", want: http.StatusForbidden},
		{name: "admin passes", extra: RequireAdmin(), token: "admin", want: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := protectedRouter(adapter, tc.extra)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+tc.token)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}
