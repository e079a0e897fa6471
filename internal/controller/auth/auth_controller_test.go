package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Axolotls/config"
)

func newTestConfig(emails ...string) *config.Config {
	return &config.Config{
		SessionSecret:    "test-secret",
		AuthorizedEmails: emails,
	}
}

func newGatedRouter(ctrl *Controller) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/protected", ctrl.RequireAdminAPI(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": c.GetString(AdminEmailKey)})
	})
	r.GET("/dashboard", ctrl.RequireAdminPage(), func(c *gin.Context) {
		c.String(http.StatusOK, "dashboard")
	})
	return r
}

func TestSessionTokenRoundTrip(t *testing.T) {
	ctrl := NewController(newTestConfig("admin@example.com"))

	token, err := ctrl.IssueSessionToken("admin@example.com")
	if err != nil {
		t.Fatalf("IssueSessionToken returned error: %v", err)
	}

	email, err := ctrl.parseSessionToken(token)
	if err != nil {
		t.Fatalf("parseSessionToken returned error: %v", err)
	}
	if email != "admin@example.com" {
		t.Errorf("subject = %q, want admin@example.com", email)
	}
}

func TestParseSessionTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewController(newTestConfig("admin@example.com"))
	token, err := issuer.IssueSessionToken("admin@example.com")
	if err != nil {
		t.Fatalf("IssueSessionToken returned error: %v", err)
	}

	verifier := NewController(&config.Config{
		SessionSecret:    "a-different-secret",
		AuthorizedEmails: []string{"admin@example.com"},
	})
	if _, err := verifier.parseSessionToken(token); err == nil {
		t.Error("expected a token signed with another secret to be rejected")
	}
}

func TestRequireAdminAPINoSession(t *testing.T) {
	ctrl := NewController(newTestConfig("admin@example.com"))
	router := newGatedRouter(ctrl)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/protected", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRequireAdminAPIValidSession(t *testing.T) {
	ctrl := NewController(newTestConfig("admin@example.com"))
	router := newGatedRouter(ctrl)

	token, err := ctrl.IssueSessionToken("admin@example.com")
	if err != nil {
		t.Fatalf("IssueSessionToken returned error: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}
}

func TestRequireAdminAPIRevokedEmail(t *testing.T) {
	// The session was issued while the email was on the allow-list.
	issuer := NewController(newTestConfig("former-admin@example.com"))
	token, err := issuer.IssueSessionToken("former-admin@example.com")
	if err != nil {
		t.Fatalf("IssueSessionToken returned error: %v", err)
	}

	// The list no longer contains the email; the cookie must stop working.
	ctrl := NewController(&config.Config{
		SessionSecret:    "test-secret",
		AuthorizedEmails: []string{"someone-else@example.com"},
	})
	router := newGatedRouter(ctrl)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRequireAdminAPIGarbageToken(t *testing.T) {
	ctrl := NewController(newTestConfig("admin@example.com"))
	router := newGatedRouter(ctrl)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "not-a-jwt"})
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRequireAdminPageRedirectsToLogin(t *testing.T) {
	ctrl := NewController(newTestConfig("admin@example.com"))
	router := newGatedRouter(ctrl)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusTemporaryRedirect)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect location = %q, want /login", loc)
	}
}

func TestRequireAdminPageValidSession(t *testing.T) {
	ctrl := NewController(newTestConfig("admin@example.com"))
	router := newGatedRouter(ctrl)

	token, err := ctrl.IssueSessionToken("admin@example.com")
	if err != nil {
		t.Fatalf("IssueSessionToken returned error: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}
