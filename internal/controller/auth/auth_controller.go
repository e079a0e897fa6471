package auth

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/Axolotls/config"
	"github.com/lshigami/Axolotls/internal/dto"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	sessionCookieName = "session"
	stateCookieName   = "oauth_state"
	sessionLifetime   = 12 * time.Hour
	stateLifetime     = 10 * time.Minute

	userinfoURL     = "https://www.googleapis.com/oauth2/v2/userinfo"
	googleLogoutURL = "https://accounts.google.com/logout"
)

// AdminEmailKey is the gin context key holding the authenticated admin email.
const AdminEmailKey = "adminEmail"

// Controller implements the Google OAuth consent flow and the session gate in
// front of the admin surface. The session is an HS256 JWT cookie whose
// subject is the verified email; authorization is allow-list membership,
// re-checked on every request so revoking an email takes effect immediately.
type Controller struct {
	cfg   *config.Config
	oauth *oauth2.Config
}

func NewController(cfg *config.Config) *Controller {
	return &Controller{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// IssueSessionToken signs a session JWT for a verified admin email.
func (a *Controller) IssueSessionToken(email string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionLifetime)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.cfg.SessionSecret))
}

func (a *Controller) parseSessionToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(a.cfg.SessionSecret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("session token has no subject")
	}
	return claims.Subject, nil
}

// Login godoc
// @Summary Start the admin login flow
// @Description Redirects to the Google OAuth consent screen.
// @Tags auth
// @Success 307
// @Router /login [get]
func (a *Controller) Login(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		log.Error().Err(err).Msg("Login: failed to generate state nonce")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to start login flow"})
		return
	}
	c.SetCookie(stateCookieName, state, int(stateLifetime.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, a.oauth.AuthCodeURL(state))
}

// Callback godoc
// @Summary OAuth callback
// @Description Exchanges the authorization code, verifies the account email against the allow-list, and establishes the admin session.
// @Tags auth
// @Success 307
// @Router /auth [get]
func (a *Controller) Callback(c *gin.Context) {
	state, err := c.Cookie(stateCookieName)
	if err != nil || state == "" || c.Query("state") != state {
		log.Warn().Msg("Callback: state mismatch")
		c.Redirect(http.StatusTemporaryRedirect, "/unauthorized")
		return
	}
	c.SetCookie(stateCookieName, "", -1, "/", "", false, true)

	token, err := a.oauth.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		log.Error().Err(err).Msg("Callback: code exchange failed")
		c.Redirect(http.StatusTemporaryRedirect, "/unauthorized")
		return
	}

	resp, err := a.oauth.Client(c.Request.Context(), token).Get(userinfoURL)
	if err != nil {
		log.Error().Err(err).Msg("Callback: userinfo request failed")
		c.Redirect(http.StatusTemporaryRedirect, "/unauthorized")
		return
	}
	defer resp.Body.Close()

	var userInfo struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil || userInfo.Email == "" {
		log.Error().Err(err).Msg("Callback: failed to decode userinfo")
		c.Redirect(http.StatusTemporaryRedirect, "/unauthorized")
		return
	}

	if !a.cfg.IsEmailAuthorized(userInfo.Email) {
		log.Warn().Str("email", userInfo.Email).Msg("Callback: email not on allow-list")
		c.Redirect(http.StatusTemporaryRedirect, "/unauthorized")
		return
	}

	sessionToken, err := a.IssueSessionToken(userInfo.Email)
	if err != nil {
		log.Error().Err(err).Msg("Callback: failed to sign session token")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to establish session"})
		return
	}
	c.SetCookie(sessionCookieName, sessionToken, int(sessionLifetime.Seconds()), "/", "", false, true)

	log.Info().Str("email", userInfo.Email).Msg("Admin logged in")
	c.Redirect(http.StatusTemporaryRedirect, "/dashboard")
}

// Logout godoc
// @Summary End the admin session
// @Tags auth
// @Success 307
// @Router /logout [get]
func (a *Controller) Logout(c *gin.Context) {
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, googleLogoutURL)
}

// Unauthorized renders the access-denied page shown to accounts that are not
// on the allow-list.
func (a *Controller) Unauthorized(c *gin.Context) {
	c.Data(http.StatusForbidden, "text/html; charset=utf-8",
		[]byte("<h1>Access Denied</h1><p>Your account is not authorized to view this page.</p>"))
}

func (a *Controller) sessionEmail(c *gin.Context) (string, bool) {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie == "" {
		return "", false
	}
	email, err := a.parseSessionToken(cookie)
	if err != nil {
		log.Warn().Err(err).Msg("Rejecting invalid session token")
		return "", false
	}
	if !a.cfg.IsEmailAuthorized(email) {
		log.Warn().Str("email", email).Msg("Rejecting session for email no longer on allow-list")
		return "", false
	}
	return email, true
}

// RequireAdminAPI guards JSON endpoints: no valid session means 401.
func (a *Controller) RequireAdminAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := a.sessionEmail(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Authentication required"})
			return
		}
		c.Set(AdminEmailKey, email)
		c.Next()
	}
}

// RequireAdminPage guards HTML pages: no valid session means the login flow.
func (a *Controller) RequireAdminPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := a.sessionEmail(c)
		if !ok {
			c.Redirect(http.StatusTemporaryRedirect, "/login")
			c.Abort()
			return
		}
		c.Set(AdminEmailKey, email)
		c.Next()
	}
}
