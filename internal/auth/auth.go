package auth

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/shuvo-dotcom/group-ordering-hub/internal/apperr"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/logger"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/repos"
)

const (
	sessionName    = "gosess"
	sessionUserKey = "user_id"
	// ContextUserKey is where RequireAuth stores the resolved principal.
	ContextUserKey = "principal"
)

type Authenticator struct {
	provider     *oidc.Provider
	verifier     *oidc.IDTokenVerifier
	oauth2Config *oauth2.Config
	users        repos.UserRepo
	log          *logger.Logger
}

func New(ctx context.Context, users repos.UserRepo, baseLog *logger.Logger) (*Authenticator, error) {
	provider, err := oidc.NewProvider(ctx, os.Getenv("OIDC_ISSUER"))
	if err != nil {
		return nil, err
	}

	a := &Authenticator{
		provider: provider,
		verifier: provider.Verifier(&oidc.Config{ClientID: os.Getenv("OIDC_CLIENT_ID")}),
		oauth2Config: &oauth2.Config{
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email", "phone", "address"},
		},
		users: users,
		log:   baseLog.With("component", "Authenticator"),
	}
	return a, nil
}

// GET /auth/login
func (a *Authenticator) Login(c *gin.Context) {
	state := uuid.NewString()
	sess := sessions.Default(c)
	sess.Set("oauth_state", state)
	_ = sess.Save()
	c.Redirect(http.StatusFound, a.oauth2Config.AuthCodeURL(state))
}

// GET /auth/callback
func (a *Authenticator) Callback(c *gin.Context) {
	sess := sessions.Default(c)
	if state, _ := sess.Get("oauth_state").(string); state == "" || state != c.Query("state") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state mismatch"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code missing"})
		return
	}

	ctx := c.Request.Context()
	oauth2Token, err := a.oauth2Config.Exchange(ctx, code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token exchange failed"})
		return
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no id_token in token response"})
		return
	}

	idToken, err := a.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token verification failed"})
		return
	}

	var claims struct {
		Sub           string `json:"sub"`
		Name          string `json:"name"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Phone         string `json:"phone_number"`
		Role          string `json:"role"`
	}
	if err := idToken.Claims(&claims); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "claims parse error"})
		return
	}

	user, err := a.users.GetByOIDCID(ctx, nil, claims.Sub)
	if apperr.KindOf(err) == apperr.KindNotFound {
		role := models.RoleUser
		if claims.Role == string(models.RoleAdmin) {
			role = models.RoleAdmin
		}
		user = &models.User{
			UserID:        uuid.NewString(),
			OIDCID:        claims.Sub,
			Name:          claims.Name,
			Email:         claims.Email,
			Phone:         claims.Phone,
			Role:          role,
			EmailVerified: claims.EmailVerified,
			CreatedAt:     time.Now(),
		}
		if err := a.users.Create(ctx, nil, user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	sess.Set(sessionUserKey, user.UserID)
	_ = sess.Save()
	c.JSON(http.StatusOK, gin.H{"message": "logged in", "user": user})
}

// RequireAuth ensures a verified principal exists and injects *models.User
// into the request context.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return RequireAuthWith(a.users)
}

// RequireAuthWith is the session guard with an explicit repo; tests use it
// without an OIDC provider.
func RequireAuthWith(users repos.UserRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		userID, ok := sess.Get(sessionUserKey).(string)
		if !ok || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		user, err := users.GetByUserID(c.Request.Context(), nil, userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireAdmin gates a route group on the admin role; it must run after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// SetSessionUser records the principal on the session; used by the callback
// and by test setup.
func SetSessionUser(c *gin.Context, userID string) error {
	sess := sessions.Default(c)
	sess.Set(sessionUserKey, userID)
	return sess.Save()
}
