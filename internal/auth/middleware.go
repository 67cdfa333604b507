package auth

import (
	"strings"

	"github.com/abduss/storeit/internal/config"
	"github.com/abduss/storeit/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type contextKey string

const userContextKey contextKey = "storeitUser"

// ContextUser represents the authenticated principal stored in the request context.
type ContextUser struct {
	ID       string
	Email    string
	FullName string
	IsAdmin  bool
}

// SessionMiddleware resolves each request to a signed-in user or a guest.
// The access token is read from the Authorization header or, failing that,
// from the session cookie. A valid token always wins over the guest cookie;
// requests with neither are rejected.
func SessionMiddleware(service *Service, cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			claims        UserClaims
			authenticated bool
		)
		if token := requestToken(c, cfg.CookieName); token != "" {
			if validated, err := service.ValidateAccessToken(token); err == nil {
				claims = validated
				authenticated = true
			}
		}

		mode, ok := session.Resolve(authenticated, guestRequested(c, cfg.GuestCookieName))
		if !ok {
			c.AbortWithStatusJSON(401, gin.H{"error": "invalid or missing session"})
			return
		}

		session.SetMode(c, mode)
		if mode == session.ModeAuthenticated {
			SetUser(c, ContextUser{
				ID:       claims.UserID.String(),
				Email:    claims.Email,
				FullName: claims.FullName,
				IsAdmin:  claims.IsAdmin,
			})
		}

		c.Next()
	}
}

// SetUser stores the principal on the request context.
func SetUser(c *gin.Context, user ContextUser) {
	c.Set(string(userContextKey), user)
}

// CurrentUser extracts the authenticated user from the context.
func CurrentUser(c *gin.Context) (ContextUser, bool) {
	value, exists := c.Get(string(userContextKey))
	if !exists {
		return ContextUser{}, false
	}
	user, ok := value.(ContextUser)
	return user, ok
}

// RequireUser fetches the authenticated user and parses the identifier.
func RequireUser(c *gin.Context) (uuid.UUID, ContextUser, bool) {
	user, ok := CurrentUser(c)
	if !ok {
		return uuid.Nil, ContextUser{}, false
	}
	id, err := uuid.Parse(user.ID)
	if err != nil {
		return uuid.Nil, ContextUser{}, false
	}
	return id, user, true
}

func requestToken(c *gin.Context, cookieName string) string {
	if token := extractBearerToken(c.GetHeader("Authorization")); token != "" {
		return token
	}
	if cookieName == "" {
		return ""
	}
	token, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(token)
}

func guestRequested(c *gin.Context, cookieName string) bool {
	if cookieName == "" {
		return false
	}
	value, err := c.Cookie(cookieName)
	return err == nil && value == "true"
}

func extractBearerToken(header string) string {
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
