package session

import "github.com/gin-gonic/gin"

// Mode describes which data source serves a request.
type Mode string

const (
	// ModeAuthenticated serves data fetched for the signed-in user.
	ModeAuthenticated Mode = "authenticated"
	// ModeGuest serves the fixed guest dataset without touching the backend.
	ModeGuest Mode = "guest"
)

const modeContextKey = "storeitSessionMode"

// Resolve picks the mode for a request. A valid session always wins over a
// guest request; ok is false when neither is present.
func Resolve(authenticated, guestRequested bool) (Mode, bool) {
	switch {
	case authenticated:
		return ModeAuthenticated, true
	case guestRequested:
		return ModeGuest, true
	default:
		return "", false
	}
}

// SetMode records the resolved mode on the request context.
func SetMode(c *gin.Context, mode Mode) {
	c.Set(modeContextKey, mode)
}

// ModeFrom returns the mode stored by SetMode.
func ModeFrom(c *gin.Context) (Mode, bool) {
	value, exists := c.Get(modeContextKey)
	if !exists {
		return "", false
	}
	mode, ok := value.(Mode)
	return mode, ok
}

// IsGuest reports whether the request was resolved to guest mode.
func IsGuest(c *gin.Context) bool {
	mode, ok := ModeFrom(c)
	return ok && mode == ModeGuest
}
