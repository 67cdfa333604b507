package auth

import (
	"errors"
	"net/http"

	"github.com/abduss/storeit/internal/config"
	"github.com/abduss/storeit/internal/logger"
	"github.com/abduss/storeit/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterRoutes mounts authentication endpoints under /auth.
func RegisterRoutes(router *gin.RouterGroup, service *Service, cookies config.SessionConfig) {
	handler := &httpHandler{service: service, cookies: cookies}
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", handler.register)
		authGroup.POST("/login", handler.login)
		authGroup.POST("/refresh", handler.refresh)
		authGroup.POST("/guest", handler.guest)
		authGroup.POST("/sign-out", handler.signOut)
	}
}

// RegisterSessionRoutes mounts endpoints that need a resolved session.
func RegisterSessionRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.GET("/me", handler.me)
}

type httpHandler struct {
	service *Service
	cookies config.SessionConfig
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"full_name" binding:"required,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type signOutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type authResponse struct {
	User   Principal `json:"user"`
	Tokens struct {
		AccessToken        string `json:"access_token"`
		AccessTokenExpiry  int64  `json:"access_token_expires_at"`
		RefreshToken       string `json:"refresh_token"`
		RefreshTokenExpiry int64  `json:"refresh_token_expires_at"`
	} `json:"tokens"`
}

func (h *httpHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Register(c.Request.Context(), RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		case errors.Is(err, ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
		case errors.Is(err, ErrInvalidFullName):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid full name"})
		default:
			logger.FromContext(c).Error("register user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		}
		return
	}

	h.startSession(c, result)
	c.JSON(http.StatusCreated, marshalAuthResponse(result))
}

func (h *httpHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Login(c.Request.Context(), LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		logger.FromContext(c).Error("login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to authenticate"})
		return
	}

	h.startSession(c, result)
	c.JSON(http.StatusOK, marshalAuthResponse(result))
}

func (h *httpHandler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}
		logger.FromContext(c).Error("refresh session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh session"})
		return
	}

	h.startSession(c, result)
	c.JSON(http.StatusOK, marshalAuthResponse(result))
}

func (h *httpHandler) guest(c *gin.Context) {
	h.setCookie(c, h.cookies.GuestCookieName, "true", 0)
	c.JSON(http.StatusOK, gin.H{"user": GuestPrincipal})
}

func (h *httpHandler) signOut(c *gin.Context) {
	var req signOutRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if req.RefreshToken != "" {
		if token := requestToken(c, h.cookies.CookieName); token != "" {
			if claims, err := h.service.ValidateAccessToken(token); err == nil {
				if err := h.service.SignOut(c.Request.Context(), claims.UserID, req.RefreshToken); err != nil {
					logger.FromContext(c).Warn("revoke refresh token", zap.Error(err))
				}
			}
		}
	}

	h.setCookie(c, h.cookies.CookieName, "", -1)
	h.setCookie(c, h.cookies.GuestCookieName, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *httpHandler) me(c *gin.Context) {
	if session.IsGuest(c) {
		c.JSON(http.StatusOK, gin.H{"user": GuestPrincipal})
		return
	}

	userID, _, ok := RequireUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.service.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		logger.FromContext(c).Error("load current user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": PrincipalFor(user)})
}

// startSession stores the access token in the session cookie and drops any
// guest marker.
func (h *httpHandler) startSession(c *gin.Context, result AuthResult) {
	h.setCookie(c, h.cookies.CookieName, result.Tokens.AccessToken, int(h.service.AccessTokenTTL().Seconds()))
	h.setCookie(c, h.cookies.GuestCookieName, "", -1)
}

func (h *httpHandler) setCookie(c *gin.Context, name, value string, maxAge int) {
	if name == "" {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", h.cookies.CookieDomain, h.cookies.Secure, true)
}

func marshalAuthResponse(result AuthResult) authResponse {
	resp := authResponse{User: PrincipalFor(result.User)}
	resp.Tokens.AccessToken = result.Tokens.AccessToken
	resp.Tokens.RefreshToken = result.Tokens.RefreshToken
	resp.Tokens.AccessTokenExpiry = result.Tokens.AccessTokenExpiry.Unix()
	resp.Tokens.RefreshTokenExpiry = result.Tokens.RefreshTokenExpiry.Unix()
	return resp
}
