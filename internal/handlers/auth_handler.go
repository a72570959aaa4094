// internal/handlers/auth_handler.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/colortherapy-api/internal/access"
	"github.com/harentsoaR/colortherapy-api/internal/apperror"
	"github.com/harentsoaR/colortherapy-api/internal/auth"
	"github.com/harentsoaR/colortherapy-api/internal/models"
	"github.com/harentsoaR/colortherapy-api/internal/store"
)

type RegisterUserRequest struct {
	DisplayName string `json:"displayName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

var errAccountBlocked = apperror.Authentication("account is blocked")

// SessionResponse is what the dashboard shell needs after login.
type SessionResponse struct {
	Token      string         `json:"token,omitempty"`
	User       models.User    `json:"user"`
	Access     access.Access  `json:"access"`
	Navigation []access.Entry `json:"navigation"`
	ExpiresAt  time.Time      `json:"expiresAt"`
}

// RegisterUser creates the credential and then the profile. If the profile
// cannot be written the credential is removed again.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	identity, err := h.Identity.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	now := time.Now().UTC()
	user := models.User{
		ID:          identity.UID,
		Email:       identity.Email,
		DisplayName: req.DisplayName,
		Role:        h.DefaultRole,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.Users.Create(ctx, &user); err != nil {
		if rmErr := h.Identity.Remove(ctx, identity.UID); rmErr != nil {
			h.Log.WithError(rmErr).WithField("user_id", identity.UID.Hex()).Error("Failed to roll back credential")
		}
		if errors.Is(err, store.ErrDuplicate) {
			h.respondError(c, apperror.Conflict("an account with this email already exists"))
			return
		}
		h.respondError(c, apperror.Remote("failed to create user", err))
		return
	}

	h.Log.Audit(user.ID.Hex(), "register", "users", true, nil)
	c.JSON(http.StatusCreated, user)
}

// Login signs in, loads the profile and config, and opens a session.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctx := c.Request.Context()
	if err := h.Limiter.Allow(ctx, req.Email); err != nil {
		if apperror.Is(err, apperror.KindLockedOut) {
			h.Metrics.LoginAttempt("locked")
		}
		h.respondError(c, err)
		return
	}

	user, err := h.authenticate(c, req)
	if err != nil {
		if apperror.Is(err, apperror.KindAuthentication) {
			h.loginFailed(c, req.Email, err)
		}
		h.respondError(c, err)
		return
	}

	cfg, err := h.Config.Load(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	a, nav := resolve(user, cfg)
	s := h.Sessions.Create(*user, a, nav)
	token, err := h.Tokens.Generate(user.ID.Hex(), string(user.Role), s.ID)
	if err != nil {
		h.Sessions.Clear(s.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	if err := h.Limiter.Success(ctx, req.Email); err != nil {
		h.Log.WithError(err).Warn("Failed to reset login attempts")
	}
	h.Metrics.LoginAttempt("success")

	c.JSON(http.StatusOK, SessionResponse{
		Token:      token,
		User:       s.User,
		Access:     s.Access,
		Navigation: s.Navigation,
		ExpiresAt:  s.ExpiresAt,
	})
}

func (h *Handler) authenticate(c *gin.Context, req LoginRequest) (*models.User, error) {
	ctx := c.Request.Context()
	identity, err := h.Identity.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	user, err := h.Users.Get(ctx, identity.UID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.Authentication("profile not found")
	}
	if err != nil {
		return nil, apperror.Remote("failed to load profile", err)
	}
	if user.Blocked {
		return nil, errAccountBlocked
	}
	return user, nil
}

func (h *Handler) loginFailed(c *gin.Context, email string, cause error) {
	outcome := "failure"
	if errors.Is(cause, errAccountBlocked) {
		outcome = "blocked"
	}
	locked, err := h.Limiter.Failure(c.Request.Context(), email)
	if err != nil {
		h.Log.WithError(err).Warn("Failed to record login attempt")
	}
	if locked {
		outcome = "locked"
	}
	h.Metrics.LoginAttempt(outcome)
	h.Log.Security("login_failed", auth.NormalizeEmail(email), logrus.Fields{
		"reason":    apperror.PublicMessage(cause),
		"locked":    locked,
		"client_ip": c.ClientIP(),
	})
}

// Logout ends the current session.
func (h *Handler) Logout(c *gin.Context) {
	s := currentSession(c)
	h.Sessions.Clear(s.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetSession returns the current identity and permission matrix.
func (h *Handler) GetSession(c *gin.Context) {
	s := currentSession(c)
	c.JSON(http.StatusOK, SessionResponse{
		User:       s.User,
		Access:     s.Access,
		Navigation: s.Navigation,
		ExpiresAt:  s.ExpiresAt,
	})
}

// GetProfile retrieves the profile of the currently authenticated user.
func (h *Handler) GetProfile(c *gin.Context) {
	s := currentSession(c)
	user, err := h.Users.Get(c.Request.Context(), s.User.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.respondError(c, apperror.Remote("failed to load profile", err))
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile lets a user change their own display name and picture.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req struct {
		DisplayName  *string `json:"displayName"`
		ProfileImage *string `json:"profileImage"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.DisplayName != nil && *req.DisplayName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Display name cannot be empty"})
		return
	}

	update := store.UserUpdate{DisplayName: req.DisplayName, ProfileImage: req.ProfileImage}
	if update.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No update fields provided"})
		return
	}

	s := currentSession(c)
	user, err := h.Users.Update(c.Request.Context(), s.User.ID, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.respondError(c, apperror.Remote("failed to update user profile", err))
		return
	}

	h.refreshUserSessions(c, user)
	c.JSON(http.StatusOK, user)
}
