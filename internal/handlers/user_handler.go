package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/colortherapy-api/internal/access"
	"github.com/harentsoaR/colortherapy-api/internal/apperror"
	"github.com/harentsoaR/colortherapy-api/internal/models"
	"github.com/harentsoaR/colortherapy-api/internal/store"
)

// UpdateUserRequest is an administrative edit. An empty permissions object
// removes the override and falls back to the role's pages.
type UpdateUserRequest struct {
	DisplayName *string             `json:"displayName"`
	Role        *string             `json:"role"`
	Blocked     *bool               `json:"blocked"`
	Permissions *models.Permissions `json:"permissions"`
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		h.respondError(c, apperror.Remote("failed to retrieve users", err))
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) loadUser(c *gin.Context) (*models.User, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}
	user, err := h.Users.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.respondError(c, apperror.NotFound("User not found"))
			return nil, false
		}
		h.respondError(c, apperror.Remote("failed to retrieve user", err))
		return nil, false
	}
	return user, true
}

func (h *Handler) GetUser(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser changes another user's role, block flag or permission override.
// Live sessions of the target are re-resolved, or dropped when blocked.
func (h *Handler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	update := store.UserUpdate{
		DisplayName: req.DisplayName,
		Blocked:     req.Blocked,
		Permissions: req.Permissions,
	}
	if req.Role != nil {
		role, err := models.ParseRole(*req.Role)
		if err != nil {
			h.respondError(c, apperror.Validation(err.Error()))
			return
		}
		update.Role = &role
	}
	if update.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No update fields provided"})
		return
	}

	target, ok := h.loadUser(c)
	if !ok {
		return
	}

	actor := currentSession(c).User
	if actor.ID == target.ID && update.Blocked != nil && *update.Blocked {
		h.respondError(c, apperror.Conflict("you cannot block your own account"))
		return
	}

	ctx := c.Request.Context()
	cfg, err := h.Config.Load(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	change := access.UserChange{Role: update.Role, Blocked: update.Blocked, Permissions: update.Permissions}
	if err := access.CheckUserChange(target, change, cfg); err != nil {
		h.Log.Audit(actor.ID.Hex(), "update", "users", false, logrus.Fields{"target_id": target.ID.Hex(), "reason": apperror.PublicMessage(err)})
		h.respondError(c, err)
		return
	}

	user, err := h.Users.Update(ctx, target.ID, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.respondError(c, apperror.NotFound("User not found"))
			return
		}
		h.respondError(c, apperror.Remote("failed to update user", err))
		return
	}

	h.refreshUserSessions(c, user)
	h.Log.Audit(actor.ID.Hex(), "update", "users", true, logrus.Fields{"target_id": user.ID.Hex(), "role": user.Role, "blocked": user.Blocked})
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes a profile and its credential. Self-deletion is refused
// before anything is read, protected accounts before anything is written.
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	actor := currentSession(c).User
	if actor.ID == id {
		h.respondError(c, apperror.Conflict("you cannot delete your own account"))
		return
	}

	target, ok := h.loadUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	cfg, err := h.Config.Load(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := access.CheckUserDeletion(&actor, target, cfg); err != nil {
		h.Log.Audit(actor.ID.Hex(), "delete", "users", false, logrus.Fields{"target_id": target.ID.Hex(), "reason": apperror.PublicMessage(err)})
		h.respondError(c, err)
		return
	}

	if err := h.Users.Delete(ctx, target.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.respondError(c, apperror.NotFound("User not found"))
			return
		}
		h.respondError(c, apperror.Remote("failed to delete user", err))
		return
	}
	if err := h.Identity.Remove(ctx, target.ID); err != nil {
		h.Log.WithError(err).WithField("user_id", target.ID.Hex()).Warn("Failed to remove credential of deleted user")
	}
	h.Sessions.ClearUser(target.ID.Hex())

	h.Log.Audit(actor.ID.Hex(), "delete", "users", true, logrus.Fields{"target_id": target.ID.Hex(), "email": target.Email})
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
