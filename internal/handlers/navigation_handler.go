package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/colortherapy-api/internal/access"
	"github.com/harentsoaR/colortherapy-api/internal/middleware"
	"github.com/harentsoaR/colortherapy-api/internal/models"
)

const (
	appName    = "Colour Therapy Institute"
	appVersion = "1.0.0"
)

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// About is public and shown to anonymous visitors as well.
func (h *Handler) About(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        appName,
		"version":     appVersion,
		"description": "Clinical records dashboard for colour therapy practitioners.",
	})
}

// ResolveRoute runs the route guard for ?path= against the caller's menu.
func (h *Handler) ResolveRoute(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	s, ok := middleware.CurrentSession(c)
	var nav []access.Entry
	if ok {
		nav = s.Navigation
	}
	c.JSON(http.StatusOK, access.Guard(ok, nav, path))
}

func (h *Handler) GetNavigation(c *gin.Context) {
	c.JSON(http.StatusOK, currentSession(c).Navigation)
}

// GetConfig returns the loaded AppConfig, protected accounts included.
func (h *Handler) GetConfig(c *gin.Context) {
	cfg, err := h.Config.Load(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// ReloadConfig refetches the AppConfig and re-resolves every live session.
func (h *Handler) ReloadConfig(c *gin.Context) {
	cfg, err := h.Config.Reload(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Sessions.Refresh(func(u *models.User) (access.Access, []access.Entry) {
		return resolve(u, cfg)
	})

	actor := currentSession(c).User
	h.Log.Audit(actor.ID.Hex(), "reload", "app-config", true, nil)
	c.JSON(http.StatusOK, cfg)
}
