package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/harentsoaR/colortherapy-api/internal/apperror"
)

// GetDashboard returns the landing page summary. Therapists restricted to
// their own patients only get their patient count.
func (h *Handler) GetDashboard(c *gin.Context) {
	s := currentSession(c)
	filter := patientFilter(s)

	var patients, visits int64
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		patients, err = h.Patients.Count(ctx, filter)
		return err
	})
	if filter.TherapistID == "" {
		g.Go(func() error {
			var err error
			visits, err = h.Visits.Count(ctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		h.respondError(c, apperror.Remote("failed to load dashboard", err))
		return
	}

	resp := gin.H{
		"displayName": s.User.DisplayName,
		"role":        s.User.Role,
		"patients":    patients,
		"navigation":  s.Navigation,
	}
	if filter.TherapistID == "" {
		resp["visits"] = visits
	}
	c.JSON(http.StatusOK, resp)
}
