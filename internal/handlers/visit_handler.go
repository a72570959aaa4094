package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/colortherapy-api/internal/apperror"
	"github.com/harentsoaR/colortherapy-api/internal/models"
	"github.com/harentsoaR/colortherapy-api/internal/store"
)

type VisitRequest struct {
	Date        string   `json:"date" binding:"required"`
	TherapistID string   `json:"therapistId"`
	Complaint   string   `json:"complaint"`
	Colours     []string `json:"colours"`
	Treatment   string   `json:"treatment"`
	Notes       string   `json:"notes"`
}

// parseVisitDate accepts a full RFC3339 timestamp or a plain date.
func parseVisitDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", s)
}

func (r VisitRequest) apply(v *models.Visit) error {
	date, err := parseVisitDate(r.Date)
	if err != nil {
		return apperror.Validation("Invalid date format, use RFC3339 or YYYY-MM-DD")
	}
	v.Date = date
	v.TherapistID = r.TherapistID
	v.Complaint = r.Complaint
	v.Colours = r.Colours
	v.Treatment = r.Treatment
	v.Notes = r.Notes
	return nil
}

// --- LIST VISITS OF A PATIENT ---
func (h *Handler) ListVisits(c *gin.Context) {
	p, ok := h.loadPatient(c)
	if !ok {
		return
	}

	visits, err := h.Visits.ListByPatient(c.Request.Context(), p.ID)
	if err != nil {
		h.respondError(c, apperror.Remote("failed to retrieve visits", err))
		return
	}
	if visits == nil {
		visits = []models.Visit{}
	}
	c.JSON(http.StatusOK, visits)
}

// --- CREATE VISIT ---
func (h *Handler) CreateVisit(c *gin.Context) {
	p, ok := h.loadPatient(c)
	if !ok {
		return
	}

	var req VisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	s := currentSession(c)
	now := time.Now().UTC()
	v := models.Visit{
		ID:        primitive.NewObjectID(),
		PatientID: p.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := req.apply(&v); err != nil {
		h.respondError(c, err)
		return
	}
	if v.TherapistID == "" {
		v.TherapistID = s.User.ID.Hex()
	}

	if err := h.Visits.Create(c.Request.Context(), &v); err != nil {
		h.respondError(c, apperror.Remote("failed to create visit", err))
		return
	}

	h.Log.Audit(s.User.ID.Hex(), "create", "visits", true, logrus.Fields{"patient_id": p.ID.Hex(), "visit_id": v.ID.Hex()})
	c.JSON(http.StatusCreated, v)
}

func (h *Handler) loadVisit(c *gin.Context) (*models.Visit, bool) {
	p, ok := h.loadPatient(c)
	if !ok {
		return nil, false
	}
	visitID, ok := parseID(c, "visitId")
	if !ok {
		return nil, false
	}
	v, err := h.Visits.Get(c.Request.Context(), p.ID, visitID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.respondError(c, apperror.NotFound("Visit not found"))
			return nil, false
		}
		h.respondError(c, apperror.Remote("failed to retrieve visit", err))
		return nil, false
	}
	return v, true
}

// --- UPDATE VISIT ---
func (h *Handler) UpdateVisit(c *gin.Context) {
	existing, ok := h.loadVisit(c)
	if !ok {
		return
	}

	var req VisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updated := *existing
	if err := req.apply(&updated); err != nil {
		h.respondError(c, err)
		return
	}
	if updated.TherapistID == "" {
		updated.TherapistID = existing.TherapistID
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := h.Visits.Replace(c.Request.Context(), &updated); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.respondError(c, apperror.NotFound("Visit not found"))
			return
		}
		h.respondError(c, apperror.Remote("failed to update visit", err))
		return
	}

	s := currentSession(c)
	h.Log.Audit(s.User.ID.Hex(), "update", "visits", true, logrus.Fields{"visit_id": updated.ID.Hex()})
	c.JSON(http.StatusOK, updated)
}

// --- DELETE VISIT ---
func (h *Handler) DeleteVisit(c *gin.Context) {
	v, ok := h.loadVisit(c)
	if !ok {
		return
	}

	if err := h.Visits.Delete(c.Request.Context(), v.PatientID, v.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.respondError(c, apperror.NotFound("Visit not found"))
			return
		}
		h.respondError(c, apperror.Remote("failed to delete visit", err))
		return
	}

	s := currentSession(c)
	h.Log.Audit(s.User.ID.Hex(), "delete", "visits", true, logrus.Fields{"visit_id": v.ID.Hex()})
	c.JSON(http.StatusOK, gin.H{"message": "Visit deleted successfully"})
}
