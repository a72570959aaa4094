package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/colortherapy-api/internal/access"
	"github.com/harentsoaR/colortherapy-api/internal/apperror"
	"github.com/harentsoaR/colortherapy-api/internal/models"
	"github.com/harentsoaR/colortherapy-api/internal/session"
	"github.com/harentsoaR/colortherapy-api/internal/store"
)

type PatientRequest struct {
	FullName     string   `json:"fullName" binding:"required"`
	BirthDate    string   `json:"birthDate"`
	Gender       string   `json:"gender"`
	Phone        string   `json:"phone"`
	Email        string   `json:"email"`
	Address      string   `json:"address"`
	Occupation   string   `json:"occupation"`
	Notes        string   `json:"notes"`
	TherapistIDs []string `json:"therapistIds"`
}

func (r PatientRequest) apply(p *models.Patient) {
	p.FullName = strings.TrimSpace(r.FullName)
	p.BirthDate = r.BirthDate
	p.Gender = r.Gender
	p.Phone = r.Phone
	p.Email = r.Email
	p.Address = r.Address
	p.Occupation = r.Occupation
	p.Notes = r.Notes
	p.TherapistIDs = dedupe(r.TherapistIDs)
}

func patientFilter(s *session.Session) store.PatientFilter {
	return store.PatientFilter{TherapistID: access.PatientScope(&s.User, s.Access)}
}

// --- LIST PATIENTS (optionally ?search=) ---
func (h *Handler) ListPatients(c *gin.Context) {
	filter := patientFilter(currentSession(c))
	filter.Search = strings.TrimSpace(c.Query("search"))

	patients, err := h.Patients.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, apperror.Remote("failed to retrieve patients", err))
		return
	}
	if patients == nil {
		patients = []models.Patient{}
	}
	c.JSON(http.StatusOK, patients)
}

// --- CREATE PATIENT ---
func (h *Handler) CreatePatient(c *gin.Context) {
	var req PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	s := currentSession(c)
	now := time.Now().UTC()
	p := models.Patient{
		ID:        primitive.NewObjectID(),
		CreatedBy: s.User.ID.Hex(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	req.apply(&p)
	if p.FullName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Full name is required"})
		return
	}
	// A scoped therapist must still see the patient after creating it.
	if scope := patientFilter(s).TherapistID; scope != "" && !p.HasTherapist(scope) {
		p.TherapistIDs = append(p.TherapistIDs, scope)
	}

	if err := h.Patients.Create(c.Request.Context(), &p); err != nil {
		h.respondError(c, apperror.Remote("failed to create patient", err))
		return
	}

	h.Log.Audit(s.User.ID.Hex(), "create", "patients", true, logrus.Fields{"patient_id": p.ID.Hex()})
	c.JSON(http.StatusCreated, p)
}

// loadPatient fetches the :id patient within the caller's scope. Patients
// outside the scope are reported as not found.
func (h *Handler) loadPatient(c *gin.Context) (*models.Patient, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}
	p, err := h.Patients.Get(c.Request.Context(), id, patientFilter(currentSession(c)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.respondError(c, apperror.NotFound("Patient not found"))
			return nil, false
		}
		h.respondError(c, apperror.Remote("failed to retrieve patient", err))
		return nil, false
	}
	return p, true
}

func (h *Handler) GetPatient(c *gin.Context) {
	p, ok := h.loadPatient(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p)
}

// --- UPDATE PATIENT ---
func (h *Handler) UpdatePatient(c *gin.Context) {
	existing, ok := h.loadPatient(c)
	if !ok {
		return
	}

	var req PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	s := currentSession(c)
	updated := *existing
	req.apply(&updated)
	if updated.FullName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Full name is required"})
		return
	}
	if scope := patientFilter(s).TherapistID; scope != "" && !updated.HasTherapist(scope) {
		updated.TherapistIDs = append(updated.TherapistIDs, scope)
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := h.Patients.Replace(c.Request.Context(), &updated); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.respondError(c, apperror.NotFound("Patient not found"))
			return
		}
		h.respondError(c, apperror.Remote("failed to update patient", err))
		return
	}

	h.Log.Audit(s.User.ID.Hex(), "update", "patients", true, logrus.Fields{"patient_id": updated.ID.Hex()})
	c.JSON(http.StatusOK, updated)
}

// --- DELETE PATIENT (and its visits) ---
func (h *Handler) DeletePatient(c *gin.Context) {
	p, ok := h.loadPatient(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.Visits.DeleteByPatient(ctx, p.ID); err != nil {
		h.respondError(c, apperror.Remote("failed to delete patient visits", err))
		return
	}
	if err := h.Patients.Delete(ctx, p.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.respondError(c, apperror.NotFound("Patient not found"))
			return
		}
		h.respondError(c, apperror.Remote("failed to delete patient", err))
		return
	}

	s := currentSession(c)
	h.Log.Audit(s.User.ID.Hex(), "delete", "patients", true, logrus.Fields{"patient_id": p.ID.Hex()})
	c.JSON(http.StatusOK, gin.H{"message": "Patient deleted successfully"})
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
