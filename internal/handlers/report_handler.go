package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/colortherapy-api/internal/apperror"
	"github.com/harentsoaR/colortherapy-api/internal/models"
)

type ReportRequest struct {
	Kind        models.ReportKind `json:"kind" binding:"required"`
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description" binding:"required"`
}

func validReportKind(k models.ReportKind) bool {
	return k == models.ReportBug || k == models.ReportFeature
}

// CreateReport files a bug report or feature request. Any signed-in user may file one.
func (h *Handler) CreateReport(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !validReportKind(req.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Kind must be bug or feature"})
		return
	}

	s := currentSession(c)
	r := models.Report{
		ID:            primitive.NewObjectID(),
		Kind:          req.Kind,
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		ReporterID:    s.User.ID.Hex(),
		ReporterEmail: s.User.Email,
		CreatedAt:     time.Now().UTC(),
	}
	if err := h.Reports.Create(c.Request.Context(), &r); err != nil {
		h.respondError(c, apperror.Remote("failed to file report", err))
		return
	}

	h.NotificationSvc.NotifyReportFiled(&r)
	c.JSON(http.StatusCreated, r)
}

// ListReports returns filed reports, newest first, optionally ?kind=bug|feature.
func (h *Handler) ListReports(c *gin.Context) {
	kind := models.ReportKind(c.Query("kind"))
	if kind != "" && !validReportKind(kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Kind must be bug or feature"})
		return
	}

	reports, err := h.Reports.List(c.Request.Context(), kind)
	if err != nil {
		h.respondError(c, apperror.Remote("failed to retrieve reports", err))
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}
	c.JSON(http.StatusOK, reports)
}
