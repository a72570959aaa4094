package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/colortherapy-api/internal/apperror"
	"github.com/harentsoaR/colortherapy-api/internal/models"
	"github.com/harentsoaR/colortherapy-api/internal/store"
)

type HumanBodyRequest struct {
	Region      string `json:"region" binding:"required"`
	Organ       string `json:"organ"`
	Colour      string `json:"colour"`
	Description string `json:"description"`
}

func (h *Handler) ListHumanBody(c *gin.Context) {
	records, err := h.HumanBody.List(c.Request.Context())
	if err != nil {
		h.respondError(c, apperror.Remote("failed to retrieve human body records", err))
		return
	}
	if records == nil {
		records = []models.HumanBodyRecord{}
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) CreateHumanBody(c *gin.Context) {
	var req HumanBodyRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Region) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Region is required"})
		return
	}

	now := time.Now().UTC()
	r := models.HumanBodyRecord{
		ID:          primitive.NewObjectID(),
		Region:      strings.TrimSpace(req.Region),
		Organ:       req.Organ,
		Colour:      req.Colour,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.HumanBody.Create(c.Request.Context(), &r); err != nil {
		h.respondError(c, apperror.Remote("failed to create human body record", err))
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *Handler) UpdateHumanBody(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req HumanBodyRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Region) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Region is required"})
		return
	}

	ctx := c.Request.Context()
	r, err := h.HumanBody.Get(ctx, id)
	if err != nil {
		h.humanBodyError(c, "failed to retrieve human body record", err)
		return
	}
	r.Region = strings.TrimSpace(req.Region)
	r.Organ = req.Organ
	r.Colour = req.Colour
	r.Description = req.Description
	r.UpdatedAt = time.Now().UTC()

	if err := h.HumanBody.Replace(ctx, r); err != nil {
		h.humanBodyError(c, "failed to update human body record", err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) DeleteHumanBody(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.HumanBody.Delete(c.Request.Context(), id); err != nil {
		h.humanBodyError(c, "failed to delete human body record", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Record deleted successfully"})
}

func (h *Handler) humanBodyError(c *gin.Context, msg string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		h.respondError(c, apperror.NotFound("Record not found"))
		return
	}
	h.respondError(c, apperror.Remote(msg, err))
}
