package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"citizen-services/internal/apperrors"
	"citizen-services/internal/auth"
	"citizen-services/internal/models"
	"citizen-services/internal/workflow"
)

// ComplaintHandler handles HTTP requests for complaints.
type ComplaintHandler struct {
	engine *workflow.Engine
	logger *zap.Logger
}

// NewComplaintHandler creates a new complaint handler.
func NewComplaintHandler(engine *workflow.Engine, logger *zap.Logger) *ComplaintHandler {
	return &ComplaintHandler{
		engine: engine,
		logger: logger.Named("complaint_handler"),
	}
}

// CreateComplaint submits a new complaint for the acting citizen.
func (h *ComplaintHandler) CreateComplaint(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	complaint, err := h.engine.CreateComplaint(c.Request.Context(), actor, &req)
	if err != nil {
		if apperrors.IsDelivery(err) {
			respondDelivery(c, h.logger, err, gin.H{"complaint": complaint})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, complaint)
}

// GetComplaint retrieves a complaint visible to the actor.
func (h *ComplaintHandler) GetComplaint(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}

	complaint, err := h.engine.GetComplaint(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, complaint)
}

// ListComplaints lists the actor's complaints; staff see all.
func (h *ComplaintHandler) ListComplaints(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	complaints, err := h.engine.ListComplaints(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"complaints": complaints, "count": len(complaints)})
}

// UpdateComplaint edits a complaint's content fields.
func (h *ComplaintHandler) UpdateComplaint(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}

	var req models.UpdateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	complaint, err := h.engine.UpdateComplaint(c.Request.Context(), actor, id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, complaint)
}

// UpdateStatus applies a status transition to a complaint.
func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	complaint, result, err := h.engine.UpdateComplaintStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		if apperrors.IsDelivery(err) {
			respondDelivery(c, h.logger, err, gin.H{"complaint": complaint, "transition": result})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"complaint": complaint, "transition": result})
}

// DeleteComplaint removes a complaint.
func (h *ComplaintHandler) DeleteComplaint(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}

	if err := h.engine.DeleteComplaint(c.Request.Context(), actor, id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Complaint deleted"})
}
