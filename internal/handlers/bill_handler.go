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

// BillHandler handles HTTP requests for electricity bills.
type BillHandler struct {
	engine *workflow.Engine
	logger *zap.Logger
}

// NewBillHandler creates a new bill handler.
func NewBillHandler(engine *workflow.Engine, logger *zap.Logger) *BillHandler {
	return &BillHandler{
		engine: engine,
		logger: logger.Named("bill_handler"),
	}
}

// CreateBill issues a bill to a citizen. Staff only.
func (h *BillHandler) CreateBill(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	bill, err := h.engine.CreateBill(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, bill)
}

// ListBills lists the actor's bills with search, status filter and
// aggregates over the filtered set.
func (h *BillHandler) ListBills(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	filter := models.BillFilter{
		Search: c.Query("search"),
		Status: models.BillStatus(c.Query("status")),
	}

	bills, stats, err := h.engine.ListBills(c.Request.Context(), actor, filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bills": bills, "stats": stats})
}

// ListAllBills lists every bill. Staff only.
func (h *BillHandler) ListAllBills(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	bills, err := h.engine.ListAllBills(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bills": bills, "count": len(bills)})
}

// GetBill retrieves a bill visible to the actor.
func (h *BillHandler) GetBill(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bill ID"})
		return
	}

	bill, err := h.engine.GetBill(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, bill)
}

// UpdateBill edits a bill's content fields.
func (h *BillHandler) UpdateBill(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bill ID"})
		return
	}

	var req models.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	bill, err := h.engine.UpdateBill(c.Request.Context(), actor, id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, bill)
}

// UpdateStatus applies a status transition to a bill.
func (h *BillHandler) UpdateStatus(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bill ID"})
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	bill, result, err := h.engine.UpdateBillStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		if apperrors.IsDelivery(err) {
			respondDelivery(c, h.logger, err, gin.H{"bill": bill, "transition": result})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bill": bill, "transition": result})
}

// MarkCleared marks the actor's bill as paid.
func (h *BillHandler) MarkCleared(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bill ID"})
		return
	}

	bill, result, err := h.engine.MarkBillCleared(c.Request.Context(), actor, id)
	if err != nil {
		if apperrors.IsDelivery(err) {
			respondDelivery(c, h.logger, err, gin.H{"bill": bill, "transition": result})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bill": bill, "transition": result})
}

// DeleteBill removes a bill.
func (h *BillHandler) DeleteBill(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bill ID"})
		return
	}

	if err := h.engine.DeleteBill(c.Request.Context(), actor, id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bill deleted"})
}
