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

// MessageHandler handles HTTP requests for staff-to-citizen messages.
type MessageHandler struct {
	engine *workflow.Engine
	logger *zap.Logger
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(engine *workflow.Engine, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		engine: engine,
		logger: logger.Named("message_handler"),
	}
}

// SendMessage sends a message to a citizen. Staff only.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	message, err := h.engine.SendMessage(c.Request.Context(), actor, &req)
	if err != nil {
		if apperrors.IsDelivery(err) {
			respondDelivery(c, h.logger, err, gin.H{"message": message})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// ListInbox lists the actor's received messages with the unread count.
func (h *MessageHandler) ListInbox(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	inbox, err := h.engine.ListInbox(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, inbox)
}

// ListSent lists the messages the acting staff member has sent.
func (h *MessageHandler) ListSent(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	messages, err := h.engine.ListSent(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
}

// ReadMessage returns a message to its recipient, marking it read on
// first view.
func (h *MessageHandler) ReadMessage(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message ID"})
		return
	}

	message, result, err := h.engine.ReadMessage(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message, "transition": result})
}
