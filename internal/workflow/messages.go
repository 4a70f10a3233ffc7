package workflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"citizen-services/internal/apperrors"
	"citizen-services/internal/models"
	"citizen-services/internal/policy"
)

// SendMessage creates a staff-to-citizen message and pings the
// recipient by email. Sent messages are immutable.
func (e *Engine) SendMessage(ctx context.Context, actor models.Actor, req *models.SendMessageRequest) (*models.Message, error) {
	if !e.policy.CanSendMessage(actor) {
		return nil, errors.Wrap(apperrors.ErrForbidden, "only staff can send messages")
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, errors.Wrapf(apperrors.ErrInvalidStatus, "unknown priority %q", priority)
	}

	recipient, err := e.users.GetByID(ctx, req.RecipientID)
	if err != nil {
		return nil, errors.Wrap(err, "message recipient")
	}
	if recipient.Role == models.RoleStaff {
		return nil, errors.Wrap(apperrors.ErrForbidden, "messages may only be sent to citizens")
	}

	m := &models.Message{
		ID:          uuid.New(),
		SenderID:    actor.ID,
		RecipientID: recipient.ID,
		Subject:     req.Subject,
		Content:     req.Content,
		Priority:    priority,
		IsRead:      false,
		CreatedAt:   e.now(),
	}

	if err := e.messages.Create(ctx, m); err != nil {
		return nil, err
	}

	e.logger.Info("Message sent",
		zap.String("id", m.ID.String()),
		zap.String("recipient", m.RecipientID.String()),
		zap.String("priority", string(m.Priority)))

	notifyErr := e.notifier.MessageReceived(ctx, recipient, m)
	e.metrics.ObserveNotification("message_received", notifyErr)
	if notifyErr != nil {
		return m, notifyErr
	}
	return m, nil
}

// ReadMessage returns a message to its recipient, marking it read on
// first view. Marking is idempotent: the second call leaves read_at at
// the value set by the first and reports Changed=false.
func (e *Engine) ReadMessage(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Message, models.TransitionResult, error) {
	m, err := e.messages.GetByID(ctx, id)
	if err != nil {
		return nil, models.TransitionResult{}, err
	}
	if !e.policy.CanActMessage(actor, m, policy.ActionView) {
		return nil, models.TransitionResult{}, apperrors.ErrNotFound
	}

	result := models.TransitionResult{
		OldStatus: readLabel(m.IsRead),
		NewStatus: readLabel(true),
	}

	if m.IsRead {
		return m, result, nil
	}

	now := e.now()
	changed, err := e.messages.MarkRead(ctx, m.ID, now)
	if err != nil {
		return nil, models.TransitionResult{}, err
	}
	if changed {
		m.IsRead = true
		m.ReadAt = &now
		result.Changed = true
		e.metrics.ObserveTransition("message", "read")
	}
	return m, result, nil
}

// ListInbox returns the actor's received messages with the unread count.
func (e *Engine) ListInbox(ctx context.Context, actor models.Actor) (*models.Inbox, error) {
	messages, err := e.messages.ListByRecipient(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	unread, err := e.messages.CountUnread(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return &models.Inbox{Messages: messages, Unread: unread}, nil
}

// ListSent returns the messages the acting staff member has sent.
func (e *Engine) ListSent(ctx context.Context, actor models.Actor) ([]models.Message, error) {
	if !e.policy.CanSendMessage(actor) {
		return nil, errors.Wrap(apperrors.ErrForbidden, "staff role required")
	}
	return e.messages.ListBySender(ctx, actor.ID)
}

func readLabel(isRead bool) string {
	if isRead {
		return "read"
	}
	return "unread"
}
