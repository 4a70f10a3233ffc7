package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"citizen-services/internal/apperrors"
	"citizen-services/internal/metrics"
	"citizen-services/internal/models"
	"citizen-services/internal/policy"
)

// ComplaintStore is the persistence contract for complaints.
type ComplaintStore interface {
	Create(ctx context.Context, c *models.Complaint) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error)
	Update(ctx context.Context, c *models.Complaint) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ComplaintStatus, updatedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Complaint, error)
	ListAll(ctx context.Context) ([]models.Complaint, error)
}

// BillStore is the persistence contract for electricity bills.
type BillStore interface {
	Create(ctx context.Context, b *models.ElectricityBill) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ElectricityBill, error)
	Update(ctx context.Context, b *models.ElectricityBill) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.BillStatus, updatedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter models.BillFilter) ([]models.ElectricityBill, error)
	ListAll(ctx context.Context) ([]models.ElectricityBill, error)
}

// MessageStore is the persistence contract for messages.
type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Message, error)
	MarkRead(ctx context.Context, id uuid.UUID, readAt time.Time) (bool, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]models.Message, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error)
	ListBySender(ctx context.Context, senderID uuid.UUID) ([]models.Message, error)
}

// UserStore resolves record owners for notification addressing.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Notifier dispatches creation and status-transition notifications.
type Notifier interface {
	ComplaintCreated(ctx context.Context, owner *models.User, c *models.Complaint) error
	ComplaintStatusChanged(ctx context.Context, owner *models.User, c *models.Complaint) error
	BillStatusChanged(ctx context.Context, owner *models.User, b *models.ElectricityBill) error
	MessageReceived(ctx context.Context, recipient *models.User, m *models.Message) error
}

// Engine applies record mutations on behalf of an explicit actor. Every
// operation first consults the access policy, then persists, and only
// then dispatches notifications. A notification failure after a
// committed mutation surfaces as apperrors.DeliveryError alongside the
// persisted record; it is never rolled back or silently dropped.
type Engine struct {
	complaints ComplaintStore
	bills      BillStore
	messages   MessageStore
	users      UserStore
	notifier   Notifier
	policy     *policy.Policy
	metrics    *metrics.Collector
	logger     *zap.Logger
	now        func() time.Time
}

// NewEngine creates a workflow engine.
func NewEngine(
	complaints ComplaintStore,
	bills BillStore,
	messages MessageStore,
	users UserStore,
	notifier Notifier,
	pol *policy.Policy,
	collector *metrics.Collector,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		complaints: complaints,
		bills:      bills,
		messages:   messages,
		users:      users,
		notifier:   notifier,
		policy:     pol,
		metrics:    collector,
		logger:     logger.Named("workflow"),
		now:        time.Now,
	}
}

// CreateComplaint submits a new complaint owned by the acting citizen
// and notifies them of the submission.
func (e *Engine) CreateComplaint(ctx context.Context, actor models.Actor, req *models.CreateComplaintRequest) (*models.Complaint, error) {
	if !req.Category.IsValid() {
		return nil, errors.Wrapf(apperrors.ErrInvalidStatus, "unknown category %q", req.Category)
	}

	now := e.now()
	c := &models.Complaint{
		ID:          uuid.New(),
		OwnerID:     actor.ID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Status:      models.ComplaintStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := e.complaints.Create(ctx, c); err != nil {
		return nil, err
	}

	e.logger.Info("Complaint created",
		zap.String("id", c.ID.String()),
		zap.String("owner", c.OwnerID.String()))

	if err := e.notifyComplaintCreated(ctx, c); err != nil {
		return c, err
	}
	return c, nil
}

// GetComplaint retrieves a complaint visible to the actor.
func (e *Engine) GetComplaint(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Complaint, error) {
	return e.visibleComplaint(ctx, actor, id, policy.ActionView)
}

// UpdateComplaint edits the complaint's content fields.
func (e *Engine) UpdateComplaint(ctx context.Context, actor models.Actor, id uuid.UUID, req *models.UpdateComplaintRequest) (*models.Complaint, error) {
	c, err := e.visibleComplaint(ctx, actor, id, policy.ActionEdit)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Category != nil {
		if !req.Category.IsValid() {
			return nil, errors.Wrapf(apperrors.ErrInvalidStatus, "unknown category %q", *req.Category)
		}
		c.Category = *req.Category
	}
	c.UpdatedAt = e.now()

	if err := e.complaints.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteComplaint removes a complaint. No cascading side effects.
func (e *Engine) DeleteComplaint(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if _, err := e.visibleComplaint(ctx, actor, id, policy.ActionDelete); err != nil {
		return err
	}
	return e.complaints.Delete(ctx, id)
}

// ListComplaints returns the actor's complaints, or every complaint for
// staff, newest first.
func (e *Engine) ListComplaints(ctx context.Context, actor models.Actor) ([]models.Complaint, error) {
	if e.policy.CanListAll(actor) {
		return e.complaints.ListAll(ctx)
	}
	return e.complaints.ListByOwner(ctx, actor.ID)
}

// UpdateComplaintStatus validates and applies a status change. The new
// status is persisted and updated_at bumped regardless of whether the
// value changed; a notification goes out only when it did.
func (e *Engine) UpdateComplaintStatus(ctx context.Context, actor models.Actor, id uuid.UUID, newStatus string) (*models.Complaint, models.TransitionResult, error) {
	status := models.ComplaintStatus(newStatus)
	if !status.IsValid() {
		return nil, models.TransitionResult{}, errors.Wrapf(apperrors.ErrInvalidStatus, "unknown complaint status %q", newStatus)
	}

	c, err := e.visibleComplaint(ctx, actor, id, policy.ActionMarkStatus)
	if err != nil {
		return nil, models.TransitionResult{}, err
	}

	result := models.TransitionResult{
		OldStatus: string(c.Status),
		NewStatus: string(status),
		Changed:   c.Status != status,
	}

	now := e.now()
	if err := e.complaints.UpdateStatus(ctx, c.ID, status, now); err != nil {
		return nil, models.TransitionResult{}, err
	}
	c.Status = status
	c.UpdatedAt = now

	if !result.Changed {
		return c, result, nil
	}

	e.metrics.ObserveTransition("complaint", string(status))
	e.logger.Info("Complaint status changed",
		zap.String("id", c.ID.String()),
		zap.String("old_status", result.OldStatus),
		zap.String("new_status", result.NewStatus))

	if err := e.notifyComplaintStatus(ctx, c); err != nil {
		return c, result, err
	}
	return c, result, nil
}

// visibleComplaint loads a complaint and enforces the access policy.
// A citizen probing another owner's record gets ErrNotFound so that
// record existence never leaks; a role-gated action on a record the
// actor can see is an explicit ErrForbidden.
func (e *Engine) visibleComplaint(ctx context.Context, actor models.Actor, id uuid.UUID, action policy.Action) (*models.Complaint, error) {
	c, err := e.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.policy.CanActComplaint(actor, c, action) {
		if e.policy.CanActComplaint(actor, c, policy.ActionView) {
			return nil, errors.Wrap(apperrors.ErrForbidden, "only staff can change complaint status")
		}
		return nil, apperrors.ErrNotFound
	}
	return c, nil
}

func (e *Engine) notifyComplaintCreated(ctx context.Context, c *models.Complaint) error {
	owner, err := e.users.GetByID(ctx, c.OwnerID)
	if err != nil {
		return &apperrors.DeliveryError{Err: errors.Wrap(err, "failed to resolve complaint owner")}
	}
	err = e.notifier.ComplaintCreated(ctx, owner, c)
	e.metrics.ObserveNotification("complaint_created", err)
	return err
}

func (e *Engine) notifyComplaintStatus(ctx context.Context, c *models.Complaint) error {
	owner, err := e.users.GetByID(ctx, c.OwnerID)
	if err != nil {
		return &apperrors.DeliveryError{Err: errors.Wrap(err, "failed to resolve complaint owner")}
	}
	err = e.notifier.ComplaintStatusChanged(ctx, owner, c)
	e.metrics.ObserveNotification("complaint_status", err)
	return err
}
