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

// CreateBill issues a new electricity bill to a citizen. Staff only.
func (e *Engine) CreateBill(ctx context.Context, actor models.Actor, req *models.CreateBillRequest) (*models.ElectricityBill, error) {
	if !e.policy.CanCreateBill(actor) {
		return nil, errors.Wrap(apperrors.ErrForbidden, "only staff can issue electricity bills")
	}
	if req.Amount < 0 {
		return nil, errors.Wrap(apperrors.ErrInvalidStatus, "amount must be non-negative")
	}
	if _, err := e.users.GetByID(ctx, req.OwnerID); err != nil {
		return nil, errors.Wrap(err, "bill owner")
	}

	now := e.now()
	b := &models.ElectricityBill{
		ID:           uuid.New(),
		OwnerID:      req.OwnerID,
		BillNumber:   req.BillNumber,
		ConsumerName: req.ConsumerName,
		Address:      req.Address,
		Amount:       req.Amount,
		DueDate:      req.DueDate,
		Status:       models.BillStatusDue,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := e.bills.Create(ctx, b); err != nil {
		return nil, err
	}

	e.logger.Info("Bill created",
		zap.String("id", b.ID.String()),
		zap.String("bill_number", b.BillNumber),
		zap.String("owner", b.OwnerID.String()))
	return b, nil
}

// GetBill retrieves a bill visible to the actor.
func (e *Engine) GetBill(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.ElectricityBill, error) {
	return e.visibleBill(ctx, actor, id, policy.ActionView)
}

// UpdateBill edits the bill's content fields.
func (e *Engine) UpdateBill(ctx context.Context, actor models.Actor, id uuid.UUID, req *models.UpdateBillRequest) (*models.ElectricityBill, error) {
	b, err := e.visibleBill(ctx, actor, id, policy.ActionEdit)
	if err != nil {
		return nil, err
	}

	if req.ConsumerName != nil {
		b.ConsumerName = *req.ConsumerName
	}
	if req.Address != nil {
		b.Address = *req.Address
	}
	if req.Amount != nil {
		if *req.Amount < 0 {
			return nil, errors.Wrap(apperrors.ErrInvalidStatus, "amount must be non-negative")
		}
		b.Amount = *req.Amount
	}
	if req.DueDate != nil {
		b.DueDate = *req.DueDate
	}
	b.UpdatedAt = e.now()

	if err := e.bills.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBill removes a bill from the store.
func (e *Engine) DeleteBill(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if _, err := e.visibleBill(ctx, actor, id, policy.ActionDelete); err != nil {
		return err
	}
	return e.bills.Delete(ctx, id)
}

// UpdateBillStatus validates and applies a bill status change,
// notifying the owner when the value actually transitioned.
func (e *Engine) UpdateBillStatus(ctx context.Context, actor models.Actor, id uuid.UUID, newStatus string) (*models.ElectricityBill, models.TransitionResult, error) {
	status := models.BillStatus(newStatus)
	if !status.IsValid() {
		return nil, models.TransitionResult{}, errors.Wrapf(apperrors.ErrInvalidStatus, "unknown bill status %q", newStatus)
	}

	b, err := e.visibleBill(ctx, actor, id, policy.ActionMarkStatus)
	if err != nil {
		return nil, models.TransitionResult{}, err
	}

	result := models.TransitionResult{
		OldStatus: string(b.Status),
		NewStatus: string(status),
		Changed:   b.Status != status,
	}

	now := e.now()
	if err := e.bills.UpdateStatus(ctx, b.ID, status, now); err != nil {
		return nil, models.TransitionResult{}, err
	}
	b.Status = status
	b.UpdatedAt = now

	if !result.Changed {
		return b, result, nil
	}

	e.metrics.ObserveTransition("bill", string(status))
	e.logger.Info("Bill status changed",
		zap.String("id", b.ID.String()),
		zap.String("old_status", result.OldStatus),
		zap.String("new_status", result.NewStatus))

	if err := e.notifyBillStatus(ctx, b); err != nil {
		return b, result, err
	}
	return b, result, nil
}

// MarkBillCleared is the citizen-facing shortcut for paying off a bill.
func (e *Engine) MarkBillCleared(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.ElectricityBill, models.TransitionResult, error) {
	return e.UpdateBillStatus(ctx, actor, id, string(models.BillStatusCleared))
}

// ListBills returns the actor's bills matching the filter, newest first,
// with aggregates computed over the filtered set actually returned.
func (e *Engine) ListBills(ctx context.Context, actor models.Actor, filter models.BillFilter) ([]models.ElectricityBill, models.BillStats, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, models.BillStats{}, errors.Wrapf(apperrors.ErrInvalidStatus, "unknown bill status %q", filter.Status)
	}

	bills, err := e.bills.ListByOwner(ctx, actor.ID, filter)
	if err != nil {
		return nil, models.BillStats{}, err
	}

	var stats models.BillStats
	for _, b := range bills {
		stats.Total++
		switch b.Status {
		case models.BillStatusDue:
			stats.Due++
		case models.BillStatusCleared:
			stats.Cleared++
		}
		stats.Amount += b.Amount
	}
	return bills, stats, nil
}

// ListAllBills returns every bill in the store. Staff only.
func (e *Engine) ListAllBills(ctx context.Context, actor models.Actor) ([]models.ElectricityBill, error) {
	if !e.policy.CanListAll(actor) {
		return nil, errors.Wrap(apperrors.ErrForbidden, "staff role required")
	}
	return e.bills.ListAll(ctx)
}

func (e *Engine) visibleBill(ctx context.Context, actor models.Actor, id uuid.UUID, action policy.Action) (*models.ElectricityBill, error) {
	b, err := e.bills.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.policy.CanActBill(actor, b, action) {
		return nil, apperrors.ErrNotFound
	}
	return b, nil
}

func (e *Engine) notifyBillStatus(ctx context.Context, b *models.ElectricityBill) error {
	owner, err := e.users.GetByID(ctx, b.OwnerID)
	if err != nil {
		return &apperrors.DeliveryError{Err: errors.Wrap(err, "failed to resolve bill owner")}
	}
	err = e.notifier.BillStatusChanged(ctx, owner, b)
	e.metrics.ObserveNotification("bill_status", err)
	return err
}
