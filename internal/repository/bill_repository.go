package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"citizen-services/internal/database"
	"citizen-services/internal/models"
)

// BillRepository handles electricity bill persistence. The bill_number
// column carries a unique constraint; violations surface as
// apperrors.ErrDuplicateKey.
type BillRepository struct {
	*database.Repository
}

// NewBillRepository creates a new bill repository.
func NewBillRepository(db *database.Database, logger *zap.Logger) *BillRepository {
	return &BillRepository{
		Repository: database.NewRepository(db, logger.Named("bill_repository")),
	}
}

// Create persists a new bill.
func (r *BillRepository) Create(ctx context.Context, b *models.ElectricityBill) error {
	query := `
		INSERT INTO electricity_bills (id, owner_id, bill_number, consumer_name, address, amount, due_date, status, created_at, updated_at)
		VALUES (:id, :owner_id, :bill_number, :consumer_name, :address, :amount, :due_date, :status, :created_at, :updated_at)`

	_, err := r.DB().NamedExecContext(ctx, query, b)
	return mapError(err, "failed to create bill")
}

// GetByID retrieves a bill by ID.
func (r *BillRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ElectricityBill, error) {
	var b models.ElectricityBill

	query := `
		SELECT id, owner_id, bill_number, consumer_name, address, amount, due_date, status, created_at, updated_at
		FROM electricity_bills
		WHERE id = $1`

	if err := r.DB().GetContext(ctx, &b, query, id); err != nil {
		return nil, mapError(err, "failed to get bill")
	}
	return &b, nil
}

// Update persists the bill's content fields.
func (r *BillRepository) Update(ctx context.Context, b *models.ElectricityBill) error {
	query := `
		UPDATE electricity_bills
		SET consumer_name = :consumer_name, address = :address, amount = :amount, due_date = :due_date, updated_at = :updated_at
		WHERE id = :id`

	_, err := r.DB().NamedExecContext(ctx, query, b)
	return mapError(err, "failed to update bill")
}

// UpdateStatus persists a new status and bumps updated_at atomically.
func (r *BillRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.BillStatus, updatedAt time.Time) error {
	query := `UPDATE electricity_bills SET status = $2, updated_at = $3 WHERE id = $1`

	res, err := r.DB().ExecContext(ctx, query, id, status, updatedAt)
	if err != nil {
		return mapError(err, "failed to update bill status")
	}
	return requireRow(res, "bill")
}

// Delete removes a bill from the store.
func (r *BillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.DB().ExecContext(ctx, `DELETE FROM electricity_bills WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "failed to delete bill")
	}
	return requireRow(res, "bill")
}

// ListByOwner returns the owner's bills matching the filter, newest
// first. Search matches bill_number or consumer_name case-insensitively;
// status is an exact match; the filters compose with AND.
func (r *BillRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter models.BillFilter) ([]models.ElectricityBill, error) {
	bills := []models.ElectricityBill{}

	query := `
		SELECT id, owner_id, bill_number, consumer_name, address, amount, due_date, status, created_at, updated_at
		FROM electricity_bills
		WHERE owner_id = $1`
	args := []interface{}{ownerID}

	if filter.Search != "" {
		query += ` AND (bill_number ILIKE '%' || $2 || '%' OR consumer_name ILIKE '%' || $2 || '%')`
		args = append(args, escapeLike(filter.Search))
	}
	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, len(args)+1)
		args = append(args, filter.Status)
	}
	query += ` ORDER BY created_at DESC`

	if err := r.DB().SelectContext(ctx, &bills, query, args...); err != nil {
		return nil, mapError(err, "failed to list bills")
	}
	return bills, nil
}

// escapeLike escapes LIKE metacharacters so user-supplied search text
// matches as a literal substring instead of a pattern.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// ListAll returns every bill, newest first. Staff dashboards only.
func (r *BillRepository) ListAll(ctx context.Context) ([]models.ElectricityBill, error) {
	bills := []models.ElectricityBill{}

	query := `
		SELECT id, owner_id, bill_number, consumer_name, address, amount, due_date, status, created_at, updated_at
		FROM electricity_bills
		ORDER BY created_at DESC`

	if err := r.DB().SelectContext(ctx, &bills, query); err != nil {
		return nil, mapError(err, "failed to list bills")
	}
	return bills, nil
}
