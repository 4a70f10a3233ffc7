package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"citizen-services/internal/database"
	"citizen-services/internal/models"
)

// ComplaintRepository handles complaint persistence.
type ComplaintRepository struct {
	*database.Repository
}

// NewComplaintRepository creates a new complaint repository.
func NewComplaintRepository(db *database.Database, logger *zap.Logger) *ComplaintRepository {
	return &ComplaintRepository{
		Repository: database.NewRepository(db, logger.Named("complaint_repository")),
	}
}

// Create persists a new complaint.
func (r *ComplaintRepository) Create(ctx context.Context, c *models.Complaint) error {
	query := `
		INSERT INTO complaints (id, owner_id, title, description, category, status, created_at, updated_at)
		VALUES (:id, :owner_id, :title, :description, :category, :status, :created_at, :updated_at)`

	_, err := r.DB().NamedExecContext(ctx, query, c)
	return mapError(err, "failed to create complaint")
}

// GetByID retrieves a complaint by ID.
func (r *ComplaintRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	var c models.Complaint

	query := `
		SELECT id, owner_id, title, description, category, status, created_at, updated_at
		FROM complaints
		WHERE id = $1`

	if err := r.DB().GetContext(ctx, &c, query, id); err != nil {
		return nil, mapError(err, "failed to get complaint")
	}
	return &c, nil
}

// Update persists the complaint's content fields. created_at is never
// touched.
func (r *ComplaintRepository) Update(ctx context.Context, c *models.Complaint) error {
	query := `
		UPDATE complaints
		SET title = :title, description = :description, category = :category, updated_at = :updated_at
		WHERE id = :id`

	_, err := r.DB().NamedExecContext(ctx, query, c)
	return mapError(err, "failed to update complaint")
}

// UpdateStatus persists a new status and bumps updated_at in a single
// atomic update-by-id.
func (r *ComplaintRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ComplaintStatus, updatedAt time.Time) error {
	query := `UPDATE complaints SET status = $2, updated_at = $3 WHERE id = $1`

	res, err := r.DB().ExecContext(ctx, query, id, status, updatedAt)
	if err != nil {
		return mapError(err, "failed to update complaint status")
	}
	return requireRow(res, "complaint")
}

// Delete removes a complaint from the store.
func (r *ComplaintRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.DB().ExecContext(ctx, `DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "failed to delete complaint")
	}
	return requireRow(res, "complaint")
}

// ListByOwner returns the owner's complaints, newest first.
func (r *ComplaintRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Complaint, error) {
	complaints := []models.Complaint{}

	query := `
		SELECT id, owner_id, title, description, category, status, created_at, updated_at
		FROM complaints
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	if err := r.DB().SelectContext(ctx, &complaints, query, ownerID); err != nil {
		return nil, mapError(err, "failed to list complaints")
	}
	return complaints, nil
}

// ListAll returns every complaint, newest first. Staff dashboards only.
func (r *ComplaintRepository) ListAll(ctx context.Context) ([]models.Complaint, error) {
	complaints := []models.Complaint{}

	query := `
		SELECT id, owner_id, title, description, category, status, created_at, updated_at
		FROM complaints
		ORDER BY created_at DESC`

	if err := r.DB().SelectContext(ctx, &complaints, query); err != nil {
		return nil, mapError(err, "failed to list complaints")
	}
	return complaints, nil
}
