package database

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Repository is the shared base for all entity repositories.
type Repository struct {
	db     *Database
	logger *zap.Logger
}

// NewRepository creates a repository base around the database handle.
func NewRepository(db *Database, logger *zap.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// DB returns the underlying sqlx handle.
func (r *Repository) DB() *sqlx.DB {
	return r.db.DB()
}

// Logger returns the repository logger.
func (r *Repository) Logger() *zap.Logger {
	return r.logger
}
