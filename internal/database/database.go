package database

import (
	"context"
	"net/url"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"citizen-services/internal/config"
)

// Database wraps the sqlx connection pool.
type Database struct {
	db     *sqlx.DB
	logger *zap.Logger
	config *config.DatabaseConfig
}

// New creates a new database instance and establishes the connection.
func New(cfg *config.DatabaseConfig, logger *zap.Logger) (*Database, error) {
	if cfg == nil {
		return nil, errors.New("database config is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	d := &Database{
		logger: logger.Named("database"),
		config: cfg,
	}

	if err := d.connect(); err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	return d, nil
}

func (d *Database) connect() error {
	d.logger.Info("Connecting to database",
		zap.String("connection_string", maskConnectionString(d.config.ConnectionString)))

	db, err := sqlx.Open("postgres", d.config.ConnectionString)
	if err != nil {
		return errors.Wrap(err, "failed to open postgres connection")
	}

	db.SetMaxOpenConns(d.config.MaxOpenConnections)
	db.SetMaxIdleConns(d.config.MaxIdleConnections)
	db.SetConnMaxLifetime(d.config.ConnectionLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), d.config.ConnectionTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return errors.Wrap(err, "failed to ping database")
	}

	d.db = db
	d.logger.Info("Successfully connected to database")
	return nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	if d.db != nil {
		d.logger.Info("Closing database connection")
		return d.db.Close()
	}
	return nil
}

// DB returns the underlying sqlx.DB instance.
func (d *Database) DB() *sqlx.DB {
	return d.db
}

// Health checks database connectivity.
func (d *Database) Health(ctx context.Context) error {
	if d.db == nil {
		return errors.New("database connection not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return d.db.PingContext(ctx)
}

// RunMigrations executes pending schema migrations.
func (d *Database) RunMigrations() error {
	d.logger.Info("Running database migrations", zap.String("path", d.config.MigrationPath))

	driver, err := postgres.WithInstance(d.db.DB, &postgres.Config{})
	if err != nil {
		return errors.Wrap(err, "failed to create migration driver")
	}

	m, err := migrate.NewWithDatabaseInstance(d.config.MigrationPath, "postgres", driver)
	if err != nil {
		return errors.Wrap(err, "failed to create migration instance")
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, "failed to run migrations")
	}

	d.logger.Info("Database migrations completed")
	return nil
}

func maskConnectionString(conn string) string {
	u, err := url.Parse(conn)
	if err != nil || u.User == nil {
		return conn
	}
	u.User = url.User(u.User.Username())
	return u.String()
}
