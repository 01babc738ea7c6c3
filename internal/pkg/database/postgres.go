package database

import (
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib" // pgx database/sql driver
	"github.com/jmoiron/sqlx"
	"github.com/omondi/sokocart/internal/pkg/models"
)

// PostgresClient represents a PostgreSQL database client
type PostgresClient struct {
	db *sqlx.DB
}

// NewPostgresClient creates a new PostgreSQL client
func NewPostgresClient(config models.DatabaseConfig) (*PostgresClient, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		config.Username,
		config.Password,
		config.Host,
		config.Port,
		config.Database,
		config.SSLMode,
	)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if config.MaxConns > 0 {
		db.SetMaxOpenConns(config.MaxConns)
	}
	if config.IdleConns > 0 {
		db.SetMaxIdleConns(config.IdleConns)
	}
	db.SetConnMaxLifetime(1 * time.Hour)

	return &PostgresClient{db: db}, nil
}

// GetDB returns the underlying sqlx DB instance
func (p *PostgresClient) GetDB() *sqlx.DB {
	return p.db
}

// Close closes the database connection pool
func (p *PostgresClient) Close() error {
	return p.db.Close()
}
