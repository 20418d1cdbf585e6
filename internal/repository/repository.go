package repository

import (
	"fmt"
	"log"
	"time"

	"github.com/dinerozz/focus-session-backend/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// NewRepository opens the Postgres pool that holds admins and extension users.
func NewRepository(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", DSN(cfg))
	if err != nil {
		log.Println("❌ Error connecting to database:", err)
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("✅ Connected to database")

	return db, nil
}

func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}

// MigrationURL is the same database in the URL form golang-migrate expects.
func MigrationURL(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.SSLMode)
}
