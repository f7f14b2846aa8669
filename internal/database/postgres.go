package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

var PostgresDB *sql.DB

// ConnectPostgres connects to PostgreSQL database
func ConnectPostgres(postgresURI string) error {
	var err error

	PostgresDB, err = sql.Open("postgres", postgresURI)
	if err != nil {
		return err
	}

	// Set connection pool settings
	PostgresDB.SetMaxOpenConns(25)
	PostgresDB.SetMaxIdleConns(5)
	PostgresDB.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err = PostgresDB.Ping(); err != nil {
		return err
	}

	log.Println("✅ Connected to PostgreSQL")

	// Initialize tables
	if err = InitPostgresTables(); err != nil {
		return err
	}

	return nil
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables() error {
	queries := []string{
		// Collections: named groupings of nuggets, public (community) or private (personal)
		`CREATE TABLE IF NOT EXISTS collections (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			name VARCHAR(120) NOT NULL,
			slug VARCHAR(160) NOT NULL UNIQUE,
			description TEXT,
			creator_id VARCHAR(24) NOT NULL,
			type VARCHAR(10) NOT NULL DEFAULT 'public',
			entry_count INTEGER NOT NULL DEFAULT 0
		)`,

		// One row per nugget added to a collection
		`CREATE TABLE IF NOT EXISTS collection_entries (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			collection_id UUID NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
			article_id VARCHAR(24) NOT NULL,
			added_by VARCHAR(24) NOT NULL,
			added_at TIMESTAMP NOT NULL DEFAULT NOW(),
			flagged_by TEXT[] NOT NULL DEFAULT '{}',
			UNIQUE (collection_id, article_id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_collections_creator ON collections(creator_id)`,
		`CREATE INDEX IF NOT EXISTS idx_collection_entries_collection ON collection_entries(collection_id)`,
		`CREATE INDEX IF NOT EXISTS idx_collection_entries_article ON collection_entries(article_id)`,
	}

	for _, query := range queries {
		if _, err := PostgresDB.Exec(query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection
func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}
