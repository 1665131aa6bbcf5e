package db

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS participants (
            name TEXT PRIMARY KEY,
            last_heartbeat BIGINT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS messages (
            id TEXT PRIMARY KEY,
            seq BIGSERIAL,
            from_name TEXT NOT NULL,
            to_name TEXT NOT NULL,
            text TEXT NOT NULL,
            type TEXT NOT NULL,
            time TEXT NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS messages_seq_idx ON messages (seq);`,
		`CREATE INDEX IF NOT EXISTS participants_heartbeat_idx ON participants (last_heartbeat);`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	log.Println("database migrations applied")
	return nil
}
