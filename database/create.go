package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"campusjobs_backend/internal/logger"
)

// CreateDatabase создает базу name, если ее еще нет.
// adminDSN должен указывать на существующую служебную базу (обычно postgres).
func CreateDatabase(adminDSN, name string) (bool, error) {
	db, err := sql.Open("postgres", adminDSN)
	if err != nil {
		return false, fmt.Errorf("open admin connection: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return false, fmt.Errorf("ping admin connection: %w", err)
	}

	var exists bool
	err = db.QueryRow(`SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check database %q: %w", name, err)
	}
	if exists {
		logger.Info("Database already exists", "database", name)
		return false, nil
	}

	if _, err := db.Exec("CREATE DATABASE " + pq.QuoteIdentifier(name)); err != nil {
		var pqErr *pq.Error
		// 42P04 duplicate_database: базу успели создать параллельно
		if errors.As(err, &pqErr) && pqErr.Code == "42P04" {
			return false, nil
		}
		return false, fmt.Errorf("create database %q: %w", name, err)
	}

	logger.Info("Database created", "database", name)
	return true, nil
}
