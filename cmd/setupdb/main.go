// Command setupdb создает базу данных из конфига, если ее еще нет, и накатывает миграции.
package main

import (
	"flag"

	"campusjobs_backend/database"
	"campusjobs_backend/internal/config"
	"campusjobs_backend/internal/logger"
)

func main() {
	migrate := flag.Bool("migrate", true, "run AutoMigrate after creating the database")
	flag.Parse()

	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)

	created, err := database.CreateDatabase(cfg.Database.AdminDSN, cfg.Database.Name)
	if err != nil {
		logger.Fatal("Failed to create database", "error", err)
	}
	logger.Info("Database ready", "database", cfg.Database.Name, "created", created)

	if !*migrate {
		return
	}

	db, err := database.Connect(cfg.Database.DSN, false)
	if err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	logger.Info("Migrations applied")
}
