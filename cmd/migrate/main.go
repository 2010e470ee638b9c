package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/model"
	"github.com/sanalejo720/crm-bot-ngso-sub001/pkg/database"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: extensions GORM AutoMigrate does not handle
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	if err := database.Migrate(db,
		&model.User{},
		&model.Debtor{},
		&model.Flow{},
		&model.FlowNode{},
		&model.Chat{},
		&model.ChatMessage{},
	); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: reporting views
	log.Println("Step 3: Creating Views...")

	postMigrationSQL := []string{
		// View: agent_open_chats
		`CREATE OR REPLACE VIEW agent_open_chats AS
		 SELECT u.id AS agent_id, u.full_name, COUNT(c.id) AS open_chats
		 FROM users u
		 LEFT JOIN chats c ON c.assigned_agent_id = u.id AND c.status = 'active' AND c.deleted_at IS NULL
		 WHERE u.role = 'agent' AND u.deleted_at IS NULL
		 GROUP BY u.id, u.full_name;`,

		// View: debtor_contact_history
		`CREATE OR REPLACE VIEW debtor_contact_history AS
		 SELECT d.id AS debtor_id, d.full_name, d.document_number, d.total_debt, d.last_contacted_at, c.id AS chat_id, c.status AS chat_status
		 FROM debtors d
		 LEFT JOIN chats c ON c.phone = d.phone AND c.deleted_at IS NULL
		 WHERE d.deleted_at IS NULL
		 ORDER BY d.last_contacted_at DESC NULLS LAST;`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
