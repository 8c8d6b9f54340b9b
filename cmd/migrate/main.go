package main

import (
	"log"
	"os"

	"spark-journal-be/internal/model"
	"spark-journal-be/pkg/database"

	"github.com/joho/godotenv"
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

	// 3. Pre-Migration: Extensions & Enums (Things GORM AutoMigrate doesn't do perfectly)
	log.Println("Step 1: Setting up Extensions and Enums...")

	setupSQL := []string{
		// Extensions
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,

		// Enums (Idempotent creation)
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'user_role') THEN CREATE TYPE user_role AS ENUM ('user', 'admin'); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'user_status') THEN CREATE TYPE user_status AS ENUM ('pending', 'active', 'suspended', 'deleted'); END IF; END $$;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models (The Core Task)
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.User{},
		&model.PasswordResetToken{},
		&model.UserProvider{},
		&model.EmailVerificationToken{},
		&model.UserRefreshToken{},
		&model.JournalEntry{},
		&model.Memory{},
		&model.MemoryEmbedding{},
		&model.SparkNudge{},
		&model.SparkFeedback{},
		&model.SparkRun{},
		&model.TuningOverride{},
	}

	// Migrate strictly
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Views & Functions
	log.Println("Step 3: Creating Views and Functions...")

	postMigrationSQL := []string{
		// Function: set_current_timestamp_updated_at
		`CREATE OR REPLACE FUNCTION set_current_timestamp_updated_at() RETURNS trigger LANGUAGE plpgsql AS $$
		DECLARE _new_value TIMESTAMP WITH TIME ZONE;
		BEGIN
		  _new_value := now();
		  IF NEW.updated_at IS DISTINCT FROM _new_value THEN NEW.updated_at = _new_value; END IF;
		  RETURN NEW;
		END; $$;`,

		// View: semantic_searchable_memories
		`CREATE OR REPLACE VIEW semantic_searchable_memories AS
		 SELECT m.id AS memory_id, m.snippet, m.kind, m.hop_distance, m.occurred_at, me.embedding_value AS embedding, m.user_id
		 FROM memories m JOIN memory_embeddings me ON m.id = me.memory_id
		 WHERE m.deleted_at IS NULL;`,

		// ANN index for similarity search over memory embeddings
		`CREATE INDEX IF NOT EXISTS idx_memory_embeddings_hnsw
		 ON memory_embeddings USING hnsw (embedding_value vector_cosine_ops);`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
