package main

import (
	"log"
	"os"

	"support-agent-be/internal/model"
	"support-agent-be/pkg/database"

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
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'user_role') THEN CREATE TYPE user_role AS ENUM ('user', 'agent', 'admin'); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'ticket_status') THEN CREATE TYPE ticket_status AS ENUM ('open', 'assigned', 'escalated', 'closed'); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'metric_kind') THEN CREATE TYPE metric_kind AS ENUM ('kra', 'rgqs'); END IF; END $$;`,
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
		&model.Ticket{},
		&model.TicketNote{},
		&model.TicketMessage{},
		&model.KBArticle{},
		&model.ArticleEmbedding{},
		&model.AgentMetric{},
	}

	// Migrate strictly
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Indexes & Views
	log.Println("Step 3: Creating Indexes and Views...")

	postMigrationSQL := []string{
		// ANN index for cosine search over article chunks
		`CREATE INDEX IF NOT EXISTS idx_article_embeddings_vector
		 ON article_embeddings USING hnsw (embedding_value vector_cosine_ops);`,

		// View: searchable published articles joined to their chunks
		`CREATE OR REPLACE VIEW semantic_searchable_articles AS
		 SELECT a.id AS article_id, a.title, a.category, e.document, e.embedding_value AS embedding
		 FROM kb_articles a JOIN article_embeddings e ON a.id = e.article_id
		 WHERE a.deleted_at IS NULL;`,

		// View: per-trace metric rollup for dashboards
		`CREATE OR REPLACE VIEW agent_metric_summary AS
		 SELECT trace_id,
		        MAX(CASE WHEN kind = 'kra' THEN score END) AS kra,
		        MAX(CASE WHEN kind = 'rgqs' THEN score END) AS rgqs,
		        MIN(created_at) AS recorded_at
		 FROM agent_metrics
		 GROUP BY trace_id;`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
