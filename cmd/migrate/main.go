package main

import (
	"context"
	"log"
	"os"

	"lawro-be/internal/model"
	"lawro-be/internal/repository/implementation"
	"lawro-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Extensions and tables...")
	if err := database.Migrate(db, &model.LegalChunk{}); err != nil {
		log.Fatalf("Error: migration failed: %v", err)
	}

	log.Println("Step 2: Indexes...")
	postMigrationSQL := []string{
		`CREATE INDEX IF NOT EXISTS idx_legal_chunks_embedding_hnsw
		 ON legal_chunks USING hnsw (embedding_value vector_cosine_ops);`,
		`CREATE INDEX IF NOT EXISTS idx_legal_chunks_source_article
		 ON legal_chunks (source, article);`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("Step 3: Corpus check...")
	count, err := implementation.NewLegalChunkRepository(db).Count(context.Background())
	if err != nil {
		log.Printf("Warn: Failed to count legal chunks: %v", err)
	} else if count == 0 {
		log.Println("Warn: legal_chunks is empty, chat will answer without retrieval until the corpus is loaded")
	} else {
		log.Printf("Info: %d legal chunks available", count)
	}

	log.Println("Success: legal corpus schema is up to date.")
}
