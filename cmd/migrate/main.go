package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ All tables created successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("✅ Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`DROP TABLE IF EXISTS activities CASCADE`,
		`DROP TABLE IF EXISTS users CASCADE`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		fmt.Printf("  Dropped: %s\n", query)
	}

	return nil
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username VARCHAR(50) UNIQUE NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			first_name VARCHAR(100),
			last_name VARCHAR(100),
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS activities (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title VARCHAR(200) NOT NULL,
			description TEXT,
			slug VARCHAR(100) UNIQUE NOT NULL,
			is_public BOOLEAN DEFAULT false,
			content_type VARCHAR(20) NOT NULL DEFAULT 'generic',
			content_data JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_slug ON activities(slug)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_user_id ON activities(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_public ON activities(is_public) WHERE is_public = true`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	fmt.Println("  Created: users, activities")

	return nil
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	var userID string
	err = conn.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, first_name)
		VALUES ('demo', 'demo@example.com', $1, 'Demo')
		ON CONFLICT (username) DO UPDATE SET email = EXCLUDED.email
		RETURNING id
	`, string(hash)).Scan(&userID)
	if err != nil {
		return fmt.Errorf("failed to seed demo user: %w", err)
	}

	quizContent := `{
		"questions": [
			{
				"question": "What does HTML stand for?",
				"options": [
					"Hyper Text Markup Language",
					"High Tech Modern Language",
					"Home Tool Markup Language"
				],
				"correct": 0,
				"explanation": "HTML is the standard markup language for web pages."
			},
			{
				"question": "Which tag creates a hyperlink?",
				"options": ["<link>", "<a>", "<href>"],
				"correct": 1,
				"explanation": "The anchor tag <a> with an href attribute creates links."
			}
		],
		"settings": {
			"showExplanations": true,
			"allowRetry": true
		}
	}`

	textContent := `{"content": "<h2>Welcome</h2><p>This activity introduces the basics of web markup.</p>"}`

	seeds := []struct {
		title, description, slug, contentType, contentData string
	}{
		{"HTML Basics Quiz", "Test your knowledge of HTML fundamentals", "html-basics-quiz", "quiz", quizContent},
		{"Getting Started", "A short introduction to the course", "getting-started", "text", textContent},
	}

	for _, s := range seeds {
		_, err := conn.Exec(ctx, `
			INSERT INTO activities (user_id, title, description, slug, is_public, content_type, content_data)
			VALUES ($1, $2, $3, $4, true, $5, $6)
			ON CONFLICT (slug) DO NOTHING
		`, userID, s.title, s.description, s.slug, s.contentType, s.contentData)
		if err != nil {
			return fmt.Errorf("failed to seed activity %s: %w", s.slug, err)
		}
		fmt.Printf("  Seeded: %s\n", s.slug)
	}

	return nil
}
