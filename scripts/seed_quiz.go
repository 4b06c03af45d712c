// Loads quiz subjects, questions, options and explanations from a YAML fixture.
//
// Usage: go run scripts/seed_quiz.go -file configs/seed.yaml [-replace]

package main

import (
	"context"
	"flag"
	"log"

	"quiz_backend/internal/config"
	"quiz_backend/internal/seed"
	"quiz_backend/pkg/database"
	"quiz_backend/pkg/logger"
)

func main() {
	configDir := flag.String("config", "configs", "directory holding config.yaml")
	file := flag.String("file", "configs/seed.yaml", "fixture to load")
	replace := flag.Bool("replace", false, "recreate subjects that already exist")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	fixture, err := seed.ParseFile(*file)
	if err != nil {
		log.Fatalf("Invalid fixture %s: %v", *file, err)
	}

	report, err := seed.Apply(context.Background(), db, fixture, *replace)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("created %d, replaced %d, skipped %d subjects", report.Created, report.Replaced, report.Skipped)
}
