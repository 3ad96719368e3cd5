package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"hypotest/adapters/postgres"
	"hypotest/domain/stats"
	"hypotest/internal/migration"
	"hypotest/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <database_url> [records_dir]")
	}

	databaseURL := os.Args[1]
	ctx := context.Background()

	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Schema at version %s", runner.Version())

	if len(os.Args) < 3 {
		return
	}

	imported, skipped, err := importRecords(ctx, postgres.NewResultRepository(db), os.Args[2])
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Printf("Import complete: %d records stored, %d files skipped", imported, skipped)
}

// importRecords stores every JSON record found under dir, as written by
// `hypotest <test> --format json`. Files that do not decode to a record are
// skipped; storing is idempotent on the record id.
func importRecords(ctx context.Context, ledger ports.ResultLedger, dir string) (imported, skipped int, err error) {
	files, err := findRecordFiles(dir)
	if err != nil {
		return 0, 0, err
	}
	log.Printf("Found %d record files to import", len(files))

	for _, file := range files {
		record, err := loadRecord(file)
		if err != nil {
			log.Printf("Skipping %s: %v", file, err)
			skipped++
			continue
		}
		if err := ledger.Store(ctx, record); err != nil {
			return imported, skipped, fmt.Errorf("failed to store %s: %w", file, err)
		}
		imported++
	}
	return imported, skipped, nil
}

func findRecordFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	return files, nil
}

func loadRecord(path string) (stats.Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return stats.Record{}, err
	}
	var record stats.Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return stats.Record{}, err
	}
	if record.ID.IsEmpty() {
		return stats.Record{}, fmt.Errorf("no record id")
	}
	if err := record.Config.Validate(); err != nil {
		return stats.Record{}, err
	}
	return record, nil
}
