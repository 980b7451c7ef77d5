package main

import (
	"fmt"
	"log"
	"os"

	"sistema-gth/config"
	"sistema-gth/internal/database"
	"sistema-gth/internal/legacy"
)

const usage = `Usage:
  gthctl import <workbook.xlsx>   load a legacy workbook into the database
  gthctl export <workbook.xlsx>   dump the database into a legacy workbook
`

func main() {
	log.SetFlags(0)

	if len(os.Args) != 3 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command, path := os.Args[1], os.Args[2]

	cfg := config.LoadConfig()
	dsn := cfg.DB.DSN()
	if cfg.DB.Driver == "sqlite" {
		dsn = cfg.DB.Path
	}
	db, err := database.NewConnection(cfg.DB.Driver, dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	switch command {
	case "import":
		summary, err := legacy.Import(db, path)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		for _, w := range summary.Warnings {
			log.Printf("warning: %s: %s", w.Sheet, w.Message)
		}
		for _, e := range summary.Errors {
			log.Printf("error: %s row %d, column %s: %s", e.Sheet, e.Row, e.Column, e.Message)
		}
		for _, sheet := range legacy.Sheets {
			if n, ok := summary.Imported[sheet]; ok {
				log.Printf("%s: %d rows imported", sheet, n)
			}
		}
		if len(summary.Errors) > 0 {
			log.Fatalf("Import finished with %d rejected rows", len(summary.Errors))
		}
	case "export":
		if err := legacy.Export(db, path); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		log.Printf("Workbook written to %s", path)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}
