package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/locvowork/empcrud/internal/bootstrap"
	"github.com/locvowork/empcrud/internal/database"
	"github.com/locvowork/empcrud/internal/logger"
)

func main() {
	action := flag.String("action", "seed", "Action to perform: seed, clear, reindex")
	preset := flag.String("preset", "medium", "Data preset: small, medium, large, xlarge")
	count := flag.Int("count", 0, "Number of employees to seed (overrides preset)")
	batch := flag.Int("batch", 500, "Documents per bulk request when reindexing")
	workers := flag.Int("workers", 4, "Concurrent mapping workers when reindexing")
	shards := flag.Int("shards", 2, "Concurrent table readers when reindexing")
	yes := flag.Bool("yes", false, "Skip the confirmation prompt of clear")

	flag.Parse()

	ctx := context.Background()

	fmt.Println("Employee Data Seeder")
	fmt.Println(strings.Repeat("=", 50))

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		logger.ErrorLog(ctx, "Failed to initialize application", err)
		log.Fatal(err)
	}
	defer app.DB.Close()

	seeder := database.NewDataSeeder(app.DB)

	switch *action {
	case "seed":
		n := *count
		if n <= 0 {
			n = database.GetPresetCount(database.SeedPreset(*preset))
		}
		fmt.Printf("Seeding %d employees\n", n)
		if err := seeder.SeedData(ctx, n); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}

	case "clear":
		performClear(ctx, seeder, *yes)

	case "reindex":
		if app.ES == nil {
			log.Fatal("ES_URL is not set; nothing to reindex")
		}
		start := time.Now()
		n, err := database.Reindex(ctx, app.EmployeeRepo, app.ES, database.ReindexOptions{
			BatchSize: *batch,
			Workers:   *workers,
			Shards:    *shards,
			Retries:   3,
			Backoff:   500 * time.Millisecond,
		})
		if err != nil {
			log.Fatalf("Reindex failed after %d documents: %v", n, err)
		}
		fmt.Printf("Indexed %d employees in %v\n", n, time.Since(start))

	default:
		fmt.Printf("Unknown action: %s\n", *action)
		flag.PrintDefaults()
		return
	}

	fmt.Println("Done!")
}

func performClear(ctx context.Context, seeder *database.DataSeeder, yes bool) {
	if !yes {
		fmt.Println("This will delete every employee!")
		fmt.Print("Continue? (yes/no): ")

		var response string
		fmt.Scanln(&response)
		if response != "yes" {
			fmt.Println("Cancelled.")
			return
		}
	}
	if err := seeder.ClearData(ctx); err != nil {
		log.Fatalf("Clear failed: %v", err)
	}
}
