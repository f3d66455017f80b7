package main

import (
	"bufio"
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"listing-parser/api"
	"listing-parser/config"
	"listing-parser/models"
	"listing-parser/parser"
	"listing-parser/services"
	"listing-parser/storage"
	"listing-parser/utils"
)

func main() {
	batchFile := flag.String("batch", "", "parse URLs from file (one per line) instead of serving HTTP")
	familyID := flag.String("family", "", "family ID to store batch results under")
	flag.Parse()

	logger := utils.NewLogger()
	cfg := config.Load()

	heuristics, err := config.LoadHeuristics(cfg.HeuristicsPath)
	if err != nil {
		logger.Error("Failed to load heuristics: %v", err)
		os.Exit(1)
	}

	p := parser.New(heuristics, time.Duration(cfg.FetchTimeoutSec)*time.Second, logger)

	var store storage.PropertyStore
	if cfg.DatabaseEnabled {
		pgStore, err := storage.NewPostgresStore(cfg.DSN(), logger)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			os.Exit(1)
		}
		defer pgStore.Close()
		store = pgStore
	} else {
		logger.Warn("Database disabled — running in parse-only mode")
	}

	if *batchFile != "" {
		if err := runBatch(p, store, cfg, logger, *batchFile, *familyID); err != nil {
			logger.Error("Batch ingest failed: %v", err)
			os.Exit(1)
		}
		return
	}

	server := api.NewServer(p, store, logger)
	logger.Info("=== Listing parser listening on %s ===", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, server.Router()); err != nil {
		logger.Error("Server stopped: %v", err)
		os.Exit(1)
	}
}

// runBatch parses every URL in the file concurrently, writes all records to
// CSV, and stores usable ones when a database and family are configured.
func runBatch(p *parser.Parser, store storage.PropertyStore, cfg *config.Config,
	logger *utils.Logger, path, familyID string) error {

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var urls []string
	seen := utils.NewURLSet()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		url := parser.ExtractURL(scanner.Text())
		if url == "" || !seen.Add(url) {
			continue
		}
		urls = append(urls, url)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	logger.Info("[batch] Parsing %d unique URLs", len(urls))

	records := make([]*models.ExtractedRecord, len(urls))
	pool := utils.NewWorkerPool(cfg.MaxConcurrency, 1000)
	for i, url := range urls {
		i, url := i, url
		pool.Submit(func() {
			rec, _ := p.Parse(context.Background(), url)
			records[i] = &rec
		})
	}
	pool.Wait()

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		return err
	}
	defer csvWriter.Close()

	if err := csvWriter.WriteRecords(records); err != nil {
		return err
	}
	logger.Info("[batch] Records written to %s", cfg.CSVOutputPath)

	if store == nil || familyID == "" {
		logger.Warn("[batch] No database or family configured — skipping property store")
		return nil
	}

	ingest := services.NewIngestService(store, logger)
	saved := 0
	for _, rec := range records {
		if _, err := ingest.Save(context.Background(), rec, familyID); err != nil {
			logger.Warn("[batch] Skipped %s: %v", rec.SourceURL, err)
			continue
		}
		saved++
	}
	logger.Info("[batch] Stored %d/%d properties", saved, len(records))
	return nil
}
