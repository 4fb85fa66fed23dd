package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"

	"resgeo/config"
	"resgeo/cronjobs"
	"resgeo/detection"
	"resgeo/geocode"
	"resgeo/geodata"
	"resgeo/handlers"
	"resgeo/mlmodel"
	"resgeo/report"
	"resgeo/routes"
	"resgeo/summarization"
	"resgeo/tiles"
	"resgeo/types"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := config.Load()
	fmt.Println("OUTPUT_DIR: ", cfg.OutputRoot)

	// Print and check env
	apiKey := os.Getenv("OPENAI_API_KEY")
	var openaiClient *openai.Client
	if apiKey != "" {
		fmt.Println("OPENAI_API_KEY loaded")
		openaiClient = openai.NewClient(apiKey)
	}

	dataset, err := geodata.Load(cfg.GeodataPath)
	if err != nil {
		log.Fatalf("Failed to load geodata from %s: %v", cfg.GeodataPath, err)
	}
	log.Printf("Loaded %d regions from %s", len(dataset.Names()), cfg.GeodataPath)

	seg, fld, det := mlmodel.Default()
	victim := &detection.VictimStage{Predictor: det, MinConfidence: cfg.PersonConfidenceThreshold}

	runner := &detection.Runner{
		Dataset:      dataset,
		Fetcher:      tiles.NewFetcher(cfg.TileURLTemplate),
		Segmentation: &detection.SegmentationStage{Predictor: seg},
		Gate: &detection.FloodGate{
			CoverageThreshold:   cfg.WaterCoverageThreshold,
			ConfidenceThreshold: cfg.FloodConfidenceThreshold,
			Classifier:          fld,
		},
		Victim:     victim,
		OutputRoot: cfg.OutputRoot,
		PlaceName:  geocode.PlaceName,
		Summarize: func(ctx context.Context, rep *types.RegionAnalysisReport) (string, error) {
			return summarization.Summarize(ctx, openaiClient, rep)
		},
	}

	server := handlers.NewServer(runner, victim, dataset, cfg.OutputRoot)

	// Initialize cron jobs
	cronjobs.InitCronJobs(cfg.OutputRoot, cfg.OutputRetention, server.InFlight)

	if err := os.MkdirAll(report.FlaggedDir(cfg.OutputRoot, ""), 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	r := routes.SetupRouter(server)
	if err := r.Run(":8080"); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
