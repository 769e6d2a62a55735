package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/ricki2828/cv-parsing/internal/agent"
	"github.com/ricki2828/cv-parsing/internal/api"
	"github.com/ricki2828/cv-parsing/internal/config"
	"github.com/ricki2828/cv-parsing/internal/extraction"
	"github.com/ricki2828/cv-parsing/internal/gui"
	"github.com/ricki2828/cv-parsing/internal/ingestion"
	"github.com/ricki2828/cv-parsing/internal/jobdesc"
	"github.com/ricki2828/cv-parsing/internal/llm"
	"github.com/ricki2828/cv-parsing/internal/logger"
	"github.com/ricki2828/cv-parsing/internal/notify"
	"github.com/ricki2828/cv-parsing/internal/store"
)

func main() {
	guiMode := flag.Bool("gui", false, "run the desktop review console instead of the HTTP server")
	flag.Parse()

	// A missing .env is fine; config and real env vars still apply.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyToEnv()

	zl := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open data store")
	}

	files := ingestion.NewFileHandler(cfg.UploadsDir)

	// Without a configured project the service still runs; every
	// document fails extraction with a configuration message.
	var provider extraction.Provider
	var generator *jobdesc.Generator
	if cfg.GoogleCloudProject != "" {
		client, err := llm.NewClient(context.Background(), cfg.GeminiModel)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Vertex AI client")
		}
		defer client.Close()

		provider = extraction.NewGeminiProvider(client, time.Duration(cfg.ExtractionTimeoutSecs)*time.Second)
		generator = jobdesc.NewGenerator(client)
	} else {
		log.Warn().Msg("google_cloud_project is not configured; resume extraction is disabled")
		generator = jobdesc.NewGenerator(nil)
	}

	ag := agent.NewAgent(files, provider, st, cfg.HomeCountry, cfg.MaxUploadSizeBytes())

	if *guiMode {
		gui.NewApp(cfg, ag, st, files).Run()
		return
	}

	server := api.NewServer(ag, st, generator, notify.NewLogGateway(zl), 32<<20)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("Starting Resume Tracker")
	if err := http.ListenAndServe(":"+port, server.Router()); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
