package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/hamptonroads/devtracker/app/config"
	"github.com/hamptonroads/devtracker/app/crawler"
	"github.com/hamptonroads/devtracker/app/extractor"
	"github.com/hamptonroads/devtracker/app/gazetteer"
	"github.com/hamptonroads/devtracker/app/llm"
	"github.com/hamptonroads/devtracker/app/location"
	"github.com/hamptonroads/devtracker/app/storage"
)

func main() {

	// Load configuration
	config, err := config.Read()

	if err != nil {
		panic(fmt.Sprintf("Invalid configuration: %v", err))
	}

	// The embedded region data is the ground truth for every location
	// decision; refuse to start without it.
	gaz, err := gazetteer.Load()

	if err != nil {
		panic(fmt.Sprintf("Invalid region data: %v", err))
	}

	// Set up a document store using the specified driver
	var store storage.Storage

	switch config.DB.Driver {
	case "api":
		store = storage.NewAPI(config.API.Endpoint)
	case "sqlite":
		sqlite, err := storage.SQLite(config.DB.ConnectionString)
		if err != nil {
			panic(fmt.Sprintf("Error opening SQLite database: %v", err))
		}
		if err := sqlite.Setup(); err != nil {
			panic(fmt.Sprintf("Failed to set up database: %v", err))
		}
		store = sqlite
	default:
		panic(fmt.Sprintf("Unknown storage driver: %v. Valid drivers include: api, sqlite.", config.DB.Driver))
	}

	// The language model and geocoder are optional collaborators; without
	// them the pipeline still qualifies pages on lexical evidence.
	var model llm.Model

	if !config.Ollama.Disabled {
		ollama, err := llm.NewOllama(config.Ollama.Endpoint, config.Ollama.Model)
		if err != nil {
			panic(fmt.Sprintf("Error connecting to Ollama: %v", err))
		}
		model = ollama
	}

	var geocoder location.Geocoder

	if config.Geocoding.Endpoint != "" {
		geocoder = location.NewNominatim(config.Geocoding.Endpoint, config.Crawl.UserAgent)
	}

	resolver := location.NewResolver(gaz, model, geocoder)
	engine := crawler.New(config, gaz, store, model, resolver, extractor.NewDispatcher(gaz, resolver))

	// Crawl immediately on startup, then on the configured interval
	engine.Run(context.Background())

	scheduler, err := gocron.NewScheduler()

	if err != nil {
		panic(fmt.Sprintf("Failed to create gocron scheduler: %v", err))
	}

	{
		_, err := scheduler.NewJob(gocron.DurationJob(time.Duration(config.Crawl.IntervalHours)*time.Hour), gocron.NewTask(func() {
			engine.Run(context.Background())
		}))

		if err != nil {
			panic(fmt.Sprintf("Failed to create gocron job: %v\n", err))
		}
	}

	scheduler.Start()

	select {}
}
