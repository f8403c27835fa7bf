// Package config loads the tracker's configuration from an optional YAML file
// plus environment variables. Every setting has a default; starting with no
// configuration at all crawls the built-in target list against local services.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Target is one site to crawl: a seed URL plus the category label its
// documents are stored under.
type Target struct {
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
}

type Config struct {
	API struct {
		// Base URL of the document store API.
		Endpoint string `yaml:"endpoint"`
	} `yaml:"api"`

	Ollama struct {
		Endpoint string `yaml:"endpoint"`
		Model    string `yaml:"model"`
		// When disabled, the pipeline runs on lexical location matching only.
		Disabled bool `yaml:"disabled"`
	} `yaml:"ollama"`

	Geocoding struct {
		// Nominatim-compatible endpoint. Empty disables forward geocoding.
		Endpoint string `yaml:"endpoint"`
	} `yaml:"geocoding"`

	Crawl struct {
		// Hours between scheduled crawl runs.
		IntervalHours int `yaml:"intervalHours"`
		// Ceiling on pages visited per site per run.
		MaxPagesPerSite int `yaml:"maxPagesPerSite"`
		// Base delay between page fetches, in seconds. A random extra
		// second is added per fetch.
		Delay float64 `yaml:"delay"`
		// Per-fetch timeout, in seconds.
		FetchTimeout int    `yaml:"fetchTimeout"`
		UserAgent    string `yaml:"userAgent"`
	} `yaml:"crawl"`

	DB struct {
		// "api" stores through the HTTP API; "sqlite" stores locally.
		Driver           string `yaml:"driver"`
		ConnectionString string `yaml:"connectionString"`
	} `yaml:"db"`

	Targets []Target `yaml:"targets"`
}

// The sites crawled when the configuration lists none: municipal planning
// departments, local news business sections, and development authorities.
var defaultTargets = []Target{
	{URL: "https://www.norfolk.gov/1376/Development", Category: "developments"},
	{URL: "https://www.vbgov.com/government/departments/planning/Pages/default.aspx", Category: "permits"},
	{URL: "https://www.chesapeakeva.gov/government/departments/planning", Category: "permits"},
	{URL: "https://www.suffolkva.us/259/Planning-Community-Development", Category: "developments"},
	{URL: "https://hampton.gov/3598/Development-Services", Category: "developments"},
	{URL: "https://www.portsmouthva.gov/160/Planning", Category: "developments"},
	{URL: "https://www.nnva.gov/2318/Development-Projects", Category: "developments"},
	{URL: "https://www.pilotonline.com/business/", Category: "developments"},
	{URL: "https://www.13newsnow.com/business", Category: "developments"},
	{URL: "https://www.wavy.com/news/local-news/", Category: "developments"},
	{URL: "https://hamptonroadseco.org/development-projects/", Category: "developments"},
	{URL: "https://www.hreda.com/news/", Category: "developments"},
	{URL: "https://www.yesvirginiabeach.com/resources/news", Category: "developments"},
	{URL: "https://www.suffolkeconomicdevelopment.com/resources/news/", Category: "developments"},
}

// Read loads ./config.yml (if present), then applies environment overrides and
// defaults. A missing file or missing variables never prevent startup.
func Read() (*Config, error) {
	// Pick up a .env file when one exists; variables set in the real
	// environment take precedence.
	_ = godotenv.Load()

	config := &Config{}

	if data, err := os.ReadFile("./config.yml"); err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("invalid config.yml: %v", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyEnv(config)
	applyDefaults(config)

	if config.DB.Driver != "api" && config.DB.Driver != "sqlite" {
		return nil, fmt.Errorf("unknown storage driver: %v. Valid drivers include: api, sqlite", config.DB.Driver)
	}

	return config, nil
}

func applyEnv(config *Config) {
	setString(&config.API.Endpoint, "API_ENDPOINT")
	setString(&config.Ollama.Endpoint, "OLLAMA_ENDPOINT")
	setString(&config.Ollama.Model, "OLLAMA_MODEL")
	setString(&config.Geocoding.Endpoint, "GEOCODING_ENDPOINT")
	setString(&config.Crawl.UserAgent, "USER_AGENT")
	setString(&config.DB.Driver, "STORAGE_DRIVER")
	setString(&config.DB.ConnectionString, "STORAGE_CONNECTION_STRING")

	setInt(&config.Crawl.IntervalHours, "CRAWL_INTERVAL_HOURS")
	setInt(&config.Crawl.MaxPagesPerSite, "MAX_PAGES_PER_SITE")
	setInt(&config.Crawl.FetchTimeout, "FETCH_TIMEOUT")
	setFloat(&config.Crawl.Delay, "CRAWL_DELAY")

	if value := os.Getenv("OLLAMA_DISABLED"); value != "" {
		config.Ollama.Disabled = value == "true" || value == "1"
	}
}

func applyDefaults(config *Config) {
	if config.API.Endpoint == "" {
		config.API.Endpoint = "http://localhost:3000"
	}
	if config.Ollama.Endpoint == "" {
		config.Ollama.Endpoint = "http://localhost:11434"
	}
	if config.Ollama.Model == "" {
		config.Ollama.Model = "phi3"
	}
	if config.Crawl.IntervalHours == 0 {
		config.Crawl.IntervalHours = 24
	}
	if config.Crawl.MaxPagesPerSite == 0 {
		config.Crawl.MaxPagesPerSite = 50
	}
	if config.Crawl.Delay == 0 {
		config.Crawl.Delay = 2.0
	}
	if config.Crawl.FetchTimeout == 0 {
		config.Crawl.FetchTimeout = 30
	}
	if config.Crawl.UserAgent == "" {
		config.Crawl.UserAgent = "HamptonRoadsDevelopmentTracker/1.0"
	}
	if config.DB.Driver == "" {
		config.DB.Driver = "api"
	}
	if config.DB.Driver == "sqlite" && config.DB.ConnectionString == "" {
		config.DB.ConnectionString = "./devtracker.db"
	}
	if len(config.Targets) == 0 {
		config.Targets = defaultTargets
	}
}

func setString(target *string, name string) {
	if value := os.Getenv(name); value != "" {
		*target = value
	}
}

func setInt(target *int, name string) {
	if value := os.Getenv(name); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func setFloat(target *float64, name string) {
	if value := os.Getenv(name); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			*target = parsed
		}
	}
}
