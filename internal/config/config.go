package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds service configuration. Values come from an optional YAML file
// overridden by environment variables, with a .env file loaded first.
type Config struct {
	HTTPPort        string
	SheetAPIURL     string
	HTTPTimeout     time.Duration
	DisplayTimezone string
	RefreshSpec     string
	StrictConfig    bool

	// sheetstub only
	StubDBPath    string
	StubImportDir string
	StubSeedPath  string
}

type fileConfig struct {
	HTTPPort        string `yaml:"http_port"`
	SheetAPIURL     string `yaml:"sheet_api_url"`
	HTTPTimeoutSec  int    `yaml:"http_timeout_sec"`
	DisplayTimezone string `yaml:"display_timezone"`
	RefreshSpec     string `yaml:"refresh_spec"`

	Stub struct {
		DBPath    string `yaml:"db_path"`
		ImportDir string `yaml:"import_dir"`
		SeedPath  string `yaml:"seed_path"`
	} `yaml:"stub"`
}

const (
	defaultPort       = "8080"
	defaultTimezone   = "America/Sao_Paulo"
	defaultTimeoutSec = 30
	defaultStubDB     = "sheetstub.db"
	minTimeoutSec     = 1
	maxTimeoutSec     = 300
)

// Load reads configuration and applies defaults. A missing config file is
// fine unless STRICT_CONFIG is set.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		StrictConfig: parseBoolEnv("STRICT_CONFIG"),
	}

	configPath := getEnv("CONFIG_PATH", filepath.Join("config", "config.yaml"))
	fileCfg, fileErr := loadFileConfig(configPath)
	if fileErr != nil {
		if cfg.StrictConfig {
			return cfg, fmt.Errorf("config load failed (%s): %w", configPath, fileErr)
		}
		log.Printf("config load failed (%s): %v (using defaults)", configPath, fileErr)
	}

	cfg.HTTPPort = firstNonEmpty(os.Getenv("HTTP_PORT"), fileCfg.HTTPPort, defaultPort)
	cfg.HTTPPort = strings.TrimPrefix(cfg.HTTPPort, ":")
	cfg.SheetAPIURL = firstNonEmpty(os.Getenv("SHEET_API_URL"), fileCfg.SheetAPIURL)
	cfg.DisplayTimezone = firstNonEmpty(os.Getenv("DISPLAY_TIMEZONE"), fileCfg.DisplayTimezone, defaultTimezone)
	cfg.RefreshSpec = firstNonEmpty(os.Getenv("REFRESH_SPEC"), fileCfg.RefreshSpec)

	timeoutSec := defaultTimeoutSec
	if fileCfg.HTTPTimeoutSec > 0 {
		timeoutSec = fileCfg.HTTPTimeoutSec
	}
	if v := os.Getenv("HTTP_TIMEOUT_SEC"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid HTTP_TIMEOUT_SEC: %w", err)
		}
		timeoutSec = n
	}
	cfg.HTTPTimeout = time.Duration(clampInt(timeoutSec, minTimeoutSec, maxTimeoutSec)) * time.Second

	cfg.StubDBPath = firstNonEmpty(os.Getenv("STUB_DB_PATH"), fileCfg.Stub.DBPath, defaultStubDB)
	cfg.StubImportDir = firstNonEmpty(os.Getenv("STUB_IMPORT_DIR"), fileCfg.Stub.ImportDir)
	cfg.StubSeedPath = firstNonEmpty(os.Getenv("STUB_SEED_PATH"), fileCfg.Stub.SeedPath)

	return cfg, nil
}

// Location resolves the configured display timezone. Serial-number dates are
// read in this zone, like the browser the old dashboard ran in.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid display_timezone %q: %w", c.DisplayTimezone, err)
	}
	return loc, nil
}

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolEnv(key string) bool {
	v := os.Getenv(key)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
