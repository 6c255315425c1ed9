package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Market  MarketConfig
	Catalog CatalogConfig
	Cache   CacheConfig
	Scan    ScanConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MarketConfig holds the settings for the arsha.io market API client
type MarketConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Region            string        `mapstructure:"region"`
	BatchSize         int           `mapstructure:"batch_size"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	UserAgent         string        `mapstructure:"user_agent"`
	// Blacklist holds item ids the API refuses to price; including one in a
	// batch poisons the whole response, so they are filtered before fetch.
	Blacklist []int `mapstructure:"blacklist"`
}

// CatalogConfig holds the recipe catalog location
type CatalogConfig struct {
	Dir   string   `mapstructure:"dir"`
	Files []string `mapstructure:"files"`
}

// CacheConfig holds snapshot cache configuration. TTL 0 disables reuse
// between scans.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// ScanConfig holds the default scan parameters and the game-balance policy
// values. These are copied from the game's live values, not derived, so
// they stay configuration rather than constants in code.
type ScanConfig struct {
	TaxRate       float64            `mapstructure:"tax_rate"`
	Mastery       float64            `mapstructure:"mastery"`
	MinStock      int64              `mapstructure:"min_stock"`
	MaxDepth      int                `mapstructure:"max_depth"`
	CyclesPerHour float64            `mapstructure:"cycles_per_hour"`
	Yield         YieldConfig        `mapstructure:"yield"`
	VendorItems   map[string]float64 `mapstructure:"vendor_items"` // id -> nominal unit cost
}

// YieldConfig holds the yield-multiplier policy per category family.
type YieldConfig struct {
	ProcessingMultiplier float64 `mapstructure:"processing_multiplier"`
	Base                 float64 `mapstructure:"base"`
	Bonus                float64 `mapstructure:"bonus"`
	MasteryDivisor       float64 `mapstructure:"mastery_divisor"`
	MasteryCoefficient   float64 `mapstructure:"mastery_coefficient"`
}

// VendorCosts converts the string-keyed vendor map (viper cannot unmarshal
// integer map keys) into the id-keyed form the engine uses. Non-numeric
// keys are dropped.
func (s ScanConfig) VendorCosts() map[int]float64 {
	out := make(map[int]float64, len(s.VendorItems))
	for k, v := range s.VendorItems {
		id, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			continue
		}
		out[id] = v
	}
	return out
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/bdoscan/")

	// Environment variable settings
	v.SetEnvPrefix("BDOSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Market defaults
	v.SetDefault("market.base_url", "https://api.arsha.io")
	v.SetDefault("market.region", "NA")
	v.SetDefault("market.batch_size", 20)
	v.SetDefault("market.timeout", "10s")
	v.SetDefault("market.max_retries", 3)
	v.SetDefault("market.requests_per_second", 10.0)
	v.SetDefault("market.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	v.SetDefault("market.blacklist", []int{5600, 9059, 9001, 9002, 9005, 9017, 9066, 9016, 9015, 9018, 6656, 6655})

	// Catalog defaults
	v.SetDefault("catalog.dir", "./data")
	v.SetDefault("catalog.files", []string{"recipesCooking.json", "recipesAlchemy.json", "recipesProcessing.json"})

	// Cache defaults
	v.SetDefault("cache.ttl", "90s")

	// Scan defaults
	v.SetDefault("scan.tax_rate", 0.845)
	v.SetDefault("scan.mastery", 2000.0)
	v.SetDefault("scan.min_stock", 0)
	v.SetDefault("scan.max_depth", 5)
	v.SetDefault("scan.cycles_per_hour", 900.0)
	v.SetDefault("scan.yield.processing_multiplier", 2.5)
	v.SetDefault("scan.yield.base", 1.0)
	v.SetDefault("scan.yield.bonus", 1.35)
	v.SetDefault("scan.yield.mastery_divisor", 4000.0)
	v.SetDefault("scan.yield.mastery_coefficient", 0.3)
	v.SetDefault("scan.vendor_items", map[string]float64{
		"5600": 0, "9059": 0, "9001": 0, "9002": 0, "9005": 0,
	})
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Market.BaseURL == "" {
		return fmt.Errorf("market base URL is required")
	}

	if config.Market.BatchSize <= 0 {
		return fmt.Errorf("market batch size must be positive, got: %d", config.Market.BatchSize)
	}

	if config.Market.RequestsPerSecond <= 0 {
		return fmt.Errorf("market requests per second must be positive, got: %v", config.Market.RequestsPerSecond)
	}

	if config.Catalog.Dir == "" {
		return fmt.Errorf("catalog directory is required")
	}

	if config.Scan.TaxRate <= 0 || config.Scan.TaxRate > 1 {
		return fmt.Errorf("tax rate must be in (0,1], got: %v", config.Scan.TaxRate)
	}

	if config.Scan.MaxDepth < 1 {
		return fmt.Errorf("max recursion depth must be at least 1, got: %d", config.Scan.MaxDepth)
	}

	if config.Scan.CyclesPerHour <= 0 {
		return fmt.Errorf("cycles per hour must be positive, got: %v", config.Scan.CyclesPerHour)
	}

	return nil
}
