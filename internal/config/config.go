package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Sales    SalesConfig    `yaml:"sales"`
	Recipes  RecipesConfig  `yaml:"recipes"`
	Auth     AuthConfig     `yaml:"auth"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Port            int           `yaml:"port"`
	MetricsPort     int           `yaml:"metrics_port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogConfig holds the logger settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DatabaseConfig selects the gorm dialect and connection string
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Seed   bool   `yaml:"seed"`
}

// SalesConfig locates the point-of-sale CSV feed
type SalesConfig struct {
	Feed            string        `yaml:"feed"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// RecipesConfig configures the generative model used for recipe suggestions
type RecipesConfig struct {
	Provider     string  `yaml:"provider"`
	Model        string  `yaml:"model"`
	Temperature  float64 `yaml:"temperature"`
	TopP         float64 `yaml:"top_p"`
	TopK         int     `yaml:"top_k"`
	MaxTokens    int     `yaml:"max_tokens"`
	ExpiringDays int     `yaml:"expiring_days"`

	OpenAIKey     string `yaml:"openai_key"`
	OpenAIBaseURL string `yaml:"openai_base_url"`

	AzureEndpoint   string `yaml:"azure_endpoint"`
	AzureKey        string `yaml:"azure_key"`
	AzureDeployment string `yaml:"azure_deployment"`
}

// AuthConfig holds the JWT secret guarding mutating routes. An empty
// secret leaves the API open.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			MetricsPort:     9090,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "restodash.db",
			Seed:   true,
		},
		Sales: SalesConfig{
			Feed:            "files/sales_data.csv",
			FetchTimeout:    15 * time.Second,
			RefreshInterval: 0,
		},
		Recipes: RecipesConfig{
			Provider:     "openai",
			Model:        "gpt-4o-mini",
			Temperature:  0.7,
			TopP:         0.8,
			TopK:         1,
			MaxTokens:    2048,
			ExpiringDays: 7,
		},
	}
}

// Load reads the YAML file at path over the defaults and applies
// environment overrides. A missing file is not an error. A .env file in
// the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config %s", path)
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	override := func(target *string, key string) {
		if v := os.Getenv(key); v != "" {
			*target = v
		}
	}

	override(&c.Recipes.OpenAIKey, "OPENAI_API_KEY")
	override(&c.Recipes.OpenAIBaseURL, "OPENAI_BASE_URL")
	override(&c.Recipes.AzureEndpoint, "AZURE_OPENAI_ENDPOINT")
	override(&c.Recipes.AzureKey, "AZURE_OPENAI_API_KEY")
	override(&c.Recipes.AzureDeployment, "AZURE_OPENAI_DEPLOYMENT_NAME")
	override(&c.Database.DSN, "RESTODASH_DATABASE_DSN")
	override(&c.Auth.JWTSecret, "RESTODASH_JWT_SECRET")
	override(&c.Sales.Feed, "RESTODASH_SALES_FEED")
}

// Validate checks the values that would otherwise fail late at startup
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.MetricsPort <= 0 {
		return errors.New("server ports must be positive")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.Errorf("unsupported log format: %s", c.Log.Format)
	}
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return errors.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	switch c.Recipes.Provider {
	case "openai", "azure":
	default:
		return errors.Errorf("unsupported recipe provider: %s", c.Recipes.Provider)
	}
	if c.Sales.Feed == "" {
		return errors.New("sales feed location is required")
	}
	if c.Recipes.ExpiringDays < 0 {
		return errors.New("recipes.expiring_days must not be negative")
	}
	return nil
}
