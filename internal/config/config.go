package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	infisical "github.com/infisical/go-sdk"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/web3-frozen/btc-dashboard/internal/sources"
)

type Config struct {
	Port            string
	FrontendOrigin  string
	RedisURL        string
	RedisPassword   string
	CoinGeckoAPIKey string
	RefreshInterval time.Duration
	LogLevel        slog.Level
	Endpoints       map[string]sources.Endpoint
}

// fileConfig is the optional YAML override file named by CONFIG_FILE.
type fileConfig struct {
	RefreshInterval time.Duration               `yaml:"refresh_interval"`
	Sources         map[string]sources.Endpoint `yaml:"sources"`
}

// Load reads configuration from the environment, an optional .env file,
// an optional YAML file and, when credentials are present, Infisical.
// Environment variables win over the file.
func Load() (Config, error) {
	// .env is a local-development convenience; absence is normal
	_ = godotenv.Load()

	cfg := Config{
		Port:            envOr("PORT", "8080"),
		FrontendOrigin:  envOr("FRONTEND_ORIGIN", "*"),
		RedisURL:        os.Getenv("REDIS_URL"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		CoinGeckoAPIKey: os.Getenv("COINGECKO_API_KEY"),
		LogLevel:        parseLevel(envOr("LOG_LEVEL", "info")),
		Endpoints:       sources.DefaultEndpoints(),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return cfg, err
		}
	}

	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("parse REFRESH_INTERVAL: %w", err)
		}
		cfg.RefreshInterval = d
	}

	clientID := os.Getenv("INFISICAL_CLIENT_ID")
	clientSecret := os.Getenv("INFISICAL_CLIENT_SECRET")
	if clientID != "" && clientSecret != "" {
		loadFromInfisical(&cfg, clientID, clientSecret)
	}

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if fc.RefreshInterval > 0 {
		cfg.RefreshInterval = fc.RefreshInterval
	}
	for name, override := range fc.Sources {
		ep, ok := cfg.Endpoints[name]
		if !ok {
			return fmt.Errorf("config file: unknown source %q", name)
		}
		if override.BaseURL != "" {
			ep.BaseURL = strings.TrimRight(override.BaseURL, "/")
		}
		if override.TTL > 0 {
			ep.TTL = override.TTL
		}
		cfg.Endpoints[name] = ep
	}
	return nil
}

func loadFromInfisical(cfg *Config, clientID, clientSecret string) {
	siteURL := envOr("INFISICAL_SITE_URL", "https://app.infisical.com")
	projectID := os.Getenv("INFISICAL_PROJECT_ID")
	envSlug := envOr("INFISICAL_ENV", "prod")

	if projectID == "" {
		slog.Warn("INFISICAL_PROJECT_ID not set, skipping Infisical")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := infisical.NewInfisicalClient(ctx, infisical.Config{
		SiteUrl:          siteURL,
		AutoTokenRefresh: false,
	})

	if _, err := client.Auth().UniversalAuthLogin(clientID, clientSecret); err != nil {
		slog.Error("infisical auth failed", "error", err)
		return
	}

	secrets := map[string]*string{
		"COINGECKO_API_KEY": &cfg.CoinGeckoAPIKey,
		"REDIS_PASSWORD":    &cfg.RedisPassword,
	}

	for key, target := range secrets {
		if *target != "" {
			continue // env var already set, skip
		}
		secret, err := client.Secrets().Retrieve(infisical.RetrieveSecretOptions{
			SecretKey:   key,
			Environment: envSlug,
			ProjectID:   projectID,
			SecretPath:  "/",
		})
		if err != nil {
			slog.Warn("failed to retrieve secret from infisical", "key", key, "error", err)
			continue
		}
		*target = secret.SecretValue
		slog.Info("loaded secret from infisical", "key", key)
	}
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
