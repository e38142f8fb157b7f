package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix          = "ENERGY"
	envKeySecretsFile  = "ENERGY_SECRETS_FILE"
	defaultSecretsFile = "secrets.yaml"

	DBTypeFile     = "file"
	DBTypeMemory   = "memory"
	DBTypePostgres = "postgres"
)

// Config is resolved once at process start and handed to constructors.
type Config struct {
	Env string

	DBType string
	DBPath string
	DBDSN  string

	HTTPHostPort string
	GrpcHostPort string

	CivilZone *time.Location

	DefaultRate  float64
	DefaultBurst int

	InboxDir            string
	InboxImportInterval time.Duration
	LogsDir             string

	RedisAddr      string
	RedisPassword  string
	ReportCacheTTL time.Duration

	EntsoeURL    string
	EntsoeToken  string
	EntsoeDomain string
}

var defaults = map[string]any{
	"env":              "development",
	"db_type":          DBTypeFile,
	"db_path":          "energy.db",
	"db_dsn":           "",
	"http_host_port":   ":1080",
	"grpc_host_port":   "",
	"civil_timezone":   "Europe/Helsinki",
	"default_rate":     5.0,
	"default_burst":    10,
	"inbox_dir":        "inbox",
	"inbox_interval":   "5m",
	"logs_dir":         "",
	"redis_addr":       "",
	"redis_password":   "",
	"report_cache_ttl": "10m",
	"entsoe_url":       "https://web-api.tp.entsoe.eu/api",
	"entsoe_token":     "",
	"entsoe_domain":    "10YFI-1--------U",
}

// Load resolves configuration from, in priority order, environment variables
// (a .env file is loaded into the environment first when present), the
// secrets file and the hardcoded defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	secretsFile := strings.TrimSpace(os.Getenv(envKeySecretsFile))
	if secretsFile == "" {
		secretsFile = defaultSecretsFile
	}
	if err := readSecrets(v, secretsFile); err != nil {
		return nil, err
	}

	return fromViper(v)
}

func readSecrets(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: stat secrets file %q: %w", path, err)
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: read secrets file %q: %w", path, err)
	}
	return nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:           v.GetString("env"),
		DBType:        strings.ToLower(strings.TrimSpace(v.GetString("db_type"))),
		DBPath:        strings.TrimSpace(v.GetString("db_path")),
		DBDSN:         strings.TrimSpace(v.GetString("db_dsn")),
		HTTPHostPort:  strings.TrimSpace(v.GetString("http_host_port")),
		GrpcHostPort:  strings.TrimSpace(v.GetString("grpc_host_port")),
		DefaultRate:   v.GetFloat64("default_rate"),
		DefaultBurst:  v.GetInt("default_burst"),
		InboxDir:      strings.TrimSpace(v.GetString("inbox_dir")),
		LogsDir:       strings.TrimSpace(v.GetString("logs_dir")),
		RedisAddr:     strings.TrimSpace(v.GetString("redis_addr")),
		RedisPassword: v.GetString("redis_password"),
		EntsoeURL:     strings.TrimSpace(v.GetString("entsoe_url")),
		EntsoeToken:   strings.TrimSpace(v.GetString("entsoe_token")),
		EntsoeDomain:  strings.TrimSpace(v.GetString("entsoe_domain")),
	}

	switch cfg.DBType {
	case DBTypeFile, DBTypeMemory:
	case DBTypePostgres:
		if cfg.DBDSN == "" {
			return nil, errors.New("config: ENERGY_DB_DSN is required when ENERGY_DB_TYPE=postgres")
		}
	default:
		return nil, fmt.Errorf("config: invalid ENERGY_DB_TYPE %q (allowed: file, memory, postgres)", cfg.DBType)
	}

	zoneName := strings.TrimSpace(v.GetString("civil_timezone"))
	zone, err := time.LoadLocation(zoneName)
	if err != nil {
		return nil, fmt.Errorf("config: invalid ENERGY_CIVIL_TIMEZONE %q: %w", zoneName, err)
	}
	cfg.CivilZone = zone

	ttl, err := time.ParseDuration(strings.TrimSpace(v.GetString("report_cache_ttl")))
	if err != nil {
		return nil, fmt.Errorf("config: invalid ENERGY_REPORT_CACHE_TTL: %w", err)
	}
	cfg.ReportCacheTTL = ttl

	// 0 turns the background inbox import off
	interval, err := time.ParseDuration(strings.TrimSpace(v.GetString("inbox_interval")))
	if err != nil || interval < 0 {
		return nil, fmt.Errorf("config: invalid ENERGY_INBOX_INTERVAL %q", v.GetString("inbox_interval"))
	}
	cfg.InboxImportInterval = interval

	if cfg.DefaultBurst < 0 || cfg.DefaultRate < 0 {
		return nil, errors.New("config: ENERGY_DEFAULT_RATE and ENERGY_DEFAULT_BURST must not be negative")
	}

	return cfg, nil
}
