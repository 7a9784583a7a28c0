package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DatabaseMemory   = "memory"
	DatabasePostgres = "postgres"
	DatabaseRedis    = "redis"
)

type Config struct {
	Port            int
	DatabaseType    string
	DatabaseURL     string
	RedisURL        string
	RedisPassword   string
	LocalDir        string
	ViewSlugSalt    string
	CollapseTensToX bool
	WriteRetries    int
	WriteRate       float64
	AllowedOrigins  []string
}

// fileConfig mirrors Config for the optional YAML file.
type fileConfig struct {
	Port            *int     `yaml:"port"`
	DatabaseType    string   `yaml:"database_type"`
	DatabaseURL     string   `yaml:"database_url"`
	RedisURL        string   `yaml:"redis_url"`
	RedisPassword   string   `yaml:"redis_password"`
	LocalDir        string   `yaml:"local_dir"`
	ViewSlugSalt    string   `yaml:"view_slug_salt"`
	CollapseTensToX *bool    `yaml:"collapse_tens_to_x"`
	WriteRetries    *int     `yaml:"write_retries"`
	WriteRate       *float64 `yaml:"write_rate"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
}

// ParseFlags builds the server config. Flags win over environment
// variables, which win over the YAML file, which wins over defaults. A .env
// file, if present, seeds the environment without overriding it.
func ParseFlags(args []string) (Config, error) {
	return Parse("bale-scorer", args)
}

// Parse is ParseFlags with a custom flag set name.
func Parse(name string, args []string) (Config, error) {
	var cfg Config
	var configFile, envFile, origins string

	flags := flag.NewFlagSet(name, flag.ContinueOnError)

	flags.StringVar(&configFile, "c", "", "YAML config file")
	flags.StringVar(&envFile, "env", ".env", "dotenv file")

	// Network and storage
	flags.IntVar(&cfg.Port, "p", 0, "Server port")
	flags.StringVar(&cfg.DatabaseType, "t", "", "Remote store (memory, postgres or redis)")
	flags.StringVar(&cfg.DatabaseURL, "d", "", "Postgres URL")
	flags.StringVar(&cfg.RedisURL, "redis-url", "", "Redis URL")
	flags.StringVar(&cfg.RedisPassword, "redis-password", "", "Redis password (prefer env)")
	flags.StringVar(&cfg.LocalDir, "local-dir", "", "Directory for the local fallback store")

	// Behaviour
	flags.BoolVar(&cfg.CollapseTensToX, "collapse-tens", false, "Store every 10 as X")
	flags.IntVar(&cfg.WriteRetries, "write-retries", 0, "Remote write retries")
	flags.Float64Var(&cfg.WriteRate, "write-rate", 0, "Remote writes per second (0 = unlimited)")
	flags.StringVar(&origins, "origins", "", "Comma separated CORS origins")

	// Secrets (prefer env variables, but allow CLI for dev)
	flags.StringVar(&cfg.ViewSlugSalt, "slug-salt", "", "View slug salt (prefer env)")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
	}
	var file fileConfig
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Fall back to environment, then file, then defaults
	if !set["p"] {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else if file.Port != nil {
			cfg.Port = *file.Port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if !set["t"] {
		cfg.DatabaseType = firstNonEmpty(os.Getenv("DATABASE_TYPE"), file.DatabaseType, DatabaseMemory)
	}
	if !set["d"] {
		cfg.DatabaseURL = firstNonEmpty(os.Getenv("DATABASE_URL"), file.DatabaseURL)
	}
	if !set["redis-url"] {
		cfg.RedisURL = firstNonEmpty(os.Getenv("REDIS_URL"), file.RedisURL)
	}
	if !set["redis-password"] {
		cfg.RedisPassword = firstNonEmpty(os.Getenv("REDIS_PASSWORD"), file.RedisPassword)
	}
	if !set["local-dir"] {
		cfg.LocalDir = firstNonEmpty(os.Getenv("LOCAL_DIR"), file.LocalDir, ".")
	}
	if !set["slug-salt"] {
		cfg.ViewSlugSalt = firstNonEmpty(os.Getenv("VIEW_SLUG_SALT"), file.ViewSlugSalt)
	}

	if !set["collapse-tens"] {
		if v := os.Getenv("COLLAPSE_TENS_TO_X"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, errors.New("invalid COLLAPSE_TENS_TO_X env variable")
			}
			cfg.CollapseTensToX = b
		} else if file.CollapseTensToX != nil {
			cfg.CollapseTensToX = *file.CollapseTensToX
		}
	}

	if !set["write-retries"] {
		if v := os.Getenv("WRITE_RETRIES"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return Config{}, errors.New("invalid WRITE_RETRIES env variable")
			}
			cfg.WriteRetries = n
		} else if file.WriteRetries != nil {
			cfg.WriteRetries = *file.WriteRetries
		} else {
			cfg.WriteRetries = 2
		}
	}

	if !set["write-rate"] {
		if v := os.Getenv("WRITE_RATE"); v != "" {
			r, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return Config{}, errors.New("invalid WRITE_RATE env variable")
			}
			cfg.WriteRate = r
		} else if file.WriteRate != nil {
			cfg.WriteRate = *file.WriteRate
		}
	}

	if set["origins"] {
		cfg.AllowedOrigins = splitList(origins)
	} else if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	} else {
		cfg.AllowedOrigins = file.AllowedOrigins
	}

	return cfg, cfg.validate()
}

func (cfg Config) validate() error {
	switch cfg.DatabaseType {
	case DatabaseMemory:
	case DatabasePostgres:
		if cfg.DatabaseURL == "" {
			return errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
	case DatabaseRedis:
		if cfg.RedisURL == "" {
			return errors.New("redis URL required for redis (use -redis-url or REDIS_URL env)")
		}
	default:
		return fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.WriteRetries < 0 {
		return errors.New("write retries must not be negative")
	}
	if cfg.WriteRate < 0 {
		return errors.New("write rate must not be negative")
	}

	// Secrets - MUST be provided
	if cfg.ViewSlugSalt == "" {
		return errors.New("VIEW_SLUG_SALT required")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
