package cliparse

import (
	"os"
	"path/filepath"
	"testing"
)

var configEnv = []string{
	"PORT", "DATABASE_TYPE", "DATABASE_URL", "REDIS_URL", "REDIS_PASSWORD",
	"LOCAL_DIR", "VIEW_SLUG_SALT", "COLLAPSE_TENS_TO_X", "WRITE_RETRIES",
	"WRITE_RATE", "ALLOWED_ORIGINS", "CONFIG_FILE",
}

// unsetEnv removes every config variable for the test and restores them after.
func unsetEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnv {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func noDotenv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestParseFlags_Defaults(t *testing.T) {
	unsetEnv(t)
	t.Setenv("VIEW_SLUG_SALT", "salt")

	cfg, err := ParseFlags([]string{"-env", noDotenv(t)})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabaseMemory {
		t.Errorf("expected memory store, got %q", cfg.DatabaseType)
	}
	if cfg.LocalDir != "." {
		t.Errorf("expected local dir '.', got %q", cfg.LocalDir)
	}
	if cfg.WriteRetries != 2 {
		t.Errorf("expected 2 retries, got %d", cfg.WriteRetries)
	}
	if cfg.CollapseTensToX {
		t.Error("tens should be preserved by default")
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	unsetEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("VIEW_SLUG_SALT", "test-slug")
	t.Setenv("COLLAPSE_TENS_TO_X", "true")
	t.Setenv("WRITE_RATE", "2.5")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := ParseFlags([]string{"-env", noDotenv(t)})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://test" {
		t.Errorf("expected database URL from env, got %q", cfg.DatabaseURL)
	}
	if !cfg.CollapseTensToX {
		t.Error("expected collapse from env")
	}
	if cfg.WriteRate != 2.5 {
		t.Errorf("expected write rate 2.5, got %v", cfg.WriteRate)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	unsetEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("WRITE_RETRIES", "5")

	cfg, err := ParseFlags([]string{
		"-env", noDotenv(t),
		"-p", "8080", "-slug-salt", "s2", "-write-retries", "0",
	})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.WriteRetries != 0 {
		t.Errorf("explicit zero retries should win: got %d", cfg.WriteRetries)
	}
}

func TestParseFlags_YAMLFile(t *testing.T) {
	unsetEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "bale.yaml")
	err := os.WriteFile(path, []byte(`
port: 4000
database_type: redis
redis_url: redis://localhost:6379/0
view_slug_salt: from-file
collapse_tens_to_x: true
write_retries: 4
allowed_origins:
  - https://scores.example
`), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	// env beats the file
	t.Setenv("PORT", "5000")

	cfg, err := ParseFlags([]string{"-env", noDotenv(t), "-c", path})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 5000 {
		t.Errorf("env should override file: expected 5000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabaseRedis || cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("unexpected store config %q %q", cfg.DatabaseType, cfg.RedisURL)
	}
	if cfg.ViewSlugSalt != "from-file" {
		t.Errorf("expected salt from file, got %q", cfg.ViewSlugSalt)
	}
	if !cfg.CollapseTensToX || cfg.WriteRetries != 4 {
		t.Errorf("unexpected behaviour config %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 1 {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestParseFlags_Dotenv(t *testing.T) {
	unsetEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("VIEW_SLUG_SALT=dotenv-salt\nLOCAL_DIR=/tmp/bale\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{"-env", path})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.ViewSlugSalt != "dotenv-salt" {
		t.Errorf("expected salt from .env, got %q", cfg.ViewSlugSalt)
	}
	if cfg.LocalDir != "/tmp/bale" {
		t.Errorf("expected local dir from .env, got %q", cfg.LocalDir)
	}
}

func TestParseFlags_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing salt", nil, nil},
		{"postgres without url", map[string]string{"VIEW_SLUG_SALT": "s", "DATABASE_TYPE": "postgres"}, nil},
		{"redis without url", map[string]string{"VIEW_SLUG_SALT": "s"}, []string{"-t", "redis"}},
		{"unknown store", map[string]string{"VIEW_SLUG_SALT": "s"}, []string{"-t", "sqlite"}},
		{"bad port env", map[string]string{"VIEW_SLUG_SALT": "s", "PORT": "abc"}, nil},
		{"bad bool env", map[string]string{"VIEW_SLUG_SALT": "s", "COLLAPSE_TENS_TO_X": "maybe"}, nil},
		{"negative rate", map[string]string{"VIEW_SLUG_SALT": "s"}, []string{"-write-rate", "-1"}},
		{"missing config file", map[string]string{"VIEW_SLUG_SALT": "s"}, []string{"-c", "/does/not/exist.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			args := append([]string{"-env", noDotenv(t)}, tt.args...)
			if _, err := ParseFlags(args); err == nil {
				t.Error("expected error")
			}
		})
	}
}
