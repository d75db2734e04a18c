package cfg

import (
	"strconv"
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestLoadFetch(t *testing.T) {
	cfg, err := Load([]string{"-c", "custom.yml", "fetch", "-f", "postgresql", "-o", "out.sql", "-l", "25", "-g", "-100123"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Command != "fetch" {
		t.Errorf("Expected command 'fetch', got '%s'", cfg.Command)
	}
	if cfg.ConfigPath != "custom.yml" {
		t.Errorf("Expected config path 'custom.yml', got '%s'", cfg.ConfigPath)
	}
	if cfg.Fetch.Format != "postgresql" {
		t.Errorf("Expected format 'postgresql', got '%s'", cfg.Fetch.Format)
	}
	if cfg.Fetch.Out != "out.sql" {
		t.Errorf("Expected out 'out.sql', got '%s'", cfg.Fetch.Out)
	}
	if cfg.Fetch.Limit != 25 {
		t.Errorf("Expected limit 25, got %d", cfg.Fetch.Limit)
	}
	if cfg.Fetch.Group != "-100123" {
		t.Errorf("Expected group '-100123', got '%s'", cfg.Fetch.Group)
	}
}

func TestLoadFetchDefaults(t *testing.T) {
	t.Setenv("TELELINKER_CONFIG", "from-env.yml")

	cfg, err := Load([]string{"fetch", "--groups-file", "groups.txt"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.ConfigPath != "from-env.yml" {
		t.Errorf("Expected config path from environment, got '%s'", cfg.ConfigPath)
	}
	if cfg.Fetch.Format != "csv" {
		t.Errorf("Expected default format 'csv', got '%s'", cfg.Fetch.Format)
	}
	if cfg.Fetch.Limit != -1 {
		t.Errorf("Expected default limit -1, got %d", cfg.Fetch.Limit)
	}
	if cfg.Fetch.Out != "" {
		t.Errorf("Expected empty out, got '%s'", cfg.Fetch.Out)
	}
	if cfg.Fetch.GroupsFile != "groups.txt" {
		t.Errorf("Expected groups file 'groups.txt', got '%s'", cfg.Fetch.GroupsFile)
	}
}

func TestLoadFetchGroupValidation(t *testing.T) {
	if _, err := Load([]string{"fetch"}); err == nil {
		t.Error("Expected error when no group is given")
	}
	if _, err := Load([]string{"fetch", "-g", "1", "--groups-file", "groups.txt"}); err == nil {
		t.Error("Expected error when both group options are given")
	}
	if _, err := Load([]string{"fetch", "-g", "--format", "csv"}); err == nil {
		t.Error("Expected error when the group value is another option")
	}
}

func TestLoadServe(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("API_ACCESS_KEY", "secret")

	cfg, err := Load([]string{"serve", "--db", "posts.db"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Command != "serve" {
		t.Errorf("Expected command 'serve', got '%s'", cfg.Command)
	}
	if cfg.Serve.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Serve.Port)
	}
	if cfg.Serve.APIAccessKey != "secret" {
		t.Errorf("Expected API key 'secret', got '%s'", cfg.Serve.APIAccessKey)
	}
	if cfg.Serve.DBPath != "posts.db" {
		t.Errorf("Expected DB path 'posts.db', got '%s'", cfg.Serve.DBPath)
	}
}

func TestLoadSetup(t *testing.T) {
	cfg, err := Load([]string{"setup", "--api-id", "123", "--api-hash", "abc", "--exports-dir", "/data/exports"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Setup.APIID != 123 || cfg.Setup.APIHash != "abc" {
		t.Errorf("Unexpected setup options: %+v", cfg.Setup)
	}
	if cfg.Setup.SessionName != "telelinker" {
		t.Errorf("Expected default session name 'telelinker', got '%s'", cfg.Setup.SessionName)
	}
	if cfg.Setup.ExportsDir != "/data/exports" {
		t.Errorf("Expected exports dir '/data/exports', got '%s'", cfg.Setup.ExportsDir)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load([]string{}); err == nil {
		t.Error("Expected error when no command is given")
	}
	if _, err := Load([]string{"fetch", "-g", "1", "--limit", "many"}); err == nil {
		t.Error("Expected error for non-numeric limit")
	}
	if _, err := Load([]string{"fetch", "-g", "1", "--limit", "-5"}); err == nil {
		t.Error("Expected error for limit below -1")
	}
	if _, err := Load([]string{"unknown"}); err == nil {
		t.Error("Expected error for unknown command")
	}
}

func TestLoadFetchLimitBounds(t *testing.T) {
	for _, limit := range []string{"-1", "0", "10"} {
		cfg, err := Load([]string{"fetch", "-g", "1", "--limit", limit})
		if err != nil {
			t.Errorf("Expected limit %s to be accepted, got %v", limit, err)
			continue
		}
		if got := strconv.Itoa(cfg.Fetch.Limit); got != limit {
			t.Errorf("Expected limit %s, got %s", limit, got)
		}
	}
}

func TestLoadHelp(t *testing.T) {
	cfg, err := Load([]string{"--help"})
	if err != nil {
		t.Errorf("Expected no error for help, got %v", err)
	}
	if cfg != nil {
		t.Error("Expected nil config for help")
	}
}
