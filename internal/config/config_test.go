package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Web.ListenPort != DefaultListenPort {
		t.Errorf("expected port %d, got %d", DefaultListenPort, cfg.Web.ListenPort)
	}
	if cfg.Database.DSN != DefaultDSN {
		t.Errorf("expected dsn %q, got %q", DefaultDSN, cfg.Database.DSN)
	}
	if cfg.Database.DBName != "todo" {
		t.Errorf("expected db name 'todo', got %q", cfg.Database.DBName)
	}
}

func TestApplyEnv(t *testing.T) {
	testCases := []struct {
		name     string
		port     string
		dsn      string
		wantPort int
		wantDSN  string
		wantErr  bool
	}{
		{name: "unset keeps defaults", wantPort: DefaultListenPort, wantDSN: DefaultDSN},
		{name: "port override", port: "8080", wantPort: 8080, wantDSN: DefaultDSN},
		{name: "dsn override", dsn: "mongodb://localhost:27017", wantPort: DefaultListenPort, wantDSN: "mongodb://localhost:27017"},
		{name: "bad port", port: "eighty", wantErr: true},
		{name: "port out of range", port: "70000", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(EnvPort, tc.port)
			t.Setenv(EnvDBString, tc.dsn)

			cfg := NewDefaultConfig()
			err := cfg.ApplyEnv()
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for port %q", tc.port)
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnv failed: %v", err)
			}
			if cfg.Web.ListenPort != tc.wantPort {
				t.Errorf("expected port %d, got %d", tc.wantPort, cfg.Web.ListenPort)
			}
			if cfg.Database.DSN != tc.wantDSN {
				t.Errorf("expected dsn %q, got %q", tc.wantDSN, cfg.Database.DSN)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv(EnvDBString, "")
	os.Unsetenv(EnvDBString)

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("DB_STRING=data/from-env-file.sq3\n"), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile failed: %v", err)
	}
	if got := os.Getenv(EnvDBString); got != "data/from-env-file.sq3" {
		t.Errorf("expected DB_STRING from env file, got %q", got)
	}
}

func TestLoadEnvFile_Missing(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("missing env file should not be an error, got %v", err)
	}
	if err := LoadEnvFile(""); err != nil {
		t.Errorf("empty path should not be an error, got %v", err)
	}
}
