// Package config provides configuration management for go-todoleaf.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

var AppVersion = "-unset-" // will be set at build time

const (
	// DefaultListenPort is used when neither PORT nor -webport is given
	DefaultListenPort = 2121

	// DefaultDSN points at a local SQLite file
	DefaultDSN = "data/todo.sq3"

	// DefaultDBName is the fixed database name used by document backends
	DefaultDBName = "todo"

	// Environment variable names
	EnvDBString = "DB_STRING"
	EnvPort     = "PORT"
)

// MainConfig holds the main configuration for go-todoleaf
type MainConfig struct {
	// Mutex for thread-safe access
	mux sync.Mutex `json:"-"`

	// Web interface settings
	Web *WebConfig `json:"web"`

	// Database settings
	Database DatabaseConfig `json:"database"`

	AppVersion string `json:"app_version"` // Application version, set at build time
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	DSN    string `json:"dsn"`     // SQLite path or mongodb:// URI
	DBName string `json:"db_name"` // Database name for document backends
}

// WebConfig holds web interface configuration
type WebConfig struct {
	ListenPort int    `json:"listen_port"`
	SSL        bool   `json:"ssl"`
	CertFile   string `json:"cert_file,omitempty"`
	KeyFile    string `json:"key_file,omitempty"`
	Debug      bool   `json:"debug"` // Enable gin debug mode and verbose logging
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *MainConfig {
	maincfg := &MainConfig{
		AppVersion: AppVersion,
		Web: &WebConfig{
			ListenPort: DefaultListenPort,
			SSL:        false,
		},
		Database: DatabaseConfig{
			DSN:    DefaultDSN,
			DBName: DefaultDBName,
		},
	}
	return maincfg
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables already set in the environment win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	log.Printf("[CONFIG] Loaded environment from %s", path)
	return nil
}

// ApplyEnv overrides defaults with DB_STRING and PORT when they are set
func (c *MainConfig) ApplyEnv() error {
	c.mux.Lock()
	defer c.mux.Unlock()

	if dsn := os.Getenv(EnvDBString); dsn != "" {
		c.Database.DSN = dsn
	}
	if portEnv := os.Getenv(EnvPort); portEnv != "" {
		p, err := strconv.Atoi(portEnv)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvPort, portEnv, err)
		}
		if err := ValidatePort(p); err != nil {
			return fmt.Errorf("invalid %s value: %w", EnvPort, err)
		}
		c.Web.ListenPort = p
	}
	return nil
}

// ValidatePort checks a TCP port number
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port %d out of range (must be between 1 and 65535)", port)
	}
	return nil
}
