// Package config reads the process configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/chris/gig-agreements/pkg/blockchain"
	"github.com/chris/gig-agreements/pkg/service"
	"github.com/chris/gig-agreements/pkg/storage/dynamodb"
	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverDynamoDB = "dynamodb"
)

// Config is built once in main and passed down.
type Config struct {
	AppEnv        string
	HTTPPort      string
	StorageDriver string
	Tables        dynamodb.Tables

	SQSQueueURL       string
	EvidenceBucket    string
	EvidenceBaseURL   string
	WebSocketEndpoint string

	NetworksConfigPath string
	ReconcileMaxAge    time.Duration
	ShutdownTimeout    time.Duration
}

// IsProduction reports whether internal error details must be hidden.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// LoadDotEnv loads a .env file if one exists. A missing file is not an error.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}
}

// FromEnv reads the configuration through getenv, normally os.Getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		AppEnv:        get("APP_ENV", "development"),
		HTTPPort:      get("HTTP_PORT", "8080"),
		StorageDriver: strings.ToLower(get("STORAGE_DRIVER", DriverMemory)),
		Tables: dynamodb.Tables{
			Agreements:   getenv("DYNAMODB_AGREEMENTS_TABLE_NAME"),
			Milestones:   getenv("DYNAMODB_MILESTONES_TABLE_NAME"),
			Transactions: getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME"),
			Users:        getenv("DYNAMODB_USERS_TABLE_NAME"),
			Connections:  getenv("DYNAMODB_CONNECTIONS_TABLE_NAME"),
		},
		SQSQueueURL:        getenv("SQS_QUEUE_URL"),
		EvidenceBucket:     getenv("EVIDENCE_BUCKET"),
		EvidenceBaseURL:    getenv("EVIDENCE_BASE_URL"),
		WebSocketEndpoint:  getenv("WEBSOCKET_API_ENDPOINT"),
		NetworksConfigPath: getenv("NETWORKS_CONFIG_PATH"),
	}

	var err error
	if cfg.ReconcileMaxAge, err = duration(get("RECONCILE_MAX_AGE", ""), service.DefaultMaxAge); err != nil {
		return nil, fmt.Errorf("invalid RECONCILE_MAX_AGE: %w", err)
	}
	if cfg.ShutdownTimeout, err = duration(get("SHUTDOWN_TIMEOUT", ""), 15*time.Second); err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	switch cfg.StorageDriver {
	case DriverMemory:
	case DriverDynamoDB:
		t := cfg.Tables
		if t.Agreements == "" || t.Milestones == "" || t.Transactions == "" || t.Users == "" {
			return nil, fmt.Errorf("one or more DynamoDB table name environment variables are not set")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	return cfg, nil
}

// Load reads .env and then the process environment.
func Load() (*Config, error) {
	LoadDotEnv()
	return FromEnv(os.Getenv)
}

func duration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}

// Networks returns the chain network table: the YAML file when configured,
// overridden by RPC_URL_<NAME> variables from environ.
func (c *Config) Networks(environ []string) (blockchain.Networks, error) {
	nets := blockchain.Networks{}
	if c.NetworksConfigPath != "" {
		fromFile, err := blockchain.LoadNetworks(c.NetworksConfigPath)
		if err != nil {
			return nil, err
		}
		nets = fromFile
	}
	return nets.Merge(blockchain.NetworksFromEnv(environ)), nil
}
