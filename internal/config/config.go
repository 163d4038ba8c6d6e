package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultConfigDir  = ".pathguard"
	DefaultPolicyFile = "policies.yaml"
	DefaultLogFile    = "audit.jsonl"

	// BackendMemory, BackendFile, and BackendSQL are the values of
	// RepositoryConfig.Kind that select the repository implementation.
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQL    = "sql"
)

type Config struct {
	PolicyPath string
	LogPath    string
	Mode       string
	ConfigDir  string
	Repository RepositoryConfig
}

// RepositoryConfig selects and parameterizes the policy repository
// backend (internal/repository).
type RepositoryConfig struct {
	// Kind is one of BackendMemory, BackendFile, BackendSQL. Default: BackendFile.
	Kind string
	// Dir is the directory-of-files or single-file path for BackendFile.
	Dir string
	// DSN is the connection string for BackendSQL.
	DSN string
	// Table is the SQL table name for BackendSQL. Default: "policies".
	Table string
	// CacheTTL, if positive, wraps the backend in an in-process TTL cache.
	CacheTTL time.Duration
}

// DefaultRepositoryConfig returns the default repository configuration:
// file-backed, reading from PolicyPath, no caching.
func DefaultRepositoryConfig(policyPath string) RepositoryConfig {
	return RepositoryConfig{
		Kind:  BackendFile,
		Dir:   policyPath,
		Table: "policies",
	}
}

func Load(policyPath, logPath, mode string) (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configDir := filepath.Join(homeDir, DefaultConfigDir)

	if err := ensureDir(configDir); err != nil {
		return nil, err
	}

	cfg := &Config{
		ConfigDir: configDir,
		Mode:      mode,
	}

	if policyPath != "" {
		cfg.PolicyPath = policyPath
	} else {
		cfg.PolicyPath = filepath.Join(configDir, DefaultPolicyFile)
	}

	if logPath != "" {
		cfg.LogPath = logPath
	} else {
		cfg.LogPath = filepath.Join(configDir, DefaultLogFile)
	}

	cfg.Repository = DefaultRepositoryConfig(cfg.PolicyPath)

	return cfg, nil
}

func ensureDir(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0700)
	}
	return nil
}
