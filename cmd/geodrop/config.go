package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/geodrop"
)

const (
	configFile  = "config.toml"
	genesisFile = "genesis.json"
	keyFile     = "key.priv"
)

// Config is the content of config.toml in the home directory.
type Config struct {
	ChainID string `toml:"chain_id"`

	// DBPath is the database location, relative to the home directory.
	// An empty value keeps the state in memory.
	DBPath string `toml:"db_path"`

	// LogLevel is one of debug, info, error or none.
	LogLevel string `toml:"log_level"`

	// Debug includes internal error messages in the command output.
	Debug bool `toml:"debug"`

	// MetricsNamespace enables the prometheus collectors when not empty.
	MetricsNamespace string `toml:"metrics_namespace"`
}

// DefaultConfig returns the configuration written by init.
func DefaultConfig(chainID string) Config {
	return Config{
		ChainID:  chainID,
		DBPath:   "data/geodrop.db",
		LogLevel: "info",
	}
}

// Validate returns an error if the config cannot be used.
func (c Config) Validate() error {
	if !geodrop.IsValidChainID(c.ChainID) {
		return fmt.Errorf("invalid chain id %q", c.ChainID)
	}
	return nil
}

func loadConfig(home string) (Config, error) {
	var c Config
	path := filepath.Join(home, configFile)
	meta, err := toml.DecodeFile(path, &c)
	if err != nil {
		return c, fmt.Errorf("cannot read %s: %s", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		return c, fmt.Errorf("unknown keys in %s: %v", path, undecoded)
	}
	return c, c.Validate()
}

func writeConfig(home string, c Config) error {
	path := filepath.Join(home, configFile)
	fd, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot create config file: %s", err)
	}
	defer fd.Close()

	if err := toml.NewEncoder(fd).Encode(c); err != nil {
		return fmt.Errorf("cannot write config: %s", err)
	}
	return fd.Close()
}
