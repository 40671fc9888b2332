// Package config loads the boxoffice deployment configuration.
//
// Configuration is a small YAML file naming the treasury account, the
// database paths, and the HTTP listen address. Command-line flags override
// file values; the file overrides the built-in defaults. The treasury
// identity is fixed here at deploy time and injected into the engine at
// construction, never inferred from a caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where commands look for the config file when --config is
// not given. A missing file at this path is not an error; defaults apply.
const DefaultPath = "boxoffice.yaml"

// Config holds the deployment settings.
type Config struct {
	// Treasury is the account credited with every purchase total.
	Treasury string `yaml:"treasury"`

	// LedgerDB is the path to the ledger SQLite database.
	LedgerDB string `yaml:"ledger_db"`

	// BankDB is the path to the bank vault SQLite database. Always a
	// separate file from the ledger; each side holds its own write lock.
	BankDB string `yaml:"bank_db"`

	// Listen is the HTTP listen address for the serve command.
	Listen string `yaml:"listen"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Treasury: "treasury",
		LedgerDB: "boxoffice.db",
		BankDB:   "vault.db",
		Listen:   ":8080",
	}
}

// Load reads the YAML file at path over the defaults.
//
// A missing file yields the defaults unchanged; a malformed or invalid
// file is an error. Unknown fields are rejected so typos fail loudly
// instead of silently falling back to a default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // Reject unknown fields
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every field carries a usable value. Called after
// flag overrides too, so emptying a field on the command line is caught.
func (c Config) Validate() error {
	if c.Treasury == "" {
		return fmt.Errorf("treasury account must not be empty")
	}
	if c.LedgerDB == "" {
		return fmt.Errorf("ledger_db path must not be empty")
	}
	if c.BankDB == "" {
		return fmt.Errorf("bank_db path must not be empty")
	}
	if c.LedgerDB == c.BankDB {
		return fmt.Errorf("ledger_db and bank_db must be different files")
	}
	if c.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	return nil
}
