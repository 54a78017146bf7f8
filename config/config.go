// Package config loads the importer's run configuration.
//
// A config file is optional; every key has a default, and the CLI applies
// its flags over whatever the file provides.
//
//	db:
//	  driver: mysql
//	  dsn: user:pass@tcp(localhost:3306)/srdr
//	project_id: 135
//	creator_id: 1
//	catalog: catalog.yaml
//	log_level: debug
package config

import (
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/jensjap/SRDR-ImportProject2/store"
)

// Defaults.
const (
	DefaultProjectID   = 135
	DefaultCreatorID   = 1
	DefaultDriver      = "sqlite"
	DefaultDSN         = "srdr.db"
	DefaultFatalLog    = "fatal_errors.txt"
	DefaultMatchingLog = "matching_issues.txt"
	DefaultLogLevel    = "info"
)

// Config is the run configuration.
type Config struct {
	DB          DB     `yaml:"db"`
	ProjectID   int64  `yaml:"project_id"`
	CreatorID   int64  `yaml:"creator_id"`
	Catalog     string `yaml:"catalog"`
	FatalLog    string `yaml:"fatal_log"`
	MatchingLog string `yaml:"matching_log"`
	LogLevel    string `yaml:"log_level"`
}

// DB selects the target database.
type DB struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		DB:          DB{Driver: DefaultDriver, DSN: DefaultDSN},
		ProjectID:   DefaultProjectID,
		CreatorID:   DefaultCreatorID,
		FatalLog:    DefaultFatalLog,
		MatchingLog: DefaultMatchingLog,
		LogLevel:    DefaultLogLevel,
	}
}

// Load reads a config file over the defaults. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, eris.Wrapf(err, "reading config %s", path)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, eris.Wrap(err, "decoding config")
	}
	return c, c.Validate()
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if _, err := store.ParseDialect(c.DB.Driver); err != nil {
		return eris.Wrap(err, "config: db.driver")
	}
	if c.DB.DSN == "" {
		return eris.New("config: db.dsn is required")
	}
	if c.ProjectID <= 0 || c.CreatorID <= 0 {
		return eris.Errorf("config: project_id and creator_id must be positive, got %d and %d", c.ProjectID, c.CreatorID)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, eris.Wrapf(err, "config: log_level %q", c.LogLevel)
	}
	return lvl, nil
}
