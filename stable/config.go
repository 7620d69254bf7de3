package stable

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/RobertTeunissen/ArmouredSouls-sub004/stable/database"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log       LogConfig         `toml:"log"`
	DB        database.DBConfig `toml:"db"`
	Mongo     MongoConfig       `toml:"mongo"`
	Analytics AnalyticsConfig   `toml:"analytics"`
	Spaces    SpacesConfig      `toml:"spaces"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

// MongoConfig points at the legacy battle archive the importer reads from.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type AnalyticsConfig struct {
	// DefaultLookbackCycles is the recommendation window when the caller
	// does not pass one.
	DefaultLookbackCycles int `toml:"default_lookback_cycles"`
}

// SpacesConfig holds the DigitalOcean Spaces credentials for cycle exports.
type SpacesConfig struct {
	Key    string `toml:"key"`
	Secret string `toml:"secret"`
	Region string `toml:"region"`
	Bucket string `toml:"bucket"`
	// ExportRoot prefixes every uploaded object key.
	ExportRoot string `toml:"export_root"`
}
