package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/JaredDyreson/Scheduler/internal/models"
	"gopkg.in/yaml.v3"
)

// Config holds the process-wide packet defaults plus the two compatibility
// switches. It is read once at startup and projected onto models.Options;
// nothing mutates it afterwards.
type Config struct {
	// Summary is the default event summary when a packet does not name one.
	Summary string `yaml:"summary"`

	// Location is the default event location.
	Location string `yaml:"location"`

	// Timezone is the IANA zone id used to resolve wire offsets.
	Timezone string `yaml:"timezone"`

	// SameZoneAsCreator is captured on every packet but currently inert.
	SameZoneAsCreator bool `yaml:"same_zone_as_creator"`

	// StrictOrdering enables the corrected pairwise event ordering instead
	// of the legacy always-false comparison.
	StrictOrdering bool `yaml:"strict_ordering"`

	// SplitOffsets makes the wire formatter resolve begin and end offsets
	// independently instead of stamping the begin offset on both.
	SplitOffsets bool `yaml:"split_offsets"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Summary:  models.DefaultSummary,
		Location: models.DefaultLocation,
		Timezone: models.DefaultTimezone,
	}
}

// Normalize fills in missing values so partially-filled configs still
// behave correctly.
func (c *Config) Normalize() {
	if c.Summary == "" {
		c.Summary = models.DefaultSummary
	}
	if c.Location == "" {
		c.Location = models.DefaultLocation
	}
	if c.Timezone == "" {
		c.Timezone = models.DefaultTimezone
	}
}

// ApplyEnv overrides config fields from SCHEDULER_* environment variables.
// Callers typically run godotenv.Load() beforehand so a local .env file
// feeds these as well. Boolean variables accept anything strconv.ParseBool
// does; unparsable values are ignored.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("SCHEDULER_SUMMARY"); v != "" {
		c.Summary = v
	}
	if v := os.Getenv("SCHEDULER_LOCATION"); v != "" {
		c.Location = v
	}
	if v := os.Getenv("SCHEDULER_TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v, err := strconv.ParseBool(os.Getenv("SCHEDULER_SAME_ZONE_AS_CREATOR")); err == nil {
		c.SameZoneAsCreator = v
	}
	if v, err := strconv.ParseBool(os.Getenv("SCHEDULER_STRICT_ORDERING")); err == nil {
		c.StrictOrdering = v
	}
	if v, err := strconv.ParseBool(os.Getenv("SCHEDULER_SPLIT_OFFSETS")); err == nil {
		c.SplitOffsets = v
	}
}

// Options projects the config onto packet construction options.
func (c *Config) Options() models.Options {
	return models.Options{
		Summary:           c.Summary,
		Location:          c.Location,
		Timezone:          c.Timezone,
		SameZoneAsCreator: c.SameZoneAsCreator,
		StrictOrdering:    c.StrictOrdering,
		SplitOffsets:      c.SplitOffsets,
	}
}

// Load loads configuration from the given YAML path. A missing file is not
// an error: a default config is written there with 0600 perms and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes the configuration to path atomically (temp file + rename)
// with 0600 permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".scheduler-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
