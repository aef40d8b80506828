package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the service configuration. Values come from an optional YAML
// file, with environment variables taking precedence.
type Config struct {
	Port            string   `yaml:"port"`
	ServiceRoot     string   `yaml:"service_root"`
	DataDir         string   `yaml:"data_dir"`
	ImageStorageDir string   `yaml:"image_storage_dir"`
	GalleryFile     string   `yaml:"gallery_file"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	GenerateWorkers int      `yaml:"generate_workers"`
}

// Default returns the configuration used when no file or overrides are present.
func Default() Config {
	return Config{
		Port:        "8888",
		ServiceRoot: ".",
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:3000",
		},
		GenerateWorkers: 3,
	}
}

// Load reads the YAML config at path, falling back to defaults when the file
// does not exist. Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Optional file, defaults apply
		case err != nil:
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("IMAGE_STORAGE_DIR"); v != "" {
		c.ImageStorageDir = v
	}
}

// resolve turns a possibly-relative path into one anchored at the service
// root. Relative overrides deliberately do not depend on the process working
// directory.
func (c Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.ServiceRoot, path)
}

// DataPath returns the directory holding catalog tables and the system prompt.
func (c Config) DataPath() string {
	if c.DataDir != "" {
		return c.resolve(c.DataDir)
	}
	return filepath.Join(c.ServiceRoot, "data")
}

// ImageStoragePath returns the base directory for stored session images.
func (c Config) ImageStoragePath() string {
	if c.ImageStorageDir != "" {
		return c.resolve(c.ImageStorageDir)
	}
	return filepath.Join(c.ServiceRoot, "images", "sessions")
}

// GalleryPath returns the JSON document backing the session gallery.
func (c Config) GalleryPath() string {
	if c.GalleryFile != "" {
		return c.resolve(c.GalleryFile)
	}
	return filepath.Join(c.ServiceRoot, "gallery_data.json")
}
