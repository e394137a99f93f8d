package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Http struct {
		Port        int           `yaml:"port"`
		Timeout     time.Duration `yaml:"timeout"`
		MaxBodySize int64         `yaml:"max_body_size"`
	} `yaml:"http"`
	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`
	ML struct {
		ModelType string `yaml:"model_type"`
		ModelPath string `yaml:"model_path"`
		Watch     bool   `yaml:"watch"`
	} `yaml:"ml"`
	UI struct {
		Locale          string `yaml:"locale"`
		RenderCacheSize int    `yaml:"render_cache_size"`
	} `yaml:"ui"`
}

func Default() *Config {
	var c Config
	c.Http.Port = 8501
	c.Http.Timeout = 30 * time.Second
	c.Http.MaxBodySize = 1 << 20
	c.Log.Level = "info"
	c.Log.MaxSizeMB = 50
	c.Log.MaxBackups = 3
	c.Log.MaxAgeDays = 28
	c.ML.ModelType = "decision_tree"
	c.ML.ModelPath = "models/cart_kidney-failure.json"
	c.UI.Locale = "id"
	c.UI.RenderCacheSize = 8
	return &c
}

// Find looks for name in the working directory, then its parent, so the
// binaries work when started from cmd/.
func Find(name string) string {
	if _, err := os.Stat(name); err == nil {
		return name
	}
	parent := filepath.Join("..", name)
	if _, err := os.Stat(parent); err == nil {
		return parent
	}
	return name
}

// Load reads path over the defaults. A missing file yields the defaults.
// Relative model and log paths are resolved against the config directory.
func Load(path string) (*Config, error) {
	config := Default()

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	config.ML.ModelPath = resolve(dir, config.ML.ModelPath)
	config.Log.File = resolve(dir, config.Log.File)
	return config, nil
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
