package main

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds visual settings only. Scores are intentionally never
// written anywhere.
type Config struct {
	Theme  string `json:"theme"`
	Shadow bool   `json:"shadow"`
	Scale  int    `json:"scale"`
}

func defaultConfig() Config {
	return Config{
		Theme:  themes[0].Name,
		Shadow: true,
		Scale:  1,
	}
}

func loadConfig() (Config, error) {
	config := defaultConfig()
	path, err := configPath()
	if err != nil {
		return config, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return config, nil
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return defaultConfig(), err
	}
	if config.Theme == "" {
		config.Theme = themes[0].Name
	}
	if config.Scale < 1 {
		config.Scale = 1
	}
	return config, nil
}

func saveConfig(config Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func configPath() (string, error) {
	root, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, "tetris")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}
