package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields perch needs to talk to a Roost server as a
// particular user. Session/auth management lives outside perch; the
// identity here is what an external login flow provisioned.
type Config struct {
	Server   string
	UserID   string
	Name     string
	Username string
	PageSize int
}

const (
	defaultConfigPath = "~/.config/perch/config.toml"
	defaultServer     = "127.0.0.1:8364"
	defaultPageSize   = 10
)

// Load locates and parses the perch config, falling back to defaults when
// missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{Server: defaultServer, PageSize: defaultPageSize}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Server   string `toml:"server"`
		UserID   string `toml:"user_id"`
		Name     string `toml:"name"`
		Username string `toml:"username"`
		PageSize int    `toml:"page_size"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Server = strings.TrimSpace(raw.Server)
	if cfg.Server == "" {
		cfg.Server = defaultServer
	}
	cfg.UserID = strings.TrimSpace(raw.UserID)
	cfg.Name = strings.TrimSpace(raw.Name)
	cfg.Username = strings.TrimSpace(raw.Username)
	cfg.PageSize = raw.PageSize
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
