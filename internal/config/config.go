package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v9"
	"github.com/goccy/go-yaml"
	"github.com/inoxlang/listrep/internal/listrep"
)

const (
	APP_NAME = "listrep"

	CONFIG_FILE_NAME    = "config.yaml"
	CONFIG_FILE_RELPATH = APP_NAME + "/" + CONFIG_FILE_NAME

	ENV_PREFIX = "LISTREP_"
)

var (
	ErrConfigFile = errors.New("invalid configuration file")
)

// Load reads the tunables from the YAML file at path and then from the environment variables prefixed with
// LISTREP_ (LISTREP_MAX_LENGTH, LISTREP_SPAN_THRESHOLD, ...), environment variables take precedence.
// If path is empty the configuration file is searched in the XDG config directories, it is fine for the file
// not to exist. Unset tunables keep their zero value: the allocator uses the defaults for them.
func Load(path string) (listrep.Config, error) {
	var config listrep.Config

	if path == "" {
		path = FindConfigFile()
	}

	if path != "" {
		if err := loadFile(path, &config); err != nil {
			return listrep.Config{}, err
		}
	}

	if err := env.ParseWithOptions(&config, env.Options{Prefix: ENV_PREFIX}); err != nil {
		return listrep.Config{}, fmt.Errorf("failed to read the configuration from the environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return listrep.Config{}, err
	}

	return config, nil
}

// FindConfigFile returns the path of listrep/config.yaml in the XDG config directories or an empty string.
func FindConfigFile() string {
	path, err := xdg.SearchConfigFile(CONFIG_FILE_RELPATH)
	if err != nil {
		return ""
	}
	return path
}

func loadFile(path string, config *listrep.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s does not exist", ErrConfigFile, path)
		}
		return err
	}

	if err := yaml.UnmarshalWithOptions(data, config, yaml.Strict()); err != nil {
		return fmt.Errorf("%w %s: %w", ErrConfigFile, path, err)
	}
	return nil
}

// Marshal returns the YAML representation of config, it can be loaded back by Load.
func Marshal(config listrep.Config) ([]byte, error) {
	return yaml.Marshal(config)
}
