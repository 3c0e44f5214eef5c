package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	foundation "git.home.luguber.info/inful/chloroplast/internal/foundation/errors"
	"git.home.luguber.info/inful/chloroplast/internal/logfields"
	"git.home.luguber.info/inful/chloroplast/internal/metadata"
	"git.home.luguber.info/inful/chloroplast/internal/pathutil"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = foundation.ConfigError("configuration file not found").Build()

// Load reads, expands, decodes, defaults and validates a configuration file.
// Any failure is a fatal configuration error.
func Load(configPath string) (*Config, error) {
	configPath = pathutil.NormalizePath(configPath, false)
	root := filepath.Dir(configPath)
	loadEnvFiles(root)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, ErrConfigNotFound.WithContext("path", configPath)
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, foundation.WrapError(err, foundation.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}

	cfg, err := Parse(data, root)
	if err != nil {
		return nil, err
	}
	slog.Debug("Loaded configuration", logfields.Path(configPath), slog.Int("areas", len(cfg.Areas)))
	return cfg, nil
}

// Parse decodes configuration bytes whose relative paths resolve against root.
// Environment references (${VAR}) are expanded before decoding.
func Parse(data []byte, root string) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(expanded), &doc); err != nil {
		return nil, configError("failed to parse configuration", err)
	}

	var cfg Config
	if len(bytes.TrimSpace([]byte(expanded))) > 0 {
		if err := doc.Decode(&cfg); err != nil {
			return nil, configError("failed to decode configuration", err)
		}
	}

	layer, err := metadata.FlattenYAML(DefaultFileName, &doc)
	if err != nil {
		return nil, configError("failed to flatten configuration", err)
	}
	cfg.layer = layer
	if err := attachAreaLayers(&cfg, &doc); err != nil {
		return nil, err
	}

	cfg.Root = pathutil.NormalizePath(root, false)
	if err := applyDefaults(&cfg); err != nil {
		return nil, configError("failed to apply defaults", err)
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, configError("configuration validation failed", err)
	}
	return &cfg, nil
}

// attachAreaLayers flattens each entry of the "areas" sequence on its own so
// area-specific keys can be layered between site and page metadata.
func attachAreaLayers(cfg *Config, doc *yaml.Node) error {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "areas" || root.Content[i+1].Kind != yaml.SequenceNode {
			continue
		}
		for j, item := range root.Content[i+1].Content {
			if j >= len(cfg.Areas) {
				break
			}
			layer, err := metadata.FlattenYAML(fmt.Sprintf("areas[%d]", j), item)
			if err != nil {
				return configError("failed to flatten area configuration", err)
			}
			cfg.Areas[j].layer = layer
		}
	}
	return nil
}

func configError(msg string, cause error) error {
	return foundation.WrapError(cause, foundation.CategoryConfig, msg).Fatal().UserAction().Build()
}
