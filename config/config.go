// Package config loads slimgen settings from defaults, an optional YAML file,
// the project's .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	DefaultConfigFile = "config.yaml"
	DefaultEnvFile    = ".env"
)

// sections are the top-level keys accepted from the environment. Anything
// else in the process environment (PATH, HOME, ...) is ignored.
var sections = map[string]struct{}{
	"app": {}, "db": {}, "log": {}, "project": {}, "docs": {}, "serve": {},
}

// Options selects where configuration files are read from.
type Options struct {
	// ProjectRoot is the PHP project directory. Its .env file is loaded.
	ProjectRoot string
	// ConfigFile is an optional YAML file. Defaults to config.yaml.
	ConfigFile string
}

// Load reads configuration with this priority, highest first:
//  1. process environment
//  2. <project>/.env
//  3. the YAML config file
//  4. defaults
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = DefaultConfigFile
	}
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("failed to load %s: %w", configFile, err)
	}

	root := opts.ProjectRoot
	if root == "" {
		root = k.String("project.root")
	}
	if err := k.Set("project.root", root); err != nil {
		return nil, fmt.Errorf("failed to set project root: %w", err)
	}

	if err := loadDotEnv(k, filepath.Join(root, DefaultEnvFile)); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(".", env.Opt{TransformFunc: transformEnv}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if opts.ProjectRoot != "" {
		// an explicit flag beats PROJECT_ROOT
		if err := k.Set("project.root", opts.ProjectRoot); err != nil {
			return nil, fmt.Errorf("failed to set project root: %w", err)
		}
	}

	return finish(k)
}

// LoadFromBytes builds a configuration from YAML content layered over the
// defaults. The environment is not consulted.
func LoadFromBytes(data []byte) (*Config, error) {
	k := koanf.New(".")
	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return finish(k)
}

func finish(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.k = k

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":    "slimgen-api",
		"app.version": "1.0.0",

		// db.client, db.host, db.user and db.name have no defaults on purpose
		"db.schema":          "public",
		"db.pool.max":        10,
		"db.pool.idle":       5,
		"db.pool.lifetime":   "30m",
		"db.query.slow":      "200ms",
		"db.query.maxlength": 1000,
		"db.query.rate":      0,

		"log.level":  "info",
		"log.pretty": false,
		"log.trace":  false,

		"project.root": ".",

		"docs.workers": 8,
		"docs.yaml":    false,
		"docs.info":    "swagger.info.json",

		"serve.host":  "",
		"serve.port":  8080,
		"serve.watch": false,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}

// loadDotEnv reads KEY=value pairs from path and applies them with the same
// key mapping as the process environment.
func loadDotEnv(k *koanf.Koanf, path string) error {
	raw := koanf.New("\x00")
	if err := raw.Load(file.Provider(path), dotenv.Parser()); err != nil {
		if isNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	mapped := make(map[string]any, len(raw.Keys()))
	for key, value := range raw.All() {
		if name, v := transformEnv(key, fmt.Sprint(value)); name != "" {
			mapped[name] = v
		}
	}
	return k.Load(confmap.Provider(mapped, "."), nil)
}

// transformEnv turns DB_HOST into db.host. Keys outside the known sections
// and empty values are dropped.
func transformEnv(key, value string) (string, any) {
	if value == "" {
		return "", nil
	}
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "_", ".")
	section, _, _ := strings.Cut(name, ".")
	if _, ok := sections[section]; !ok || section == name {
		return "", nil
	}
	return name, value
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err)
}
