// Package config loads the scoring configuration from YAML with environment variable overrides.
//
// Before overrides are applied, ENV_FILE is loaded when set. Otherwise .env.local and then .env are
// loaded if present. Variables already in the environment are never replaced by a file.
//
// A field is overridden when its `env` struct tag names a non-empty variable:
//
//	type QualityConfig struct {
//	    MinScore float64 `env:"LDQ_MIN_SCORE" yaml:"min_score"`
//	}
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// loadEnvFiles loads the .env files in precedence order. Missing files are not an error.
func loadEnvFiles() error {
	files := []string{".env.local", ".env"}
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		files = []string{envFile}
	}
	for _, name := range files {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", name, err)
		}
	}
	return nil
}

// load reads path into a Config, fills defaults, then applies environment overrides so the
// environment always wins. An empty path skips the file.
func load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("load environment files: %w", err)
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	setDefaults(cfg)
	overrideFromEnv(reflect.ValueOf(cfg).Elem())
	return cfg, nil
}

// overrideFromEnv walks nested sections and sets each `env`-tagged field whose variable is set.
// Values that do not parse as the field's kind are ignored.
func overrideFromEnv(section reflect.Value) {
	t := section.Type()
	for i := range section.NumField() {
		field := section.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct {
			overrideFromEnv(field)
			continue
		}

		name := t.Field(i).Tag.Get("env")
		if name == "" {
			continue
		}
		val := os.Getenv(name)
		if val == "" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(val)
		case reflect.Int:
			if n, err := strconv.Atoi(val); err == nil {
				field.SetInt(int64(n))
			}
		case reflect.Float64:
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				field.SetFloat(f)
			}
		}
	}
}

// GetConfigPath returns CONFIG_PATH when set, otherwise defaultPath.
func GetConfigPath(defaultPath string) string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return defaultPath
}
