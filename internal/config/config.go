// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

// Package config loads the application configuration from defaults, an
// optional config file, CVSS_CALC_* environment variables and bound flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/bonial-oss/cvss-calc/internal/cvss"
	"github.com/bonial-oss/cvss-calc/internal/log"
)

// ApplicationName is used for the config file name and the env prefix.
const ApplicationName = "cvss-calc"

var ErrConfigNotFound = errors.New("application config not found")

type Application struct {
	ConfigPath string `yaml:"-" mapstructure:"-"`
	Verbosity  int    `yaml:"verbosity" mapstructure:"verbosity"`
	Quiet      bool   `yaml:"quiet" mapstructure:"quiet"`
	Format     string `yaml:"format" mapstructure:"format"`
	FailOn     string `yaml:"fail-on" mapstructure:"fail-on"`
	// FailOnSeverity is parsed from FailOn; nil when no policy is set.
	FailOnSeverity *cvss.Severity `yaml:"-" mapstructure:"-"`
	Log            Logging        `yaml:"log" mapstructure:"log"`
	Server         Server         `yaml:"server" mapstructure:"server"`
}

type Logging struct {
	Level      string       `yaml:"level" mapstructure:"level"`
	Structured bool         `yaml:"structured" mapstructure:"structured"`
	LevelOpt   logrus.Level `yaml:"-" mapstructure:"-"`
}

type Server struct {
	Addr         string        `yaml:"addr" mapstructure:"addr"`
	ReadTimeout  time.Duration `yaml:"read-timeout" mapstructure:"read-timeout"`
	WriteTimeout time.Duration `yaml:"write-timeout" mapstructure:"write-timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("verbosity", 0)
	v.SetDefault("quiet", false)
	v.SetDefault("format", "")
	v.SetDefault("fail-on", "")
	v.SetDefault("log.level", "")
	v.SetDefault("log.structured", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read-timeout", 10*time.Second)
	v.SetDefault("server.write-timeout", 10*time.Second)
}

// Load reads the configuration into a new Application. A missing config
// file is not an error; an explicitly given path that cannot be read is.
func Load(v *viper.Viper, configPath string) (*Application, error) {
	setDefaults(v)

	if err := readConfig(v, configPath); err != nil && !errors.Is(err, ErrConfigNotFound) {
		return nil, err
	}

	cfg := &Application{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	if err := cfg.parseValues(); err != nil {
		return nil, fmt.Errorf("invalid application config: %w", err)
	}
	return cfg, nil
}

func (cfg *Application) parseValues() error {
	level, err := log.ResolveLevel(cfg.Log.Level, cfg.Verbosity, cfg.Quiet)
	if err != nil {
		return err
	}
	cfg.Log.LevelOpt = level

	if cfg.FailOn != "" {
		sev, err := cvss.ParseSeverity(cfg.FailOn)
		if err != nil {
			return fmt.Errorf("bad fail-on value: %w", err)
		}
		cfg.FailOnSeverity = &sev
	}

	if cfg.Server.ReadTimeout <= 0 || cfg.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	return nil
}

// String renders the configuration as YAML for debug logging.
func (cfg Application) String() string {
	out, err := yaml.Marshal(&cfg)
	if err != nil {
		return err.Error()
	}
	return string(out)
}

// readConfig reads the given config file or searches, in order:
// ./.cvss-calc.yaml, ./.cvss-calc/config.yaml, ~/.cvss-calc.yaml and
// cvss-calc/config.yaml in the XDG config directories.
func readConfig(v *viper.Viper, configPath string) error {
	v.AutomaticEnv()
	v.SetEnvPrefix(strings.ReplaceAll(ApplicationName, "-", "_"))
	// nested keys map to env vars, e.g. server.read-timeout = CVSS_CALC_SERVER_READ_TIMEOUT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read application config=%q: %w", configPath, err)
		}
		return nil
	}

	search := []struct {
		dir, name string
	}{
		{".", "." + ApplicationName},
		{"." + ApplicationName, "config"},
	}
	if home, err := homedir.Dir(); err == nil {
		search = append(search, struct{ dir, name string }{home, "." + ApplicationName})
	}
	search = append(search, struct{ dir, name string }{filepath.Join(xdg.ConfigHome, ApplicationName), "config"})
	for _, dir := range xdg.ConfigDirs {
		search = append(search, struct{ dir, name string }{filepath.Join(dir, ApplicationName), "config"})
	}

	for _, s := range search {
		file, ok := findConfigFile(s.dir, s.name)
		if !ok {
			continue
		}
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to parse config=%q: %w", file, err)
		}
		return nil
	}
	return ErrConfigNotFound
}

// findConfigFile looks for name with any extension viper can read.
func findConfigFile(dir, name string) (string, bool) {
	for _, ext := range viper.SupportedExts {
		file := filepath.Join(dir, name+"."+ext)
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			return file, true
		}
	}
	return "", false
}
