// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Bigouden/uptime-robot-exporter/internal/collector"
	"github.com/Bigouden/uptime-robot-exporter/internal/constants"
	cfgtypes "github.com/Bigouden/uptime-robot-exporter/internal/types/config"
	errtypes "github.com/Bigouden/uptime-robot-exporter/internal/types/err"
	loggertypes "github.com/Bigouden/uptime-robot-exporter/internal/types/logger"
	"github.com/Bigouden/uptime-robot-exporter/internal/types/metric"
	"github.com/Bigouden/uptime-robot-exporter/internal/util/logger"
)

// Settings is a validated configuration with its derived values.
type Settings struct {
	Config      *cfgtypes.ExporterConfig
	LogLevel    loggertypes.LogLevel
	Location    *time.Location
	Definitions []metric.Definition
}

// Address is the listen address of the metrics server.
func (s *Settings) Address() string {
	return fmt.Sprintf("%s:%d", s.Config.Exporter.Host, s.Config.Exporter.Port)
}

// Loader builds the exporter configuration from defaults, an optional YAML
// file and the environment, in increasing precedence.
type Loader struct {
	cfgPath string
	envFile string
	logger  logger.Logger
}

// New creates a loader. Both paths are optional.
func New(cfgPath, envFile string, logOut io.Writer) *Loader {

	return &Loader{
		cfgPath: cfgPath,
		envFile: envFile,
		logger:  logger.DefaultLogger(logOut, loggertypes.LogLevelInfo).WithName(string(loggertypes.LogComponentConfigLoader)),
	}
}

// Load returns validated settings. Every error wraps ErrStartupConfig.
func (l *Loader) Load() (*Settings, error) {

	if l.envFile != "" {
		if err := godotenv.Load(l.envFile); err != nil {
			l.logger.Error(err, "failed to load env file", "path", l.envFile)
			return nil, fmt.Errorf("%w: env file %s: %w", errtypes.ErrStartupConfig, l.envFile, err)
		}
		l.logger.Info("env file loaded", "path", l.envFile)
	}

	cfg, err := l.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errtypes.ErrStartupConfig, err)
	}

	if err := NewEnvConfigLoader(os.LookupEnv).MergeWithEnv(cfg); err != nil {
		l.logger.Error(err, "invalid environment variable")
		return nil, fmt.Errorf("%w: %w", errtypes.ErrStartupConfig, err)
	}

	settings, err := l.ValidateConfig(cfg)
	if err != nil {
		l.logger.Error(err, "config validation failed")
		return nil, fmt.Errorf("%w: %w", errtypes.ErrStartupConfig, err)
	}
	return settings, nil
}

// LoadConfig returns the defaults, overlaid with the config file when one
// is set.
func (l *Loader) LoadConfig() (*cfgtypes.ExporterConfig, error) {

	cfg := DefaultConfig()
	if l.cfgPath == "" {
		return cfg, nil
	}

	// Resolve symlinks to handle Kubernetes ConfigMap mounts
	resolved, err := filepath.EvalSymlinks(l.cfgPath)
	if err != nil {
		resolved = l.cfgPath
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		l.logger.Error(err, "failed to read config file", "path", resolved)
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		l.logger.Error(err, "failed to parse config file", "path", resolved)
		return nil, err
	}

	l.logger.Info("configuration loaded successfully", "path", l.cfgPath)
	return cfg, nil
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *cfgtypes.ExporterConfig {

	exitOnError := constants.DefaultExitOnError
	return &cfgtypes.ExporterConfig{
		Exporter: cfgtypes.ExporterSection{
			Name: constants.DefaultExporterName,
			Host: constants.DefaultHost,
			Port: constants.DefaultPort,
			Log: cfgtypes.ExporterLogConfig{
				Level:    constants.DefaultLogLevel,
				Timezone: constants.DefaultTimezone,
			},
			ExitOnError: &exitOnError,
		},
		UptimeRobot: cfgtypes.UptimeRobotSection{
			URL:     constants.DefaultUptimeRobotURL,
			Timeout: constants.DefaultUptimeRobotTimeout,
		},
	}
}

// ValidateConfig checks the configuration and resolves the log level, the
// timezone and the metric table.
func (l *Loader) ValidateConfig(cfg *cfgtypes.ExporterConfig) (*Settings, error) {

	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	if strings.TrimSpace(cfg.UptimeRobot.APIKey) == "" {
		return nil, fmt.Errorf("%w: %s environment variable must be set", errtypes.ErrAPIKeyIsEmpty, constants.EnvAPIKey)
	}

	if cfg.Exporter.Name == "" {
		return nil, fmt.Errorf("%s must not be empty", constants.EnvExporterName)
	}

	if cfg.Exporter.Port < 1 || cfg.Exporter.Port > 65535 {
		return nil, fmt.Errorf("%w: %d", errtypes.ErrInvalidPort, cfg.Exporter.Port)
	}

	level, err := loggertypes.ParseLogLevel(cfg.Exporter.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errtypes.ErrInvalidLogLevel, constants.EnvLogLevel, err)
	}

	location, err := time.LoadLocation(cfg.Exporter.Log.Timezone)
	if err != nil || cfg.Exporter.Log.Timezone == "" {
		return nil, fmt.Errorf("%w: %q", errtypes.ErrInvalidTimezone, cfg.Exporter.Log.Timezone)
	}

	endpoint, err := url.Parse(cfg.UptimeRobot.URL)
	if err != nil || (endpoint.Scheme != "http" && endpoint.Scheme != "https") || endpoint.Host == "" {
		return nil, fmt.Errorf("%s must be an absolute http(s) url, got %q", constants.EnvAPIURL, cfg.UptimeRobot.URL)
	}

	if cfg.UptimeRobot.Timeout <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %s", constants.EnvAPITimeout, cfg.UptimeRobot.Timeout)
	}

	definitions := collector.DefaultDefinitions()
	if len(cfg.Metrics) > 0 {
		if definitions, err = collector.DefinitionsFromConfig(cfg.Metrics); err != nil {
			return nil, err
		}
	}
	if definitions, err = collector.SelectDefinitions(definitions, cfg.Exporter.EnabledMetrics); err != nil {
		return nil, err
	}

	return &Settings{
		Config:      cfg,
		LogLevel:    level,
		Location:    location,
		Definitions: definitions,
	}, nil
}

// PrintConfig logs the effective configuration, without the api key.
func (l *Loader) PrintConfig(log logger.Logger, s *Settings) {

	if s == nil {
		log.Info("config is nil")
		return
	}
	metrics := make([]string, 0, len(s.Definitions))
	for _, d := range s.Definitions {
		metrics = append(metrics, d.Name)
	}
	log.Sugar().Debugw("current configuration",
		"name", s.Config.Exporter.Name,
		"address", s.Address(),
		"log_level", s.LogLevel,
		"timezone", s.Location.String(),
		"uptime_robot_url", s.Config.UptimeRobot.URL,
		"uptime_robot_timeout", s.Config.UptimeRobot.Timeout.String(),
		"exit_on_error", s.Config.Exporter.ShouldExitOnError(),
		"coalesce", s.Config.Exporter.Coalesce,
		"metrics", metrics,
	)
}
