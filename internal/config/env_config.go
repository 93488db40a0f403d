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
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Bigouden/uptime-robot-exporter/internal/constants"
	cfgtypes "github.com/Bigouden/uptime-robot-exporter/internal/types/config"
)

// EnvConfigLoader overrides configuration values from environment
// variables. Empty variables are treated as unset.
type EnvConfigLoader struct {
	lookup func(string) (string, bool)
}

func NewEnvConfigLoader(lookup func(string) (string, bool)) *EnvConfigLoader {
	return &EnvConfigLoader{lookup: lookup}
}

// MergeWithEnv applies the environment on top of cfg. A variable that is
// set but cannot be parsed is an error, never silently replaced by its
// default.
func (l *EnvConfigLoader) MergeWithEnv(cfg *cfgtypes.ExporterConfig) error {

	if v, ok := l.get(constants.EnvAPIKey); ok {
		cfg.UptimeRobot.APIKey = v
	}
	if v, ok := l.get(constants.EnvAPIURL); ok {
		cfg.UptimeRobot.URL = v
	}
	if v, ok := l.get(constants.EnvAPITimeout); ok {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s must be a duration: %w", constants.EnvAPITimeout, err)
		}
		cfg.UptimeRobot.Timeout = timeout
	}

	if v, ok := l.get(constants.EnvExporterName); ok {
		cfg.Exporter.Name = v
	}
	if v, ok := l.get(constants.EnvExporterHost); ok {
		cfg.Exporter.Host = v
	}
	if v, ok := l.get(constants.EnvExporterPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be int: %w", constants.EnvExporterPort, err)
		}
		cfg.Exporter.Port = port
	}
	if v, ok := l.get(constants.EnvLogLevel); ok {
		cfg.Exporter.Log.Level = strings.ToUpper(v)
	}
	if v, ok := l.get(constants.EnvTimezone); ok {
		cfg.Exporter.Log.Timezone = v
	}

	if v, ok := l.get(constants.EnvExitOnError); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", constants.EnvExitOnError, err)
		}
		cfg.Exporter.ExitOnError = &b
	}
	if v, ok := l.get(constants.EnvCoalesce); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", constants.EnvCoalesce, err)
		}
		cfg.Exporter.Coalesce = b
	}
	if v, ok := l.get(constants.EnvDisableCompression); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", constants.EnvDisableCompression, err)
		}
		cfg.Exporter.DisableCompression = b
	}
	if v, ok := l.get(constants.EnvMetrics); ok {
		cfg.Exporter.EnabledMetrics = splitList(v)
	}

	return nil
}

func (l *EnvConfigLoader) get(key string) (string, bool) {
	v, ok := l.lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
