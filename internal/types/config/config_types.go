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
	"time"

	"github.com/Bigouden/uptime-robot-exporter/internal/constants"
)

type ExporterConfig struct {
	Exporter    ExporterSection          `yaml:"exporter"`
	UptimeRobot UptimeRobotSection       `yaml:"uptimeRobot"`
	Metrics     []MetricDefinitionConfig `yaml:"metrics"`
}

type ExporterSection struct {
	Name               string            `yaml:"name"`
	Host               string            `yaml:"host"`
	Port               int               `yaml:"port"`
	Log                ExporterLogConfig `yaml:"log"`
	ExitOnError        *bool             `yaml:"exitOnError"`
	Coalesce           bool              `yaml:"coalesce"`
	DisableCompression bool              `yaml:"disableCompression"`

	// EnabledMetrics restricts the metric table to these api fields.
	EnabledMetrics []string `yaml:"enabledMetrics"`
}

type ExporterLogConfig struct {
	Level    string `yaml:"level"`
	Timezone string `yaml:"timezone"`
}

type UptimeRobotSection struct {
	APIKey  string        `yaml:"apiKey"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// MetricDefinitionConfig is one entry of the metric table as written in the
// config file.
type MetricDefinitionConfig struct {
	Field  string `yaml:"field"`
	Name   string `yaml:"name"`
	Help   string `yaml:"help"`
	Type   string `yaml:"type"`
	Source string `yaml:"source"`
}

// ShouldExitOnError reports whether a failed scrape stops the process.
func (s ExporterSection) ShouldExitOnError() bool {
	if s.ExitOnError == nil {
		return constants.DefaultExitOnError
	}
	return *s.ExitOnError
}
