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

package logger

import (
	"fmt"
	"strings"
	"time"
)

// exporter logger related types

type LogLevel string

const (
	// LogLevelDebug defines the "debug" logger level.
	LogLevelDebug LogLevel = "debug"

	// LogLevelInfo defines the "Info" logger level.
	LogLevelInfo LogLevel = "info"

	// LogLevelWarn defines the "Warn" logger level.
	LogLevelWarn LogLevel = "warn"

	// LogLevelError defines the "Error" logger level.
	LogLevelError LogLevel = "error"

	// LogLevelFatal defines the "Fatal" logger level.
	LogLevelFatal LogLevel = "fatal"
)

// levelAliases maps the accepted spellings of UPTIME_ROBOT_EXPORTER_LOGLEVEL
// to a logger level. Lookups are done on the upper-cased value.
var levelAliases = map[string]LogLevel{
	"DEBUG":    LogLevelDebug,
	"INFO":     LogLevelInfo,
	"WARN":     LogLevelWarn,
	"WARNING":  LogLevelWarn,
	"ERROR":    LogLevelError,
	"CRITICAL": LogLevelFatal,
	"FATAL":    LogLevelFatal,
}

// ParseLogLevel resolves a configured level name, case-insensitively.
func ParseLogLevel(s string) (LogLevel, error) {

	level, ok := levelAliases[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

type ExporterLogging struct {
	Level map[LogComponent]LogLevel `json:"level,omitempty"`

	// Location is used to render log timestamps, UTC when nil.
	Location *time.Location `json:"-"`
}

type LogComponent string

const (
	LogComponentDefault LogComponent = "default"

	LogComponentCollector LogComponent = "collector"

	LogComponentUpstream LogComponent = "upstream"

	LogComponentMetricsServer LogComponent = "metrics-server"

	LogComponentConfigLoader LogComponent = "config-loader"

	LogComponentBanner LogComponent = "banner"
)

func DefaultExporterLogging() *ExporterLogging {

	return &ExporterLogging{
		Level: map[LogComponent]LogLevel{
			LogComponentDefault: LogLevelInfo,
		},
	}
}

// NewExporterLogging returns a logging configuration where every component
// logs at level, timestamps rendered in loc.
func NewExporterLogging(level LogLevel, loc *time.Location) *ExporterLogging {

	logging := DefaultExporterLogging()
	logging.Level[LogComponentDefault] = level
	logging.Location = loc
	return logging
}

func (logging *ExporterLogging) DefaultLoggingLevel(level LogLevel) LogLevel {

	if level != "" {
		return level
	}

	if logging.Level[LogComponentDefault] != "" {

		return logging.Level[LogComponentDefault]
	}

	return LogLevelInfo
}

func (logging *ExporterLogging) SetLoggingDefaults() {

	if logging != nil && logging.Level != nil && logging.Level[LogComponentDefault] == "" {

		logging.Level[LogComponentDefault] = LogLevelInfo
	}
}
