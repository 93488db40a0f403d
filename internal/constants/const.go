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

// Package constants defines the exporter wide defaults and names.
package constants

import "time"

const (
	DefaultExporterName = "uptime-robot-exporter"
	DefaultHost         = "0.0.0.0"
	DefaultPort         = 8123
	DefaultLogLevel     = "INFO"
	DefaultTimezone     = "Europe/Paris"

	DefaultUptimeRobotURL     = "https://api.uptimerobot.com/v2/getMonitors"
	DefaultUptimeRobotTimeout = 30 * time.Second

	DefaultExitOnError = true
)

// Environment variables
const (
	EnvAPIKey             = "UPTIME_ROBOT_API_KEY"
	EnvAPIURL             = "UPTIME_ROBOT_API_URL"
	EnvAPITimeout         = "UPTIME_ROBOT_API_TIMEOUT"
	EnvExporterName       = "UPTIME_ROBOT_EXPORTER_NAME"
	EnvExporterHost       = "UPTIME_ROBOT_EXPORTER_HOST"
	EnvExporterPort       = "UPTIME_ROBOT_EXPORTER_PORT"
	EnvLogLevel           = "UPTIME_ROBOT_EXPORTER_LOGLEVEL"
	EnvTimezone           = "TZ"
	EnvExitOnError        = "UPTIME_ROBOT_EXPORTER_EXIT_ON_ERROR"
	EnvCoalesce           = "UPTIME_ROBOT_EXPORTER_COALESCE"
	EnvDisableCompression = "UPTIME_ROBOT_EXPORTER_DISABLE_COMPRESSION"
	EnvMetrics            = "UPTIME_ROBOT_EXPORTER_METRICS"
)

// Uptime Robot getMonitors fields
const (
	FieldID                  = "id"
	FieldStatus              = "status"
	FieldResponseTimes       = "response_times"
	FieldAverageResponseTime = "average_response_time"
	FieldResponseTimeValue   = "value"

	// StatOK and StatFail are the values of the "stat" field of a response.
	StatOK   = "ok"
	StatFail = "fail"
)

// Monitor status codes as reported by Uptime Robot
const (
	MonitorPaused     = 0
	MonitorNotChecked = 1
	MonitorUp         = 2
	MonitorSeemsDown  = 8
	MonitorDown       = 9
)

const (
	MetricPrefix = "uptime_robot_"

	// LabelJob is always set to the exporter name.
	LabelJob = "job"
)

// HTTP routes of the metrics server
const (
	PathRoot     = "/"
	PathMetrics  = "/metrics"
	PathFavicon  = "/favicon.ico"
	HeaderScrape = "X-Prometheus-Scrape-Timeout-Seconds"

	// ScrapeTimeoutOffset is subtracted from the scrape timeout announced
	// by Prometheus so the response is written before the scraper gives up.
	ScrapeTimeoutOffset = 500 * time.Millisecond
)
