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

package err

import "errors"

// Startup Error Types
var (
	ErrStartupConfig    = errors.New("invalid exporter configuration")
	ErrAPIKeyIsEmpty    = errors.New("uptime robot api key is empty")
	ErrInvalidPort      = errors.New("exporter port must be an integer between 1 and 65535")
	ErrInvalidLogLevel  = errors.New("exporter log level is invalid")
	ErrInvalidTimezone  = errors.New("timezone is invalid")
	ErrInvalidMetric    = errors.New("metric definition is invalid")
	ErrExporterStopped  = errors.New("exporter server stop")
	ErrScrapeFailed     = errors.New("scrape failed")
)

// Upstream Error Types
var (
	ErrTransportFailure   = errors.New("uptime robot transport failure")
	ErrUpstreamRejected   = errors.New("uptime robot rejected the request")
	ErrUnexpectedResponse = errors.New("uptime robot unexpected response")
)

// Banner Error Types
var (
	BannerPrintReaderError  = errors.New("print banner error")
	BannerPrintExecuteError = errors.New("print banner execute error")
)
