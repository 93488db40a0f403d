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

package server

import (
	"io"

	"github.com/Bigouden/uptime-robot-exporter/internal/config"
	loggertypes "github.com/Bigouden/uptime-robot-exporter/internal/types/logger"
	"github.com/Bigouden/uptime-robot-exporter/internal/util/logger"
)

const (
	ExporterName = "UptimeRobotExporter"
)

// Server carries what every runner shares: the settings and the logger.
type Server struct {
	Name     string
	Logger   logger.Logger
	Settings *config.Settings
}

func New(settings *config.Settings, logOut io.Writer) *Server {

	return &Server{
		Settings: settings,
		Name:     ExporterName,
		Logger:   logger.NewLogger(logOut, loggertypes.NewExporterLogging(settings.LogLevel, settings.Location)),
	}
}
