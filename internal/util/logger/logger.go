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
	"io"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Bigouden/uptime-robot-exporter/internal/types/logger"
)

// TimeLayout renders timestamps as dd/mm/YYYY HH:MM:SS.
const TimeLayout = "02/01/2006 15:04:05"

type Logger struct {
	logr.Logger
	out           io.Writer
	logging       *logger.ExporterLogging
	sugaredLogger *zap.SugaredLogger
}

func NewLogger(w io.Writer, logging *logger.ExporterLogging) Logger {

	logger := initZapLogger(w, logging, logging.Level[logger.LogComponentDefault])

	return Logger{
		Logger:        zapr.NewLogger(logger),
		out:           w,
		logging:       logging,
		sugaredLogger: logger.Sugar(),
	}
}

func DefaultLogger(out io.Writer, level logger.LogLevel) Logger {

	logging := logger.DefaultExporterLogging()
	logger := initZapLogger(out, logging, level)

	return Logger{
		Logger:        zapr.NewLogger(logger),
		out:           out,
		logging:       logging,
		sugaredLogger: logger.Sugar(),
	}
}

// WithName returns a new Logger instance with the specified name element added
// to the Logger's name. The level configured for the component with the same
// name applies, falling back to the default level.
func (l Logger) WithName(name string) Logger {

	logLevel := l.logging.Level[logger.LogComponent(name)]
	logger := initZapLogger(l.out, l.logging, logLevel)

	return Logger{
		Logger:        zapr.NewLogger(logger).WithName(name),
		logging:       l.logging,
		out:           l.out,
		sugaredLogger: logger.Sugar().Named(name),
	}
}

// WithValues returns a new Logger instance with additional key/value pairs.
func (l Logger) WithValues(keysAndValues ...interface{}) Logger {

	l.Logger = l.Logger.WithValues(keysAndValues...)
	l.sugaredLogger = l.sugaredLogger.With(keysAndValues...)
	return l
}

// Sugar exposes the printf-style and leveled API of zap, used where logr
// has no equivalent (warn, debug).
func (l Logger) Sugar() *zap.SugaredLogger {

	return l.sugaredLogger
}

func initZapLogger(w io.Writer, logging *logger.ExporterLogging, level logger.LogLevel) *zap.Logger {

	parseLevel, _ := zapcore.ParseLevel(string(logging.DefaultLoggingLevel(level)))

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = locationTimeEncoder(logging.Location)
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.ConsoleSeparator = " - "

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), zap.NewAtomicLevelAt(parseLevel))

	return zap.New(core, zap.AddCaller())
}

func locationTimeEncoder(loc *time.Location) zapcore.TimeEncoder {

	if loc == nil {
		loc = time.UTC
	}
	return func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.In(loc).Format(TimeLayout))
	}
}
