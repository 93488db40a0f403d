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

package collector

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/prometheus/common/model"

	"github.com/Bigouden/uptime-robot-exporter/internal/constants"
	errtypes "github.com/Bigouden/uptime-robot-exporter/internal/types/err"
	loggertypes "github.com/Bigouden/uptime-robot-exporter/internal/types/logger"
	"github.com/Bigouden/uptime-robot-exporter/internal/types/metric"
	"github.com/Bigouden/uptime-robot-exporter/internal/types/monitor"
	"github.com/Bigouden/uptime-robot-exporter/internal/util/logger"
)

// MonitorFetcher is the upstream side of a collection cycle.
type MonitorFetcher interface {
	FetchMonitors(ctx context.Context, apiKey string) ([]monitor.Monitor, error)
}

type Config struct {
	Fetcher      MonitorFetcher
	APIKey       string
	ExporterName string
	Definitions  []metric.Definition
	Logger       logger.Logger
}

// MetricCollector turns the monitors of one getMonitors call into samples.
// It keeps nothing between two calls of Collect and is safe for concurrent
// use.
type MetricCollector struct {
	fetcher      MonitorFetcher
	apiKey       string
	exporterName string
	definitions  []metric.Definition
	// metricFields are the monitor fields rendered as metrics, never as labels
	metricFields map[string]struct{}
	logger       logger.Logger
}

func New(cfg *Config) *MetricCollector {

	definitions := cfg.Definitions
	if definitions == nil {
		definitions = DefaultDefinitions()
	}
	exporterName := cfg.ExporterName
	if exporterName == "" {
		exporterName = constants.DefaultExporterName
	}

	metricFields := make(map[string]struct{}, len(definitions))
	for _, d := range definitions {
		metricFields[d.APIField] = struct{}{}
	}

	return &MetricCollector{
		fetcher:      cfg.Fetcher,
		apiKey:       cfg.APIKey,
		exporterName: exporterName,
		definitions:  definitions,
		metricFields: metricFields,
		logger:       cfg.Logger.WithName(string(loggertypes.LogComponentCollector)),
	}
}

// Collect runs one cycle. Any upstream error aborts it and no sample is
// returned.
func (c *MetricCollector) Collect(ctx context.Context) ([]metric.Sample, error) {

	start := time.Now()

	monitors, err := c.fetcher.FetchMonitors(ctx, c.apiKey)
	if err != nil {
		return nil, err
	}

	samples := make([]metric.Sample, 0, len(monitors)*len(c.definitions))
	for _, m := range monitors {
		labels := c.labels(m)
		for _, def := range c.definitions {
			if !m.Has(def.APIField) {
				continue
			}
			value, ok, err := c.value(def, m)
			if err != nil {
				c.logger.Error(err, "invalid metric value", "monitor", m.ID(), "field", def.APIField)
				return nil, err
			}
			if !ok {
				continue
			}
			samples = append(samples, metric.Sample{
				Name:   def.Name,
				Help:   def.Help,
				Type:   def.Type,
				Labels: maps.Clone(labels),
				Value:  value,
			})
		}
	}

	c.logger.Info("metrics collected", "monitors", len(monitors), "samples", len(samples),
		"duration", time.Since(start).String())
	c.logger.Sugar().Debugf("Metrics : %v", samples)

	return samples, nil
}

func (c *MetricCollector) value(def metric.Definition, m monitor.Monitor) (float64, bool, error) {

	raw := m[def.APIField]
	if def.Source == metric.SourceLatest {
		latest, ok, err := monitor.Latest(raw)
		if err != nil || !ok {
			return 0, false, c.valueError(def, m, err)
		}
		raw = latest
	}

	value, err := monitor.Number(raw)
	if err != nil {
		return 0, false, c.valueError(def, m, err)
	}
	return value, true, nil
}

func (c *MetricCollector) valueError(def metric.Definition, m monitor.Monitor, err error) error {

	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: monitor %q field %q: %v", errtypes.ErrUnexpectedResponse, m.ID(), def.APIField, err)
}

// labels keeps the truthy scalar fields that are not metrics, plus job.
func (c *MetricCollector) labels(m monitor.Monitor) map[string]string {

	labels := map[string]string{constants.LabelJob: c.exporterName}
	for key, raw := range m {
		if _, isMetric := c.metricFields[key]; isMetric {
			continue
		}
		if key == constants.FieldAverageResponseTime || key == constants.LabelJob {
			continue
		}
		if !monitor.IsTruthy(raw) {
			continue
		}
		value, ok := monitor.Scalar(raw)
		if !ok {
			continue
		}
		if !model.LabelNameRE.MatchString(key) || strings.HasPrefix(key, model.ReservedLabelPrefix) {
			c.logger.Sugar().Debugw("field is not a valid label name, skipped", "monitor", m.ID(), "field", key)
			continue
		}
		labels[key] = value
	}
	return labels
}
