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
	"slices"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Bigouden/uptime-robot-exporter/internal/types/metric"
)

// SampleSource produces the samples of one scrape.
type SampleSource interface {
	Collect(ctx context.Context) ([]metric.Sample, error)
}

// ScrapeCollector exposes one collection cycle as a prometheus.Collector.
// It is built per scrape so the cycle runs under the scrape's context.
//
// Describe sends nothing: label sets differ between monitors, so the
// collector is registered unchecked.
type ScrapeCollector struct {
	ctx     context.Context
	source  SampleSource
	onError func(error)
}

// NewScrapeCollector binds source to ctx. onError, when set, is called with
// the error of a failed cycle before it is reported to the registry.
func NewScrapeCollector(ctx context.Context, source SampleSource, onError func(error)) *ScrapeCollector {

	return &ScrapeCollector{
		ctx:     ctx,
		source:  source,
		onError: onError,
	}
}

func (s *ScrapeCollector) Describe(chan<- *prometheus.Desc) {}

func (s *ScrapeCollector) Collect(ch chan<- prometheus.Metric) {

	samples, err := s.source.Collect(s.ctx)
	if err != nil {
		if s.onError != nil {
			s.onError(err)
		}
		ch <- prometheus.NewInvalidMetric(prometheus.NewInvalidDesc(err), err)
		return
	}

	for _, sample := range samples {
		m, err := ConstMetric(sample)
		if err != nil {
			ch <- prometheus.NewInvalidMetric(prometheus.NewInvalidDesc(err), err)
			continue
		}
		ch <- m
	}
}

// ConstMetric renders a sample as an immutable Prometheus metric.
func ConstMetric(sample metric.Sample) (prometheus.Metric, error) {

	names := make([]string, 0, len(sample.Labels))
	for name := range sample.Labels {
		names = append(names, name)
	}
	slices.Sort(names)

	values := make([]string, len(names))
	for i, name := range names {
		values[i] = sample.Labels[name]
	}

	desc := prometheus.NewDesc(sample.Name, sample.Help, names, nil)
	return prometheus.NewConstMetric(desc, valueType(sample.Type), sample.Value, values...)
}

func valueType(t metric.ValueType) prometheus.ValueType {

	switch t {
	case metric.ValueTypeCounter:
		return prometheus.CounterValue
	case metric.ValueTypeUntyped:
		return prometheus.UntypedValue
	default:
		return prometheus.GaugeValue
	}
}
