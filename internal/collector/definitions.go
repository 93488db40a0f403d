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
	"fmt"
	"slices"
	"strings"

	"github.com/prometheus/common/model"

	"github.com/Bigouden/uptime-robot-exporter/internal/constants"
	cfgtypes "github.com/Bigouden/uptime-robot-exporter/internal/types/config"
	errtypes "github.com/Bigouden/uptime-robot-exporter/internal/types/err"
	"github.com/Bigouden/uptime-robot-exporter/internal/types/metric"
)

// DefaultDefinitions is the metric table used when none is configured.
func DefaultDefinitions() []metric.Definition {

	return []metric.Definition{
		{
			APIField: constants.FieldStatus,
			Name:     constants.MetricPrefix + "status",
			Help:     "Uptime Robot Status",
			Type:     metric.ValueTypeGauge,
			Source:   metric.SourceValue,
		},
		{
			APIField: constants.FieldResponseTimes,
			Name:     constants.MetricPrefix + "response_time",
			Help:     "Uptime Robot Response Time",
			Type:     metric.ValueTypeGauge,
			Source:   metric.SourceLatest,
		},
	}
}

// SelectDefinitions keeps the entries of defs whose api field is listed,
// in the order of defs. An empty list keeps everything.
func SelectDefinitions(defs []metric.Definition, fields []string) ([]metric.Definition, error) {

	if len(fields) == 0 {
		return defs, nil
	}

	wanted := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if !slices.ContainsFunc(defs, func(d metric.Definition) bool { return d.APIField == field }) {
			return nil, fmt.Errorf("%w: unknown metric field %q", errtypes.ErrInvalidMetric, field)
		}
		wanted[field] = struct{}{}
	}

	selected := make([]metric.Definition, 0, len(wanted))
	for _, d := range defs {
		if _, ok := wanted[d.APIField]; ok {
			selected = append(selected, d)
		}
	}
	return selected, nil
}

// DefinitionsFromConfig turns the metric table of the config file into
// definitions. Name defaults to the prefixed field name.
func DefinitionsFromConfig(cfgs []cfgtypes.MetricDefinitionConfig) ([]metric.Definition, error) {

	defs := make([]metric.Definition, 0, len(cfgs))
	for _, c := range cfgs {
		valueType, err := metric.ParseValueType(c.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", errtypes.ErrInvalidMetric, c.Field, err)
		}
		source, err := metric.ParseValueSource(c.Source)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", errtypes.ErrInvalidMetric, c.Field, err)
		}
		name := c.Name
		if name == "" {
			name = constants.MetricPrefix + c.Field
		}
		defs = append(defs, metric.Definition{
			APIField: c.Field,
			Name:     name,
			Help:     c.Help,
			Type:     valueType,
			Source:   source,
		})
	}
	return defs, ValidateDefinitions(defs)
}

// ValidateDefinitions checks the table can be rendered: one entry per api
// field, legal and distinct metric names.
func ValidateDefinitions(defs []metric.Definition) error {

	if len(defs) == 0 {
		return fmt.Errorf("%w: metric table is empty", errtypes.ErrInvalidMetric)
	}

	fields := make(map[string]struct{}, len(defs))
	names := make(map[string]struct{}, len(defs))
	for _, d := range defs {
		if strings.TrimSpace(d.APIField) == "" {
			return fmt.Errorf("%w: api field is empty", errtypes.ErrInvalidMetric)
		}
		if !model.MetricNameRE.MatchString(d.Name) {
			return fmt.Errorf("%w: %q is not a valid metric name", errtypes.ErrInvalidMetric, d.Name)
		}
		if _, dup := fields[d.APIField]; dup {
			return fmt.Errorf("%w: api field %q defined twice", errtypes.ErrInvalidMetric, d.APIField)
		}
		if _, dup := names[d.Name]; dup {
			return fmt.Errorf("%w: metric %q defined twice", errtypes.ErrInvalidMetric, d.Name)
		}
		fields[d.APIField] = struct{}{}
		names[d.Name] = struct{}{}
	}
	return nil
}
