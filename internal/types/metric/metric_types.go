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

package metric

import (
	"fmt"
	"strings"
)

// ValueType mirrors the Prometheus metric types the exporter can emit.
type ValueType string

const (
	ValueTypeGauge   ValueType = "gauge"
	ValueTypeCounter ValueType = "counter"
	ValueTypeUntyped ValueType = "untyped"
)

// ValueSource tells how a sample value is read from a monitor field.
type ValueSource string

const (
	// SourceValue uses the field itself as the value.
	SourceValue ValueSource = "value"
	// SourceLatest uses the "value" of the first, most recent, element of
	// a sequence field. An empty sequence yields no sample.
	SourceLatest ValueSource = "latest"
)

func ParseValueType(s string) (ValueType, error) {

	switch t := ValueType(strings.ToLower(s)); t {
	case ValueTypeGauge, ValueTypeCounter, ValueTypeUntyped:
		return t, nil
	case "":
		return ValueTypeGauge, nil
	default:
		return "", fmt.Errorf("unknown metric type %q", s)
	}
}

func ParseValueSource(s string) (ValueSource, error) {

	switch src := ValueSource(strings.ToLower(s)); src {
	case SourceValue, SourceLatest:
		return src, nil
	case "":
		return SourceValue, nil
	default:
		return "", fmt.Errorf("unknown metric source %q", s)
	}
}

// Definition binds one monitor field to an emitted metric.
type Definition struct {
	APIField string
	Name     string
	Help     string
	Type     ValueType
	Source   ValueSource
}

// Sample is one metric value produced by a collection cycle.
type Sample struct {
	Name   string
	Help   string
	Type   ValueType
	Labels map[string]string
	Value  float64
}

func (s Sample) String() string {

	return fmt.Sprintf("%s%v %g", s.Name, s.Labels, s.Value)
}
