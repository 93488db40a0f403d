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

package monitor

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Bigouden/uptime-robot-exporter/internal/constants"
)

// GetMonitorsResponse is the body returned by the getMonitors endpoint.
type GetMonitorsResponse struct {
	Stat     string    `json:"stat"`
	Monitors []Monitor `json:"monitors"`
	Error    *APIError `json:"error,omitempty"`
}

type APIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Monitor keeps every field the API returned for one monitor. Numbers are
// decoded as json.Number so labels carry the exact text sent upstream.
type Monitor map[string]any

// ID returns the textual monitor id, empty when absent.
func (m Monitor) ID() string {

	if s, ok := Scalar(m[constants.FieldID]); ok {
		return s
	}
	return ""
}

// Has reports whether the field is present, whatever its value.
func (m Monitor) Has(field string) bool {

	_, ok := m[field]
	return ok
}

// Scalar renders a string, number or bool. Arrays, objects and null are not
// scalars.
func Scalar(v any) (string, bool) {

	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	default:
		return "", false
	}
}

// IsTruthy drops the same values a Python truth test would: empty strings,
// zero numbers, null, false and empty collections.
func IsTruthy(v any) bool {

	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return val != ""
		}
		return f != 0
	case float64:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

// Number reads a metric value. Numeric strings are accepted since the API
// is not consistent across versions.
func Number(v any) (float64, error) {

	switch val := v.(type) {
	case json.Number:
		return val.Float64()
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case string:
		return strconv.ParseFloat(val, 64)
	default:
		return 0, fmt.Errorf("value %v of type %T is not a number", v, v)
	}
}

// Latest returns the "value" of the first element of a response time
// sequence. ok is false when the sequence is empty.
func Latest(v any) (value any, ok bool, err error) {

	items, isSlice := v.([]any)
	if !isSlice {
		if v == nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("expected a list, got %T", v)
	}
	if len(items) == 0 {
		return nil, false, nil
	}
	first, isMap := items[0].(map[string]any)
	if !isMap {
		return nil, false, fmt.Errorf("expected an object as first element, got %T", items[0])
	}
	value, found := first[constants.FieldResponseTimeValue]
	if !found {
		return nil, false, fmt.Errorf("first element has no %q field", constants.FieldResponseTimeValue)
	}
	return value, true, nil
}
