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

package upstream

import (
	"fmt"

	errtypes "github.com/Bigouden/uptime-robot-exporter/internal/types/err"
)

// ErrorKind classifies why a getMonitors call failed.
type ErrorKind int

const (
	// TransportFailure is a network error or a non 200 HTTP status.
	TransportFailure ErrorKind = iota + 1
	// UpstreamRejected is a response whose stat is "fail".
	UpstreamRejected
	// UnexpectedResponse is any body that does not follow the schema.
	UnexpectedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case TransportFailure:
		return "TransportFailure"
	case UpstreamRejected:
		return "UpstreamRejected"
	case UnexpectedResponse:
		return "UnexpectedResponse"
	default:
		return "Unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case TransportFailure:
		return errtypes.ErrTransportFailure
	case UpstreamRejected:
		return errtypes.ErrUpstreamRejected
	default:
		return errtypes.ErrUnexpectedResponse
	}
}

// UpstreamError is returned by FetchMonitors. errors.Is matches it against
// the sentinel of its kind and against the wrapped cause.
type UpstreamError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: http status %d", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

func newTransportFailure(statusCode int, cause error) *UpstreamError {
	return &UpstreamError{Kind: TransportFailure, StatusCode: statusCode, Err: cause}
}

func newUpstreamRejected(message string) *UpstreamError {
	return &UpstreamError{Kind: UpstreamRejected, Message: message}
}

func newUnexpectedResponse(message string, cause error) *UpstreamError {
	return &UpstreamError{Kind: UnexpectedResponse, Message: message, Err: cause}
}
