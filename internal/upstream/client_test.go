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
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errtypes "github.com/Bigouden/uptime-robot-exporter/internal/types/err"
	loggertype "github.com/Bigouden/uptime-robot-exporter/internal/types/logger"
	"github.com/Bigouden/uptime-robot-exporter/internal/util/logger"
)

func newTestClient(url string) *Client {
	log := logger.DefaultLogger(os.Stdout, loggertype.LogLevelDebug)
	return NewClient(url, 2*time.Second, log)
}

func serveBody(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchMonitors_RequestShape(t *testing.T) {
	var form url.Values
	var method, contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		_, _ = io.WriteString(w, `{"stat":"ok","monitors":[]}`)
	}))
	defer srv.Close()

	monitors, err := newTestClient(srv.URL).FetchMonitors(context.Background(), "u123-key")
	require.NoError(t, err)
	assert.Empty(t, monitors)
	assert.NotNil(t, monitors)

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "application/x-www-form-urlencoded", contentType)
	assert.Equal(t, "u123-key", form.Get("api_key"))
	assert.Equal(t, "json", form.Get("format"))
	assert.Equal(t, "1", form.Get("response_times"))
	assert.Equal(t, "1", form.Get("response_times_limit"))
	assert.Equal(t, "0", form.Get("response_times_average"))
}

func TestClient_FetchMonitors_OK(t *testing.T) {
	srv := serveBody(t, http.StatusOK, `{
		"stat": "ok",
		"pagination": {"offset": 0, "limit": 50, "total": 2},
		"monitors": [
			{"id": 1, "friendly_name": "Site A", "status": 2, "response_times": [{"datetime": 1700000000, "value": 134}]},
			{"id": 2, "friendly_name": "Site B", "status": 9, "response_times": []}
		]
	}`)

	monitors, err := newTestClient(srv.URL).FetchMonitors(context.Background(), "key")
	require.NoError(t, err)
	require.Len(t, monitors, 2)

	assert.Equal(t, "1", monitors[0].ID())
	assert.Equal(t, "Site A", monitors[0]["friendly_name"])
	assert.Equal(t, json.Number("2"), monitors[0]["status"])
	assert.Equal(t, "2", monitors[1].ID())
}

func TestClient_FetchMonitors_Rejected(t *testing.T) {
	srv := serveBody(t, http.StatusOK, `{"stat":"fail","error":{"message":"invalid key"}}`)

	monitors, err := newTestClient(srv.URL).FetchMonitors(context.Background(), "bad")
	assert.Nil(t, monitors)
	require.Error(t, err)

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, UpstreamRejected, upErr.Kind)
	assert.Equal(t, "invalid key", upErr.Message)
	assert.ErrorIs(t, err, errtypes.ErrUpstreamRejected)
	assert.Contains(t, err.Error(), "invalid key")
}

func TestClient_FetchMonitors_HTTPStatus(t *testing.T) {
	srv := serveBody(t, http.StatusInternalServerError, `oops`)

	_, err := newTestClient(srv.URL).FetchMonitors(context.Background(), "key")
	require.Error(t, err)

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, TransportFailure, upErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, upErr.StatusCode)
	assert.ErrorIs(t, err, errtypes.ErrTransportFailure)
	assert.NotErrorIs(t, err, errtypes.ErrUpstreamRejected)
}

func TestClient_FetchMonitors_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := newTestClient(addr).FetchMonitors(context.Background(), "key")
	require.Error(t, err)
	assert.ErrorIs(t, err, errtypes.ErrTransportFailure)
}

func TestClient_FetchMonitors_Unexpected(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown stat", body: `{"stat":"maybe"}`},
		{name: "missing stat", body: `{"monitors":[]}`},
		{name: "not json", body: `<html>maintenance</html>`},
		{name: "ok without monitors", body: `{"stat":"ok"}`},
		{name: "monitor is not an object", body: `{"stat":"ok","monitors":[1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveBody(t, http.StatusOK, tt.body)

			_, err := newTestClient(srv.URL).FetchMonitors(context.Background(), "key")
			require.Error(t, err)

			var upErr *UpstreamError
			require.True(t, errors.As(err, &upErr))
			assert.Equal(t, UnexpectedResponse, upErr.Kind)
			assert.ErrorIs(t, err, errtypes.ErrUnexpectedResponse)
		})
	}
}

func TestClient_FetchMonitors_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(srv.URL).FetchMonitors(ctx, "key")
	require.Error(t, err)
	assert.ErrorIs(t, err, errtypes.ErrTransportFailure)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestUpstreamError_Error(t *testing.T) {
	assert.Equal(t, "uptime robot transport failure: http status 502",
		newTransportFailure(502, nil).Error())
	assert.Equal(t, "uptime robot rejected the request: invalid key",
		newUpstreamRejected("invalid key").Error())
	assert.Equal(t, "UnexpectedResponse", UnexpectedResponse.String())
}
