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

package metrics

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bigouden/uptime-robot-exporter/internal/collector"
	"github.com/Bigouden/uptime-robot-exporter/internal/config"
	"github.com/Bigouden/uptime-robot-exporter/internal/constants"
	clrserver "github.com/Bigouden/uptime-robot-exporter/internal/server"
	loggertypes "github.com/Bigouden/uptime-robot-exporter/internal/types/logger"
	"github.com/Bigouden/uptime-robot-exporter/internal/types/metric"
	"github.com/Bigouden/uptime-robot-exporter/internal/upstream"
)

type sourceFunc func(ctx context.Context) ([]metric.Sample, error)

func (f sourceFunc) Collect(ctx context.Context) ([]metric.Sample, error) {
	return f(ctx)
}

func staticSource(samples ...metric.Sample) sourceFunc {
	return func(context.Context) ([]metric.Sample, error) {
		return samples, nil
	}
}

func testSettings() *config.Settings {
	cfg := config.DefaultConfig()
	cfg.Exporter.Host = "127.0.0.1"
	cfg.Exporter.Port = 0
	cfg.UptimeRobot.APIKey = "key"
	return &config.Settings{
		Config:      cfg,
		LogLevel:    loggertypes.LogLevelDebug,
		Location:    time.UTC,
		Definitions: collector.DefaultDefinitions(),
	}
}

func newTestRunner(source collector.SampleSource, onError func(error)) *Runner {
	srv := clrserver.New(testSettings(), io.Discard)
	return New(&Config{Server: *srv, Source: source, OnScrapeError: onError})
}

var statusSample = metric.Sample{
	Name:   "uptime_robot_status",
	Help:   "Uptime Robot Status",
	Type:   metric.ValueTypeGauge,
	Labels: map[string]string{"job": "uptime-robot-exporter", "id": "1", "friendly_name": "Site A"},
	Value:  2,
}

func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func assertNoCacheHeaders(t *testing.T, h http.Header) {
	t.Helper()
	assert.Equal(t, "no-cache, no-store, must-revalidate, max-age=0", h.Get("Cache-Control"))
	assert.Equal(t, "no-cache", h.Get("Pragma"))
	assert.Equal(t, "0", h.Get("Expires"))
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
}

func TestHandler_Routes(t *testing.T) {
	srv := httptest.NewServer(newTestRunner(staticSource(statusSample), nil).Handler())
	defer srv.Close()
	client := noRedirectClient()

	tests := []struct {
		path     string
		status   int
		location string
	}{
		{path: "/", status: http.StatusMovedPermanently, location: "/metrics"},
		{path: "/favicon.ico", status: http.StatusOK},
		{path: "/metrics", status: http.StatusOK},
		{path: "/other", status: http.StatusNotFound},
		{path: "/metrics/extra", status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := client.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			assertNoCacheHeaders(t, resp.Header)
			if tt.location != "" {
				assert.Equal(t, tt.location, resp.Header.Get("Location"))
			}
		})
	}
}

func TestHandler_FaviconIsEmpty(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRunner(staticSource(), nil).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestHandler_Metrics(t *testing.T) {
	rt := statusSample
	rt.Name = "uptime_robot_response_time"
	rt.Help = "Uptime Robot Response Time"
	rt.Value = 134

	rec := httptest.NewRecorder()
	newTestRunner(staticSource(statusSample, rt), nil).Handler().
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)

	// only the exporter's metrics, no runtime collectors
	require.Len(t, families, 2)
	status := families["uptime_robot_status"]
	require.NotNil(t, status)
	require.Len(t, status.Metric, 1)
	assert.Equal(t, float64(2), status.Metric[0].GetGauge().GetValue())

	labels := map[string]string{}
	for _, lp := range status.Metric[0].Label {
		labels[lp.GetName()] = lp.GetValue()
	}
	assert.Equal(t, statusSample.Labels, labels)

	assert.Equal(t, float64(134), families["uptime_robot_response_time"].Metric[0].GetGauge().GetValue())
}

func TestHandler_MetricsGzip(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Accept-Encoding", "gzip")

	rec := httptest.NewRecorder()
	newTestRunner(staticSource(statusSample), nil).Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}

func TestHandler_MetricsDisableCompression(t *testing.T) {
	settings := testSettings()
	settings.Config.Exporter.DisableCompression = true
	r := New(&Config{Server: *clrserver.New(settings, io.Discard), Source: staticSource(statusSample)})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
}

func TestHandler_ScrapeError(t *testing.T) {
	var reported atomic.Value
	source := sourceFunc(func(context.Context) ([]metric.Sample, error) {
		return nil, &upstream.UpstreamError{Kind: upstream.UpstreamRejected, Message: "invalid key"}
	})

	rec := httptest.NewRecorder()
	newTestRunner(source, func(err error) { reported.Store(err) }).Handler().
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid key")
	assertNoCacheHeaders(t, rec.Header())
	require.NotNil(t, reported.Load())
	assert.Contains(t, reported.Load().(error).Error(), "invalid key")
}

func TestHandler_ScrapeTimeoutHeader(t *testing.T) {
	var remaining time.Duration
	var hasDeadline bool
	source := sourceFunc(func(ctx context.Context) ([]metric.Sample, error) {
		var deadline time.Time
		deadline, hasDeadline = ctx.Deadline()
		remaining = time.Until(deadline)
		return nil, nil
	})
	handler := newTestRunner(source, nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set(constants.HeaderScrape, "10")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, hasDeadline)
	assert.LessOrEqual(t, remaining, 10*time.Second-constants.ScrapeTimeoutOffset)
	assert.Greater(t, remaining, 5*time.Second)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, hasDeadline)
}

func TestRunner_StartClose(t *testing.T) {
	r := newTestRunner(staticSource(), nil)
	assert.Equal(t, "metrics-server", r.Info().Name)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Start(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}

func TestRunner_StartListenError(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	settings := testSettings()
	settings.Config.Exporter.Port = busy.Addr().(*net.TCPAddr).Port
	r := New(&Config{Server: *clrserver.New(settings, io.Discard), Source: staticSource()})

	err = r.Start(context.Background())
	assert.Error(t, err)
}
