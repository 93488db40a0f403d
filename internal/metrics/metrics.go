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
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Bigouden/uptime-robot-exporter/internal/collector"
	"github.com/Bigouden/uptime-robot-exporter/internal/constants"
	clrserver "github.com/Bigouden/uptime-robot-exporter/internal/server"
	loggertypes "github.com/Bigouden/uptime-robot-exporter/internal/types/logger"
	"github.com/Bigouden/uptime-robot-exporter/internal/types/runner"
	"github.com/Bigouden/uptime-robot-exporter/internal/util/logger"
)

type Config struct {
	Server clrserver.Server
	Source collector.SampleSource
	// OnScrapeError is called after a failed scrape has been logged.
	OnScrapeError func(error)
}

// Runner implements the metrics server runner
type Runner struct {
	cfg           *clrserver.Server
	source        collector.SampleSource
	onScrapeError func(error)
	server        *http.Server
	logger        logger.Logger
}

// New creates a new metrics runner
func New(cfg *Config) *Runner {

	r := &Runner{
		cfg:           &cfg.Server,
		source:        cfg.Source,
		onScrapeError: cfg.OnScrapeError,
		logger:        cfg.Server.Logger.WithName(string(loggertypes.LogComponentMetricsServer)),
	}
	r.server = &http.Server{
		Addr:              r.cfg.Settings.Address(),
		Handler:           r.Handler(),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      r.cfg.Settings.Config.UptimeRobot.Timeout + 10*time.Second,
		IdleTimeout:       15 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}
	return r
}

// Handler serves /metrics plus the redirect and favicon routes. Every
// response disables caching.
func (r *Runner) Handler() http.Handler {

	mux := http.NewServeMux()
	mux.HandleFunc(constants.PathRoot+"{$}", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, constants.PathMetrics, http.StatusMovedPermanently)
	})
	mux.HandleFunc(constants.PathFavicon, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc(constants.PathMetrics, r.serveMetrics)

	return noCache(mux)
}

// serveMetrics renders one collection cycle from a registry private to the
// scrape, so nothing but the exporter's own metrics is exposed.
func (r *Runner) serveMetrics(w http.ResponseWriter, req *http.Request) {

	ctx, cancel := scrapeContext(req)
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collector.NewScrapeCollector(ctx, r.source, r.scrapeFailed))

	promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog:           promErrorLogger{r.logger},
		ErrorHandling:      promhttp.HTTPErrorOnError,
		DisableCompression: r.cfg.Settings.Config.Exporter.DisableCompression,
	}).ServeHTTP(w, req)
}

func (r *Runner) scrapeFailed(err error) {

	r.logger.Error(err, "scrape failed")
	if r.onScrapeError != nil {
		r.onScrapeError(err)
	}
}

// scrapeContext bounds the scrape by the timeout Prometheus announces, less
// a margin to write the response.
func scrapeContext(req *http.Request) (context.Context, context.CancelFunc) {

	v := req.Header.Get(constants.HeaderScrape)
	if v == "" {
		return context.WithCancel(req.Context())
	}
	seconds, err := strconv.ParseFloat(v, 64)
	if err != nil || seconds <= 0 {
		return context.WithCancel(req.Context())
	}
	timeout := time.Duration(seconds*float64(time.Second)) - constants.ScrapeTimeoutOffset
	if timeout <= 0 {
		timeout = time.Duration(seconds * float64(time.Second))
	}
	return context.WithTimeout(req.Context(), timeout)
}

func noCache(next http.Handler) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		h := w.Header()
		h.Set("Cache-Control", "no-cache, no-store, must-revalidate, max-age=0")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")
		h.Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, req)
	})
}

// promErrorLogger routes promhttp errors to the runner logger.
type promErrorLogger struct {
	logger logger.Logger
}

func (l promErrorLogger) Println(v ...interface{}) {
	l.logger.Sugar().Error(v...)
}

// Start starts the metrics server
func (r *Runner) Start(ctx context.Context) error {

	listener, err := net.Listen("tcp", r.server.Addr)
	if err != nil {
		r.logger.Error(err, "Metrics server failed to listen", "addr", r.server.Addr)
		return err
	}
	r.server.BaseContext = func(_ net.Listener) context.Context {
		return ctx
	}

	r.logger.Info("Starting metrics server", "addr", listener.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := r.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Error(err, "Metrics server failed")
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return r.Close()
	case err := <-errCh:
		return err
	}
}

// Info returns the runner info
func (r *Runner) Info() runner.Info {

	return runner.Info{
		Name: "metrics-server",
	}
}

// Close closes the metrics server
func (r *Runner) Close() error {

	r.logger.Info("Shutting down metrics server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.server.Shutdown(ctx)
}
