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

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	bannerouter "github.com/Bigouden/uptime-robot-exporter/internal/banner"
	"github.com/Bigouden/uptime-robot-exporter/internal/collector"
	"github.com/Bigouden/uptime-robot-exporter/internal/config"
	"github.com/Bigouden/uptime-robot-exporter/internal/metrics"
	clrserver "github.com/Bigouden/uptime-robot-exporter/internal/server"
	exportererr "github.com/Bigouden/uptime-robot-exporter/internal/types/err"
	runnertypes "github.com/Bigouden/uptime-robot-exporter/internal/types/runner"
	"github.com/Bigouden/uptime-robot-exporter/internal/upstream"
)

var (
	cfgPath string
	envFile string
)

type Runner[I runnertypes.Info] interface {
	Start(ctx context.Context) error
	Info() I
	Close() error
}

func ServerCommand() *cobra.Command {

	cmd := &cobra.Command{
		Use:     "server",
		Aliases: []string{"serve", "srv", "s"},
		Short:   "Serve Uptime Robot monitors as Prometheus metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return server(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file path")
	cmd.Flags().StringVar(&envFile, "env-file", "", "dotenv file loaded before reading the environment")
	return cmd
}

func server(ctx context.Context, logOut io.Writer) error {

	loader := config.New(cfgPath, envFile, logOut)
	settings, err := loader.Load()
	if err != nil {
		return err
	}

	exporterServer := clrserver.New(settings, logOut)
	exporterCfg := settings.Config.Exporter

	exporterServer.Logger.Info(fmt.Sprintf("Starting Uptime Robot Exporter on port %d.", exporterCfg.Port))
	exporterServer.Logger.Sugar().Debugf("UPTIME_ROBOT_EXPORTER_PORT: %d.", exporterCfg.Port)
	exporterServer.Logger.Sugar().Debugf("UPTIME_ROBOT_EXPORTER_NAME: %s.", exporterCfg.Name)
	loader.PrintConfig(exporterServer.Logger, settings)

	banner := bannerouter.New(&bannerouter.Config{
		Server: *exporterServer,
	})
	if err := banner.PrintBanner(logOut, exporterCfg.Name, settings.Address()); err != nil {
		return err
	}

	return startRunners(ctx, exporterServer)
}

// newSampleSource wires the upstream client, optionally coalesced, to the
// metric collector.
func newSampleSource(srv *clrserver.Server) *collector.MetricCollector {

	upstreamCfg := srv.Settings.Config.UptimeRobot

	var fetcher upstream.Fetcher = upstream.NewClient(upstreamCfg.URL, upstreamCfg.Timeout, srv.Logger)
	if srv.Settings.Config.Exporter.Coalesce {
		fetcher = upstream.NewCoalescingFetcher(fetcher)
	}

	return collector.New(&collector.Config{
		Fetcher:      fetcher,
		APIKey:       upstreamCfg.APIKey,
		ExporterName: srv.Settings.Config.Exporter.Name,
		Definitions:  srv.Settings.Definitions,
		Logger:       srv.Logger,
	})
}

func startRunners(ctx context.Context, srv *clrserver.Server) error {

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// a failed scrape ends the process when exitOnError is set
	scrapeErrCh := make(chan error, 1)
	var onScrapeError func(error)
	if srv.Settings.Config.Exporter.ShouldExitOnError() {
		onScrapeError = func(err error) {
			select {
			case scrapeErrCh <- err:
			default:
			}
		}
	}

	metricsRunner := metrics.New(&metrics.Config{
		Server:        *srv,
		Source:        newSampleSource(srv),
		OnScrapeError: onScrapeError,
	})

	runners := []struct {
		runner Runner[runnertypes.Info]
	}{
		{metricsRunner},
	}

	errCh := make(chan error, len(runners))

	var wg sync.WaitGroup

	for _, r := range runners {
		wg.Add(1)
		go func(runner Runner[runnertypes.Info]) {
			defer wg.Done()
			srv.Logger.Info("Starting runner", "runner component", runner.Info().Name)
			if err := runner.Start(ctx); err != nil {
				srv.Logger.Error(err, "runner stopped", "runner", runner.Info().Name)
				select {
				case errCh <- err:
				default:
				}
			}
		}(r.runner)
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	// runners close themselves once ctx is done
	cleanup := func() {
		signal.Stop(signalCh)
		cancel()
		wg.Wait()
	}

	select {
	case <-ctx.Done():
		srv.Logger.Info("Context cancelled")
		cleanup()
		return ctx.Err()
	case sig := <-signalCh:
		srv.Logger.Info("Received signal", "signal", sig.String())
		cleanup()
		return nil
	case err := <-scrapeErrCh:
		cleanup()
		srv.Logger.Error(exportererr.ErrExporterStopped, "scrape failed, exiting", "error", err)
		return fmt.Errorf("%w: %w", exportererr.ErrScrapeFailed, err)
	case err := <-errCh:
		cleanup()
		srv.Logger.Error(exportererr.ErrExporterStopped, "runner error", "error", err)
		return err
	}
}
