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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Bigouden/uptime-robot-exporter/internal/constants"
	loggertypes "github.com/Bigouden/uptime-robot-exporter/internal/types/logger"
	"github.com/Bigouden/uptime-robot-exporter/internal/types/monitor"
	"github.com/Bigouden/uptime-robot-exporter/internal/util/logger"
)

// maxBodySize bounds how much of a getMonitors response is read.
const maxBodySize = 32 << 20

// Fetcher returns the monitors of the account owning apiKey.
type Fetcher interface {
	FetchMonitors(ctx context.Context, apiKey string) ([]monitor.Monitor, error)
}

// Client performs one getMonitors call per FetchMonitors, without retry.
type Client struct {
	url        string
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(endpoint string, timeout time.Duration, log logger.Logger) *Client {

	if endpoint == "" {
		endpoint = constants.DefaultUptimeRobotURL
	}
	if timeout <= 0 {
		timeout = constants.DefaultUptimeRobotTimeout
	}

	return &Client{
		url:        endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.WithName(string(loggertypes.LogComponentUpstream)),
	}
}

// FetchMonitors asks for JSON output with only the most recent response
// time, not averaged.
func (c *Client) FetchMonitors(ctx context.Context, apiKey string) ([]monitor.Monitor, error) {

	start := time.Now()

	req, err := c.createRequest(ctx, apiKey)
	if err != nil {
		return nil, newTransportFailure(0, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		upErr := newTransportFailure(0, err)
		c.logger.Error(upErr, "uptime robot request failed", "url", c.url)
		return nil, upErr
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		upErr := newTransportFailure(resp.StatusCode, nil)
		c.logger.Error(upErr, "invalid http status code", "status_code", resp.StatusCode)
		return nil, upErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		upErr := newTransportFailure(resp.StatusCode, fmt.Errorf("failed to read body: %w", err))
		c.logger.Error(upErr, "uptime robot response read failed")
		return nil, upErr
	}

	monitors, err := c.parseResponse(body)
	if err != nil {
		return nil, err
	}

	c.logger.Sugar().Debugw("uptime robot monitors fetched",
		"monitors", len(monitors), "duration", time.Since(start).String())
	return monitors, nil
}

func (c *Client) createRequest(ctx context.Context, apiKey string) (*http.Request, error) {

	form := url.Values{}
	form.Set("api_key", apiKey)
	form.Set("format", "json")
	form.Set("response_times", "1")
	form.Set("response_times_limit", "1")
	form.Set("response_times_average", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept", "application/json")

	return req, nil
}

func (c *Client) parseResponse(body []byte) ([]monitor.Monitor, error) {

	var data monitor.GetMonitorsResponse
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&data); err != nil {
		upErr := newUnexpectedResponse("body is not a getMonitors response", err)
		c.logger.Error(upErr, "uptime robot response decode failed")
		return nil, upErr
	}

	switch data.Stat {
	case constants.StatOK:
		if data.Monitors == nil {
			upErr := newUnexpectedResponse("monitors field is missing", nil)
			c.logger.Error(upErr, "uptime robot unknown error")
			return nil, upErr
		}
		return data.Monitors, nil
	case constants.StatFail:
		message := ""
		if data.Error != nil {
			message = data.Error.Message
		}
		upErr := newUpstreamRejected(message)
		c.logger.Error(upErr, "uptime robot error", "message", message)
		return nil, upErr
	default:
		upErr := newUnexpectedResponse(fmt.Sprintf("unknown stat %q", data.Stat), nil)
		c.logger.Error(upErr, "uptime robot unknown error", "stat", data.Stat)
		return nil, upErr
	}
}
