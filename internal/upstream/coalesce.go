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

	"golang.org/x/sync/singleflight"

	"github.com/Bigouden/uptime-robot-exporter/internal/types/monitor"
)

// CoalescingFetcher shares one in-flight call among concurrent callers.
// Nothing is kept once the call returns, the next caller fetches again.
type CoalescingFetcher struct {
	next  Fetcher
	group singleflight.Group
}

func NewCoalescingFetcher(next Fetcher) *CoalescingFetcher {

	return &CoalescingFetcher{next: next}
}

// FetchMonitors joins the running call for apiKey or starts one. The shared
// call is detached from the caller's cancellation, each caller still stops
// waiting when its own context is done.
func (f *CoalescingFetcher) FetchMonitors(ctx context.Context, apiKey string) ([]monitor.Monitor, error) {

	ch := f.group.DoChan(apiKey, func() (interface{}, error) {
		return f.next.FetchMonitors(context.WithoutCancel(ctx), apiKey)
	})

	select {
	case <-ctx.Done():
		return nil, newTransportFailure(0, context.Cause(ctx))
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		monitors, _ := res.Val.([]monitor.Monitor)
		return monitors, nil
	}
}
