// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package blocks

import (
	"context"

	"github.com/blinklabs-io/gosubstrate/events"
)

// eventCache holds the events of one block once they have been fetched
type eventCache struct {
	// Buffered with a capacity of one, so acquiring can be abandoned with a
	// context
	lock   chan struct{}
	events *events.Events
}

func newEventCache() *eventCache {
	return &eventCache{
		lock: make(chan struct{}, 1),
	}
}

// get returns the cached events, calling fetch while holding the lock if
// there are none. A failed fetch leaves the cache empty
func (c *eventCache) get(ctx context.Context, fetch func(context.Context) (*events.Events, error)) (*events.Events, error) {
	select {
	case c.lock <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() {
		<-c.lock
	}()
	if c.events != nil {
		return c.events, nil
	}
	evs, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.events = evs
	return evs, nil
}
