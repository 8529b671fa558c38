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

package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// RawSubscription is a stream of raw notification payloads
type RawSubscription interface {
	ID() string
	// Next blocks until a notification is available. It returns an error
	// matching ErrSubscriptionClosed once the stream has ended
	Next(ctx context.Context) (json.RawMessage, error)
	Unsubscribe(ctx context.Context) error
}

// Subscription is a server push subscription on a Client
type Subscription struct {
	client            *Client
	id                string
	unsubscribeMethod string
	limit             int
	mutex             sync.Mutex
	queue             []json.RawMessage
	closed            bool
	err               error
	// Signaled when the queue or closed state changes
	signalChan chan struct{}
}

func newSubscription(client *Client, id string, unsubscribeMethod string, limit int) *Subscription {
	return &Subscription{
		client:            client,
		id:                id,
		unsubscribeMethod: unsubscribeMethod,
		limit:             limit,
		signalChan:        make(chan struct{}, 1),
	}
}

func (s *Subscription) ID() string {
	return s.id
}

func (s *Subscription) Next(ctx context.Context) (json.RawMessage, error) {
	for {
		s.mutex.Lock()
		if len(s.queue) > 0 {
			ret := s.queue[0]
			s.queue[0] = nil
			s.queue = s.queue[1:]
			s.mutex.Unlock()
			return ret, nil
		}
		if s.closed {
			err := s.err
			s.mutex.Unlock()
			return nil, err
		}
		s.mutex.Unlock()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.signalChan:
		}
	}
}

// Unsubscribe ends the subscription locally and tells the node to stop
// sending notifications for it
func (s *Subscription) Unsubscribe(ctx context.Context) error {
	s.mutex.Lock()
	wasClosed := s.closed
	s.mutex.Unlock()
	s.closeLocal(ErrSubscriptionClosed)
	if wasClosed {
		return nil
	}
	// chainHead methods answer null, older unsubscribe methods a boolean
	var ok *bool
	if err := s.client.Call(ctx, s.unsubscribeMethod, []any{s.id}, &ok); err != nil {
		return err
	}
	if ok != nil && !*ok {
		return fmt.Errorf("%s: node did not know subscription %s", s.unsubscribeMethod, s.id)
	}
	return nil
}

// deliver queues a notification. It returns false, and closes the
// subscription, when the queue is full
func (s *Subscription) deliver(msg json.RawMessage) bool {
	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return true
	}
	if len(s.queue) >= s.limit {
		s.closed = true
		s.err = fmt.Errorf("%w: notification buffer overflow", ErrSubscriptionClosed)
		s.mutex.Unlock()
		s.signal()
		return false
	}
	s.queue = append(s.queue, msg)
	s.mutex.Unlock()
	s.signal()
	return true
}

// closeLocal ends the stream without contacting the node. Queued
// notifications can still be read
func (s *Subscription) closeLocal(err error) {
	s.mutex.Lock()
	if !s.closed {
		s.closed = true
		s.err = err
	}
	s.mutex.Unlock()
	s.client.forget(s.id)
	s.signal()
}

func (s *Subscription) signal() {
	select {
	case s.signalChan <- struct{}{}:
	default:
	}
}

// EventSubscription decodes each notification of a subscription as a T
type EventSubscription[T any] struct {
	raw RawSubscription
}

func NewEventSubscription[T any](raw RawSubscription) *EventSubscription[T] {
	return &EventSubscription[T]{raw: raw}
}

// SubscribeEvents calls Subscribe and wraps the result in an EventSubscription
func SubscribeEvents[T any](ctx context.Context, c *Client, method string, params []any, unsubscribeMethod string) (*EventSubscription[T], error) {
	sub, err := c.Subscribe(ctx, method, params, unsubscribeMethod)
	if err != nil {
		return nil, err
	}
	return NewEventSubscription[T](sub), nil
}

func (s *EventSubscription[T]) ID() string {
	return s.raw.ID()
}

// Next returns the next notification. It returns an error matching
// ErrSubscriptionClosed once the stream has ended
func (s *EventSubscription[T]) Next(ctx context.Context) (T, error) {
	var ret T
	msg, err := s.raw.Next(ctx)
	if err != nil {
		return ret, err
	}
	if err := json.Unmarshal(msg, &ret); err != nil {
		return ret, fmt.Errorf("subscription %s: decode notification: %w", s.raw.ID(), err)
	}
	return ret, nil
}

func (s *EventSubscription[T]) Unsubscribe(ctx context.Context) error {
	return s.raw.Unsubscribe(ctx)
}
