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

	"github.com/blinklabs-io/gosubstrate/rpc"
	"github.com/ethereum/go-ethereum/common"
)

// FollowEvent is a chainHead follow notification. Block is set for the
// Initialized event, to the finalized block, and for NewBlock events
type FollowEvent struct {
	rpc.FollowEvent
	Block *ChainHeadBlock
}

// FollowSubscription is a chainHead follow subscription. Blocks it announces
// are pinned until unpinned or until the subscription ends
type FollowSubscription struct {
	client *Client
	sub    *rpc.EventSubscription[rpc.FollowEvent]
}

func (s *FollowSubscription) ID() string {
	return s.sub.ID()
}

// Next returns the next follow event. It returns an error matching
// rpc.ErrSubscriptionClosed once the subscription has ended
func (s *FollowSubscription) Next(ctx context.Context) (*FollowEvent, error) {
	ev, err := s.sub.Next(ctx)
	if err != nil {
		return nil, err
	}
	ret := &FollowEvent{FollowEvent: ev}
	switch ev.Event {
	case rpc.FollowEventInitialized:
		ret.Block = s.Block(ev.FinalizedBlockHash)
	case rpc.FollowEventNewBlock:
		ret.Block = s.Block(ev.BlockHash)
	}
	return ret, nil
}

// Block returns a handle for a block pinned by this subscription
func (s *FollowSubscription) Block(hash common.Hash) *ChainHeadBlock {
	return s.client.ChainHeadBlock(s.sub.ID(), hash)
}

// Unfollow ends the subscription. Every block it pinned is released
func (s *FollowSubscription) Unfollow(ctx context.Context) error {
	s.client.logger.Debug(
		"calling Unfollow()",
		"component", "blocks",
		"subscription_id", s.sub.ID(),
	)
	return s.sub.Unsubscribe(ctx)
}
