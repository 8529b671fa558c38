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

package main

import (
	"context"
	"errors"
	"fmt"

	substrate "github.com/blinklabs-io/gosubstrate"
	"github.com/blinklabs-io/gosubstrate/blocks"
	"github.com/blinklabs-io/gosubstrate/chain"
	"github.com/blinklabs-io/gosubstrate/metadata"
	"github.com/blinklabs-io/gosubstrate/rpc"
	"github.com/blinklabs-io/gosubstrate/ss58"
	"github.com/blinklabs-io/gosubstrate/storage"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

func fetchBlock(ctx context.Context, client *substrate.Client, args []string) (*blocks.Block, error) {
	if len(args) == 0 {
		return client.Blocks().AtLatest(ctx)
	}
	hash, err := parseHash(args[0])
	if err != nil {
		return nil, err
	}
	return client.Blocks().At(ctx, hash)
}

func printHeader(hash string, header *chain.Header) {
	fmt.Printf("block %d (%s)\n", header.Number, hash)
	fmt.Printf("  parent:          %s\n", header.ParentHash.Hex())
	fmt.Printf("  state root:      %s\n", header.StateRoot.Hex())
	fmt.Printf("  extrinsics root: %s\n", header.ExtrinsicsRoot.Hex())
	for _, item := range header.Digest.Logs {
		fmt.Printf("  digest: %s %q (%d bytes)\n", item.Kind, string(item.Engine[:]), len(item.Data))
	}
}

func headerCommand(f *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "header [hash]",
		Short: "Show a block header, the best block's by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := f.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()
			block, err := fetchBlock(cmd.Context(), client, args)
			if err != nil {
				return err
			}
			printHeader(block.Hash().Hex(), block.Header())
			return nil
		},
	}
}

func blockCommand(f *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "block [hash]",
		Short: "List the extrinsics of a block and the events they emitted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := f.connect(ctx)
			if err != nil {
				return err
			}
			defer client.Close()
			block, err := fetchBlock(ctx, client, args)
			if err != nil {
				return err
			}
			body, err := block.Body(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("block %d (%s): %d extrinsics\n", block.Number(), block.Hash().Hex(), body.Len())
			for ext := range body.Extrinsics() {
				extEvents, err := ext.Events(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("  #%d %s (%d bytes)\n", ext.Index(), ext.Hash().Hex(), len(ext.Bytes()))
				for ev, err := range extEvents.All() {
					if err != nil {
						fmt.Printf("    error: %s\n", err)
						continue
					}
					fmt.Printf("    %s.%s\n", ev.PalletName(), ev.VariantName())
				}
			}
			return nil
		},
	}
}

func storageCommand(f *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "storage <pallet> <entry> [hex-key...]",
		Short: "Fetch a storage value at the best block. Keys are SCALE encoded",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := make([]storage.Key, 0, len(args)-2)
			for _, arg := range args[2:] {
				key, err := hexutil.Decode(arg)
				if err != nil {
					return fmt.Errorf("invalid key %q: %w", arg, err)
				}
				keys = append(keys, storage.KeyBytes(key))
			}
			client, err := f.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()
			addr := storage.NewAddress(args[0], args[1], keys...)
			return printStorage(cmd.Context(), client, addr)
		},
	}
}

func accountCommand(f *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "account <ss58-address>",
		Short: "Show the System.Account entry of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, prefix, err := ss58.DecodeAccountID(args[0])
			if err != nil {
				return err
			}
			client, err := f.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()
			if prefix != client.Network().SS58Prefix {
				fmt.Printf("warning: address prefix %d is not the %s prefix\n", prefix, client.Network())
			}
			fmt.Printf("account %s\n", hexutil.Encode(id[:]))
			addr := storage.NewAddress("System", "Account", storage.KeyAccountID(id))
			return printStorage(cmd.Context(), client, addr)
		},
	}
}

func printStorage(ctx context.Context, client *substrate.Client, addr storage.Address) error {
	value, err := storage.FetchOrDefault[any](ctx, client.Storage(), addr, nil)
	if errors.Is(err, storage.ErrNoDefault) {
		fmt.Println("no value")
		return nil
	}
	if err != nil {
		return err
	}
	printValue("", value)
	return nil
}

func printValue(indent string, value any) {
	switch v := value.(type) {
	case metadata.Composite:
		fmt.Println()
		for i, field := range v {
			name := field.Name
			if name == "" {
				name = fmt.Sprintf("%d", i)
			}
			fmt.Printf("%s  %s:", indent, name)
			printValue(indent+"  ", field.Value)
		}
	case metadata.VariantValue:
		fmt.Printf(" %s", v.Name)
		printValue(indent, v.Fields)
	case []byte:
		fmt.Printf(" %s\n", hexutil.Encode(v))
	default:
		fmt.Printf(" %v\n", v)
	}
}

func followCommand(f *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "follow",
		Short: "Follow the chain head and print new blocks until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := f.connect(ctx)
			if err != nil {
				return err
			}
			defer client.Close()
			sub, err := client.Blocks().Follow(ctx, false)
			if err != nil {
				return err
			}
			for {
				ev, err := sub.Next(ctx)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return sub.Unfollow(context.Background())
					}
					return err
				}
				switch ev.Event {
				case rpc.FollowEventNewBlock:
					header, err := ev.Block.Header(ctx)
					if err != nil {
						return err
					}
					printHeader(ev.Block.Hash().Hex(), header)
					if err := ev.Block.Unpin(ctx); err != nil {
						return err
					}
				case rpc.FollowEventBestBlockChanged:
					fmt.Printf("best block: %s\n", ev.BestBlockHash.Hex())
				case rpc.FollowEventFinalized:
					for _, hash := range ev.FinalizedBlockHashes {
						fmt.Printf("finalized: %s\n", hash.Hex())
					}
				case rpc.FollowEventStop:
					fmt.Println("the node stopped the subscription")
					return nil
				}
			}
		},
	}
}
