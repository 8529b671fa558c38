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
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	substrate "github.com/blinklabs-io/gosubstrate"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	endpoint     string
	network      string
	metadataFile string
	debug        bool
}

func main() {
	f := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "substrate-query",
		Short:         "Query blocks, events and storage of a Substrate node",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&f.endpoint, "endpoint", "", "websocket endpoint of the node. this overrides the --network endpoint")
	rootCmd.PersistentFlags().StringVar(&f.network, "network", "local", "network the node is participating in")
	rootCmd.PersistentFlags().StringVar(&f.metadataFile, "metadata", "", "path to a CBOR metadata snapshot")
	rootCmd.PersistentFlags().BoolVar(&f.debug, "debug", false, "enable debug logging")
	_ = rootCmd.MarkPersistentFlagRequired("metadata")

	rootCmd.AddCommand(
		headerCommand(f),
		blockCommand(f),
		storageCommand(f),
		accountCommand(f),
		followCommand(f),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
}

func (f *globalFlags) logger() *slog.Logger {
	level := slog.LevelInfo
	if f.debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// connect builds a client from the global flags and dials the node
func (f *globalFlags) connect(ctx context.Context) (*substrate.Client, error) {
	network := substrate.NetworkByName(f.network)
	if network == substrate.NetworkInvalid {
		return nil, fmt.Errorf("invalid network specified: %s", f.network)
	}
	logger := f.logger()
	client, err := substrate.NewClient(
		substrate.WithNetwork(network),
		substrate.WithEndpoint(f.endpoint),
		substrate.WithMetadataFile(f.metadataFile),
		substrate.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	if err := client.Dial(ctx); err != nil {
		return nil, err
	}
	go func() {
		for err := range client.ErrorChan() {
			logger.Error(fmt.Sprintf("connection error: %s", err))
		}
	}()
	return client, nil
}

func parseHash(arg string) (common.Hash, error) {
	data, err := hexutil.Decode(arg)
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid block hash %q: %w", arg, err)
	}
	if len(data) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid block hash %q: expected %d bytes", arg, common.HashLength)
	}
	return common.Hash(data), nil
}
