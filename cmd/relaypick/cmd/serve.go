// Copyright (C) 2026 Ashlen
//
// This file is part of relaypick – https://github.com/anthesis/relaypick
//
// SPDX-License-Identifier: ISC

package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/anthesis/relaypick/pkg/api"
	"github.com/anthesis/relaypick/pkg/sampling"
)

var serveAddress string

// serveCmd loads the relay document once and serves weighted samples
// over HTTP until interrupted. Filtering criteria arrive per request as
// query parameters, not as startup flags.
var serveCmd = &cobra.Command{
	Use:   "serve [filename]",
	Short: "Serve weighted relay samples over HTTP",
	Long: `serve loads the relay document once and answers GET /v1/sample
requests with freshly drawn samples. Query parameters mirror the CLI
flags: n, active, owned, location, provider. Prometheus metrics are
exposed at /metrics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		relays, err := loadFiltered(documentArg(args))
		if err != nil {
			return err
		}

		address := effective.Serve.Address
		if serveAddress != "" {
			address = serveAddress
		}

		server := api.NewServer(api.ServerConfig{
			Address: address,
			Relays:  relays,
			Sampler: sampling.New(nil),
			Logger:  logger,
		})

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "listen address (default from config, 127.0.0.1:8080)")
}
