// Copyright (C) 2026 Ashlen
//
// This file is part of relaypick – https://github.com/anthesis/relaypick
//
// SPDX-License-Identifier: ISC

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anthesis/relaypick/pkg/resolve"
)

var nameserver string

// resolveCmd samples relays like the root command, then resolves each
// selected hostname and prints "hostname<TAB>address" lines.
var resolveCmd = &cobra.Command{
	Use:   "resolve [filename]",
	Short: "Sample relays and resolve the selected hostnames",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hostnames, err := runPick(documentArg(args))
		if err != nil {
			return err
		}

		resolver, err := resolve.New(nameserver, logger)
		if err != nil {
			return err
		}
		logger.Debug("resolver ready", "nameserver", resolver.Server())

		for _, hostname := range hostnames {
			ips, err := resolver.Lookup(cmd.Context(), hostname)
			if err != nil {
				return err
			}
			if len(ips) == 0 {
				logger.Warn("hostname has no address records", "hostname", hostname)
				continue
			}
			for _, ip := range ips {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", hostname, ip)
			}
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&nameserver, "nameserver", "", "nameserver to query (default: /etc/resolv.conf)")
}
