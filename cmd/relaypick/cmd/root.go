// Copyright (C) 2026 Ashlen
//
// This file is part of relaypick – https://github.com/anthesis/relaypick
//
// SPDX-License-Identifier: ISC

// Package cmd implements CLI commands for relaypick.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/anthesis/relaypick/pkg/config"
	"github.com/anthesis/relaypick/pkg/logging"
	"github.com/anthesis/relaypick/pkg/version"
)

var (
	// Global flags
	configPath string
	logLevel   string
	logFormat  string

	// Selection flags
	activeOnly   bool
	ownedOnly    bool
	locationExpr string
	providerExpr string
	sampleCount  int
	cidrs        []string
	countryCode  string
	geoipPath    string

	logger *slog.Logger
)

// rootCmd is the base command; invoked bare it runs the pick pipeline.
var rootCmd = &cobra.Command{
	Use:   "relaypick [filename]",
	Short: "Weighted random selection of WireGuard relays",
	Long: `relaypick reads a WireGuard relay document (the JSON served at
https://api.mullvad.net/public/relays/wireguard/v2), filters the relays by
user-provided criteria, and performs weighted random sampling without
replacement to print a bounded number of relay hostnames, one per line.

The document is read from the given filename, or from standard input when
the filename is absent or "-".`,
	Version:       version.Version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		hostnames, err := runPick(documentArg(args))
		if err != nil {
			return err
		}
		for _, hostname := range hostnames {
			fmt.Fprintln(cmd.OutOrStdout(), hostname)
		}
		return nil
	},
}

// Execute runs the root command. Errors have already been logged to the
// error stream when this returns.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		if logger == nil {
			fmt.Fprintln(os.Stderr, err)
		} else {
			logger.Error("command failed", "error", err)
		}
	}
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "path to optional YAML config file")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "", "log format: text, json")
	pf.BoolVarP(&activeOnly, "active", "a", false, "only select active relays")
	pf.BoolVarP(&ownedOnly, "owned", "o", false, "only select relays owned by the VPN operator")
	pf.StringVarP(&locationExpr, "location", "l", "", "only include locations matching this pattern (anchored at start)")
	pf.StringVarP(&providerExpr, "provider", "p", "", "only include providers matching this pattern (anchored at start)")
	pf.IntVarP(&sampleCount, "number", "n", config.DefaultSampleCount, "number of relays to return")
	pf.StringArrayVar(&cidrs, "cidr", nil, "only include relays inside this IPv4 block (repeatable)")
	pf.StringVar(&countryCode, "country", "", "only include relays geolocated to this ISO country code")
	pf.StringVar(&geoipPath, "geoip", "", "path to a GeoIP2 country database (required by --country)")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(serveCmd)

	rootCmd.SetVersionTemplate(fmt.Sprintf("relaypick version %s\n", version.Version))
}

// setup loads the optional config file, folds flag overrides into it, and
// installs the logger. Runs before every command.
func setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	applyFlagOverrides(cmd, cfg)
	effective = cfg

	l, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return err
	}
	logger = l
	slog.SetDefault(logger)
	return nil
}

// effective is the merged configuration for the current invocation.
var effective *config.Config

// applyFlagOverrides copies explicitly set flags over config file values.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("active") {
		cfg.Pick.ActiveOnly = activeOnly
	}
	if flags.Changed("owned") {
		cfg.Pick.OwnedOnly = ownedOnly
	}
	if flags.Changed("location") {
		cfg.Pick.Location = locationExpr
	}
	if flags.Changed("provider") {
		cfg.Pick.Provider = providerExpr
	}
	if flags.Changed("number") {
		cfg.Pick.Count = sampleCount
	}
	if flags.Changed("cidr") {
		cfg.Pick.CIDRs = cidrs
	}
	if flags.Changed("country") {
		cfg.Pick.Country = countryCode
	}
	if flags.Changed("geoip") {
		cfg.GeoIP.Database = geoipPath
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = logFormat
	}
}

// documentArg extracts the relay document path from positional args.
func documentArg(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}
