// Copyright (C) 2026 Ashlen
//
// This file is part of relaypick – https://github.com/anthesis/relaypick
//
// SPDX-License-Identifier: ISC

// Package geo narrows relays by country using a local GeoIP2 database.
// No network I/O is involved; lookups hit an mmdb file on disk.
package geo

import (
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"

	"github.com/anthesis/relaypick/pkg/relay"
)

// Locator resolves an IP address to an ISO country code.
type Locator interface {
	CountryCode(ip net.IP) (string, error)
}

// Database wraps a GeoIP2 country database.
type Database struct {
	reader *geoip2.Reader
	logger *slog.Logger
}

// Open loads the GeoIP2 database at path.
func Open(path string, logger *slog.Logger) (*Database, error) {
	if logger == nil {
		logger = slog.Default()
	}

	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open GeoIP database %q: %w", path, err)
	}

	logger.Debug("GeoIP database loaded",
		"path", path,
		"type", reader.Metadata().DatabaseType,
	)

	return &Database{reader: reader, logger: logger}, nil
}

// Close releases the underlying database.
func (d *Database) Close() error {
	return d.reader.Close()
}

// CountryCode returns the ISO country code for ip.
func (d *Database) CountryCode(ip net.IP) (string, error) {
	record, err := d.reader.Country(ip)
	if err != nil {
		return "", fmt.Errorf("GeoIP lookup failed for %s: %w", ip, err)
	}
	return record.Country.IsoCode, nil
}

// FilterByCountry keeps relays whose ipv4_addr_in geolocates to the given
// ISO country code (case-insensitive), preserving input order. A relay
// address that does not parse or look up is an input error.
func FilterByCountry(loc Locator, iso string, relays []relay.Relay) ([]relay.Relay, error) {
	want := strings.ToUpper(iso)
	filtered := make([]relay.Relay, 0, len(relays))

	for _, r := range relays {
		ip := net.ParseIP(r.IPv4AddrIn)
		if ip == nil {
			return nil, fmt.Errorf("relay %s has unparseable ipv4_addr_in %q", r.Hostname, r.IPv4AddrIn)
		}

		code, err := loc.CountryCode(ip)
		if err != nil {
			return nil, fmt.Errorf("relay %s: %w", r.Hostname, err)
		}
		if strings.ToUpper(code) == want {
			filtered = append(filtered, r)
		}
	}

	return filtered, nil
}
