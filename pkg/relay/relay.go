// Copyright (C) 2026 Ashlen
//
// This file is part of relaypick – https://github.com/anthesis/relaypick
//
// SPDX-License-Identifier: ISC

// Package relay defines the WireGuard relay document model and loads it
// from the JSON feed shape served at
// https://api.mullvad.net/public/relays/wireguard/v2.
package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrMissingRelays is returned when the document lacks the
// wireguard.relays key.
var ErrMissingRelays = errors.New("document has no wireguard.relays array")

// Relay is a single WireGuard relay record. Fields beyond these are
// dropped on decode; nothing downstream interprets them and the only
// output of the pipeline is hostnames.
type Relay struct {
	Hostname         string `json:"hostname"`
	Location         string `json:"location"`
	Provider         string `json:"provider"`
	Active           bool   `json:"active"`
	Owned            bool   `json:"owned"`
	Weight           int    `json:"weight"`
	IPv4AddrIn       string `json:"ipv4_addr_in"`
	IPv6AddrIn       string `json:"ipv6_addr_in"`
	PublicKey        string `json:"public_key"`
	IncludeInCountry bool   `json:"include_in_country"`
}

// Document is the top-level relay list document.
type Document struct {
	WireGuard struct {
		Relays []Relay `json:"relays"`
	} `json:"wireguard"`
}

// Load reads a relay document from the given path. An empty path or "-"
// reads standard input.
func Load(path string) (*Document, error) {
	if path == "" || path == "-" {
		return Read(os.Stdin)
	}

	cleanPath := filepath.Clean(path)
	f, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open relay document: %w", err)
	}
	defer f.Close()

	doc, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cleanPath, err)
	}
	return doc, nil
}

// Read decodes a relay document from r.
func Read(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode relay document: %w", err)
	}
	if doc.WireGuard.Relays == nil {
		return nil, ErrMissingRelays
	}
	return &doc, nil
}

// Parse decodes a relay document from raw JSON bytes.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode relay document: %w", err)
	}
	if doc.WireGuard.Relays == nil {
		return nil, ErrMissingRelays
	}
	return &doc, nil
}

// Endpoints splits relays into a hostname population and the parallel
// weights slice consumed by the sampler, preserving input order.
func Endpoints(relays []Relay) (population []string, weights []int) {
	population = make([]string, 0, len(relays))
	weights = make([]int, 0, len(relays))
	for _, r := range relays {
		population = append(population, r.Hostname)
		weights = append(weights, r.Weight)
	}
	return population, weights
}
