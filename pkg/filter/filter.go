// Copyright (C) 2026 Ashlen
//
// This file is part of relaypick – https://github.com/anthesis/relaypick
//
// SPDX-License-Identifier: ISC

// Package filter narrows a relay list by attribute predicates.
package filter

import (
	"fmt"
	"net"

	"github.com/yl2chen/cidranger"

	"github.com/anthesis/relaypick/pkg/relay"
)

// Criteria is a set of predicates combined with logical AND. The zero
// value matches every relay.
type Criteria struct {
	// ActiveOnly keeps only relays with active=true.
	ActiveOnly bool

	// OwnedOnly keeps only relays with owned=true.
	OwnedOnly bool

	// Location, when non-nil, keeps only relays whose location matches.
	Location *Pattern

	// Provider, when non-nil, keeps only relays whose provider matches.
	Provider *Pattern

	// Networks, when non-nil, keeps only relays whose ipv4_addr_in falls
	// inside one of the configured CIDR blocks.
	Networks cidranger.Ranger
}

// cidrEntry implements cidranger.RangerEntry.
type cidrEntry struct {
	network net.IPNet
}

func (e cidrEntry) Network() net.IPNet {
	return e.network
}

// NewRanger builds a CIDR ranger from the given blocks. An invalid CIDR
// is a configuration error.
func NewRanger(cidrs []string) (cidranger.Ranger, error) {
	if len(cidrs) == 0 {
		return nil, nil
	}

	ranger := cidranger.NewPCTrieRanger()
	for _, c := range cidrs {
		_, network, err := net.ParseCIDR(c)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR %q: %w", c, err)
		}
		if err := ranger.Insert(cidrEntry{network: *network}); err != nil {
			return nil, fmt.Errorf("failed to insert CIDR %q: %w", c, err)
		}
	}
	return ranger, nil
}

// Apply returns the relays matching every active predicate, preserving
// input order. It never mutates the input.
func Apply(criteria Criteria, relays []relay.Relay) []relay.Relay {
	filtered := make([]relay.Relay, 0, len(relays))

	for _, r := range relays {
		if criteria.ActiveOnly && !r.Active {
			continue
		}
		if criteria.OwnedOnly && !r.Owned {
			continue
		}
		if criteria.Location != nil && !criteria.Location.Match(r.Location) {
			continue
		}
		if criteria.Provider != nil && !criteria.Provider.Match(r.Provider) {
			continue
		}
		if criteria.Networks != nil && !containedIn(criteria.Networks, r.IPv4AddrIn) {
			continue
		}

		filtered = append(filtered, r)
	}

	return filtered
}

// containedIn reports whether addr falls inside the ranger. An address
// that does not parse cannot match any block.
func containedIn(ranger cidranger.Ranger, addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	ok, err := ranger.Contains(ip)
	return err == nil && ok
}
