// Copyright (C) 2026 Ashlen
//
// This file is part of relaypick – https://github.com/anthesis/relaypick
//
// SPDX-License-Identifier: ISC

// Package resolve looks up addresses for sampled relay hostnames.
package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/miekg/dns"
)

const defaultTimeout = 5 * time.Second

// Resolver queries a DNS server for relay hostname addresses.
type Resolver struct {
	client *dns.Client
	server string
	logger *slog.Logger
}

// New creates a Resolver. An empty server means the first nameserver from
// /etc/resolv.conf.
func New(server string, logger *slog.Logger) (*Resolver, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if server == "" {
		conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
		if err != nil {
			return nil, fmt.Errorf("failed to read resolver configuration: %w", err)
		}
		if len(conf.Servers) == 0 {
			return nil, fmt.Errorf("no nameservers configured")
		}
		server = net.JoinHostPort(conf.Servers[0], conf.Port)
	} else if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}

	return &Resolver{
		client: &dns.Client{Timeout: defaultTimeout},
		server: server,
		logger: logger,
	}, nil
}

// Server returns the nameserver address in use.
func (r *Resolver) Server() string {
	return r.server
}

// Lookup returns the A and AAAA addresses for hostname. A hostname with
// no records at all yields an empty slice, not an error; only transport
// failures are errors.
func (r *Resolver) Lookup(ctx context.Context, hostname string) ([]net.IP, error) {
	fqdn := dns.Fqdn(hostname)
	var ips []net.IP

	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		msg := new(dns.Msg)
		msg.SetQuestion(fqdn, qtype)
		msg.RecursionDesired = true

		resp, rtt, err := r.client.ExchangeContext(ctx, msg, r.server)
		if err != nil {
			return nil, fmt.Errorf("query %s %s: %w", hostname, dns.TypeToString[qtype], err)
		}

		r.logger.Debug("DNS query completed",
			"hostname", hostname,
			"type", dns.TypeToString[qtype],
			"rcode", dns.RcodeToString[resp.Rcode],
			"rtt", rtt,
		)

		for _, rr := range resp.Answer {
			switch record := rr.(type) {
			case *dns.A:
				ips = append(ips, record.A)
			case *dns.AAAA:
				ips = append(ips, record.AAAA)
			}
		}
	}

	return ips, nil
}
