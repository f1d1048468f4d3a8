// Copyright (C) 2026 Ashlen
//
// This file is part of relaypick – https://github.com/anthesis/relaypick
//
// SPDX-License-Identifier: ISC

package cmd

import (
	"fmt"

	"github.com/anthesis/relaypick/pkg/filter"
	"github.com/anthesis/relaypick/pkg/geo"
	"github.com/anthesis/relaypick/pkg/relay"
	"github.com/anthesis/relaypick/pkg/sampling"
)

// buildCriteria compiles the effective selection criteria. Pattern or
// CIDR compilation failures are reported here, before any record is
// examined.
func buildCriteria() (filter.Criteria, error) {
	criteria := filter.Criteria{
		ActiveOnly: effective.Pick.ActiveOnly,
		OwnedOnly:  effective.Pick.OwnedOnly,
	}

	if expr := effective.Pick.Location; expr != "" {
		p, err := filter.CompilePattern(expr)
		if err != nil {
			return criteria, fmt.Errorf("-l %w", err)
		}
		criteria.Location = p
	}
	if expr := effective.Pick.Provider; expr != "" {
		p, err := filter.CompilePattern(expr)
		if err != nil {
			return criteria, fmt.Errorf("-p %w", err)
		}
		criteria.Provider = p
	}

	ranger, err := filter.NewRanger(effective.Pick.CIDRs)
	if err != nil {
		return criteria, err
	}
	criteria.Networks = ranger

	return criteria, nil
}

// loadFiltered loads the relay document and applies every configured
// narrowing step.
func loadFiltered(path string) ([]relay.Relay, error) {
	criteria, err := buildCriteria()
	if err != nil {
		return nil, err
	}

	doc, err := relay.Load(path)
	if err != nil {
		return nil, err
	}

	relays := filter.Apply(criteria, doc.WireGuard.Relays)
	logger.Debug("relays filtered",
		"total", len(doc.WireGuard.Relays),
		"matched", len(relays),
	)

	if iso := effective.Pick.Country; iso != "" {
		if effective.GeoIP.Database == "" {
			return nil, fmt.Errorf("--country requires a GeoIP database (--geoip or geoip.database)")
		}
		db, err := geo.Open(effective.GeoIP.Database, logger)
		if err != nil {
			return nil, err
		}
		defer db.Close()

		relays, err = geo.FilterByCountry(db, iso, relays)
		if err != nil {
			return nil, err
		}
		logger.Debug("relays narrowed by country", "country", iso, "matched", len(relays))
	}

	return relays, nil
}

// runPick executes the full pipeline: load, filter, transform, sample.
func runPick(path string) ([]string, error) {
	relays, err := loadFiltered(path)
	if err != nil {
		return nil, err
	}

	population, weights := relay.Endpoints(relays)
	sampler := sampling.New(nil)

	return sampler.WeightedWithoutReplacement(population, weights, effective.Pick.Count)
}
