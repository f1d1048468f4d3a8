// Copyright (C) 2026 Ashlen
//
// This file is part of relaypick – https://github.com/anthesis/relaypick
//
// SPDX-License-Identifier: ISC

package filter

import (
	"testing"

	"github.com/anthesis/relaypick/pkg/relay"
)

// testRelays mirrors the three-relay document used across the project's
// end-to-end tests.
func testRelays() []relay.Relay {
	return []relay.Relay{
		{
			Hostname:   "se-sto-wg-014",
			Location:   "se-sto",
			Provider:   "31173",
			Active:     false,
			Owned:      true,
			Weight:     100,
			IPv4AddrIn: "185.195.233.68",
		},
		{
			Hostname:   "it-rom-wg-001",
			Location:   "it-rom",
			Provider:   "c1vhosting",
			Active:     false,
			Owned:      false,
			Weight:     100,
			IPv4AddrIn: "152.89.170.112",
		},
		{
			Hostname:   "za-jnb-wg-002",
			Location:   "za-jnb",
			Provider:   "DataPacket",
			Active:     true,
			Owned:      false,
			Weight:     100,
			IPv4AddrIn: "154.47.30.143",
		},
	}
}

func mustPattern(t *testing.T, expr string) *Pattern {
	t.Helper()
	p, err := CompilePattern(expr)
	if err != nil {
		t.Fatalf("failed to compile %q: %v", expr, err)
	}
	return p
}

func TestApply_NoCriteria(t *testing.T) {
	relays := testRelays()
	filtered := Apply(Criteria{}, relays)

	if len(filtered) != len(relays) {
		t.Fatalf("expected all %d relays, got %d", len(relays), len(filtered))
	}
	for i := range relays {
		if filtered[i].Hostname != relays[i].Hostname {
			t.Errorf("order changed at %d: expected %q, got %q", i, relays[i].Hostname, filtered[i].Hostname)
		}
	}
}

func TestApply_ActiveOnly(t *testing.T) {
	filtered := Apply(Criteria{ActiveOnly: true}, testRelays())

	if len(filtered) != 1 {
		t.Fatalf("expected 1 relay, got %d", len(filtered))
	}
	if !filtered[0].Active {
		t.Error("expected active relay")
	}
	if filtered[0].Hostname != "za-jnb-wg-002" {
		t.Errorf("expected za-jnb-wg-002, got %q", filtered[0].Hostname)
	}
}

func TestApply_OwnedOnly(t *testing.T) {
	filtered := Apply(Criteria{OwnedOnly: true}, testRelays())

	if len(filtered) != 1 {
		t.Fatalf("expected 1 relay, got %d", len(filtered))
	}
	if filtered[0].Hostname != "se-sto-wg-014" {
		t.Errorf("expected se-sto-wg-014, got %q", filtered[0].Hostname)
	}
}

func TestApply_LocationPatterns(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{
			name:    "exact anchored",
			pattern: "^it-rom$",
			want:    []string{"it-rom-wg-001"},
		},
		{
			name:    "alternation",
			pattern: "^(it-rom|za-jnb)$",
			want:    []string{"it-rom-wg-001", "za-jnb-wg-002"},
		},
		{
			name:    "prefix match",
			pattern: "it",
			want:    []string{"it-rom-wg-001"},
		},
		{
			name:    "prefix does not match mid-string",
			pattern: "rom",
			want:    []string{},
		},
		{
			name:    "no matches",
			pattern: "^us-",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			criteria := Criteria{Location: mustPattern(t, tt.pattern)}
			filtered := Apply(criteria, testRelays())

			if len(filtered) != len(tt.want) {
				t.Fatalf("expected %d relays, got %d", len(tt.want), len(filtered))
			}
			for i, hostname := range tt.want {
				if filtered[i].Hostname != hostname {
					t.Errorf("position %d: expected %q, got %q", i, hostname, filtered[i].Hostname)
				}
			}
		})
	}
}

func TestApply_ProviderPattern(t *testing.T) {
	criteria := Criteria{Provider: mustPattern(t, "^DataPacket$")}
	filtered := Apply(criteria, testRelays())

	if len(filtered) != 1 {
		t.Fatalf("expected 1 relay, got %d", len(filtered))
	}
	if filtered[0].Provider != "DataPacket" {
		t.Errorf("expected DataPacket, got %q", filtered[0].Provider)
	}
}

func TestApply_CombinedCriteria(t *testing.T) {
	criteria := Criteria{
		Location: mustPattern(t, "^za-jnb$"),
		Provider: mustPattern(t, "^DataPacket$"),
	}
	filtered := Apply(criteria, testRelays())

	if len(filtered) != 1 {
		t.Fatalf("expected exactly 1 relay, got %d", len(filtered))
	}
	if filtered[0].Hostname != "za-jnb-wg-002" {
		t.Errorf("expected za-jnb-wg-002, got %q", filtered[0].Hostname)
	}
}

func TestApply_ConflictingCriteria(t *testing.T) {
	criteria := Criteria{
		Location: mustPattern(t, "^se-sto$"),
		Provider: mustPattern(t, "^DataPacket$"),
	}
	if filtered := Apply(criteria, testRelays()); len(filtered) != 0 {
		t.Errorf("expected no relays, got %d", len(filtered))
	}
}

func TestApply_Networks(t *testing.T) {
	t.Run("contained address", func(t *testing.T) {
		ranger, err := NewRanger([]string{"154.47.0.0/16"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		filtered := Apply(Criteria{Networks: ranger}, testRelays())
		if len(filtered) != 1 {
			t.Fatalf("expected 1 relay, got %d", len(filtered))
		}
		if filtered[0].Hostname != "za-jnb-wg-002" {
			t.Errorf("expected za-jnb-wg-002, got %q", filtered[0].Hostname)
		}
	})

	t.Run("multiple blocks", func(t *testing.T) {
		ranger, err := NewRanger([]string{"154.47.0.0/16", "185.195.233.0/24"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		filtered := Apply(Criteria{Networks: ranger}, testRelays())
		if len(filtered) != 2 {
			t.Errorf("expected 2 relays, got %d", len(filtered))
		}
	})

	t.Run("unparseable address never matches", func(t *testing.T) {
		ranger, err := NewRanger([]string{"0.0.0.0/0"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		relays := []relay.Relay{{Hostname: "bad", IPv4AddrIn: "not-an-ip"}}
		if filtered := Apply(Criteria{Networks: ranger}, relays); len(filtered) != 0 {
			t.Errorf("expected 0 relays, got %d", len(filtered))
		}
	})
}

func TestNewRanger(t *testing.T) {
	t.Run("empty input yields nil ranger", func(t *testing.T) {
		ranger, err := NewRanger(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ranger != nil {
			t.Error("expected nil ranger for no CIDRs")
		}
	})

	t.Run("invalid CIDR", func(t *testing.T) {
		if _, err := NewRanger([]string{"10.0.0.0/33"}); err == nil {
			t.Error("expected error for invalid CIDR")
		}
	})
}

func TestCompilePattern(t *testing.T) {
	t.Run("invalid expression", func(t *testing.T) {
		if _, err := CompilePattern("("); err == nil {
			t.Error("expected error for unbalanced paren")
		}
	})

	t.Run("prefix anchoring", func(t *testing.T) {
		tests := []struct {
			pattern string
			subject string
			want    bool
		}{
			{"^it-rom$", "it-rom", true},
			{"^it-rom$", "it-rom-2", false},
			{"it", "it-rom", true},
			{"rom", "it-rom", false},
			{"^(se|it)", "se-sto", true},
			{"^(se|it)", "za-jnb", false},
		}
		for _, tt := range tests {
			p := mustPattern(t, tt.pattern)
			if got := p.Match(tt.subject); got != tt.want {
				t.Errorf("pattern %q against %q: expected %v, got %v", tt.pattern, tt.subject, tt.want, got)
			}
		}
	})
}
