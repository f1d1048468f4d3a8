// Copyright (C) 2026 Ashlen
//
// This file is part of relaypick – https://github.com/anthesis/relaypick
//
// SPDX-License-Identifier: ISC

package filter

import (
	"fmt"
	"regexp"
)

// Pattern is a regular expression anchored at the start of the subject.
// A pattern "it" matches any string beginning with "it"; "^it-rom$"
// matches exactly "it-rom". Callers relying on prefix semantics must not
// be broken by a silent switch to full-string matching.
type Pattern struct {
	re *regexp.Regexp
}

// CompilePattern compiles expr into a prefix-anchored Pattern.
// A compilation failure is a configuration error; it is returned before
// any record is examined.
func CompilePattern(expr string) (*Pattern, error) {
	re, err := regexp.Compile("^(?:" + expr + ")")
	if err != nil {
		return nil, fmt.Errorf("regexp failed to compile: %w", err)
	}
	return &Pattern{re: re}, nil
}

// Match reports whether s matches the pattern at its start.
func (p *Pattern) Match(s string) bool {
	return p.re.MatchString(s)
}

// String returns the anchored expression.
func (p *Pattern) String() string {
	return p.re.String()
}
