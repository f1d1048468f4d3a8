// Copyright (C) 2026 Ashlen
//
// This file is part of relaypick – https://github.com/anthesis/relaypick
//
// SPDX-License-Identifier: ISC

// Package version provides version information for relaypick.
package version

// Version is the current version of relaypick.
const Version = "0.2.0"
