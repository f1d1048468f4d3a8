// Copyright (C) 2026 Ashlen
//
// This file is part of relaypick – https://github.com/anthesis/relaypick
//
// SPDX-License-Identifier: ISC

package main

import (
	"os"

	"github.com/anthesis/relaypick/cmd/relaypick/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
