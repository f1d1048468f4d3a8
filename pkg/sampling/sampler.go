// Copyright (C) 2026 Ashlen
//
// This file is part of relaypick – https://github.com/anthesis/relaypick
//
// SPDX-License-Identifier: ISC

// Package sampling implements weighted random sampling without replacement
// using the A-ES algorithm of Efraimidis and Spirakis.
package sampling

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// Validation errors returned before any random draw is made.
var (
	// ErrEmptyPopulation is returned when the population is empty.
	ErrEmptyPopulation = errors.New("population must not be empty")

	// ErrEmptyWeights is returned when the weights slice is empty.
	ErrEmptyWeights = errors.New("weights must not be empty")

	// ErrNonPositiveCount is returned when the requested sample size is
	// zero or negative.
	ErrNonPositiveCount = errors.New("sample count must be a positive integer greater than zero")

	// ErrLengthMismatch is returned when population and weights differ
	// in length.
	ErrLengthMismatch = errors.New("population and weights must be equal length")

	// ErrNonPositiveWeight is returned when any weight is zero or negative.
	ErrNonPositiveWeight = errors.New("weights must be positive integers greater than zero")
)

// Sampler performs weighted sampling without replacement.
// The zero value is not usable; use New.
type Sampler struct {
	mu   sync.Mutex
	rand *rand.Rand
}

// New creates a Sampler drawing from the given source.
// A nil source means a time-seeded one, which is what production callers
// want; tests inject a fixed seed to make outcomes reproducible.
func New(src rand.Source) *Sampler {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Sampler{rand: rand.New(src)}
}

// WeightedWithoutReplacement draws up to k distinct items from population,
// with selection probability proportional to the corresponding weight.
//
// Each item i is assigned the key u_i^(1/w_i) for an independent uniform
// u_i in (0, 1); the k largest keys form the sample (A-ES). A larger
// weight pushes the key toward 1, so heavier items are more likely to
// survive. The relative order of the returned items is unspecified.
//
// All preconditions are checked before any draw: a validation failure
// never produces a partial result. If k >= len(population) the entire
// population is returned.
func (s *Sampler) WeightedWithoutReplacement(population []string, weights []int, k int) ([]string, error) {
	if err := validate(population, weights, k); err != nil {
		return nil, err
	}

	if k >= len(population) {
		out := make([]string, len(population))
		copy(out, population)
		return out, nil
	}

	keys := make([]float64, len(population))
	s.mu.Lock()
	for i, w := range weights {
		keys[i] = math.Pow(s.rand.Float64(), 1/float64(w))
	}
	s.mu.Unlock()

	order := make([]int, len(population))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return keys[order[a]] < keys[order[b]]
	})

	sample := make([]string, 0, k)
	for _, i := range order[len(order)-k:] {
		sample = append(sample, population[i])
	}
	return sample, nil
}

// validate checks the sampling preconditions. Static parameter types
// already guarantee the population is a string slice and the weights are
// integers, so only the value-range checks remain.
func validate(population []string, weights []int, k int) error {
	if len(population) == 0 {
		return ErrEmptyPopulation
	}
	if len(weights) == 0 {
		return ErrEmptyWeights
	}
	if k <= 0 {
		return fmt.Errorf("%w (got: %d)", ErrNonPositiveCount, k)
	}
	if len(population) != len(weights) {
		return fmt.Errorf("%w (population: %d, weights: %d)", ErrLengthMismatch, len(population), len(weights))
	}
	for i, w := range weights {
		if w <= 0 {
			return fmt.Errorf("%w (index %d: %d)", ErrNonPositiveWeight, i, w)
		}
	}
	return nil
}
