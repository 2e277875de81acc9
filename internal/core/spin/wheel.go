// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package spin

import (
	"math/rand/v2"

	"github.com/othinieljo/sentinelle/internal/core/prize"
)

// # Weighted Draw

// Outcome is the result of one wheel draw.
type Outcome struct {
	// Prize is nil on a loss.
	Prize *prize.Prize
	IsWin bool
}

// Wheel performs weighted random draws over the drawable prize catalog.
//
// Each drawable prize occupies a slice of the wheel proportional to its
// weight. The loss outcome occupies lossWeight. A wheel whose catalog is
// empty always lands on loss.
type Wheel struct {
	lossWeight int
	intN       func(n int) int
}

// NewWheel constructs a wheel with the configured loss weight.
func NewWheel(lossWeight int) *Wheel {
	if lossWeight < 0 {
		lossWeight = 0
	}
	return &Wheel{
		lossWeight: lossWeight,
		intN:       rand.IntN,
	}
}

// NewWheelWithSource constructs a wheel with a deterministic random source.
// Tests use this to pin the draw.
func NewWheelWithSource(lossWeight int, intN func(n int) int) *Wheel {
	wheel := NewWheel(lossWeight)
	wheel.intN = intN
	return wheel
}

// Draw picks one outcome among the drawable prizes and the loss slice.
// Prizes that are inactive, out of stock or weightless never come up.
func (wheel *Wheel) Draw(catalog []*prize.Prize) Outcome {
	total := wheel.lossWeight
	for _, p := range catalog {
		if p.IsDrawable() {
			total += p.Weight
		}
	}

	if total <= 0 {
		return Outcome{IsWin: false}
	}

	ticket := wheel.intN(total)
	for _, p := range catalog {
		if !p.IsDrawable() {
			continue
		}
		if ticket < p.Weight {
			return Outcome{Prize: p, IsWin: true}
		}
		ticket -= p.Weight
	}

	return Outcome{IsWin: false}
}

// WinProbability returns the chance of winning anything on the next draw.
// Exposed so the admin dashboard can sanity-check the configuration.
func (wheel *Wheel) WinProbability(catalog []*prize.Prize) float64 {
	prizeWeight := 0
	for _, p := range catalog {
		if p.IsDrawable() {
			prizeWeight += p.Weight
		}
	}

	total := prizeWeight + wheel.lossWeight
	if total == 0 {
		return 0
	}
	return float64(prizeWeight) / float64(total)
}
