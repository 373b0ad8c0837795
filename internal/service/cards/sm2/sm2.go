// Package sm2 implements the SuperMemo-2 spaced-repetition algorithm as a
// pure function over (ease factor, interval, quality). It holds no state;
// callers apply the result to their card records.
package sm2

import (
	"fmt"
	"math"
)

// Quality grades for a review response.
//
//	0-2: incorrect response
//	3:   correct with difficulty
//	4-5: correct
const (
	MinQuality = 0
	MaxQuality = 5
)

// Params bound the ease factor. Zero value is not usable; use DefaultParams.
type Params struct {
	MinEase float64
	MaxEase float64
}

// DefaultParams are the canonical SM-2 bounds.
func DefaultParams() Params {
	return Params{MinEase: 1.3, MaxEase: 2.5}
}

// Result is the scheduling outcome of a single review.
type Result struct {
	Interval   int     // days until the next review
	EaseFactor float64
}

// Review computes the next interval and ease factor for one graded review.
// An incorrect response (quality < 3) resets the interval to one day and
// penalizes the ease factor. Correct responses grow the interval on the
// 1, 6, ceil(interval*ease) ladder and nudge the ease factor by quality.
func Review(p Params, ease float64, interval, quality int) (Result, error) {
	if quality < MinQuality || quality > MaxQuality {
		return Result{}, fmt.Errorf("quality %d out of range [%d, %d]", quality, MinQuality, MaxQuality)
	}

	if quality < 3 {
		return Result{
			Interval:   1,
			EaseFactor: math.Max(p.MinEase, ease-0.2),
		}, nil
	}

	var next int
	switch interval {
	case 0:
		next = 1
	case 1:
		next = 6
	default:
		next = int(math.Ceil(float64(interval) * ease))
	}

	q := float64(5 - quality)
	newEase := ease + (0.1 - q*(0.08+q*0.02))
	newEase = math.Max(p.MinEase, math.Min(newEase, p.MaxEase))

	return Result{Interval: next, EaseFactor: newEase}, nil
}
