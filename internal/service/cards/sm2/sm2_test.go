package sm2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReview(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		name     string
		ease     float64
		interval int
		quality  int
		want     Result
	}{
		{
			name: "failure resets interval and drops ease",
			ease: 2.5, interval: 12, quality: 1,
			want: Result{Interval: 1, EaseFactor: 2.3},
		},
		{
			name: "failure never drops ease below floor",
			ease: 1.35, interval: 6, quality: 0,
			want: Result{Interval: 1, EaseFactor: 1.3},
		},
		{
			name: "first success schedules one day",
			ease: 2.5, interval: 0, quality: 4,
			want: Result{Interval: 1, EaseFactor: 2.5},
		},
		{
			name: "second success jumps to six days",
			ease: 2.5, interval: 1, quality: 5,
			want: Result{Interval: 6, EaseFactor: 2.5},
		},
		{
			name: "mature card grows by ease factor",
			ease: 2.0, interval: 6, quality: 4,
			want: Result{Interval: 12, EaseFactor: 2.0},
		},
		{
			name: "interval rounds up",
			ease: 2.5, interval: 6, quality: 5,
			want: Result{Interval: 15, EaseFactor: 2.5},
		},
		{
			name: "hard success shrinks ease",
			ease: 2.5, interval: 6, quality: 3,
			want: Result{Interval: 15, EaseFactor: 2.36},
		},
		{
			name: "ease is capped at the maximum",
			ease: 2.5, interval: 1, quality: 5,
			want: Result{Interval: 6, EaseFactor: 2.5},
		},
		{
			name: "quality 3 at the floor stays at the floor",
			ease: 1.3, interval: 6, quality: 3,
			want: Result{Interval: 8, EaseFactor: 1.3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Review(p, tt.ease, tt.interval, tt.quality)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Interval, got.Interval)
			assert.InDelta(t, tt.want.EaseFactor, got.EaseFactor, 1e-9)
		})
	}
}

func TestReview_InvalidQuality(t *testing.T) {
	p := DefaultParams()
	for _, q := range []int{-1, 6, 42} {
		_, err := Review(p, 2.5, 0, q)
		assert.Error(t, err, "quality %d", q)
	}
}

func TestReview_EaseStaysBounded(t *testing.T) {
	p := DefaultParams()
	ease := 2.5
	interval := 0

	// A long run of reviews at every quality keeps ease inside [1.3, 2.5].
	for i := 0; i < 200; i++ {
		q := i % (MaxQuality + 1)
		res, err := Review(p, ease, interval, q)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.EaseFactor, p.MinEase)
		assert.LessOrEqual(t, res.EaseFactor, p.MaxEase)
		ease = res.EaseFactor
		interval = res.Interval
	}
}
