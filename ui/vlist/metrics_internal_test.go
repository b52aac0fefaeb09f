package vlist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	ms := time.Millisecond
	tests := []struct {
		name               string
		durs               []time.Duration
		mean, median, mode float64
	}{
		{"empty", nil, 0, 0, 0},
		{"single", []time.Duration{2 * ms}, 2, 2, 2},
		{"repeated", []time.Duration{1 * ms, 1 * ms, 4 * ms}, 2, 1, 1},
		{"bucketed mode", []time.Duration{1400 * time.Microsecond, 1200 * time.Microsecond, 5 * ms}, 2.5333333333333337, 1.4, 1},
		{"all distinct", []time.Duration{1 * ms, 3 * ms}, 2, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, median, mode := summarize(tt.durs)
			assert.InDelta(t, tt.mean, mean, 1e-9)
			assert.InDelta(t, tt.median, median, 1e-9)
			assert.InDelta(t, tt.mode, mode, 1e-9)
		})
	}
}

func TestResetStats(t *testing.T) {
	s := passStats{events: 3, skips: 2, chunks: []time.Duration{time.Millisecond}}
	resetStats(&s, passStats{})
	assert.Zero(t, s.events)
	assert.Zero(t, s.skips)
	assert.Empty(t, s.chunks)
}
