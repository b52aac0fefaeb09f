package vlist

import (
	"math"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/miosa/osa-vlist/ui/lifecycle"
)

// Metrics is a snapshot of a list's work. Times are in milliseconds.
type Metrics struct {
	ChunkSize        int            `json:"chunk_size"`
	Events           int            `json:"events"`
	Skips            int            `json:"skips"`
	ExtraChunk       int            `json:"extra_chunk"`
	Mode             lifecycle.Mode `json:"mode"`
	ChunksMeanTime   float64        `json:"chunks_mean_time"`
	ChunksMedianTime float64        `json:"chunks_median_time"`
	ChunksModeTime   float64        `json:"chunks_mode_time"`
	Chunks           int            `json:"chunks"`
	Reverse          bool           `json:"reverse"`
	ItemsRendered    int            `json:"items_rendered"`
	ItemsCreated     int            `json:"items_created"`
	ItemsRecycled    int            `json:"items_recycled"`
	ItemsCached      int            `json:"items_cached"`
}

// passStats accumulates per-gesture counters. It is reset when a scroll
// gesture starts.
type passStats struct {
	events int
	skips  int
	chunks []time.Duration
}

func resetStats(s *passStats, initial passStats) {
	*s = initial
}

// summarize returns mean, median and mode of the durations in milliseconds.
// The mode is taken over whole milliseconds; without a repeated value it is
// zero.
func summarize(durs []time.Duration) (mean, median, mode float64) {
	if len(durs) == 0 {
		return 0, 0, 0
	}
	ms := make(stats.Float64Data, len(durs))
	buckets := make(stats.Float64Data, len(durs))
	for i, d := range durs {
		ms[i] = float64(d) / float64(time.Millisecond)
		buckets[i] = math.Round(ms[i])
	}
	mean, _ = ms.Mean()
	median, _ = ms.Median()
	if modes, err := stats.Mode(buckets); err == nil && len(modes) > 0 {
		mode = modes[len(modes)-1]
	}
	return mean, median, mode
}
