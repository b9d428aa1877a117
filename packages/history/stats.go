package history

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	// Latencies are tracked in microseconds, 1us to 60s
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
)

// Stats summarizes recorded transactions. Latency figures only cover
// transactions that completed without error.
type Stats struct {
	Total    int64
	Errors   int64
	TimedOut int64
	Bytes    int64
	Min      time.Duration
	Max      time.Duration
	Mean     time.Duration
	P50      time.Duration
	P95      time.Duration
	P99      time.Duration
}

// ErrorRate is the share of failed transactions, 0 when nothing was recorded
func (s *Stats) ErrorRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Errors) / float64(s.Total)
}

// ComputeStats builds a latency histogram over entries
func ComputeStats(entries []*Entry) *Stats {
	stats := &Stats{}
	histogram := hdrhistogram.New(minLatencyUs, maxLatencyUs, 3)

	for _, e := range entries {
		stats.Total++
		stats.Bytes += int64(e.Bytes)
		if e.TimedOut {
			stats.TimedOut++
		}
		if e.Failed() {
			stats.Errors++
			continue
		}

		latencyUs := e.Duration.Microseconds()
		if latencyUs < minLatencyUs {
			latencyUs = minLatencyUs
		}
		if latencyUs > maxLatencyUs {
			latencyUs = maxLatencyUs
		}
		_ = histogram.RecordValue(latencyUs)
	}

	if histogram.TotalCount() == 0 {
		return stats
	}

	us := func(v int64) time.Duration {
		return time.Duration(v) * time.Microsecond
	}
	stats.Min = us(histogram.Min())
	stats.Max = us(histogram.Max())
	stats.Mean = time.Duration(histogram.Mean() * float64(time.Microsecond))
	stats.P50 = us(histogram.ValueAtQuantile(50))
	stats.P95 = us(histogram.ValueAtQuantile(95))
	stats.P99 = us(histogram.ValueAtQuantile(99))

	return stats
}
