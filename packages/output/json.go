package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/httpc/packages/history"
)

// JSONOutput represents the complete JSON output of "httpc history --json"
type JSONOutput struct {
	Transactions []JSONTransaction `json:"transactions"`
	Stats        *JSONStats        `json:"stats,omitempty"`
	Time         string            `json:"time"`
}

// JSONTransaction represents a single recorded transaction
type JSONTransaction struct {
	ID         string  `json:"id"`
	Time       string  `json:"time"`
	Method     string  `json:"method"`
	URL        string  `json:"url"`
	Command    string  `json:"command"`
	StatusCode int     `json:"statusCode,omitempty"`
	Bytes      int     `json:"bytes"`
	Duration   float64 `json:"duration"`
	TimedOut   bool    `json:"timedOut,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// JSONStats represents the latency summary, durations in milliseconds
type JSONStats struct {
	Total     int64   `json:"total"`
	Errors    int64   `json:"errors"`
	TimedOut  int64   `json:"timedOut"`
	Bytes     int64   `json:"bytes"`
	ErrorRate float64 `json:"errorRate"`
	Min       float64 `json:"min"`
	Mean      float64 `json:"mean"`
	Max       float64 `json:"max"`
	P50       float64 `json:"p50"`
	P95       float64 `json:"p95"`
	P99       float64 `json:"p99"`
}

// JSONFormatter accumulates history entries and writes them on Flush
type JSONFormatter struct {
	writer       io.Writer
	transactions []JSONTransaction
	stats        *JSONStats
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:       os.Stdout,
		transactions: make([]JSONTransaction, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatHistory(entries []*history.Entry) {
	for _, e := range entries {
		f.transactions = append(f.transactions, JSONTransaction{
			ID:         e.ID,
			Time:       e.Time.Format(time.RFC3339),
			Method:     e.Method,
			URL:        e.URL,
			Command:    e.Command,
			StatusCode: e.StatusCode,
			Bytes:      e.Bytes,
			Duration:   ms(e.Duration),
			TimedOut:   e.TimedOut,
			Error:      e.Error,
		})
	}
}

func (f *JSONFormatter) FormatStats(stats *history.Stats) {
	f.stats = &JSONStats{
		Total:     stats.Total,
		Errors:    stats.Errors,
		TimedOut:  stats.TimedOut,
		Bytes:     stats.Bytes,
		ErrorRate: stats.ErrorRate(),
		Min:       ms(stats.Min),
		Mean:      ms(stats.Mean),
		Max:       ms(stats.Max),
		P50:       ms(stats.P50),
		P95:       ms(stats.P95),
		P99:       ms(stats.P99),
	}
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush() error {
	output := JSONOutput{
		Transactions: f.transactions,
		Stats:        f.stats,
		Time:         time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
