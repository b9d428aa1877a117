// Package stress repeats a single HTTP/1.0 request and summarizes latency.
//
// Every repetition is an independent transaction with its own connection;
// the scheduler only controls how fast they start and how many overlap.
package stress

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/httpc/packages/history"
	"github.com/abdul-hamid-achik/httpc/packages/http"
	"github.com/google/uuid"
)

// Config controls a stress run
type Config struct {
	Requests    int     // total transactions
	Concurrency int     // transactions in flight at once
	Rate        float64 // starts per second, 0 for as fast as concurrency allows
}

func DefaultConfig() *Config {
	return &Config{
		Requests:    10,
		Concurrency: 1,
	}
}

func (c *Config) Validate() error {
	if c.Requests < 1 {
		return fmt.Errorf("requests must be at least 1, got %d", c.Requests)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.Rate < 0 {
		return fmt.Errorf("rate cannot be negative, got %v", c.Rate)
	}
	return nil
}

// Executor runs one transaction; *http.Client satisfies it
type Executor interface {
	Execute(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Result holds every transaction of a run and their statistics
type Result struct {
	Entries []*history.Entry
	Stats   *history.Stats
	Elapsed time.Duration
}

// Throughput returns completed transactions per second
func (r *Result) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(len(r.Entries)) / r.Elapsed.Seconds()
}

type Runner struct {
	config    *Config
	executor  Executor
	scheduler *Scheduler
}

func NewRunner(executor Executor, config *Config) (*Runner, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Runner{
		config:    config,
		executor:  executor,
		scheduler: NewScheduler(config),
	}, nil
}

// Run executes req config.Requests times. When ctx ends early the
// transactions finished so far are returned along with ctx's error.
func (r *Runner) Run(ctx context.Context, req *http.Request) (*Result, error) {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		entries = make([]*history.Entry, 0, r.config.Requests)
		runErr  error
	)

	start := time.Now()

	for i := 0; i < r.config.Requests; i++ {
		if err := r.scheduler.Wait(ctx); err != nil {
			runErr = err
			break
		}
		if err := r.scheduler.Acquire(ctx); err != nil {
			runErr = err
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer r.scheduler.Release()

			entry := r.execute(ctx, req)

			mu.Lock()
			entries = append(entries, entry)
			mu.Unlock()
		}()
	}

	wg.Wait()

	return &Result{
		Entries: entries,
		Stats:   history.ComputeStats(entries),
		Elapsed: time.Since(start),
	}, runErr
}

func (r *Runner) execute(ctx context.Context, req *http.Request) *history.Entry {
	started := time.Now()
	resp, err := r.executor.Execute(ctx, req)

	entry := &history.Entry{
		ID:       uuid.NewString(),
		Time:     started,
		Method:   string(req.Method),
		URL:      req.URL,
		Duration: time.Since(started),
	}
	if resp != nil {
		entry.ID = resp.ID
		entry.StatusCode = resp.StatusCode()
		entry.Bytes = resp.Size()
		entry.Duration = resp.Duration
		entry.TimedOut = resp.TimedOut
	}
	if err != nil {
		entry.Error = err.Error()
	}
	return entry
}
