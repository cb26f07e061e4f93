// Package workerpool bounds how many CPU-heavy credential operations run at once,
// so hashing bursts cannot starve request handling.
package workerpool

import (
	"context"
	"runtime"

	"accounts/config"

	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

// Pool runs functions with at most size of them in flight.
type Pool struct {
	sem  *semaphore.Weighted
	size int
}

// New creates a pool with the given number of slots. A non-positive size uses GOMAXPROCS.
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}

	return &Pool{
		sem:  semaphore.NewWeighted(int64(size)),
		size: size,
	}
}

// NewFromConfig sizes the pool from auth.workers.
func NewFromConfig(cfg *config.Config) *Pool {
	if cfg.Auth == nil {
		return New(0)
	}

	return New(cfg.Auth.Workers)
}

// Size returns the number of slots.
func (p *Pool) Size() int {
	return p.size
}

// Do waits for a free slot and runs fn on the calling goroutine.
// It returns ctx.Err() if the context ends before a slot frees up; fn does not run then.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return errors.Wrap(err, "wait for worker slot")
	}
	defer p.sem.Release(1)

	return fn()
}
