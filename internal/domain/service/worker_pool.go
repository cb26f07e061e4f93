package service

import "context"

// WorkerPool runs CPU-bound work such as hashing with bounded parallelism.
type WorkerPool interface {
	// Do runs fn once a slot is free. It returns the context error without running fn
	// if ctx ends first.
	Do(ctx context.Context, fn func() error) error
}
