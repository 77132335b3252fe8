package script

import (
	"errors"
	"fmt"
	"sync"
)

// ErrPromiseUnsettled is returned when a script's promise is still pending after
// every queued job has run. Nothing can settle it afterwards.
var ErrPromiseUnsettled = errors.New("script: promise never settled")

//go:generate mockgen -source=evaluator.go -destination=../internal/mocks/script/mock_evaluator.go -package=mock_script Evaluator

// Evaluator loads the module at an absolute path.
type Evaluator interface {
	// Evaluate returns the module's exported value or producer. Read and
	// evaluation errors are returned as-is.
	Evaluate(path string) (Module, error)
}

// EvaluatorFunc is a function adapter for Evaluator interface.
type EvaluatorFunc func(path string) (Module, error)

func (f EvaluatorFunc) Evaluate(path string) (Module, error) {
	return f(path)
}

// Module is an evaluated script export.
type Module struct {
	// Value is the export itself when it is not callable.
	Value any

	// Call produces the value when the export is callable. It runs on every
	// load, and may return a *Pending.
	Call func() (any, error)
}

// Pending is an asynchronous result returned by a producer.
type Pending struct {
	once  sync.Once
	await func() (any, error)
	value any
	err   error
}

// NewPending wraps await, which blocks until the result is available.
// Await calls it at most once.
func NewPending(await func() (any, error)) *Pending {
	return &Pending{await: await}
}

// Async runs fn on a new goroutine and returns its pending result. A panic in
// fn becomes the result's error.
func Async(fn func() (any, error)) *Pending {
	var (
		value any
		err   error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if p := recover(); p != nil {
				value, err = nil, fmt.Errorf("script: panic in asynchronous producer: %v", p)
			}
		}()
		value, err = fn()
	}()

	return NewPending(func() (any, error) {
		<-done
		return value, err
	})
}

// Await blocks until the result is available and returns it.
func (p *Pending) Await() (any, error) {
	p.once.Do(func() {
		p.value, p.err = p.await()
	})
	return p.value, p.err
}

// RejectionError is returned when a script's promise is rejected.
type RejectionError struct {
	Path   string // Script that produced the promise
	Reason string // String form of the rejection value
}

// Error implements the error interface.
func (e *RejectionError) Error() string {
	return fmt.Sprintf("promise returned by %s was rejected: %s", e.Path, e.Reason)
}
