// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

// Package batch fans a set of design-space points out across a worker
// pool, building one static instance per point via [variation/instance].
// No example repo in the retrieval pack ships a worker-pool abstraction;
// this is implemented directly against SPEC_FULL.md §4.10/§5 using stdlib
// channels and sync.WaitGroup (see DESIGN.md).
package batch

import (
	"context"
	"runtime"
	"sync"

	"github.com/boxesandglue/fvarinstance/variation"
	"github.com/boxesandglue/fvarinstance/variation/instance"
)

// Options configures an Engine. A zero Options is usable: Workers <= 0
// falls back to max(4, runtime.NumCPU()).
type Options struct {
	Workers int
}

// Result is one point's build outcome. Exactly one of (Bundle, Err) is
// meaningful depending on Success.
type Result struct {
	Point   variation.DesignPoint
	Bundle  instance.Bundle
	Report  instance.Report
	Success bool
	Err     error
}

// Engine runs a Builder over many points concurrently.
type Engine struct {
	Builder *instance.Builder
	Options Options
}

// New constructs an Engine bound to builder.
func New(builder *instance.Builder, opts Options) *Engine {
	return &Engine{Builder: builder, Options: opts}
}

// Run builds every point in points, reporting progress via progress (may be
// nil). The returned slice has exactly len(points) entries, indexed by
// input position regardless of completion order (SPEC_FULL.md §4.10).
// ctx cancellation stops tasks that haven't started yet (they report
// KindCancelled); in-flight tasks always run to completion, and Run always
// joins every worker before returning.
func (e *Engine) Run(ctx context.Context, points []variation.DesignPoint, progress func(done, total int)) []Result {
	results := make([]Result, len(points))
	if len(points) == 0 {
		return results
	}

	workers := e.Options.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 4 {
			workers = 4
		}
	}
	if workers > len(points) {
		workers = len(points)
	}

	type task struct{ index int }
	tasks := make(chan task, len(points))
	for i := range points {
		tasks <- task{index: i}
	}
	close(tasks)

	var mu sync.Mutex
	done := 0
	report := func() {
		if progress == nil {
			return
		}
		mu.Lock()
		done++
		n := done
		mu.Unlock()
		progress(n, len(points))
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for t := range tasks {
				select {
				case <-ctx.Done():
					results[t.index] = Result{
						Point:   points[t.index],
						Success: false,
						Err:     &variation.Error{Kind: variation.KindCancelled, Detail: "build cancelled before it started"},
					}
					report()
					continue
				default:
				}
				results[t.index] = runOne(e.Builder, points[t.index])
				report()
			}
		}()
	}
	wg.Wait()

	return results
}

// runOne builds a single point, converting both panics and Builder errors
// into a failed Result rather than propagating them: a single point's
// failure never aborts its siblings (SPEC_FULL.md §4.10).
func runOne(b *instance.Builder, point variation.DesignPoint) (res Result) {
	res.Point = point
	defer func() {
		if r := recover(); r != nil {
			res.Success = false
			res.Err = &variation.Error{Kind: variation.KindTableRewriteError, Detail: "panic during build"}
		}
	}()

	bundle, report, err := b.Build(point)
	if err != nil {
		res.Success = false
		res.Err = err
		return res
	}
	res.Success = true
	res.Bundle = bundle
	res.Report = report
	return res
}
