package shading

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/df07/go-translucent/pkg/core"
	"github.com/df07/go-translucent/pkg/material"
)

const (
	workerIdleTimeout = time.Second
	tasksPerWorker    = 4 // Queue depth per worker
)

// Visitor inspects the scattering functions attached at grid cell (x, y). It runs while
// the worker's arena is live; si.BSDF and si.BSSRDF must not be retained after it returns.
type Visitor func(x, y int, si *material.SurfaceInteraction) error

// ShadingTask represents a tile shading task for the worker pool
type ShadingTask struct {
	Ctx     context.Context // Tasks that start after cancellation report Ctx.Err()
	Tile    *Tile
	TaskID  int             // For deterministic ordering
	Config  *PoolConfig     // How the points of this tile are evaluated
	Samples [][]PointSample // Shared sample grid to write to
	Results chan<- ShadingResult
}

// ShadingResult contains the result from shading a tile
type ShadingResult struct {
	TaskID int
	Stats  ShadingStats
	Error  error
}

// PoolConfig describes how the points of one shading run are evaluated
type PoolConfig struct {
	Material           material.Material
	Surface            *QuadSurface
	GridSize           int
	Mode               material.TransportMode
	AllowMultipleLobes bool
	Visitor            Visitor // Optional
}

// WorkerPool manages parallel tile shading. Tasks run on a dynamic goroutine pool; each
// task checks out one Worker, so an arena is only ever used by one goroutine at a time.
// The pool is meant to live as long as its owner and serve many shading runs.
type WorkerPool struct {
	pool       worker.DynamicWorkerPool
	idle       chan *Worker
	numWorkers int
}

// Worker holds the per-goroutine shading state
type Worker struct {
	ID    int
	arena *material.Arena
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		idle:       make(chan *Worker, numWorkers),
		numWorkers: numWorkers,
	}
	for i := 0; i < numWorkers; i++ {
		wp.idle <- &Worker{ID: i, arena: material.NewArena()}
	}
	return wp
}

// Start begins accepting tasks
func (wp *WorkerPool) Start() {
	wp.pool = worker.NewDynamicWorkerPool(wp.numWorkers, wp.numWorkers*tasksPerWorker, workerIdleTimeout)
	wp.pool.Start()
}

// Stop shuts down the goroutine pool. Callers must have collected the results of every
// submitted task first.
func (wp *WorkerPool) Stop() {
	if wp.pool != nil {
		wp.pool.Stop()
		wp.pool = nil
	}
}

// SubmitTask queues a tile task. Exactly one result is sent to task.Results, after the
// worker that produced it is idle again.
func (wp *WorkerPool) SubmitTask(task ShadingTask) {
	if task.Ctx == nil {
		task.Ctx = context.Background()
	}
	wp.pool.SubmitTask(worker.Task{
		ID:      task.TaskID,
		Payload: task,
		Do: func() (any, error) {
			if err := task.Ctx.Err(); err != nil {
				task.Results <- ShadingResult{TaskID: task.TaskID, Error: err}
				return nil, err
			}

			w := <-wp.idle
			stats, err := w.shadeTile(task)
			wp.idle <- w

			task.Results <- ShadingResult{
				TaskID: task.TaskID,
				Stats:  stats,
				Error:  err,
			}
			return stats, err
		},
	})
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// shadeTile evaluates every cell of the task's tile. Tiles have non-overlapping bounds,
// so writing to the shared sample grid is thread-safe.
func (w *Worker) shadeTile(task ShadingTask) (ShadingStats, error) {
	var stats ShadingStats
	sampler := core.NewRandomSampler(task.Tile.Random)
	bounds := task.Tile.Bounds
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if err := task.Ctx.Err(); err != nil {
			return stats, err
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			sample, inUse, err := w.shadePoint(task.Config, x, y, sampler)
			if err != nil {
				return stats, fmt.Errorf("point (%d, %d): %w", x, y, err)
			}
			task.Samples[y][x] = sample
			stats.AddSample(sample)
			stats.MaxArenaInUse = max(stats.MaxArenaInUse, inUse)
		}
	}
	return stats, nil
}

// shadePoint builds the scattering functions for one cell, summarizes them and hands the
// interaction to the visitor. The arena is reset before returning.
func (w *Worker) shadePoint(config *PoolConfig, x, y int, sampler core.Sampler) (PointSample, int, error) {
	si := config.Surface.Interaction(x, y, config.GridSize)
	si.Material = config.Material

	defer func() {
		si.ClearScatteringFunctions()
		w.arena.Reset()
	}()

	config.Material.ComputeScatteringFunctions(&si, w.arena, config.Mode, config.AllowMultipleLobes)
	sample := NewPointSample(&si, sampler)
	inUse := w.arena.Allocated()

	if config.Visitor != nil {
		if err := config.Visitor(x, y, &si); err != nil {
			return sample, inUse, err
		}
	}
	return sample, inUse, nil
}
