package shading

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/df07/go-translucent/pkg/core"
	"github.com/df07/go-translucent/pkg/material"
)

var errShaderClosed = errors.New("shader is closed")

// Config contains the grid shading configuration
type Config struct {
	GridSize           int // Cells per side of the unit quad
	TileSize           int // Cells per side of a work tile
	NumWorkers         int // 0 = use runtime.NumCPU()
	Mode               material.TransportMode
	AllowMultipleLobes bool // Use a single FresnelSpecular lobe
}

// DefaultConfig returns a default shading configuration
func DefaultConfig() Config {
	return Config{
		GridSize:           16,
		TileSize:           4,
		NumWorkers:         0,
		Mode:               material.Radiance,
		AllowMultipleLobes: false,
	}
}

// GridResult holds the per-cell samples and the combined statistics of one run
type GridResult struct {
	Samples [][]PointSample // Indexed [y][x]
	Stats   ShadingStats
}

// Shader evaluates a material over a grid of points on a QuadSurface in parallel. Its
// worker pool is created once and reused by every ShadeGrid call until Close.
type Shader struct {
	config  Config
	surface *QuadSurface
	logger  core.Logger
	pool    *WorkerPool

	mu     sync.Mutex
	closed bool
}

// NewShader creates a grid shader and starts its workers
func NewShader(config Config, logger core.Logger) *Shader {
	if config.GridSize <= 0 {
		config.GridSize = DefaultConfig().GridSize
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	pool := NewWorkerPool(config.NumWorkers)
	pool.Start()
	return &Shader{config: config, surface: NewQuadSurface(), logger: logger, pool: pool}
}

// Close stops the worker pool. It must not be called while ShadeGrid is running.
func (s *Shader) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		s.pool.Stop()
	}
}

// ShadeGrid evaluates mat at the center of every grid cell. The visitor, if given, runs on
// each shading point while its scattering functions are live. ShadeGrid returns only after
// every tile it submitted has finished, also when a tile fails or ctx is canceled.
func (s *Shader) ShadeGrid(ctx context.Context, mat material.Material, visitor Visitor) (*GridResult, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, errShaderClosed
	}

	n := s.config.GridSize
	tiles := NewTileGrid(n, n, s.config.TileSize)

	samples := make([][]PointSample, n)
	for y := range samples {
		samples[y] = make([]PointSample, n)
	}

	config := &PoolConfig{
		Material:           mat,
		Surface:            s.surface,
		GridSize:           n,
		Mode:               s.config.Mode,
		AllowMultipleLobes: s.config.AllowMultipleLobes,
		Visitor:            visitor,
	}

	s.logger.Printf("Shading %dx%d points in %d tiles (using %d workers, %s transport)...\n",
		n, n, len(tiles), s.pool.GetNumWorkers(), s.config.Mode)

	// Remaining tiles are skipped once one has failed
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan ShadingResult, len(tiles)) // Buffer for all results
	for taskID, tile := range tiles {
		s.pool.SubmitTask(ShadingTask{
			Ctx:     runCtx,
			Tile:    tile,
			TaskID:  taskID,
			Config:  config,
			Samples: samples,
			Results: results,
		})
	}

	result := &GridResult{Samples: samples}
	var firstErr error
	for range tiles {
		tileResult := <-results
		if tileResult.Error != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("tile %d: %w", tileResult.TaskID, tileResult.Error)
				cancel()
			}
			continue
		}
		result.Stats.Merge(tileResult.Stats)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return result, nil
}
