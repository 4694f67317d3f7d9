package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sync"

	"grid-planner/uniformgrid"
)

// Planner owns the grid and everything that mutates it. The grid is not
// safe for concurrent use, so every operation holds mu.
type Planner struct {
	mu       sync.Mutex
	grid     *uniformgrid.UniformGrid
	registry *ObstacleRegistry
	cache    *PathCache
	epsilon  float64
}

// Status summarizes the planner for the health endpoint
type Status struct {
	Dimensions uniformgrid.Dimensions `json:"dimensions"`
	SideLength float64                `json:"sideLength"`
	FreeCells  int                    `json:"freeCells"`
	TotalCells int                    `json:"totalCells"`
	Obstacles  int                    `json:"obstacles"`
	Generation uint64                 `json:"generation"`
	Cache      CacheStats             `json:"cache"`
}

// NewPlanner builds an empty, fully free grid covering the configured box
func NewPlanner(cfg Config, logger *log.Logger) (*Planner, error) {
	grid, err := uniformgrid.NewUniformGridFromBounds(cfg.Grid.Min, cfg.Grid.Max, cfg.Grid.SideLength, cfg.gridConfig(logger))
	if err != nil {
		return nil, fmt.Errorf("create grid: %w", err)
	}
	return &Planner{
		grid:     grid,
		registry: NewObstacleRegistry(grid),
		cache:    NewPathCache(cfg.Cache.Size),
		epsilon:  cfg.simplifyEpsilon(),
	}, nil
}

// Route plans between two world positions. Raw routes are cached per cell
// pair and grid generation; smoothing runs on every request because it
// depends on the literal endpoints.
func (p *Planner) Route(start, finish uniformgrid.Vector3, smooth bool) ([]uniformgrid.Vector3, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	from, err := p.grid.GetCellIndex(start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	to, err := p.grid.GetCellIndex(finish)
	if err != nil {
		return nil, fmt.Errorf("finish: %w", err)
	}
	key := PathCacheKey{From: from, To: to, Generation: p.grid.Generation()}

	var path []uniformgrid.Vector3
	if interior, ok := p.cache.Get(key); ok {
		path = make([]uniformgrid.Vector3, 0, len(interior)+2)
		path = append(path, start)
		path = append(path, interior...)
		path = append(path, finish)
	} else {
		path, err = p.grid.FindShortestPathAStar(start, finish, uniformgrid.WithoutSmoothing())
		if err != nil {
			return nil, err
		}
		p.cache.Put(key, path[1:len(path)-1])
	}

	if smooth {
		return p.grid.RoughShortestPathSmoothing(path), nil
	}
	return path, nil
}

// RegisterObstacle places a box obstacle
func (p *Planner) RegisterObstacle(o Obstacle) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.registry.Register(o)
}

// UnregisterObstacle removes an obstacle by id
func (p *Planner) UnregisterObstacle(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.registry.Unregister(id)
}

// ReplaceSource swaps the obstacles loaded from one file
func (p *Planner) ReplaceSource(source string, obstacles []Obstacle) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.registry.Replace(source, obstacles)
}

// ReloadFile re-reads an obstacle file. A file that no longer exists drops
// its obstacles.
func (p *Planner) ReloadFile(path string) (int, error) {
	obstacles, err := LoadObstaclesFromFile(path, p.epsilon)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, p.ReplaceSource(path, nil)
	}
	if err != nil {
		return 0, err
	}
	return len(obstacles), p.ReplaceSource(path, obstacles)
}

// LoadDir registers every obstacle file in dir
func (p *Planner) LoadDir(dir string) error {
	loaded, err := LoadObstaclesFromDir(dir, p.epsilon)
	if err != nil {
		return err
	}
	var errs []error
	for source, obstacles := range loaded {
		if err := p.ReplaceSource(source, obstacles); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", source, err))
		}
	}
	return errors.Join(errs...)
}

// MarkRange marks a box of cells directly, outside any obstacle. The
// registry does not track these marks: unregistering an obstacle frees all
// of its cells, including ones also marked here.
func (p *Planner) MarkRange(lo, hi uniformgrid.Vector3, free bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.grid.MarkRangeAs(lo, hi, free)
}

// Reset forgets all obstacles and cached routes and marks every cell free
// or occupied
func (p *Planner) Reset(free bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.registry.Clear()
	p.cache.Clear()
	if free {
		p.grid.MarkAllCellsAsFree()
	} else {
		p.grid.MarkAllCellsAsOccupied()
	}
}

// CacheSummary describes the route cache for logs
func (p *Planner) CacheSummary() string {
	return p.cache.String()
}

// Status reports grid and cache counters
func (p *Planner) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	dims := p.grid.GetDimensions()
	return Status{
		Dimensions: dims,
		SideLength: p.grid.SideLength(),
		FreeCells:  p.grid.FreeCellCount(),
		TotalCells: dims.Count(),
		Obstacles:  p.registry.Len(),
		Generation: p.grid.Generation(),
		Cache:      p.cache.Stats(),
	}
}

// isDir reports whether dir exists and is a directory
func isDir(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
