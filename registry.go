package main

import (
	"errors"
	"fmt"

	"grid-planner/uniformgrid"
)

var (
	ErrDuplicateObstacle = errors.New("obstacle already registered")
	ErrUnknownObstacle   = errors.New("obstacle not registered")
	ErrInvalidObstacle   = errors.New("invalid obstacle")
)

// ObstacleRegistry keeps the grid's occupancy in step with the set of
// obstacles placed in the scene. Obstacles may overlap: removing one only
// frees cells no other obstacle still covers.
type ObstacleRegistry struct {
	grid      *uniformgrid.UniformGrid
	index     *ObstacleIndex
	obstacles map[string]*Obstacle
	sources   map[string][]string // source name -> obstacle ids
}

// NewObstacleRegistry creates a registry that marks cells on grid
func NewObstacleRegistry(grid *uniformgrid.UniformGrid) *ObstacleRegistry {
	return &ObstacleRegistry{
		grid:      grid,
		index:     NewObstacleIndex(),
		obstacles: make(map[string]*Obstacle),
		sources:   make(map[string][]string),
	}
}

// Register places an obstacle and occupies its cells
func (r *ObstacleRegistry) Register(o Obstacle) error {
	if o.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidObstacle)
	}
	if _, exists := r.obstacles[o.ID]; exists {
		return fmt.Errorf("%s: %w", o.ID, ErrDuplicateObstacle)
	}
	o.normalize()

	stored := &o
	if err := r.index.Insert(stored); err != nil {
		return fmt.Errorf("%s: %w: %v", o.ID, ErrInvalidObstacle, err)
	}
	r.obstacles[o.ID] = stored

	if err := stored.apply(r.grid, false); err != nil {
		return fmt.Errorf("occupy %s: %w", o.ID, err)
	}
	return nil
}

// Unregister removes an obstacle, frees its cells and re-occupies whatever
// overlapping obstacles still cover.
func (r *ObstacleRegistry) Unregister(id string) error {
	o, ok := r.obstacles[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrUnknownObstacle)
	}
	delete(r.obstacles, id)
	r.index.Remove(id)

	if err := o.apply(r.grid, true); err != nil {
		return fmt.Errorf("free %s: %w", id, err)
	}

	// Neighbors touching the same boundary cells count as overlapping
	lo, hi := expandBox(o.Min, o.Max, r.grid.SideLength())
	for _, other := range r.index.QueryRegion(lo, hi) {
		if err := other.apply(r.grid, false); err != nil {
			return fmt.Errorf("restore %s: %w", other.ID, err)
		}
	}
	return nil
}

// Replace swaps every obstacle previously registered under source for the
// given set. It is used when an obstacle file changes on disk.
func (r *ObstacleRegistry) Replace(source string, obstacles []Obstacle) error {
	for _, id := range r.sources[source] {
		if err := r.Unregister(id); err != nil && !errors.Is(err, ErrUnknownObstacle) {
			return err
		}
	}
	delete(r.sources, source)

	var errs []error
	registered := make([]string, 0, len(obstacles))
	for _, o := range obstacles {
		if err := r.Register(o); err != nil {
			errs = append(errs, err)
			continue
		}
		registered = append(registered, o.ID)
	}
	if len(registered) > 0 {
		r.sources[source] = registered
	}
	return errors.Join(errs...)
}

// Get returns a copy of a registered obstacle
func (r *ObstacleRegistry) Get(id string) (Obstacle, bool) {
	o, ok := r.obstacles[id]
	if !ok {
		return Obstacle{}, false
	}
	return *o, true
}

// Len returns the number of registered obstacles. The index and the id map
// always hold the same set.
func (r *ObstacleRegistry) Len() int {
	return r.index.Len()
}

// Clear forgets every obstacle without touching the grid
func (r *ObstacleRegistry) Clear() {
	r.index = NewObstacleIndex()
	r.obstacles = make(map[string]*Obstacle)
	r.sources = make(map[string][]string)
}
