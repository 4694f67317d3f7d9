package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// obstacleExtensions are the file types the loader and watcher pick up
var obstacleExtensions = []string{".geojson", ".json"}

func isObstacleFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range obstacleExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadObstaclesFromDir loads every obstacle file in dir, keyed by file path.
// Files that cannot be read or parsed are logged and skipped.
func LoadObstaclesFromDir(dir string, epsilon float64) (map[string][]Obstacle, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !isObstacleFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	log.Printf("Loading obstacles from %d GeoJSON files...\n", len(files))

	loaded := make(map[string][]Obstacle, len(files))
	total := 0
	for _, file := range files {
		obstacles, err := LoadObstaclesFromFile(file, epsilon)
		if err != nil {
			log.Printf("⚠️  Failed to load %s: %v\n", file, err)
			continue
		}
		loaded[file] = obstacles
		total += len(obstacles)
		log.Printf("   ✅ Loaded %d obstacles from %s\n", len(obstacles), filepath.Base(file))
	}

	log.Printf("Total obstacles loaded: %d\n", total)
	return loaded, nil
}

// LoadObstaclesFromFile parses one GeoJSON feature collection. Footprints
// lie in the XZ plane: GeoJSON x is world X and GeoJSON y is world Z. The
// vertical range comes from the minY and maxY properties.
func LoadObstaclesFromFile(path string, epsilon float64) ([]Obstacle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var obstacles []Obstacle
	for n, feature := range fc.Features {
		obstacles = append(obstacles, featureObstacles(feature, fmt.Sprintf("%s-%d", base, n), epsilon)...)
	}

	kept := RemoveContainedObstacles(obstacles)
	if removed := len(obstacles) - len(kept); removed > 0 {
		log.Printf("   Obstacles after removing contained: %d (removed %d)\n", len(kept), removed)
	}
	return kept, nil
}

// featureObstacles converts one feature. A MultiPolygon yields one obstacle
// per polygon, with ids suffixed "#n".
func featureObstacles(feature *geojson.Feature, fallbackID string, epsilon float64) []Obstacle {
	id := feature.Properties.MustString("id", "")
	if id == "" {
		if fid, ok := feature.ID.(string); ok && fid != "" {
			id = fid
		} else {
			id = fallbackID
		}
	}
	minY := feature.Properties.MustFloat64("minY", 0)
	maxY := feature.Properties.MustFloat64("maxY", minY)

	switch geometry := feature.Geometry.(type) {
	case orb.Polygon:
		if !validFootprint(geometry) {
			log.Printf("⚠️  Skipping degenerate polygon %s\n", id)
			return nil
		}
		return []Obstacle{footprintObstacle(id, SimplifyFootprint(geometry, epsilon), minY, maxY)}

	case orb.MultiPolygon:
		obstacles := make([]Obstacle, 0, len(geometry))
		for i, poly := range geometry {
			if !validFootprint(poly) {
				log.Printf("⚠️  Skipping degenerate polygon %s#%d\n", id, i)
				continue
			}
			obstacles = append(obstacles, footprintObstacle(fmt.Sprintf("%s#%d", id, i), SimplifyFootprint(poly, epsilon), minY, maxY))
		}
		return obstacles

	case nil:
		log.Printf("⚠️  Skipping %s: no geometry\n", id)
		return nil

	default:
		log.Printf("⚠️  Skipping %s: unsupported geometry %s\n", id, geometry.GeoJSONType())
		return nil
	}
}

// validFootprint requires an outer ring with at least three distinct corners
func validFootprint(poly orb.Polygon) bool {
	return len(poly) > 0 && len(poly[0]) >= 3
}
