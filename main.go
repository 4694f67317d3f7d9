package main

import (
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"

	"grid-planner/uniformgrid"
)

type RouteRequest struct {
	Start  uniformgrid.Vector3 `json:"start"`
	End    uniformgrid.Vector3 `json:"end"`
	Smooth *bool               `json:"smooth,omitempty"` // Optional: defaults to true
}

type RouteResponse struct {
	Path    []uniformgrid.Vector3 `json:"path"`
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Length  float64               `json:"length,omitempty"`
}

type CellsRequest struct {
	Min  uniformgrid.Vector3 `json:"min"`
	Max  uniformgrid.Vector3 `json:"max"`
	Free bool                `json:"free"`
}

type ResetRequest struct {
	Free bool `json:"free"`
}

type server struct {
	planner *Planner
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️  Failed to write response: %v\n", err)
	}
}

// statusFor maps planner errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, uniformgrid.ErrOutOfRange),
		errors.Is(err, uniformgrid.ErrDimensionMismatch),
		errors.Is(err, ErrInvalidObstacle):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicateObstacle):
		return http.StatusConflict
	case errors.Is(err, ErrUnknownObstacle):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// POST /route - Plan a path between two world positions
func (s *server) routeHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("📍 Route request received")
	defer log.Println("========================================")

	if r.Method != http.MethodPost {
		log.Printf("❌ Method not allowed: %s\n", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	smooth := req.Smooth == nil || *req.Smooth

	log.Printf("   Start: (%.3f, %.3f, %.3f)\n", req.Start.X, req.Start.Y, req.Start.Z)
	log.Printf("   End:   (%.3f, %.3f, %.3f)\n", req.End.X, req.End.Y, req.End.Z)

	log.Println("🔍 Running A* on grid...")
	path, err := s.planner.Route(req.Start, req.End, smooth)
	switch {
	case errors.Is(err, uniformgrid.ErrNoPath), errors.Is(err, uniformgrid.ErrNoFreeCell):
		log.Printf("❌ No path found: %v\n", err)
		writeJSON(w, http.StatusOK, RouteResponse{
			Path:    []uniformgrid.Vector3{},
			Success: false,
			Message: err.Error(),
		})
		return
	case err != nil:
		log.Printf("❌ Route failed: %v\n", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	length := uniformgrid.PathLength(path)
	log.Printf("✅ Path found with %d waypoints\n", len(path))
	log.Printf("   Length: %.2f\n", length)

	writeJSON(w, http.StatusOK, RouteResponse{
		Path:    path,
		Success: true,
		Length:  length,
	})
}

// POST /obstacles - Register a box obstacle
// DELETE /obstacles?id= - Remove an obstacle
func (s *server) obstaclesHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	defer log.Println("========================================")

	switch r.Method {
	case http.MethodPost:
		log.Println("🧱 Register obstacle request received")
		var o Obstacle
		if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
			log.Printf("❌ Invalid request body: %v\n", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := s.planner.RegisterObstacle(o); err != nil {
			log.Printf("❌ Register failed: %v\n", err)
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		log.Printf("✅ Registered obstacle %s\n", o.ID)
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"id":      o.ID,
		})

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		log.Printf("🗑️  Remove obstacle request received: %s\n", id)
		if id == "" {
			http.Error(w, "Missing id", http.StatusBadRequest)
			return
		}
		if err := s.planner.UnregisterObstacle(id); err != nil {
			log.Printf("❌ Remove failed: %v\n", err)
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		log.Printf("✅ Removed obstacle %s\n", id)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"id":      id,
		})

	default:
		log.Printf("❌ Method not allowed: %s\n", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// POST /cells - Mark a box of cells free or occupied
func (s *server) cellsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		log.Printf("❌ Method not allowed: %s\n", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CellsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.planner.MarkRange(req.Min, req.Max, req.Free); err != nil {
		log.Printf("❌ Mark cells failed: %v\n", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	log.Printf("✅ Marked cells %v-%v free=%t\n", req.Min, req.Max, req.Free)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"freeCells": s.planner.Status().FreeCells,
	})
}

// POST /reset - Drop all obstacles and mark every cell
func (s *server) resetHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		log.Printf("❌ Method not allowed: %s\n", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req := ResetRequest{Free: true}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("❌ Invalid request body: %v\n", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	s.planner.Reset(req.Free)
	log.Printf("🔄 Grid reset, all cells free=%t\n", req.Free)
	log.Printf("   %s\n", s.planner.CacheSummary())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"freeCells": s.planner.Status().FreeCells,
	})
}

// GET /health - Health check endpoint
func (s *server) healthHandler(w http.ResponseWriter, r *http.Request) {
	log.Printf("💓 Health check: %s\n", s.planner.CacheSummary())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"grid":   s.planner.Status(),
	})
}

func newServeMux(planner *Planner) *http.ServeMux {
	s := &server{planner: planner}
	mux := http.NewServeMux()
	mux.HandleFunc("/route", corsMiddleware(s.routeHandler))
	mux.HandleFunc("/obstacles", corsMiddleware(s.obstaclesHandler))
	mux.HandleFunc("/cells", corsMiddleware(s.cellsHandler))
	mux.HandleFunc("/reset", corsMiddleware(s.resetHandler))
	mux.HandleFunc("/health", corsMiddleware(s.healthHandler))
	return mux
}

// watchObstacles reloads obstacle files as they change until the watcher closes
func watchObstacles(planner *Planner, watcher *Watcher) {
	for {
		select {
		case path, ok := <-watcher.Events:
			if !ok {
				return
			}
			n, err := planner.ReloadFile(path)
			if err != nil {
				log.Printf("⚠️  Failed to reload %s: %v\n", path, err)
				continue
			}
			log.Printf("🔄 Reloaded %s (%d obstacles)\n", path, n)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("⚠️  Watcher error: %v\n", err)
		}
	}
}

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	log.Println("========================================")
	log.Println("🚀 Grid Path Planner Server")
	log.Println("========================================")

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	planner, err := NewPlanner(cfg, log.Default())
	if err != nil {
		log.Fatal(err)
	}
	status := planner.Status()
	log.Printf("✅ Grid ready: %dx%dx%d cells, side %.2f\n",
		status.Dimensions.X, status.Dimensions.Y, status.Dimensions.Z, status.SideLength)
	log.Printf("   %s\n", planner.CacheSummary())

	if isDir(cfg.Obstacles.Dir) {
		if err := planner.LoadDir(cfg.Obstacles.Dir); err != nil {
			log.Printf("⚠️  Some obstacles could not be registered: %v\n", err)
		}
		if cfg.Obstacles.Watch {
			watcher, err := NewWatcher(cfg.Obstacles.Dir)
			if err != nil {
				log.Printf("⚠️  Failed to watch %s: %v\n", cfg.Obstacles.Dir, err)
			} else {
				defer watcher.Close()
				go watchObstacles(planner, watcher)
				log.Printf("👀 Watching %s for changes\n", cfg.Obstacles.Dir)
			}
		}
	} else {
		log.Printf("ℹ️  Obstacle directory %s not found, starting with an empty grid\n", cfg.Obstacles.Dir)
	}
	log.Println("")

	log.Printf("Server starting on %s\n", cfg.Server.Addr)
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  POST   /route            - Compute route between two points")
	log.Println("  POST   /obstacles        - Register a box obstacle")
	log.Println("  DELETE /obstacles?id=    - Remove an obstacle")
	log.Println("  POST   /cells            - Mark a box of cells free or occupied")
	log.Println("  POST   /reset            - Drop obstacles and reset every cell")
	log.Println("  GET    /health           - Check server status")
	log.Println("")
	log.Println("CORS enabled for all origins")
	log.Println("========================================")
	log.Println("")

	if err := http.ListenAndServe(cfg.Server.Addr, newServeMux(planner)); err != nil {
		log.Fatal(err)
	}
}
