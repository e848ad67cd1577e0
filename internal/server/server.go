// Package server exposes the tile pyramid over HTTP: tiles are
// addressed by zoom, column, and row, generated on demand, and served
// from the shared cache.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pictomap/pictomap/internal/pyramid"
)

// Server handles slippy-map tile requests. Concurrent requests for
// one coordinate share a single generation through the tiler's cache.
type Server struct {
	tiler *pyramid.Tiler
	mux   *http.ServeMux
}

// New creates a tile server over the given tiler.
func New(tiler *pyramid.Tiler) *Server {
	server := &Server{tiler: tiler, mux: http.NewServeMux()}
	server.mux.HandleFunc("/tiles/", server.handleTile)
	server.mux.HandleFunc("/healthz", server.handleHealth)
	return server
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe runs the server on the given address until the
// listener fails.
func (s *Server) ListenAndServe(address string) error {
	log.WithField("address", address).Info("serving tiles")
	httpServer := &http.Server{
		Addr:         address,
		Handler:      s,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}
	return httpServer.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

// parseTilePath extracts a tile coordinate from a path of the form
// /tiles/<zoom>/<x>/<y> with an optional .png or .svg suffix.
func parseTilePath(path string) (pyramid.Tile, string, error) {
	trimmed := strings.TrimPrefix(path, "/tiles/")
	format := "png"
	if strings.HasSuffix(trimmed, ".png") {
		trimmed = strings.TrimSuffix(trimmed, ".png")
	} else if strings.HasSuffix(trimmed, ".svg") {
		trimmed = strings.TrimSuffix(trimmed, ".svg")
		format = "svg"
	}

	parts := strings.Split(trimmed, "/")
	if len(parts) != 3 {
		return pyramid.Tile{}, "", fmt.Errorf("malformed tile path %q", path)
	}
	numbers := make([]int, 3)
	for index, part := range parts {
		value, err := strconv.Atoi(part)
		if err != nil {
			return pyramid.Tile{}, "", fmt.Errorf("malformed tile coordinate %q", part)
		}
		numbers[index] = value
	}
	return pyramid.Tile{Zoom: numbers[0], X: numbers[1], Y: numbers[2]}, format, nil
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tile, format, err := parseTilePath(r.URL.Path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	artifact, err := s.tiler.Get(r.Context(), tile)
	if err != nil {
		var invalid *pyramid.ErrInvalidTile
		if errors.As(err, &invalid) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.WithError(err).WithField("tile", tile.String()).Error("tile generation failed")
		http.Error(w, "tile generation failed", http.StatusBadGateway)
		return
	}

	var payload []byte
	switch format {
	case "svg":
		payload = artifact.SVG
		w.Header().Set("Content-Type", "image/svg+xml")
	default:
		payload = artifact.PNG
		w.Header().Set("Content-Type", "image/png")
	}
	if len(payload) == 0 {
		http.Error(w, "artifact format unavailable", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(payload); err != nil {
		log.WithError(err).Debug("client disconnected")
	}
}
