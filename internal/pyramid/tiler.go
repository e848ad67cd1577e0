package pyramid

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"
)

// GenerateFunc produces the artifact for one tile. It must be
// deterministic: identical tiles yield byte-identical artifacts given
// the same input data and style.
type GenerateFunc func(ctx context.Context, tile Tile) (*Artifact, error)

// ErrInvalidTile is returned for coordinates off the tile grid.
type ErrInvalidTile struct {
	Tile Tile
}

func (e *ErrInvalidTile) Error() string {
	return fmt.Sprintf("invalid tile coordinate %s", e.Tile)
}

// Tiler resolves tile coordinates to artifacts through the cache,
// optionally persisting raster bytes into an MBTiles archive.
type Tiler struct {
	cache    *Cache
	generate GenerateFunc
	store    *MBTiles
}

// NewTiler creates a tiler over the given cache and generator.
func NewTiler(cache *Cache, generate GenerateFunc) *Tiler {
	return &Tiler{cache: cache, generate: generate}
}

// WithStore attaches an MBTiles archive; every freshly generated
// raster tile is written through to it.
func (t *Tiler) WithStore(store *MBTiles) *Tiler {
	t.store = store
	return t
}

// Get returns the artifact for a tile, generating it at most once per
// coordinate under concurrent requests.
func (t *Tiler) Get(ctx context.Context, tile Tile) (*Artifact, error) {
	if !tile.Valid() {
		return nil, &ErrInvalidTile{Tile: tile}
	}
	return t.cache.GetOrGenerate(ctx, tile.Name(), func(ctx context.Context) (*Artifact, error) {
		artifact, err := t.generate(ctx, tile)
		if err != nil {
			return nil, err
		}
		if t.store != nil && len(artifact.PNG) > 0 {
			if err := t.store.WriteTile(tile, artifact.PNG); err != nil {
				// The artifact itself is fine; persistence is best
				// effort.
				log.WithError(err).WithField("tile", tile.String()).Warn("MBTiles write failed")
			}
		}
		return artifact, nil
	})
}

// TileError pairs a failed tile with its error.
type TileError struct {
	Tile Tile
	Err  error
}

// BatchResult enumerates per-coordinate outcomes of a batch run.
// Failures do not abort sibling tiles.
type BatchResult struct {
	Successes []Tile
	Failures  []TileError
}

// Batch generates a set of tiles across a worker pool. Workers
// default to the CPU count. Results are reported per coordinate in
// deterministic order.
func (t *Tiler) Batch(ctx context.Context, tiles []Tile, workers int) BatchResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(tiles) {
		workers = len(tiles)
	}

	jobs := make(chan Tile)
	var mu sync.Mutex
	result := BatchResult{}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tile := range jobs {
				_, err := t.Get(ctx, tile)
				mu.Lock()
				if err != nil {
					result.Failures = append(result.Failures, TileError{Tile: tile, Err: err})
				} else {
					result.Successes = append(result.Successes, tile)
				}
				mu.Unlock()
			}
		}()
	}

	for _, tile := range tiles {
		jobs <- tile
	}
	close(jobs)
	wg.Wait()

	less := func(a, b Tile) bool {
		if a.Zoom != b.Zoom {
			return a.Zoom < b.Zoom
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	}
	sort.Slice(result.Successes, func(i, j int) bool {
		return less(result.Successes[i], result.Successes[j])
	})
	sort.Slice(result.Failures, func(i, j int) bool {
		return less(result.Failures[i].Tile, result.Failures[j].Tile)
	})
	return result
}
