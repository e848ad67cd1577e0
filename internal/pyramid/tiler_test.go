package pyramid

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestTilerGetInvalid(t *testing.T) {
	tiler := NewTiler(NewCache(8), func(ctx context.Context, tile Tile) (*Artifact, error) {
		return &Artifact{}, nil
	})

	_, err := tiler.Get(context.Background(), Tile{Zoom: 25, X: 0, Y: 0})
	var invalid *ErrInvalidTile
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidTile, got %v", err)
	}
}

func TestTilerBatchReportsPerCoordinate(t *testing.T) {
	broken := Tile{Zoom: 18, X: 132793, Y: 90166}
	tiler := NewTiler(NewCache(64), func(ctx context.Context, tile Tile) (*Artifact, error) {
		if tile == broken {
			return nil, errors.New("upstream data unavailable")
		}
		return &Artifact{PNG: []byte(tile.Name())}, nil
	})

	var tiles []Tile
	for x := 132791; x <= 132793; x++ {
		for y := 90164; y <= 90166; y++ {
			tiles = append(tiles, Tile{Zoom: 18, X: x, Y: y})
		}
	}

	result := tiler.Batch(context.Background(), tiles, 4)
	if len(result.Successes) != 8 {
		t.Errorf("expected 8 successes, got %d", len(result.Successes))
	}
	if len(result.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(result.Failures))
	}
	if result.Failures[0].Tile != broken {
		t.Errorf("unexpected failed tile: %s", result.Failures[0].Tile)
	}
}

func TestTilerBatchDeterministicOrder(t *testing.T) {
	tiler := NewTiler(NewCache(64), func(ctx context.Context, tile Tile) (*Artifact, error) {
		return &Artifact{}, nil
	})

	var tiles []Tile
	for x := 10; x >= 5; x-- {
		tiles = append(tiles, Tile{Zoom: 12, X: x, Y: 7})
	}

	result := tiler.Batch(context.Background(), tiles, 3)
	for index := 1; index < len(result.Successes); index++ {
		if result.Successes[index-1].X > result.Successes[index].X {
			t.Fatal("successes not in deterministic order")
		}
	}
}

func TestTilerBatchDeduplicates(t *testing.T) {
	tiler := NewTiler(NewCache(64), func(ctx context.Context, tile Tile) (*Artifact, error) {
		return &Artifact{}, nil
	})

	tile := Tile{Zoom: 10, X: 1, Y: 2}
	tiles := []Tile{tile, tile, tile, tile}
	result := tiler.Batch(context.Background(), tiles, 2)

	if len(result.Successes) != 4 {
		t.Errorf("expected 4 reported successes, got %d", len(result.Successes))
	}
	if generations := tiler.cache.Generations(); generations != 1 {
		t.Errorf("generator invoked %d times for one coordinate", generations)
	}
}

func TestMBTilesRoundTrip(t *testing.T) {
	path := t.TempDir() + "/tiles.mbtiles"
	store, err := OpenMBTiles(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer store.Close()

	if err := store.SetMetadata("name", "test"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tile := Tile{Zoom: 18, X: 132791, Y: 90164}
	payload := []byte("png-bytes")
	if err := store.WriteTile(tile, payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := store.ReadTile(tile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("unexpected payload: %q", data)
	}

	// A missing tile reports an error, not empty bytes.
	if _, err := store.ReadTile(Tile{Zoom: 18, X: 1, Y: 1}); err == nil {
		t.Error("expected error for missing tile")
	}
}

func TestMBTilesOverwrite(t *testing.T) {
	path := fmt.Sprintf("%s/tiles.mbtiles", t.TempDir())
	store, err := OpenMBTiles(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer store.Close()

	tile := Tile{Zoom: 5, X: 3, Y: 4}
	store.WriteTile(tile, []byte("first"))
	store.WriteTile(tile, []byte("second"))

	data, err := store.ReadTile(tile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("unexpected payload: %q", data)
	}
}
