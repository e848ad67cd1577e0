package pyramid

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// MBTiles persists raster tiles into the MBTiles SQLite format. Tile
// rows are stored with the flipped y axis the format requires.
type MBTiles struct {
	db *sql.DB
}

// OpenMBTiles opens or creates an MBTiles archive.
func OpenMBTiles(path string) (*MBTiles, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening MBTiles %s: %w", path, err)
	}

	statements := []string{
		"PRAGMA synchronous=0",
		"PRAGMA journal_mode=DELETE",
		"CREATE TABLE IF NOT EXISTS metadata (name text, value text)",
		"CREATE TABLE IF NOT EXISTS tiles (zoom_level integer, tile_column integer, tile_row integer, tile_data blob)",
		"CREATE UNIQUE INDEX IF NOT EXISTS tile_index ON tiles (zoom_level, tile_column, tile_row)",
	}
	for _, statement := range statements {
		if _, err := db.Exec(statement); err != nil {
			db.Close()
			return nil, fmt.Errorf("initializing MBTiles: %w", err)
		}
	}
	return &MBTiles{db: db}, nil
}

// SetMetadata writes one metadata key, replacing an existing value.
func (m *MBTiles) SetMetadata(name, value string) error {
	if _, err := m.db.Exec("DELETE FROM metadata WHERE name = ?", name); err != nil {
		return fmt.Errorf("clearing metadata %s: %w", name, err)
	}
	if _, err := m.db.Exec("INSERT INTO metadata (name, value) VALUES (?, ?)", name, value); err != nil {
		return fmt.Errorf("writing metadata %s: %w", name, err)
	}
	return nil
}

// flipY converts between the slippy-map y axis (origin top) and the
// TMS axis MBTiles uses (origin bottom).
func flipY(tile Tile) int {
	return (1 << tile.Zoom) - 1 - tile.Y
}

// WriteTile stores raster bytes for a tile, replacing any previous
// content.
func (m *MBTiles) WriteTile(tile Tile, data []byte) error {
	_, err := m.db.Exec(
		"INSERT OR REPLACE INTO tiles (zoom_level, tile_column, tile_row, tile_data) VALUES (?, ?, ?, ?)",
		tile.Zoom, tile.X, flipY(tile), data,
	)
	if err != nil {
		return fmt.Errorf("writing tile %s: %w", tile, err)
	}
	return nil
}

// ReadTile loads raster bytes for a tile. Missing tiles report
// sql.ErrNoRows.
func (m *MBTiles) ReadTile(tile Tile) ([]byte, error) {
	var data []byte
	err := m.db.QueryRow(
		"SELECT tile_data FROM tiles WHERE zoom_level = ? AND tile_column = ? AND tile_row = ?",
		tile.Zoom, tile.X, flipY(tile),
	).Scan(&data)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Close releases the underlying database.
func (m *MBTiles) Close() error {
	return m.db.Close()
}
