package osm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pictomap/pictomap/internal/geometry"
)

// DefaultAPIURL is the OpenStreetMap editing API endpoint used to
// fetch map extracts.
const DefaultAPIURL = "https://api.openstreetmap.org/api/0.6/map"

// Downloader fetches OpenStreetMap extracts for boundary boxes and
// caches the raw XML documents on disk.
type Downloader struct {
	// APIURL is the map endpoint. Defaults to DefaultAPIURL.
	APIURL string

	// CacheDirectory is where fetched .osm files are stored.
	CacheDirectory string

	// Client is the HTTP client used for requests.
	Client *http.Client
}

// NewDownloader creates a downloader caching into the given directory.
func NewDownloader(cacheDirectory string) *Downloader {
	return &Downloader{
		APIURL:         DefaultAPIURL,
		CacheDirectory: cacheDirectory,
		Client:         &http.Client{Timeout: 2 * time.Minute},
	}
}

// Path returns the cache file path for a boundary box.
func (d *Downloader) Path(box geometry.BoundaryBox) string {
	return filepath.Join(d.CacheDirectory, box.Format()+".osm")
}

// Get returns the OpenStreetMap data for the boundary box, downloading
// it if no cached copy exists.
func (d *Downloader) Get(ctx context.Context, box geometry.BoundaryBox) (*Data, error) {
	path := d.Path(box)
	if _, err := os.Stat(path); err != nil {
		if err := d.download(ctx, box, path); err != nil {
			return nil, err
		}
	} else {
		log.WithField("path", path).Debug("using cached OSM data")
	}
	return ReadFile(ctx, path)
}

func (d *Downloader) download(ctx context.Context, box geometry.BoundaryBox, path string) error {
	if err := os.MkdirAll(d.CacheDirectory, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	url := fmt.Sprintf("%s?bbox=%s", d.APIURL, box.Format())
	log.WithField("url", url).Info("downloading OSM data")

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	response, err := d.Client.Do(request)
	if err != nil {
		return fmt.Errorf("fetching OSM data: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return &ErrDownloadFailed{URL: url, Status: response.StatusCode}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating cache file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, response.Body); err != nil {
		os.Remove(path)
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}

// ErrDownloadFailed is returned when the OpenStreetMap API responds
// with a non-200 status.
type ErrDownloadFailed struct {
	URL    string
	Status int
}

func (e *ErrDownloadFailed) Error() string {
	return fmt.Sprintf("downloading %s: status %d", e.URL, e.Status)
}
