// Command pictomap renders OpenStreetMap data into pictogram maps.
//
// Subcommands:
//
//	render  draw one boundary box into SVG and PNG files
//	tile    pre-generate a tile pyramid, optionally into MBTiles
//	serve   run the HTTP tile server
//	mapcss  export the tag scheme as a MapCSS style
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/pictomap/pictomap/internal/construct"
	"github.com/pictomap/pictomap/internal/geometry"
	"github.com/pictomap/pictomap/internal/mapper"
	"github.com/pictomap/pictomap/internal/osm"
	"github.com/pictomap/pictomap/internal/pyramid"
	"github.com/pictomap/pictomap/internal/scheme"
	"github.com/pictomap/pictomap/internal/server"
)

const defaultCacheDirectory = "cache"

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("could not load .env file")
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "render":
		err = runRender(ctx, os.Args[2:])
	case "tile":
		err = runTile(ctx, os.Args[2:])
	case "serve":
		err = runServe(ctx, os.Args[2:])
	case "mapcss":
		err = runMapCSS(os.Args[2:])
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pictomap <render|tile|serve|mapcss> [flags]")
	fmt.Fprintln(os.Stderr, "run 'pictomap <subcommand> -h' for flags")
}

// envOr returns the environment value for key, or fallback when the
// variable is unset or empty.
func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// drawingOptions declares the flags shared by render and tile.
func drawingOptions(flags *flag.FlagSet) *construct.Options {
	options := construct.DefaultOptions()
	flags.StringVar((*string)(&options.Mode), "mode", string(options.Mode),
		"drawing mode: normal, author, time, white or black")
	flags.StringVar(&options.Seed, "seed", options.Seed, "seed for author coloring")
	flags.StringVar(&options.Level, "level", options.Level,
		"level filter: all, overground, underground or a number")
	flags.BoolVar(&options.ExtrudeBuildings, "buildings", options.ExtrudeBuildings,
		"draw buildings in isometric projection")
	flags.StringVar((*string)(&options.Labels), "labels", string(options.Labels),
		"label mode: no, main, all or address")
	return &options
}

// styleFiles holds the paths of external style documents. Empty paths
// select the built-ins.
type styleFiles struct {
	scheme string
	shapes string
}

// styleFlags declares the style document flags shared by render, tile
// and serve.
func styleFlags(flags *flag.FlagSet) *styleFiles {
	files := &styleFiles{}
	flags.StringVar(&files.scheme, "scheme", "", "YAML style scheme file (default built-in)")
	flags.StringVar(&files.shapes, "shapes", "", "JSON shape library file (default built-in)")
	return files
}

// mapper builds a mapper from the selected style documents.
func (f *styleFiles) mapper(options construct.Options) (*mapper.Mapper, error) {
	m := mapper.New(options)
	if f.scheme != "" {
		style, err := scheme.LoadFile(f.scheme)
		if err != nil {
			return nil, err
		}
		m.Style = style
	}
	if f.shapes != "" {
		if err := m.Library.LoadFile(f.shapes); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func loadData(ctx context.Context, inputPath, cacheDirectory string, box geometry.BoundaryBox) (*osm.Data, error) {
	if inputPath != "" {
		return osm.ReadFile(ctx, inputPath)
	}
	downloader := osm.NewDownloader(cacheDirectory)
	if url := os.Getenv("PICTOMAP_API_URL"); url != "" {
		downloader.APIURL = url
	}
	return downloader.Get(ctx, box)
}

func runRender(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("render", flag.ExitOnError)
	boundary := flags.String("b", "", "boundary box as left,bottom,right,top (required)")
	input := flags.String("i", "", "read an .osm file instead of downloading")
	output := flags.String("o", "map.svg", "output SVG path")
	pngOutput := flags.String("png", "", "also write a PNG to this path")
	zoom := flags.Float64("z", float64(pyramid.DefaultZoom), "zoom level")
	cacheDirectory := flags.String("cache", envOr("PICTOMAP_CACHE", defaultCacheDirectory),
		"directory for downloaded map data")
	options := drawingOptions(flags)
	style := styleFlags(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *boundary == "" {
		return fmt.Errorf("render: the -b boundary box is required")
	}

	box, err := geometry.ParseBoundaryBox(*boundary)
	if err != nil {
		return err
	}
	data, err := loadData(ctx, *input, *cacheDirectory, box)
	if err != nil {
		return err
	}

	m, err := style.mapper(*options)
	if err != nil {
		return err
	}
	artifact, err := m.Render(data, box, *zoom)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*output, artifact.SVG, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", *output, err)
	}
	log.WithField("path", *output).Info("wrote SVG")
	if *pngOutput != "" {
		if err := os.WriteFile(*pngOutput, artifact.PNG, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", *pngOutput, err)
		}
		log.WithField("path", *pngOutput).Info("wrote PNG")
	}
	return nil
}

func runTile(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("tile", flag.ExitOnError)
	boundary := flags.String("b", "", "boundary box as left,bottom,right,top (required)")
	input := flags.String("i", "", "read an .osm file instead of downloading")
	zoomSpec := flags.String("z", fmt.Sprint(pyramid.DefaultZoom),
		"zoom levels, e.g. 18 or 16-18 or 15,17-18")
	outputDirectory := flags.String("o", "tiles", "directory for tile files")
	mbtilesPath := flags.String("mbtiles", "", "also write raster tiles to this MBTiles archive")
	workers := flags.Int("workers", 0, "parallel tile workers (0 = CPU count)")
	cacheDirectory := flags.String("cache", envOr("PICTOMAP_CACHE", defaultCacheDirectory),
		"directory for downloaded map data")
	options := drawingOptions(flags)
	style := styleFlags(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *boundary == "" {
		return fmt.Errorf("tile: the -b boundary box is required")
	}

	box, err := geometry.ParseBoundaryBox(*boundary)
	if err != nil {
		return err
	}
	zooms, err := pyramid.ParseZoomSpec(*zoomSpec)
	if err != nil {
		return err
	}
	coverage := pyramid.Plan(box, zooms)

	data, err := loadData(ctx, *input, *cacheDirectory, coverage.EffectiveBox)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*outputDirectory, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", *outputDirectory, err)
	}

	m, err := style.mapper(*options)
	if err != nil {
		return err
	}
	generate := m.TileGenerator(mapper.NewIndexedSource(data))
	tiler := pyramid.NewTiler(pyramid.NewCache(0), generate)

	if *mbtilesPath != "" {
		store, err := pyramid.OpenMBTiles(*mbtilesPath)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.SetMetadata("name", "pictomap"); err != nil {
			return err
		}
		if err := store.SetMetadata("format", "png"); err != nil {
			return err
		}
		tiler.WithStore(store)
	}

	for _, plan := range coverage.Zooms {
		result := tiler.Batch(ctx, plan.Tiles, *workers)
		for _, failure := range result.Failures {
			log.WithField("tile", failure.Tile.String()).WithError(failure.Err).
				Error("tile generation failed")
		}
		for _, tile := range result.Successes {
			artifact, err := tiler.Get(ctx, tile)
			if err != nil {
				return err
			}
			base := filepath.Join(*outputDirectory, tile.Name())
			if err := os.WriteFile(base+".svg", artifact.SVG, 0o644); err != nil {
				return fmt.Errorf("writing %s.svg: %w", base, err)
			}
			if err := os.WriteFile(base+".png", artifact.PNG, 0o644); err != nil {
				return fmt.Errorf("writing %s.png: %w", base, err)
			}
		}
		log.WithFields(log.Fields{
			"zoom":     plan.Zoom,
			"tiles":    len(plan.Tiles),
			"failures": len(result.Failures),
		}).Info("zoom level done")
		if len(result.Failures) > 0 {
			return fmt.Errorf("tile: %d of %d tiles failed at zoom %d",
				len(result.Failures), len(plan.Tiles), plan.Zoom)
		}
	}
	return nil
}

func runServe(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	address := flags.String("a", envOr("PICTOMAP_ADDRESS", ":8080"), "listen address")
	capacity := flags.Int("cache-size", 0, "in-memory tile cache capacity (0 = default)")
	cacheDirectory := flags.String("cache", envOr("PICTOMAP_CACHE", defaultCacheDirectory),
		"directory for downloaded map data")
	mbtilesPath := flags.String("mbtiles", "", "write generated raster tiles to this MBTiles archive")
	options := drawingOptions(flags)
	style := styleFlags(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}

	downloader := osm.NewDownloader(*cacheDirectory)
	if url := os.Getenv("PICTOMAP_API_URL"); url != "" {
		downloader.APIURL = url
	}
	m, err := style.mapper(*options)
	if err != nil {
		return err
	}
	generate := m.TileGenerator(downloader)
	tiler := pyramid.NewTiler(pyramid.NewCache(*capacity), generate)

	if *mbtilesPath != "" {
		store, err := pyramid.OpenMBTiles(*mbtilesPath)
		if err != nil {
			return err
		}
		defer store.Close()
		tiler.WithStore(store)
	}

	errs := make(chan error, 1)
	go func() { errs <- server.New(tiler).ListenAndServe(*address) }()
	select {
	case <-ctx.Done():
		log.Info("shutting down")
		return nil
	case err := <-errs:
		return err
	}
}

func runMapCSS(args []string) error {
	flags := flag.NewFlagSet("mapcss", flag.ExitOnError)
	output := flags.String("o", "pictomap.mapcss", "output MapCSS path")
	iconDirectory := flags.String("icons", "icons", "icon directory referenced by the style")
	lifecycle := flags.Bool("lifecycle", true, "emit lifecycle prefix variants")
	schemePath := flags.String("scheme", "", "YAML style scheme file (default built-in)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	file, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", *output, err)
	}
	defer file.Close()

	style := scheme.Default()
	if *schemePath != "" {
		if style, err = scheme.LoadFile(*schemePath); err != nil {
			return err
		}
	}
	if err := style.ExportMapCSS(file, scheme.MapCSSOptions{
		IconDirectory:    *iconDirectory,
		IncludeLifecycle: *lifecycle,
	}); err != nil {
		return err
	}
	log.WithField("path", *output).Info("wrote MapCSS style")
	return nil
}
