package pyramid

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParseZoomSpec parses a zoom level specification: comma-separated
// individual levels and inclusive ranges, for example "15,16-18,20".
// The result is an explicit, de-duplicated, ascending list.
func ParseZoomSpec(text string) ([]int, error) {
	seen := make(map[int]bool)

	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if index := strings.Index(part, "-"); index > 0 {
			from, err := parseZoom(part[:index])
			if err != nil {
				return nil, err
			}
			to, err := parseZoom(part[index+1:])
			if err != nil {
				return nil, err
			}
			if to < from {
				return nil, fmt.Errorf("invalid zoom range %q", part)
			}
			for zoom := from; zoom <= to; zoom++ {
				seen[zoom] = true
			}
			continue
		}
		zoom, err := parseZoom(part)
		if err != nil {
			return nil, err
		}
		seen[zoom] = true
	}

	if len(seen) == 0 {
		return nil, fmt.Errorf("empty zoom specification %q", text)
	}
	levels := make([]int, 0, len(seen))
	for zoom := range seen {
		levels = append(levels, zoom)
	}
	sort.Ints(levels)
	return levels, nil
}

func parseZoom(text string) (int, error) {
	zoom, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("invalid zoom level %q", text)
	}
	if zoom < MinZoom || zoom > MaxZoom {
		return 0, fmt.Errorf("zoom level %d out of range %d-%d", zoom, MinZoom, MaxZoom)
	}
	return zoom, nil
}
