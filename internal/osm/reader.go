package osm

import (
	"context"
	"fmt"
	"io"
	"os"

	pm "github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"
)

// Read parses an OpenStreetMap XML document into a Data set. Way node
// references that are not present in the document are dropped, so
// truncated extracts still load.
func Read(ctx context.Context, r io.Reader) (*Data, error) {
	data := NewData()

	// Ways may appear before the nodes they reference, so node
	// references are resolved after the whole document is scanned.
	type rawWay struct {
		way   *Way
		nodes []int64
	}
	var rawWays []rawWay

	scanner := osmxml.New(ctx, r)
	defer scanner.Close()

	for scanner.Scan() {
		switch object := scanner.Object().(type) {
		case *pm.Node:
			data.AddNode(&Node{
				Element: Element{
					ID:        int64(object.ID),
					Tags:      convertTags(object.Tags),
					User:      object.User,
					Timestamp: object.Timestamp,
				},
				Lat: object.Lat,
				Lon: object.Lon,
			})
		case *pm.Way:
			way := &Way{
				Element: Element{
					ID:        int64(object.ID),
					Tags:      convertTags(object.Tags),
					User:      object.User,
					Timestamp: object.Timestamp,
				},
			}
			refs := make([]int64, len(object.Nodes))
			for i, wayNode := range object.Nodes {
				refs[i] = int64(wayNode.ID)
			}
			rawWays = append(rawWays, rawWay{way: way, nodes: refs})
		case *pm.Relation:
			relation := &Relation{
				Element: Element{
					ID:        int64(object.ID),
					Tags:      convertTags(object.Tags),
					User:      object.User,
					Timestamp: object.Timestamp,
				},
			}
			for _, member := range object.Members {
				relation.Members = append(relation.Members, Member{
					Type: string(member.Type),
					Ref:  member.Ref,
					Role: member.Role,
				})
			}
			data.AddRelation(relation)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning OSM XML: %w", err)
	}

	for _, raw := range rawWays {
		for _, ref := range raw.nodes {
			if node, ok := data.NodeByID[ref]; ok {
				raw.way.Nodes = append(raw.way.Nodes, node)
			}
		}
		data.AddWay(raw.way)
	}

	return data, nil
}

// ReadFile parses the OpenStreetMap XML file at the given path.
func ReadFile(ctx context.Context, path string) (*Data, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OSM file: %w", err)
	}
	defer file.Close()

	data, err := Read(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func convertTags(tags pm.Tags) Tags {
	if len(tags) == 0 {
		return Tags{}
	}
	converted := make(Tags, len(tags))
	for _, tag := range tags {
		converted[tag.Key] = tag.Value
	}
	return converted
}
