package scheme

import (
	"testing"

	"github.com/pictomap/pictomap/internal/osm"
)

func TestRuleMatches(t *testing.T) {
	rule := Rule{Tags: map[string]string{"natural": "tree"}}
	if !rule.Matches(osm.Tags{"natural": "tree", "height": "5"}) {
		t.Error("expected match")
	}
	if rule.Matches(osm.Tags{"natural": "wood"}) {
		t.Error("unexpected match on different value")
	}
	if rule.Matches(osm.Tags{"landuse": "forest"}) {
		t.Error("unexpected match on missing key")
	}
}

func TestRuleMatchesWildcard(t *testing.T) {
	rule := Rule{Tags: map[string]string{"shop": "*"}}
	if !rule.Matches(osm.Tags{"shop": "bakery"}) {
		t.Error("expected wildcard match")
	}
	if rule.Matches(osm.Tags{"amenity": "cafe"}) {
		t.Error("wildcard must still require the key")
	}
}

func TestRuleMatchesNumeric(t *testing.T) {
	rule := Rule{Tags: map[string]string{"lanes": ">=2"}}
	if !rule.Matches(osm.Tags{"lanes": "3"}) {
		t.Error("expected numeric match")
	}
	if rule.Matches(osm.Tags{"lanes": "1"}) {
		t.Error("unexpected match below bound")
	}
	// Malformed numbers are treated as absent, not fatal.
	if rule.Matches(osm.Tags{"lanes": "many"}) {
		t.Error("unexpected match on malformed value")
	}
}

func TestRuleMatchesException(t *testing.T) {
	rule := Rule{
		Tags:      map[string]string{"highway": "*"},
		Exception: map[string]string{"area": "yes"},
	}
	if !rule.Matches(osm.Tags{"highway": "residential"}) {
		t.Error("expected match")
	}
	if rule.Matches(osm.Tags{"highway": "pedestrian", "area": "yes"}) {
		t.Error("exception not applied")
	}
}

func TestRuleSpecificity(t *testing.T) {
	exact := Rule{Tags: map[string]string{"natural": "tree", "leaf_type": "broadleaved"}}
	wildcard := Rule{Tags: map[string]string{"shop": "*"}}
	if exact.Specificity() != 4 {
		t.Errorf("exact specificity = %d", exact.Specificity())
	}
	if wildcard.Specificity() != 1 {
		t.Errorf("wildcard specificity = %d", wildcard.Specificity())
	}
}
