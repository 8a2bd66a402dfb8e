package property

import (
	"fmt"
	"strings"
)

// FieldGroup describes a numbered run of feed columns such as
// feature1..feature10 or mediaImage00..mediaImage59.
type FieldGroup struct {
	Prefix string
	Start  int
	Count  int
	Width  int // zero padding of the number, 0 for none
}

// Keys returns the candidate attribute names in scan order.
func (g FieldGroup) Keys() []string {
	if g.Count <= 0 {
		return []string{}
	}
	keys := make([]string, 0, g.Count)
	for i := 0; i < g.Count; i++ {
		keys = append(keys, fmt.Sprintf("%s%0*d", g.Prefix, g.Width, g.Start+i))
	}
	return keys
}

// Filter returns the non-blank values of the group, in key order.
func (g FieldGroup) Filter(attrs map[string]string) []string {
	out := []string{}
	for _, k := range g.Keys() {
		v, ok := attrs[k]
		if !ok || isBlank(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Layout holds the numbered groups a record derives its collections from.
type Layout struct {
	Features   FieldGroup
	Images     FieldGroup
	Epcs       FieldGroup
	Floorplans FieldGroup
}

// DefaultLayout matches the column ranges of a version 3 BLM export.
func DefaultLayout() Layout {
	return Layout{
		Features:   FieldGroup{Prefix: "feature", Start: 1, Count: 10},
		Images:     FieldGroup{Prefix: "mediaImage", Start: 0, Count: 60, Width: 2},
		Epcs:       FieldGroup{Prefix: "mediaImage", Start: 60, Count: 2, Width: 2},
		Floorplans: FieldGroup{Prefix: "mediaFloorPlan", Start: 0, Count: 10, Width: 2},
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
