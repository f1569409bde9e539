package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// Result is one pipeline's score output: the final clamped score plus a
// human-readable breakdown of every component, so downstream diagnostic
// commands can explain a pairing (spec.md §4.4: "Every pipeline's score
// output must be accompanied by a reason string").
type Result struct {
	Score      float64
	Components map[string]float64
}

// NewResult builds a Result from a weighted sum of named components,
// clamping the total to [0,1].
func NewResult(components map[string]float64, weights map[string]float64) Result {
	var total float64
	for name, weight := range weights {
		total += components[name] * weight
	}
	return Result{Score: Clamp01(total), Components: components}
}

// Reason renders a deterministic, sorted "component=value" breakdown
// string for the link's reason field.
func (r Result) Reason() string {
	names := make([]string, 0, len(r.Components))
	for name := range r.Components {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names)+1)
	parts = append(parts, fmt.Sprintf("score=%.3f", r.Score))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%.3f", name, r.Components[name]))
	}
	return strings.Join(parts, " ")
}
