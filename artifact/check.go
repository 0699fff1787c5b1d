package artifact

import (
	"bytes"
	"fmt"
	"strings"
)

// Rule requires a marker to appear in an artifact.
type Rule struct {
	Name   string
	Marker string
	// Fold matches case-insensitively.
	Fold bool
}

// GameRules are the structural markers a generated single-file game is
// expected to contain.
var GameRules = []Rule{
	{Name: "canvas element", Marker: "<canvas"},
	{Name: "title", Marker: "<title>"},
	{Name: "script", Marker: "<script"},
	{Name: "draw function", Marker: "function draw("},
	{Name: "food generation", Marker: "function generateFood("},
	{Name: "restart", Marker: "function restartGame("},
	{Name: "viewport meta", Marker: "viewport", Fold: true},
}

// Violation is a rule whose marker was not found.
type Violation struct {
	Rule Rule
}

func (v Violation) String() string {
	return fmt.Sprintf("missing %s (%q)", v.Rule.Name, v.Rule.Marker)
}

// Check returns the rules data does not satisfy, in rule order.
func Check(data []byte, rules []Rule) []Violation {
	var lower []byte
	var out []Violation
	for _, r := range rules {
		haystack := data
		marker := []byte(r.Marker)
		if r.Fold {
			if lower == nil {
				lower = bytes.ToLower(data)
			}
			haystack = lower
			marker = []byte(strings.ToLower(r.Marker))
		}
		if !bytes.Contains(haystack, marker) {
			out = append(out, Violation{Rule: r})
		}
	}
	return out
}
