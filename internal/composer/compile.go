// Package composer assembles one textual reply from the ordered agent
// outcomes of a turn.
package composer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/projectbrainsaver/brainsaver/internal/agents"
	"github.com/projectbrainsaver/brainsaver/internal/intent"
)

// maxActionLines caps how many actions_taken entries a single outcome may
// contribute; excess entries are dropped to keep replies terse.
const maxActionLines = 3

// resultsKey marks the bulk payload entry in Outcome.Data that is never
// rendered as a detail line.
const resultsKey = "results"

// tips holds the static per-intent advisory line appended to a reply.
// Intents absent from the map get no trailing tip.
var tips = map[string]string{
	intent.IntentFileManagement:   "Tip: I can also help organize files by date, find duplicates, or backup important documents.",
	intent.IntentDomainManagement: "Tip: I can monitor your domains regularly and alert you to any issues.",
	intent.IntentPhoneManagement:  "Tip: I can also help with backing up your phone data to the cloud.",
}

// Compile merges the context note and ordered outcomes into the final reply.
// Outcomes are partitioned into successes then failures, original order
// preserved within each partition; the assembly order is fixed.
func Compile(contextNote string, interp intent.Interpretation, outcomes []agents.Outcome) string {
	var lines []string

	if contextNote != "" {
		lines = append(lines, contextNote)
	}

	var successes, failures []agents.Outcome
	for _, o := range outcomes {
		if o.Success {
			successes = append(successes, o)
		} else {
			failures = append(failures, o)
		}
	}

	if len(successes) > 0 {
		lines = append(lines, "Here's what I accomplished:")
		for _, o := range successes {
			lines = append(lines, fmt.Sprintf("✓ %s", o.Message))
			lines = append(lines, detailLines(o.Data)...)

			actions := o.ActionsTaken
			if len(actions) > maxActionLines {
				actions = actions[:maxActionLines]
			}
			for _, action := range actions {
				lines = append(lines, fmt.Sprintf("  • %s", action))
			}
		}
	}

	if len(failures) > 0 {
		lines = append(lines, "\nSome issues encountered:")
		for _, o := range failures {
			lines = append(lines, fmt.Sprintf("✗ %s", o.Message))
		}
	}

	if tip, ok := tips[interp.PrimaryIntent]; ok {
		lines = append(lines, "\n"+tip)
	}

	return strings.Join(lines, "\n")
}

// detailLines renders scalar data fields as indented detail lines, skipping
// the bulk results payload. Keys are emitted in sorted order so replies are
// deterministic.
func detailLines(data map[string]any) []string {
	if len(data) == 0 {
		return nil
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		if k == resultsKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		if !isScalar(data[k]) {
			continue
		}
		lines = append(lines, fmt.Sprintf("  - %s: %v", k, data[k]))
	}
	return lines
}

// isScalar reports whether v is a number or text value.
func isScalar(v any) bool {
	switch v.(type) {
	case string, int, int32, int64, float32, float64:
		return true
	default:
		return false
	}
}
