// Package intent maps free-text requests to an intent label, the set of
// handler agents to invoke, and coarse action parameters.
package intent

import "strings"

// Intent labels. IntentUnknown means no rule matched and no agent runs.
const (
	IntentFileManagement   = "file_management"
	IntentResearch         = "research"
	IntentDomainManagement = "domain_management"
	IntentPhoneManagement  = "phone_management"
	IntentAutomation       = "automation"
	IntentMemoryRecall     = "memory_recall"
	IntentUnknown          = "unknown"
)

// Agent names referenced by AgentsNeeded. The orchestrator resolves these to
// concrete adapters.
const (
	AgentFile       = "file"
	AgentResearch   = "research"
	AgentDomain     = "domain"
	AgentPhone      = "phone"
	AgentAutomation = "automation"
	AgentMemory     = "memory"
)

// Interpretation is the transient result of classifying one request.
// Confidence is a fixed per-category constant surfaced for telemetry only;
// nothing gates dispatch on it.
type Interpretation struct {
	PrimaryIntent string
	AgentsNeeded  []string
	Parameters    map[string]string
	Confidence    float64
}

// rule is one entry in the classification cascade.
type rule struct {
	intent     string
	keywords   []string
	agents     []string
	confidence float64
	// actions maps a secondary trigger word to the derived parameters.action
	// value, tested in listed order.
	actions []actionRule
}

type actionRule struct {
	trigger string
	action  string
}

// rules is the fixed cascade. Order matters: evaluation stops at the first
// rule whose keyword set matches, so an input containing trigger words from
// two categories belongs to whichever is listed first.
var rules = []rule{
	{
		intent:     IntentFileManagement,
		keywords:   []string{"file", "folder", "organize", "find", "duplicate"},
		agents:     []string{AgentFile},
		confidence: 0.8,
		actions: []actionRule{
			{"find", "find"},
			{"organize", "organize"},
			{"duplicate", "remove_duplicates"},
		},
	},
	{
		intent:     IntentResearch,
		keywords:   []string{"search", "research", "find information", "look up"},
		agents:     []string{AgentResearch},
		confidence: 0.8,
	},
	{
		intent:     IntentDomainManagement,
		keywords:   []string{"domain", "dns", "website", "server"},
		agents:     []string{AgentDomain},
		confidence: 0.8,
		actions: []actionRule{
			{"check", "check_status"},
			{"status", "check_status"},
			{"fix", "fix_dns"},
		},
	},
	{
		intent:     IntentPhoneManagement,
		keywords:   []string{"phone", "photos", "contacts", "mobile"},
		agents:     []string{AgentPhone},
		confidence: 0.8,
		actions: []actionRule{
			{"photo", "sort_photos"},
			{"contact", "clean_contacts"},
		},
	},
	{
		intent:     IntentAutomation,
		keywords:   []string{"automate", "backup", "schedule", "desktop", "tool"},
		agents:     []string{AgentAutomation},
		confidence: 0.8,
		actions: []actionRule{
			{"backup", "backup"},
			{"desktop", "organize_desktop"},
			{"schedule", "schedule_task"},
			{"tool", "create_tool"},
		},
	},
	{
		intent:     IntentMemoryRecall,
		keywords:   []string{"remember", "recall", "previous", "last time"},
		agents:     []string{AgentMemory},
		confidence: 0.7,
	},
}

// Classify runs the rule cascade over text and returns the interpretation.
// After the cascade, the "organize my" override replaces (not unions) the
// agent set when the input also names a phone or a computer/files target.
// That replace-not-union behavior is observable and kept on purpose.
func Classify(text string) Interpretation {
	lower := strings.ToLower(text)

	interp := Interpretation{
		PrimaryIntent: IntentUnknown,
		Parameters:    map[string]string{},
	}

	for _, r := range rules {
		if !containsAny(lower, r.keywords) {
			continue
		}
		interp.PrimaryIntent = r.intent
		interp.AgentsNeeded = append([]string(nil), r.agents...)
		interp.Confidence = r.confidence
		for _, a := range r.actions {
			if strings.Contains(lower, a.trigger) {
				interp.Parameters["action"] = a.action
				break
			}
		}
		break
	}

	// Multi-agent override, triggered only by the literal phrase.
	if strings.Contains(lower, "organize my") {
		switch {
		case strings.Contains(lower, "phone"):
			interp.AgentsNeeded = []string{AgentPhone, AgentMemory}
		case strings.Contains(lower, "computer"), strings.Contains(lower, "files"):
			interp.AgentsNeeded = []string{AgentFile, AgentAutomation, AgentMemory}
		}
	}

	return interp
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
