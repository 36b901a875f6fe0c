// Package pack assembles notification sound packs from directories of
// normalized audio files.
package pack

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Logical notification events a pack can cover.
const (
	EventStop             = "stop"
	EventPermissionPrompt = "permission_prompt"
	EventIdlePrompt       = "idle_prompt"
	EventSubagent         = "subagent"
)

// EventKeywords binds one event to its ordered candidate keywords.
// Keyword order is significant: the first keyword that matches any file
// wins.
type EventKeywords struct {
	Event    string   `yaml:"event"`
	Keywords []string `yaml:"keywords"`
}

// EventKeywordTable is the ordered event-to-keywords mapping driving
// file selection. It is static configuration, read-only once built.
type EventKeywordTable struct {
	Events []EventKeywords
}

// DefaultKeywordTable returns the built-in table.
func DefaultKeywordTable() EventKeywordTable {
	return EventKeywordTable{Events: []EventKeywords{
		{Event: EventStop, Keywords: []string{"stop", "notification", "bell", "complete"}},
		{Event: EventPermissionPrompt, Keywords: []string{"permission", "prompt", "alert", "question"}},
		{Event: EventIdlePrompt, Keywords: []string{"idle", "waiting", "soft", "gentle"}},
		{Event: EventSubagent, Keywords: []string{"subagent", "agent", "task", "chime"}},
	}}
}

// LoadKeywordTable reads a keyword table override from a YAML file of
// the form:
//
//	- event: stop
//	  keywords: [stop, bell, complete]
func LoadKeywordTable(path string) (EventKeywordTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return EventKeywordTable{}, err
	}

	var events []EventKeywords
	if err := yaml.Unmarshal(data, &events); err != nil {
		return EventKeywordTable{}, fmt.Errorf("failed to parse keyword table: %w", err)
	}

	for _, e := range events {
		if e.Event == "" {
			return EventKeywordTable{}, fmt.Errorf("keyword table entry with empty event in %s", path)
		}
	}
	return EventKeywordTable{Events: events}, nil
}
