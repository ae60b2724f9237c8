package extraction

import (
	"encoding/json"
	"strings"
)

// transcriptEntry matches the role/content pairs of the malformed shape
type transcriptEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// normalizeReply works around an upstream quirk: one integration variant
// returns the whole conversation serialized as a JSON list of role/content
// pairs instead of the plain reply that was requested. When the reply parses
// as such a transcript, the actual answer is the content of its last entry.
// Anything else passes through untouched.
func normalizeReply(reply string) string {
	trimmed := strings.TrimSpace(reply)
	if !strings.HasPrefix(trimmed, "[") {
		return reply
	}

	var entries []transcriptEntry
	if err := json.Unmarshal([]byte(trimmed), &entries); err != nil {
		return reply
	}
	if len(entries) == 0 {
		return reply
	}

	last := entries[len(entries)-1]
	if last.Role == "" || last.Content == "" {
		return reply
	}
	return last.Content
}
