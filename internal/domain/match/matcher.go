package match

import (
	"sort"
	"strings"
)

// FindParticipant joins a registry display name against the free-text
// participant keys of one match record. The upstream feed keys entries by
// arbitrary identifiers that may embed the username, so matching is a
// best-effort text search with an explicit precedence:
//
//  1. a key equal to the name (case-insensitive),
//  2. an embedded Username field equal to the name,
//  3. a key containing the name as a substring.
//
// Within each tier keys are scanned in sorted order, so "first match wins"
// is deterministic rather than subject to map iteration order. At most one
// entry is returned per record.
func FindParticipant(rec Record, name string) (ParticipantStats, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || len(rec.Players) == 0 {
		return ParticipantStats{}, false
	}

	keys := make([]string, 0, len(rec.Players))
	for key := range rec.Players {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if strings.ToLower(key) == name {
			return rec.Players[key], true
		}
	}
	for _, key := range keys {
		if strings.ToLower(strings.TrimSpace(rec.Players[key].Username)) == name {
			return rec.Players[key], true
		}
	}
	for _, key := range keys {
		if strings.Contains(strings.ToLower(key), name) {
			return rec.Players[key], true
		}
	}

	return ParticipantStats{}, false
}
