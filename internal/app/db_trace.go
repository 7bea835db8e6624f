package app

import (
	"regexp"
	"strings"
)

// Span attributes have provider-side size limits; long statement bodies
// (seeded JSONB documents in particular) get cut off.
const tracedQueryLimit = 512

var sqlWhitespace = regexp.MustCompile(`\s+`)

// formatDBQueryForTrace flattens a SQL statement to a single line and caps
// its length before it is attached to a database span.
func formatDBQueryForTrace(query string) string {
	flat := sqlWhitespace.ReplaceAllString(strings.TrimSpace(query), " ")
	if len(flat) > tracedQueryLimit {
		return flat[:tracedQueryLimit] + "..."
	}

	return flat
}
