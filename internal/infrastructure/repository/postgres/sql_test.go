package postgres

import (
	"database/sql"
	"fmt"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "no rows", err: sql.ErrNoRows, want: true},
		{name: "wrapped no rows", err: fmt.Errorf("query team: %w", sql.ErrNoRows), want: true},
		{name: "other error", err: fmt.Errorf("connection refused"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNotFound(tt.err); got != tt.want {
				t.Fatalf("isNotFound(%v)=%v want=%v", tt.err, got, tt.want)
			}
		})
	}
}
