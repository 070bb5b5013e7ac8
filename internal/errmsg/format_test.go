package errmsg

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{"nil error returns empty string", OpOpenPage, nil, ""},
		{"formats error with operation", OpOpenPage, errors.New("not found"), "Failed to open page: not found"},
		{"search", OpSearch, errors.New("bad gateway"), "Failed to search: bad gateway"},
		{"timeout", OpLoadToc, fmt.Errorf("toc for manual: %w", context.DeadlineExceeded), "Failed to load table of contents: request timed out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.op, tt.err))
		})
	}
}

func TestFormatWith(t *testing.T) {
	err := errors.New("index unavailable")

	assert.Equal(t, "Failed to search 'legacy': index unavailable", FormatWith(OpSearch, "legacy", err))
	assert.Equal(t, "Failed to search: index unavailable", FormatWith(OpSearch, "", err))
	assert.Empty(t, FormatWith(OpSearch, "legacy", nil))
}
