// Package errmsg formats errors for the status line.
package errmsg

import (
	"context"
	"errors"
	"fmt"
)

// Op represents an operation that can fail.
type Op string

const (
	// Navigation
	OpLoadPackages Op = "load packages"
	OpLoadToc      Op = "load table of contents"
	OpOpenPage     Op = "open page"
	OpSearch       Op = "search"
	OpShowResults  Op = "show more results"

	// Config
	OpLoadConfig Op = "load config"
	OpSaveConfig Op = "save config"

	// Viewing
	OpPager Op = "open pager"

	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %s", op, describe(err))
}

// FormatWith creates an error message naming what the operation was
// applied to.
func FormatWith(op Op, subject string, err error) string {
	if err == nil {
		return ""
	}
	if subject == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %s", op, subject, describe(err))
}

func describe(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	}
	return err.Error()
}
