package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When a paste or post operation fails, the editor shows the message and the
// code so users can quote it to support staff.
//
// Sentinel errors of this package are matched first with errors.Is, so
// wrapping never changes their code. Everything else falls through to the
// case-insensitive pattern table.
//
// # Paste Errors (PASTE001-PASTE099)
//
//	PASTE001 - Paste too large: text and html exceed PASTE_MAX_BYTES
//	PASTE002 - Empty paste: the clipboard carried nothing to insert
//	PASTE003 - Invalid target: a cell paste arrived without a cell id
//	PASTE004 - System busy: every paste slot stayed occupied for PASTE_MAX_WAIT_TIME
//
// # Post Errors (POST001-POST099)
//
//	POST001 - Post not found
//	POST002 - Content too large: post content exceeds POST_MAX_CONTENT_BYTES
//
// # Table Errors (TBL001-TBL099)
//
//	TBL001 - Table not found: the post holds no table with that id
//	TBL002 - Invalid column: a column index was negative
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled      Patterns: "context canceled"
//	REQ002 - Request timed out      Patterns: "context deadline exceeded"
//	REQ003 - Malformed request      Patterns: "invalid request"
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key           Patterns: "duplicate key"
//	DB002 - Unique constraint       Patterns: "unique constraint", "violates unique"
//	DB003 - Foreign key             Patterns: "foreign key constraint", "violates foreign key"
//	DB004 - Connection refused      Patterns: "connection refused"
//	DB005 - Connection reset        Patterns: "connection reset"
//	DB006 - Timeout                 Patterns: "timeout"
//	DB007 - Deadlock                Patterns: "deadlock"
//
// # Access Errors (AUTH001-AUTH099, RATE001-RATE099)
//
//	AUTH001 - Missing API key       Patterns: "missing api key"
//	AUTH002 - Invalid API key       Patterns: "invalid api key"
//	RATE001 - Rate limited          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Support staff should check application logs
// for the original technical error when users report ERR000.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// sentinelMessages maps errors matched with errors.Is. Order matters only
// when one error wraps several sentinels.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrPasteTooLarge, UserMessage{
		Message: "The pasted content is too large",
		Action:  "Paste a smaller selection",
		Code:    "PASTE001",
	}},
	{ErrEmptyPaste, UserMessage{
		Message: "The clipboard was empty",
		Action:  "Copy something and paste again",
		Code:    "PASTE002",
	}},
	{ErrInvalidTarget, UserMessage{
		Message: "The paste target is not valid",
		Action:  "Click into the cell and paste again",
		Code:    "PASTE003",
	}},
	{ErrUnknownFormat, UserMessage{
		Message: "The table format is not recognised",
		Action:  "Use one of markdown, tsv, csv, space, dash or html",
		Code:    "PASTE005",
	}},
	{ErrTooManyPastes, UserMessage{
		Message: "System is busy processing other pastes",
		Action:  "Please wait a moment and try again",
		Code:    "PASTE004",
	}},
	{ErrPostNotFound, UserMessage{
		Message: "Post not found",
		Action:  "The post may have been deleted. Reload the page",
		Code:    "POST001",
	}},
	{ErrContentTooLarge, UserMessage{
		Message: "The post is too large to save",
		Action:  "Split the content into several posts",
		Code:    "POST002",
	}},
	{ErrTableNotFound, UserMessage{
		Message: "Table not found",
		Action:  "Reload the post; the table may have been removed",
		Code:    "TBL001",
	}},
	{ErrInvalidColumn, UserMessage{
		Message: "Invalid column",
		Action:  "Drag the column onto another column of the same table",
		Code:    "TBL002",
	}},
	{context.Canceled, UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "REQ001",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Request timed out",
		Action:  "Please try again",
		Code:    "REQ002",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Patterns are matched using strings.Contains, so partial matches work.
// The first matching pattern wins, so more specific patterns come first.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Request Errors (REQ001-REQ003)
	// Cancellation text also arrives from drivers that do not wrap the
	// context error.
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request could not be understood",
			Action:  "Reload the editor and try again",
			Code:    "REQ003",
		},
	},

	// =========================================================================
	// Database Constraint Errors (DB001-DB003)
	// =========================================================================
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this ID already exists",
			Action:  "Reload the page and try again",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Reload the page and try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A duplicate value was found",
			Action:  "Reload the page and try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "foreign key constraint",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Reload the page; the post may have been deleted",
			Code:    "DB003",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Reload the page; the post may have been deleted",
			Code:    "DB003",
		},
	},

	// =========================================================================
	// Database Connection Errors (DB004-DB007)
	// =========================================================================
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},

	// =========================================================================
	// Access Errors (AUTH001-AUTH002, RATE001)
	// =========================================================================
	{
		pattern: "missing api key",
		msg: UserMessage{
			Message: "API key required",
			Action:  "Send the X-API-Key header or an Authorization bearer token",
			Code:    "AUTH001",
		},
	},
	{
		pattern: "invalid api key",
		msg: UserMessage{
			Message: "Invalid API key",
			Action:  "Check the key configured for this client",
			Code:    "AUTH002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Sentinel errors are checked first, then the pattern table. If nothing
// matches, a generic fallback message with code ERR000 is returned.
//
// Example:
//
//	err := fmt.Errorf("get post %s: %w", id, ErrPostNotFound)
//	msg := MapError(err)
//	// msg.Code == "POST001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ue *UserError
	if errors.As(err, &ue) {
		return ue.User
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a
// user-friendly message. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
