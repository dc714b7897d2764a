package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "wrapped post not found",
			err:         fmt.Errorf("get post abc: %w", ErrPostNotFound),
			wantCode:    "POST001",
			wantMessage: "Post not found",
		},
		{
			name:        "paste too large",
			err:         fmt.Errorf("%w: 5000000 bytes exceeds limit of 1048576", ErrPasteTooLarge),
			wantCode:    "PASTE001",
			wantMessage: "The pasted content is too large",
		},
		{
			name:        "forced conversion without format",
			err:         fmt.Errorf("%w: a table format is required", ErrUnknownFormat),
			wantCode:    "PASTE005",
			wantMessage: "The table format is not recognised",
		},
		{
			name:        "limiter busy",
			err:         ErrTooManyPastes,
			wantCode:    "PASTE004",
			wantMessage: "System is busy processing other pastes",
		},
		{
			name:        "table not found wins over text",
			err:         fmt.Errorf("reorder columns: %w: t1", ErrTableNotFound),
			wantCode:    "TBL001",
			wantMessage: "Table not found",
		},
		{
			name:        "deadline sentinel beats timeout pattern",
			err:         fmt.Errorf("query timeout: %w", context.DeadlineExceeded),
			wantCode:    "REQ002",
			wantMessage: "Request timed out",
		},
		{
			name:        "cancelled text without wrapping",
			err:         errors.New("read tcp: context canceled"),
			wantCode:    "REQ001",
			wantMessage: "Request was cancelled",
		},
		{
			name:        "duplicate key maps correctly",
			err:         errors.New("ERROR: duplicate key value violates unique constraint"),
			wantCode:    "DB001",
			wantMessage: "A record with this ID already exists",
		},
		{
			name:        "unique constraint maps correctly",
			err:         errors.New("ERROR: unique constraint violated"),
			wantCode:    "DB002",
			wantMessage: "This value must be unique but already exists",
		},
		{
			name:        "connection refused maps correctly",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    "DB004",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "invalid api key",
			err:         errors.New("invalid api key"),
			wantCode:    "AUTH002",
			wantMessage: "Invalid API key",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("DEADLOCK detected"),
			wantCode:    "DB007",
			wantMessage: "Database was busy with conflicting operations",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrEmptyPaste)

	expected := "The clipboard was empty (Code: PASTE002). Copy something and paste again"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "sentinel is user facing",
			err:  fmt.Errorf("wrapped: %w", ErrInvalidColumn),
			want: true,
		},
		{
			name: "known pattern is user facing",
			err:  errors.New("duplicate key"),
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("delete post: %w", ErrPostNotFound)
		userErr := NewUserError(techErr)

		if userErr.Error() != "Post not found" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, ErrPostNotFound) {
			t.Error("Unwrap() should expose the original error chain")
		}
	})

	t.Run("mapping a user error keeps its message", func(t *testing.T) {
		ue := &UserError{
			Technical: errors.New("boom"),
			User:      UserMessage{Message: "Custom", Action: "Do it", Code: "X1"},
		}
		if got := MapError(fmt.Errorf("outer: %w", ue)); got.Code != "X1" {
			t.Errorf("MapError() code = %q, want X1", got.Code)
		}
	})
}
