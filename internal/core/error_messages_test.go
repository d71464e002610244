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
			name:        "os missing file message",
			err:         errors.New("open data file: open maps.csv: no such file or directory"),
			wantCode:    "LOAD001",
			wantMessage: "The map data file could not be found",
		},
		{
			name:        "not loaded",
			err:         ErrNotLoaded,
			wantCode:    "LOAD006",
			wantMessage: "The map data is still loading",
		},
		{
			name:        "too large",
			err:         fmt.Errorf("maps.csv: %w (limit 10 bytes)", ErrTooLarge),
			wantCode:    "LOAD005",
			wantMessage: "The map data file exceeds the size limit",
		},
		{
			name:        "empty file",
			err:         fmt.Errorf("maps.csv: %w", ErrEmptyData),
			wantCode:    "LOAD004",
			wantMessage: "The map data file is empty",
		},
		{
			name:        "bad status",
			err:         fmt.Errorf("fetch http://x: %w 404", ErrBadStatus),
			wantCode:    "LOAD003",
			wantMessage: "The data server refused the request",
		},
		{
			name:        "fetch timeout reports timeout",
			err:         fmt.Errorf("fetch failed: %w", context.DeadlineExceeded),
			wantCode:    "UPL005",
			wantMessage: "Request timed out",
		},
		{
			name:        "fetch failure",
			err:         errors.New("fetch failed: dial tcp: connection refused"),
			wantCode:    "LOAD002",
			wantMessage: "The map data file could not be downloaded",
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
			err:         errors.New("EMPTY CHARACTER"),
			wantCode:    "TAG001",
			wantMessage: "No character was chosen",
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
	result := FormatUserError(ErrEmptyData)

	expected := "The map data file is empty (Code: LOAD004). Regenerate the file with the scrape command"
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
			name: "known error is user facing",
			err:  ErrNotLoaded,
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
