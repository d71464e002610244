// Package core provides the business logic for guild tag lookups.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code when reporting a
// problem.
//
// # Load Errors (LOAD001-LOAD099)
//
// Errors related to reading the map data file:
//
//	LOAD001 - File not found: The map data file could not be found
//	          Action: Make sure the CSV is in the same folder
//	          Patterns: "no such file", "cannot find the file"
//
//	LOAD002 - Fetch failed: The map data file could not be downloaded
//	          Action: Check the data URL and your connection
//	          Patterns: "fetch failed"
//
//	LOAD003 - Bad status: The data server refused the request
//	          Action: Check the data URL
//	          Patterns: "unexpected status"
//
//	LOAD004 - Empty file: The map data file is empty
//	          Action: Regenerate the file with the scrape command
//	          Patterns: "empty data file"
//
//	LOAD005 - File too large: The map data file exceeds the size limit
//	          Action: Raise DATA_MAX_BYTES or check the file
//	          Patterns: "data file too large"
//
//	LOAD006 - Not loaded: The map data is still loading
//	          Action: Please try again in a moment
//	          Patterns: "table not loaded"
//
//	LOAD007 - Permission denied: The map data file cannot be read
//	          Action: Check file permissions
//	          Patterns: "permission denied"
//
// # Tag Errors (TAG001-TAG099)
//
//	TAG001 - Empty character: No character was chosen
//	         Action: Pick a character from the table
//	         Patterns: "empty character"
//
// # Scrape Errors (SCR001-SCR099)
//
//	SCR001 - No entries: No maps were found on the page
//	         Action: The page structure may have changed
//	         Patterns: "no map entries found"
//
// # Request Errors (UPL004-UPL005)
//
//	UPL004 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	UPL005 - Request timeout: Request timed out
//	         Action: Please try again
//	         Patterns: "context deadline exceeded", "timeout"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns are listed
// before general ones.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgFileNotFound = UserMessage{
		Message: "The map data file could not be found",
		Action:  "Make sure the CSV is in the same folder",
		Code:    "LOAD001",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Please try again",
		Code:    "UPL005",
	}
)

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Load state (LOAD004-LOAD006)
	// Checked first: these wrap more general errors.
	// =========================================================================
	{
		pattern: "table not loaded",
		msg: UserMessage{
			Message: "The map data is still loading",
			Action:  "Please try again in a moment",
			Code:    "LOAD006",
		},
	},
	{
		pattern: "data file too large",
		msg: UserMessage{
			Message: "The map data file exceeds the size limit",
			Action:  "Raise DATA_MAX_BYTES or check the file",
			Code:    "LOAD005",
		},
	},
	{
		pattern: "empty data file",
		msg: UserMessage{
			Message: "The map data file is empty",
			Action:  "Regenerate the file with the scrape command",
			Code:    "LOAD004",
		},
	},

	// =========================================================================
	// File access (LOAD001, LOAD007)
	// =========================================================================
	{pattern: "no such file", msg: msgFileNotFound},
	{pattern: "cannot find the file", msg: msgFileNotFound},
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "The map data file cannot be read",
			Action:  "Check file permissions",
			Code:    "LOAD007",
		},
	},

	// =========================================================================
	// Remote data (LOAD002-LOAD003)
	// =========================================================================
	{
		pattern: "unexpected status",
		msg: UserMessage{
			Message: "The data server refused the request",
			Action:  "Check the data URL",
			Code:    "LOAD003",
		},
	},

	// =========================================================================
	// Request lifecycle (UPL004-UPL005)
	// Before "fetch failed" so a timed out download reports the timeout.
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{pattern: "context deadline exceeded", msg: msgTimeout},
	{pattern: "timeout", msg: msgTimeout},

	{
		pattern: "fetch failed",
		msg: UserMessage{
			Message: "The map data file could not be downloaded",
			Action:  "Check the data URL and your connection",
			Code:    "LOAD002",
		},
	},

	// =========================================================================
	// Tag and scrape errors
	// =========================================================================
	{
		pattern: "empty character",
		msg: UserMessage{
			Message: "No character was chosen",
			Action:  "Pick a character from the table",
			Code:    "TAG001",
		},
	},
	{
		pattern: "no map entries found",
		msg: UserMessage{
			Message: "No maps were found on the page",
			Action:  "The page structure may have changed",
			Code:    "SCR001",
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

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns the zero UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError returns a one-line message for display, including the code.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the generic fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
