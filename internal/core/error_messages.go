// Package core provides the tabular view engine.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Error codes are grouped by category:
//
// # Configuration Errors (CFG001-CFG099)
//
// Errors raised while building an engine, schema or export:
//
//	CFG001 - Invalid page size: Page size must be a positive number
//	         Action: Choose a page size of at least 1
//	         Patterns: "invalid page size"
//
//	CFG002 - Missing schema: No columns are defined for this view
//	         Action: Define at least one column for the dataset
//	         Patterns: "missing column schema", "empty column key"
//
//	CFG003 - Duplicate column: Two columns share the same key
//	         Action: Give every column a unique key
//	         Patterns: "duplicate column key"
//
//	CFG004 - Duplicate row id: Two rows share the same identifier
//	         Action: Check the identifier column for repeated values
//	         Patterns: "duplicate row id"
//
//	CFG005 - Invalid delimiter: The export delimiter cannot be used
//	         Action: Use a single character other than a quote or line break
//	         Patterns: "invalid export delimiter"
//
// # Row Errors (ROW001-ROW099)
//
// Errors raised when routing row actions:
//
//	ROW001 - Row not found: The row is no longer part of this view
//	         Action: Refresh the view and try again
//	         Patterns: "row not found"
//
//	ROW002 - No handler: Row actions are not available for this view
//	         Action: Contact an administrator to enable row actions
//	         Patterns: "no row action host"
//
//	ROW003 - Unknown action: The requested row action is not supported
//	         Action: Use edit, delete, view or save
//	         Patterns: "unknown row action"
//
// # Source Errors (SRC001-SRC099)
//
// Errors raised while loading datasets and addressing views:
//
//	SRC001 - Dataset not found: The requested dataset does not exist
//	         Action: Verify the dataset name is correct
//	         Patterns: "dataset not found"
//
//	SRC002 - Dataset exists: A dataset with this name is already loaded
//	         Action: Rename one of the dataset files
//	         Patterns: "dataset already registered"
//
//	SRC003 - Invalid CSV: File is not a valid CSV
//	         Action: Ensure file is delimited with consistent columns
//	         Patterns: "invalid csv"
//
//	SRC004 - Invalid document: Dataset document could not be parsed
//	         Action: Check the YAML syntax of the dataset file
//	         Patterns: "invalid dataset document"
//
//	SRC005 - View expired: The view session no longer exists
//	         Action: Open the dataset again to start a new view
//	         Patterns: "view not found"
//
//	SRC006 - File too large: Dataset file exceeds the size limit
//	         Action: Split the file or raise DATA_MAX_FILE_SIZE
//	         Patterns: "dataset file too large"
//
//	SRC007 - Unsupported format: Dataset format is not supported
//	         Action: Use a .csv, .tsv, .yaml or .yml file
//	         Patterns: "unsupported dataset format"
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Connection refused: Unable to connect to database
//	        Action: Please try again in a few moments
//	        Patterns: "connection refused"
//
//	DB002 - Connection reset: Database connection was interrupted
//	        Action: Please try again
//	        Patterns: "connection reset"
//
//	DB003 - Missing relation: The table does not exist in the database
//	        Action: Check the configured table names
//	        Patterns: "does not exist"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	REQ002 - Request timeout: Request timed out
//	         Action: Try again or narrow the view with a filter
//	         Patterns: "context deadline exceeded", "timeout"
//
//	REQ003 - System busy: Too many exports in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many concurrent exports"
//
//	REQ004 - Too many views: The server has reached its open view limit
//	         Action: Close unused views or try again later
//	         Patterns: "too many open views"
//
//	REQ005 - Bad request: The request body could not be read
//	         Action: Send a JSON body with the documented fields
//	         Patterns: "invalid request body"
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
//	         Action: Please try again or contact support
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones. Multiple patterns can map to the same code.
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

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Configuration Errors (CFG001-CFG005)
	// =========================================================================
	{
		pattern: "invalid page size",
		msg: UserMessage{
			Message: "Page size must be a positive number",
			Action:  "Choose a page size of at least 1",
			Code:    "CFG001",
		},
	},
	{
		pattern: "missing column schema",
		msg: UserMessage{
			Message: "No columns are defined for this view",
			Action:  "Define at least one column for the dataset",
			Code:    "CFG002",
		},
	},
	{
		pattern: "empty column key",
		msg: UserMessage{
			Message: "No columns are defined for this view",
			Action:  "Define at least one column for the dataset",
			Code:    "CFG002",
		},
	},
	{
		pattern: "duplicate column key",
		msg: UserMessage{
			Message: "Two columns share the same key",
			Action:  "Give every column a unique key",
			Code:    "CFG003",
		},
	},
	{
		pattern: "duplicate row id",
		msg: UserMessage{
			Message: "Two rows share the same identifier",
			Action:  "Check the identifier column for repeated values",
			Code:    "CFG004",
		},
	},
	{
		pattern: "invalid export delimiter",
		msg: UserMessage{
			Message: "The export delimiter cannot be used",
			Action:  "Use a single character other than a quote or line break",
			Code:    "CFG005",
		},
	},

	// =========================================================================
	// Row Errors (ROW001-ROW003)
	// =========================================================================
	{
		pattern: "row not found",
		msg: UserMessage{
			Message: "The row is no longer part of this view",
			Action:  "Refresh the view and try again",
			Code:    "ROW001",
		},
	},
	{
		pattern: "no row action host",
		msg: UserMessage{
			Message: "Row actions are not available for this view",
			Action:  "Contact an administrator to enable row actions",
			Code:    "ROW002",
		},
	},
	{
		pattern: "unknown row action",
		msg: UserMessage{
			Message: "The requested row action is not supported",
			Action:  "Use edit, delete, view or save",
			Code:    "ROW003",
		},
	},

	// =========================================================================
	// Source Errors (SRC001-SRC007)
	// =========================================================================
	{
		pattern: "dataset not found",
		msg: UserMessage{
			Message: "The requested dataset does not exist",
			Action:  "Verify the dataset name is correct",
			Code:    "SRC001",
		},
	},
	{
		pattern: "dataset already registered",
		msg: UserMessage{
			Message: "A dataset with this name is already loaded",
			Action:  "Rename one of the dataset files",
			Code:    "SRC002",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure file is delimited with consistent columns",
			Code:    "SRC003",
		},
	},
	{
		pattern: "invalid dataset document",
		msg: UserMessage{
			Message: "Dataset document could not be parsed",
			Action:  "Check the YAML syntax of the dataset file",
			Code:    "SRC004",
		},
	},
	{
		pattern: "view not found",
		msg: UserMessage{
			Message: "The view session no longer exists",
			Action:  "Open the dataset again to start a new view",
			Code:    "SRC005",
		},
	},
	{
		pattern: "dataset file too large",
		msg: UserMessage{
			Message: "Dataset file exceeds the size limit",
			Action:  "Split the file or raise DATA_MAX_FILE_SIZE",
			Code:    "SRC006",
		},
	},
	{
		pattern: "unsupported dataset format",
		msg: UserMessage{
			Message: "Dataset format is not supported",
			Action:  "Use a .csv, .tsv, .yaml or .yml file",
			Code:    "SRC007",
		},
	},

	// =========================================================================
	// Database Errors (DB001-DB003)
	// =========================================================================
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "does not exist",
		msg: UserMessage{
			Message: "The table does not exist in the database",
			Action:  "Check the configured table names",
			Code:    "DB003",
		},
	},

	// =========================================================================
	// Request Errors (REQ001-REQ005)
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
			Action:  "Try again or narrow the view with a filter",
			Code:    "REQ002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try again or narrow the view with a filter",
			Code:    "REQ002",
		},
	},
	{
		pattern: "too many concurrent exports",
		msg: UserMessage{
			Message: "System is busy processing other exports",
			Action:  "Please wait a moment and try again",
			Code:    "REQ003",
		},
	},
	{
		pattern: "too many open views",
		msg: UserMessage{
			Message: "The server has reached its open view limit",
			Action:  "Close unused views or try again later",
			Code:    "REQ004",
		},
	},
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "The request body could not be read",
			Action:  "Send a JSON body with the documented fields",
			Code:    "REQ005",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	msg := MapError(fmt.Errorf("new engine: %w", ErrInvalidPageSize))
//	// msg.Code == "CFG001"
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

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
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

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
