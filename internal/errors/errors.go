// Package errors defines the closed error taxonomy returned by the snapshot
// engine's public entry points.
package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes.
type ErrorCode string

const (
	// ParserErrorCode indicates a parser failed on a specific file; non-fatal,
	// the file is skipped and its hash preserved.
	ParserErrorCode ErrorCode = "PARSER_ERROR"
	// DuplicateParser indicates register() was called with a name already held.
	DuplicateParser ErrorCode = "DUPLICATE_PARSER"
	// ParserNotFound indicates no registered parser matches the lookup key.
	ParserNotFound ErrorCode = "PARSER_NOT_FOUND"
	// IncompatibleVersion indicates a parser's version does not satisfy a
	// caller's required version.
	IncompatibleVersion ErrorCode = "INCOMPATIBLE_VERSION"
	// ParserInitialization indicates a parser failed to construct (e.g. an
	// external-process parser's binary could not be spawned).
	ParserInitialization ErrorCode = "PARSER_INITIALIZATION"
	// ParserFactory indicates a registered factory function itself failed.
	ParserFactory ErrorCode = "PARSER_FACTORY"
	// FileErrorCode indicates an I/O fault reading or writing a file.
	FileErrorCode ErrorCode = "FILE_ERROR"
	// ValidationError indicates bad input to a public entry point.
	ValidationError ErrorCode = "VALIDATION_ERROR"
	// ConfigError indicates a snapshot-load or config-file schema violation.
	ConfigError ErrorCode = "CONFIG_ERROR"
)

// FixActionType represents the type of fix action.
type FixActionType string

const (
	// RunCommand suggests running a command.
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation.
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error.
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
}

// SnapshotError is the error type returned by every public entry point in
// this module. Its JSON projection is the CLI's user-visible failure object.
type SnapshotError struct {
	Code           ErrorCode   `json:"kind"`
	Message        string      `json:"message"`
	FilePath       string      `json:"filePath,omitempty"`
	Line           int         `json:"line,omitempty"`
	Column         int         `json:"column,omitempty"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error
}

// New creates a new SnapshotError.
func New(code ErrorCode, message string, cause error) *SnapshotError {
	return &SnapshotError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Error implements the error interface.
func (e *SnapshotError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *SnapshotError) Unwrap() error {
	return e.cause
}

// WithDetails attaches arbitrary structured details and returns the receiver.
func (e *SnapshotError) WithDetails(details interface{}) *SnapshotError {
	e.Details = details
	return e
}

// WithLocation attaches a source location and returns the receiver.
func (e *SnapshotError) WithLocation(filePath string, line, column int) *SnapshotError {
	e.FilePath = filePath
	e.Line = line
	e.Column = column
	return e
}

// ErrorActions maps error codes to suggested fix actions.
var ErrorActions = map[ErrorCode][]FixAction{
	ParserNotFound: {
		{
			Type:        RunCommand,
			Command:     "codesnap parsers list",
			Safe:        true,
			Description: "List registered parsers and their supported extensions",
		},
	},
	IncompatibleVersion: {
		{
			Type:        OpenDocs,
			Description: "Pin the parser version constraint to the major version actually registered",
		},
	},
	ConfigError: {
		{
			Type:        RunCommand,
			Command:     "codesnap validate",
			Safe:        true,
			Description: "Validate the snapshot or config file against the expected schema",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code.
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}

// NewParserError creates a ParserError carrying a source location.
func NewParserError(filePath string, line, column int, syntaxElement string, cause error) *SnapshotError {
	e := New(ParserErrorCode, fmt.Sprintf("failed to parse %s", filePath), cause)
	e.WithLocation(filePath, line, column)
	if syntaxElement != "" {
		e.Details = map[string]interface{}{"syntaxElement": syntaxElement}
	}
	return e
}

// NewDuplicateParserError creates a DuplicateParser error.
func NewDuplicateParserError(name string) *SnapshotError {
	return New(DuplicateParser, fmt.Sprintf("a parser named %q is already registered", name), nil)
}

// NewParserNotFoundError creates a ParserNotFound error for a lookup key.
func NewParserNotFoundError(kind, key string) *SnapshotError {
	return New(ParserNotFound, fmt.Sprintf("no parser registered for %s %q", kind, key), nil)
}

// NewIncompatibleVersionError creates an IncompatibleVersion error.
func NewIncompatibleVersionError(name, required, actual string) *SnapshotError {
	e := New(IncompatibleVersion, fmt.Sprintf("parser %q version %s does not satisfy required %s", name, actual, required), nil)
	e.Details = map[string]interface{}{"required": required, "actual": actual}
	return e
}

// NewFileError creates a FileError for a failed I/O operation.
func NewFileError(filePath, operation string, cause error) *SnapshotError {
	e := New(FileErrorCode, fmt.Sprintf("%s failed for %s", operation, filePath), cause)
	e.FilePath = filePath
	return e
}

// NewValidationError creates a ValidationError for a bad input field.
func NewValidationError(field string, value interface{}, cause error) *SnapshotError {
	e := New(ValidationError, fmt.Sprintf("invalid value for %s", field), cause)
	e.Details = map[string]interface{}{"field": field, "value": value}
	return e
}

// NewConfigError creates a ConfigError for a schema violation.
func NewConfigError(configPath, expectedType string, cause error) *SnapshotError {
	e := New(ConfigError, fmt.Sprintf("%s does not satisfy expected shape %s", configPath, expectedType), cause)
	e.Details = map[string]interface{}{"configPath": configPath, "expectedType": expectedType}
	return e
}

// WrapError wraps an error with the given code, preserving the cause chain.
func WrapError(code ErrorCode, message string, cause error) *SnapshotError {
	return New(code, message, cause)
}
