package oaserrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// Each error type matches its category sentinel, and some reasons have their
// own sentinel so callers can branch without a type assertion.
var (
	// ErrNetwork indicates a remote fetch failed.
	ErrNetwork = errors.New("network error")

	// ErrTimeout indicates a network or filesystem call exceeded its deadline.
	ErrTimeout = errors.New("timeout")

	// ErrParse indicates a document could not be decoded or failed structural validation.
	ErrParse = errors.New("parse error")

	// ErrFilesystem indicates a local read or write failed.
	ErrFilesystem = errors.New("filesystem error")

	// ErrNotFound indicates a local source does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPermission indicates a local source or cache file is not accessible.
	ErrPermission = errors.New("permission denied")

	// ErrCodegen indicates code generation could not complete.
	ErrCodegen = errors.New("code generation error")

	// ErrConfig indicates an invalid configuration or input option.
	ErrConfig = errors.New("configuration error")

	// ErrCache indicates the cache file could not be read or written.
	ErrCache = errors.New("cache error")
)

// NetworkReason distinguishes network failure conditions.
type NetworkReason string

const (
	// NetworkConnection covers DNS, dial, TLS and read failures.
	NetworkConnection NetworkReason = "connection"
	// NetworkTimeout means the per-call deadline expired.
	NetworkTimeout NetworkReason = "timeout"
	// NetworkStatus means the server answered with a non-success status.
	NetworkStatus NetworkReason = "status"
)

// NetworkError represents a failure to fetch a remote document.
type NetworkError struct {
	// URL is the requested URL
	URL string
	// Reason distinguishes connection, timeout and status failures
	Reason NetworkReason
	// StatusCode is the HTTP status for NetworkStatus (0 otherwise)
	StatusCode int
	// Message provides additional context
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *NetworkError) Error() string {
	msg := "network error"
	if e.Reason != "" {
		msg += " (" + string(e.Reason) + ")"
	}
	if e.URL != "" {
		msg += " fetching " + e.URL
	}
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(": HTTP %d", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrNetwork, and ErrTimeout when Reason is NetworkTimeout.
func (e *NetworkError) Is(target error) bool {
	if target == ErrNetwork {
		return true
	}
	return target == ErrTimeout && e.Reason == NetworkTimeout
}

// ParseReason distinguishes parse failure conditions.
type ParseReason string

const (
	// ParseSyntax means the bytes are not valid JSON or YAML.
	ParseSyntax ParseReason = "syntax"
	// ParseVersion means the version discriminator is missing or unsupported.
	ParseVersion ParseReason = "version"
	// ParseStructure means structural validation failed.
	ParseStructure ParseReason = "structure"
)

// Violation is a single structural problem at a location in the source document.
type Violation struct {
	// Pointer is a JSON pointer into the source document (e.g. "/paths/~1pets/get")
	Pointer string `json:"pointer"`
	// Message describes the problem
	Message string `json:"message"`
	// Line is the 1-based source line (0 if unknown)
	Line int `json:"line,omitempty"`
	// Column is the 1-based source column (0 if unknown)
	Column int `json:"column,omitempty"`
}

// String returns "pointer: message" with the line appended when known.
func (v Violation) String() string {
	ptr := v.Pointer
	if ptr == "" {
		ptr = "/"
	}
	if v.Line > 0 {
		return fmt.Sprintf("%s (line %d): %s", ptr, v.Line, v.Message)
	}
	return ptr + ": " + v.Message
}

// ParseError represents a failure to parse or normalize a spec document.
type ParseError struct {
	// Source is the source identifier (path or URL), if known
	Source string
	// Reason distinguishes syntax, version and structure failures
	Reason ParseReason
	// Pointer is the JSON pointer of the (first) offending location
	Pointer string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Violations lists every structural violation found (ParseStructure only)
	Violations []Violation
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Pointer != "" {
		msg += " at " + e.Pointer
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if len(e.Violations) > 1 {
		msg += fmt.Sprintf(" (and %d more violation(s))", len(e.Violations)-1)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// FilesystemReason distinguishes filesystem failure conditions.
type FilesystemReason string

const (
	// FilesystemNotFound means the path does not exist.
	FilesystemNotFound FilesystemReason = "not-found"
	// FilesystemPermission means access was denied.
	FilesystemPermission FilesystemReason = "permission"
	// FilesystemIO covers every other read or write failure.
	FilesystemIO FilesystemReason = "io"
)

// FilesystemError represents a failure reading a local source.
type FilesystemError struct {
	// Path is the file path involved
	Path string
	// Op is the operation that failed ("read", "stat", ...)
	Op string
	// Reason distinguishes not-found, permission and other I/O failures
	Reason FilesystemReason
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *FilesystemError) Error() string {
	msg := "filesystem error"
	if e.Reason != "" {
		msg += " (" + string(e.Reason) + ")"
	}
	if e.Op != "" {
		msg += " during " + e.Op
	}
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *FilesystemError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrFilesystem, plus ErrNotFound or ErrPermission for those reasons.
func (e *FilesystemError) Is(target error) bool {
	switch target {
	case ErrFilesystem:
		return true
	case ErrNotFound:
		return e.Reason == FilesystemNotFound
	case ErrPermission:
		return e.Reason == FilesystemPermission
	}
	return false
}

// CodegenReason distinguishes code generation failure conditions.
type CodegenReason string

const (
	// CodegenUnsupported means a construct cannot be rendered for the target.
	CodegenUnsupported CodegenReason = "unsupported"
	// CodegenRender means template execution failed.
	CodegenRender CodegenReason = "render"
	// CodegenFormat means the emitted source could not be formatted.
	CodegenFormat CodegenReason = "format"
)

// CodegenError represents an unrecoverable code generation failure.
// Recoverable problems are reported as warnings on the generation result.
type CodegenError struct {
	// Target is the generation target identifier
	Target string
	// File is the output file being rendered, if any
	File string
	// Reason distinguishes unsupported, render and format failures
	Reason CodegenReason
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *CodegenError) Error() string {
	msg := "code generation error"
	if e.Target != "" {
		msg += " for target " + e.Target
	}
	if e.File != "" {
		msg += " in " + e.File
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *CodegenError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *CodegenError) Is(target error) bool {
	return target == ErrCodegen
}

// ConfigError represents an invalid configuration or input.
// This includes unknown generation targets, invalid style options and
// missing required inputs.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// CacheReason distinguishes cache failure conditions.
type CacheReason string

const (
	// CacheRead means the cache file exists but could not be read.
	CacheRead CacheReason = "read"
	// CacheWrite means the cache file could not be written.
	CacheWrite CacheReason = "write"
	// CacheCorrupted means the cache file could not be decoded.
	CacheCorrupted CacheReason = "corrupted"
	// CacheVersion means the cache file has an incompatible schema version.
	CacheVersion CacheReason = "version"
)

// CacheError represents a cache file problem. Callers degrade to operating
// without a cache rather than aborting.
type CacheError struct {
	// Path is the cache file path
	Path string
	// Reason distinguishes read, write, corruption and version problems
	Reason CacheReason
	// Message provides additional context
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *CacheError) Error() string {
	msg := "cache error"
	if e.Reason != "" {
		msg += " (" + string(e.Reason) + ")"
	}
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *CacheError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *CacheError) Is(target error) bool {
	return target == ErrCache
}

// Category names used at the tool boundary.
const (
	CategoryNetwork    = "network"
	CategoryParse      = "parse"
	CategoryFilesystem = "filesystem"
	CategoryCodegen    = "code-generation"
	CategoryConfig     = "configuration"
	CategoryCache      = "cache"
	CategoryInternal   = "internal"
)

// Category returns the boundary category of err, or CategoryInternal when err
// does not belong to any of the six categories. Returns "" for a nil error.
func Category(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrParse):
		return CategoryParse
	case errors.Is(err, ErrNetwork):
		return CategoryNetwork
	case errors.Is(err, ErrFilesystem):
		return CategoryFilesystem
	case errors.Is(err, ErrCodegen):
		return CategoryCodegen
	case errors.Is(err, ErrConfig):
		return CategoryConfig
	case errors.Is(err, ErrCache):
		return CategoryCache
	default:
		return CategoryInternal
	}
}

// NewStructureError builds a ParseError from a non-empty list of violations,
// pointing at the first one.
func NewStructureError(source string, violations []Violation) *ParseError {
	e := &ParseError{
		Source:     source,
		Reason:     ParseStructure,
		Violations: violations,
	}
	if len(violations) > 0 {
		e.Pointer = violations[0].Pointer
		e.Line = violations[0].Line
		e.Column = violations[0].Column
		e.Message = violations[0].Message
	}
	return e
}

// Describe renders every violation of a ParseError on its own line.
// For other errors it returns err.Error().
func Describe(err error) string {
	var pe *ParseError
	if !errors.As(err, &pe) || len(pe.Violations) == 0 {
		if err == nil {
			return ""
		}
		return err.Error()
	}
	var b strings.Builder
	b.WriteString(pe.Error())
	for _, v := range pe.Violations {
		b.WriteString("\n  - ")
		b.WriteString(v.String())
	}
	return b.String()
}
