package compose

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode is a stable identifier for a failure, suitable for tests and
// for callers that branch on the kind of error.
type ErrorCode string

// Error codes grouped by error category
const (
	// Configuration errors
	CodeUnknownStyle  ErrorCode = "UNKNOWN_STYLE"
	CodeInvalidStyle  ErrorCode = "INVALID_STYLE"
	CodeInvalidColor  ErrorCode = "INVALID_COLOR"
	CodeInvalidConfig ErrorCode = "INVALID_CONFIG"

	// Shape errors
	CodeInvalidHeadingLevel ErrorCode = "INVALID_HEADING_LEVEL"
	CodeTableShapeMismatch  ErrorCode = "TABLE_SHAPE_MISMATCH"
	CodeInvalidListLevel    ErrorCode = "INVALID_LIST_LEVEL"
	CodeEmptyTable          ErrorCode = "EMPTY_TABLE"
	CodeUnknownBlock        ErrorCode = "UNKNOWN_BLOCK"

	// State errors
	CodeDocumentClosed ErrorCode = "DOCUMENT_CLOSED"
	CodeStylesFrozen   ErrorCode = "STYLES_FROZEN"
	CodeNotFinalized   ErrorCode = "NOT_FINALIZED"
	CodePatch          ErrorCode = "PATCH_ERROR"

	// I/O errors
	CodeIO ErrorCode = "IO_ERROR"
)

// noBlock marks an error that is not tied to a content block.
const noBlock = -1

// Sentinel errors for use with errors.Is. Any error carrying the same code
// matches, regardless of its other fields.
var (
	ErrUnknownStyle        = &ConfigurationError{Code: CodeUnknownStyle, Block: noBlock}
	ErrInvalidStyle        = &ConfigurationError{Code: CodeInvalidStyle, Block: noBlock}
	ErrInvalidColor        = &ConfigurationError{Code: CodeInvalidColor, Block: noBlock}
	ErrInvalidConfig       = &ConfigurationError{Code: CodeInvalidConfig, Block: noBlock}
	ErrInvalidHeadingLevel = &ShapeError{Code: CodeInvalidHeadingLevel, Block: noBlock}
	ErrTableShapeMismatch  = &ShapeError{Code: CodeTableShapeMismatch, Block: noBlock}
	ErrInvalidListLevel    = &ShapeError{Code: CodeInvalidListLevel, Block: noBlock}
	ErrEmptyTable          = &ShapeError{Code: CodeEmptyTable, Block: noBlock}
	ErrUnknownBlock        = &ShapeError{Code: CodeUnknownBlock, Block: noBlock}
	ErrDocumentClosed      = &StateError{Code: CodeDocumentClosed}
	ErrStylesFrozen        = &StateError{Code: CodeStylesFrozen}
	ErrNotFinalized        = &StateError{Code: CodeNotFinalized}
	ErrPatch               = &StateError{Code: CodePatch}
	ErrIO                  = &IOError{}
)

// coded is implemented by every error type in this package.
type coded interface {
	ErrorCode() ErrorCode
}

func matchCode(code ErrorCode, target error) bool {
	var c coded
	if errors.As(target, &c) {
		return c.ErrorCode() == code
	}
	return false
}

// CodeOf returns the error code carried by err or any error it wraps,
// or an empty code.
func CodeOf(err error) ErrorCode {
	var c coded
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return ""
}

func blockSuffix(block int) string {
	if block < 0 {
		return ""
	}
	return fmt.Sprintf(" (block %d)", block)
}

// ConfigurationError reports an invalid or unknown style, colour or setting
type ConfigurationError struct {
	Code    ErrorCode
	Message string
	// Style is the style ID involved, if any.
	Style string
	// Block is the index of the offending block, or -1.
	Block int
	Cause error
}

func (e *ConfigurationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.ToLower(strings.ReplaceAll(string(e.Code), "_", " "))
	}
	if e.Style != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Style)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("configuration error [%s]: %s%s", e.Code, msg, blockSuffix(e.Block))
}

func (e *ConfigurationError) Unwrap() error { return e.Cause }

// ErrorCode returns the error code
func (e *ConfigurationError) ErrorCode() ErrorCode { return e.Code }

// Is implements errors.Is by comparing codes
func (e *ConfigurationError) Is(target error) bool { return matchCode(e.Code, target) }

// NewConfigurationError creates a new configuration error
func NewConfigurationError(code ErrorCode, style, message string) error {
	return &ConfigurationError{Code: code, Style: style, Message: message, Block: noBlock}
}

// ShapeError reports a block whose structure is invalid. For table rows,
// Row is the 0-based data row index and Expected/Actual are cell counts.
type ShapeError struct {
	Code     ErrorCode
	Message  string
	Block    int
	Row      int
	Expected int
	Actual   int
}

func (e *ShapeError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.ToLower(strings.ReplaceAll(string(e.Code), "_", " "))
	}
	if e.Code == CodeTableShapeMismatch {
		if e.Row >= 0 {
			msg = fmt.Sprintf("%s: row %d has %d cells, expected %d", msg, e.Row, e.Actual, e.Expected)
		} else {
			msg = fmt.Sprintf("%s: got %d, expected %d", msg, e.Actual, e.Expected)
		}
	}
	return fmt.Sprintf("shape error [%s]: %s%s", e.Code, msg, blockSuffix(e.Block))
}

// ErrorCode returns the error code
func (e *ShapeError) ErrorCode() ErrorCode { return e.Code }

// Is implements errors.Is by comparing codes
func (e *ShapeError) Is(target error) bool { return matchCode(e.Code, target) }

// StateError reports an operation attempted in the wrong document state
type StateError struct {
	Code      ErrorCode
	Operation string
	State     State
}

func (e *StateError) Error() string {
	if e.Operation == "" {
		return fmt.Sprintf("state error [%s]", e.Code)
	}
	return fmt.Sprintf("state error [%s]: cannot %s in state %s", e.Code, e.Operation, e.State)
}

// ErrorCode returns the error code
func (e *StateError) ErrorCode() ErrorCode { return e.Code }

// Is implements errors.Is by comparing codes
func (e *StateError) Is(target error) bool { return matchCode(e.Code, target) }

// IOError wraps a filesystem failure while writing or reading a package
type IOError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *IOError) Error() string {
	switch {
	case e.Path != "" && e.Cause != nil:
		return fmt.Sprintf("io error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	case e.Path != "":
		return fmt.Sprintf("io error during %s of '%s'", e.Operation, e.Path)
	case e.Cause != nil:
		return fmt.Sprintf("io error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("io error during %s", e.Operation)
}

func (e *IOError) Unwrap() error { return e.Cause }

// ErrorCode returns the error code
func (e *IOError) ErrorCode() ErrorCode { return CodeIO }

// Is implements errors.Is by comparing codes
func (e *IOError) Is(target error) bool { return matchCode(CodeIO, target) }

// NewIOError creates a new I/O error
func NewIOError(operation, path string, cause error) error {
	return &IOError{Operation: operation, Path: path, Cause: cause}
}

// ContextError adds context to an existing error
type ContextError struct {
	Operation string
	Context   map[string]interface{}
	Cause     error
}

func (e *ContextError) Error() string {
	var contextParts []string
	for k, v := range e.Context {
		contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, v))
	}
	if len(contextParts) > 0 {
		return fmt.Sprintf("%s [%s]: %v", e.Operation, strings.Join(contextParts, ", "), e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

func (e *ContextError) Unwrap() error {
	return e.Cause
}

// WithContext wraps an error with additional context
func WithContext(err error, operation string, context map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &ContextError{
		Operation: operation,
		Context:   context,
		Cause:     err,
	}
}

// withBlock records the block index on shape and configuration errors.
// Other errors are returned unchanged.
func withBlock(err error, index int) error {
	var shape *ShapeError
	if errors.As(err, &shape) {
		shape.Block = index
		return err
	}
	var cfg *ConfigurationError
	if errors.As(err, &cfg) {
		cfg.Block = index
	}
	return err
}

// IsConfigurationError checks if an error is a configuration error
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsShapeError checks if an error is a shape error
func IsShapeError(err error) bool {
	var target *ShapeError
	return errors.As(err, &target)
}

// IsStateError checks if an error is a state error
func IsStateError(err error) bool {
	var target *StateError
	return errors.As(err, &target)
}

// IsIOError checks if an error is an I/O error
func IsIOError(err error) bool {
	var target *IOError
	return errors.As(err, &target)
}
