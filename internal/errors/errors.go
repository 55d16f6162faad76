// Package errors provides the typed error hierarchy used by mapsize.
// Each error carries a category so the entry point and tests can tell
// a missing map file apart from a bad flag or a malformed record.
package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

// ErrorType is the category of a MapsizeError.
type ErrorType string

// Error categories. A run stops on the first error of any category.
const (
	ErrTypeFile    ErrorType = "file"
	ErrTypeConfig  ErrorType = "config"
	ErrTypeParsing ErrorType = "parsing"
	ErrTypeReport  ErrorType = "report"
)

// MapsizeError is the base error type. Path names the file involved, if any,
// and Cause keeps the underlying error reachable through errors.Unwrap.
type MapsizeError struct {
	Type    ErrorType
	Path    string
	Line    int
	Message string
	Cause   error
}

func (e *MapsizeError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("%s error for %s:%d: %s", e.Type, e.Path, e.Line, e.Message)
	case e.Path != "":
		return fmt.Sprintf("%s error for %s: %s", e.Type, e.Path, e.Message)
	default:
		return fmt.Sprintf("%s error: %s", e.Type, e.Message)
	}
}

func (e *MapsizeError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a MapsizeError of the same category,
// so errors.Is(err, &MapsizeError{Type: ErrTypeFile}) matches any file error.
func (e *MapsizeError) Is(target error) bool {
	t, ok := target.(*MapsizeError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// FileError is returned when the map file cannot be opened or read.
type FileError struct {
	*MapsizeError
}

// NewFileError creates a file error with context.
func NewFileError(path, message string, cause error) *FileError {
	return &FileError{
		MapsizeError: &MapsizeError{
			Type:    ErrTypeFile,
			Path:    path,
			Message: message,
			Cause:   cause,
		},
	}
}

// FileNotFoundError is returned when the map file does not exist.
type FileNotFoundError struct {
	*FileError
}

// NewFileNotFoundError creates a file not found error.
func NewFileNotFoundError(path string, cause error) *FileNotFoundError {
	return &FileNotFoundError{
		FileError: NewFileError(path, "file not found", cause),
	}
}

// FileNotReadableError is returned when the map file exists but cannot be read.
type FileNotReadableError struct {
	*FileError
}

// NewFileNotReadableError creates a file read permission error.
func NewFileNotReadableError(path string, cause error) *FileNotReadableError {
	return &FileNotReadableError{
		FileError: NewFileError(path, "file not readable", cause),
	}
}

// ConfigError represents invalid flags, config files or filter patterns.
// Configuration is validated before the map file is touched.
type ConfigError struct {
	*MapsizeError
}

// NewConfigError creates a configuration error without path context.
func NewConfigError(message string, cause error) *ConfigError {
	return &ConfigError{
		MapsizeError: &MapsizeError{
			Type:    ErrTypeConfig,
			Message: message,
			Cause:   cause,
		},
	}
}

// NewConfigErrorWithPath creates a configuration error tied to a file,
// typically the YAML config file.
func NewConfigErrorWithPath(path, message string, cause error) *ConfigError {
	return &ConfigError{
		MapsizeError: &MapsizeError{
			Type:    ErrTypeConfig,
			Path:    path,
			Message: message,
			Cause:   cause,
		},
	}
}

// ParsingError represents a record line that matched the record shape
// but whose numeric fields could not be used.
type ParsingError struct {
	*MapsizeError
}

// NewParsingError creates a parsing error pointing at a line of the map file.
// A line of zero means the position is unknown.
func NewParsingError(path string, line int, message string, cause error) *ParsingError {
	return &ParsingError{
		MapsizeError: &MapsizeError{
			Type:    ErrTypeParsing,
			Path:    path,
			Line:    line,
			Message: message,
			Cause:   cause,
		},
	}
}

// ReportError represents a failure while writing the report.
type ReportError struct {
	*MapsizeError
}

// NewReportError creates a report output error.
func NewReportError(message string, cause error) *ReportError {
	return &ReportError{
		MapsizeError: &MapsizeError{
			Type:    ErrTypeReport,
			Message: message,
			Cause:   cause,
		},
	}
}

// WrapFileError converts an os error into the matching typed file error.
func WrapFileError(path string, err error) error {
	if err == nil {
		return nil
	}

	absPath, absErr := filepath.Abs(path)
	if absErr != nil {
		absPath = path
	}
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return NewFileNotFoundError(absPath, err)
	case stderrors.Is(err, fs.ErrPermission):
		return NewFileNotReadableError(absPath, err)
	default:
		return NewFileError(absPath, "file operation failed", err)
	}
}
