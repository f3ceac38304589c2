// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ast

import (
	"errors"
	"fmt"
)

// Sentinel errors for common extraction failure conditions.
//
// These errors can be checked using errors.Is() to determine the
// category of failure without inspecting error messages.
var (
	// ErrUnsupportedLanguage indicates that no parser is available for the
	// requested language or file extension.
	//
	// Example:
	//   parser, ok := registry.GetByExtension(".cxx")
	//   if !ok {
	//       return fmt.Errorf("file type .cxx: %w", ErrUnsupportedLanguage)
	//   }
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrParseFailed indicates that parsing failed completely and no
	// syntax tree could be produced.
	//
	// A tree WITH syntax errors is not a parse failure: extraction
	// proceeds on the recognized portion of the header. This sentinel
	// covers the cases where tree-sitter itself gave up.
	ErrParseFailed = errors.New("parse failed")

	// ErrInvalidContent indicates that the provided content is invalid
	// and cannot be processed.
	//
	// Common causes:
	//   - Nil content slice
	//   - Non-UTF-8 encoding
	//   - Binary file content
	ErrInvalidContent = errors.New("invalid content")

	// ErrClassNotFound indicates that the header parsed fine but does
	// not define the requested class.
	//
	// This is the normal absent result, not a failure of the header:
	// callers distinguish it from parse failures with errors.Is and
	// typically report it without a stack of context.
	ErrClassNotFound = errors.New("class not found")

	// ErrInvalidClassName indicates an empty or malformed target class
	// name.
	ErrInvalidClassName = errors.New("invalid class name")

	// ErrNilContext indicates a nil context was passed to an operation
	// that requires one.
	ErrNilContext = errors.New("context must not be nil")

	// ErrContextCanceled indicates that extraction was canceled via
	// context. Wraps the parse-specific condition so callers can
	// distinguish it from other cancellations.
	ErrContextCanceled = errors.New("extraction canceled")
)

// ParseError provides detailed information about an extraction failure.
//
// ParseError wraps an underlying error with additional context about
// where the error occurred in the source file. It implements the
// error interface and can be unwrapped to access the underlying cause.
//
// Example:
//
//	cls, err := parser.ExtractClass(ctx, content, "widget.h", "Widget")
//	if err != nil {
//	    var parseErr *ParseError
//	    if errors.As(err, &parseErr) {
//	        fmt.Printf("Error at %s:%d:%d: %s\n",
//	            parseErr.FilePath, parseErr.Line, parseErr.Column, parseErr.Message)
//	    }
//	}
type ParseError struct {
	// FilePath is the path to the file where the error occurred.
	FilePath string

	// Line is the 1-indexed line number where the error occurred.
	// May be 0 if the error is not associated with a specific line.
	Line int

	// Column is the 0-indexed column where the error occurred.
	// May be 0 if the error is not associated with a specific column.
	Column int

	// Message describes the error in human-readable form.
	Message string

	// Cause is the underlying error that triggered this parse error.
	// May be nil if this is a primary error.
	Cause error
}

// Error returns a formatted error message including file location.
//
// Format depends on available location information:
//   - With line and column: "widget.h:10:5: unexpected token"
//   - With line only:       "widget.h:10: unexpected token"
//   - Without location:     "widget.h: unexpected token"
func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.FilePath, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// Unwrap returns the underlying cause error.
//
// This enables use with errors.Is() and errors.As() to check
// or extract the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a new ParseError with the given details.
func NewParseError(filePath string, line, column int, message string) *ParseError {
	return &ParseError{
		FilePath: filePath,
		Line:     line,
		Column:   column,
		Message:  message,
	}
}

// NewParseErrorWithCause creates a new ParseError wrapping an
// underlying error.
func NewParseErrorWithCause(filePath string, line, column int, message string, cause error) *ParseError {
	return &ParseError{
		FilePath: filePath,
		Line:     line,
		Column:   column,
		Message:  message,
		Cause:    cause,
	}
}

// WrapParseError wraps an error with file context.
//
// If the error is already a ParseError, it returns it unchanged.
// Otherwise, it creates a new ParseError wrapping the original error.
// Returns nil if err is nil.
func WrapParseError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	// Don't double-wrap ParseErrors
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return err
	}

	return &ParseError{
		FilePath: filePath,
		Message:  err.Error(),
		Cause:    err,
	}
}

// IsParseError checks if an error is or wraps a ParseError.
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// IsUnsupportedLanguage checks if an error indicates an unsupported
// language or extension.
func IsUnsupportedLanguage(err error) bool {
	return errors.Is(err, ErrUnsupportedLanguage)
}

// IsParseFailed checks if an error indicates a complete parse failure.
func IsParseFailed(err error) bool {
	return errors.Is(err, ErrParseFailed)
}

// IsClassNotFound checks if an error indicates the target class is not
// defined in the header.
func IsClassNotFound(err error) bool {
	return errors.Is(err, ErrClassNotFound)
}

// IsFileTooLarge checks if an error indicates the size guard rejected
// the file.
func IsFileTooLarge(err error) bool {
	return errors.Is(err, ErrFileTooLarge)
}
