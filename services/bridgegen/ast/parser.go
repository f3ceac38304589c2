// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ast

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
)

// Parser defines the contract for extracting bridge class metadata
// from source headers.
//
// Description:
//
//	Parser implementations recover the public surface of a named class
//	from raw header content. The single implementation today is the
//	tree-sitter C++ parser; the interface keeps the service and
//	discovery layers independent of the grammar so additional header
//	dialects (C++ modules, ObjC++) can be added without touching them.
//
//	The Parser interface is designed to be:
//	- Context-aware: Supports cancellation and timeouts via context.Context
//	- Error-tolerant: A header with syntax errors is still mined for
//	  whatever the grammar recognized
//
// Inputs:
//
//	ctx       - Context for cancellation and timeout control.
//	content   - Raw header bytes. Must be valid UTF-8.
//	filePath  - Path to the file being parsed (for error reporting and
//	            provenance). Should be relative to project root.
//	className - Undecorated name of the class to extract.
//
// Outputs:
//
//	*ClassInfo - The extracted class surface. Never nil on success.
//	error      - Non-nil when extraction cannot produce a result.
//	             ErrClassNotFound (via errors.Is) marks the normal
//	             absent outcome; everything else is a real failure.
//
// Example:
//
//	parser := NewCppParser()
//	content, _ := os.ReadFile("MyObject.h")
//	cls, err := parser.ExtractClass(ctx, content, "MyObject.h", "MyObject")
//	if ast.IsClassNotFound(err) {
//	    return nil // header simply doesn't define it
//	}
//	if err != nil {
//	    return fmt.Errorf("extract failed: %w", err)
//	}
//	fmt.Printf("%s: %d members\n", cls.QualifiedName(), cls.MemberCount())
//
// Limitations:
//
//   - Single-file analysis only; includes are not resolved
//   - No semantic analysis, overload resolution, or template
//     instantiation
//   - Unrecognized member shapes are skipped silently
//
// Assumptions:
//
//   - Content is valid UTF-8 encoded text
//   - FilePath uses forward slashes as path separator
//   - Caller handles concurrent access if sharing parser instances
type Parser interface {
	// ExtractClass parses content and extracts the named class.
	//
	// Returns ErrClassNotFound (wrapped, checkable with errors.Is)
	// when the header parses but does not define the class. Syntax
	// errors inside the header do not fail the call; extraction runs
	// on the recognized portion of the tree.
	//
	// Thread Safety:
	//   Implementations must be safe for concurrent use. Multiple
	//   goroutines may call ExtractClass simultaneously.
	ExtractClass(ctx context.Context, content []byte, filePath, className string) (*ClassInfo, error)

	// ScanClasses lists the classes in content that derive from the
	// webbridge base type. Used by discovery to decide which headers
	// need generation. A header without bridge classes returns an
	// empty slice and a nil error.
	ScanClasses(ctx context.Context, content []byte, filePath string) ([]ClassMatch, error)

	// Language returns the canonical lowercase name of the language
	// this parser handles, e.g. "cpp".
	Language() string

	// Extensions returns the file extensions this parser can handle,
	// including the leading dot, lowercase: [".h", ".hpp", ...].
	Extensions() []string
}

// ParserRegistry manages parser instances by language and file extension.
//
// Description:
//
//	ParserRegistry provides a central lookup mechanism for finding the
//	appropriate parser for a given file or language. It supports
//	registration of multiple parsers and lookup by language name or
//	file extension.
//
// Thread Safety:
//
//	ParserRegistry is fully thread-safe. All methods can be called
//	concurrently from multiple goroutines. Registration uses write
//	locks, lookups use read locks.
type ParserRegistry struct {
	mu sync.RWMutex

	// byLanguage maps language names to parser instances.
	byLanguage map[string]Parser

	// byExtension maps file extensions to parser instances.
	byExtension map[string]Parser
}

// NewParserRegistry creates a new empty ParserRegistry.
func NewParserRegistry() *ParserRegistry {
	return &ParserRegistry{
		byLanguage:  make(map[string]Parser),
		byExtension: make(map[string]Parser),
	}
}

// NewDefaultRegistry creates a registry with the C++ parser registered.
//
// This is the registry the CLI and service wire up at startup.
func NewDefaultRegistry() *ParserRegistry {
	registry := NewParserRegistry()
	registry.Register(NewCppParser())
	return registry
}

// Register adds a parser to the registry.
//
// The parser is registered under its Language() name and all its
// Extensions(). An already registered language or extension is
// overwritten.
//
// Thread Safety: This method is safe for concurrent use.
func (r *ParserRegistry) Register(parser Parser) {
	if parser == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byLanguage[parser.Language()] = parser

	for _, ext := range parser.Extensions() {
		r.byExtension[ext] = parser
	}
}

// GetByLanguage returns the parser for the given language name.
//
// Thread Safety: This method is safe for concurrent use.
//
// Returns:
//   - Parser: The registered parser, or nil if not found.
//   - bool: True if a parser was found.
func (r *ParserRegistry) GetByLanguage(language string) (Parser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	parser, ok := r.byLanguage[language]
	return parser, ok
}

// GetByExtension returns the parser for the given file extension.
//
// The extension includes the dot (".h") and is case-sensitive;
// registration uses lowercase.
//
// Thread Safety: This method is safe for concurrent use.
func (r *ParserRegistry) GetByExtension(ext string) (Parser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	parser, ok := r.byExtension[ext]
	return parser, ok
}

// GetForFile returns the parser responsible for the given file path,
// selected by its lowercased extension.
//
// Thread Safety: This method is safe for concurrent use.
//
// Example:
//
//	parser, ok := registry.GetForFile("src/Widget.HPP")
//	// ok == true, parser is the C++ parser
func (r *ParserRegistry) GetForFile(path string) (Parser, bool) {
	return r.GetByExtension(strings.ToLower(filepath.Ext(path)))
}

// Languages returns a list of all registered language names.
//
// Thread Safety: This method is safe for concurrent use.
func (r *ParserRegistry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	languages := make([]string, 0, len(r.byLanguage))
	for lang := range r.byLanguage {
		languages = append(languages, lang)
	}
	return languages
}

// Extensions returns a list of all registered file extensions.
//
// Thread Safety: This method is safe for concurrent use.
func (r *ParserRegistry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	extensions := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		extensions = append(extensions, ext)
	}
	return extensions
}
