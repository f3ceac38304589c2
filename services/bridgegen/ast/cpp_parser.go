// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ast

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
)

// File size constants for security validation.
const (
	// DefaultMaxFileSize is the maximum file size the parser will accept (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024

	// WarnFileSize is the threshold at which a warning is logged (1MB).
	WarnFileSize = 1 * 1024 * 1024
)

// ErrFileTooLarge is returned when input content exceeds the maximum file size.
var ErrFileTooLarge = errors.New("file exceeds maximum size limit")

// CppParserOption configures a CppParser instance.
type CppParserOption func(*CppParser)

// WithCppMaxFileSize sets the maximum file size the parser will accept.
//
// Parameters:
//   - bytes: Maximum file size in bytes. Must be positive.
//
// Example:
//
//	parser := NewCppParser(WithCppMaxFileSize(5 * 1024 * 1024)) // 5MB limit
func WithCppMaxFileSize(bytes int64) CppParserOption {
	return func(p *CppParser) {
		if bytes > 0 {
			p.maxFileSize = bytes
		}
	}
}

// CppParser implements the Parser interface for C++ headers.
//
// Description:
//
//	CppParser uses tree-sitter to parse C++ headers and extract the
//	public surface of a bridge class: properties, events, constants,
//	enums, constructors and methods. Classification is purely
//	syntactic. Property<T> and Event<Args...> members are recognized
//	by template name, asynchronous methods by a [[webbridge::async]]
//	attribute on their declaration.
//
// Thread Safety:
//
//	CppParser instances are safe for concurrent use. Multiple
//	goroutines may call ExtractClass simultaneously on the same
//	CppParser instance - each call creates its own tree-sitter parser
//	internally.
//
// Example:
//
//	parser := NewCppParser()
//	cls, err := parser.ExtractClass(ctx, content, "MyObject.h", "MyObject")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, m := range cls.SyncMethods {
//	    fmt.Println(m.Signature())
//	}
type CppParser struct {
	maxFileSize int64
}

// NewCppParser creates a new CppParser with the given options.
//
// Description:
//
//	Creates a CppParser configured with sensible defaults. Options can
//	be provided to customize behavior such as maximum file size.
//
// Inputs:
//   - opts: Optional configuration functions (WithCppMaxFileSize)
//
// Outputs:
//   - *CppParser: Configured parser instance, never nil
//
// Example:
//
//	// Default configuration
//	parser := NewCppParser()
//
//	// Custom max file size
//	parser := NewCppParser(WithCppMaxFileSize(5 * 1024 * 1024))
//
// Thread Safety:
//
//	The returned CppParser is safe for concurrent use.
func NewCppParser(opts ...CppParserOption) *CppParser {
	p := &CppParser{
		maxFileSize: DefaultMaxFileSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ExtractClass extracts the named class from C++ header content.
//
// Description:
//
//	ExtractClass parses the header with tree-sitter, locates the first
//	definition of className in declaration order (descending through
//	named namespaces), and classifies its public members. The parser
//	is error-tolerant: a header with syntax errors is still mined for
//	whatever the grammar recognized.
//
// Inputs:
//   - ctx: Context for cancellation. Checked before and after parsing.
//     Note: Tree-sitter parsing itself cannot be interrupted mid-parse.
//   - content: Raw header bytes. Must be valid UTF-8.
//   - filePath: Path to the file (for provenance and error reporting).
//     Should be relative to project root using forward slashes.
//   - className: Undecorated name of the class to extract.
//
// Outputs:
//   - *ClassInfo: The extracted class surface. Never nil on success.
//     Constructors always holds at least one entry; a class without a
//     visible constructor gets the implicit default one.
//   - error: Non-nil for failures:
//   - ErrClassNotFound: Header parses but does not define className
//   - ErrFileTooLarge: Content exceeds maxFileSize
//   - ErrInvalidContent: Content is not valid UTF-8
//   - ErrInvalidClassName: className is empty
//   - Context errors: Context was canceled or timed out
//
// Example:
//
//	cls, err := parser.ExtractClass(ctx, content, "MyObject.h", "MyObject")
//	if ast.IsClassNotFound(err) {
//	    return nil
//	}
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%s: %d members\n", cls.QualifiedName(), cls.MemberCount())
//
// Limitations:
//   - Single-file analysis: includes are not resolved, so a class
//     defined in another header is reported as not found
//   - Template classes and overload sets are not modeled
//
// Assumptions:
//   - Content is valid UTF-8 (validated internally)
//   - FilePath uses forward slashes as path separator
//
// Thread Safety:
//
//	This method is safe for concurrent use.
func (p *CppParser) ExtractClass(ctx context.Context, content []byte, filePath, className string) (*ClassInfo, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	// Start tracing span
	ctx, span := startExtractSpan(ctx, "cpp", filePath, len(content))
	defer span.End()

	start := time.Now()

	// Check context before starting
	if err := ctx.Err(); err != nil {
		recordExtractMetrics(ctx, "cpp", time.Since(start), 0, false)
		return nil, fmt.Errorf("%w before start: %w", ErrContextCanceled, err)
	}

	if className == "" {
		recordExtractMetrics(ctx, "cpp", time.Since(start), 0, false)
		return nil, fmt.Errorf("%w: class name must not be empty", ErrInvalidClassName)
	}

	// Validate file size
	if int64(len(content)) > p.maxFileSize {
		recordExtractMetrics(ctx, "cpp", time.Since(start), 0, false)
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), p.maxFileSize)
	}

	// Log warning for large files
	if len(content) > WarnFileSize {
		slog.Warn("parsing large header",
			slog.String("file", filePath),
			slog.Int("size_bytes", len(content)))
	}

	// Validate UTF-8
	if !utf8.Valid(content) {
		recordExtractMetrics(ctx, "cpp", time.Since(start), 0, false)
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}

	// Compute hash before parsing (captures input)
	hash := sha256.Sum256(content)
	hashStr := hex.EncodeToString(hash[:])

	// Create tree-sitter parser (new instance per call for thread safety)
	parser := sitter.NewParser()
	parser.SetLanguage(cpp.GetLanguage())

	// Parse the content
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		recordExtractMetrics(ctx, "cpp", time.Since(start), 0, false)
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	defer tree.Close()

	// Check context after parsing
	if err := ctx.Err(); err != nil {
		recordExtractMetrics(ctx, "cpp", time.Since(start), 0, false)
		return nil, fmt.Errorf("%w after tree-sitter: %w", ErrContextCanceled, err)
	}

	rootNode := tree.RootNode()
	if rootNode == nil {
		recordExtractMetrics(ctx, "cpp", time.Since(start), 0, false)
		return nil, fmt.Errorf("%w: tree-sitter returned nil root node", ErrParseFailed)
	}

	// Syntax errors do not abort extraction. The grammar recovers and
	// the recognized subtrees are still searched.
	if rootNode.HasError() {
		slog.Debug("header contains syntax errors",
			slog.String("file", filePath))
	}

	cls := p.findClass(content, rootNode, className, nil)
	if cls == nil {
		recordExtractMetrics(ctx, "cpp", time.Since(start), 0, false)
		return nil, fmt.Errorf("%w: %q in %s", ErrClassNotFound, className, filePath)
	}

	cls.FilePath = filePath
	cls.FileHash = hashStr
	cls.SetParsedAt()

	// Validate result before returning
	if err := cls.Validate(); err != nil {
		recordExtractMetrics(ctx, "cpp", time.Since(start), 0, false)
		return nil, fmt.Errorf("result validation failed: %w", err)
	}

	// Check context one final time
	if err := ctx.Err(); err != nil {
		recordExtractMetrics(ctx, "cpp", time.Since(start), cls.MemberCount(), false)
		return nil, fmt.Errorf("%w after extraction: %w", ErrContextCanceled, err)
	}

	// Record successful extraction metrics
	setExtractSpanResult(span, cls.QualifiedName(), cls.MemberCount())
	recordExtractMetrics(ctx, "cpp", time.Since(start), cls.MemberCount(), true)

	return cls, nil
}

// ScanClasses lists the classes in content that derive from the
// webbridge base type.
//
// Description:
//
//	ScanClasses is the discovery half of the parser: it reports every
//	class in the header whose base clause mentions the webbridge
//	Object type, together with the line it is declared on. Headers
//	that never mention the base type are rejected by a substring check
//	before any parsing happens, which keeps scanning large source
//	trees cheap.
//
// Inputs:
//   - ctx: Context for cancellation.
//   - content: Raw header bytes. Must be valid UTF-8.
//   - filePath: Path to the file (for error reporting).
//
// Outputs:
//   - []ClassMatch: Matching classes in document order. Empty slice
//     (not nil) when the header contains no bridge classes.
//   - error: Non-nil for failures (same classes of error as
//     ExtractClass, minus ErrClassNotFound).
//
// Thread Safety:
//
//	This method is safe for concurrent use.
func (p *CppParser) ScanClasses(ctx context.Context, content []byte, filePath string) ([]ClassMatch, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	ctx, span := startScanSpan(ctx, "cpp", filePath, len(content))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w before start: %w", ErrContextCanceled, err)
	}

	if int64(len(content)) > p.maxFileSize {
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), p.maxFileSize)
	}

	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}

	// Headers that never mention the base type cannot contain bridge
	// classes.
	if !bytes.Contains(content, []byte("webbridge::Object")) && !bytes.Contains(content, []byte("webbridge::object")) {
		setScanSpanResult(span, 0)
		return []ClassMatch{}, nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(cpp.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	defer tree.Close()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w after tree-sitter: %w", ErrContextCanceled, err)
	}

	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, fmt.Errorf("%w: tree-sitter returned nil root node", ErrParseFailed)
	}

	matches := make([]ClassMatch, 0)
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node.Type() == "class_specifier" {
			if match, ok := p.matchBridgeClass(content, node); ok {
				matches = append(matches, match)
			}
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(rootNode)

	setScanSpanResult(span, len(matches))
	return matches, nil
}

// Language returns the canonical language name for this parser.
//
// Returns:
//   - "cpp" for C++ headers
func (p *CppParser) Language() string {
	return "cpp"
}

// Extensions returns the file extensions this parser handles.
//
// Returns:
//   - []string{".h", ".hpp", ".hh", ".hxx"} for C++ header files
func (p *CppParser) Extensions() []string {
	return []string{".h", ".hpp", ".hh", ".hxx"}
}

// matchBridgeClass reports whether the class node derives from the
// webbridge base type.
func (p *CppParser) matchBridgeClass(content []byte, node *sitter.Node) (ClassMatch, bool) {
	var name string
	var baseClause *sitter.Node

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "type_identifier":
			if name == "" {
				name = string(content[child.StartByte():child.EndByte()])
			}
		case "base_class_clause":
			if baseClause == nil {
				baseClause = child
			}
		}
	}

	if name == "" || baseClause == nil {
		return ClassMatch{}, false
	}

	bases := string(content[baseClause.StartByte():baseClause.EndByte()])
	for _, marker := range []string{"webbridge::Object", "webbridge::object", "Object", "object"} {
		if strings.Contains(bases, marker) {
			return ClassMatch{Name: name, Line: int(node.StartPoint().Row) + 1}, true
		}
	}
	return ClassMatch{}, false
}

// findClass performs a depth-first search for the first definition of
// className, tracking the namespace path along the way. The first
// match in document order wins.
func (p *CppParser) findClass(content []byte, node *sitter.Node, className string, namespaces []string) *ClassInfo {
	if node.Type() == "class_specifier" {
		if cls := p.parseClass(content, node, className); cls != nil {
			cls.Namespaces = append(make([]string, 0, len(namespaces)), namespaces...)
			return cls
		}
		// A different class may still contain the target as a nested
		// definition. Class names never extend the namespace path.
	}

	if node.Type() == "namespace_definition" {
		var nsName string
		var body *sitter.Node

		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			switch child.Type() {
			case "namespace_identifier":
				if nsName == "" {
					nsName = string(content[child.StartByte():child.EndByte()])
				}
			case "declaration_list":
				if body == nil {
					body = child
				}
			}
		}

		if nsName != "" && body != nil {
			scoped := append(append(make([]string, 0, len(namespaces)+1), namespaces...), nsName)
			for i := 0; i < int(body.ChildCount()); i++ {
				if cls := p.findClass(content, body.Child(i), className, scoped); cls != nil {
					return cls
				}
			}
			return nil
		}
		// Anonymous namespaces and nested specifiers (namespace a::b)
		// contribute no path segments. Fall through to the generic walk.
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if cls := p.findClass(content, node.Child(i), className, namespaces); cls != nil {
			return cls
		}
	}
	return nil
}

// parseClass extracts the class at node if its name matches className.
// Returns nil when the name differs or the node has no body.
func (p *CppParser) parseClass(content []byte, node *sitter.Node, className string) *ClassInfo {
	var name string
	var body *sitter.Node

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "type_identifier":
			if name == "" {
				name = string(content[child.StartByte():child.EndByte()])
			}
		case "field_declaration_list":
			if body == nil {
				body = child
			}
		}
	}

	if name == "" || body == nil || name != className {
		return nil
	}

	cls := &ClassInfo{
		Name:         name,
		Namespaces:   make([]string, 0),
		Properties:   make([]Property, 0),
		Events:       make([]Event, 0),
		Constants:    make([]Constant, 0),
		Enums:        make([]Enum, 0),
		Constructors: make([]Method, 0),
		SyncMethods:  make([]Method, 0),
		AsyncMethods: make([]Method, 0),
	}

	p.extractMembers(content, body, name, cls)

	// Every class constructs. Without a visible constructor the
	// implicit default one is reported.
	if len(cls.Constructors) == 0 {
		cls.Constructors = append(cls.Constructors, Method{
			Name:       name,
			ReturnType: "",
			Params:     make([]Param, 0),
		})
	}

	return cls
}

// extractMembers walks the class body and classifies public members.
//
// The walk descends into every subtree, so members of nested classes
// surface into the outer class, and member enums wrapped in a
// field_declaration are reached through it. Access tracking starts at
// private (the class default) and follows access_specifier nodes in
// document order.
func (p *CppParser) extractMembers(content []byte, body *sitter.Node, className string, cls *ClassInfo) {
	currentAccess := "private"

	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)

			if child.Type() == "access_specifier" {
				text := string(content[child.StartByte():child.EndByte()])
				for _, level := range []string{"public", "private", "protected"} {
					if strings.Contains(text, level) {
						currentAccess = level
						break
					}
				}
				continue
			}

			if currentAccess == "public" {
				switch child.Type() {
				case "field_declaration":
					p.processFieldDeclaration(content, child, className, cls)
				case "function_definition":
					p.processInlineMethod(content, child, className, cls)
				case "enum_specifier":
					p.processEnum(content, child, cls)
				}
			}

			walk(child)
		}
	}
	walk(body)
}

// processEnum extracts an enum member, scoped or unscoped.
func (p *CppParser) processEnum(content []byte, node *sitter.Node, cls *ClassInfo) {
	enum := Enum{
		Name:   AnonymousEnumName,
		Values: make([]string, 0),
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)

		if string(content[child.StartByte():child.EndByte()]) == "class" {
			enum.IsScoped = true
		}

		switch child.Type() {
		case "type_identifier":
			enum.Name = string(content[child.StartByte():child.EndByte()])
		case "enumerator_list":
			for j := 0; j < int(child.ChildCount()); j++ {
				item := child.Child(j)
				if item.Type() != "enumerator" {
					continue
				}
				for k := 0; k < int(item.ChildCount()); k++ {
					sub := item.Child(k)
					if sub.Type() == "identifier" {
						enum.Values = append(enum.Values, string(content[sub.StartByte():sub.EndByte()]))
						break
					}
				}
			}
		}
	}

	cls.Enums = append(cls.Enums, enum)
}

// processInlineMethod classifies a method defined inside the class
// body. Bodies defined in the class are always synchronous; the async
// attribute is only honored on declarations.
func (p *CppParser) processInlineMethod(content []byte, node *sitter.Node, className string, cls *ClassInfo) {
	var funcDecl *sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "function_declarator" {
			funcDecl = node.Child(i)
			break
		}
	}
	if funcDecl == nil {
		return
	}

	method := p.parseMethod(content, node, funcDecl, className, true)
	if method == nil {
		return
	}

	if method.Name == className {
		cls.Constructors = append(cls.Constructors, *method)
		return
	}
	cls.SyncMethods = append(cls.SyncMethods, *method)
}

// processFieldDeclaration classifies a field_declaration member. The
// checks run in precedence order: declared method, then Property or
// Event template, then constant. Anything else is skipped.
func (p *CppParser) processFieldDeclaration(content []byte, node *sitter.Node, className string, cls *ClassInfo) {
	var funcDecl *sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "function_declarator" {
			funcDecl = node.Child(i)
			break
		}
	}
	if funcDecl != nil {
		method := p.parseMethod(content, node, funcDecl, className, false)
		if method == nil {
			return
		}
		switch {
		case method.Name == className:
			cls.Constructors = append(cls.Constructors, *method)
		case method.IsAsync:
			cls.AsyncMethods = append(cls.AsyncMethods, *method)
		default:
			cls.SyncMethods = append(cls.SyncMethods, *method)
		}
		return
	}

	var templateType, fieldIdent *sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "template_type":
			if templateType == nil {
				templateType = child
			}
		case "field_identifier":
			if fieldIdent == nil {
				fieldIdent = child
			}
		}
	}

	if templateType != nil && fieldIdent != nil {
		var templateName string
		for i := 0; i < int(templateType.ChildCount()); i++ {
			child := templateType.Child(i)
			if child.Type() == "type_identifier" {
				templateName = string(content[child.StartByte():child.EndByte()])
				break
			}
		}

		switch templateName {
		case "Property", "property":
			cls.Properties = append(cls.Properties, Property{
				Name: string(content[fieldIdent.StartByte():fieldIdent.EndByte()]),
				Type: p.templateArgument(content, templateType),
			})
			return
		case "Event", "event":
			cls.Events = append(cls.Events, Event{
				Name:     string(content[fieldIdent.StartByte():fieldIdent.EndByte()]),
				ArgTypes: p.templateArguments(content, templateType),
			})
			return
		}
	}

	hasConst := false
	isStatic := false
	var typeNode *sitter.Node

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		text := string(content[child.StartByte():child.EndByte()])

		if text == "const" || text == "constexpr" {
			hasConst = true
		}
		if child.Type() == "type_qualifier" && strings.Contains(text, "const") {
			hasConst = true
		}
		if text == "static" {
			isStatic = true
		}

		switch child.Type() {
		case "primitive_type", "type_identifier", "qualified_identifier", "sized_type_specifier":
			typeNode = child
		}
	}

	if fieldIdent == nil || !hasConst || typeNode == nil {
		return
	}

	cls.Constants = append(cls.Constants, Constant{
		Name:     string(content[fieldIdent.StartByte():fieldIdent.EndByte()]),
		Type:     p.normalizeType(content, typeNode),
		IsStatic: isStatic,
	})
}

// templateArgument returns the first template argument of a
// Property<T> member, or "unknown" when the argument list is missing.
func (p *CppParser) templateArgument(content []byte, templateType *sitter.Node) string {
	for i := 0; i < int(templateType.ChildCount()); i++ {
		child := templateType.Child(i)
		if child.Type() != "template_argument_list" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			if child.Child(j).Type() == "type_descriptor" {
				return p.normalizeType(content, child.Child(j))
			}
		}
	}
	return "unknown"
}

// templateArguments returns all template arguments of an
// Event<Args...> member in declaration order.
func (p *CppParser) templateArguments(content []byte, templateType *sitter.Node) []string {
	args := make([]string, 0)
	for i := 0; i < int(templateType.ChildCount()); i++ {
		child := templateType.Child(i)
		if child.Type() != "template_argument_list" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			if child.Child(j).Type() == "type_descriptor" {
				args = append(args, p.normalizeType(content, child.Child(j)))
			}
		}
	}
	return args
}

// parseMethod builds a Method from a function declarator and its
// enclosing node (a function_definition when isInline, otherwise a
// field_declaration). Returns nil for destructors, operators and
// declarators with no name or parameter list.
func (p *CppParser) parseMethod(content []byte, node, funcDecl *sitter.Node, className string, isInline bool) *Method {
	nameTypes := []string{"field_identifier"}
	if isInline {
		nameTypes = []string{"field_identifier", "identifier"}
	}

	var name string
	for i := 0; i < int(funcDecl.ChildCount()); i++ {
		child := funcDecl.Child(i)
		for _, t := range nameTypes {
			if child.Type() == t {
				name = string(content[child.StartByte():child.EndByte()])
				break
			}
		}
		if name != "" {
			break
		}
	}

	var paramList *sitter.Node
	for i := 0; i < int(funcDecl.ChildCount()); i++ {
		if funcDecl.Child(i).Type() == "parameter_list" {
			paramList = funcDecl.Child(i)
			break
		}
	}

	if name == "" || paramList == nil {
		return nil
	}
	if strings.HasPrefix(name, "~") || strings.HasPrefix(name, "operator") {
		return nil
	}

	isConstructor := name == className

	// Constructors carry no return type. For everything else the
	// return type is the first child that is not part of the
	// declarator machinery, defaulting to void.
	var returnType string
	if !isConstructor {
		returnType = "void"
		skip := map[string]bool{
			"attribute_declaration": true,
			"field_identifier":      true,
			"function_declarator":   true,
			";":                     true,
		}
		if isInline {
			skip = map[string]bool{
				"function_declarator": true,
				"compound_statement":  true,
				"type_qualifier":      true,
			}
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if skip[child.Type()] {
				continue
			}
			returnType = p.normalizeType(content, child)
			break
		}
	}

	isAsync := false
	if !isInline {
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Type() != "attribute_declaration" {
				continue
			}
			if strings.Contains(string(content[child.StartByte():child.EndByte()]), "async") {
				isAsync = true
				break
			}
		}
	}

	return &Method{
		Name:       name,
		ReturnType: returnType,
		Params:     p.parseParams(content, paramList),
		IsAsync:    isAsync,
	}
}

// parseParams extracts the parameters of a parameter_list node.
// Parameters without a recognizable base type (ellipsis, function
// pointers) are dropped. A parameter without a name is reported as
// "arg".
func (p *CppParser) parseParams(content []byte, paramList *sitter.Node) []Param {
	params := make([]Param, 0)

	for i := 0; i < int(paramList.ChildCount()); i++ {
		decl := paramList.Child(i)
		if decl.Type() != "parameter_declaration" {
			continue
		}

		var typeNode *sitter.Node
		for j := 0; j < int(decl.ChildCount()); j++ {
			switch decl.Child(j).Type() {
			case "primitive_type", "type_identifier", "qualified_identifier", "template_type":
				typeNode = decl.Child(j)
			}
			if typeNode != nil {
				break
			}
		}
		if typeNode == nil {
			continue
		}

		name := "arg"
		for _, declType := range []string{"identifier", "reference_declarator", "pointer_declarator"} {
			var found *sitter.Node
			for j := 0; j < int(decl.ChildCount()); j++ {
				if decl.Child(j).Type() == declType {
					found = decl.Child(j)
					break
				}
			}
			if found == nil {
				continue
			}
			if declType == "identifier" {
				name = string(content[found.StartByte():found.EndByte()])
			} else {
				for j := 0; j < int(found.ChildCount()); j++ {
					sub := found.Child(j)
					if sub.Type() == "identifier" {
						name = string(content[sub.StartByte():sub.EndByte()])
						break
					}
				}
			}
			break
		}

		params = append(params, Param{
			Type: p.normalizeType(content, typeNode),
			Name: name,
		})
	}

	return params
}

// normalizeType renders a type subtree in canonical form: comments,
// initializers and argument lists are dropped, whitespace collapses,
// and a single space separates fragments only where both sides are
// alphanumeric. "const  int &" becomes "const int&", a qualified
// template "std :: vector < int >" becomes "std::vector<int>".
func (p *CppParser) normalizeType(content []byte, node *sitter.Node) string {
	if node == nil {
		return ""
	}
	if node.Type() == "comment" {
		return ""
	}
	if node.ChildCount() == 0 {
		return strings.TrimSpace(string(content[node.StartByte():node.EndByte()]))
	}

	parts := make([]string, 0, int(node.ChildCount()))
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)

		switch child.Type() {
		case "comment", "initializer_list", "argument_list":
			continue
		}

		// A bare brace marks the start of a brace initializer; the
		// type ends here.
		if string(content[child.StartByte():child.EndByte()]) == "{" {
			break
		}

		fragment := p.normalizeType(content, child)
		if fragment == "" {
			continue
		}

		if len(parts) > 0 && endsAlnum(parts[len(parts)-1]) && startsAlnum(fragment) {
			parts = append(parts, " ")
		}
		parts = append(parts, fragment)
	}
	return strings.Join(parts, "")
}

// endsAlnum reports whether s ends with a letter or digit.
func endsAlnum(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// startsAlnum reports whether s starts with a letter or digit.
func startsAlnum(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Compile-time interface compliance check.
var _ Parser = (*CppParser)(nil)
