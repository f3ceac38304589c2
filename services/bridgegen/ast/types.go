// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ast provides tree-sitter based extraction of class metadata
// from C++ headers.
//
// The webbridge runtime exposes C++ classes to a JavaScript frontend.
// Until C++ reflection lands, the binding glue has to be generated at
// build time from the public surface of each class. This package
// recovers that surface: given a header and a class name it produces a
// ClassInfo describing the properties, events, constants, enums,
// constructors, and methods the generator needs.
//
// Extraction is purely syntactic. The parser trusts the header, does
// no semantic analysis, no overload resolution, and no template
// instantiation. Constructs it does not recognize are skipped
// silently; the result is the recognized subset of the class, never a
// complaint about the rest.
//
// Design principles:
//   - Collections preserve declaration order
//   - Timestamps as int64 UnixMilli per project conventions
//   - No map[string]interface{} - concrete types only
package ast

import (
	"fmt"
	"strings"
	"time"
)

// AnonymousEnumName is the placeholder name recorded for enums declared
// without an identifier.
const AnonymousEnumName = "<anonymous>"

// Param is a single method parameter: the canonical C++ type spelling
// and the declared name.
//
// Parameters whose type cannot be recovered from the syntax tree are
// omitted from the method entirely rather than recorded with a
// placeholder type. A missing NAME is recoverable: it falls back to
// "arg".
type Param struct {
	// Type is the canonical rendered C++ type, e.g. "const std::string&".
	Type string `json:"type"`

	// Name is the declared parameter name, or "arg" when the declarator
	// carries no identifier.
	Name string `json:"name"`
}

// Method describes a constructor, sync method, or async method.
type Method struct {
	// Name is the method identifier as written in the header.
	Name string `json:"name"`

	// ReturnType is the canonical rendered return type.
	// Always the empty string for constructors; "void" when the
	// declaration omits a recoverable type.
	ReturnType string `json:"return_type"`

	// Params are the parameters in declaration order.
	Params []Param `json:"params"`

	// IsAsync marks methods declared with an async attribute, e.g.
	// [[webbridge::async]]. Only out-of-line declarations can carry it;
	// inline definitions are always sync.
	IsAsync bool `json:"is_async"`
}

// Signature renders the method as "name(type name, ...) -> ret" for
// reports and logs. Constructors render without the arrow.
func (m Method) Signature() string {
	parts := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		parts = append(parts, p.Type+" "+p.Name)
	}
	sig := fmt.Sprintf("%s(%s)", m.Name, strings.Join(parts, ", "))
	if m.ReturnType == "" {
		return sig
	}
	return sig + " -> " + m.ReturnType
}

// Property describes a Property<T> (or property<T>) member: a value the
// runtime exposes with a getter binding and change notifications.
type Property struct {
	// Name is the member identifier.
	Name string `json:"name"`

	// Type is the canonical rendered payload type T.
	// "unknown" when the template argument list is missing.
	Type string `json:"type"`
}

// Event describes an Event<Args...> (or event<Args...>) member: a
// signal the runtime forwards to JavaScript subscribers.
type Event struct {
	// Name is the member identifier.
	Name string `json:"name"`

	// ArgTypes are the canonical rendered argument types in order.
	// Empty for Event<>.
	ArgTypes []string `json:"arg_types"`
}

// Constant describes a const or constexpr data member.
type Constant struct {
	// Name is the member identifier.
	Name string `json:"name"`

	// Type is the canonical rendered type.
	Type string `json:"type"`

	// IsStatic is true iff the declaration carries a static token.
	IsStatic bool `json:"is_static"`
}

// Enum describes an enum or enum class defined inside the class body.
type Enum struct {
	// Name is the enum identifier, or AnonymousEnumName for unnamed
	// enums.
	Name string `json:"name"`

	// Values are the enumerator names in declaration order.
	// Initializer expressions are dropped.
	Values []string `json:"values"`

	// IsScoped is true for "enum class" definitions.
	IsScoped bool `json:"is_scoped"`
}

// ClassInfo is the extracted public surface of a bridge class.
//
// All member collections preserve declaration order, including across
// re-opened public sections. Constructors is never empty after a
// successful extraction: when the header declares none, an implicit
// default constructor is synthesized so the generator always has a
// construction path to bind.
type ClassInfo struct {
	// Name is the undecorated class name.
	Name string `json:"name"`

	// Namespaces are the enclosing namespace names, outermost first.
	// ["a", "b"] for a class defined in namespace a { namespace b { ... } }.
	Namespaces []string `json:"namespaces"`

	// Properties are the Property<T>/property<T> members.
	Properties []Property `json:"properties"`

	// Events are the Event<Args...>/event<Args...> members.
	Events []Event `json:"events"`

	// Constants are the const/constexpr data members.
	Constants []Constant `json:"constants"`

	// Enums are the enum definitions.
	Enums []Enum `json:"enums"`

	// Constructors is the list of constructors. Never empty.
	Constructors []Method `json:"constructors"`

	// SyncMethods are ordinary methods bound synchronously.
	SyncMethods []Method `json:"sync_methods"`

	// AsyncMethods are methods declared with an async attribute.
	AsyncMethods []Method `json:"async_methods"`

	// FilePath is the header the class was extracted from.
	FilePath string `json:"file_path"`

	// FileHash is the SHA256 hex digest of the header content at
	// extraction time. Used for regeneration staleness checks.
	FileHash string `json:"file_hash"`

	// ParsedAtMilli is the Unix timestamp in milliseconds when
	// extraction completed.
	ParsedAtMilli int64 `json:"parsed_at_milli"`
}

// QualifiedName joins the namespace path and class name with "::".
//
// Example: "a::b::DeepClass" for class DeepClass in namespace a::b.
func (c *ClassInfo) QualifiedName() string {
	if len(c.Namespaces) == 0 {
		return c.Name
	}
	return strings.Join(c.Namespaces, "::") + "::" + c.Name
}

// MemberCount returns the total number of extracted members across all
// seven collections.
func (c *ClassInfo) MemberCount() int {
	return len(c.Properties) + len(c.Events) + len(c.Constants) +
		len(c.Enums) + len(c.Constructors) + len(c.SyncMethods) +
		len(c.AsyncMethods)
}

// SetParsedAt sets the ParsedAtMilli field to the current time.
func (c *ClassInfo) SetParsedAt() {
	c.ParsedAtMilli = time.Now().UnixMilli()
}

// ClassMatch identifies a bridge class found during discovery scanning.
type ClassMatch struct {
	// Name is the class name.
	Name string `json:"name"`

	// Line is the 1-indexed line where the class definition starts.
	Line int `json:"line"`
}

// ValidationError represents a validation failure with field context.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks if the ClassInfo has valid field values.
//
// Returns nil if valid, or a ValidationError describing the first
// invalid field.
//
// Validates:
//   - Name is non-empty
//   - FilePath doesn't contain path traversal
//   - Constructors is non-empty (default constructor synthesis ran)
//   - All member names are non-empty
func (c *ClassInfo) Validate() error {
	if c.Name == "" {
		return ValidationError{Field: "Name", Message: "must not be empty"}
	}

	// Check for path traversal attempts
	if strings.Contains(c.FilePath, "..") {
		return ValidationError{Field: "FilePath", Message: "must not contain path traversal (..)"}
	}

	if len(c.Constructors) == 0 {
		return ValidationError{Field: "Constructors", Message: "must not be empty"}
	}

	for i, p := range c.Properties {
		if p.Name == "" {
			return ValidationError{Field: fmt.Sprintf("Properties[%d].Name", i), Message: "must not be empty"}
		}
	}
	for i, e := range c.Events {
		if e.Name == "" {
			return ValidationError{Field: fmt.Sprintf("Events[%d].Name", i), Message: "must not be empty"}
		}
	}
	for i, con := range c.Constants {
		if con.Name == "" {
			return ValidationError{Field: fmt.Sprintf("Constants[%d].Name", i), Message: "must not be empty"}
		}
	}
	for i, e := range c.Enums {
		if e.Name == "" {
			return ValidationError{Field: fmt.Sprintf("Enums[%d].Name", i), Message: "must not be empty"}
		}
	}
	for i, m := range c.Constructors {
		if m.Name == "" {
			return ValidationError{Field: fmt.Sprintf("Constructors[%d].Name", i), Message: "must not be empty"}
		}
		if m.ReturnType != "" {
			return ValidationError{Field: fmt.Sprintf("Constructors[%d].ReturnType", i), Message: "must be empty"}
		}
	}
	for i, m := range c.SyncMethods {
		if m.Name == "" {
			return ValidationError{Field: fmt.Sprintf("SyncMethods[%d].Name", i), Message: "must not be empty"}
		}
	}
	for i, m := range c.AsyncMethods {
		if m.Name == "" {
			return ValidationError{Field: fmt.Sprintf("AsyncMethods[%d].Name", i), Message: "must not be empty"}
		}
	}

	return nil
}
