// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package gen renders build artifacts from parsed class descriptions.
//
// Three artifacts exist per class: the C++ registration header that
// specializes webbridge::registerType and webbridge::publishObject,
// the TypeScript declaration file for the frontend, and a
// human-readable report used for diagnostics. The C++ and TypeScript
// artifacts come from embedded templates; the report is plain string
// assembly.
package gen

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/fsbondtec/bridgegen/services/bridgegen/ast"
	"github.com/fsbondtec/bridgegen/services/bridgegen/tstypes"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// ErrNilClass is returned when an artifact is requested for a nil
// class description.
var ErrNilClass = errors.New("class info must not be nil")

const (
	registrationTemplate = "registration.h.tmpl"
	typescriptTemplate   = "types.d.ts.tmpl"
)

// Generator renders registration headers and TypeScript declarations
// for parsed bridge classes.
//
// # Thread Safety
//
// Safe for concurrent use. Templates are parsed once at construction
// and only read afterwards.
type Generator struct {
	tmpl *template.Template
}

// NewGenerator parses the embedded templates and returns a ready
// Generator.
//
// # Outputs
//
//   - *Generator: Configured generator.
//   - error: Non-nil if template parsing fails.
func NewGenerator() (*Generator, error) {
	funcMap := template.FuncMap{
		"tsType":      tstypes.Map,
		"tsReturn":    tsReturn,
		"tsParams":    tsParams,
		"tsEventArgs": tsEventArgs,
		"jsonNames":   jsonNames,
		"join":        strings.Join,
		"ctorArgs":    ctorArgs,
		"namedEnums":  namedEnums,
	}

	tmpl, err := template.New("gen").Funcs(funcMap).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing embedded templates: %w", err)
	}

	return &Generator{tmpl: tmpl}, nil
}

// templateData is the root object handed to both templates.
type templateData struct {
	// Class is the parsed class description.
	Class *ast.ClassInfo

	// HeaderFile is the base name of the source header, used for the
	// include directive and the generated-file banner.
	HeaderFile string

	// Qualified is the fully qualified class name, namespaces included.
	Qualified string
}

// Registration renders the C++ registration header for cls.
//
// # Description
//
// The header specializes webbridge::registerType<T> with one binding
// per property getter, sync method and async method, a constructor
// binding, and the JavaScript bootstrap calls. It also specializes
// webbridge::publishObject<T> for pre-built instances, wiring property
// and event subscriptions.
//
// # Inputs
//
//   - cls: Parsed class description. Must validate.
//   - headerPath: Path of the source header. Only the base name ends
//     up in the generated include.
//
// # Outputs
//
//   - string: The complete header text.
//   - error: Non-nil if cls is nil, invalid, or rendering fails.
func (g *Generator) Registration(cls *ast.ClassInfo, headerPath string) (string, error) {
	data, err := g.prepare(cls, headerPath)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, registrationTemplate, data); err != nil {
		return "", fmt.Errorf("rendering registration header: %w", err)
	}
	return buf.String(), nil
}

// TypeScript renders the .d.ts declaration file for cls.
//
// # Description
//
// The file exports each named enum, an interface for class instances
// (readonly properties and constants, sync methods, Promise-returning
// async methods, event subscription methods), a factory interface for
// construction from JavaScript, and a declare-global block exposing
// the factory on window.webbridge.
//
// # Outputs
//
//   - string: The complete declaration file text.
//   - error: Non-nil if cls is nil, invalid, or rendering fails.
func (g *Generator) TypeScript(cls *ast.ClassInfo, headerPath string) (string, error) {
	data, err := g.prepare(cls, headerPath)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, typescriptTemplate, data); err != nil {
		return "", fmt.Errorf("rendering type declarations: %w", err)
	}
	return buf.String(), nil
}

// WriteRegistration renders the registration header and writes it to
// outDir as {Class}_registration.h, creating the directory if needed.
//
// # Outputs
//
//   - string: Path of the written file.
//   - error: Non-nil if rendering or writing fails.
func (g *Generator) WriteRegistration(cls *ast.ClassInfo, headerPath, outDir string) (string, error) {
	content, err := g.Registration(cls, headerPath)
	if err != nil {
		return "", err
	}
	return writeArtifact(outDir, cls.Name+"_registration.h", content)
}

// WriteTypeScript renders the declaration file and writes it to
// outDir as {Class}.types.d.ts, creating the directory if needed.
//
// # Outputs
//
//   - string: Path of the written file.
//   - error: Non-nil if rendering or writing fails.
func (g *Generator) WriteTypeScript(cls *ast.ClassInfo, headerPath, outDir string) (string, error) {
	content, err := g.TypeScript(cls, headerPath)
	if err != nil {
		return "", err
	}
	return writeArtifact(outDir, cls.Name+".types.d.ts", content)
}

// prepare validates cls and assembles the template data.
func (g *Generator) prepare(cls *ast.ClassInfo, headerPath string) (*templateData, error) {
	if cls == nil {
		return nil, ErrNilClass
	}
	if err := cls.Validate(); err != nil {
		return nil, fmt.Errorf("invalid class info: %w", err)
	}

	return &templateData{
		Class:      cls,
		HeaderFile: filepath.Base(headerPath),
		Qualified:  cls.QualifiedName(),
	}, nil
}

// writeArtifact writes content under dir, creating dir first.
func writeArtifact(dir, name, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %q: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing %q: %w", path, err)
	}
	return path, nil
}

// jsonNames renders the names of a member collection as a C++ brace
// list of quoted strings, e.g. {"add", "reset"}. An empty collection
// renders as {}.
func jsonNames(collection any) string {
	var names []string

	switch items := collection.(type) {
	case []ast.Property:
		for _, p := range items {
			names = append(names, p.Name)
		}
	case []ast.Event:
		for _, e := range items {
			names = append(names, e.Name)
		}
	case []ast.Method:
		for _, m := range items {
			names = append(names, m.Name)
		}
	case []string:
		names = items
	}

	if len(names) == 0 {
		return "{}"
	}

	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = `"` + name + `"`
	}
	return "{" + strings.Join(quoted, ", ") + "}"
}

// ctorArgs renders the JSON argument extraction list for a
// constructor binding, one args.at(i).get<T>() per parameter.
func ctorArgs(params []ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("args.at(%d).get<%s>()", i, p.Type)
	}
	return strings.Join(parts, ", ")
}

// tsParams renders a TypeScript parameter list from C++ parameters.
func tsParams(params []ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + ": " + tstypes.Map(p.Type)
	}
	return strings.Join(parts, ", ")
}

// tsEventArgs renders the handler parameter list for an event. Events
// carry argument types only, so parameters are named positionally.
func tsEventArgs(argTypes []string) string {
	parts := make([]string, len(argTypes))
	for i, t := range argTypes {
		parts[i] = fmt.Sprintf("arg%d: %s", i, tstypes.Map(t))
	}
	return strings.Join(parts, ", ")
}

// tsReturn maps a C++ return type for TypeScript, keeping void as
// void instead of degrading it to unknown.
func tsReturn(returnType string) string {
	if returnType == "" || returnType == "void" {
		return "void"
	}
	return tstypes.Map(returnType)
}

// namedEnums filters out anonymous enums, which have no legal
// TypeScript name.
func namedEnums(enums []ast.Enum) []ast.Enum {
	named := make([]ast.Enum, 0, len(enums))
	for _, e := range enums {
		if e.Name != ast.AnonymousEnumName {
			named = append(named, e)
		}
	}
	return named
}
