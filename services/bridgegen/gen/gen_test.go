// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gen

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fsbondtec/bridgegen/services/bridgegen/ast"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := NewGenerator()
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return g
}

// demoClass mirrors a typical bridge component: namespaced, with every
// member collection populated.
func demoClass() *ast.ClassInfo {
	return &ast.ClassInfo{
		Name:       "MyObject",
		Namespaces: []string{"demo"},
		Properties: []ast.Property{
			{Name: "counter", Type: "int"},
			{Name: "name", Type: "std::string"},
		},
		Events: []ast.Event{
			{Name: "onChanged", ArgTypes: []string{"int", "std::string"}},
			{Name: "onToggled", ArgTypes: []string{"bool"}},
		},
		Constants: []ast.Constant{
			{Name: "VERSION", Type: "int", IsStatic: true},
			{Name: "RATIO", Type: "double"},
		},
		Enums: []ast.Enum{
			{Name: "Mode", Values: []string{"Idle", "Active", "Closed"}, IsScoped: true},
			{Name: "Flags", Values: []string{"FlagA", "FlagB"}},
		},
		Constructors: []ast.Method{
			{Name: "MyObject", Params: []ast.Param{{Type: "int", Name: "seed"}}},
		},
		SyncMethods: []ast.Method{
			{Name: "add", ReturnType: "int", Params: []ast.Param{
				{Type: "int", Name: "a"},
				{Type: "int", Name: "b"},
			}},
		},
		AsyncMethods: []ast.Method{
			{Name: "fetchData", ReturnType: "std::string", Params: []ast.Param{
				{Type: "int", Name: "id"},
			}, IsAsync: true},
		},
		FilePath: "src/MyObject.h",
	}
}

// emptyClass has only the synthesized default constructor.
func emptyClass() *ast.ClassInfo {
	return &ast.ClassInfo{
		Name:         "Empty",
		Constructors: []ast.Method{{Name: "Empty"}},
		FilePath:     "src/Empty.h",
	}
}

func assertContains(t *testing.T, artifact, want string) {
	t.Helper()
	if !strings.Contains(artifact, want) {
		t.Errorf("artifact missing %q\n---\n%s", want, artifact)
	}
}

func TestGenerator_Registration(t *testing.T) {
	g := newTestGenerator(t)

	content, err := g.Registration(demoClass(), "src/MyObject.h")
	if err != nil {
		t.Fatalf("Registration: %v", err)
	}

	assertContains(t, content, "// Generated by bridgegen. DO NOT EDIT.")
	assertContains(t, content, "#pragma once")
	assertContains(t, content, `#include "MyObject.h"`)
	assertContains(t, content, `#include "webbridge/Impl/BindingHelpers.h"`)
	assertContains(t, content, `#include "webbridge/Impl/TypeRegistration.h"`)

	// registerType specialization with the qualified name.
	assertContains(t, content, "void registerType<demo::MyObject>(webview::webview* w)")
	assertContains(t, content, `w->bind("__new_MyObject"`)
	assertContains(t, content, "std::make_shared<demo::MyObject>(args.at(0).get<int>())")
	assertContains(t, content, `registry.registerObject(obj, "MyObject")`)

	// One binding per member, with undecorated type name and qualified
	// member pointer.
	assertContains(t, content,
		`Impl::bindPropertyGetter(*w, registry, "MyObject", "counter", &demo::MyObject::counter);`)
	assertContains(t, content,
		`Impl::bindPropertyGetter(*w, registry, "MyObject", "name", &demo::MyObject::name);`)
	assertContains(t, content,
		`Impl::bindSyncMethod(*w, registry, "MyObject", "add", &demo::MyObject::add);`)
	assertContains(t, content,
		`Impl::bindAsyncMethod(*w, registry, "MyObject", "fetchData", &demo::MyObject::fetchData);`)

	// JavaScript bootstrap with brace lists in sync, async, properties,
	// events order.
	assertContains(t, content, "w->init(Impl::generateJsGlobalRegistry());")
	assertContains(t, content, "Impl::generateJsClassWrapper(")
	assertContains(t, content, `{"add"}`)
	assertContains(t, content, `{"fetchData"}`)
	assertContains(t, content, `{"counter", "name"}`)
	assertContains(t, content, `{"onChanged", "onToggled"}`)

	// publishObject specialization with subscriptions.
	assertContains(t, content,
		"void publishObject<demo::MyObject>(webview::webview* w, std::string_view name, std::shared_ptr<demo::MyObject> obj)")
	assertContains(t, content,
		`Impl::subscribeProperty<demo::MyObject>(*w, objectId, "counter", obj->counter);`)
	assertContains(t, content,
		`Impl::subscribeEvent<demo::MyObject>(*w, objectId, "onChanged", obj->onChanged);`)
	assertContains(t, content, "w->eval(Impl::generateJsPublishedObject(")
}

func TestGenerator_Registration_DefaultConstructor(t *testing.T) {
	g := newTestGenerator(t)

	content, err := g.Registration(emptyClass(), "Empty.h")
	if err != nil {
		t.Fatalf("Registration: %v", err)
	}

	// No namespace, no constructor arguments.
	assertContains(t, content, "void registerType<Empty>(webview::webview* w)")
	assertContains(t, content, "std::make_shared<Empty>();")
	if strings.Contains(content, "args.at(") {
		t.Error("parameterless constructor must not extract arguments")
	}

	// Empty collections render as empty brace lists.
	assertContains(t, content, "{},")
}

func TestGenerator_TypeScript(t *testing.T) {
	g := newTestGenerator(t)

	content, err := g.TypeScript(demoClass(), "src/MyObject.h")
	if err != nil {
		t.Fatalf("TypeScript: %v", err)
	}

	assertContains(t, content, "// Generated by bridgegen. DO NOT EDIT.")
	assertContains(t, content, "// Source header: MyObject.h")

	assertContains(t, content, "export enum Mode {")
	assertContains(t, content, "  Idle,")
	assertContains(t, content, "  Closed,")
	assertContains(t, content, "export enum Flags {")

	assertContains(t, content, "export interface MyObject {")
	assertContains(t, content, "readonly counter: number;")
	assertContains(t, content, "readonly name: string;")
	assertContains(t, content, "readonly VERSION: number;")
	assertContains(t, content, "readonly RATIO: number;")
	assertContains(t, content, "add(a: number, b: number): number;")
	assertContains(t, content, "fetchData(id: number): Promise<string>;")
	assertContains(t, content, "onChanged(handler: (arg0: number, arg1: string) => void): void;")
	assertContains(t, content, "onToggled(handler: (arg0: boolean) => void): void;")

	assertContains(t, content, "export interface MyObjectFactory {")
	assertContains(t, content, "create(seed: number): Promise<MyObject>;")

	assertContains(t, content, "declare global {")
	assertContains(t, content, "MyObject: MyObjectFactory;")
	assertContains(t, content, "export {};")
}

func TestGenerator_TypeScript_SkipsAnonymousEnums(t *testing.T) {
	g := newTestGenerator(t)

	cls := demoClass()
	cls.Enums = append(cls.Enums, ast.Enum{
		Name:   ast.AnonymousEnumName,
		Values: []string{"Hidden"},
	})

	content, err := g.TypeScript(cls, "src/MyObject.h")
	if err != nil {
		t.Fatalf("TypeScript: %v", err)
	}

	if strings.Contains(content, ast.AnonymousEnumName) {
		t.Error("anonymous enum leaked into the declaration file")
	}
	if strings.Contains(content, "Hidden") {
		t.Error("anonymous enum values leaked into the declaration file")
	}
	assertContains(t, content, "export enum Mode {")
}

func TestGenerator_TypeScript_VoidAndUnknown(t *testing.T) {
	g := newTestGenerator(t)

	cls := emptyClass()
	cls.SyncMethods = []ast.Method{
		{Name: "reset", ReturnType: "void"},
		{Name: "raw", ReturnType: "Widget"},
	}
	cls.AsyncMethods = []ast.Method{
		{Name: "refresh", ReturnType: "void", IsAsync: true},
	}

	content, err := g.TypeScript(cls, "Empty.h")
	if err != nil {
		t.Fatalf("TypeScript: %v", err)
	}

	// void survives as void, it never degrades to unknown.
	assertContains(t, content, "reset(): void;")
	assertContains(t, content, "refresh(): Promise<void>;")
	// Unmappable types degrade to unknown.
	assertContains(t, content, "raw(): unknown;")
}

func TestGenerator_NilAndInvalidClass(t *testing.T) {
	g := newTestGenerator(t)

	if _, err := g.Registration(nil, "x.h"); !errors.Is(err, ErrNilClass) {
		t.Errorf("Registration(nil) error = %v, want ErrNilClass", err)
	}
	if _, err := g.TypeScript(nil, "x.h"); !errors.Is(err, ErrNilClass) {
		t.Errorf("TypeScript(nil) error = %v, want ErrNilClass", err)
	}

	// A class without constructors fails validation before rendering.
	broken := &ast.ClassInfo{Name: "Broken", FilePath: "x.h"}
	if _, err := g.Registration(broken, "x.h"); err == nil {
		t.Error("expected validation error for class without constructors")
	}
}

func TestGenerator_WriteArtifacts(t *testing.T) {
	g := newTestGenerator(t)
	tmpDir := t.TempDir()

	t.Run("registration header", func(t *testing.T) {
		outDir := filepath.Join(tmpDir, "build", "cpp")

		path, err := g.WriteRegistration(demoClass(), "src/MyObject.h", outDir)
		if err != nil {
			t.Fatalf("WriteRegistration: %v", err)
		}
		if path != filepath.Join(outDir, "MyObject_registration.h") {
			t.Errorf("unexpected path %q", path)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if !strings.Contains(string(content), "registerType<demo::MyObject>") {
			t.Error("written file does not contain the registration")
		}
	})

	t.Run("type declarations", func(t *testing.T) {
		outDir := filepath.Join(tmpDir, "frontend", "types")

		path, err := g.WriteTypeScript(demoClass(), "src/MyObject.h", outDir)
		if err != nil {
			t.Fatalf("WriteTypeScript: %v", err)
		}
		if path != filepath.Join(outDir, "MyObject.types.d.ts") {
			t.Errorf("unexpected path %q", path)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if !strings.Contains(string(content), "export interface MyObject {") {
			t.Error("written file does not contain the interface")
		}
	})
}

func TestJSONNames(t *testing.T) {
	tests := []struct {
		name       string
		collection any
		want       string
	}{
		{"empty methods", []ast.Method{}, "{}"},
		{"nil", nil, "{}"},
		{"methods", []ast.Method{{Name: "a"}, {Name: "b"}}, `{"a", "b"}`},
		{"properties", []ast.Property{{Name: "counter"}}, `{"counter"}`},
		{"events", []ast.Event{{Name: "onChanged"}}, `{"onChanged"}`},
		{"strings", []string{"x", "y"}, `{"x", "y"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jsonNames(tt.collection); got != tt.want {
				t.Errorf("jsonNames = %q, want %q", got, tt.want)
			}
		})
	}
}
