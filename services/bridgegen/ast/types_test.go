// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ast

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMethod_Signature(t *testing.T) {
	tests := []struct {
		name     string
		method   Method
		expected string
	}{
		{
			name:     "no params void return",
			method:   Method{Name: "clear", ReturnType: "void"},
			expected: "clear() -> void",
		},
		{
			name: "two params int return",
			method: Method{
				Name:       "add",
				ReturnType: "int",
				Params:     []Param{{Type: "int", Name: "a"}, {Type: "int", Name: "b"}},
			},
			expected: "add(int a, int b) -> int",
		},
		{
			name: "constructor renders without arrow",
			method: Method{
				Name:   "MyObject",
				Params: []Param{{Type: "int", Name: "seed"}},
			},
			expected: "MyObject(int seed)",
		},
		{
			name: "template param type",
			method: Method{
				Name:       "loadBatch",
				ReturnType: "std::vector<int>",
				Params:     []Param{{Type: "std::vector<std::string>", Name: "keys"}},
			},
			expected: "loadBatch(std::vector<std::string> keys) -> std::vector<int>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.method.Signature(); got != tt.expected {
				t.Errorf("Signature() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestClassInfo_QualifiedName(t *testing.T) {
	tests := []struct {
		name     string
		cls      ClassInfo
		expected string
	}{
		{
			name:     "no namespaces",
			cls:      ClassInfo{Name: "Widget"},
			expected: "Widget",
		},
		{
			name:     "single namespace",
			cls:      ClassInfo{Name: "Widget", Namespaces: []string{"demo"}},
			expected: "demo::Widget",
		},
		{
			name:     "nested namespaces",
			cls:      ClassInfo{Name: "DeepClass", Namespaces: []string{"a", "b", "c"}},
			expected: "a::b::c::DeepClass",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cls.QualifiedName(); got != tt.expected {
				t.Errorf("QualifiedName() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestClassInfo_MemberCount(t *testing.T) {
	cls := ClassInfo{
		Name:         "Full",
		Properties:   []Property{{Name: "a", Type: "int"}},
		Events:       []Event{{Name: "b"}, {Name: "c"}},
		Constants:    []Constant{{Name: "d", Type: "int"}},
		Enums:        []Enum{{Name: "E"}},
		Constructors: []Method{{Name: "Full"}},
		SyncMethods:  []Method{{Name: "f"}, {Name: "g"}},
		AsyncMethods: []Method{{Name: "h"}},
	}

	if got := cls.MemberCount(); got != 9 {
		t.Errorf("MemberCount() = %d, want 9", got)
	}

	empty := ClassInfo{Name: "Empty"}
	if got := empty.MemberCount(); got != 0 {
		t.Errorf("MemberCount() = %d, want 0", got)
	}
}

func TestClassInfo_Validate(t *testing.T) {
	valid := func() ClassInfo {
		return ClassInfo{
			Name:         "Widget",
			FilePath:     "src/Widget.h",
			Constructors: []Method{{Name: "Widget"}},
			Properties:   []Property{{Name: "counter", Type: "int"}},
		}
	}

	t.Run("valid class passes", func(t *testing.T) {
		cls := valid()
		if err := cls.Validate(); err != nil {
			t.Errorf("expected valid class, got: %v", err)
		}
	})

	t.Run("empty name fails", func(t *testing.T) {
		cls := valid()
		cls.Name = ""
		if err := cls.Validate(); err == nil {
			t.Error("expected error for empty name")
		}
	})

	t.Run("path traversal fails", func(t *testing.T) {
		cls := valid()
		cls.FilePath = "../etc/passwd"
		err := cls.Validate()
		if err == nil {
			t.Fatal("expected error for path traversal")
		}
		if !strings.Contains(err.Error(), "FilePath") {
			t.Errorf("expected FilePath in error, got: %v", err)
		}
	})

	t.Run("missing constructors fails", func(t *testing.T) {
		cls := valid()
		cls.Constructors = nil
		if err := cls.Validate(); err == nil {
			t.Error("expected error for missing constructors")
		}
	})

	t.Run("unnamed member fails", func(t *testing.T) {
		cls := valid()
		cls.Properties = append(cls.Properties, Property{Type: "int"})
		err := cls.Validate()
		if err == nil {
			t.Fatal("expected error for unnamed property")
		}
		if !strings.Contains(err.Error(), "Properties[1]") {
			t.Errorf("expected indexed field in error, got: %v", err)
		}
	})
}

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Field: "Name", Message: "must not be empty"}
	if err.Error() != "Name: must not be empty" {
		t.Errorf("unexpected error string: %q", err.Error())
	}
}

func TestClassInfo_JSONFieldNames(t *testing.T) {
	cls := ClassInfo{
		Name:         "Widget",
		Namespaces:   []string{"demo"},
		Constructors: []Method{{Name: "Widget", Params: []Param{}}},
		SyncMethods:  []Method{{Name: "render", ReturnType: "void", Params: []Param{}}},
		AsyncMethods: []Method{{Name: "load", ReturnType: "int", Params: []Param{}, IsAsync: true}},
		FilePath:     "Widget.h",
	}

	data, err := json.Marshal(&cls)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// The wire format uses snake_case keys.
	for _, key := range []string{
		`"sync_methods"`, `"async_methods"`, `"return_type"`,
		`"is_async"`, `"file_path"`,
	} {
		if !strings.Contains(string(data), key) {
			t.Errorf("expected key %s in JSON output: %s", key, data)
		}
	}
}
