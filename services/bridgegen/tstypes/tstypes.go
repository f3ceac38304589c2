// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package tstypes maps canonical C++ type strings to TypeScript type
// expressions for the generated .d.ts declarations.
//
// The mapping is total: any input produces a type expression, with
// "unknown" as the fallback for types the bridge cannot marshal.
// Qualifiers that do not survive the bridge (const, references,
// pointers) are stripped before lookup, so "const std::string&" maps
// like "std::string". Sequence containers become arrays, string-keyed
// maps become Record<string, V>, everything in between recurses.
package tstypes

import "strings"

// Unknown is the TypeScript type emitted for C++ types the bridge
// cannot marshal.
const Unknown = "unknown"

// scalarTypes maps exact C++ scalar spellings to TypeScript types.
// Every integer and floating point width collapses to number; the
// distinction does not exist on the JavaScript side.
var scalarTypes = map[string]string{
	"bool":        "boolean",
	"std::string": "string",
	"nullptr_t":   "null",

	"char":          "number",
	"signed char":   "number",
	"unsigned char": "number",

	"short":              "number",
	"short int":          "number",
	"signed short":       "number",
	"signed short int":   "number",
	"unsigned short":     "number",
	"unsigned short int": "number",

	"int":          "number",
	"signed":       "number",
	"signed int":   "number",
	"unsigned":     "number",
	"unsigned int": "number",

	"long":              "number",
	"long int":          "number",
	"signed long":       "number",
	"signed long int":   "number",
	"unsigned long":     "number",
	"unsigned long int": "number",

	"long long":              "number",
	"long long int":          "number",
	"signed long long":       "number",
	"signed long long int":   "number",
	"unsigned long long":     "number",
	"unsigned long long int": "number",

	"uint8_t":  "number",
	"uint16_t": "number",
	"uint32_t": "number",
	"uint64_t": "number",
	"int8_t":   "number",
	"int16_t":  "number",
	"int32_t":  "number",
	"int64_t":  "number",
	"size_t":   "number",
	"ssize_t":  "number",

	"float":       "number",
	"double":      "number",
	"long double": "number",
}

// sequencePrefixes are the container templates that map to T[].
// std::array additionally carries a size argument that is discarded.
var sequencePrefixes = []string{
	"std::vector<",
	"std::deque<",
	"std::list<",
	"std::array<",
}

// associativePrefixes are the container templates that map to
// Record<string, V>. Only string keys are representable; any other
// key type degrades the whole map to unknown.
var associativePrefixes = []string{
	"std::map<",
	"std::unordered_map<",
}

// Map converts a canonical C++ type string to a TypeScript type
// expression.
//
// Map never fails. Types outside the supported surface (raw structs,
// function pointers, non-string map keys) come back as "unknown",
// which keeps the generated declarations compiling while flagging the
// member for manual binding.
//
// Example:
//
//	tstypes.Map("const std::string&")                  // "string"
//	tstypes.Map("std::vector<std::vector<int>>")       // "number[][]"
//	tstypes.Map("std::map<std::string,bool>")          // "Record<string, boolean>"
//	tstypes.Map("std::map<int,int>")                   // "unknown"
func Map(cppType string) string {
	t := strings.TrimSpace(cppType)

	// const, references and pointers do not survive the bridge.
	t = strings.ReplaceAll(t, "const ", "")
	t = strings.ReplaceAll(t, "&", "")
	t = strings.ReplaceAll(t, "*", "")
	t = strings.TrimSpace(t)

	if ts, ok := scalarTypes[t]; ok {
		return ts
	}

	for _, prefix := range sequencePrefixes {
		if strings.HasPrefix(t, prefix) {
			return mapSequence(t, prefix)
		}
	}

	for _, prefix := range associativePrefixes {
		if strings.HasPrefix(t, prefix) {
			return mapAssociative(t)
		}
	}

	return Unknown
}

// mapSequence maps a sequence container to an element array type.
func mapSequence(t, prefix string) string {
	payload, ok := payloadOf(t)
	if !ok {
		return Unknown
	}

	// std::array<T, N> carries a size argument; only T matters here.
	if prefix == "std::array<" {
		if element, _, found := splitTopLevel(payload); found {
			payload = strings.TrimSpace(element)
		}
	}

	return Map(payload) + "[]"
}

// mapAssociative maps a string-keyed map to Record<string, V>.
func mapAssociative(t string) string {
	payload, ok := payloadOf(t)
	if !ok {
		return Unknown
	}

	key, value, found := splitTopLevel(payload)
	if !found {
		return Unknown
	}
	if strings.TrimSpace(key) != "std::string" {
		return Unknown
	}

	return "Record<string, " + Map(strings.TrimSpace(value)) + ">"
}

// payloadOf extracts the text between the first "<" and the last ">".
func payloadOf(t string) (string, bool) {
	start := strings.Index(t, "<")
	end := strings.LastIndex(t, ">")
	if start < 0 || end <= start {
		return "", false
	}
	return strings.TrimSpace(t[start+1 : end]), true
}

// splitTopLevel splits payload at the first comma outside any angle
// brackets. Commas buried in nested template arguments do not count.
func splitTopLevel(payload string) (left, right string, found bool) {
	depth := 0
	for i, r := range payload {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				return payload[:i], payload[i+1:], true
			}
		}
	}
	return payload, "", false
}
