// Copyright (C) 2025 FS Bondtec
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gen

import (
	"fmt"
	"strings"

	"github.com/fsbondtec/bridgegen/services/bridgegen/ast"
)

const (
	reportRuleWide   = 80
	reportRuleNarrow = 40
)

// Report renders the human-readable extraction report for cls.
//
// # Description
//
// The report lists every member collection with counts and aligned
// name columns, followed by a summary block. A nil cls renders the
// not-found form with the probable causes, so callers can hand the
// report to users without branching on the lookup result.
func (g *Generator) Report(cls *ast.ClassInfo, headerPath string) string {
	var b strings.Builder
	wide := strings.Repeat("=", reportRuleWide)
	rule := strings.Repeat("-", reportRuleWide)
	narrow := strings.Repeat("-", reportRuleNarrow)

	b.WriteString(wide + "\n")
	b.WriteString("bridgegen - Detailed Class Report\n")
	b.WriteString(wide + "\n")
	fmt.Fprintf(&b, "Header file: %s\n", headerPath)

	if cls == nil {
		b.WriteString("Class found: No\n\n")
		b.WriteString("WARNING: class not found!\n\n")
		b.WriteString("Probable causes:\n")
		b.WriteString("  - the class does not exist in the header file\n")
		b.WriteString("  - the class name is misspelled\n")
		b.WriteString("  - the header file contains syntax errors\n")
		b.WriteString(wide + "\n")
		return b.String()
	}

	b.WriteString("Class found: Yes\n\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Class: %s\n", cls.Name)
	b.WriteString(rule + "\n\n")

	fmt.Fprintf(&b, "PROPERTIES (%d)\n%s\n", len(cls.Properties), narrow)
	if len(cls.Properties) > 0 {
		width := 0
		for _, p := range cls.Properties {
			width = max(width, len(p.Name))
		}
		for _, p := range cls.Properties {
			fmt.Fprintf(&b, "  • %-*s : %s\n", width, p.Name, p.Type)
		}
	} else {
		b.WriteString("  (no properties found)\n")
	}

	fmt.Fprintf(&b, "\nEVENTS (%d)\n%s\n", len(cls.Events), narrow)
	if len(cls.Events) > 0 {
		width := 0
		for _, e := range cls.Events {
			width = max(width, len(e.Name))
		}
		for _, e := range cls.Events {
			fmt.Fprintf(&b, "  • %-*s : Event<%s>\n", width, e.Name, strings.Join(e.ArgTypes, ", "))
		}
	} else {
		b.WriteString("  (no events found)\n")
	}

	fmt.Fprintf(&b, "\nCONSTANTS (%d)\n%s\n", len(cls.Constants), narrow)
	if len(cls.Constants) > 0 {
		width := 0
		for _, c := range cls.Constants {
			width = max(width, len(c.Name))
		}
		for _, c := range cls.Constants {
			staticPrefix := ""
			if c.IsStatic {
				staticPrefix = "static "
			}
			fmt.Fprintf(&b, "  - %-*s : %s%s\n", width, c.Name, staticPrefix, c.Type)
		}
	} else {
		b.WriteString("  (no constants found)\n")
	}

	fmt.Fprintf(&b, "\nENUMS (%d)\n%s\n", len(cls.Enums), narrow)
	if len(cls.Enums) > 0 {
		for _, e := range cls.Enums {
			kind := "enum"
			if e.IsScoped {
				kind = "enum class"
			}
			values := strings.Join(e.Values, ", ")
			if len(e.Values) == 0 {
				values = "(no values)"
			}
			fmt.Fprintf(&b, "  • %s [%s]: {%s}\n", e.Name, kind, values)
		}
	} else {
		b.WriteString("  (no enums found)\n")
	}

	fmt.Fprintf(&b, "\nCONSTRUCTORS (%d)\n%s\n", len(cls.Constructors), narrow)
	if len(cls.Constructors) > 0 {
		for _, ctor := range cls.Constructors {
			fmt.Fprintf(&b, "  • %s\n", ctor.Signature())
		}
	} else {
		b.WriteString("  (no constructors found)\n")
	}

	fmt.Fprintf(&b, "\nSYNC METHODS (%d)\n%s\n", len(cls.SyncMethods), narrow)
	if len(cls.SyncMethods) > 0 {
		for _, m := range cls.SyncMethods {
			fmt.Fprintf(&b, "  • %s\n", m.Signature())
		}
	} else {
		b.WriteString("  (no sync methods found)\n")
	}

	fmt.Fprintf(&b, "\nASYNC METHODS (%d)\n%s\n", len(cls.AsyncMethods), narrow)
	if len(cls.AsyncMethods) > 0 {
		for _, m := range cls.AsyncMethods {
			fmt.Fprintf(&b, "  • %s [ASYNC]\n", m.Signature())
		}
	} else {
		b.WriteString("  (no async methods found)\n")
	}

	fmt.Fprintf(&b, "\nSUMMARY\n%s\n", narrow)
	fmt.Fprintf(&b, "  Total members: %d\n", cls.MemberCount())
	fmt.Fprintf(&b, "    - Properties:      %d\n", len(cls.Properties))
	fmt.Fprintf(&b, "    - Events:          %d\n", len(cls.Events))
	fmt.Fprintf(&b, "    - Constants:       %d\n", len(cls.Constants))
	fmt.Fprintf(&b, "    - Enums:           %d\n", len(cls.Enums))
	fmt.Fprintf(&b, "    - Constructors:    %d\n", len(cls.Constructors))
	fmt.Fprintf(&b, "    - Sync methods:    %d\n", len(cls.SyncMethods))
	fmt.Fprintf(&b, "    - Async methods:   %d\n", len(cls.AsyncMethods))

	b.WriteString("\n" + wide + "\nEnd of report\n" + wide + "\n")
	return b.String()
}
