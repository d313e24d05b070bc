/*
fixbuilder — FIX message builder and decoder
Copyright (C) 2025 Steve Clarke <stephenlclarke@mac.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.

In accordance with section 13 of the AGPL, if you modify this program,
your modified version must prominently offer all users interacting with it
remotely through a computer network an opportunity to receive the source
code of your version.
*/
package decoder

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/stephenlclarke/fixbuilder/fieldspec"
)

// ListAllTags prints every registry tag number, name, and type.
func ListAllTags(w io.Writer, reg *fieldspec.Registry) {
	for _, tag := range reg.Tags() {
		f, _ := reg.Lookup(tag)
		fmt.Fprintf(w, "%-4d: %s (%s)\n", f.Tag, f.Label, f.Type)
	}
}

func PrintTagsInColumns(w io.Writer, reg *fieldspec.Registry) {
	tags := reg.Tags()
	lines := make([]string, len(tags))
	for i, tag := range tags {
		f, _ := reg.Lookup(tag)
		lines[i] = fmt.Sprintf("%-4d: %s (%s)", f.Tag, f.Label, f.Type)
	}

	PrintStringColumns(w, lines)
}

// PrintTagDetails prints a field's header, help and, if verbose, its enum values.
func PrintTagDetails(w io.Writer, field fieldspec.FieldSpec, verbose, column bool) {
	fmt.Fprintf(w, "%-4d: %s (%s)%s\n", field.Tag, field.Label, field.Type, formatRequired(field.Required))

	if field.Help != "" {
		printIndent(w, 4)
		fmt.Fprintln(w, field.Help)
	}
	if field.Condition != "" {
		printIndent(w, 4)
		fmt.Fprintf(w, "required when %s\n", field.Condition)
	}

	if !verbose {
		return
	}

	values := sortedEnums(field.Enums)
	if column {
		printEnumColumns(w, values, 4)
		return
	}

	for _, v := range values {
		printEnum(w, v[0], v[1], 4)
	}
}

// ListAllMessages prints the buildable message types.
func ListAllMessages(w io.Writer, reg *fieldspec.Registry) {
	for _, mt := range reg.MessageTypes() {
		fmt.Fprintf(w, "%-4s: %s\n", mt, reg.MessageName(string(mt)))
	}
}

// DisplayMessageLayout prints a message type's fields in wire order, marking
// required fields and the rule behind each conditional one.
func DisplayMessageLayout(w io.Writer, reg *fieldspec.Registry, layout fieldspec.MessageLayout, verbose bool) {
	fmt.Fprintf(w, "Message: %s (%s)\n", layout.Name, layout.MsgType)

	required := make(map[int]bool, len(layout.Required))
	for _, tag := range layout.Required {
		required[tag] = true
	}

	conditions := make(map[int]string, len(layout.Conditionals))
	for _, rule := range layout.Conditionals {
		conditions[rule.TargetTag] = rule.String()
	}

	for _, tag := range layout.Order {
		printIndent(w, 2)

		f, _ := reg.Lookup(tag)
		fmt.Fprintf(w, "%-4d: %s (%s)%s", tag, reg.Label(tag), f.Type, formatRequired(required[tag]))
		if cond, ok := conditions[tag]; ok {
			fmt.Fprintf(w, " - (%s)", cond)
		}
		fmt.Fprintln(w)

		if verbose {
			for _, v := range sortedEnums(f.Enums) {
				printEnum(w, v[0], v[1], 4)
			}
		}
	}
}

// PrintStringColumns prints items in columns sized to the terminal width.
func PrintStringColumns(w io.Writer, items []string) {
	width := getTerminalWidth()

	maxLen := 0
	for _, s := range items {
		if len(s) > maxLen {
			maxLen = len(s)
		}
	}

	cols := width / (maxLen + 2)
	if cols == 0 {
		cols = 1
	}

	rows := (len(items) + cols - 1) / cols

	for r := range rows {
		for c := range cols {
			i := c*rows + r

			if i < len(items) {
				fmt.Fprintf(w, "%-*s", maxLen+2, items[i])
			}
		}

		fmt.Fprintln(w)
	}
}

func printIndent(w io.Writer, level int) {
	fmt.Fprint(w, strings.Repeat(" ", level))
}

func printEnum(w io.Writer, enum string, description string, indent int) {
	printIndent(w, indent+4)
	fmt.Fprintf(w, "%s : %s\n", enum, description)
}

func formatRequired(req bool) string {
	if req {
		return " - (Y)"
	}

	return ""
}

func sortedEnums(enums map[string]string) [][2]string {
	out := make([][2]string, 0, len(enums))
	for k, v := range enums {
		out = append(out, [2]string{k, v})
	}

	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

func printEnumColumns(w io.Writer, values [][2]string, indent int) {
	if len(values) == 0 {
		return
	}

	width := getTerminalWidth()

	usableWidth := width - indent
	if usableWidth <= 0 {
		usableWidth = width
	}

	maxLen := 0
	for _, v := range values {
		l := len(v[0]) + 2 + len(v[1])

		if l > maxLen {
			maxLen = l
		}
	}

	cols := usableWidth / (maxLen + 2)
	if cols == 0 {
		cols = 1
	}

	rows := (len(values) + cols - 1) / cols

	for r := range rows {
		printIndent(w, indent)

		for c := range cols {
			i := c*rows + r

			if i < len(values) {
				s := fmt.Sprintf("%s: %s", values[i][0], values[i][1])
				fmt.Fprintf(w, "%-*s", maxLen+2, s)
			}
		}

		fmt.Fprintln(w)
	}
}
