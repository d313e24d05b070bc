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
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/stephenlclarke/fixbuilder/fieldspec"
	"github.com/stephenlclarke/fixbuilder/fix"
	"github.com/stephenlclarke/fixbuilder/validator"
	"golang.org/x/term"
)

var (
	getTermSize           = term.GetSize // allow override in tests
	stdin       io.Reader = os.Stdin
	openFile              = func(path string) (io.ReadCloser, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
)

var (
	ColourReset = "\033[0m"
	ColourLine  = "\033[38;5;244m"
	ColourTag   = "\033[38;5;81m"
	ColourName  = "\033[38;5;151m"
	ColourValue = "\033[38;5;228m"
	ColourEnum  = "\033[38;5;214m"
	ColourFile  = "\033[95m"
	ColourError = "\033[31m"
	ColourMsg   = "\033[97m"
	ColourTitle = "\033[31m"
)

func DisableColours() {
	ColourReset = ""
	ColourLine = ""
	ColourTag = ""
	ColourName = ""
	ColourValue = ""
	ColourEnum = ""
	ColourFile = ""
	ColourError = ""
	ColourMsg = ""
	ColourTitle = ""
}

// Prettify renders one annotated line per field.
func Prettify(p ParsedMessage, reg *fieldspec.Registry) string {
	var sb strings.Builder

	for _, fv := range p.Fields {
		name := reg.Label(fv.Tag)
		desc := reg.EnumDescription(fv.Tag, fv.Value)

		sb.WriteString(fmt.Sprintf("    %s%4d%s (%s%s%s): %s%s%s",
			ColourTag, fv.Tag, ColourReset,
			ColourName, name, ColourReset,
			ColourValue, fv.Value, ColourReset,
		))

		if desc != "" {
			sb.WriteString(fmt.Sprintf(" (%s%s%s)", ColourEnum, desc, ColourReset))
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// Table renders the fields as an aligned, uncoloured table.
func Table(p ParsedMessage, reg *fieldspec.Registry) string {
	table := uitable.New()
	table.MaxColWidth = 60
	table.Wrap = true

	table.AddRow("TAG", "NAME", "VALUE", "MEANING")
	for _, fv := range p.Fields {
		table.AddRow(fv.Tag, reg.Label(fv.Tag), fv.Value, reg.EnumDescription(fv.Tag, fv.Value))
	}

	return table.String() + "\n"
}

// Stream finds FIX messages embedded in log lines and prints each one
// decoded. Messages may be SOH or '|' delimited.
type Stream struct {
	Parser     *Parser
	Registry   *fieldspec.Registry
	Validator  *validator.Validator // nil disables -validate output
	Obfuscator *fix.Obfuscator
	Integrity  bool
	Table      bool
}

// Files streams each path, "-" meaning stdin. No paths reads stdin.
func (s *Stream) Files(paths []string, out io.Writer, errOut io.Writer) int {
	hadError := false

	if len(paths) == 0 {
		if err := s.Read(stdin, out, errOut); err != nil {
			fmt.Fprintln(errOut, ColourError+"Error reading input:"+err.Error()+ColourReset)
			return 1
		}

		return 0
	}

	for _, path := range paths {
		var (
			r io.Reader
			c io.Closer // nil when reading stdin
		)

		if path == "-" {
			fmt.Fprint(out, "Processing: (stdin)\n\n")
			r = stdin
		} else {
			fmt.Fprint(out, "Processing: ", ColourFile, path, ColourReset, "\n\n")

			f, err := openFile(path)
			if err != nil {
				fmt.Fprintln(errOut, ColourError+"Cannot open file:"+err.Error()+ColourReset)
				hadError = true
				continue
			}

			r, c = f, f
		}

		if err := s.Read(r, out, errOut); err != nil {
			fmt.Fprintln(errOut, ColourError+"Error reading file:"+err.Error()+ColourReset)
			hadError = true
		}

		if c != nil {
			c.Close()
		}
	}

	if hadError {
		return 1
	}

	return 0
}

// Read decodes every message found in r, line by line.
func (s *Stream) Read(in io.Reader, out io.Writer, errOut io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	separator := ColourTitle + strings.Repeat("=", getTerminalWidth()) + ColourReset + "\n"

	for scanner.Scan() {
		s.handleLogLine(scanner.Text(), out, errOut, separator)
	}

	return scanner.Err()
}

func (s *Stream) handleLogLine(line string, out, errOut io.Writer, separator string) {
	matches := findFixMessageIndices(line)

	if len(matches) == 0 {
		fmt.Fprint(out, ColourLine, s.Obfuscator.Line(line, DetectDelimiter(line), errOut), ColourReset, "\n")
		return
	}

	fixMessages, colouredLine := extractFixMessagesAndFormat(line, matches)
	fmt.Fprint(out, s.Obfuscator.Line(colouredLine, DetectDelimiter(line), errOut))
	fmt.Fprint(out, separator)

	for _, msg := range fixMessages {
		s.processFixMessage(msg, out, errOut, separator)
	}
}

func (s *Stream) processFixMessage(msg string, out, errOut io.Writer, separator string) {
	p, err := s.Parser.Parse(msg)
	if err != nil {
		fmt.Fprintf(out, "%s== %s%s\n", ColourError, err, ColourReset)
		fmt.Fprint(out, separator)
		return
	}

	// checks run against the original values, display uses the aliases
	var errors []string
	if s.Validator != nil {
		errors = ValidateMessage(p, s.Registry, s.Validator)
	} else if s.Integrity {
		errors = CheckIntegrity(p)
	}

	shown := p
	shown.Fields = s.Obfuscator.Fields(p.Fields, errOut)

	if s.Table {
		fmt.Fprint(out, Table(shown, s.Registry))
	} else {
		fmt.Fprint(out, Prettify(shown, s.Registry))
	}

	if len(errors) > 0 {
		fmt.Fprint(out, separator)

		for _, e := range errors {
			fmt.Fprintf(out, "%s== %s%s\n", ColourError, e, ColourReset)
		}
	}

	fmt.Fprint(out, separator)
}

func getTerminalWidth() int {
	if w, _, err := getTermSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

var fixMessagePattern = regexp.MustCompile(`8=FIX.*?[\x01|]10=\d{3}[\x01|]?`)

func findFixMessageIndices(line string) [][]int {
	return fixMessagePattern.FindAllStringIndex(line, -1)
}

func extractFixMessagesAndFormat(line string, matches [][]int) ([]string, string) {
	var (
		output      strings.Builder
		lastIndex   int
		fixMessages []string
	)

	for _, match := range matches {
		start, end := match[0], match[1]
		before := line[lastIndex:start]
		fixPart := line[start:end]

		output.WriteString(ColourLine + before + ColourMsg + fixPart)
		fixMessages = append(fixMessages, fixPart)
		lastIndex = end
	}

	output.WriteString(ColourLine + line[lastIndex:] + ColourReset + "\n")

	return fixMessages, output.String()
}
