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
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/stephenlclarke/fixbuilder/decoder"
	"github.com/stephenlclarke/fixbuilder/fieldspec"
	"github.com/stephenlclarke/fixbuilder/fix"
	"github.com/stephenlclarke/fixbuilder/internal/config"
	"github.com/stephenlclarke/fixbuilder/internal/logging"
	"golang.org/x/term"
)

// Version, Branch, GitUrl, Sha are injected at build time via -ldflags
var (
	Version = "0.0.0"
	Branch  = "main"
	GitUrl  = "git@github.com:stephenlclarke/fixbuilder.git"
	Sha     = "0000000"
)

var isTerminal = term.IsTerminal

// tagFlag supports optional string arg; bare -tag lists all, explicit -tag= shows usage, and -tag=NN selects a tag.
type tagFlag struct {
	value string
	isSet bool
}

func (t *tagFlag) String() string     { return t.value }
func (t *tagFlag) Set(s string) error { t.value, t.isSet = s, true; return nil }
func (t *tagFlag) IsBoolFlag() bool   { return true }

// messageFlag supports an optional string argument (with or without '=').
type messageFlag struct {
	value string
	isSet bool
}

func (m *messageFlag) String() string     { return m.value }
func (m *messageFlag) Set(s string) error { m.value, m.isSet = s, true; return nil }
func (m *messageFlag) IsBoolFlag() bool   { return true }

type colourFlag struct {
	isSet bool
	value bool
}

func (c *colourFlag) String() string {
	if c.value {
		return "true"
	}
	return "false"
}

func (c *colourFlag) Set(s string) error {
	c.isSet = true
	s = strings.ToLower(s)
	switch s {
	case "", "true", "yes":
		c.value = true
	case "false", "no":
		c.value = false
	default:
		return fmt.Errorf("invalid value for -colour: %q", s)
	}
	return nil
}

func (c *colourFlag) IsBoolFlag() bool {
	return true
}

// fieldsFlag collects repeated TAG=VALUE arguments in the order given.
type fieldsFlag []fix.Field

func (f *fieldsFlag) String() string {
	if f == nil {
		return ""
	}
	return strings.TrimSuffix(fix.Join(*f, fix.Pipe), fix.Pipe)
}

func (f *fieldsFlag) Set(s string) error {
	tagStr, value, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("expected TAG=VALUE, got %q", s)
	}

	tag, err := strconv.Atoi(strings.TrimSpace(tagStr))
	if err != nil || tag <= 0 {
		return fmt.Errorf("invalid tag in %q", s)
	}

	*f = append(*f, fix.Field{Tag: tag, Value: value})
	return nil
}

func (f fieldsFlag) Map() fix.FieldMap { return fix.ToMap(f) }

// CLIOptions holds all parsed flag values.
type CLIOptions struct {
	ConfigPath  string
	DictPath    string
	Build       string
	Fields      fieldsFlag
	Original    fieldsFlag
	Live        string
	BeginString string
	Sender      string
	Target      string
	Seq         string
	SendingTime bool
	Strict      bool
	SOH         bool
	Parse       string
	Explain     string
	Table       bool
	Check       bool
	Validate    bool
	Obfuscate   bool
	Message     messageFlag
	Tag         tagFlag
	Verbose     bool
	Column      bool
	Colour      colourFlag
	Files       []string
}

// parseFlagsArgs parses command-line arguments using a fresh FlagSet.
func parseFlagsArgs(args []string, errOut io.Writer) (CLIOptions, error) {
	var opts CLIOptions

	fs := flag.NewFlagSet("fixbuilder", flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.StringVar(&opts.ConfigPath, "config", "", "Path to a YAML/JSON/TOML config file")
	fs.StringVar(&opts.DictPath, "dict", "", "Path to a QuickFIX XML data dictionary to extend the field registry")
	fs.StringVar(&opts.Build, "build", "", "Build a message: D, F, G, 8 or the message name")
	fs.Var(&opts.Fields, "field", "Field for -build as TAG=VALUE (repeatable)")
	fs.Var(&opts.Original, "orig", "Field of the order being replaced as TAG=VALUE (repeatable, -build=G)")
	fs.StringVar(&opts.Live, "live", "", "Comma separated live ClOrdIDs that OrigClOrdID(41) must reference (-build=F|G)")
	fs.StringVar(&opts.BeginString, "begin", "", "BeginString override (default from config)")
	fs.StringVar(&opts.Sender, "sender", "", "SenderCompID(49)")
	fs.StringVar(&opts.Target, "target", "", "TargetCompID(56)")
	fs.StringVar(&opts.Seq, "seq", "", "MsgSeqNum(34)")
	fs.BoolVar(&opts.SendingTime, "sendingtime", false, "Stamp SendingTime(52) with the current time")
	fs.BoolVar(&opts.Strict, "strict", false, "Refuse to build, and fail, when validation reports errors")
	fs.BoolVar(&opts.SOH, "soh", false, "Print built messages with SOH delimiters instead of '|'")
	fs.StringVar(&opts.Parse, "parse", "", "Decode a single raw FIX message (SOH or '|' delimited)")
	fs.StringVar(&opts.Explain, "explain", "", "Explain a raw execution report")
	fs.BoolVar(&opts.Table, "table", false, "Render decoded fields as a table")
	fs.BoolVar(&opts.Check, "check", false, "Verify BodyLength(9) and CheckSum(10) of decoded messages")
	fs.BoolVar(&opts.Validate, "validate", false, "Validate decoded messages (framing, types, required fields)")
	fs.BoolVar(&opts.Obfuscate, "obfuscate", false, "Replace sensitive tag values with stable aliases")
	fs.Var(&opts.Message, "message", "Message name or MsgType (omit to list all messages)")
	fs.Var(&opts.Tag, "tag", "Tag number to display details for (omit to list all tags)")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Show enum values")
	fs.BoolVar(&opts.Column, "column", false, "Display lists and enums in columns")
	fs.Var(&opts.Colour, "colour", "Force coloured output (yes|no). Default: auto-detect based on stdout")

	fs.Usage = func() {
		PrintUsage(errOut)
		fmt.Fprintln(errOut, "\nFlags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.Files = fs.Args()
	return opts, nil
}

// PrintUsage prints the program usage.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, "fixbuilder %s (branch:%s, commit:%s)\n\n", Version, Branch, Sha)
	fmt.Fprintf(w, "  git clone %s\n\n", GitUrl)
	fmt.Fprintln(w, "Usage: fixbuilder -build=D -field 11=ID -field 55=SYM ... [-sender S -target T -seq N] [-strict] [-soh]")
	fmt.Fprintln(w, "       fixbuilder -build=G -field ... [-orig 55=SYM -orig 38=QTY ...] [-live ID1,ID2]")
	fmt.Fprintln(w, "       fixbuilder -parse='8=FIX.4.4|9=...|10=NNN|' [-table] [-check] [-validate] [-obfuscate]")
	fmt.Fprintln(w, "       fixbuilder -explain='8=FIX.4.4|...|35=8|...|10=NNN|'")
	fmt.Fprintln(w, "       fixbuilder [-tag[=TAG]] [-message[=MSG]] [-verbose] [-column]")
	fmt.Fprintln(w, "       fixbuilder [-validate] [-check] [-table] [-obfuscate] [-colour=yes|no] [file1.log file2.log ...]")
	fmt.Fprintln(w, "Common: [-config fixbuilder.yaml] [-dict FIX44.xml]")
}

// loadRegistry builds the field registry, extended by an XML dictionary when one is named.
func loadRegistry(path string) (*fieldspec.Registry, error) {
	if path == "" {
		return fieldspec.New()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return fieldspec.New(fieldspec.WithDictionary(f))
}

// applyColours disables the palette unless forced on, or stdout is a terminal.
func applyColours(opts CLIOptions, cfg *config.Config) {
	switch {
	case opts.Colour.isSet:
		if !opts.Colour.value {
			decoder.DisableColours()
		}
	case cfg.Display.Colour == "yes":
	case cfg.Display.Colour == "no":
		decoder.DisableColours()
	default:
		if !isTerminal(int(os.Stdout.Fd())) {
			decoder.DisableColours()
		}
	}
}

// app carries what every handler needs once flags and config are resolved.
type app struct {
	opts   CLIOptions
	cfg    *config.Config
	reg    *fieldspec.Registry
	log    *slog.Logger
	out    io.Writer
	errOut io.Writer
}

// Process is the entry point: parses flags, loads config and the registry, runs handlers, and returns an exit code.
func Process(args []string, out, errOut io.Writer) int {
	opts, err := parseFlagsArgs(args, errOut)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	logger, closer := logging.New(cfg.Log, errOut)
	defer closer.Close()

	dictPath := opts.DictPath
	if dictPath == "" {
		dictPath = cfg.Dictionary
	}

	reg, err := loadRegistry(dictPath)
	if err != nil {
		fmt.Fprintln(errOut, "Cannot load dictionary:", err)
		logger.Error("dictionary load failed", "path", dictPath, "error", err)
		return 1
	}
	logger.Debug("registry ready", "tags", len(reg.Tags()), "dictionary", dictPath)

	applyColours(opts, cfg)

	a := &app{opts: opts, cfg: cfg, reg: reg, log: logger, out: out, errOut: errOut}
	return a.run()
}

func main() {
	os.Exit(Process(os.Args[1:], os.Stdout, os.Stderr))
}
