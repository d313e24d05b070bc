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
	"fmt"
	"strconv"
	"strings"

	"github.com/quickfixgo/enum"
	"github.com/stephenlclarke/fixbuilder/decoder"
	"github.com/stephenlclarke/fixbuilder/encoder"
	"github.com/stephenlclarke/fixbuilder/fix"
	"github.com/stephenlclarke/fixbuilder/validator"
)

// run dispatches to the first mode the flags ask for. Lookup handlers may be
// combined; the remaining modes are exclusive.
func (a *app) run() int {
	if a.runHandlers() {
		return 0
	}

	switch {
	case a.opts.Build != "":
		return a.handleBuild()
	case a.opts.Explain != "":
		return a.handleExplain()
	case a.opts.Parse != "":
		return a.handleParse()
	}

	stream := &decoder.Stream{
		Parser:     decoder.NewParser(a.reg),
		Registry:   a.reg,
		Obfuscator: a.obfuscator(),
		Integrity:  a.opts.Check,
		Table:      a.opts.Table,
	}
	if a.opts.Validate {
		stream.Validator = validator.New(a.reg)
	}

	return stream.Files(a.opts.Files, a.out, a.errOut)
}

// runHandlers invokes the "-message" and "-tag" handlers.
// It returns true if any handler fired.
func (a *app) runHandlers() bool {
	handled := false

	if a.handleMessage() {
		handled = true
	}

	if a.handleTag() {
		handled = true
	}

	return handled
}

// handleMessage processes the -message flag. Returns true if handled.
func (a *app) handleMessage() bool {
	if !a.opts.Message.isSet {
		return false
	}

	switch a.opts.Message.value {
	case "true": // bare -message
		decoder.ListAllMessages(a.out, a.reg)
	case "": // explicit -message=
		PrintUsage(a.out)
	default:
		msgType, ok := a.reg.ParseMsgType(a.opts.Message.value)
		if !ok {
			fmt.Fprintf(a.out, "Message not found: %s\n", a.opts.Message.value)
			return true
		}

		layout, _ := a.reg.Layout(msgType)
		decoder.DisplayMessageLayout(a.out, a.reg, layout, a.opts.Verbose)
	}

	return true
}

// handleTag processes the -tag flag. Returns true if handled.
func (a *app) handleTag() bool {
	if !a.opts.Tag.isSet {
		return false
	}

	switch a.opts.Tag.value {
	case "true": // bare -tag
		if a.opts.Column {
			decoder.PrintTagsInColumns(a.out, a.reg)
		} else {
			decoder.ListAllTags(a.out, a.reg)
		}
	case "": // explicit -tag=
		PrintUsage(a.out)
	default:
		a.handleSpecificTag()
	}

	return true
}

func (a *app) handleSpecificTag() {
	id, err := strconv.Atoi(a.opts.Tag.value)
	if err != nil {
		field, found := a.reg.LookupName(a.opts.Tag.value)
		if !found {
			fmt.Fprintf(a.out, "Invalid tag: %s\n", a.opts.Tag.value)
			return
		}
		decoder.PrintTagDetails(a.out, field, a.opts.Verbose, a.opts.Column)
		return
	}

	field, found := a.reg.Lookup(id)
	if !found {
		fmt.Fprintf(a.out, "Tag not found: %d\n", id)
		return
	}

	decoder.PrintTagDetails(a.out, field, a.opts.Verbose, a.opts.Column)
}

func (a *app) handleBuild() int {
	msgType, ok := a.reg.ParseMsgType(a.opts.Build)
	if !ok {
		fmt.Fprintf(a.errOut, "%sUnknown message type: %s%s\n", decoder.ColourError, a.opts.Build, decoder.ColourReset)
		return 1
	}

	header := encoder.Header{
		BeginString:  firstNonBlank(a.opts.BeginString, a.cfg.Session.BeginString),
		SenderCompID: firstNonBlank(a.opts.Sender, a.cfg.Session.SenderCompID),
		TargetCompID: firstNonBlank(a.opts.Target, a.cfg.Session.TargetCompID),
		MsgSeqNum:    a.opts.Seq,
	}

	strict := a.opts.Strict || a.cfg.Build.Strict
	b := encoder.New(a.reg,
		encoder.WithStrict(strict),
		encoder.WithSendingTime(a.opts.SendingTime || a.cfg.Build.StampSendingTime),
	)

	fields := a.opts.Fields.Map()
	msg, err := b.Build(msgType, fields, header)

	var verr *encoder.ValidationError
	if errors.As(err, &verr) {
		a.printErrors(verr.Errors)
		a.log.Debug("strict build refused", "msgType", string(msgType), "errors", len(verr.Errors))
		return 1
	}
	if err != nil {
		fmt.Fprintf(a.errOut, "%s%v%s\n", decoder.ColourError, err, decoder.ColourReset)
		return 1
	}

	errs := append(msg.Errors, a.semanticChecks(msgType, fields)...)

	if a.opts.SOH {
		fmt.Fprintln(a.out, string(msg.Raw))
	} else {
		fmt.Fprintln(a.out, msg.Display)
	}
	a.printErrors(errs)

	a.log.Debug("built message",
		"msgType", string(msgType),
		"bodyLength", msg.BodyLength,
		"checksum", msg.CheckSum,
		"errors", len(errs),
	)

	if strict && len(errs) > 0 {
		return 1
	}
	return 0
}

// semanticChecks runs the replace and cancel target rules when the flags
// supply the state they need.
func (a *app) semanticChecks(msgType enum.MsgType, fields fix.FieldMap) []string {
	v := validator.New(a.reg)

	var errs []string
	if msgType == enum.MsgType_ORDER_CANCEL_REPLACE_REQUEST && len(a.opts.Original) > 0 {
		errs = append(errs, v.ValidateReplace(fields, a.opts.Original.Map())...)
	}

	isCancelOrReplace := msgType == enum.MsgType_ORDER_CANCEL_REQUEST || msgType == enum.MsgType_ORDER_CANCEL_REPLACE_REQUEST
	if isCancelOrReplace && a.opts.Live != "" {
		live := make(map[string]bool)
		for _, id := range strings.Split(a.opts.Live, ",") {
			live[strings.TrimSpace(id)] = true
		}
		errs = append(errs, v.ValidateCancelTarget(fields, func(id string) bool { return live[id] })...)
	}

	return errs
}

func (a *app) handleParse() int {
	p, err := decoder.NewParser(a.reg).Parse(a.opts.Parse)
	if err != nil {
		fmt.Fprintf(a.errOut, "%s%v%s\n", decoder.ColourError, err, decoder.ColourReset)
		return 1
	}

	fmt.Fprintf(a.out, "MsgType: %s", p.Meta.MsgType)
	if p.Meta.MsgTypeName != "" {
		fmt.Fprintf(a.out, " (%s)", p.Meta.MsgTypeName)
	}
	fmt.Fprintf(a.out, "  BeginString: %s  BodyLength: %s  CheckSum: %s\n\n",
		p.Meta.BeginString, p.Meta.BodyLength, p.Meta.CheckSum)

	var errs []string
	switch {
	case a.opts.Validate:
		errs = decoder.ValidateMessage(p, a.reg, validator.New(a.reg))
	case a.opts.Check:
		errs = decoder.CheckIntegrity(p)
	}

	shown := p
	shown.Fields = a.obfuscator().Fields(p.Fields, a.errOut)

	if a.opts.Table {
		fmt.Fprint(a.out, decoder.Table(shown, a.reg))
	} else {
		fmt.Fprint(a.out, decoder.Prettify(shown, a.reg))
	}

	a.printErrors(errs)
	a.log.Debug("parsed message", "msgType", p.Meta.MsgType, "fields", len(p.Fields), "errors", len(errs))

	if len(errs) > 0 && (a.opts.Strict || a.cfg.Build.Strict) {
		return 1
	}
	return 0
}

func (a *app) handleExplain() int {
	p, err := decoder.NewParser(a.reg).Parse(a.opts.Explain)
	if err != nil {
		fmt.Fprintf(a.errOut, "%s%v%s\n", decoder.ColourError, err, decoder.ColourReset)
		return 1
	}

	if p.Meta.MsgType != string(enum.MsgType_EXECUTION_REPORT) {
		fmt.Fprintf(a.errOut, "%sNot an execution report: MsgType %s%s\n", decoder.ColourError, p.Meta.MsgType, decoder.ColourReset)
		return 1
	}

	ex := decoder.ExplainExecutionReport(p.FieldMap())

	fmt.Fprintln(a.out, ex.Summary)
	fmt.Fprintf(a.out, "  ExecType:  %s %s\n", ex.ExecType, a.describe(fix.TagExecType, ex.ExecType))
	fmt.Fprintf(a.out, "  OrdStatus: %s %s\n", ex.OrdStatus, a.describe(fix.TagOrdStatus, ex.OrdStatus))

	if ex.LeavesQty != "" {
		suffix := ""
		if ex.LeavesComputed {
			suffix = " (computed as OrderQty - CumQty)"
		}
		fmt.Fprintf(a.out, "  LeavesQty: %s%s\n", ex.LeavesQty, suffix)
	}

	a.printErrors(ex.Checks)
	return 0
}

func (a *app) describe(tag int, value string) string {
	if desc := a.reg.EnumDescription(tag, value); desc != "" {
		return "(" + desc + ")"
	}
	return ""
}

func (a *app) obfuscator() *fix.Obfuscator {
	return fix.CreateObfuscator(a.cfg.SensitiveTags(a.reg.Label), a.opts.Obfuscate || a.cfg.Display.Obfuscate)
}

func (a *app) printErrors(errs []string) {
	for _, e := range errs {
		fmt.Fprintf(a.out, "%s== %s%s\n", decoder.ColourError, e, decoder.ColourReset)
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
