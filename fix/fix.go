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
package fix

import (
	"sort"
	"strings"

	"github.com/quickfixgo/tag"
)

const (
	SOH  = "\x01"
	Pipe = "|"
)

// Session and business tags used by the engine.
const (
	TagAccount      = int(tag.Account)
	TagAvgPx        = int(tag.AvgPx)
	TagBeginString  = int(tag.BeginString)
	TagBodyLength   = int(tag.BodyLength)
	TagCheckSum     = int(tag.CheckSum)
	TagClOrdID      = int(tag.ClOrdID)
	TagCumQty       = int(tag.CumQty)
	TagExecType     = int(tag.ExecType)
	TagLeavesQty    = int(tag.LeavesQty)
	TagMsgSeqNum    = int(tag.MsgSeqNum)
	TagMsgType      = int(tag.MsgType)
	TagOrdStatus    = int(tag.OrdStatus)
	TagOrdType      = int(tag.OrdType)
	TagOrderID      = int(tag.OrderID)
	TagOrderQty     = int(tag.OrderQty)
	TagOrigClOrdID  = int(tag.OrigClOrdID)
	TagPrice        = int(tag.Price)
	TagSenderCompID = int(tag.SenderCompID)
	TagSendingTime  = int(tag.SendingTime)
	TagSide         = int(tag.Side)
	TagSymbol       = int(tag.Symbol)
	TagTargetCompID = int(tag.TargetCompID)
	TagText         = int(tag.Text)
	TagTimeInForce  = int(tag.TimeInForce)
	TagTransactTime = int(tag.TransactTime)
)

// Field is a single tag=value pair in wire order.
type Field struct {
	Tag   int
	Value string
}

// FieldMap is the caller-facing mapping of tag to value.
type FieldMap map[int]string

// Present reports whether tag carries a non-blank value.
func (m FieldMap) Present(tag int) bool {
	v, ok := m[tag]
	return ok && strings.TrimSpace(v) != ""
}

// Clone returns a shallow copy so callers can add defaults without touching the original.
func (m FieldMap) Clone() FieldMap {
	out := make(FieldMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Tags returns the tags in ascending order.
func (m FieldMap) Tags() []int {
	tags := make([]int, 0, len(m))
	for t := range m {
		tags = append(tags, t)
	}
	sort.Ints(tags)
	return tags
}

// ToMap collapses an ordered field list into a FieldMap. Later duplicates win.
func ToMap(fields []Field) FieldMap {
	out := make(FieldMap, len(fields))
	for _, f := range fields {
		out[f.Tag] = f.Value
	}
	return out
}

// Join renders fields as tag=value pairs each terminated by delim.
func Join(fields []Field, delim string) string {
	var sb strings.Builder
	for _, f := range fields {
		writeField(&sb, f.Tag, f.Value, delim)
	}
	return sb.String()
}

// ToDisplay swaps SOH for the human readable pipe.
func ToDisplay(raw string) string {
	return strings.ReplaceAll(raw, SOH, Pipe)
}
