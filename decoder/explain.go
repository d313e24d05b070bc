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
	"strings"

	"github.com/quickfixgo/enum"
	"github.com/shopspring/decimal"
	"github.com/stephenlclarke/fixbuilder/fix"
)

type orderState struct {
	execType  enum.ExecType
	ordStatus enum.OrdStatus
}

var orderStates = map[orderState]string{
	{enum.ExecType_PENDING_NEW, enum.OrdStatus_PENDING_NEW}:         "Order received, not yet accepted.",
	{enum.ExecType_NEW, enum.OrdStatus_NEW}:                         "Order accepted and working. Nothing filled yet.",
	{enum.ExecType_TRADE, enum.OrdStatus_PARTIALLY_FILLED}:          "Partial fill. The remainder is still working.",
	{enum.ExecType_TRADE, enum.OrdStatus_FILLED}:                    "Final fill. The order is complete.",
	{enum.ExecType_PARTIAL_FILL, enum.OrdStatus_PARTIALLY_FILLED}:   "Partial fill (pre FIX 4.4 ExecType). The remainder is still working.",
	{enum.ExecType_FILL, enum.OrdStatus_FILLED}:                     "Final fill (pre FIX 4.4 ExecType). The order is complete.",
	{enum.ExecType_PENDING_CANCEL, enum.OrdStatus_PENDING_CANCEL}:   "Cancel request received, awaiting confirmation.",
	{enum.ExecType_CANCELED, enum.OrdStatus_CANCELED}:               "Order canceled. Any unfilled quantity is no longer working.",
	{enum.ExecType_PENDING_REPLACE, enum.OrdStatus_PENDING_REPLACE}: "Replace request received, awaiting confirmation.",
	{enum.ExecType_REPLACED, enum.OrdStatus_REPLACED}:               "Order replaced. The amended terms are now working.",
	{enum.ExecType_REJECTED, enum.OrdStatus_REJECTED}:               "Order rejected. See Text(58) for the reason.",
	{enum.ExecType_EXPIRED, enum.OrdStatus_EXPIRED}:                 "Order expired under its TimeInForce.",
}

const defaultSummary = "Execution Report."

// Explanation describes the order state an execution report conveys.
type Explanation struct {
	Summary   string
	ExecType  string
	OrdStatus string
	// LeavesQty is taken from tag 151, or derived as OrderQty-CumQty
	// (floored at zero) when 151 is absent. Empty when neither is possible.
	LeavesQty      string
	LeavesComputed bool
	Checks         []string
}

// ExplainExecutionReport summarises an execution report and checks that
// CumQty + LeavesQty = OrderQty.
func ExplainExecutionReport(fields fix.FieldMap) Explanation {
	execType := strings.TrimSpace(fields[fix.TagExecType])
	ordStatus := strings.TrimSpace(fields[fix.TagOrdStatus])

	ex := Explanation{Summary: defaultSummary, ExecType: execType, OrdStatus: ordStatus}
	if s, ok := orderStates[orderState{enum.ExecType(execType), enum.OrdStatus(ordStatus)}]; ok {
		ex.Summary = s
	}

	orderQty, haveOrder := quantity(fields, fix.TagOrderQty)
	cumQty, haveCum := quantity(fields, fix.TagCumQty)

	leavesRaw, haveLeaves := fields[fix.TagLeavesQty]
	leavesRaw = strings.TrimSpace(leavesRaw)

	var leaves decimal.Decimal
	switch {
	case haveLeaves && leavesRaw != "":
		l, err := decimal.NewFromString(leavesRaw)
		if err != nil {
			ex.LeavesQty = leavesRaw
			ex.Checks = append(ex.Checks, fmt.Sprintf("WARNING: LeavesQty(151) is not a number: %q", leavesRaw))
			return ex
		}
		leaves = l
		ex.LeavesQty = l.String()
	case haveOrder && haveCum:
		leaves = decimal.Max(decimal.Zero, orderQty.Sub(cumQty))
		ex.LeavesQty = leaves.String()
		ex.LeavesComputed = true
	default:
		return ex
	}

	if haveOrder && haveCum && !cumQty.Add(leaves).Equal(orderQty) {
		ex.Checks = append(ex.Checks, fmt.Sprintf("WARNING: 14 + 151 != 38 (%s + %s vs %s)", cumQty, leaves, orderQty))
	}

	return ex
}

func quantity(fields fix.FieldMap, tag int) (decimal.Decimal, bool) {
	v := strings.TrimSpace(fields[tag])
	if v == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
