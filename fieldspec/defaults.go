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
package fieldspec

import (
	"github.com/quickfixgo/enum"
	"github.com/stephenlclarke/fixbuilder/fix"
)

// Message names used for the four buildable message types.
const (
	NameNewOrderSingle  = "NewOrderSingle"
	NameCancel          = "OrderCancelRequest"
	NameReplace         = "OrderCancelReplaceRequest"
	NameExecutionReport = "ExecutionReport"
)

// limitPricedOrdTypes are the OrdType values that carry a Price.
var limitPricedOrdTypes = []string{string(enum.OrdType_LIMIT), string(enum.OrdType_STOP_LIMIT)}

func builtinLayouts() []MessageLayout {
	priceRule := ConditionalRule{
		TargetTag:     fix.TagPrice,
		TriggerTag:    fix.TagOrdType,
		TriggerValues: limitPricedOrdTypes,
	}

	return []MessageLayout{
		{
			MsgType: enum.MsgType_ORDER_SINGLE,
			Name:    NameNewOrderSingle,
			Order: []int{
				fix.TagClOrdID, fix.TagSymbol, fix.TagSide, fix.TagOrderQty, fix.TagOrdType,
				fix.TagPrice, fix.TagTimeInForce, fix.TagTransactTime,
			},
			Required: []int{
				fix.TagClOrdID, fix.TagSymbol, fix.TagSide, fix.TagOrderQty, fix.TagOrdType, fix.TagTransactTime,
			},
			Conditionals: []ConditionalRule{priceRule},
		},
		{
			MsgType: enum.MsgType_ORDER_CANCEL_REQUEST,
			Name:    NameCancel,
			Order: []int{
				fix.TagOrigClOrdID, fix.TagClOrdID, fix.TagSymbol, fix.TagSide, fix.TagTransactTime,
			},
			Required: []int{
				fix.TagOrigClOrdID, fix.TagClOrdID, fix.TagSymbol, fix.TagSide, fix.TagTransactTime,
			},
		},
		{
			MsgType: enum.MsgType_ORDER_CANCEL_REPLACE_REQUEST,
			Name:    NameReplace,
			Order: []int{
				fix.TagOrigClOrdID, fix.TagClOrdID, fix.TagSymbol, fix.TagSide, fix.TagOrderQty, fix.TagOrdType,
				fix.TagPrice, fix.TagTimeInForce, fix.TagTransactTime,
			},
			Required: []int{
				fix.TagOrigClOrdID, fix.TagClOrdID, fix.TagSymbol, fix.TagSide, fix.TagOrderQty, fix.TagOrdType,
				fix.TagTransactTime,
			},
			Conditionals: []ConditionalRule{priceRule},
		},
		{
			MsgType: enum.MsgType_EXECUTION_REPORT,
			Name:    NameExecutionReport,
			Order: []int{
				fix.TagOrderID, fix.TagClOrdID, fix.TagExecType, fix.TagOrdStatus, fix.TagSymbol, fix.TagSide,
				fix.TagOrderQty, fix.TagCumQty, fix.TagLeavesQty, fix.TagAvgPx, fix.TagTransactTime,
			},
			Required: []int{
				fix.TagOrderID, fix.TagClOrdID, fix.TagExecType, fix.TagOrdStatus, fix.TagSymbol, fix.TagSide,
				fix.TagOrderQty, fix.TagCumQty, fix.TagLeavesQty, fix.TagTransactTime,
			},
			Conditionals: []ConditionalRule{{
				TargetTag:  fix.TagAvgPx,
				TriggerTag: fix.TagExecType,
				TriggerValues: []string{
					string(enum.ExecType_PARTIAL_FILL), string(enum.ExecType_FILL), string(enum.ExecType_TRADE),
				},
			}},
		},
	}
}

func builtinFields() []FieldSpec {
	return []FieldSpec{
		{Tag: fix.TagAccount, Label: "Account", Type: "STRING", Help: "Account mnemonic agreed with the broker."},
		{Tag: fix.TagAvgPx, Label: "AvgPx", Type: "PRICE", Help: "Average execution price.",
			Condition: "ExecType=1|2|F"},
		{Tag: fix.TagBeginString, Label: "BeginString", Type: "STRING", Required: true,
			Help: "Protocol version, always the first field (e.g. FIX.4.4)."},
		{Tag: fix.TagBodyLength, Label: "BodyLength", Type: "LENGTH", Required: true,
			Help: "Byte count from after this field up to the CheckSum field."},
		{Tag: fix.TagCheckSum, Label: "CheckSum", Type: "STRING", Required: true,
			Help: "Sum of all preceding bytes modulo 256, three digits."},
		{Tag: fix.TagClOrdID, Label: "ClOrdID", Type: "STRING", Required: true,
			Help: "Unique ID for this order assigned by you (client)."},
		{Tag: fix.TagCumQty, Label: "CumQty", Type: "QTY", Help: "Total quantity executed so far."},
		{Tag: fix.TagExecType, Label: "ExecType", Type: "CHAR", Help: "Execution type for 35=8.",
			Enums: map[string]string{
				string(enum.ExecType_NEW):             "New",
				string(enum.ExecType_PARTIAL_FILL):    "Partial fill",
				string(enum.ExecType_FILL):            "Fill",
				string(enum.ExecType_CANCELED):        "Canceled",
				string(enum.ExecType_REPLACED):        "Replaced",
				string(enum.ExecType_PENDING_CANCEL):  "Pending cancel",
				string(enum.ExecType_REJECTED):        "Rejected",
				string(enum.ExecType_PENDING_NEW):     "Pending new",
				string(enum.ExecType_EXPIRED):         "Expired",
				string(enum.ExecType_PENDING_REPLACE): "Pending replace",
				string(enum.ExecType_TRADE):           "Trade",
				string(enum.ExecType_ORDER_STATUS):    "Order status",
			}},
		{Tag: fix.TagLeavesQty, Label: "LeavesQty", Type: "QTY", Help: "Quantity remaining on the order."},
		{Tag: fix.TagMsgSeqNum, Label: "MsgSeqNum", Type: "SEQNUM",
			Help: "Monotonic session sequence number (if managing sessions)."},
		{Tag: fix.TagMsgType, Label: "MsgType", Type: "STRING", Required: true, Help: "Message type.",
			Enums: map[string]string{
				string(enum.MsgType_ORDER_SINGLE):                 NameNewOrderSingle,
				string(enum.MsgType_ORDER_CANCEL_REQUEST):         NameCancel,
				string(enum.MsgType_ORDER_CANCEL_REPLACE_REQUEST): NameReplace,
				string(enum.MsgType_EXECUTION_REPORT):             NameExecutionReport,
				string(enum.MsgType_ORDER_CANCEL_REJECT):          "OrderCancelReject",
				string(enum.MsgType_BUSINESS_MESSAGE_REJECT):      "BusinessMessageReject",
				string(enum.MsgType_LOGON):                        "Logon",
			}},
		{Tag: fix.TagOrdStatus, Label: "OrdStatus", Type: "CHAR", Help: "Current order status for 35=8.",
			Enums: map[string]string{
				string(enum.OrdStatus_NEW):              "New",
				string(enum.OrdStatus_PARTIALLY_FILLED): "Partially filled",
				string(enum.OrdStatus_FILLED):           "Filled",
				string(enum.OrdStatus_CANCELED):         "Canceled",
				string(enum.OrdStatus_REPLACED):         "Replaced",
				string(enum.OrdStatus_PENDING_CANCEL):   "Pending cancel",
				string(enum.OrdStatus_REJECTED):         "Rejected",
				string(enum.OrdStatus_PENDING_NEW):      "Pending new",
				string(enum.OrdStatus_EXPIRED):          "Expired",
				string(enum.OrdStatus_PENDING_REPLACE):  "Pending replace",
			}},
		{Tag: fix.TagOrdType, Label: "OrdType", Type: "CHAR", Required: true,
			Help: "1=Market, 2=Limit, 3=Stop, 4=StopLimit.",
			Enums: map[string]string{
				string(enum.OrdType_MARKET):     "Market",
				string(enum.OrdType_LIMIT):      "Limit",
				"3":                             "Stop",
				string(enum.OrdType_STOP_LIMIT): "Stop limit",
				"5":                             "Market on close",
			}},
		{Tag: fix.TagOrderID, Label: "OrderID", Type: "STRING",
			Help: "Assigned by the counterparty/broker (execution reports)."},
		{Tag: fix.TagOrderQty, Label: "OrderQty", Type: "QTY", Required: true, Help: "Total order quantity."},
		{Tag: fix.TagOrigClOrdID, Label: "OrigClOrdID", Type: "STRING",
			Help: "ClOrdID of the order you are changing/canceling."},
		{Tag: fix.TagPrice, Label: "Price", Type: "PRICE", Condition: "OrdType=2|4",
			Help: "Required only for limit order types."},
		{Tag: fix.TagSenderCompID, Label: "SenderCompID", Type: "STRING", Help: "Your firm/session ID (configurable)."},
		{Tag: fix.TagSendingTime, Label: "SendingTime", Type: "UTCTIMESTAMP", Help: "UTC sending time."},
		{Tag: fix.TagSide, Label: "Side", Type: "CHAR", Required: true, Help: "1=Buy, 2=Sell, etc.",
			Enums: map[string]string{
				string(enum.Side_BUY):  "Buy",
				string(enum.Side_SELL): "Sell",
				"3":                    "Buy minus",
				"4":                    "Sell plus",
				"5":                    "Sell short",
				"6":                    "Sell short exempt",
			}},
		{Tag: fix.TagSymbol, Label: "Symbol", Type: "STRING", Required: true,
			Help: "Ticker or instrument identifier (e.g., AAPL)."},
		{Tag: fix.TagTargetCompID, Label: "TargetCompID", Type: "STRING",
			Help: "Counterparty/session ID (configurable)."},
		{Tag: fix.TagText, Label: "Text", Type: "STRING", Help: "Free format text."},
		{Tag: fix.TagTimeInForce, Label: "TimeInForce", Type: "CHAR",
			Help: "How long the order remains active (0=Day, 1=GTC, 3=IOC, 4=FOK).",
			Enums: map[string]string{
				"0": "Day",
				"1": "Good till cancel",
				"2": "At the opening",
				"3": "Immediate or cancel",
				"4": "Fill or kill",
				"5": "Good till crossing",
				"6": "Good till date",
			}},
		{Tag: fix.TagTransactTime, Label: "TransactTime", Type: "UTCTIMESTAMP", Required: true,
			Help: "UTC time of order creation in YYYYMMDD-HH:MM:SS.sss."},
	}
}
