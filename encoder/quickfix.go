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
package encoder

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/quickfixgo/quickfix"
)

var errEmptyMessage = errors.New("built message is empty")

// QuickFIX re-parses the wire bytes into a QuickFIX/Go message so a caller
// that owns a quickfix session can send it with quickfix.Send.
func (m BuiltMessage) QuickFIX() (*quickfix.Message, error) {
	if len(m.Raw) == 0 {
		return nil, errEmptyMessage
	}

	msg := quickfix.NewMessage()
	if err := quickfix.ParseMessage(msg, bytes.NewBuffer(bytes.Clone(m.Raw))); err != nil {
		return nil, fmt.Errorf("quickfix parse: %w", err)
	}

	return msg, nil
}
