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
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the FIX UTCTimestamp format with milliseconds.
const TimestampLayout = "20060102-15:04:05.000"

// BodyLength returns the byte count of body. Callers pass everything after
// the 9=<len><SOH> field up to and including the SOH before 10=.
func BodyLength(body []byte) int {
	return len(body)
}

// BodyLengthString is BodyLength over the UTF-8 encoding of s.
func BodyLengthString(s string) int {
	return len(s)
}

// Checksum sums every byte of msg modulo 256 and zero pads to three digits.
func Checksum(msg []byte) string {
	return formatChecksum(checksumSum(msg))
}

// ChecksumString is Checksum over the UTF-8 encoding of s.
func ChecksumString(s string) string {
	var sum uint
	for i := 0; i < len(s); i++ {
		sum += uint(s[i])
	}
	return formatChecksum(sum)
}

func checksumSum(b []byte) uint {
	var sum uint
	for _, c := range b {
		sum += uint(c)
	}
	return sum
}

func formatChecksum(sum uint) string {
	return fmt.Sprintf("%03d", sum%256)
}

// FormatTimestamp renders t in UTC as YYYYMMDD-HH:MM:SS.sss.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Frame wraps body fields (starting at 35=) with BeginString, BodyLength and
// CheckSum. It returns the complete SOH delimited message with the computed
// length and checksum.
func Frame(beginString string, body []Field) (raw []byte, bodyLength int, checksum string) {
	var bodySB strings.Builder
	for _, f := range body {
		writeField(&bodySB, f.Tag, f.Value, SOH)
	}
	bodyStr := bodySB.String()
	bodyLength = BodyLengthString(bodyStr)

	var sb strings.Builder
	sb.Grow(len(bodyStr) + len(beginString) + 24)
	writeField(&sb, TagBeginString, beginString, SOH)
	writeField(&sb, TagBodyLength, strconv.Itoa(bodyLength), SOH)
	sb.WriteString(bodyStr)

	checksum = ChecksumString(sb.String())
	writeField(&sb, TagCheckSum, checksum, SOH)

	return []byte(sb.String()), bodyLength, checksum
}

func writeField(sb *strings.Builder, tag int, value, delim string) {
	sb.WriteString(strconv.Itoa(tag))
	sb.WriteByte('=')
	sb.WriteString(value)
	sb.WriteString(delim)
}
