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
	"io"
	"maps"
	"strconv"
	"strings"
	"sync"
)

// DefaultSensitiveTags are redacted by the CLI when -obfuscate is given.
var DefaultSensitiveTags = map[int]string{
	TagAccount:      "Account",
	TagSenderCompID: "SenderCompID",
	TagTargetCompID: "TargetCompID",
}

// Obfuscator replaces values of sensitive FIX tags with stable aliases.
// It is safe for concurrent use.
type Obfuscator struct {
	enabled  bool
	tags     map[int]string    // tag -> alias prefix
	mu       sync.Mutex        // protects aliasMap and counter
	aliasMap map[string]string // "tag=value" -> alias
	counter  map[int]int
}

// CreateObfuscator constructs an Obfuscator using the given tag map.
// If enabled is false, Fields and Line return their input unchanged.
func CreateObfuscator(tags map[int]string, enabled bool) *Obfuscator {
	cp := make(map[int]string, len(tags))
	maps.Copy(cp, tags)

	return &Obfuscator{
		enabled:  enabled,
		tags:     cp,
		aliasMap: make(map[string]string),
		counter:  make(map[int]int),
	}
}

// Fields returns a copy of fields with sensitive values aliased. First use of
// each tag=value pair is reported to stderr when it is non-nil.
func (o *Obfuscator) Fields(fields []Field, stderr io.Writer) []Field {
	out := make([]Field, len(fields))
	copy(out, fields)

	if o == nil || !o.enabled {
		return out
	}

	for i, f := range out {
		if alias, ok := o.alias(f.Tag, f.Value, stderr); ok {
			out[i].Value = alias
		}
	}

	return out
}

// Line rewrites a delimited FIX string, leaving malformed segments alone.
func (o *Obfuscator) Line(line, delim string, stderr io.Writer) string {
	if o == nil || !o.enabled {
		return line
	}

	segments := strings.Split(line, delim)
	for i, seg := range segments {
		tagStr, val, ok := strings.Cut(seg, "=")
		if !ok {
			continue
		}

		tagNum, err := strconv.Atoi(tagStr)
		if err != nil {
			continue
		}

		if alias, ok := o.alias(tagNum, val, stderr); ok {
			segments[i] = tagStr + "=" + alias
		}
	}

	return strings.Join(segments, delim)
}

func (o *Obfuscator) alias(tagNum int, val string, stderr io.Writer) (string, bool) {
	name, sensitive := o.tags[tagNum]
	if !sensitive {
		return "", false
	}

	key := strconv.Itoa(tagNum) + "=" + val

	o.mu.Lock()
	defer o.mu.Unlock()

	alias, exists := o.aliasMap[key]
	if !exists {
		o.counter[tagNum]++
		alias = fmt.Sprintf("%s%04d", name, o.counter[tagNum])
		o.aliasMap[key] = alias

		if stderr != nil {
			fmt.Fprintf(stderr, "first use: tag %d (%s) value [%s] → [%s]\n", tagNum, name, val, alias)
		}
	}

	return alias, true
}
