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
	"encoding/xml"
	"io"

	"golang.org/x/net/html/charset"
)

type xmlValue struct {
	Enum        string `xml:"enum,attr"`
	Description string `xml:"description,attr"`
}

type rawDictionary struct {
	Fields []struct {
		Name          string     `xml:"name,attr"`
		Tag           int        `xml:"number,attr"`
		Type          string     `xml:"type,attr"`
		Values        []xmlValue `xml:"value"`
		ValuesWrapper []xmlValue `xml:"values>value"`
	} `xml:"fields>field"`

	Messages []struct {
		Name    string `xml:"name,attr"`
		MsgType string `xml:"msgtype,attr"`
	} `xml:"messages>message"`
}

type dictionaryField struct {
	Tag   int
	Name  string
	Type  string
	Enums map[string]string
}

type dictionary struct {
	fields   []dictionaryField
	messages map[string]string // msgtype -> name
}

// decodeDictionary reads a QuickFIX style data dictionary. Non UTF-8
// encodings declared in the XML prolog are converted via x/net/html/charset.
func decodeDictionary(r io.Reader) (*dictionary, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var raw rawDictionary
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	d := &dictionary{
		fields:   make([]dictionaryField, 0, len(raw.Fields)),
		messages: make(map[string]string, len(raw.Messages)),
	}

	for _, f := range raw.Fields {
		if f.Tag <= 0 {
			continue
		}

		enums := make(map[string]string, len(f.Values)+len(f.ValuesWrapper))
		for _, v := range f.Values {
			enums[v.Enum] = v.Description
		}
		for _, v := range f.ValuesWrapper {
			enums[v.Enum] = v.Description
		}

		d.fields = append(d.fields, dictionaryField{Tag: f.Tag, Name: f.Name, Type: f.Type, Enums: enums})
	}

	for _, m := range raw.Messages {
		if m.MsgType != "" {
			d.messages[m.MsgType] = m.Name
		}
	}

	return d, nil
}
