// Copyright 2016-2020, Pulumi Corporation.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package syntax

import (
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// parseInteger parses a Python integer literal. Imaginary literals are not constants.
func parseInteger(text string) (cty.Value, bool) {
	text = strings.Replace(text, "_", "", -1)
	if strings.HasSuffix(text, "j") || strings.HasSuffix(text, "J") {
		return cty.NilVal, false
	}
	if i, err := strconv.ParseInt(text, 0, 64); err == nil {
		return cty.NumberIntVal(i), true
	}
	// Decimal literals that overflow int64 are still exact in cty's arbitrary-precision numbers.
	v, err := cty.ParseNumberVal(text)
	if err != nil {
		return cty.NilVal, false
	}
	return v, true
}

// parseFloat parses a Python floating point literal.
func parseFloat(text string) (cty.Value, bool) {
	text = strings.Replace(text, "_", "", -1)
	if strings.HasSuffix(text, "j") || strings.HasSuffix(text, "J") {
		return cty.NilVal, false
	}
	if v, err := cty.ParseNumberVal(text); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return cty.NilVal, false
	}
	return cty.NumberFloatVal(f), true
}

// parseString decodes a Python string or bytes literal, including its prefix and quotes. Formatted strings are not
// constants.
func parseString(text string) (*Constant, bool) {
	i := 0
	for i < len(text) && strings.IndexByte("rRbBuUfF", text[i]) != -1 {
		i++
	}
	prefix, body := strings.ToLower(text[:i]), text[i:]
	if strings.Contains(prefix, "f") || body == "" {
		return nil, false
	}

	quote := body[:1]
	if strings.HasPrefix(body, `"""`) || strings.HasPrefix(body, `'''`) {
		quote = body[:3]
	}
	if len(body) < 2*len(quote) || !strings.HasSuffix(body, quote) {
		return nil, false
	}
	content := body[len(quote) : len(body)-len(quote)]

	kind := StrLiteral
	if strings.Contains(prefix, "b") {
		kind = BytesLiteral
	}
	if !strings.Contains(prefix, "r") {
		content = unescape(content, kind == BytesLiteral)
	}
	return stringConstant(kind, content), true
}

func stringConstant(kind LiteralKind, text string) *Constant {
	return &Constant{Value: cty.StringVal(text), Kind: kind, Text: text}
}

// unescape interprets backslash escapes the way Python does for non-raw literals. Unrecognized escapes are kept
// verbatim. In bytes literals numeric escapes denote single bytes and \u and \U are not escapes.
func unescape(s string, bytes bool) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}

		next := s[i+1]
		switch next {
		case '\n':
			i++
		case '\\', '\'', '"':
			b.WriteByte(next)
			i++
		case 'a':
			b.WriteByte('\a')
			i++
		case 'b':
			b.WriteByte('\b')
			i++
		case 'f':
			b.WriteByte('\f')
			i++
		case 'n':
			b.WriteByte('\n')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case 'v':
			b.WriteByte('\v')
			i++
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i + 1
			for j < len(s) && j < i+4 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			n, _ := strconv.ParseUint(s[i+1:j], 8, 32)
			writeCode(&b, n, bytes)
			i = j - 1
		case 'u', 'U':
			if bytes {
				b.WriteByte(c)
				continue
			}
			fallthrough
		case 'x':
			width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[next]
			if i+2+width > len(s) {
				b.WriteByte(c)
				continue
			}
			n, err := strconv.ParseUint(s[i+2:i+2+width], 16, 32)
			if err != nil {
				b.WriteByte(c)
				continue
			}
			writeCode(&b, n, bytes)
			i += 1 + width
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func writeCode(b *strings.Builder, n uint64, bytes bool) {
	if bytes {
		b.WriteByte(byte(n))
		return
	}
	b.WriteRune(rune(n))
}
