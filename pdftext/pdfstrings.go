package pdftext

import (
	"encoding/hex"
	"regexp"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// fontSubsetName matches PDF font subset prefixes and base font names such
// as "ABCDEF+Helvetica" or "TT1", which show up as string-like operands in
// content streams but are never prose.
var fontSubsetName = regexp.MustCompile(`^[A-Z]{1,6}\+?[A-Za-z0-9-]{0,12}$`)

// decodeLiteral interprets the escape sequences of a PDF literal string body
// (the text between the parentheses, parens themselves excluded).
func decodeLiteral(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(raw) {
			break
		}
		switch raw[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case '\\', '(', ')':
			b.WriteByte(raw[i])
		case '\n':
			// line continuation, emits nothing
		case '\r':
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
		case '0', '1', '2', '3', '4', '5', '6', '7':
			// octal escape, up to three digits
			v := int(raw[i] - '0')
			for n := 0; n < 2 && i+1 < len(raw); n++ {
				d := raw[i+1]
				if d < '0' || d > '7' {
					break
				}
				v = v*8 + int(d-'0')
				i++
			}
			b.WriteByte(byte(v))
		default:
			// Unknown escape: the backslash is dropped, the byte kept.
			b.WriteByte(raw[i])
		}
	}
	return b.String()
}

// decodeHexText decodes a PDF hex string body into readable text. UTF-16BE
// payloads are recognized by their FEFF byte order mark; otherwise the bytes
// are taken as UTF-8 when valid and as raw Latin-1-ish bytes when not.
func decodeHexText(body string) string {
	if len(body)%2 == 1 {
		// Per spec a missing final digit means an implied trailing zero.
		body += "0"
	}
	raw, err := hex.DecodeString(body)
	if err != nil {
		return ""
	}
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		return decodeUTF16BE(raw[2:])
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	var b strings.Builder
	b.Grow(len(raw))
	for _, c := range raw {
		b.WriteRune(rune(c))
	}
	return b.String()
}

func decodeUTF16BE(raw []byte) string {
	if len(raw)%2 == 1 {
		raw = raw[:len(raw)-1]
	}
	units := make([]uint16, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		units = append(units, uint16(raw[i])<<8|uint16(raw[i+1]))
	}
	return string(utf16.Decode(units))
}

// isUsefulText filters decoded string operands down to candidates that look
// like prose. Glyph indices, font names, and mostly-binary operands are
// rejected; the threshold is deliberately loose since the downstream model
// tolerates noise better than it tolerates an empty excerpt.
func isUsefulText(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 6 {
		return false
	}
	if fontSubsetName.MatchString(s) {
		return false
	}
	alnum := 0
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			alnum++
		}
	}
	threshold := len(s) / 4
	if threshold > 6 {
		threshold = 6
	}
	return alnum >= threshold
}
