package pdftext

import (
	"regexp"
	"strings"
)

// maxTitleLength caps extracted titles so a malformed metadata blob cannot
// dominate the naming prompt.
const maxTitleLength = 200

var (
	// dc:title element inside an XMP metadata packet
	xmpTitleElem = regexp.MustCompile(`(?s)<dc:title>(.*?)</dc:title>`)

	// rdf:li child carrying the actual title text, attributes allowed
	xmpTitleItem = regexp.MustCompile(`(?s)<rdf:li[^>]*>(.*?)</rdf:li>`)

	xmlTag = regexp.MustCompile(`<[^>]*>`)
)

// extractTitle looks for a document title, preferring XMP metadata over the
// document-info dictionary. Either source may appear anywhere in the file,
// so the whole buffer is searched.
func extractTitle(view string) string {
	if t := xmpTitle(view); t != "" {
		return clampTitle(t)
	}
	if t := docInfoTitle(view); t != "" {
		return clampTitle(t)
	}
	return ""
}

// xmpTitle pulls the title out of an XMP <dc:title> element. The title text
// usually sits in an rdf:Alt/rdf:li wrapper; when no rdf:li is present the
// element body is used with any residual tags stripped.
func xmpTitle(view string) string {
	m := xmpTitleElem.FindStringSubmatch(view)
	if m == nil {
		return ""
	}
	body := m[1]
	if li := xmpTitleItem.FindStringSubmatch(body); li != nil {
		body = li[1]
	}
	body = xmlTag.ReplaceAllString(body, "")
	return strings.TrimSpace(decodeXMLEntities(body))
}

// docInfoTitle pulls the /Title literal string out of a document-info
// dictionary. The scan is escape-aware: parentheses inside the title that
// are escaped with a backslash do not terminate it, and balanced unescaped
// parentheses nest per the PDF string grammar.
func docInfoTitle(view string) string {
	idx := strings.Index(view, "/Title")
	for idx >= 0 {
		rest := view[idx+len("/Title"):]
		i := 0
		for i < len(rest) && (rest[i] == ' ' || rest[i] == '\r' || rest[i] == '\n' || rest[i] == '\t') {
			i++
		}
		if i < len(rest) && rest[i] == '(' {
			if raw, ok := scanLiteral(rest[i+1:]); ok {
				t := strings.TrimSpace(decodeLiteral(raw))
				if t != "" {
					return t
				}
			}
		}
		next := strings.Index(view[idx+1:], "/Title")
		if next < 0 {
			return ""
		}
		idx += 1 + next
	}
	return ""
}

// scanLiteral consumes a PDF literal string body starting just past the
// opening parenthesis and returns the raw (still escaped) contents.
func scanLiteral(s string) (string, bool) {
	depth := 1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++ // skip escaped byte
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[:i], true
			}
		}
	}
	return "", false
}

var xmlEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&#39;", "'",
)

func decodeXMLEntities(s string) string {
	return xmlEntities.Replace(s)
}

func clampTitle(t string) string {
	if len(t) > maxTitleLength {
		t = strings.TrimSpace(t[:maxTitleLength])
	}
	return t
}
