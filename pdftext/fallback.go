package pdftext

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// structuralExcerpt extracts page text through a real PDF parser. It is the
// fallback for files whose content streams the heuristic scan cannot reach,
// typically object-stream or oddly linearized documents. The parser panics
// on some malformed inputs, so the whole pass runs under a recover.
func structuralExcerpt(data []byte, maxChars int) (excerpt string) {
	defer func() {
		if r := recover(); r != nil {
			excerpt = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage() && b.Len() < maxChars; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteByte(' ')
	}

	out := controlRuns.ReplaceAllString(b.String(), " ")
	out = strings.TrimSpace(out)
	if len(out) > maxChars {
		out = strings.TrimSpace(out[:maxChars])
	}
	return out
}
