package pdftext

import (
	"bytes"
	"compress/zlib"
	"strings"
	"testing"
)

// buildPDF assembles a minimal single-stream PDF around the given content
// stream body and dictionary extras.
func buildPDF(dict, body string) []byte {
	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	b.WriteString("1 0 obj\n<< /Length ")
	b.WriteString(dict)
	b.WriteString(" >>\nstream\n")
	b.WriteString(body)
	b.WriteString("\nendstream\nendobj\n")
	b.WriteString("trailer\n<< /Root 1 0 R >>\n%%EOF\n")
	return b.Bytes()
}

func deflateZlib(t *testing.T, data string) string {
	t.Helper()
	var b bytes.Buffer
	w := zlib.NewWriter(&b)
	if _, err := w.Write([]byte(data)); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}
	return b.String()
}

func TestExtractPreviewPlainStream(t *testing.T) {
	body := "BT /F1 12 Tf (Quarterly revenue summary) Tj (for the northern region) Tj ET"
	pdf := buildPDF("88", body)

	got := NewExtractor(nil).ExtractPreview(pdf, DefaultConfig())
	if !strings.Contains(got.Excerpt, "Quarterly revenue summary") {
		t.Errorf("excerpt %q missing literal string text", got.Excerpt)
	}
	if !strings.Contains(got.Excerpt, "northern region") {
		t.Errorf("excerpt %q missing second string", got.Excerpt)
	}
}

func TestExtractPreviewFlateStream(t *testing.T) {
	content := "BT (Annual maintenance checklist) Tj (covering pumps and valves) Tj ET"
	pdf := buildPDF("99 /Filter /FlateDecode", deflateZlib(t, content))

	got := NewExtractor(nil).ExtractPreview(pdf, DefaultConfig())
	if !strings.Contains(got.Excerpt, "Annual maintenance checklist") {
		t.Errorf("excerpt %q missing inflated text", got.Excerpt)
	}
}

func TestExtractPreviewCorruptFlateIsSkipped(t *testing.T) {
	var b bytes.Buffer
	b.Write(buildPDF("10 /Filter /FlateDecode", "\x00\x01garbage that is not deflate"))
	b.Write(buildPDF("70", "BT (Recovered text after a broken section here) Tj ET"))

	got := NewExtractor(nil).ExtractPreview(b.Bytes(), DefaultConfig())
	if !strings.Contains(got.Excerpt, "Recovered text after a broken section") {
		t.Errorf("excerpt %q should come from the intact stream", got.Excerpt)
	}
}

func TestExtractPreviewShortStreamIgnored(t *testing.T) {
	pdf := buildPDF("20", "BT (tiny bit) Tj ET")
	got := NewExtractor(nil).ExtractPreview(pdf, DefaultConfig())
	if got.Excerpt != "" {
		t.Errorf("excerpt = %q, want empty for under-threshold stream", got.Excerpt)
	}
}

func TestExtractPreviewRespectsMaxChars(t *testing.T) {
	body := "BT " + strings.Repeat("(lots of visible words here) Tj ", 40) + "ET"
	pdf := buildPDF("1300", body)

	got := NewExtractor(nil).ExtractPreview(pdf, Config{MaxChars: 100, MaxStreams: 12})
	if len(got.Excerpt) > 100 {
		t.Errorf("excerpt length = %d, want <= 100", len(got.Excerpt))
	}
	if got.Excerpt == "" {
		t.Error("excerpt should not be empty")
	}
}

func TestExtractPreviewRespectsMaxStreams(t *testing.T) {
	var b bytes.Buffer
	b.Write(buildPDF("60", "BT (First page with enough visible text to count) Tj ET"))
	b.Write(buildPDF("60", "BT (Second page with enough visible text to count) Tj ET"))
	b.Write(buildPDF("60", "BT (Third page with enough visible text to count) Tj ET"))

	got := NewExtractor(nil).ExtractPreview(b.Bytes(), Config{MaxChars: 2500, MaxStreams: 2})
	if strings.Contains(got.Excerpt, "Third page") {
		t.Errorf("excerpt %q includes a stream beyond MaxStreams", got.Excerpt)
	}
	if !strings.Contains(got.Excerpt, "First page") {
		t.Errorf("excerpt %q missing first stream", got.Excerpt)
	}
}

func TestExtractPreviewGarbageInput(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte(""),
		[]byte("not a pdf at all"),
		[]byte("%PDF-1.4 stream without end"),
		bytes.Repeat([]byte{0xff, 0x00}, 512),
	}
	e := NewExtractor(nil)
	for _, in := range inputs {
		got := e.ExtractPreview(in, DefaultConfig())
		if got.Title != "" || got.Excerpt != "" {
			t.Errorf("ExtractPreview(%.20q) = %+v, want empty preview", in, got)
		}
	}
}

func TestExtractTitleDocInfo(t *testing.T) {
	tests := []struct {
		name string
		pdf  string
		want string
	}{
		{
			name: "plain title",
			pdf:  "1 0 obj\n<< /Title (Acme Annual Report 2024) /Author (Jo) >>\nendobj",
			want: "Acme Annual Report 2024",
		},
		{
			name: "escaped parens",
			pdf:  `<< /Title (Budget \(draft\) v2) >>`,
			want: "Budget (draft) v2",
		},
		{
			name: "nested parens",
			pdf:  "<< /Title (Plan (phase one) summary) >>",
			want: "Plan (phase one) summary",
		},
		{
			name: "empty title skipped",
			pdf:  "<< /Title () >> << /Title (Real Title) >>",
			want: "Real Title",
		},
		{
			name: "no title",
			pdf:  "<< /Author (Jo) >>",
			want: "",
		},
		{
			name: "unterminated title",
			pdf:  "<< /Title (never closed",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractTitle(tt.pdf); got != tt.want {
				t.Errorf("extractTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractTitleXMPPreferred(t *testing.T) {
	doc := `<< /Title (Info Dict Title) >>
<x:xmpmeta><rdf:RDF><rdf:Description>
<dc:title><rdf:Alt><rdf:li xml:lang="x-default">XMP Title &amp; More</rdf:li></rdf:Alt></dc:title>
</rdf:Description></rdf:RDF></x:xmpmeta>`

	if got := extractTitle(doc); got != "XMP Title & More" {
		t.Errorf("extractTitle() = %q, want XMP title with decoded entity", got)
	}
}

func TestExtractTitleClamped(t *testing.T) {
	long := strings.Repeat("t", 400)
	doc := "<< /Title (" + long + ") >>"
	got := extractTitle(doc)
	if len(got) != maxTitleLength {
		t.Errorf("title length = %d, want %d", len(got), maxTitleLength)
	}
}

func TestDecodeLiteral(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`hello world`, "hello world"},
		{`line\none`, "line\none"},
		{`tab\there`, "tab\there"},
		{`paren \( and \)`, "paren ( and )"},
		{`back\\slash`, `back\slash`},
		{`octal \101\102\103`, "octal ABC"},
		{`short octal \7x`, "short octal \x07x"},
		{"continued\\\nline", "continuedline"},
	}
	for _, tt := range tests {
		if got := decodeLiteral(tt.raw); got != tt.want {
			t.Errorf("decodeLiteral(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestDecodeHexText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"ascii", "48656c6c6f20504446", "Hello PDF"},
		{"utf16be with bom", "feff00480069", "Hi"},
		{"odd length implied zero", "48656c6c6f2", "Hello "},
		{"invalid hex", "zz", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeHexText(tt.body); got != tt.want {
				t.Errorf("decodeHexText(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestIsUsefulText(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"a normal sentence of prose", true},
		{"Report 2024", true},
		{"short", false},
		{"ABCDEF+Helvetica", false},
		{"TT1", false},
		{"!!!???...///:::;;;", false},
		{"      ", false},
	}
	for _, tt := range tests {
		if got := isUsefulText(tt.text); got != tt.want {
			t.Errorf("isUsefulText(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestNextStreamSkipsEndstreamTail(t *testing.T) {
	// The first "stream" substring in this buffer belongs to "endstream";
	// the scan must not treat it as an opener.
	doc := "endstream junk stream\n(real payload with enough visible text) Tj\nendstream"
	data := []byte(doc)

	start, body := nextStream(data, doc, 0)
	if start < 0 {
		t.Fatal("nextStream found no stream")
	}
	if !strings.Contains(string(body), "real payload") {
		t.Errorf("stream body = %q, want real payload", body)
	}
}
