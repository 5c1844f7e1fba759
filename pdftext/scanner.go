package pdftext

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"io"
	"regexp"
	"strings"
)

const (
	streamKeyword    = "stream"
	endstreamKeyword = "endstream"

	// dictWindow is how far back from a stream keyword the surrounding
	// dictionary is inspected for a /FlateDecode filter entry.
	dictWindow = 2500

	// minStreamTextChars is the minimum joined text length for a stream to
	// contribute to the excerpt. Shorter yields are glyph noise.
	minStreamTextChars = 30

	// maxInflatedBytes bounds decompression of a single stream so a
	// zip-bomb style payload cannot exhaust memory.
	maxInflatedBytes = 4 << 20
)

// pdfString matches literal string operands (group 1, escape-aware) and hex
// string operands (group 2) inside a content stream.
var pdfString = regexp.MustCompile(`\(((?:\\.|[^()\\]){3,400})\)|<([0-9A-Fa-f]{8,800})>`)

// controlRuns collapses whitespace and control characters in the excerpt.
var controlRuns = regexp.MustCompile(`[\s\x00-\x1f]+`)

// extractExcerpt walks the buffer's content streams in document order and
// joins the useful text they yield, up to cfg.MaxChars.
func extractExcerpt(data []byte, view string, cfg Config) string {
	var parts []string
	total := 0
	streams := 0

	pos := 0
	for streams < cfg.MaxStreams && total < cfg.MaxChars {
		start, body := nextStream(data, view, pos)
		if start < 0 {
			break
		}
		pos = start
		streams++

		text := streamText(view, start, body)
		if len(text) <= minStreamTextChars {
			continue
		}
		parts = append(parts, text)
		total += len(text) + 1
	}

	excerpt := strings.Join(parts, " ")
	excerpt = controlRuns.ReplaceAllString(excerpt, " ")
	excerpt = strings.TrimSpace(excerpt)
	if len(excerpt) > cfg.MaxChars {
		excerpt = strings.TrimSpace(excerpt[:cfg.MaxChars])
	}
	return excerpt
}

// nextStream finds the next stream keyword at or after pos and returns the
// position just past it and the stream body up to the matching endstream.
// A keyword that is really the tail of "endstream" is skipped, as is a
// stream with no terminator.
func nextStream(data []byte, view string, pos int) (int, []byte) {
	for {
		rel := strings.Index(view[pos:], streamKeyword)
		if rel < 0 {
			return -1, nil
		}
		at := pos + rel
		next := at + len(streamKeyword)
		if at >= 3 && view[at-3:at] == "end" {
			pos = next
			continue
		}

		// Per the stream grammar the keyword is followed by CRLF or LF.
		body := next
		if body < len(data) && data[body] == '\r' {
			body++
		}
		if body < len(data) && data[body] == '\n' {
			body++
		}

		end := strings.Index(view[body:], endstreamKeyword)
		if end < 0 {
			return -1, nil
		}
		return next, data[body : body+end]
	}
}

// streamText decodes one stream body and returns the joined useful strings.
// Inflate failures and undecodable payloads yield an empty string; the scan
// simply moves to the next stream.
func streamText(view string, keywordEnd int, body []byte) string {
	dictStart := keywordEnd - len(streamKeyword) - dictWindow
	if dictStart < 0 {
		dictStart = 0
	}
	dict := view[dictStart : keywordEnd-len(streamKeyword)]

	if strings.Contains(dict, "/FlateDecode") {
		inflated, err := inflate(body)
		if err != nil {
			return ""
		}
		body = inflated
	}

	matches := pdfString.FindAllStringSubmatch(string(body), -1)
	if matches == nil {
		return ""
	}

	var parts []string
	for _, m := range matches {
		var text string
		if m[1] != "" {
			text = decodeLiteral(m[1])
		} else {
			text = decodeHexText(m[2])
		}
		if isUsefulText(text) {
			parts = append(parts, strings.TrimSpace(text))
		}
	}
	return strings.Join(parts, " ")
}

// inflate decompresses a /FlateDecode stream body. Zlib framing is tried
// first per the PDF spec; some producers emit raw deflate, so that is the
// fallback. Trailing garbage after a valid deflate payload is tolerated.
func inflate(body []byte) ([]byte, error) {
	if out, err := inflateWith(body, func(r io.Reader) (io.ReadCloser, error) {
		return zlib.NewReader(r)
	}); err == nil {
		return out, nil
	}
	return inflateWith(body, func(r io.Reader) (io.ReadCloser, error) {
		return flate.NewReader(r), nil
	})
}

func inflateWith(body []byte, open func(io.Reader) (io.ReadCloser, error)) ([]byte, error) {
	r, err := open(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	out, err := io.ReadAll(io.LimitReader(r, maxInflatedBytes))
	if err != nil && len(out) == 0 {
		return nil, err
	}
	// Partial output from a truncated stream is still usable.
	return out, nil
}
