// Package pdftext pulls a best-effort title and text excerpt out of raw PDF
// bytes without building a PDF object model.
//
// The primary path is a heuristic scan: content streams are located by their
// stream/endstream delimiters, inflated when marked /FlateDecode, and mined
// for literal and hex string operands. This works because page content
// streams sit near the front of simple/linearized PDFs and visible text is
// overwhelmingly carried in string operands. It is sufficient for filename
// generation, not for faithful text recovery: no cross-reference resolution,
// no object streams, no encrypted files.
//
// When the heuristic scan yields nothing, a structural fallback based on
// ledongthuc/pdf runs behind the same interface (fallback.go).
package pdftext

import (
	"go.uber.org/zap"

	"go_renamer/logging"
)

// Config bounds a single extraction pass.
type Config struct {
	// MaxChars caps the excerpt length in characters
	MaxChars int

	// MaxStreams caps how many content streams are scanned
	MaxStreams int
}

// DefaultConfig returns the documented extraction bounds.
func DefaultConfig() Config {
	return Config{
		MaxChars:   2500,
		MaxStreams: 12,
	}
}

// Preview is the ephemeral extraction result, consumed once to build a
// naming prompt.
type Preview struct {
	// Title from XMP dc:title or the document-info /Title entry (<=200 chars)
	Title string

	// Excerpt of visible text, whitespace-normalized (<=MaxChars)
	Excerpt string
}

// Extractor extracts previews from PDF byte buffers.
type Extractor struct {
	logger *logging.Logger
}

// NewExtractor creates an Extractor. A nil logger is replaced with a no-op.
func NewExtractor(logger *logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Extractor{logger: logger.Named("pdftext")}
}

// ExtractPreview scans data and returns the best-effort title and excerpt.
// It never fails: a totally unreadable buffer yields empty strings. Failures
// inside individual streams are swallowed so one bad stream cannot sink the
// rest of the document.
func (e *Extractor) ExtractPreview(data []byte, cfg Config) Preview {
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = DefaultConfig().MaxChars
	}
	if cfg.MaxStreams <= 0 {
		cfg.MaxStreams = DefaultConfig().MaxStreams
	}

	view := string(data)

	title := extractTitle(view)
	excerpt := extractExcerpt(data, view, cfg)

	if excerpt == "" {
		// Heuristic scan found nothing; let a real parser try before giving
		// up. Encrypted or xref-dependent files fail here too, silently.
		excerpt = structuralExcerpt(data, cfg.MaxChars)
		if excerpt != "" {
			e.logger.Debug("excerpt recovered by structural fallback",
				zap.Int("excerpt_chars", len(excerpt)))
		}
	}

	e.logger.Debug("preview extracted",
		zap.Int("pdf_bytes", len(data)),
		zap.Int("title_chars", len(title)),
		zap.Int("excerpt_chars", len(excerpt)))

	return Preview{Title: title, Excerpt: excerpt}
}
