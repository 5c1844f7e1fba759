// Package core provides shared types, configuration, and error definitions
// for the download rename service.
package core

// FileClass identifies the processing path for a download.
type FileClass int

const (
	// ClassOther marks downloads the service does not process.
	ClassOther FileClass = iota

	// ClassImage marks downloads routed through the image caption path.
	ClassImage

	// ClassPdf marks downloads routed through the PDF text path.
	ClassPdf
)

// String returns the method tag used in history entries and stats counters.
func (c FileClass) String() string {
	switch c {
	case ClassImage:
		return "image"
	case ClassPdf:
		return "pdf"
	default:
		return "other"
	}
}

// DownloadRequest is a single download event as delivered by the browser
// extension. It is read-only to the core pipeline.
type DownloadRequest struct {
	// Filename is the name the browser would use if we do nothing
	Filename string `json:"filename"`

	// URL is the source URL of the download
	URL string `json:"url"`

	// MimeHint is the MIME type reported by the browser (may be empty or wrong)
	MimeHint string `json:"mimeType"`
}

// CaptionResult holds raw model output before slugification.
type CaptionResult struct {
	// Text is the caption or filename phrase as returned by the model
	Text string
}
