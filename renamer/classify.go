// Package renamer orchestrates the rename pipeline: classify the download,
// fetch its bytes, obtain a caption or name suggestion from the model,
// slugify the result, and record the outcome.
package renamer

import (
	"net/url"
	"path"
	"strings"

	"go_renamer/core"
)

// imageExtensions are the filename extensions routed to the image path when
// the browser's MIME hint is absent or unhelpful.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// extensionByMime maps image MIME subtypes to their canonical extension.
var extensionByMime = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// Classify decides the processing path for a download. The MIME hint wins
// when present; the filename extension is the fallback since browsers often
// report application/octet-stream for direct downloads.
func Classify(req core.DownloadRequest) core.FileClass {
	mime := strings.ToLower(strings.TrimSpace(req.MimeHint))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}

	switch {
	case strings.HasPrefix(mime, "image/"):
		return core.ClassImage
	case mime == "application/pdf":
		return core.ClassPdf
	}

	ext := strings.ToLower(path.Ext(req.Filename))
	switch {
	case imageExtensions[ext]:
		return core.ClassImage
	case ext == ".pdf":
		return core.ClassPdf
	}
	return core.ClassOther
}

// BaseName strips any directory part and the extension from a filename.
func BaseName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if ext := path.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	return base
}

// ExtensionFor picks the output extension for a renamed file. The original
// extension is kept when it already matches the class; otherwise the MIME
// hint decides, with a per-class default as the last resort.
func ExtensionFor(class core.FileClass, req core.DownloadRequest) string {
	if class == core.ClassPdf {
		return ".pdf"
	}

	ext := strings.ToLower(path.Ext(req.Filename))
	if imageExtensions[ext] {
		return ext
	}

	mime := strings.ToLower(strings.TrimSpace(req.MimeHint))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if mapped, ok := extensionByMime[mime]; ok {
		return mapped
	}
	return ".jpg"
}

// SourceHost extracts the host from a download URL for stats attribution.
// Unparseable URLs yield an empty host, which the store skips.
func SourceHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
