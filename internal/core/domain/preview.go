package domain

import (
	"path"
	"strings"
)

// PreviewKind is the rendering strategy for a file preview.
type PreviewKind int

const (
	// PreviewFallback offers an external open or download.
	PreviewFallback PreviewKind = iota
	// PreviewDocument uses an embedded document viewer.
	PreviewDocument
	// PreviewImage renders the image inline.
	PreviewImage
	// PreviewText shows the file in a text viewer.
	PreviewText
)

// String returns the kind name.
func (k PreviewKind) String() string {
	switch k {
	case PreviewDocument:
		return "document"
	case PreviewImage:
		return "image"
	case PreviewText:
		return "text"
	default:
		return "fallback"
	}
}

// ClassifyPreview picks the preview kind from the filename extension.
func ClassifyPreview(filename string) PreviewKind {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(filename), ".")) {
	case "pdf":
		return PreviewDocument
	case "jpg", "jpeg", "png", "gif":
		return PreviewImage
	case "txt", "csv", "md", "json":
		return PreviewText
	default:
		return PreviewFallback
	}
}

// Preview is a resolved preview of a file.
type Preview struct {
	File FileRecord
	URL  string
	Kind PreviewKind
}
