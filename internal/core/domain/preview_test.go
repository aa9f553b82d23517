package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPreview(t *testing.T) {
	tests := []struct {
		filename string
		want     PreviewKind
	}{
		{"report.pdf", PreviewDocument},
		{"REPORT.PDF", PreviewDocument},
		{"photo.jpg", PreviewImage},
		{"photo.JPEG", PreviewImage},
		{"diagram.png", PreviewImage},
		{"anim.gif", PreviewImage},
		{"notes.txt", PreviewText},
		{"data.csv", PreviewText},
		{"README.md", PreviewText},
		{"config.JSON", PreviewText},
		{"slides.pptx", PreviewFallback},
		{"contract.docx", PreviewFallback},
		{"noextension", PreviewFallback},
		{"archive.tar.gz", PreviewFallback},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPreview(tt.filename))
		})
	}
}

func TestPreviewKind_String(t *testing.T) {
	assert.Equal(t, "document", PreviewDocument.String())
	assert.Equal(t, "image", PreviewImage.String())
	assert.Equal(t, "text", PreviewText.String())
	assert.Equal(t, "fallback", PreviewFallback.String())
}
