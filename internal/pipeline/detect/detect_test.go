package detect

import (
	"testing"

	"github.com/akolanti/IngestAPI/internal/domain/commonModels"
)

func TestFileType(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		fileName string
		expected commonModels.FileType
	}{
		{"PDF_By_Magic", []byte("%PDF-1.7 rest of file"), "report", commonModels.PDF},
		{"Markdown_Extension_Breaks_Plaintext_Tie", []byte("# Heading\n\nbody text"), "notes.md", commonModels.Markdown},
		{"Plaintext_With_Txt_Extension", []byte("just some words"), "readme.txt", commonModels.TXT},
		{"Plaintext_Without_Extension", []byte("just some words"), "readme", commonModels.TXT},
		{"HTML_By_Magic", []byte("<!DOCTYPE html><html><body>hi</body></html>"), "page", commonModels.HTML},
		{"PNG_By_Magic", []byte("\x89PNG\r\n\x1a\n0000"), "shot", commonModels.Image},
		{"Extension_Fallback_For_Unsniffable", []byte{0x00, 0x01, 0x02}, "deck.pptx", commonModels.PPTX},
		{"Unknown_Binary", []byte{0x00, 0x01, 0x02, 0xff}, "firmware.bin", commonModels.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, mime := FileType(tt.data, tt.fileName)
			if got != tt.expected {
				t.Errorf("FileType(%q) got %v (mime %s), want %v", tt.fileName, got, mime, tt.expected)
			}
		})
	}
}
