package detect

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/akolanti/IngestAPI/internal/domain/commonModels"
)

var mimeTypes = map[string]commonModels.FileType{
	"application/pdf": commonModels.PDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   commonModels.DOCX,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": commonModels.PPTX,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         commonModels.XLSX,
	"text/plain": commonModels.TXT,
	"text/html":  commonModels.HTML,
	"image/png":  commonModels.Image,
	"image/jpeg": commonModels.Image,
	"image/webp": commonModels.Image,
}

var extensions = map[string]commonModels.FileType{
	".pdf":      commonModels.PDF,
	".docx":     commonModels.DOCX,
	".pptx":     commonModels.PPTX,
	".xlsx":     commonModels.XLSX,
	".txt":      commonModels.TXT,
	".html":     commonModels.HTML,
	".htm":      commonModels.HTML,
	".md":       commonModels.Markdown,
	".markdown": commonModels.Markdown,
	".png":      commonModels.Image,
	".jpg":      commonModels.Image,
	".jpeg":     commonModels.Image,
	".webp":     commonModels.Image,
}

// FileType classifies the raw bytes, falling back to the file extension
// when sniffing is inconclusive. Markdown in particular sniffs as
// text/plain, so the extension has to break the tie first.
func FileType(data []byte, fileName string) (commonModels.FileType, string) {
	ext := strings.ToLower(filepath.Ext(fileName))

	detected := mimetype.Detect(data)
	mime := detected.String()
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}

	if mime == "text/plain" {
		if t, ok := extensions[ext]; ok {
			return t, mime
		}
	}

	for m, t := range mimeTypes {
		if detected.Is(m) {
			return t, mime
		}
	}

	//sniffing failed, trust the declared extension
	if t, ok := extensions[ext]; ok {
		return t, mime
	}

	return commonModels.Unknown, mime
}
