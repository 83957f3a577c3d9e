package chunk

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/akolanti/IngestAPI/internal/config"
	"github.com/akolanti/IngestAPI/internal/domain/commonModels"
	"github.com/akolanti/IngestAPI/pkg/logger_i"
)

// ByTitle groups parsed blocks into retrieval chunks. A title block opens a
// new section; consecutive text under the same title accumulates until the
// chunk reaches MaxChunkSize, except that chunks still below CombineTextUnder
// absorb the next paragraph even when a soft boundary was possible. Tables
// and images always stand alone so the vision stage can treat them whole.
func ByTitle(log *logger_i.Logger, blocks []commonModels.Block) []commonModels.Chunk {
	var chunks []commonModels.Chunk
	var currentTitle string
	var buf strings.Builder
	var bufPage int

	flush := func() {
		text := strings.TrimSpace(buf.String())
		buf.Reset()
		if text == "" {
			return
		}
		chunks = append(chunks, commonModels.Chunk{
			Text:         text,
			SourceType:   commonModels.ChunkText,
			SectionTitle: currentTitle,
			Page:         bufPage,
		})
	}

	for _, block := range blocks {
		switch block.Kind {
		case commonModels.BlockTitle:
			flush()
			currentTitle = truncateTitle(block.Text)

		case commonModels.BlockText:
			text := strings.TrimSpace(block.Text)
			if text == "" {
				continue
			}
			if buf.Len() == 0 {
				bufPage = block.Page
			}
			if buf.Len() > 0 && buf.Len()+len(text) > config.MaxChunkSize && buf.Len() >= config.CombineTextUnder {
				flush()
				bufPage = block.Page
			}
			if buf.Len() > 0 {
				buf.WriteString("\n\n")
			}
			buf.WriteString(text)
			// oversized single paragraphs split on a hard boundary
			for buf.Len() > config.MaxChunkSize {
				head, tail := splitAt(buf.String(), config.MaxChunkSize)
				buf.Reset()
				buf.WriteString(head)
				flush()
				bufPage = block.Page
				buf.WriteString(tail)
			}

		case commonModels.BlockTable:
			flush()
			chunks = append(chunks, commonModels.Chunk{
				Text:         block.Text,
				SourceType:   commonModels.ChunkTable,
				SectionTitle: currentTitle,
				Page:         block.Page,
			})

		case commonModels.BlockImage:
			flush()
			// the decorative filter only prunes images embedded among other
			// content; a document that is just one image keeps it
			if block.ImageURL == "" && len(blocks) > 1 && !meaningfulImage(log, block.ImageData) {
				continue
			}
			chunks = append(chunks, commonModels.Chunk{
				SourceType:   commonModels.ChunkImageSummary,
				SectionTitle: currentTitle,
				Page:         block.Page,
				ImageData:    block.ImageData,
				ImageMIME:    block.ImageMIME,
				ImageURL:     block.ImageURL,
			})
		}
	}
	flush()

	for i := range chunks {
		chunks[i].Ordinal = i
	}
	return chunks
}

func truncateTitle(title string) string {
	title = strings.TrimSpace(title)
	if len(title) > config.SectionTitleMaxLen {
		return title[:config.SectionTitleMaxLen]
	}
	return title
}

// splitAt breaks text near limit, preferring a whitespace boundary in the
// trailing quarter of the window.
func splitAt(text string, limit int) (string, string) {
	if len(text) <= limit {
		return text, ""
	}
	cut := limit
	if idx := strings.LastIndexAny(text[:limit], " \n\t"); idx > limit*3/4 {
		cut = idx
	}
	return strings.TrimSpace(text[:cut]), strings.TrimSpace(text[cut:])
}

// meaningfulImage drops decorative assets: anything under the size floor or
// smaller than 100x100 pixels is noise (logos, spacers, bullets).
func meaningfulImage(log *logger_i.Logger, data []byte) bool {
	if len(data) < config.MinMeaningfulImageKB*1024 {
		return false
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		// undecodable but large enough, let the vision stage decide
		log.Debug("could not decode image dimensions", "error", err)
		return true
	}
	return cfg.Width >= 100 && cfg.Height >= 100
}
