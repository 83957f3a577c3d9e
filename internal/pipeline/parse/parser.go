package parse

import (
	"strings"
	"unicode"

	"github.com/akolanti/IngestAPI/internal/domain/commonModels"
)

// Parser turns raw file bytes into an ordered block sequence. Every format
// presents this one contract to the rest of the pipeline; the detect stage
// picks which implementation runs.
type Parser interface {
	Parse(data []byte, fileName string) ([]commonModels.Block, error)
}

var registry = map[commonModels.FileType]Parser{
	commonModels.PDF:      &pdfParser{},
	commonModels.DOCX:     &officeParser{},
	commonModels.TXT:      &plainTextParser{},
	commonModels.Markdown: &markdownParser{},
	commonModels.HTML:     &htmlParser{},
	commonModels.XLSX:     &excelParser{},
	commonModels.PPTX:     &pptxParser{},
	commonModels.Image:    &imageParser{},
}

// ForType returns the parser for a detected file type.
func ForType(t commonModels.FileType) (Parser, bool) {
	p, ok := registry[t]
	return p, ok
}

// looksLikeHeading is a shared heuristic for formats without explicit
// structure (pdf, txt, docx): short single lines without terminal
// punctuation that start with an upper-case letter or a number.
func looksLikeHeading(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || len(line) > 80 {
		return false
	}
	if strings.ContainsAny(string(line[len(line)-1]), ".,;:!?") {
		return false
	}
	first := []rune(line)[0]
	if !unicode.IsUpper(first) && !unicode.IsDigit(first) {
		return false
	}
	return len(strings.Fields(line)) <= 12
}

// paragraphBlocks splits loose text into title/text blocks using the
// heading heuristic. Used for every format that hands us a flat string.
func paragraphBlocks(text string, page int) []commonModels.Block {
	var blocks []commonModels.Block
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		lines := strings.Split(para, "\n")
		if len(lines) == 1 && looksLikeHeading(lines[0]) {
			blocks = append(blocks, commonModels.Block{Kind: commonModels.BlockTitle, Text: lines[0], Page: page})
			continue
		}
		blocks = append(blocks, commonModels.Block{Kind: commonModels.BlockText, Text: para, Page: page})
	}
	return blocks
}
