package parse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/akolanti/IngestAPI/internal/domain/commonModels"
)

var imageLinkRe = regexp.MustCompile(`!\[[^\]]*\]\(([^)\s]+)[^)]*\)`)

// markdownParser walks the document line by line: # headings become title
// blocks, pipe tables become table blocks, image links become image blocks
// carrying the source URL, everything else accumulates into paragraphs.
type markdownParser struct{}

func (p *markdownParser) Parse(data []byte, fileName string) ([]commonModels.Block, error) {
	var blocks []commonModels.Block
	var para []string
	var table []string

	flushPara := func() {
		if len(para) == 0 {
			return
		}
		text := strings.TrimSpace(strings.Join(para, "\n"))
		para = nil
		if text != "" {
			blocks = append(blocks, commonModels.Block{Kind: commonModels.BlockText, Text: text, Page: 1})
		}
	}
	flushTable := func() {
		if len(table) == 0 {
			return
		}
		blocks = append(blocks, commonModels.Block{Kind: commonModels.BlockTable, Text: strings.Join(table, "\n"), Page: 1})
		table = nil
	}

	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "#"):
			flushPara()
			flushTable()
			title := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			if title != "" {
				blocks = append(blocks, commonModels.Block{Kind: commonModels.BlockTitle, Text: title, Page: 1})
			}

		case strings.HasPrefix(trimmed, "|"):
			flushPara()
			table = append(table, trimmed)

		case imageLinkRe.MatchString(trimmed):
			flushPara()
			flushTable()
			for _, m := range imageLinkRe.FindAllStringSubmatch(trimmed, -1) {
				blocks = append(blocks, commonModels.Block{Kind: commonModels.BlockImage, ImageURL: m[1], Page: 1})
			}

		case trimmed == "":
			flushPara()
			flushTable()

		default:
			flushTable()
			para = append(para, line)
		}
	}
	flushPara()
	flushTable()

	if len(blocks) == 0 {
		return nil, fmt.Errorf("file %s has no content", fileName)
	}
	return blocks, nil
}
