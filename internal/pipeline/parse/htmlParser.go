package parse

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/akolanti/IngestAPI/internal/domain/commonModels"
)

type htmlParser struct{}

func (p *htmlParser) Parse(data []byte, fileName string) ([]commonModels.Block, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	var blocks []commonModels.Block

	doc.Find("h1, h2, h3, h4, h5, h6, p, li, table, img, pre").Each(func(_ int, sel *goquery.Selection) {
		// tables and list items nested inside a table are covered by the
		// table block itself
		if sel.ParentsFiltered("table").Length() > 0 {
			return
		}

		switch goquery.NodeName(sel) {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			if text := strings.TrimSpace(sel.Text()); text != "" {
				blocks = append(blocks, commonModels.Block{Kind: commonModels.BlockTitle, Text: text, Page: 1})
			}
		case "table":
			var rows []string
			sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
				var cells []string
				tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
					cells = append(cells, strings.TrimSpace(cell.Text()))
				})
				rows = append(rows, strings.Join(cells, " | "))
			})
			if len(rows) > 0 {
				blocks = append(blocks, commonModels.Block{Kind: commonModels.BlockTable, Text: strings.Join(rows, "\n"), Page: 1})
			}
		case "img":
			if src, ok := sel.Attr("src"); ok && src != "" && !strings.HasPrefix(src, "data:") {
				blocks = append(blocks, commonModels.Block{Kind: commonModels.BlockImage, ImageURL: src, Page: 1})
			}
		default:
			if text := strings.TrimSpace(sel.Text()); text != "" {
				blocks = append(blocks, commonModels.Block{Kind: commonModels.BlockText, Text: text, Page: 1})
			}
		}
	})

	if len(blocks) == 0 {
		return nil, fmt.Errorf("html document %s has no content", fileName)
	}
	return blocks, nil
}
