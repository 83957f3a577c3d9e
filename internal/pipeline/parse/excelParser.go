package parse

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/akolanti/IngestAPI/internal/domain/commonModels"
)

// excelParser renders every sheet as one table block. Spreadsheets carry
// no narrative text worth splitting further; the vision stage turns each
// sheet into a retrievable summary.
type excelParser struct{}

func (p *excelParser) Parse(data []byte, fileName string) ([]commonModels.Block, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var blocks []commonModels.Block
	for sheetIdx, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}

		var rendered []string
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, " | "))
			if line != "" {
				rendered = append(rendered, line)
			}
		}
		if len(rendered) == 0 {
			continue
		}

		blocks = append(blocks,
			commonModels.Block{Kind: commonModels.BlockTitle, Text: sheet, Page: sheetIdx + 1},
			commonModels.Block{Kind: commonModels.BlockTable, Text: strings.Join(rendered, "\n"), Page: sheetIdx + 1},
		)
	}

	if len(blocks) == 0 {
		return nil, fmt.Errorf("workbook %s has no populated sheets", fileName)
	}
	return blocks, nil
}
