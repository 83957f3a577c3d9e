package parse

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/dslipak/pdf"

	"github.com/akolanti/IngestAPI/internal/domain/commonModels"
	"github.com/akolanti/IngestAPI/pkg/logger_i"
)

type pdfParser struct{}

func (p *pdfParser) Parse(data []byte, fileName string) ([]commonModels.Block, error) {
	logger := logger_i.NewLogger("PDFParser")

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var blocks []commonModels.Block
	numPages := reader.NumPage()
	logger.Debug("extracting pdf", "file", fileName, "pages", numPages)

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// A single broken page should not sink the document
			logger.Error("error extracting page content", "page", i, "error", err)
			continue
		}

		blocks = append(blocks, paragraphBlocks(content, i)...)
	}

	if len(blocks) == 0 {
		return nil, errors.New("no extractable text in pdf")
	}
	return blocks, nil
}

// protectExtract guards against the pdf library hanging on malformed
// content streams.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		return "", errors.New("page extraction timeout")
	}
}
