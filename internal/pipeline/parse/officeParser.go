package parse

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lu4p/cat"

	"github.com/akolanti/IngestAPI/internal/domain/commonModels"
)

// officeParser handles docx (and rtf/odt should they sneak through detect)
// via lu4p/cat, which wants a path on disk.
type officeParser struct{}

func (p *officeParser) Parse(data []byte, fileName string) ([]commonModels.Block, error) {
	tmp, err := os.CreateTemp("", "ingest-*"+filepath.Ext(fileName))
	if err != nil {
		return nil, fmt.Errorf("temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("temp write: %w", err)
	}
	tmp.Close()

	text, err := cat.File(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to extract document text: %w", err)
	}

	// cat flattens the whole document; page provenance is not recoverable
	blocks := paragraphBlocks(text, 1)
	if len(blocks) == 0 {
		return nil, fmt.Errorf("document %s contains no text", fileName)
	}
	return blocks, nil
}

type plainTextParser struct{}

func (p *plainTextParser) Parse(data []byte, fileName string) ([]commonModels.Block, error) {
	blocks := paragraphBlocks(string(data), 1)
	if len(blocks) == 0 {
		return nil, fmt.Errorf("file %s is empty", fileName)
	}
	return blocks, nil
}
