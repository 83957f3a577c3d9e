package parse

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"github.com/akolanti/IngestAPI/internal/domain/commonModels"
)

// imageParser wraps a standalone image upload as a single image block; the
// vision stage produces the text that actually gets embedded.
type imageParser struct{}

func (p *imageParser) Parse(data []byte, fileName string) ([]commonModels.Block, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("image %s is empty", fileName)
	}

	return []commonModels.Block{{
		Kind:      commonModels.BlockImage,
		Page:      1,
		ImageData: data,
		ImageMIME: mimetype.Detect(data).String(),
	}}, nil
}
