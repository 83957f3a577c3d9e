package parse

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/akolanti/IngestAPI/internal/domain/commonModels"
)

// pptxParser reads the slide XML straight out of the pptx archive. No pack
// library covers pptx, and the format is just DrawingML text runs inside a
// zip, so this stays hand-rolled.
type pptxParser struct{}

var slidePathRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

type slideXML struct {
	Paragraphs []slideParagraph `xml:"cSld>spTree>sp>txBody>p"`
}

type slideParagraph struct {
	Runs []string `xml:"r>t"`
}

func (p *pptxParser) Parse(data []byte, fileName string) ([]commonModels.Block, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pptx archive: %w", err)
	}

	slides := map[int]*zip.File{}
	var numbers []int
	for _, file := range archive.File {
		m := slidePathRe.FindStringSubmatch(file.Name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		slides[n] = file
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	var blocks []commonModels.Block
	for _, n := range numbers {
		paragraphs, err := extractSlideText(slides[n])
		if err != nil {
			return nil, fmt.Errorf("failed to read slide %d: %w", n, err)
		}

		for i, text := range paragraphs {
			kind := commonModels.BlockText
			// the first short paragraph of a slide is its title placeholder
			if i == 0 && looksLikeHeading(text) {
				kind = commonModels.BlockTitle
			}
			blocks = append(blocks, commonModels.Block{Kind: kind, Text: text, Page: n})
		}
	}

	if len(blocks) == 0 {
		return nil, fmt.Errorf("presentation %s has no text", fileName)
	}
	return blocks, nil
}

func extractSlideText(file *zip.File) ([]string, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	var slide slideXML
	if err := xml.Unmarshal(raw, &slide); err != nil {
		return nil, err
	}

	var paragraphs []string
	for _, para := range slide.Paragraphs {
		text := strings.TrimSpace(strings.Join(para.Runs, ""))
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	return paragraphs, nil
}
