package chunk

import (
	"bytes"
	"strings"
	"testing"

	"github.com/akolanti/IngestAPI/internal/config"
	"github.com/akolanti/IngestAPI/internal/domain/commonModels"
	"github.com/akolanti/IngestAPI/pkg/logger_i"
)

func testLogger() *logger_i.Logger {
	return logger_i.NewLogger("chunker_test")
}

func TestByTitle_GroupsTextUnderSectionTitles(t *testing.T) {
	blocks := []commonModels.Block{
		{Kind: commonModels.BlockTitle, Text: "Intro", Page: 1},
		{Kind: commonModels.BlockText, Text: "First paragraph.", Page: 1},
		{Kind: commonModels.BlockText, Text: "Second paragraph.", Page: 1},
		{Kind: commonModels.BlockTitle, Text: "Details", Page: 2},
		{Kind: commonModels.BlockText, Text: "Third paragraph.", Page: 2},
	}

	chunks := ByTitle(testLogger(), blocks)

	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if chunks[0].SectionTitle != "Intro" {
		t.Errorf("chunk 0 title got %q, want Intro", chunks[0].SectionTitle)
	}
	if !strings.Contains(chunks[0].Text, "First paragraph.") || !strings.Contains(chunks[0].Text, "Second paragraph.") {
		t.Errorf("chunk 0 did not merge both paragraphs: %q", chunks[0].Text)
	}
	if chunks[1].SectionTitle != "Details" {
		t.Errorf("chunk 1 title got %q, want Details", chunks[1].SectionTitle)
	}
	if chunks[1].Page != 2 {
		t.Errorf("chunk 1 page got %d, want 2", chunks[1].Page)
	}
}

func TestByTitle_TablesAndImagesStandAlone(t *testing.T) {
	blocks := []commonModels.Block{
		{Kind: commonModels.BlockTitle, Text: "Data"},
		{Kind: commonModels.BlockText, Text: "Before the table.", Page: 1},
		{Kind: commonModels.BlockTable, Text: "a | b\n1 | 2", Page: 1},
		{Kind: commonModels.BlockImage, ImageURL: "https://example.com/fig.png", Page: 1},
		{Kind: commonModels.BlockText, Text: "After the image.", Page: 1},
	}

	chunks := ByTitle(testLogger(), blocks)

	if len(chunks) != 4 {
		t.Fatalf("got %d chunks, want 4", len(chunks))
	}
	wantTypes := []commonModels.SourceType{
		commonModels.ChunkText,
		commonModels.ChunkTable,
		commonModels.ChunkImageSummary,
		commonModels.ChunkText,
	}
	for i, want := range wantTypes {
		if chunks[i].SourceType != want {
			t.Errorf("chunk %d type got %v, want %v", i, chunks[i].SourceType, want)
		}
		if chunks[i].SectionTitle != "Data" {
			t.Errorf("chunk %d lost its section title: %q", i, chunks[i].SectionTitle)
		}
	}
}

func TestByTitle_OrdinalsAreContiguous(t *testing.T) {
	blocks := []commonModels.Block{
		{Kind: commonModels.BlockText, Text: "one"},
		{Kind: commonModels.BlockTable, Text: "t"},
		{Kind: commonModels.BlockImage, ImageData: []byte("tiny")}, // dropped as decorative
		{Kind: commonModels.BlockText, Text: "two"},
	}

	chunks := ByTitle(testLogger(), blocks)

	for i, c := range chunks {
		if c.Ordinal != i {
			t.Errorf("chunk %d has ordinal %d", i, c.Ordinal)
		}
	}
}

func TestByTitle_LoneImageDocumentKeepsItsImage(t *testing.T) {
	blocks := []commonModels.Block{
		{Kind: commonModels.BlockImage, ImageData: []byte("tiny"), ImageMIME: "image/png", Page: 1},
	}

	chunks := ByTitle(testLogger(), blocks)

	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1; an uploaded image must not be filtered out of its own document", len(chunks))
	}
	if chunks[0].SourceType != commonModels.ChunkImageSummary {
		t.Errorf("chunk type got %v, want image summary", chunks[0].SourceType)
	}
}

func TestByTitle_SplitsOversizedParagraphs(t *testing.T) {
	huge := strings.Repeat("lorem ipsum dolor sit amet ", 200) // ~5400 chars
	blocks := []commonModels.Block{
		{Kind: commonModels.BlockText, Text: huge, Page: 3},
	}

	chunks := ByTitle(testLogger(), blocks)

	if len(chunks) < 2 {
		t.Fatalf("oversized paragraph was not split, got %d chunk(s)", len(chunks))
	}
	var total int
	for i, c := range chunks {
		if len(c.Text) > config.MaxChunkSize {
			t.Errorf("chunk %d is %d chars, over the %d limit", i, len(c.Text), config.MaxChunkSize)
		}
		if c.Page != 3 {
			t.Errorf("chunk %d lost its page number", i)
		}
		total += len(c.Text)
	}
	if total < len(huge)-len(chunks)*2 {
		t.Errorf("split lost content: %d of %d chars survive", total, len(huge))
	}
}

func TestByTitle_SmallChunksAbsorbNextParagraph(t *testing.T) {
	small := strings.Repeat("a", config.CombineTextUnder-100)
	big := strings.Repeat("b", config.MaxChunkSize-200)
	blocks := []commonModels.Block{
		{Kind: commonModels.BlockText, Text: small},
		{Kind: commonModels.BlockText, Text: big},
	}

	chunks := ByTitle(testLogger(), blocks)

	// the small chunk is below the combine floor, so the pair merges and
	// then splits on the hard limit rather than flushing at the boundary
	if len(chunks) == 2 && len(chunks[0].Text) == len(small) {
		t.Error("small leading chunk was flushed instead of combined")
	}
}

func TestByTitle_TruncatesLongTitles(t *testing.T) {
	blocks := []commonModels.Block{
		{Kind: commonModels.BlockTitle, Text: strings.Repeat("T", config.SectionTitleMaxLen+50)},
		{Kind: commonModels.BlockText, Text: "body"},
	}

	chunks := ByTitle(testLogger(), blocks)

	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if len(chunks[0].SectionTitle) != config.SectionTitleMaxLen {
		t.Errorf("title length got %d, want %d", len(chunks[0].SectionTitle), config.SectionTitleMaxLen)
	}
}

func TestMeaningfulImage(t *testing.T) {
	log := testLogger()

	if meaningfulImage(log, []byte("below size floor")) {
		t.Error("tiny payload passed the size floor")
	}

	undecodable := bytes.Repeat([]byte{0xab}, (config.MinMeaningfulImageKB+1)*1024)
	if !meaningfulImage(log, undecodable) {
		t.Error("large undecodable payload should pass through to the vision stage")
	}
}
