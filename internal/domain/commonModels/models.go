package commonModels

type FileType string

const (
	PDF      FileType = "pdf"
	DOCX     FileType = "docx"
	PPTX     FileType = "pptx"
	XLSX     FileType = "xlsx"
	TXT      FileType = "txt"
	HTML     FileType = "html"
	Markdown FileType = "markdown"
	Image    FileType = "image"
	Unknown  FileType = "unknown"
)

type BlockKind string

const (
	BlockTitle BlockKind = "title"
	BlockText  BlockKind = "text"
	BlockTable BlockKind = "table"
	BlockImage BlockKind = "image"
)

// Block is the uniform output of every parser: an ordered piece of document
// content with its page/slide provenance. Image blocks carry either raw
// bytes (extracted from the file) or a source URL (e.g. an <img> tag).
type Block struct {
	Kind      BlockKind
	Text      string
	Page      int
	ImageData []byte
	ImageMIME string
	ImageURL  string
}

type SourceType string

const (
	ChunkText         SourceType = "text"
	ChunkTable        SourceType = "table"
	ChunkImageSummary SourceType = "image-summary"
)

// Chunk is pipeline-internal. Ordinals are a contiguous 0-based sequence
// per document, which makes chunk ids deterministic across re-ingestions.
type Chunk struct {
	Ordinal      int
	Text         string
	SourceType   SourceType
	SectionTitle string
	Page         int
	ImageData    []byte
	ImageMIME    string
	ImageURL     string
	Embedding    []float32
}
