package domain

import (
	"strings"
	"time"
)

type DocumentStatus string

const (
	StatusUploaded  DocumentStatus = "uploaded"
	StatusAnalyzing DocumentStatus = "analyzing"
	StatusAnalyzed  DocumentStatus = "analyzed"
	StatusFailed    DocumentStatus = "analysis_failed"
)

// Document is a single uploaded document and its analysis state. Exactly one
// of SourceContent and SourceReference must be present for analysis to run.
type Document struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	MimeType        string         `json:"mime_type"`
	SizeBytes       int64          `json:"size_bytes"`
	SourceContent   string         `json:"source_content,omitempty"`
	SourceReference string         `json:"source_reference,omitempty"`
	Status          DocumentStatus `json:"status"`
	Error           string         `json:"error,omitempty"`
	Analysis        *Analysis      `json:"analysis,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Analysis is the structured result of the summarization pipeline. FullText
// is the verbatim model output and the single source the sections are parsed
// from; the sections themselves may be empty when parsing finds nothing.
type Analysis struct {
	FullText        string    `json:"full_text"`
	Summary         string    `json:"summary"`
	KeyPoints       []string  `json:"key_points"`
	Details         string    `json:"details"`
	Recommendations []string  `json:"recommendations"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
}

// Sections is the parser output before it is combined with the raw model
// text into an Analysis.
type Sections struct {
	Summary         string
	KeyPoints       []string
	Details         string
	Recommendations []string
}

func (d *Document) HasSource() bool {
	return d.SourceContent != "" || d.SourceReference != ""
}

func (d *Document) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(d.MimeType), "image/")
}
