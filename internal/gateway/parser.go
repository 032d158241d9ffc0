// Package gateway converts stored documents into plain text for the
// extraction pipeline. Parsing is a pure function of the file bytes; no
// LLM is involved and no state is kept.
package gateway

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat indicates a file extension the gateway cannot
// handle. This is a hard failure, not a degradation.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Content is the gateway's output: plain text plus optional
// markdown-like table renderings and whatever source metadata the parse
// surfaced.
type Content struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Tables   []string          `json:"tables,omitempty"`
}

// Parser is the document gateway boundary. Binary formats (PDF/DOCX) are
// external collaborators plugged in behind this interface.
type Parser interface {
	Parse(filePath string) (*Content, error)
}

// FileParser handles the formats the service parses natively: plain text
// (.txt, .md) and comma-separated tables (.csv).
type FileParser struct{}

// NewFileParser creates the built-in parser.
func NewFileParser() *FileParser {
	return &FileParser{}
}

// Parse implements Parser. Local failures inside a section degrade to
// empty text for that section rather than aborting the whole document.
func (p *FileParser) Parse(filePath string) (*Content, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".txt", ".md":
		return p.parseText(filePath)
	case ".csv":
		return p.parseCSV(filePath)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filePath))
	}
}

func (p *FileParser) parseText(filePath string) (*Content, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return &Content{
		Text:     string(data),
		Metadata: map[string]string{"format": "text"},
	}, nil
}

// parseCSV renders the file as one markdown-like table. Rows that fail to
// parse are skipped.
func (p *FileParser) parseCSV(filePath string) (*Content, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		rows = append(rows, record)
	}

	table := renderTable(rows)
	content := &Content{
		Text:     table,
		Metadata: map[string]string{"format": "csv"},
	}
	if table != "" {
		content.Tables = []string{table}
	}
	return content, nil
}

// renderTable formats rows as a markdown table, first row as header.
func renderTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	header, body := rows[0], rows[1:]

	var b strings.Builder
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	seps := make([]string, len(header))
	for i := range seps {
		seps[i] = "---"
	}
	b.WriteString("| " + strings.Join(seps, " | ") + " |")
	for _, row := range body {
		b.WriteString("\n| " + strings.Join(row, " | ") + " |")
	}
	return b.String()
}
