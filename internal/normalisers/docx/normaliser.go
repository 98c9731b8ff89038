package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/MaxSetka1/max-autopost-bot/internal/core/domain"
	"github.com/MaxSetka1/max-autopost-bot/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser
}

// Normalise extracts paragraphs from word/document.xml and the title and
// author from docProps/core.xml.
func (n *Normaliser) Normalise(_ context.Context, file *domain.SourceFile) (*driven.NormaliseResult, error) {
	if file == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(file.Content), int64(len(file.Content)))
	if err != nil {
		return nil, fmt.Errorf("opening docx %s: %w", file.Name, domain.ErrInvalidInput)
	}

	text, err := extractDocumentText(reader)
	if err != nil {
		return nil, err
	}

	core := readCore(reader)
	title := strings.TrimSpace(core.Title)
	if title == "" {
		title = domain.TitleFromName(file.Name)
	}

	return &driven.NormaliseResult{
		Text:   text,
		Title:  title,
		Author: strings.TrimSpace(core.Creator),
		Format: "docx",
	}, nil
}

func readZipFile(reader *zip.Reader, name string) ([]byte, bool) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, false
		}
		defer rc.Close()
		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, false
		}
		return content, true
	}
	return nil, false
}

// extractDocumentText extracts text from word/document.xml.
func extractDocumentText(reader *zip.Reader) (string, error) {
	content, ok := readZipFile(reader, "word/document.xml")
	if !ok {
		return "", nil
	}
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("parsing document.xml: %w", domain.ErrInvalidInput)
	}

	var paragraphs []string
	for _, para := range doc.Body.Paragraphs {
		var b strings.Builder
		for _, run := range para.Runs {
			for _, text := range run.Text {
				b.WriteString(text.Content)
			}
		}
		if p := strings.TrimSpace(b.String()); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return strings.Join(paragraphs, "\n\n"), nil
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// coreXML represents the structure of docProps/core.xml.
type coreXML struct {
	Title   string `xml:"title"`
	Creator string `xml:"creator"`
}

func readCore(reader *zip.Reader) coreXML {
	var core coreXML
	if content, ok := readZipFile(reader, "docProps/core.xml"); ok {
		_ = xml.Unmarshal(content, &core)
	}
	return core
}
