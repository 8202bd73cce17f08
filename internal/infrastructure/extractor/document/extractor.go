package document

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/codespaze/resume-builder/internal/core/domain"
)

const (
	MediaTypePlainText = "text/plain"
	MediaTypePDF       = "application/pdf"
	MediaTypeDoc       = "application/msword"
	MediaTypeDocx      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var reXMLTags = regexp.MustCompile(`<[^>]+>`)

// Extractor converts uploaded resume bytes into plain text based on the
// declared media type.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, data []byte, mediaType string) (string, error) {
	var (
		text string
		err  error
	)

	switch normalizeMediaType(mediaType) {
	case MediaTypePlainText:
		text, err = extractPlainText(data)
	case MediaTypePDF:
		text, err = extractPDF(data)
	case MediaTypeDoc, MediaTypeDocx:
		text, err = extractWord(data)
	default:
		return "", domain.WrapError(domain.ErrUnsupportedMediaType, "extract text",
			fmt.Errorf("media type %q", mediaType))
	}
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.WrapError(domain.ErrEmptyExtraction, "extract text",
			errors.New("document yielded no text"))
	}
	return text, nil
}

func normalizeMediaType(mediaType string) string {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if idx := strings.Index(mt, ";"); idx >= 0 {
		mt = strings.TrimSpace(mt[:idx])
	}
	return mt
}

func extractPlainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("plain text document is not valid utf-8")
	}
	return string(data), nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	rs, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

// extractWord pulls the raw text from word/document.xml inside the docx
// container: paragraph ends become newlines, everything else is
// tag-stripped.
func extractWord(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open word container: %w", err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		docXML, err = io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml: %w", err)
		}
		break
	}
	if len(docXML) == 0 {
		return "", errors.New("no document.xml found in word container")
	}

	text := string(docXML)
	text = strings.ReplaceAll(text, "</w:p>", "\n")
	text = strings.ReplaceAll(text, "<w:tab/>", "\t")
	text = reXMLTags.ReplaceAllString(text, " ")
	return text, nil
}
