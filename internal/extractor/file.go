package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"
)

const docxDocumentPath = "word/document.xml"

// File extracts text from an uploaded file, choosing the parser by name suffix.
// Unsupported suffixes give an empty string and no error.
func File(name string, data []byte) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(name))

	switch {
	case strings.HasSuffix(lower, ".txt"):
		return decodeText(data)
	case strings.HasSuffix(lower, ".pdf"):
		return pdfText(data)
	case strings.HasSuffix(lower, ".docx"):
		return docxText(data)
	default:
		return "", nil
	}
}

// SupportedFile reports whether File knows how to parse name.
func SupportedFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))

	return strings.HasSuffix(lower, ".txt") ||
		strings.HasSuffix(lower, ".pdf") ||
		strings.HasSuffix(lower, ".docx")
}

// decodeText tries UTF-8 and falls back to Latin-1, which accepts any byte.
func decodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode latin-1: %w", err)
	}

	return string(decoded), nil
}

func pdfText(data []byte) (text string, err error) {
	// The PDF reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("read PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("create PDF reader: %w", err)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			return "", fmt.Errorf("get plain text (page = %d): %w", i, pageErr)
		}

		if pageText == "" {
			continue
		}
		pages = append(pages, pageText)
	}

	return strings.Join(pages, "\n"), nil
}

func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != docxDocumentPath {
			continue
		}

		rc, openErr := f.Open()
		if openErr != nil {
			return "", fmt.Errorf("open %s: %w", docxDocumentPath, openErr)
		}
		defer rc.Close()

		return docxParagraphs(rc)
	}

	return "", fmt.Errorf("%s is missing", docxDocumentPath)
}

// docxParagraphs walks WordprocessingML and returns one line per top-level
// w:p. Paragraphs nested in text boxes are skipped along with their text.
func docxParagraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		depth      int
		inText     bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				depth++
				if depth == 1 {
					current.Reset()
				}
			case "t":
				inText = depth == 1
			case "tab":
				if depth == 1 {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if depth == 1 {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if depth == 1 {
					paragraphs = append(paragraphs, current.String())
				}
				if depth > 0 {
					depth--
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return strings.Join(paragraphs, "\n"), nil
}
