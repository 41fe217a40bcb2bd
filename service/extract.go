package service

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText returns the plain-text content of the file at path, chosen by
// the extension after the last dot (case-insensitive). An empty result is
// the uniform failure signal: unrecognized extensions and malformed
// documents yield "" rather than an error wherever avoidable.
func ExtractText(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	var text string
	var err error
	switch ext {
	case "txt":
		text, err = extractTxt(path)
	case "pdf":
		text, err = extractPDF(path)
	case "doc", "docx":
		text, err = extractDocx(path)
	default:
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func extractTxt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	// Drop undecodable byte sequences instead of failing
	return strings.ToValidUTF8(string(data), ""), nil
}

// extractPDF concatenates the text of each page with a newline. Pages that
// yield no extractable text contribute an empty string.
func extractPDF(path string) (text string, err error) {
	// The pdf reader panics on some malformed files; treat that as an
	// empty extraction, not a crash.
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("pdf extraction panicked", "path", path, "error", r)
			text, err = "", nil
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", nil
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			b.WriteString("\n")
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			pageText = ""
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// extractDocx reads word/document.xml out of the OOXML archive and joins
// paragraph text with newlines. Legacy binary .doc files fail the zip open
// and come back empty.
func extractDocx(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", nil
	}
	defer archive.Close()

	var doc *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", nil
	}

	r, err := doc.Open()
	if err != nil {
		return "", nil
	}
	defer r.Close()

	return docxParagraphs(r), nil
}

// docxParagraphs streams the document XML, collecting w:t character data
// and emitting a newline at each w:p boundary.
func docxParagraphs(r io.Reader) string {
	decoder := xml.NewDecoder(r)

	var b strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				slog.Warn("docx document.xml truncated", "error", err)
			}
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String()
}
