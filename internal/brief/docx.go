package brief

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	docxParagraph = regexp.MustCompile(`</w:p>`)
	xmlTag        = regexp.MustCompile(`<[^>]+>`)
	xmlEntities   = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'")
)

type docxReader struct{}

func (docxReader) CanRead(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".docx")
}

// Read extracts word/document.xml and strips its markup, keeping one line
// per paragraph.
func (docxReader) Read(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
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
		return "", fmt.Errorf("document.xml not found in DOCX")
	}
	text := docxParagraph.ReplaceAllString(string(docXML), "\n")
	text = xmlTag.ReplaceAllString(text, "")
	return xmlEntities.Replace(text), nil
}
