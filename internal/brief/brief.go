// Package brief extracts plain text from story brief documents so it can be
// used as story context.
package brief

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Reader extracts text from one document format.
type Reader interface {
	CanRead(filename string) bool
	Read(content []byte) (string, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

func init() {
	Register(txtReader{})
	Register(markdownReader{})
	Register(docxReader{})
}

// ErrUnsupported indicates a brief format no reader accepts.
var ErrUnsupported = errors.New("unsupported brief format")

// ReadFile returns the normalized text of the brief at path.
func ReadFile(path string) (string, error) {
	for _, r := range registry {
		if !r.CanRead(path) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read brief: %w", err)
		}
		text, err := r.Read(data)
		if err != nil {
			return "", err
		}
		return normalize(text), nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnsupported)
}

// normalize unifies line endings, trims lines and collapses blank runs.
func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	out := lines[:0]
	blank := false
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

type txtReader struct{}

func (txtReader) CanRead(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".txt")
}

func (txtReader) Read(content []byte) (string, error) {
	return string(content), nil
}
