package brief

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

type markdownReader struct{}

func (markdownReader) CanRead(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown")
}

// Read drops Markdown syntax and keeps the text, one block per line.
func (markdownReader) Read(content []byte) (string, error) {
	doc := markdown.Parse(content, parser.NewWithExtensions(parser.CommonExtensions))
	var b strings.Builder
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.Text:
			if entering {
				b.Write(n.Literal)
			}
		case *ast.Code:
			if entering {
				b.Write(n.Literal)
			}
		case *ast.CodeBlock:
			if entering {
				b.Write(n.Literal)
				b.WriteString("\n")
			}
		case *ast.Softbreak:
			b.WriteString(" ")
		case *ast.Hardbreak:
			b.WriteString("\n")
		case *ast.Paragraph, *ast.Heading:
			if !entering {
				b.WriteString("\n")
			}
		}
		return ast.GoToNext
	})
	return b.String(), nil
}
