package parser

import (
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmtext "github.com/yuin/goldmark/text"
)

// extractMarkdown parses markdown into an AST and pulls out the plain
// text, so formatting syntax never ends up inside a segment.
func extractMarkdown(filePath string) ([]string, error) {
	src, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return []string{markdownToText(src)}, nil
}

func markdownToText(src []byte) string {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	root := md.Parser().Parse(gmtext.NewReader(src))

	var buf strings.Builder
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.Paragraph, *ast.Heading, *ast.ListItem:
			if buf.Len() > 0 {
				buf.WriteString("\n\n")
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}
