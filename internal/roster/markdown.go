package roster

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ParseMarkdown folds a Markdown-formatted roster into sections: ATX
// headings act as title lines (a trailing colon in the heading text is
// tolerated and stripped), and text lines beneath a heading are content
// lines. Text before the first heading is discarded, matching the
// plain-text policy, and fenced code blocks are ignored.
func ParseMarkdown(input string) []Section {
	src := []byte(input)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var sections []Section
	active := -1

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n.Kind() {
		case ast.KindHeading:
			title := TitleOf(inlineText(n, src))
			if title == "" {
				return ast.WalkSkipChildren, nil
			}
			sections = append(sections, Section{Title: title})
			active = len(sections) - 1
			return ast.WalkSkipChildren, nil

		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			return ast.WalkSkipChildren, nil

		case ast.KindParagraph, ast.KindTextBlock:
			if active < 0 {
				return ast.WalkSkipChildren, nil
			}
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				if line := strings.TrimSpace(string(seg.Value(src))); line != "" {
					sections[active].Lines = append(sections[active].Lines, line)
				}
			}
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	return sections
}

// inlineText collects the raw text of a node's inline children, so a
// heading like "## *LIST ONE*" still yields "LIST ONE".
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := c.(*ast.Text); ok {
				b.Write(t.Segment.Value(src))
			}
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
