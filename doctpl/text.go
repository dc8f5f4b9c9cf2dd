package doctpl

import (
	"context"
	"strings"
	"unicode/utf8"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
)

func encodeText(ctx context.Context, c Content, _ smartdocs.Settings) ([]byte, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	var b strings.Builder
	title := c.Title
	if title == "" {
		title = "Document"
	}
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", utf8.RuneCountInString(title)) + "\n")
	if c.Subtitle != "" {
		b.WriteString(c.Subtitle + "\n")
	}
	b.WriteString(c.GeneratedLine() + "\n")
	for _, blk := range c.Blocks {
		b.WriteString("\n")
		if blk.Kind == BlockField {
			b.WriteString(blk.Label + ": ")
		}
		b.WriteString(blk.Text + "\n")
	}
	return []byte(b.String()), 0, nil
}
