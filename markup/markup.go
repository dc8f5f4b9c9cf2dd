// Package markup renders the lightweight markup used in assignment and blog
// bodies into a display tree for previews. The rule set is fixed:
//
//	# Heading / ## Subheading / ### Section
//	**Whole line in bold**
//	- bullet item
//	1. numbered item
//
// A blank line separates paragraphs; any other line is paragraph text.
// Document generation never interprets markup; it prints the raw text.
package markup

import (
	"html"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind identifies a display node.
type Kind int

const (
	Paragraph Kind = iota
	Heading
	Strong
	Bullet
	Numbered
)

func (k Kind) String() string {
	switch k {
	case Heading:
		return "heading"
	case Strong:
		return "strong"
	case Bullet:
		return "bullet"
	case Numbered:
		return "numbered"
	default:
		return "paragraph"
	}
}

// Node is one line of the display tree.
type Node struct {
	Kind   Kind   `json:"kind"`
	Level  int    `json:"level,omitempty"`  // 1-3 for headings
	Number int    `json:"number,omitempty"` // item number for numbered items
	Text   string `json:"text"`
}

var (
	headingRe  = regexp.MustCompile(`^(#{1,3}) (.+)$`)
	strongRe   = regexp.MustCompile(`^\*\*(.+)\*\*$`)
	bulletRe   = regexp.MustCompile(`^- (.+)$`)
	numberedRe = regexp.MustCompile(`^(\d+)\. (.+)$`)
)

// Parse turns text into display nodes, one per non-blank line.
func Parse(text string) []Node {
	var nodes []Node
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			continue
		}
		nodes = append(nodes, parseLine(line))
	}
	return nodes
}

func parseLine(line string) Node {
	if m := headingRe.FindStringSubmatch(line); m != nil {
		return Node{Kind: Heading, Level: len(m[1]), Text: m[2]}
	}
	if m := strongRe.FindStringSubmatch(line); m != nil {
		return Node{Kind: Strong, Text: m[1]}
	}
	if m := bulletRe.FindStringSubmatch(line); m != nil {
		return Node{Kind: Bullet, Text: m[1]}
	}
	if m := numberedRe.FindStringSubmatch(line); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return Node{Kind: Numbered, Number: n, Text: m[2]}
		}
	}
	return Node{Kind: Paragraph, Text: line}
}

// HTML renders nodes as escaped HTML. Runs of bullet or numbered items are
// wrapped in a single list element.
func HTML(nodes []Node) string {
	var b strings.Builder
	open := ""
	closeList := func() {
		if open != "" {
			b.WriteString("</" + open + ">\n")
			open = ""
		}
	}
	for _, n := range nodes {
		text := html.EscapeString(n.Text)
		switch n.Kind {
		case Heading:
			closeList()
			tag := "h" + strconv.Itoa(n.Level)
			b.WriteString("<" + tag + ">" + text + "</" + tag + ">\n")
		case Strong:
			closeList()
			b.WriteString("<p><strong>" + text + "</strong></p>\n")
		case Bullet:
			if open != "ul" {
				closeList()
				b.WriteString("<ul>\n")
				open = "ul"
			}
			b.WriteString("<li>" + text + "</li>\n")
		case Numbered:
			if open != "ol" {
				closeList()
				if n.Number > 1 {
					b.WriteString(`<ol start="` + strconv.Itoa(n.Number) + `">` + "\n")
				} else {
					b.WriteString("<ol>\n")
				}
				open = "ol"
			}
			b.WriteString("<li>" + text + "</li>\n")
		default:
			closeList()
			b.WriteString("<p>" + text + "</p>\n")
		}
	}
	closeList()
	return b.String()
}

// Render is shorthand for HTML(Parse(text)).
func Render(text string) string { return HTML(Parse(text)) }

// WordsPerMinute is the reading speed used for ReadMinutes.
const WordsPerMinute = 200

// Stats summarizes a body of text.
type Stats struct {
	Words       int `json:"words"`
	Characters  int `json:"characters"`
	ReadMinutes int `json:"readMinutes"`
}

// Count returns word and character counts and the reading time, rounded up
// to whole minutes.
func Count(text string) Stats {
	words := len(strings.Fields(text))
	return Stats{
		Words:       words,
		Characters:  utf8.RuneCountInString(text),
		ReadMinutes: int(math.Ceil(float64(words) / WordsPerMinute)),
	}
}

// ReadTime formats minutes the way blog cards show them.
func (s Stats) ReadTime() string {
	m := s.ReadMinutes
	if m < 1 {
		m = 1
	}
	return strconv.Itoa(m) + " min read"
}
