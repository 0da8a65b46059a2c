// Package markdown renders the small markdown subset produced by the chat
// model (headings, bold, italic, bullet and numbered lists, paragraphs) into
// HTML that is safe to embed in a page.
//
// Parsing and rendering are separate steps: Parse produces typed blocks and
// Render emits HTML. All text is escaped before inline markup is applied, so
// the only tags in the output are the ones this package generates.
package markdown

import (
	"html"
	"html/template"
	"regexp"
	"strings"
)

// Kind identifies a block type.
type Kind int

const (
	KindText Kind = iota
	KindHeading
	KindList
)

// Block is one element of a paragraph.
type Block struct {
	Kind    Kind
	Level   int      // heading level, 1..3
	Ordered bool     // numbered list
	Text    string   // raw text of a heading or text line
	Items   []string // raw list item texts
}

// Paragraph is a blank-line separated chunk of the input.
type Paragraph struct {
	Blocks []Block
}

// Structured reports whether the paragraph contains a heading or a list.
func (p Paragraph) Structured() bool {
	for _, b := range p.Blocks {
		if b.Kind != KindText {
			return true
		}
	}
	return false
}

var (
	paragraphSep = regexp.MustCompile(`\n\s*\n`)
	headingRe    = regexp.MustCompile(`^(#{1,3}) (.*)$`)
	bulletRe     = regexp.MustCompile(`^- (.*)$`)
	numberedRe   = regexp.MustCompile(`^\d+\. (.*)$`)
	boldRe       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe     = regexp.MustCompile(`\*(.+?)\*`)
)

// Parse splits text into paragraphs of typed blocks.
func Parse(text string) []Paragraph {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var paras []Paragraph
	for _, chunk := range paragraphSep.Split(text, -1) {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		chunk = strings.Trim(chunk, "\n")
		paras = append(paras, parseParagraph(chunk))
	}
	return paras
}

func parseParagraph(chunk string) Paragraph {
	var p Paragraph
	var list *Block

	flush := func() {
		if list != nil {
			p.Blocks = append(p.Blocks, *list)
			list = nil
		}
	}

	for _, line := range strings.Split(chunk, "\n") {
		if m := bulletRe.FindStringSubmatch(line); m != nil {
			if list != nil && list.Ordered {
				flush()
			}
			if list == nil {
				list = &Block{Kind: KindList}
			}
			list.Items = append(list.Items, m[1])
			continue
		}
		if m := numberedRe.FindStringSubmatch(line); m != nil {
			if list != nil && !list.Ordered {
				flush()
			}
			if list == nil {
				list = &Block{Kind: KindList, Ordered: true}
			}
			list.Items = append(list.Items, m[1])
			continue
		}

		flush()
		if m := headingRe.FindStringSubmatch(line); m != nil {
			p.Blocks = append(p.Blocks, Block{Kind: KindHeading, Level: len(m[1]), Text: m[2]})
			continue
		}
		p.Blocks = append(p.Blocks, Block{Kind: KindText, Text: line})
	}
	flush()
	return p
}

// Render emits HTML for parsed paragraphs.
func Render(paras []Paragraph) template.HTML {
	var sb strings.Builder
	for _, p := range paras {
		if !p.Structured() {
			lines := make([]string, 0, len(p.Blocks))
			for _, b := range p.Blocks {
				lines = append(lines, inline(b.Text))
			}
			sb.WriteString("<p>" + strings.Join(lines, "<br>") + "</p>")
			continue
		}
		for _, b := range p.Blocks {
			renderBlock(&sb, b)
		}
	}
	return template.HTML(sb.String())
}

func renderBlock(sb *strings.Builder, b Block) {
	switch b.Kind {
	case KindHeading:
		tag := []string{"h1", "h2", "h3"}[b.Level-1]
		sb.WriteString("<" + tag + ">" + inline(b.Text) + "</" + tag + ">")
	case KindList:
		tag := "ul"
		if b.Ordered {
			tag = "ol"
		}
		sb.WriteString("<" + tag + ">")
		for _, item := range b.Items {
			sb.WriteString("<li>" + inline(item) + "</li>")
		}
		sb.WriteString("</" + tag + ">")
	default:
		if strings.TrimSpace(b.Text) == "" {
			return
		}
		sb.WriteString("<p>" + inline(b.Text) + "</p>")
	}
}

// inline escapes s and applies bold, then italic.
func inline(s string) string {
	s = html.EscapeString(s)
	s = boldRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicRe.ReplaceAllString(s, "<em>$1</em>")
	return s
}

// ToHTML parses and renders text in one step.
func ToHTML(text string) template.HTML {
	if text == "" {
		return ""
	}
	return Render(Parse(text))
}
