package site

import (
	"bytes"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Heading is a section heading collected for the page table of contents.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// Rendered is a converted Markdown body.
type Rendered struct {
	HTML     string
	Title    string
	Headings []Heading
}

var headingsKey = parser.NewContextKey()

// Markdown converts page bodies to HTML. Headings get ids and a permalink
// anchor, and links to sibling .md files are pointed at their .html output.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown creates a converter using permalinkIcon as the anchor text.
func NewMarkdown(permalinkIcon string) *Markdown {
	return &Markdown{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(&pageTransformer{icon: permalinkIcon}, 100)),
		),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)}
}

// Convert renders body.
func (m *Markdown) Convert(body []byte) (*Rendered, error) {
	pc := parser.NewContext()
	doc := m.md.Parser().Parse(text.NewReader(body), parser.WithContext(pc))

	var buf bytes.Buffer
	if err := m.md.Renderer().Render(&buf, body, doc); err != nil {
		return nil, err
	}

	out := &Rendered{HTML: buf.String()}
	if hs, ok := pc.Get(headingsKey).([]Heading); ok {
		out.Headings = hs
	}
	for _, h := range out.Headings {
		if h.Level == 1 {
			out.Title = h.Text
			break
		}
	}
	return out, nil
}

// TOC renders the level 2 and 3 headings as nested lists, or "" when the
// page has none. A level deeper than its predecessor allows is nested one
// step only.
func TOC(headings []Heading) string {
	var b strings.Builder
	depth := 0
	for _, h := range headings {
		if h.Level < 2 || h.Level > 3 {
			continue
		}
		d := min(h.Level-1, depth+1)
		if d > depth {
			b.WriteString(`<ul class="visible nav section-nav flex-column">`)
			depth = d
		} else {
			b.WriteString("</li>")
			for depth > d {
				b.WriteString("</ul></li>")
				depth--
			}
		}
		fmt.Fprintf(&b, `<li class="toc-h%d nav-item toc-entry"><a class="reference internal nav-link" href="#%s">%s</a>`,
			h.Level, html.EscapeString(h.ID), html.EscapeString(h.Text))
	}
	if depth > 0 {
		b.WriteString("</li>")
	}
	for depth > 0 {
		b.WriteString("</ul>")
		depth--
		if depth > 0 {
			b.WriteString("</li>")
		}
	}
	return b.String()
}

type pageTransformer struct {
	icon string
}

func (t *pageTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	var headings []Heading

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			id, _ := node.AttributeString("id")
			idStr := ""
			if b, ok := id.([]byte); ok {
				idStr = string(b)
			}
			headings = append(headings, Heading{Level: node.Level, ID: idStr, Text: plainText(node, source)})
			if idStr != "" && t.icon != "" {
				link := ast.NewLink()
				link.Destination = []byte("#" + idStr)
				link.Title = []byte("Link to this heading")
				link.SetAttributeString("class", []byte("headerlink"))
				icon := ast.NewString([]byte(t.icon))
				icon.SetRaw(true)
				link.AppendChild(link, icon)
				node.AppendChild(node, link)
			}
			return ast.WalkSkipChildren, nil
		case *ast.Link:
			node.Destination = rewriteMarkdownLink(node.Destination)
		}
		return ast.WalkContinue, nil
	})
	pc.Set(headingsKey, headings)
}

func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		default:
			b.WriteString(plainText(c, source))
		}
	}
	return b.String()
}

// rewriteMarkdownLink maps relative "page.md#frag" destinations to
// "page.html#frag".
func rewriteMarkdownLink(dest []byte) []byte {
	u, err := url.Parse(string(dest))
	if err != nil || u.Scheme != "" || u.Host != "" || !strings.HasSuffix(u.Path, ".md") {
		return dest
	}
	u.Path = strings.TrimSuffix(u.Path, ".md") + ".html"
	return []byte(u.String())
}
