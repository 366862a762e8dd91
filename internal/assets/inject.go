package assets

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
)

// Node builds the HTML element for a.
func (a Asset) Node() *html.Node {
	var n *html.Node
	switch a.Kind {
	case CSS:
		if a.Inline() {
			n = &html.Node{Type: html.ElementNode, DataAtom: atom.Style, Data: "style"}
			n.AppendChild(&html.Node{Type: html.TextNode, Data: a.Body})
			break
		}
		n = &html.Node{Type: html.ElementNode, DataAtom: atom.Link, Data: "link"}
		rel := "stylesheet"
		if r, ok := a.Attributes["rel"]; ok {
			rel = r
		}
		n.Attr = append(n.Attr, html.Attribute{Key: "rel", Val: rel}, html.Attribute{Key: "href", Val: a.Filename})
	default:
		n = &html.Node{Type: html.ElementNode, DataAtom: atom.Script, Data: "script"}
		if a.Inline() {
			n.AppendChild(&html.Node{Type: html.TextNode, Data: a.Body})
		} else {
			n.Attr = append(n.Attr, html.Attribute{Key: "src", Val: a.Filename})
		}
		if a.Loading != LoadBlocking {
			n.Attr = append(n.Attr, html.Attribute{Key: string(a.Loading)})
		}
	}
	for _, k := range a.attrKeys() {
		if k == "rel" && a.Kind == CSS {
			continue
		}
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: a.Attributes[k]})
	}
	return n
}

// Tag renders a as a standalone HTML fragment.
func (a Asset) Tag() string {
	var buf bytes.Buffer
	_ = html.Render(&buf, a.Node())
	return buf.String()
}

// Inject parses doc and appends a tag for each asset to <head>, in order.
// The parser synthesizes <head> when the document lacks one.
func Inject(doc []byte, items []Asset) ([]byte, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryTemplate, "failed to parse rendered page").Build()
	}
	head := findElement(root, atom.Head)
	if head == nil {
		return nil, errors.TemplateError("rendered page has no <head>").Build()
	}
	for _, a := range items {
		head.AppendChild(a.Node())
		head.AppendChild(&html.Node{Type: html.TextNode, Data: "\n"})
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, errors.WrapError(err, errors.CategoryTemplate, "failed to render page").Build()
	}
	out := buf.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return []byte(out), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
