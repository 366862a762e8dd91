package site

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown_Convert(t *testing.T) {
	md := NewMarkdown("#")
	r, err := md.Convert([]byte("# Getting started\n\nSee [install](install.md#pip) and [web](https://x.org/a.md).\n\n## Install\n\n### With pip\n\n## Usage\n"))
	require.NoError(t, err)

	assert.Equal(t, "Getting started", r.Title)
	require.Len(t, r.Headings, 4)
	assert.Equal(t, Heading{Level: 2, ID: "install", Text: "Install"}, r.Headings[1])

	assert.Contains(t, r.HTML, `href="install.html#pip"`)
	assert.Contains(t, r.HTML, `href="https://x.org/a.md"`)
	assert.Contains(t, r.HTML, `<a href="#install" title="Link to this heading" class="headerlink">#</a>`)
}

func TestMarkdown_NoPermalinkIcon(t *testing.T) {
	r, err := NewMarkdown("").Convert([]byte("## Title\n"))
	require.NoError(t, err)
	assert.NotContains(t, r.HTML, "headerlink")
	assert.Empty(t, r.Title)
}

func TestTOC(t *testing.T) {
	assert.Empty(t, TOC(nil))
	assert.Empty(t, TOC([]Heading{{Level: 1, ID: "t", Text: "T"}}))

	toc := TOC([]Heading{
		{Level: 1, ID: "t", Text: "T"},
		{Level: 2, ID: "a", Text: "A"},
		{Level: 3, ID: "b", Text: "B & C"},
		{Level: 2, ID: "c", Text: "C"},
	})
	assert.Equal(t, 2, strings.Count(toc, "<ul"))
	assert.Equal(t, strings.Count(toc, "<ul"), strings.Count(toc, "</ul>"))
	assert.Equal(t, strings.Count(toc, "<li"), strings.Count(toc, "</li>"))
	assert.Contains(t, toc, `href="#b">B &amp; C</a>`)
	assert.Less(t, strings.Index(toc, `href="#b"`), strings.Index(toc, `href="#c"`))

	// A level 3 heading with no level 2 before it is not nested twice.
	toc = TOC([]Heading{{Level: 3, ID: "x", Text: "X"}})
	assert.Equal(t, 1, strings.Count(toc, "<ul"))
}
