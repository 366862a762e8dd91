package assets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_DeduplicatesFiles(t *testing.T) {
	l := NewList()
	assert.True(t, l.Add(Asset{Kind: CSS, Filename: "_static/styles/theme.css"}))
	assert.False(t, l.Add(Asset{Kind: CSS, Filename: "_static/styles/theme.css"}))
	assert.True(t, l.Add(Asset{Kind: JS, Body: "a()"}))
	assert.True(t, l.Add(Asset{Kind: JS, Body: "a()"}))

	assert.Equal(t, 3, l.Len())
	assert.Equal(t, []string{"_static/styles/theme.css"}, l.Filenames())
}

func TestList_PriorityOrderIsStable(t *testing.T) {
	l := NewList(
		Asset{Kind: JS, Filename: "b.js"},
		Asset{Kind: JS, Filename: "first.js", Priority: 100},
		Asset{Kind: JS, Filename: "c.js"},
	)
	assert.Equal(t, []string{"first.js", "b.js", "c.js"}, l.Filenames())
}

func TestList_RemoveAndClone(t *testing.T) {
	l := NewList(Asset{Kind: CSS, Filename: "a.css"}, Asset{Kind: CSS, Filename: "b.css"})
	c := l.Clone()

	require.True(t, l.Remove("a.css"))
	assert.False(t, l.Remove("a.css"))
	assert.Equal(t, []string{"b.css"}, l.Filenames())
	assert.Equal(t, []string{"a.css", "b.css"}, c.Filenames())
}

func TestAsset_Tag(t *testing.T) {
	cases := []struct {
		name  string
		asset Asset
		want  string
	}{
		{"stylesheet", Asset{Kind: CSS, Filename: "a.css"}, `<link rel="stylesheet" href="a.css"/>`},
		{"favicon", Asset{Kind: CSS, Filename: "f.png", Attributes: map[string]string{"rel": "icon", "sizes": "16x16", "type": "image/png"}},
			`<link rel="icon" href="f.png" sizes="16x16" type="image/png"/>`},
		{"deferred script", Asset{Kind: JS, Filename: "p.js", Loading: LoadDefer, Attributes: map[string]string{"data-domain": "x.org"}},
			`<script src="p.js" defer="" data-domain="x.org"></script>`},
		{"inline script", Asset{Kind: JS, Body: "var a = '<b>';"}, `<script>var a = '<b>';</script>`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.asset.Tag())
		})
	}
}

func TestInject_AppendsToHead(t *testing.T) {
	doc := []byte("<!DOCTYPE html><html><head><title>x</title></head><body><p>hi</p></body></html>")
	out, err := Inject(doc, []Asset{
		{Kind: CSS, Filename: "_static/a.css"},
		{Kind: JS, Body: "DOCUMENTATION_OPTIONS.pagename = 'index';"},
	})
	require.NoError(t, err)

	s := string(out)
	headEnd := strings.Index(s, "</head>")
	require.Positive(t, headEnd)
	css := strings.Index(s, `href="_static/a.css"`)
	js := strings.Index(s, "DOCUMENTATION_OPTIONS.pagename")
	assert.True(t, css > 0 && css < js && js < headEnd)
	assert.Contains(t, s, "<p>hi</p>")
}

func TestInject_SynthesizesHead(t *testing.T) {
	out, err := Inject([]byte("<p>fragment</p>"), []Asset{{Kind: JS, Filename: "x.js"}})
	require.NoError(t, err)
	assert.Contains(t, string(out), `<head><script src="x.js"></script>`)
}
