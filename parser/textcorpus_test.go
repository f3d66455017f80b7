package parser

import (
	"strings"
	"testing"
)

func TestStripHTML(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "tags stripped",
			html: `<div><p>3 חדרים</p><span>קומה 2</span></div>`,
			want: "3 חדרים קומה 2",
		},
		{
			name: "script contents removed entirely",
			html: `<p>before</p><script>var price = 999;</script><p>after</p>`,
			want: "before after",
		},
		{
			name: "style contents removed entirely",
			html: `<style>.price { color: red; }</style><p>visible</p>`,
			want: "visible",
		},
		{
			name: "entities decoded",
			html: `<p>caf&eacute; &amp; bar</p>`,
			want: "café & bar",
		},
		{
			name: "whitespace collapsed",
			html: "<p>a</p>\n\n\t  <p>b</p>",
			want: "a b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.StripHTML(tt.html)
			if got != tt.want {
				t.Errorf("StripHTML(%q) = %q; want %q", tt.html, got, tt.want)
			}
		})
	}
}

func TestStripHTMLCapsCorpus(t *testing.T) {
	p := newTestParser()

	html := "<p>" + strings.Repeat("א", 300000) + "</p>"
	got := p.StripHTML(html)

	if len(got) > p.cfg.CorpusMaxLen {
		t.Errorf("corpus length %d exceeds cap %d", len(got), p.cfg.CorpusMaxLen)
	}
	// The cap must not split a multi-byte rune.
	if !strings.HasSuffix(got, "א") {
		t.Error("corpus truncation split a rune")
	}
}
