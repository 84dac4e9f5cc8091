package poststore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"script removed", `<script>alert(1)</script><p>hi</p>`, `<p>hi</p>`},
		{"style element removed", `<style>p{color:red}</style><p>x</p>`, `<p>x</p>`},
		{"inline style dropped", `<p style="color:red">x</p>`, `<p>x</p>`},
		{"allowed formatting kept", `<p><b>b</b><strong>s</strong><i>i</i><em>e</em></p>`, `<p><b>b</b><strong>s</strong><i>i</i><em>e</em></p>`},
		{"lists kept", `<ol><li>1</li></ol><ul><li>2</li></ul>`, `<ol><li>1</li></ol><ul><li>2</li></ul>`},
		{"headings up to h3", `<h1>a</h1><h2>b</h2><h3>c</h3><h4>d</h4>`, `<h1>a</h1><h2>b</h2><h3>c</h3>d`},
		{"blockquote kept", `<blockquote>q</blockquote>`, `<blockquote>q</blockquote>`},
		{"unknown tag unwrapped", `<p><span>keep</span></p>`, `<p>keep</p>`},
		{"https link kept", `<a href="https://example.com" title="t">x</a>`, `<a href="https://example.com" title="t">x</a>`},
		{"javascript link dropped", `<a href="javascript:alert(1)">x</a>`, `x`},
		{"ftp link dropped", `<a href="ftp://example.com/f">x</a>`, `x`},
		{"iframe removed", `<iframe src="https://evil"></iframe><p>ok</p>`, `<p>ok</p>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		`<p>Fish &amp; chips "quoted" 'single'</p>`,
		`<p>a < b > c</p>`,
		`<a href="https://example.com/?a=1&b=2">q</a>`,
		`<div><h1>t</h1><p onclick="x">y</p></div>`,
		`<p>unclosed`,
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
	}
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, strings.Repeat("a", 120)+"...", Snippet(strings.Repeat("a", 150)))
	assert.Equal(t, strings.Repeat("a", 80), Snippet(strings.Repeat("a", 80)))
	assert.Equal(t, strings.Repeat("a", 120), Snippet(strings.Repeat("a", 120)))

	// counted in characters, not bytes
	long := strings.Repeat("é", 121)
	assert.Equal(t, strings.Repeat("é", 120)+"...", Snippet(long))
}

func TestHasText(t *testing.T) {
	assert.False(t, hasText(""))
	assert.False(t, hasText("<p></p>"))
	assert.False(t, hasText("<p> &nbsp; </p>"))
	assert.True(t, hasText("<p>x</p>"))
}
