package view_test

import (
	"html/template"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/myth21/viewcontroller/pkg/view"
)

func TestMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want template.HTML
	}{
		{"emphasis", "Ship **fast**", "<p>Ship <strong>fast</strong></p>\n"},
		{"list", "- a\n- b", "<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n"},
		{"links get nofollow", "[docs](https://example.com)", `<p><a href="https://example.com" rel="nofollow">docs</a></p>` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := view.Markdown(tt.src)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestMarkdown_DropsRawHTML(t *testing.T) {
	t.Parallel()

	got, err := view.Markdown("<script>alert(1)</script>\n\n<b onclick=\"x()\">hi</b>")
	require.NoError(t, err)
	require.NotContains(t, string(got), "<script")
	require.NotContains(t, string(got), "onclick")
}

func TestView_MarkdownFunc(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"note.html": {Data: []byte(`<div>{{markdown .Text}}</div>`)}}
	out, err := view.New(fsys).RenderPart("note", map[string]any{"Text": "*hi*"})
	require.NoError(t, err)
	require.Equal(t, "<div><p><em>hi</em></p>\n</div>", out)
}
