package view

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md         goldmark.Markdown
	safePolicy *bluemonday.Policy
	mdOnce     sync.Once
)

func initMarkdown() {
	mdOnce.Do(func() {
		md = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))

		safePolicy = bluemonday.NewPolicy()
		safePolicy.AllowStandardURLs()
		safePolicy.AllowElements(
			"p", "br", "hr",
			"strong", "b", "em", "i", "del",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
			"h1", "h2", "h3", "h4",
		)
		safePolicy.AllowAttrs("href").OnElements("a")
		safePolicy.RequireNoFollowOnLinks(true)
	})
}

// Markdown converts user-written markdown to HTML safe to embed in a page.
// Raw HTML in src is escaped by the converter and anything else the safe
// policy does not allow is stripped.
//
// Templates call it as {{markdown .Text}}.
func Markdown(src string) (template.HTML, error) {
	initMarkdown()

	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(safePolicy.SanitizeBytes(buf.Bytes())), nil
}
