// Package render turns a finalized markdown article into a publishable
// HTML page, converting inline [Source: URL] citations into numbered
// footnotes with a generated sources section.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var sourcePattern = regexp.MustCompile(`\[Source:\s*(https?://[^\]\s]+)\s*\]`)

// Renderer converts article markdown to HTML.
type Renderer struct {
	md   goldmark.Markdown
	tmpl *template.Template
}

// New creates a Renderer.
func New() (*Renderer, error) {
	tmpl, err := template.New("article").Parse(articleTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing article template: %w", err)
	}
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
		tmpl: tmpl,
	}, nil
}

type articleData struct {
	Title   string
	Content template.HTML
}

// Render converts the markdown article to a complete HTML page. Inline
// [Source: URL] citations become numbered superscript references, and a
// sources section is appended when any exist.
func (r *Renderer) Render(markdown, title string) (string, error) {
	body, sources := footnoteSources(markdown)
	if len(sources) > 0 {
		var b strings.Builder
		b.WriteString(body)
		b.WriteString("\n\n## Sources\n\n")
		for i, url := range sources {
			fmt.Fprintf(&b, "%d. <a id=\"source-%d\" href=\"%s\">%s</a>\n", i+1, i+1, url, url)
		}
		body = b.String()
	}

	var rendered bytes.Buffer
	if err := r.md.Convert([]byte(body), &rendered); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}

	var page bytes.Buffer
	err := r.tmpl.Execute(&page, articleData{
		Title:   title,
		Content: template.HTML(rendered.String()),
	})
	if err != nil {
		return "", fmt.Errorf("executing article template: %w", err)
	}
	return page.String(), nil
}

// WriteArticleHTML renders the markdown and writes article_final.html
// into dir, typically the run directory.
func (r *Renderer) WriteArticleHTML(dir, markdown, title string) (string, error) {
	page, err := r.Render(markdown, title)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "article_final.html")
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		return "", fmt.Errorf("writing article html: %w", err)
	}
	return path, nil
}

// footnoteSources replaces every [Source: URL] citation with a numbered
// superscript reference and returns the deduplicated URL list in first-use
// order.
func footnoteSources(markdown string) (string, []string) {
	var sources []string
	index := make(map[string]int)

	body := sourcePattern.ReplaceAllStringFunc(markdown, func(m string) string {
		url := sourcePattern.FindStringSubmatch(m)[1]
		n, ok := index[url]
		if !ok {
			sources = append(sources, url)
			n = len(sources)
			index[url] = n
		}
		return fmt.Sprintf(`<sup><a href="#source-%d">[%d]</a></sup>`, n, n)
	})
	return body, sources
}

// Title extracts the first markdown heading, falling back to the topic.
func Title(markdown, topic string) string {
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "# "))
		}
	}
	return topic
}
