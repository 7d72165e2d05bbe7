package content

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// Page is a markdown document rendered to sanitized HTML.
type Page struct {
	Slug        string
	Title       string
	Description string
	Body        template.HTML
}

type frontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Typographer))
	policy   = bluemonday.UGCPolicy()
)

func readPage(path string) (Page, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Page{}, err
	}
	head, body := frontMatterOf(raw)
	var front frontMatter
	if err := yaml.Unmarshal(head, &front); err != nil {
		return Page{}, fmt.Errorf("content: %s: front matter: %w", path, err)
	}
	var html bytes.Buffer
	if err := markdown.Convert(body, &html); err != nil {
		return Page{}, fmt.Errorf("content: %s: markdown: %w", path, err)
	}
	return Page{
		Slug:        strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Title:       strings.TrimSpace(front.Title),
		Description: strings.TrimSpace(front.Description),
		Body:        template.HTML(policy.SanitizeBytes(html.Bytes())),
	}, nil
}

// frontMatterOf splits a leading "---" delimited YAML block from the
// markdown body. Without one, head is nil and body is the whole file.
func frontMatterOf(raw []byte) (head, body []byte) {
	raw = bytes.TrimPrefix(raw, []byte("\ufeff"))
	raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	rest, ok := bytes.CutPrefix(raw, []byte("---\n"))
	if !ok {
		return nil, raw
	}
	if b, empty := bytes.CutPrefix(rest, []byte("---\n")); empty {
		return nil, b
	}
	if h, b, found := bytes.Cut(rest, []byte("\n---\n")); found {
		return h, bytes.TrimLeft(b, "\n")
	}
	if h, found := bytes.CutSuffix(bytes.TrimRight(rest, "\n"), []byte("\n---")); found {
		return h, nil
	}
	return nil, raw
}
