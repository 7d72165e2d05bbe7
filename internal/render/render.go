// Package render parses the html templates and executes pages and fragments.
//
// Each page under templates/pages is parsed together with the layouts and
// partials into its own set, so every page can define "content" and "title"
// without clashing. In dev mode sets are reparsed on every call.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrUnknownPage is returned for a page with no template.
var ErrUnknownPage = errors.New("render: unknown page")

const (
	layoutDir  = "layout"
	partialDir = "partials"
	pageDir    = "pages"
	baseBlock  = "base"
)

// Renderer executes named templates.
type Renderer struct {
	dir   string
	dev   bool
	funcs template.FuncMap

	mu   sync.RWMutex
	sets map[string]*template.Template
}

// New parses every page under dir. Parse errors are reported up front even
// in dev mode.
func New(dir string, dev bool, funcs template.FuncMap) (*Renderer, error) {
	r := &Renderer{dir: dir, dev: dev, funcs: funcs}
	sets, err := r.parse()
	if err != nil {
		return nil, err
	}
	r.sets = sets
	return r, nil
}

// Pages lists the page template names.
func (r *Renderer) Pages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.sets))
	for name := range r.sets {
		out = append(out, name)
	}
	return out
}

// Page renders the full layout for page.
func (r *Renderer) Page(w http.ResponseWriter, status int, page string, data any) error {
	return r.execute(w, status, page, baseBlock, data)
}

// Fragment renders a single named block from the page's set.
func (r *Renderer) Fragment(w http.ResponseWriter, status int, page, block string, data any) error {
	return r.execute(w, status, page, block, data)
}

func (r *Renderer) execute(w http.ResponseWriter, status int, page, block string, data any) error {
	t, err := r.lookup(page)
	if err != nil {
		return err
	}
	// buffer so a failing template never leaves a half-written 200
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, block, data); err != nil {
		return fmt.Errorf("render %s/%s: %w", page, block, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

func (r *Renderer) lookup(page string) (*template.Template, error) {
	if r.dev {
		sets, err := r.parse()
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.sets = sets
		r.mu.Unlock()
	}
	r.mu.RLock()
	t, ok := r.sets[page]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, page)
	}
	return t, nil
}

func (r *Renderer) parse() (map[string]*template.Template, error) {
	shared, err := collect(filepath.Join(r.dir, layoutDir), filepath.Join(r.dir, partialDir))
	if err != nil {
		return nil, err
	}
	pages, err := collect(filepath.Join(r.dir, pageDir))
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no templates found under %s", filepath.Join(r.dir, pageDir))
	}
	root, err := template.New("_root").Funcs(r.funcs).ParseFiles(shared...)
	if err != nil {
		return nil, err
	}
	sets := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		clone, err := root.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := clone.ParseFiles(p); err != nil {
			return nil, err
		}
		sets[strings.TrimSuffix(filepath.Base(p), ".tmpl")] = clone
	}
	return sets, nil
}

// collect discovers .tmpl files recursively; ParseGlob doesn't support **.
func collect(dirs ...string) ([]string, error) {
	var files []string
	for _, dir := range dirs {
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), ".tmpl") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
