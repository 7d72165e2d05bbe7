package render

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemplates(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}
	return dir
}

var testSet = map[string]string{
	"layout/base.tmpl":   `{{define "base"}}<main>{{template "content" .}}</main>{{end}}`,
	"partials/star.tmpl": `{{define "star"}}{{range stars .}}{{if .}}*{{else}}.{{end}}{{end}}{{end}}`,
	"pages/home.tmpl":    `{{define "content"}}home {{template "star" 3}} {{t "en" "nav.home"}}{{end}}`,
	"pages/about.tmpl":   `{{define "content"}}about {{template "fragment" .}}{{end}}{{define "fragment"}}<p>{{.}}</p>{{end}}`,
}

func TestPagesDoNotClash(t *testing.T) {
	r, err := New(writeTemplates(t, testSet), false, Funcs(nil))
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"home", "about"}, r.Pages())

	rec := httptest.NewRecorder()
	require.NoError(t, r.Page(rec, http.StatusOK, "home", nil))
	require.Equal(t, "<main>home ***.. nav.home</main>", rec.Body.String())
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	require.NoError(t, r.Fragment(rec, http.StatusAccepted, "about", "fragment", "<b>"))
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, "<p>&lt;b&gt;</p>", rec.Body.String())
}

func TestUnknownPageAndFailedExecution(t *testing.T) {
	r, err := New(writeTemplates(t, testSet), false, Funcs(nil))
	require.NoError(t, err)

	require.ErrorIs(t, r.Page(httptest.NewRecorder(), http.StatusOK, "missing", nil), ErrUnknownPage)

	rec := httptest.NewRecorder()
	require.Error(t, r.Fragment(rec, http.StatusOK, "home", "nope", nil))
	require.Zero(t, rec.Body.Len(), "nothing is written on failure")
}

func TestDevModeReparses(t *testing.T) {
	dir := writeTemplates(t, testSet)
	r, err := New(dir, true, Funcs(nil))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "pages", "home.tmpl"), []byte(`{{define "content"}}edited{{end}}`), 0o600))
	rec := httptest.NewRecorder()
	require.NoError(t, r.Page(rec, http.StatusOK, "home", nil))
	require.Equal(t, "<main>edited</main>", rec.Body.String())
}

func TestNewFailsWithoutPages(t *testing.T) {
	_, err := New(writeTemplates(t, map[string]string{"layout/base.tmpl": `{{define "base"}}{{end}}`, "pages/.keep": ""}), false, nil)
	require.Error(t, err)
}

func TestDict(t *testing.T) {
	m, err := dict("a", 1, "b", "two")
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": 1, "b": "two"}, m)
	_, err = dict("a")
	require.Error(t, err)
}
