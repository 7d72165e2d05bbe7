package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const minimalSite = `business:
  name: Test Panels
highlights:
  - icon: wrench
    title: Repairs
reviews:
  - id: 1
    name: A
    service: Collision Repair
    rating: 5
    date: "2024-01-15"
`

func writeSite(t *testing.T, dir, site string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, siteFile), []byte(site), 0o600))
}

func TestLoadShippedContent(t *testing.T) {
	c, err := Load("../../content")
	require.NoError(t, err)
	require.Equal(t, "Wonderland Panelbeaters", c.Site.Business.Name)
	require.Len(t, c.Site.Services, 3)
	require.Len(t, c.Site.Process, 5)
	require.Equal(t, 5, c.Site.Process[4].Number)
	require.Equal(t, 6, c.Gallery.Len())

	list, err := c.Site.ReviewList()
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, 2024, list[0].Date.Year())

	about, err := c.Page("about")
	require.NoError(t, err)
	require.Equal(t, "The Perfect Panels Journey", about.Title)
	require.Contains(t, string(about.Body), "<h2")
}

func TestPageNotFound(t *testing.T) {
	c, err := Load("../../content")
	require.NoError(t, err)
	_, err = c.Page("careers")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadRejectsUnknownIcon(t *testing.T) {
	dir := t.TempDir()
	writeSite(t, dir, strings.Replace(minimalSite, "icon: wrench", "icon: unicorn", 1))
	_, err := Load(dir)
	require.ErrorContains(t, err, `unknown icon "unicorn"`)
}

func TestLoadRejectsInvalidReviewSeed(t *testing.T) {
	dir := t.TempDir()
	writeSite(t, dir, strings.Replace(minimalSite, "rating: 5", "rating: 9", 1))
	_, err := Load(dir)
	require.Error(t, err)
}

func TestMarkdownIsSanitized(t *testing.T) {
	dir := t.TempDir()
	writeSite(t, dir, minimalSite)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, pagesDir), 0o755))
	md := "---\ntitle: Hi\n---\n# Hello\n\n<script>alert(1)</script>\n\n[x](javascript:alert(1))\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, pagesDir, "hi.md"), []byte(md), 0o600))

	c, err := Load(dir)
	require.NoError(t, err)
	p, err := c.Page("hi")
	require.NoError(t, err)
	require.Contains(t, string(p.Body), "Hello</h1>")
	require.NotContains(t, string(p.Body), "<script")
	require.NotContains(t, string(p.Body), "javascript:")
}

func TestReloadKeepsPreviousCatalogOnError(t *testing.T) {
	dir := t.TempDir()
	writeSite(t, dir, minimalSite)

	var failures atomic.Int32
	src, err := NewSource(dir, WithReloadHook(func(err error) {
		if err != nil {
			failures.Add(1)
		}
	}))
	require.NoError(t, err)
	before := src.Current()

	writeSite(t, dir, "business: [")
	require.Error(t, src.Reload())
	require.Same(t, before, src.Current())
	require.EqualValues(t, 1, failures.Load())

	writeSite(t, dir, strings.Replace(minimalSite, "Test Panels", "Renamed Panels", 1))
	require.NoError(t, src.Reload())
	require.Equal(t, "Renamed Panels", src.Current().Site.Business.Name)
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	writeSite(t, dir, minimalSite)
	src, err := NewSource(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- src.Watch(ctx, 10*time.Millisecond) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	require.Eventually(t, func() bool {
		writeSite(t, dir, strings.Replace(minimalSite, "Test Panels", "Watched Panels", 1))
		return src.Current().Site.Business.Name == "Watched Panels"
	}, 5*time.Second, 50*time.Millisecond)
}

func TestFrontMatterOf(t *testing.T) {
	cases := []struct {
		name, in, head, body string
	}{
		{"none", "# Title\n", "", "# Title\n"},
		{"block", "---\ntitle: A\n---\n\nBody\n", "title: A", "Body\n"},
		{"crlf", "---\r\ntitle: A\r\n---\r\nBody", "title: A", "Body"},
		{"empty block", "---\n---\nBody", "", "Body"},
		{"only front matter", "---\ntitle: A\n---\n", "title: A", ""},
		{"unterminated", "---\ntitle: A\n", "", "---\ntitle: A\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			head, body := frontMatterOf([]byte(tc.in))
			require.Equal(t, tc.head, string(head))
			require.Equal(t, tc.body, string(body))
		})
	}
}
