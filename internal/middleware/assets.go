package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const assetCacheControl = "public, max-age=604800, stale-while-revalidate=86400"

// assets serves a static tree with content-hash ETags computed once at
// startup. Dotfiles are never served.
type assets struct {
	prefix string
	etags  map[string]string
	files  http.Handler
}

// AssetsWithCache serves dir under prefix with long-lived caching.
func AssetsWithCache(dir, prefix string) http.Handler {
	return &assets{
		prefix: prefix,
		etags:  hashTree(dir),
		files:  http.StripPrefix(prefix, http.FileServer(http.Dir(dir))),
	}
}

func (a *assets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, a.prefix)
	if hidden(name) {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Vary", "Accept-Encoding")
	w.Header().Set("Cache-Control", assetCacheControl)
	if tag, ok := a.etags[name]; ok {
		w.Header().Set("ETag", tag)
		if etagMatches(r.Header.Get("If-None-Match"), tag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	a.files.ServeHTTP(w, r)
}

func hidden(name string) bool {
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

// etagMatches implements the weak comparison of an If-None-Match list.
func etagMatches(header, tag string) bool {
	if header == "" {
		return false
	}
	want := strings.TrimPrefix(tag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == want {
			return true
		}
	}
	return false
}

func hashTree(dir string) map[string]string {
	tags := make(map[string]string)
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		if tag, err := hashFile(path); err == nil {
			tags["/"+filepath.ToSlash(rel)] = tag
		}
		return nil
	})
	return tags
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	sum := sha256.New()
	if _, err := io.Copy(sum, f); err != nil {
		return "", err
	}
	return `W/"` + hex.EncodeToString(sum.Sum(nil)[:16]) + `"`, nil
}
