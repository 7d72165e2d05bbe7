// Package i18n loads the UI message catalogs and picks a language for a request.
package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/text/language"
)

// Bundle holds one flat key/value catalog per supported language.
type Bundle struct {
	dict      map[string]map[string]string
	fallback  string
	supported []string
	matcher   language.Matcher
}

// Load reads <dir>/<lang>.json for each supported language. The fallback
// catalog is mandatory; other languages may be missing.
func Load(dir string, fallback string, supported []string) (*Bundle, error) {
	if len(supported) == 0 {
		supported = []string{fallback}
	}
	if !slices.Contains(supported, fallback) {
		supported = append([]string{fallback}, supported...)
	}
	b := &Bundle{dict: map[string]map[string]string{}, fallback: fallback}
	for _, l := range supported {
		raw, err := os.ReadFile(filepath.Join(dir, l+".json"))
		if err != nil {
			if l == fallback {
				return nil, fmt.Errorf("load locale %s: %w", l, err)
			}
			continue
		}
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", l, err)
		}
		b.dict[l] = m
		b.supported = append(b.supported, l)
	}
	// the matcher returns the index of the first tag on no match, so the
	// fallback goes first
	tags := make([]language.Tag, 0, len(b.supported))
	tags = append(tags, language.Make(fallback))
	for _, l := range b.supported {
		if l != fallback {
			tags = append(tags, language.Make(l))
		}
	}
	b.matcher = language.NewMatcher(tags)
	return b, nil
}

// Supported lists the loaded languages, sorted.
func (b *Bundle) Supported() []string {
	out := slices.Clone(b.supported)
	slices.Sort(out)
	return out
}

// Fallback returns the configured fallback language.
func (b *Bundle) Fallback() string { return b.fallback }

// T returns translation for key in lang, falling back to default and finally key.
func (b *Bundle) T(lang, key string) string {
	if m, ok := b.dict[lang]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if v, ok := b.dict[b.fallback][key]; ok {
		return v
	}
	return key
}

// Has reports whether key exists in the fallback catalog.
func (b *Bundle) Has(key string) bool {
	_, ok := b.dict[b.fallback][key]
	return ok
}

// Resolve chooses the best supported language for an Accept-Language header.
func (b *Bundle) Resolve(acceptLang string) string {
	if acceptLang == "" {
		return b.fallback
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(prefs) == 0 {
		return b.fallback
	}
	_, idx, conf := b.matcher.Match(prefs...)
	if conf == language.No {
		return b.fallback
	}
	if idx == 0 {
		return b.fallback
	}
	return b.orderedNonFallback()[idx-1]
}

func (b *Bundle) orderedNonFallback() []string {
	out := make([]string, 0, len(b.supported))
	for _, l := range b.supported {
		if l != b.fallback {
			out = append(out, l)
		}
	}
	return out
}
